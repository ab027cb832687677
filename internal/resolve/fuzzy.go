package resolve

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/optflag"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// Reporter receives resolution failures that no fallback covered.
type Reporter interface {
	Report(f *jast.File, n jast.NodeID, err error)
}

// Fuzzy wraps a Solver with the flag-gated fallbacks used while marking.
// Unresolved references are reported and yield no targets; only invariant
// violations are returned as errors.
type Fuzzy struct {
	S        *Solver
	Flags    optflag.Set
	Reporter Reporter

	byNameOnce sync.Once
	byName     map[string][]*symbols.Method
}

// NewFuzzy returns a fuzzy resolver over s.
func NewFuzzy(s *Solver, flags optflag.Set, r Reporter) *Fuzzy {
	return &Fuzzy{S: s, Flags: flags, Reporter: r}
}

// fail swallows recoverable errors and passes invariant violations through.
func (z *Fuzzy) fail(f *jast.File, id jast.NodeID, err error) error {
	var ue *UnresolvedError
	if !errors.As(err, &ue) {
		return err
	}
	if z.suppressed(f, id) {
		return nil
	}
	if z.Reporter != nil {
		z.Reporter.Report(f, id, err)
	} else {
		z.S.Logger.Debug("unresolved", "file", f.Path, "line", ue.Line, "err", err)
	}
	return nil
}

// suppressed applies the quiet heuristics for references that are expected
// not to resolve on their own.
func (z *Fuzzy) suppressed(f *jast.File, id jast.NodeID) bool {
	if z.Flags.Enabled(optflag.PackageNameHeuristic) && z.packageFragment(f, id) {
		return true
	}
	if z.Flags.Enabled(optflag.AncestorResolutionFallback) {
		anc := f.Ancestor(id, "field_access", "method_invocation")
		if anc != jast.NoNode {
			var err error
			if f.Kind(anc) == "field_access" {
				_, err = z.S.ResolveFieldAccess(f, anc)
			} else {
				_, err = z.S.ResolveCall(f, anc)
			}
			if err == nil {
				return true
			}
		}
	}
	return false
}

func (z *Fuzzy) packageFragment(f *jast.File, id jast.NodeID) bool {
	switch f.Kind(id) {
	case "identifier", "type_identifier", "scoped_identifier", "scoped_type_identifier", "field_access":
	default:
		return false
	}
	text := strings.Join(strings.Fields(f.Text(id)), "")
	return z.S.P.IsPackage(text)
}

// TypeName resolves a type name. The first element is the named type; the
// rest are the types named by its qualifying segments, outermost first.
func (z *Fuzzy) TypeName(f *jast.File, id jast.NodeID) ([]Resolved, error) {
	r, quals, err := z.S.ResolveTypeName(f, id)
	if err != nil {
		return nil, z.fail(f, id, err)
	}
	return append([]Resolved{r}, quals...), nil
}

// TypeNode resolves a full type node (generic, array, wildcard) without
// failing.
func (z *Fuzzy) TypeNode(f *jast.File, id jast.NodeID) (jtypes.Type, error) {
	t, err := z.S.ResolveTypeNode(f, id)
	if err != nil {
		return nil, z.fail(f, id, err)
	}
	return t, nil
}

// Name resolves an expression name.
func (z *Fuzzy) Name(f *jast.File, id jast.NodeID) ([]Resolved, error) {
	r, err := z.S.ResolveName(f, id)
	if err != nil {
		return nil, z.fail(f, id, err)
	}
	return []Resolved{r}, nil
}

// FieldAccess resolves a field_access node.
func (z *Fuzzy) FieldAccess(f *jast.File, id jast.NodeID) ([]Resolved, error) {
	r, err := z.S.ResolveFieldAccess(f, id)
	if err != nil {
		return nil, z.fail(f, id, err)
	}
	return []Resolved{r}, nil
}

// Call resolves a method_invocation node. When argument types rule out
// every overload the arity-matching ones are used; when the receiver has no
// computable type every in-tree method with that name and arity is used.
func (z *Fuzzy) Call(f *jast.File, id jast.NodeID) ([]Resolved, error) {
	res, err := z.S.ResolveCall(f, id)
	if err == nil {
		return res.Methods, nil
	}
	if len(res.ArityOnly) > 0 && z.Flags.Enabled(optflag.ArityOnlyOverloadFallback) {
		return res.ArityOnly, nil
	}
	obj := f.Child(id, "object")
	if obj != jast.NoNode && z.Flags.Enabled(optflag.UnknownReceiverNameFallback) {
		if _, qerr := z.S.resolveQualifier(f, obj); qerr != nil {
			arity := len(f.NamedChildren(f.Child(id, "arguments")))
			if out := z.methodsNamed(f.Text(f.Child(id, "name")), arity); len(out) > 0 {
				return out, nil
			}
		}
	}
	return nil, z.fail(f, id, err)
}

// Ctor resolves the constructor invoked by a creation expression, explicit
// constructor invocation or enum constant.
func (z *Fuzzy) Ctor(f *jast.File, id jast.NodeID) ([]Resolved, error) {
	res, err := z.S.ResolveCtor(f, id)
	if err == nil {
		return res.Methods, nil
	}
	if len(res.ArityOnly) > 0 && z.Flags.Enabled(optflag.ArityOnlyOverloadFallback) {
		return res.ArityOnly, nil
	}
	return nil, z.fail(f, id, err)
}

// CreatedType is the class instantiated by an object_creation_expression.
func (z *Fuzzy) CreatedType(f *jast.File, id jast.NodeID) (jtypes.Type, error) {
	t, err := z.S.creationType(f, id)
	if err != nil {
		return nil, z.fail(f, id, err)
	}
	return t, nil
}

// MethodRef resolves a method_reference node.
func (z *Fuzzy) MethodRef(f *jast.File, id jast.NodeID) ([]Resolved, error) {
	out, err := z.S.ResolveMethodRef(f, id)
	if err == nil {
		return out, nil
	}
	if z.Flags.Enabled(optflag.UnknownReceiverNameFallback) {
		name := ""
		for i, c := range f.Node(id).Children {
			if i > 0 && f.Kind(c) == "identifier" {
				name = f.Text(c)
			}
		}
		if name != "" {
			if out := z.methodsNamed(name, -1); len(out) > 0 {
				return out, nil
			}
		}
	}
	return nil, z.fail(f, id, err)
}

// Annotation resolves an annotation. The first element is the annotation
// type; the rest are the elements its arguments set.
func (z *Fuzzy) Annotation(f *jast.File, id jast.NodeID) ([]Resolved, error) {
	typ, elems, err := z.S.ResolveAnnotation(f, id)
	if err != nil {
		return nil, z.fail(f, id, err)
	}
	return append([]Resolved{typ}, elems...), nil
}

// TypeOf computes the type of an expression, or nil when it is unknown.
func (z *Fuzzy) TypeOf(f *jast.File, id jast.NodeID) (jtypes.Type, error) {
	t, err := z.S.TypeOf(f, id)
	if err != nil {
		return nil, z.fail(f, id, err)
	}
	return t, nil
}

// methodsNamed returns the in-tree methods with the given name accepting
// arity arguments; arity < 0 accepts any.
func (z *Fuzzy) methodsNamed(name string, arity int) []Resolved {
	z.byNameOnce.Do(func() {
		z.byName = map[string][]*symbols.Method{}
		for _, t := range z.S.P.Registry.Types() {
			for _, m := range t.Methods {
				z.byName[m.Name()] = append(z.byName[m.Name()], m)
			}
		}
		for _, ms := range z.byName {
			sort.Slice(ms, func(i, j int) bool { return ms[i].QName() < ms[j].QName() })
		}
	})
	var out []Resolved
	for _, m := range z.byName[name] {
		switch {
		case arity < 0:
		case m.Varargs() && arity >= m.Arity()-1:
		case m.Arity() == arity:
		default:
			continue
		}
		out = append(out, Resolved{Kind: KindMethod, Decl: m, Owner: m.Owner().QName(), Static: m.IsStatic()})
	}
	return out
}

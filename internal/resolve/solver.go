// Package resolve maps names, type nodes and expressions of a Java source
// tree to declarations and types. The Solver is exact and fails with
// *UnresolvedError; the Fuzzy resolver wraps it with fallbacks and never
// fails on unresolved code.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// Kind classifies what a reference resolved to.
type Kind int

const (
	KindType Kind = iota
	KindMethod
	KindCtor
	KindField
	KindEnumConstant
	KindVariable
	KindPackage
)

var kindNames = [...]string{"type", "method", "ctor", "field", "enum-constant", "variable", "package"}

func (k Kind) String() string { return kindNames[k] }

// Resolved is the target of a reference. In-tree targets carry Decl;
// library targets carry External; locals carry Var.
type Resolved struct {
	Kind     Kind
	Decl     symbols.Decl
	External string
	Var      symbols.Variable
	// Type is the static type of the target: the type itself, a field's
	// type or a method's return type. Nil when unknown.
	Type jtypes.Type
	// Owner is the qualified name of the declaring type of a member.
	Owner string
	// Static is set for static members.
	Static bool

	lib *LibMethod
}

// InTree reports whether r names an in-tree declaration.
func (r Resolved) InTree() bool { return r.Decl != nil }

func (r Resolved) String() string {
	switch {
	case r.Decl != nil:
		return r.Kind.String() + " " + r.Decl.QName()
	case r.External != "":
		return r.Kind.String() + " " + r.External
	case r.Var != nil:
		return "variable " + r.Var.Name()
	case r.Type != nil:
		return r.Kind.String() + " " + r.Type.String()
	default:
		return r.Kind.String()
	}
}

// UnresolvedError reports a reference the solver could not resolve. It is
// recoverable: the Fuzzy resolver reports and swallows it.
type UnresolvedError struct {
	File   string
	Line   int
	Kind   string
	Text   string
	Reason string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("resolve: %s:%d: cannot resolve %s %q: %s", e.File, e.Line, e.Kind, e.Text, e.Reason)
}

func unresolved(f *jast.File, id jast.NodeID, format string, args ...any) *UnresolvedError {
	text := f.Text(id)
	if len(text) > 60 {
		text = text[:60] + "..."
	}
	line := 0
	if id != jast.NoNode {
		line = f.Node(id).Row
	}
	return &UnresolvedError{
		File:   f.Path,
		Line:   line,
		Kind:   f.Kind(id),
		Text:   text,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Solver resolves symbols and computes static types. All methods are safe
// for concurrent use once BuildHierarchy has returned.
type Solver struct {
	P      *Partitioned
	Logger *slog.Logger
	alg    *jtypes.Algebra

	supers    map[string][]jtypes.Reference
	ancestors *sync.Map // string -> []jtypes.Ancestor
	classes   []string

	typeNodes *Cache[jast.Ref, jtypes.Type]
	calls     *Cache[jast.Ref, CallResult]
	exprs     sync.Map // jast.Ref -> exprResult
}

type exprResult struct {
	t   jtypes.Type
	err error
}

// NewSolver returns a solver over p. BuildHierarchy must run before the
// solver is shared between goroutines.
func NewSolver(p *Partitioned, logger *slog.Logger) *Solver {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Solver{
		P:         p,
		Logger:    logger,
		ancestors: &sync.Map{},
		typeNodes: NewCache[jast.Ref, jtypes.Type](jast.Ref.String),
		calls:     NewCache[jast.Ref, CallResult](jast.Ref.String),
	}
	s.alg = &jtypes.Algebra{H: s, Logger: logger}
	for _, t := range p.Registry.Types() {
		if !t.IsInterface() {
			s.classes = append(s.classes, t.QName())
		}
	}
	sort.Strings(s.classes)
	return s
}

// Algebra returns the type algebra over the solver's hierarchy.
func (s *Solver) Algebra() *jtypes.Algebra { return s.alg }

// BuildHierarchy resolves the supertype clauses of every in-tree type in
// parallel. Clauses that name member types inherited by an enclosing type
// are retried once the first round is complete.
func (s *Solver) BuildHierarchy(ctx context.Context, concurrency int) error {
	types := s.P.Registry.Types()
	results := make([][]jtypes.Reference, len(types))
	failed := make([]bool, len(types))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for i, t := range types {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], failed[i] = s.headerSupertypes(t, lookupOpts{})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	supers := make(map[string][]jtypes.Reference, len(types))
	for i, t := range types {
		supers[t.QName()] = results[i]
	}
	s.supers = supers

	for i, t := range types {
		if !failed[i] {
			continue
		}
		refs, stillFailed := s.headerSupertypes(t, lookupOpts{inherited: true})
		s.supers[t.QName()] = refs
		if stillFailed {
			s.Logger.Debug("unresolved supertype clause", "type", t.QName(), "file", t.File().Path)
		}
	}
	s.ancestors = &sync.Map{}
	return nil
}

// headerSupertypes resolves the direct supertypes of t. The second result is
// set when some clause could not be resolved.
func (s *Solver) headerSupertypes(t *symbols.Type, opts lookupOpts) ([]jtypes.Reference, bool) {
	f := t.File()
	var out []jtypes.Reference
	failed := false
	add := func(n jast.NodeID) (jtypes.Reference, bool) {
		typ, err := s.typeNode(f, n, opts)
		if err != nil {
			failed = true
			return jtypes.Reference{}, false
		}
		r, ok := typ.(jtypes.Reference)
		if !ok {
			failed = true
			return jtypes.Reference{}, false
		}
		return r, true
	}
	addAll := func(ns []jast.NodeID) {
		for _, n := range ns {
			if r, ok := add(n); ok {
				out = append(out, r)
			}
		}
	}

	switch t.Kind {
	case symbols.KindAnonymous:
		if r, ok := add(t.Super); ok {
			if tr, found := s.P.Lookup(r.Name); found && tr.IsInterface() {
				out = append(out, jtypes.Object)
			}
			out = append(out, r)
		} else {
			out = append(out, jtypes.Object)
		}
	case symbols.KindEnumConstantBody:
		out = append(out, jtypes.Reference{Name: t.Owner().QName()})
	case symbols.KindEnum:
		out = append(out, jtypes.Reference{Name: "java.lang.Enum", Args: []jtypes.Type{jtypes.Reference{Name: t.QName()}}})
		addAll(t.Interfaces)
	case symbols.KindRecord:
		out = append(out, jtypes.Reference{Name: "java.lang.Record"})
		addAll(t.Interfaces)
	case symbols.KindAnnotation:
		out = append(out, jtypes.Reference{Name: "java.lang.annotation.Annotation"})
	case symbols.KindInterface:
		addAll(t.Interfaces)
	default:
		if t.Super != jast.NoNode {
			if r, ok := add(t.Super); ok {
				out = append(out, r)
			} else {
				out = append(out, jtypes.Object)
			}
		} else {
			out = append(out, jtypes.Object)
		}
		addAll(t.Interfaces)
	}
	return out, failed
}

// Supertypes returns the direct supertypes of the named type, expressed in
// terms of its own type parameters.
func (s *Solver) Supertypes(name string) []jtypes.Reference {
	if t := s.P.Registry.Type(name); t != nil {
		if s.supers != nil {
			return s.supers[name]
		}
		refs, _ := s.headerSupertypes(t, lookupOpts{})
		return refs
	}
	lt, ok := s.P.Library.Type(name)
	if !ok {
		return nil
	}
	if lt.Interface || name == jtypes.Object.Name || s.hasSuperclass(lt.Supers) {
		return lt.Supers
	}
	// Library classes listing only interfaces still extend Object.
	return append([]jtypes.Reference{jtypes.Object}, lt.Supers...)
}

func (s *Solver) hasSuperclass(supers []jtypes.Reference) bool {
	for _, sup := range supers {
		if r, ok := s.P.Lookup(sup.Name); ok && !r.IsInterface() {
			return true
		}
	}
	return false
}

// Ancestors implements jtypes.Hierarchy: every transitive supertype with
// its shortest depth, ordered by depth then name.
func (s *Solver) Ancestors(name string) []jtypes.Ancestor {
	if v, ok := s.ancestors.Load(name); ok {
		return v.([]jtypes.Ancestor)
	}
	seen := map[string]bool{name: true}
	var out []jtypes.Ancestor
	frontier := []string{name}
	for depth := 1; len(frontier) > 0; depth++ {
		var next []string
		for _, n := range frontier {
			for _, sup := range s.Supertypes(n) {
				if seen[sup.Name] {
					continue
				}
				seen[sup.Name] = true
				out = append(out, jtypes.Ancestor{Name: sup.Name, Depth: depth, Interface: s.IsInterface(sup.Name)})
				next = append(next, sup.Name)
			}
		}
		sort.Strings(next)
		frontier = next
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].Name < out[j].Name
	})
	s.ancestors.Store(name, out)
	return out
}

// IsInterface implements jtypes.Hierarchy.
func (s *Solver) IsInterface(name string) bool {
	r, ok := s.P.Lookup(name)
	return ok && r.IsInterface()
}

// InTreeClasses implements jtypes.Hierarchy.
func (s *Solver) InTreeClasses() []string { return s.classes }

// IsSubtype reports whether sub is name or one of its descendants.
func (s *Solver) IsSubtype(sub, name string) bool {
	if sub == name || name == jtypes.Object.Name {
		return true
	}
	for _, a := range s.Ancestors(sub) {
		if a.Name == name {
			return true
		}
	}
	return false
}

// typeParamNames returns the declared type parameters of the named type.
func (s *Solver) typeParamNames(name string) []string {
	r, ok := s.P.Lookup(name)
	switch {
	case !ok:
		return nil
	case r.Tree != nil:
		out := make([]string, len(r.Tree.TypeParams))
		for i, tp := range r.Tree.TypeParams {
			out[i] = tp.Name
		}
		return out
	default:
		return r.Lib.TypeParams
	}
}

// bindings maps the type parameters of r's type to r's arguments. Raw
// references bind nothing.
func (s *Solver) bindings(r jtypes.Reference) map[string]jtypes.Type {
	names := s.typeParamNames(r.Name)
	if len(r.Args) == 0 || len(names) != len(r.Args) {
		return nil
	}
	m := make(map[string]jtypes.Type, len(names))
	for i, n := range names {
		m[n] = r.Args[i]
	}
	return m
}

// AsSuper views r as its supertype target, carrying type arguments along
// the supertype path.
func (s *Solver) AsSuper(r jtypes.Reference, target string) (jtypes.Reference, bool) {
	seen := map[string]bool{}
	queue := []jtypes.Reference{r}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Name == target {
			return cur, true
		}
		if seen[cur.Name] {
			continue
		}
		seen[cur.Name] = true
		m := s.bindings(cur)
		for _, sup := range s.Supertypes(cur.Name) {
			sr, _ := jtypes.Subst(sup, m).(jtypes.Reference)
			queue = append(queue, sr)
		}
	}
	if target == jtypes.Object.Name {
		return jtypes.Object, true
	}
	return jtypes.Reference{}, false
}

// selfType returns t parameterized by its own type variables.
func (s *Solver) selfType(t *symbols.Type) jtypes.Reference {
	r := jtypes.Reference{Name: t.QName()}
	for _, tp := range t.TypeParams {
		r.Args = append(r.Args, s.typeVariable(t.File(), tp, lookupOpts{bare: true}))
	}
	return r
}

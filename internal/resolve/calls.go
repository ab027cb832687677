package resolve

import (
	"strings"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// CallResult is the outcome of resolving an invocation. Methods holds the
// most specific applicable callables; ArityOnly holds every callable with a
// matching arity when argument types ruled all of them out.
type CallResult struct {
	Methods   []Resolved
	ArityOnly []Resolved
}

type candidate struct {
	m     *symbols.Method
	lm    *LibMethod
	owner string
	subst map[string]jtypes.Type
}

func (c candidate) arity() int {
	if c.m != nil {
		return c.m.Arity()
	}
	return len(c.lm.Params)
}

func (c candidate) varargs() bool {
	if c.m != nil {
		return c.m.Varargs()
	}
	return c.lm.Varargs
}

func (c candidate) typeParams() []string {
	if c.m != nil {
		out := make([]string, len(c.m.TypeParams))
		for i, tp := range c.m.TypeParams {
			out[i] = tp.Name
		}
		return out
	}
	return c.lm.TypeParams
}

func (c candidate) isStatic() bool {
	if c.m != nil {
		return c.m.IsStatic()
	}
	return c.lm.Static
}

// params returns the parameter types of c with the receiver's bindings
// applied. Unresolvable parameter types are nil.
func (s *Solver) params(c candidate) []jtypes.Type {
	out := make([]jtypes.Type, c.arity())
	if c.m != nil {
		for i, p := range c.m.Params {
			t, err := s.ResolveTypeNode(c.m.File(), p.TypeNode)
			if err != nil {
				continue
			}
			if p.Varargs {
				t = jtypes.Array{Elem: t}
			}
			out[i] = jtypes.Subst(t, c.subst)
		}
		return out
	}
	for i, p := range c.lm.Params {
		out[i] = jtypes.Subst(p, c.subst)
	}
	return out
}

func (s *Solver) sigKey(name string, c candidate) string {
	var sb strings.Builder
	sb.WriteString(name)
	for _, p := range s.params(c) {
		sb.WriteByte(',')
		if p == nil {
			sb.WriteByte('?')
			continue
		}
		sb.WriteString(jtypes.Erase(p).String())
	}
	return sb.String()
}

// receiverRefs expands a receiver type into the nominal types to search.
func (s *Solver) receiverRefs(recv jtypes.Type) []jtypes.Reference {
	switch t := recv.(type) {
	case jtypes.Reference:
		return []jtypes.Reference{t}
	case jtypes.TypeVariable:
		if len(t.Bounds) == 0 {
			return []jtypes.Reference{jtypes.Object}
		}
		var out []jtypes.Reference
		for _, b := range t.Bounds {
			out = append(out, s.receiverRefs(b)...)
		}
		return out
	case jtypes.Wildcard:
		if t.Bound == nil || t.Super {
			return []jtypes.Reference{jtypes.Object}
		}
		return s.receiverRefs(t.Bound)
	case jtypes.Intersection:
		var out []jtypes.Reference
		for _, e := range t.Elems {
			out = append(out, s.receiverRefs(e)...)
		}
		return out
	case jtypes.Union:
		if r, ok := s.alg.Flatten(t).(jtypes.Reference); ok {
			return []jtypes.Reference{r}
		}
	case jtypes.Array:
		return []jtypes.Reference{jtypes.Object}
	}
	return nil
}

// methodCandidates collects the methods named name visible on recv,
// most-derived first. Overridden methods are dropped.
func (s *Solver) methodCandidates(recv jtypes.Type, name string) []candidate {
	seen := map[string]bool{}
	var out []candidate
	for _, r := range s.receiverRefs(recv) {
		names := []string{r.Name}
		hasObject := r.Name == jtypes.Object.Name
		for _, a := range s.Ancestors(r.Name) {
			names = append(names, a.Name)
			hasObject = hasObject || a.Name == jtypes.Object.Name
		}
		if !hasObject {
			names = append(names, jtypes.Object.Name)
		}
		for _, n := range names {
			tr, ok := s.P.Lookup(n)
			if !ok {
				continue
			}
			var subst map[string]jtypes.Type
			if sup, ok := s.AsSuper(r, n); ok {
				subst = s.bindings(sup)
			}
			var cands []candidate
			if tr.Tree != nil {
				for _, m := range tr.Tree.MethodsNamed(name) {
					cands = append(cands, candidate{m: m, owner: n, subst: subst})
				}
			} else {
				for _, lm := range tr.Lib.Methods {
					if lm.Name == name {
						cands = append(cands, candidate{lm: lm, owner: n, subst: subst})
					}
				}
			}
			for _, c := range cands {
				if key := s.sigKey(name, c); !seen[key] {
					seen[key] = true
					out = append(out, c)
				}
			}
		}
	}
	return out
}

// hasOpaqueAncestry reports whether recv may have members the model does
// not know: it or a supertype other than Object is a library type.
func (s *Solver) hasOpaqueAncestry(recv jtypes.Type) bool {
	for _, r := range s.receiverRefs(recv) {
		if !s.P.InTree(r.Name) && r.Name != jtypes.Object.Name {
			return true
		}
		for _, a := range s.Ancestors(r.Name) {
			if !s.P.InTree(a.Name) && a.Name != jtypes.Object.Name {
				return true
			}
		}
	}
	return false
}

func (s *Solver) applicable(c candidate, args []jtypes.Type) bool {
	params := s.params(c)
	n := len(args)
	if c.varargs() {
		if n < len(params)-1 {
			return false
		}
	} else if n != len(params) {
		return false
	}
	for i, a := range args {
		if a == nil {
			continue
		}
		if _, ok := a.(jtypes.InferenceVariable); ok {
			continue
		}
		var p jtypes.Type
		if c.varargs() && i >= len(params)-1 {
			last := params[len(params)-1]
			if last == nil {
				continue
			}
			if n == len(params) && s.alg.IsAssignable(a, last) {
				continue
			}
			if arr, ok := last.(jtypes.Array); ok {
				p = arr.Elem
			}
		} else {
			p = params[i]
		}
		if p != nil && !s.alg.IsAssignable(a, p) {
			return false
		}
	}
	return true
}

func (s *Solver) arityMatches(c candidate, n int) bool {
	if c.varargs() {
		return n >= c.arity()-1
	}
	return n == c.arity()
}

// moreSpecific reports whether every parameter of a is assignable to the
// corresponding parameter of b.
func (s *Solver) moreSpecific(a, b candidate) bool {
	pa, pb := s.params(a), s.params(b)
	if len(pa) != len(pb) {
		return len(pa) > len(pb) && !a.varargs()
	}
	for i := range pa {
		if pa[i] == nil || pb[i] == nil {
			continue
		}
		if !s.alg.IsAssignable(pa[i], pb[i]) {
			return false
		}
	}
	return true
}

func (s *Solver) selectCandidates(cands []candidate, args []jtypes.Type) (best, arity []candidate) {
	var app []candidate
	for _, c := range cands {
		if !s.arityMatches(c, len(args)) {
			continue
		}
		arity = append(arity, c)
		if s.applicable(c, args) {
			app = append(app, c)
		}
	}
	if len(app) <= 1 {
		return app, arity
	}
	for i, c := range app {
		maximal := true
		for j, d := range app {
			if i != j && !s.moreSpecific(c, d) {
				maximal = false
				break
			}
		}
		if maximal {
			best = append(best, c)
		}
	}
	if len(best) == 0 {
		best = app
	}
	return best, arity
}

// unify binds the method type parameters in names occurring in p from the
// argument type a.
func (s *Solver) unify(p, a jtypes.Type, names map[string]bool, out map[string]jtypes.Type) {
	if p == nil || a == nil {
		return
	}
	switch pt := p.(type) {
	case jtypes.TypeVariable:
		if !names[pt.Name] {
			return
		}
		if _, bound := out[pt.Name]; bound {
			return
		}
		switch a.(type) {
		case jtypes.Null, jtypes.InferenceVariable, jtypes.Void:
			return
		}
		out[pt.Name] = jtypes.Box(a)
	case jtypes.Array:
		if at, ok := a.(jtypes.Array); ok {
			s.unify(pt.Elem, at.Elem, names, out)
		}
	case jtypes.Wildcard:
		if pt.Bound != nil {
			s.unify(pt.Bound, a, names, out)
		}
	case jtypes.Reference:
		ar, ok := a.(jtypes.Reference)
		if !ok {
			return
		}
		sup, ok := s.AsSuper(ar, pt.Name)
		if !ok || len(sup.Args) != len(pt.Args) {
			return
		}
		for i := range pt.Args {
			arg := sup.Args[i]
			if w, ok := arg.(jtypes.Wildcard); ok && w.Bound != nil {
				arg = w.Bound
			}
			s.unify(pt.Args[i], arg, names, out)
		}
	}
}

func (s *Solver) returnType(c candidate, args []jtypes.Type) jtypes.Type {
	var ret jtypes.Type
	if c.m != nil {
		if c.m.ReturnType == jast.NoNode {
			return nil
		}
		t, err := s.ResolveTypeNode(c.m.File(), c.m.ReturnType)
		if err != nil {
			return nil
		}
		ret = wrapDims(t, c.m.File().Text(c.m.File().Child(c.m.Node(), "dimensions")))
	} else {
		ret = c.lm.Return
	}
	ret = jtypes.Subst(ret, c.subst)
	tps := c.typeParams()
	if len(tps) == 0 {
		return ret
	}
	names := tparamSet(tps)
	inferred := map[string]jtypes.Type{}
	params := s.params(c)
	for i, a := range args {
		switch {
		case i < len(params):
			s.unify(params[i], a, names, inferred)
		case c.varargs() && len(params) > 0:
			if arr, ok := params[len(params)-1].(jtypes.Array); ok {
				s.unify(arr.Elem, a, names, inferred)
			}
		}
		if c.varargs() && i == len(params)-1 {
			if arr, ok := params[i].(jtypes.Array); ok {
				if _, isArr := a.(jtypes.Array); !isArr {
					s.unify(arr.Elem, a, names, inferred)
				}
			}
		}
	}
	return jtypes.Subst(ret, inferred)
}

func (s *Solver) candidateResolved(c candidate, args []jtypes.Type, ctor bool) Resolved {
	r := Resolved{Kind: KindMethod, Owner: c.owner, Static: c.isStatic()}
	if ctor {
		r.Kind = KindCtor
		r.Static = false
	} else {
		r.Type = s.returnType(c, args)
	}
	if c.m != nil {
		r.Decl = c.m
	} else {
		r.External = c.lm.QName()
		r.lib = c.lm
	}
	return r
}

func (s *Solver) argTypes(f *jast.File, argList jast.NodeID) []jtypes.Type {
	if argList == jast.NoNode {
		return nil
	}
	named := f.NamedChildren(argList)
	out := make([]jtypes.Type, len(named))
	for i, a := range named {
		if t, err := s.TypeOf(f, a); err == nil {
			out[i] = t
		}
	}
	return out
}

func (s *Solver) pick(cands []candidate, args []jtypes.Type, ctor bool) CallResult {
	best, arity := s.selectCandidates(cands, args)
	var res CallResult
	for _, c := range best {
		res.Methods = append(res.Methods, s.candidateResolved(c, args, ctor))
	}
	if len(best) == 0 {
		for _, c := range arity {
			res.ArityOnly = append(res.ArityOnly, s.candidateResolved(c, args, ctor))
		}
	}
	return res
}

func externalMember(owner, name string, ctor bool) Resolved {
	kind := KindMethod
	if ctor {
		kind = KindCtor
	}
	return Resolved{Kind: kind, External: owner + "#" + name, Owner: owner}
}

// ResolveCall resolves a method_invocation node. Results are cached per
// node and must not be modified.
func (s *Solver) ResolveCall(f *jast.File, id jast.NodeID) (CallResult, error) {
	return s.calls.Get(f.Ref(id), func() (CallResult, error) {
		return s.resolveCall(f, id)
	})
}

func (s *Solver) resolveCall(f *jast.File, id jast.NodeID) (CallResult, error) {
	name := f.Text(f.Child(id, "name"))
	obj := f.Child(id, "object")
	args := s.argTypes(f, f.Child(id, "arguments"))

	finish := func(cands []candidate, recv jtypes.Type, recvName string) (CallResult, error) {
		if len(cands) == 0 {
			if recv != nil && s.hasOpaqueAncestry(recv) {
				return CallResult{Methods: []Resolved{externalMember(recvName, name, false)}}, nil
			}
			return CallResult{}, unresolved(f, id, "no method %s on %s", name, recvName)
		}
		res := s.pick(cands, args, false)
		if len(res.Methods) == 0 {
			return res, unresolved(f, id, "no applicable overload of %s on %s", name, recvName)
		}
		return res, nil
	}

	if obj == jast.NoNode {
		opaque := ""
		for _, t := range s.EnclosingTypes(f, id) {
			self := s.selfType(t)
			if cands := s.methodCandidates(self, name); len(cands) > 0 {
				return finish(cands, self, t.QName())
			}
			if opaque == "" && s.hasOpaqueAncestry(self) {
				opaque = t.QName()
			}
		}
		if u := s.P.Registry.Unit(f.Path); u != nil {
			for _, imp := range u.Imports {
				if !imp.Static {
					continue
				}
				owner := imp.Name
				if !imp.Asterisk {
					if imp.Simple() != name {
						continue
					}
					owner = owner[:len(owner)-len(name)-1]
				}
				tr, ok := s.P.Lookup(owner)
				if !ok {
					continue
				}
				recv := refType(tr)
				if cands := s.methodCandidates(recv, name); len(cands) > 0 {
					return finish(cands, recv, owner)
				}
				if !imp.Asterisk && tr.Lib != nil {
					return CallResult{Methods: []Resolved{externalMember(owner, name, false)}}, nil
				}
			}
		}
		if opaque != "" {
			return CallResult{Methods: []Resolved{externalMember(opaque, name, false)}}, nil
		}
		return CallResult{}, unresolved(f, id, "no method %s in scope", name)
	}

	var recv jtypes.Type
	if f.Kind(obj) == "field_access" && f.Text(f.Child(obj, "field")) == "super" {
		// Iface.super.m()
		t, err := s.ResolveTypeNode(f, f.Child(obj, "object"))
		if err != nil {
			return CallResult{}, err
		}
		recv = t
	} else {
		q, err := s.resolveQualifier(f, obj)
		if err != nil {
			return CallResult{}, err
		}
		if q.pkg != "" {
			return CallResult{}, unresolved(f, id, "method call on package %s", q.pkg)
		}
		recv = q.value
	}
	if recv == nil {
		return CallResult{}, unresolved(f, id, "unknown receiver type")
	}
	if _, ok := recv.(jtypes.InferenceVariable); ok {
		return CallResult{}, unresolved(f, id, "receiver type not inferred")
	}
	recvName := recv.String()
	if r, ok := recv.(jtypes.Reference); ok {
		recvName = r.Name
	}
	if name == "getClass" && len(args) == 0 {
		res, err := finish(s.methodCandidates(recv, name), recv, recvName)
		for i := range res.Methods {
			res.Methods[i].Type = jtypes.Reference{Name: "java.lang.Class", Args: []jtypes.Type{jtypes.Wildcard{Bound: s.alg.Flatten(recv)}}}
		}
		return res, err
	}
	return finish(s.methodCandidates(recv, name), recv, recvName)
}

func (s *Solver) ctorCandidates(r jtypes.Reference) ([]candidate, bool) {
	tr, ok := s.P.Lookup(r.Name)
	if !ok {
		return nil, false
	}
	subst := s.bindings(r)
	var out []candidate
	if tr.Tree != nil {
		for _, m := range tr.Tree.Ctors {
			out = append(out, candidate{m: m, owner: r.Name, subst: subst})
		}
		return out, true
	}
	for _, lm := range tr.Lib.Methods {
		if lm.Name == ctorName {
			out = append(out, candidate{lm: lm, owner: r.Name, subst: subst})
		}
	}
	return out, true
}

// ResolveCtor resolves the constructor invoked by an
// object_creation_expression, an explicit_constructor_invocation or an enum
// constant with arguments. A class without declared constructors yields an
// empty result: its implicit constructor has no declaration.
func (s *Solver) ResolveCtor(f *jast.File, id jast.NodeID) (CallResult, error) {
	return s.calls.Get(f.Ref(id), func() (CallResult, error) {
		return s.resolveCtor(f, id)
	})
}

func (s *Solver) resolveCtor(f *jast.File, id jast.NodeID) (CallResult, error) {
	var target jtypes.Reference
	switch f.Kind(id) {
	case "object_creation_expression":
		t, err := s.creationType(f, id)
		if err != nil {
			return CallResult{}, err
		}
		r, ok := t.(jtypes.Reference)
		if !ok {
			return CallResult{}, unresolved(f, id, "instantiating non-class type %s", t)
		}
		if f.ChildOfKind(id, "class_body") != jast.NoNode && s.IsInterface(r.Name) {
			return CallResult{}, nil
		}
		target = r
	case "explicit_constructor_invocation":
		encl := s.EnclosingTypes(f, id)
		if len(encl) == 0 {
			return CallResult{}, unresolved(f, id, "constructor call outside a type")
		}
		if f.Text(f.Child(id, "constructor")) == "this" {
			target = s.selfType(encl[0])
		} else {
			sup, err := s.superOf(f, id)
			if err != nil {
				return CallResult{}, err
			}
			target, _ = sup.(jtypes.Reference)
		}
	case "enum_constant":
		d, ok := s.P.Registry.DeclAt(f.Ref(id))
		if !ok {
			return CallResult{}, unresolved(f, id, "enum constant not registered")
		}
		target = jtypes.Reference{Name: d.Owner().QName()}
	default:
		return CallResult{}, unresolved(f, id, "not a constructor invocation")
	}

	cands, ok := s.ctorCandidates(target)
	if !ok {
		return CallResult{}, unresolved(f, id, "type %s not loaded", target.Name)
	}
	if len(cands) == 0 {
		if s.P.InTree(target.Name) {
			return CallResult{}, nil
		}
		return CallResult{Methods: []Resolved{externalMember(target.Name, ctorName, true)}}, nil
	}
	args := s.argTypes(f, f.Child(id, "arguments"))
	res := s.pick(cands, args, true)
	for i := range res.Methods {
		res.Methods[i].Type = target
	}
	for i := range res.ArityOnly {
		res.ArityOnly[i].Type = target
	}
	if len(res.Methods) == 0 {
		return res, unresolved(f, id, "no applicable constructor of %s", target.Name)
	}
	return res, nil
}

// creationType is the instantiated type of an object creation, resolving
// inner class names against a qualifying instance.
func (s *Solver) creationType(f *jast.File, id jast.NodeID) (jtypes.Type, error) {
	tn := f.Child(id, "type")
	t, err := s.ResolveTypeNode(f, tn)
	if err == nil {
		return t, nil
	}
	obj := f.Child(id, "object")
	if obj == jast.NoNode {
		return nil, err
	}
	outer, oerr := s.TypeOf(f, obj)
	if oerr != nil {
		return nil, err
	}
	or, ok := outer.(jtypes.Reference)
	if !ok {
		return nil, err
	}
	otr, ok := s.P.Lookup(or.Name)
	if !ok {
		return nil, err
	}
	segs := nameSegments(f, tn)
	if m, ok := s.memberType(otr, f.Text(segs[len(segs)-1]), s.defaultOpts()); ok {
		return refType(m), nil
	}
	return nil, err
}

// ResolveMethodRef resolves a method_reference node to every method (or
// constructor, for ::new) it may denote; arity is unknown without a target
// type.
func (s *Solver) ResolveMethodRef(f *jast.File, id jast.NodeID) ([]Resolved, error) {
	named := f.NamedChildren(id)
	if len(named) == 0 {
		return nil, unresolved(f, id, "empty method reference")
	}
	recvNode := named[0]
	isNew := false
	name := ""
	for _, c := range f.Node(id).Children {
		switch f.Kind(c) {
		case "new":
			isNew = true
		case "identifier":
			if c != recvNode {
				name = f.Text(c)
			}
		}
	}

	var recv jtypes.Type
	var static *TypeRef
	if f.Kind(recvNode) == "super" {
		sup, err := s.superOf(f, recvNode)
		if err != nil {
			return nil, err
		}
		recv = sup
	} else {
		q, err := s.resolveQualifier(f, recvNode)
		if err != nil {
			return nil, err
		}
		if q.pkg != "" {
			return nil, unresolved(f, id, "method reference on package %s", q.pkg)
		}
		recv, static = q.value, q.typ
	}

	if isNew {
		r, ok := recv.(jtypes.Reference)
		if !ok {
			// Array constructor reference.
			return nil, nil
		}
		cands, ok := s.ctorCandidates(r)
		if !ok {
			return nil, unresolved(f, id, "type %s not loaded", r.Name)
		}
		if len(cands) == 0 && !s.P.InTree(r.Name) {
			return []Resolved{externalMember(r.Name, ctorName, true)}, nil
		}
		var out []Resolved
		for _, c := range cands {
			res := s.candidateResolved(c, nil, true)
			res.Type = r
			out = append(out, res)
		}
		return out, nil
	}

	cands := s.methodCandidates(recv, name)
	if len(cands) == 0 {
		if s.hasOpaqueAncestry(recv) {
			owner := recv.String()
			if static != nil {
				owner = static.Name()
			}
			return []Resolved{externalMember(owner, name, false)}, nil
		}
		return nil, unresolved(f, id, "no method %s on %s", name, recv)
	}
	out := make([]Resolved, 0, len(cands))
	for _, c := range cands {
		out = append(out, s.candidateResolved(c, nil, false))
	}
	return out, nil
}

// ResolveAnnotation resolves an annotation to its type and the elements
// named by its arguments. A single unnamed argument sets "value".
func (s *Solver) ResolveAnnotation(f *jast.File, id jast.NodeID) (Resolved, []Resolved, error) {
	typ, _, err := s.ResolveTypeName(f, f.Child(id, "name"))
	if err != nil {
		return Resolved{}, nil, err
	}
	args := f.Child(id, "arguments")
	if args == jast.NoNode || typ.Decl == nil {
		return typ, nil, nil
	}
	at := typ.Decl.(*symbols.Type)
	var keys []string
	pairs := f.ChildrenOfKind(args, "element_value_pair")
	if len(pairs) == 0 && len(f.NamedChildren(args)) > 0 {
		keys = append(keys, "value")
	}
	for _, p := range pairs {
		keys = append(keys, f.Text(f.Child(p, "key")))
	}
	var elems []Resolved
	for _, k := range keys {
		for _, m := range at.MethodsNamed(k) {
			elems = append(elems, Resolved{Kind: KindMethod, Decl: m, Owner: at.QName()})
		}
	}
	return typ, elems, nil
}

// ThrownTypes returns the declared exception types of a resolved callable.
// The second result is false when they are unknown, as for unmodelled
// library members.
func (s *Solver) ThrownTypes(r Resolved) ([]jtypes.Type, bool) {
	if m, ok := r.Decl.(*symbols.Method); ok {
		var out []jtypes.Type
		for _, n := range m.Throws {
			t, err := s.ResolveTypeNode(m.File(), n)
			if err != nil {
				return nil, false
			}
			out = append(out, t)
		}
		return out, true
	}
	if r.lib != nil {
		return r.lib.Throws, true
	}
	return nil, r.InTree()
}

package resolve

import (
	"strings"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

type lookupOpts struct {
	// inherited enables member types inherited from supertypes. It needs
	// the hierarchy and is off while the hierarchy is being built.
	inherited bool
	// bare resolves type variables without their bounds, which breaks
	// cycles such as T extends Comparable<T>.
	bare bool
}

func (s *Solver) defaultOpts() lookupOpts {
	return lookupOpts{inherited: s.supers != nil}
}

// typeHit is a type name found in scope: a nominal type or a type variable.
type typeHit struct {
	ref  TypeRef
	tvar *jtypes.TypeVariable
}

var bodyKinds = map[string]bool{
	"class_body": true, "interface_body": true, "enum_body": true, "annotation_type_body": true,
}

// typeOfBody returns the type whose body is the given node.
func (s *Solver) typeOfBody(f *jast.File, body jast.NodeID) *symbols.Type {
	if d, ok := s.P.Registry.DeclAt(f.Ref(f.Parent(body))); ok {
		if t, ok := d.(*symbols.Type); ok && t.Body == body {
			return t
		}
	}
	if d, ok := s.P.Registry.DeclAt(f.Ref(body)); ok {
		if t, ok := d.(*symbols.Type); ok {
			return t
		}
	}
	return nil
}

// EnclosingTypes returns the types whose bodies contain at, innermost first.
func (s *Solver) EnclosingTypes(f *jast.File, at jast.NodeID) []*symbols.Type {
	var out []*symbols.Type
	for p := f.Parent(at); p != jast.NoNode; p = f.Parent(p) {
		if bodyKinds[f.Kind(p)] {
			if t := s.typeOfBody(f, p); t != nil {
				out = append(out, t)
			}
		}
	}
	return out
}

func (s *Solver) typeVariable(f *jast.File, tp symbols.TypeParam, opts lookupOpts) jtypes.TypeVariable {
	tv := jtypes.TypeVariable{Name: tp.Name}
	if opts.bare {
		return tv
	}
	inner := opts
	inner.bare = true
	for _, b := range tp.Bounds {
		if bt, err := s.typeNode(f, b, inner); err == nil {
			tv.Bounds = append(tv.Bounds, bt)
		}
	}
	return tv
}

func findTypeParam(tps []symbols.TypeParam, name string) (symbols.TypeParam, bool) {
	for _, tp := range tps {
		if tp.Name == name {
			return tp, true
		}
	}
	return symbols.TypeParam{}, false
}

func (s *Solver) callableTypeParams(f *jast.File, n jast.NodeID) []symbols.TypeParam {
	if d, ok := s.P.Registry.DeclAt(f.Ref(n)); ok {
		if m, ok := d.(*symbols.Method); ok {
			return m.TypeParams
		}
	}
	return nil
}

// lookupSimpleType finds the type named by a simple name visible at node at.
func (s *Solver) lookupSimpleType(f *jast.File, at jast.NodeID, name string, opts lookupOpts) (typeHit, bool) {
	child := at
	for p := f.Parent(at); p != jast.NoNode; child, p = p, f.Parent(p) {
		switch kind := f.Kind(p); {
		case kind == "method_declaration" || kind == "constructor_declaration":
			if tp, ok := findTypeParam(s.callableTypeParams(f, p), name); ok {
				tv := s.typeVariable(f, tp, opts)
				return typeHit{tvar: &tv}, true
			}
		case symbols.IsTypeDecl(kind):
			d, ok := s.P.Registry.DeclAt(f.Ref(p))
			if !ok {
				continue
			}
			t := d.(*symbols.Type)
			if tp, ok := findTypeParam(t.TypeParams, name); ok {
				tv := s.typeVariable(f, tp, opts)
				return typeHit{tvar: &tv}, true
			}
			if child == t.Body {
				if r, ok := s.memberType(TypeRef{Tree: t}, name, opts); ok {
					return typeHit{ref: r}, true
				}
			}
			if t.Name() == name {
				return typeHit{ref: TypeRef{Tree: t}}, true
			}
		case bodyKinds[kind]:
			// Anonymous and enum constant bodies have no declaration node.
			if t := s.typeOfBody(f, p); t != nil && t.Node() == p {
				if r, ok := s.memberType(TypeRef{Tree: t}, name, opts); ok {
					return typeHit{ref: r}, true
				}
			}
		case kind == "block" || kind == "constructor_body" || kind == "switch_block_statement_group":
			for _, c := range f.NamedChildren(p) {
				if symbols.IsTypeDecl(f.Kind(c)) && f.Text(f.Child(c, "name")) == name {
					if d, ok := s.P.Registry.DeclAt(f.Ref(c)); ok {
						return typeHit{ref: TypeRef{Tree: d.(*symbols.Type)}}, true
					}
				}
			}
		}
	}

	u := s.P.Registry.Unit(f.Path)
	if u == nil {
		return typeHit{}, false
	}
	for _, t := range u.Types {
		if t.Name() == name {
			return typeHit{ref: TypeRef{Tree: t}}, true
		}
	}
	for _, imp := range u.Imports {
		if !imp.Asterisk && imp.Simple() == name {
			if r, ok := s.P.Lookup(imp.Name); ok {
				return typeHit{ref: r}, true
			}
		}
	}
	if r, ok := s.P.Lookup(qualify(u.Package, name)); ok {
		return typeHit{ref: r}, true
	}
	for _, imp := range u.Imports {
		if imp.Asterisk {
			if r, ok := s.P.Lookup(imp.Name + "." + name); ok {
				return typeHit{ref: r}, true
			}
		}
	}
	if r, ok := s.P.Lookup("java.lang." + name); ok {
		return typeHit{ref: r}, true
	}
	return typeHit{}, false
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// memberType finds a member type of r, including inherited ones when
// enabled.
func (s *Solver) memberType(r TypeRef, name string, opts lookupOpts) (TypeRef, bool) {
	if m, ok := s.P.Member(r, name); ok {
		return m, true
	}
	if !opts.inherited {
		return TypeRef{}, false
	}
	for _, a := range s.Ancestors(r.Name()) {
		if ar, ok := s.P.Lookup(a.Name); ok {
			if m, ok := s.P.Member(ar, name); ok {
				return m, true
			}
		}
	}
	return TypeRef{}, false
}

// lookupQualifiedType resolves a dotted type name: the first segment is
// tried as a type in scope, then successively longer prefixes as fully
// qualified names. The returned qualifiers are the types named by the
// leading segments.
func (s *Solver) lookupQualifiedType(f *jast.File, at jast.NodeID, parts []string, opts lookupOpts) (TypeRef, []TypeRef, bool) {
	walk := func(start TypeRef, rest []string) (TypeRef, []TypeRef, bool) {
		cur, quals := start, []TypeRef{}
		for _, seg := range rest {
			next, ok := s.memberType(cur, seg, opts)
			if !ok {
				return TypeRef{}, nil, false
			}
			quals = append(quals, cur)
			cur = next
		}
		return cur, quals, true
	}
	if hit, ok := s.lookupSimpleType(f, at, parts[0], opts); ok && hit.tvar == nil {
		if r, quals, ok := walk(hit.ref, parts[1:]); ok {
			return r, quals, true
		}
	}
	for i := 2; i <= len(parts); i++ {
		if r, ok := s.P.Lookup(strings.Join(parts[:i], ".")); ok {
			if out, quals, ok := walk(r, parts[i:]); ok {
				return out, quals, true
			}
		}
	}
	return TypeRef{}, nil, false
}

func refType(r TypeRef) jtypes.Reference {
	return jtypes.Reference{Name: r.Name()}
}

// ResolveTypeNode computes the type denoted by a type node.
func (s *Solver) ResolveTypeNode(f *jast.File, id jast.NodeID) (jtypes.Type, error) {
	opts := s.defaultOpts()
	if !opts.inherited {
		return s.typeNode(f, id, opts)
	}
	return s.typeNodes.Get(f.Ref(id), func() (jtypes.Type, error) {
		return s.typeNode(f, id, opts)
	})
}

func (s *Solver) typeNode(f *jast.File, id jast.NodeID, opts lookupOpts) (jtypes.Type, error) {
	switch f.Kind(id) {
	case "integral_type", "floating_point_type", "boolean_type":
		return jtypes.Primitive{Name: f.Text(id)}, nil
	case "void_type":
		return jtypes.Void{}, nil
	case "type_identifier", "identifier":
		name := f.Text(id)
		if name == "var" {
			return nil, unresolved(f, id, "inferred local type")
		}
		hit, ok := s.lookupSimpleType(f, id, name, opts)
		if !ok {
			return nil, unresolved(f, id, "no type named %s in scope", name)
		}
		if hit.tvar != nil {
			return *hit.tvar, nil
		}
		return refType(hit.ref), nil
	case "scoped_type_identifier", "scoped_identifier":
		return s.scopedType(f, id, opts)
	case "generic_type":
		named := f.NamedChildren(id)
		if len(named) == 0 {
			return nil, unresolved(f, id, "empty generic type")
		}
		base, err := s.typeNode(f, named[0], opts)
		if err != nil {
			return nil, err
		}
		r, ok := base.(jtypes.Reference)
		if !ok {
			return nil, unresolved(f, id, "type arguments on non-class type")
		}
		if ta := f.ChildOfKind(id, "type_arguments"); ta != jast.NoNode {
			for _, a := range f.NamedChildren(ta) {
				if f.Kind(a) == "annotation" || f.Kind(a) == "marker_annotation" {
					continue
				}
				at, err := s.typeNode(f, a, opts)
				if err != nil {
					return nil, err
				}
				r.Args = append(r.Args, at)
			}
		}
		return r, nil
	case "array_type":
		elem, err := s.typeNode(f, f.Child(id, "element"), opts)
		if err != nil {
			return nil, err
		}
		return wrapDims(elem, f.Text(f.Child(id, "dimensions"))), nil
	case "annotated_type":
		named := f.NamedChildren(id)
		return s.typeNode(f, named[len(named)-1], opts)
	case "wildcard":
		w := jtypes.Wildcard{}
		for _, c := range f.Node(id).Children {
			switch k := f.Kind(c); {
			case k == "super":
				w.Super = true
			case f.Node(c).Named && k != "annotation" && k != "marker_annotation":
				b, err := s.typeNode(f, c, opts)
				if err != nil {
					return nil, err
				}
				w.Bound = b
			}
		}
		return w, nil
	case "catch_type":
		var u jtypes.Union
		for _, c := range f.NamedChildren(id) {
			ct, err := s.typeNode(f, c, opts)
			if err != nil {
				return nil, err
			}
			u.Elems = append(u.Elems, ct)
		}
		if len(u.Elems) == 1 {
			return u.Elems[0], nil
		}
		return u, nil
	}
	return nil, unresolved(f, id, "not a type node")
}

func wrapDims(t jtypes.Type, dims string) jtypes.Type {
	for i := strings.Count(dims, "["); i > 0; i-- {
		t = jtypes.Array{Elem: t}
	}
	return t
}

// nameSegments flattens a scoped name into its segment nodes. Generic
// qualifiers (Outer<T>.Inner) contribute their base name.
func nameSegments(f *jast.File, id jast.NodeID) []jast.NodeID {
	switch f.Kind(id) {
	case "scoped_type_identifier", "scoped_identifier":
		var out []jast.NodeID
		for _, c := range f.NamedChildren(id) {
			switch f.Kind(c) {
			case "annotation", "marker_annotation":
			default:
				out = append(out, nameSegments(f, c)...)
			}
		}
		return out
	case "generic_type":
		if named := f.NamedChildren(id); len(named) > 0 {
			return nameSegments(f, named[0])
		}
	}
	return []jast.NodeID{id}
}

func (s *Solver) scopedType(f *jast.File, id jast.NodeID, opts lookupOpts) (jtypes.Type, error) {
	segs := nameSegments(f, id)
	parts := make([]string, len(segs))
	for i, n := range segs {
		parts[i] = f.Text(n)
	}
	r, _, ok := s.lookupQualifiedType(f, id, parts, opts)
	if !ok {
		return nil, unresolved(f, id, "no type named %s", strings.Join(parts, "."))
	}
	return refType(r), nil
}

// ResolveTypeName resolves a type_identifier or scoped_type_identifier to
// its type and, for qualified names, the types named by the qualifying
// segments.
func (s *Solver) ResolveTypeName(f *jast.File, id jast.NodeID) (Resolved, []Resolved, error) {
	opts := s.defaultOpts()
	segs := nameSegments(f, id)
	parts := make([]string, len(segs))
	for i, n := range segs {
		parts[i] = f.Text(n)
	}
	if len(parts) == 1 {
		if parts[0] == "var" {
			return Resolved{Kind: KindType}, nil, nil
		}
		hit, ok := s.lookupSimpleType(f, id, parts[0], opts)
		if !ok {
			return Resolved{}, nil, unresolved(f, id, "no type named %s in scope", parts[0])
		}
		if hit.tvar != nil {
			return Resolved{Kind: KindType, Type: *hit.tvar}, nil, nil
		}
		return typeResolved(hit.ref), nil, nil
	}
	r, quals, ok := s.lookupQualifiedType(f, id, parts, opts)
	if !ok {
		return Resolved{}, nil, unresolved(f, id, "no type named %s", strings.Join(parts, "."))
	}
	out := make([]Resolved, len(quals))
	for i, q := range quals {
		out[i] = typeResolved(q)
	}
	return typeResolved(r), out, nil
}

func typeResolved(r TypeRef) Resolved {
	res := Resolved{Kind: KindType, Type: refType(r)}
	if r.Tree != nil {
		res.Decl = r.Tree
	} else {
		res.External = r.Lib.Name
	}
	return res
}

// LookupType resolves a simple or dotted type name as seen from node at.
func (s *Solver) LookupType(f *jast.File, at jast.NodeID, name string) (Resolved, bool) {
	parts := strings.Split(name, ".")
	if len(parts) == 1 {
		hit, ok := s.lookupSimpleType(f, at, name, s.defaultOpts())
		if !ok || hit.tvar != nil {
			return Resolved{}, false
		}
		return typeResolved(hit.ref), true
	}
	r, _, ok := s.lookupQualifiedType(f, at, parts, s.defaultOpts())
	if !ok {
		return Resolved{}, false
	}
	return typeResolved(r), true
}

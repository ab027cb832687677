package resolve

import (
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// LookupVariable finds the local variable, parameter or field a simple name
// denotes at node at. Fields include inherited and statically imported
// ones.
func (s *Solver) LookupVariable(f *jast.File, at jast.NodeID, name string) (Resolved, bool, error) {
	reg := s.P.Registry
	local := func(decl jast.NodeID) (Resolved, bool, error) {
		v, err := symbols.VariableAt(reg, f, decl)
		if err != nil {
			return Resolved{}, false, err
		}
		if fv, ok := v.(*symbols.FieldVar); ok {
			return s.fieldResolved(fv.Field), true, nil
		}
		return Resolved{Kind: KindVariable, Var: v}, true, nil
	}

	child := at
	for p := f.Parent(at); p != jast.NoNode; child, p = p, f.Parent(p) {
		switch kind := f.Kind(p); kind {
		case "block", "constructor_body", "switch_block_statement_group", "switch_block":
			for _, c := range f.NamedChildren(p) {
				if c == child || f.Node(c).Start >= f.Node(child).Start {
					break
				}
				if d := declaratorNamed(f, c, name); d != jast.NoNode {
					return local(d)
				}
				if f.Kind(c) == "if_statement" {
					if b := bindingIn(f, f.Child(c, "condition"), name); b != jast.NoNode {
						return local(b)
					}
				}
			}
		case "for_statement":
			for _, init := range f.Fields(p, "init") {
				if d := declaratorNamed(f, init, name); d != jast.NoNode {
					return local(d)
				}
			}
			if child != f.Child(p, "condition") {
				if b := bindingIn(f, f.Child(p, "condition"), name); b != jast.NoNode {
					return local(b)
				}
			}
		case "enhanced_for_statement":
			if child != f.Child(p, "value") && f.Text(f.Child(p, "name")) == name {
				return local(p)
			}
		case "catch_clause":
			if cp := f.ChildOfKind(p, "catch_formal_parameter"); cp != jast.NoNode && f.Text(f.Child(cp, "name")) == name {
				return local(cp)
			}
		case "resource_specification":
			for _, r := range f.ChildrenOfKind(p, "resource") {
				if r == child {
					break
				}
				if f.Text(f.Child(r, "name")) == name {
					return local(r)
				}
			}
		case "try_with_resources_statement":
			if spec := f.Child(p, "resources"); spec != child && spec != jast.NoNode {
				for _, r := range f.ChildrenOfKind(spec, "resource") {
					if f.Text(f.Child(r, "name")) == name {
						return local(r)
					}
				}
			}
		case "lambda_expression":
			params := f.Child(p, "parameters")
			switch f.Kind(params) {
			case "identifier":
				if f.Text(params) == name {
					return local(params)
				}
			case "inferred_parameters":
				for _, id := range f.ChildrenOfKind(params, "identifier") {
					if f.Text(id) == name {
						return local(id)
					}
				}
			case "formal_parameters":
				if n := paramNamed(f, params, name); n != jast.NoNode {
					return local(n)
				}
			}
		case "method_declaration", "constructor_declaration":
			if n := paramNamed(f, f.Child(p, "parameters"), name); n != jast.NoNode {
				return local(n)
			}
		case "if_statement", "while_statement", "ternary_expression":
			if cond := f.Child(p, "condition"); child != cond {
				if b := bindingIn(f, cond, name); b != jast.NoNode {
					return local(b)
				}
			}
		case "binary_expression":
			if f.Text(f.Child(p, "operator")) == "&&" && child == f.Child(p, "right") {
				if b := bindingIn(f, f.Child(p, "left"), name); b != jast.NoNode {
					return local(b)
				}
			}
		case "switch_rule":
			if lbl := f.ChildOfKind(p, "switch_label"); lbl != child {
				if b := bindingIn(f, lbl, name); b != jast.NoNode {
					return local(b)
				}
			}
		case "class_body", "interface_body", "enum_body", "annotation_type_body":
			if t := s.typeOfBody(f, p); t != nil {
				if r, ok := s.findField(TypeRef{Tree: t}, name); ok {
					return r, true, nil
				}
			}
		}
	}

	u := reg.Unit(f.Path)
	if u == nil {
		return Resolved{}, false, nil
	}
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
		if tr, ok := s.P.Lookup(owner); ok {
			if r, ok := s.findField(tr, name); ok {
				return r, true, nil
			}
		}
	}
	return Resolved{}, false, nil
}

// declaratorNamed returns the declarator of a local variable declaration
// statement that declares name.
func declaratorNamed(f *jast.File, stmt jast.NodeID, name string) jast.NodeID {
	if f.Kind(stmt) != "local_variable_declaration" {
		return jast.NoNode
	}
	for _, d := range f.Fields(stmt, "declarator") {
		if f.Text(f.Child(d, "name")) == name {
			return d
		}
	}
	return jast.NoNode
}

func paramNamed(f *jast.File, params jast.NodeID, name string) jast.NodeID {
	if params == jast.NoNode {
		return jast.NoNode
	}
	for _, p := range f.NamedChildren(params) {
		switch f.Kind(p) {
		case "formal_parameter":
			if f.Text(f.Child(p, "name")) == name {
				return p
			}
		case "spread_parameter":
			if d := f.ChildOfKind(p, "variable_declarator"); d != jast.NoNode && f.Text(f.Child(d, "name")) == name {
				return p
			}
		}
	}
	return jast.NoNode
}

// bindingIn finds a pattern binding of name inside region, not descending
// into lambdas or class bodies. It returns the node VariableAt accepts.
func bindingIn(f *jast.File, region jast.NodeID, name string) jast.NodeID {
	found := jast.NoNode
	f.Walk(region, func(id jast.NodeID) bool {
		if found != jast.NoNode {
			return false
		}
		switch f.Kind(id) {
		case "lambda_expression", "class_body":
			return false
		case "instanceof_expression":
			if n := f.Child(id, "name"); n != jast.NoNode && f.Text(n) == name {
				found = n
				return false
			}
		case "type_pattern":
			named := f.NamedChildren(id)
			if len(named) >= 2 && f.Text(named[len(named)-1]) == name {
				found = id
				return false
			}
		}
		return true
	})
	return found
}

// findField looks name up as a field or enum constant of r and its
// supertypes.
func (s *Solver) findField(r TypeRef, name string) (Resolved, bool) {
	try := func(tr TypeRef) (Resolved, bool) {
		if tr.Tree != nil {
			if fd := tr.Tree.Field(name); fd != nil {
				return s.fieldResolved(fd), true
			}
			if ec := tr.Tree.EnumConstant(name); ec != nil {
				return Resolved{
					Kind:   KindEnumConstant,
					Decl:   ec,
					Type:   jtypes.Reference{Name: tr.Tree.QName()},
					Owner:  tr.Tree.QName(),
					Static: true,
				}, true
			}
			return Resolved{}, false
		}
		if ft, ok := tr.Lib.Fields[name]; ok {
			return Resolved{Kind: KindField, External: tr.Lib.Name + "#" + name, Type: ft, Owner: tr.Lib.Name, Static: true}, true
		}
		return Resolved{}, false
	}
	if res, ok := try(r); ok {
		return res, true
	}
	for _, a := range s.Ancestors(r.Name()) {
		if ar, ok := s.P.Lookup(a.Name); ok {
			if res, ok := try(ar); ok {
				return res, true
			}
		}
	}
	return Resolved{}, false
}

func (s *Solver) fieldResolved(fd *symbols.Field) Resolved {
	res := Resolved{Kind: KindField, Decl: fd, Owner: fd.Owner().QName(), Static: fd.IsStatic()}
	if t, err := s.ResolveTypeNode(fd.File(), fd.TypeNode); err == nil {
		res.Type = wrapDims(t, fd.File().Text(fd.File().Child(fd.Node(), "dimensions")))
	}
	return res
}

// ResolveName resolves an identifier in expression position: a variable,
// field, enum constant, type or package.
func (s *Solver) ResolveName(f *jast.File, id jast.NodeID) (Resolved, error) {
	name := f.Text(id)
	r, ok, err := s.LookupVariable(f, id, name)
	if err != nil {
		return Resolved{}, err
	}
	if ok {
		return r, nil
	}
	if r, ok := s.switchLabelConstant(f, id, name); ok {
		return r, nil
	}
	if hit, ok := s.lookupSimpleType(f, id, name, s.defaultOpts()); ok && hit.tvar == nil {
		return typeResolved(hit.ref), nil
	}
	if s.P.IsPackage(name) {
		return Resolved{Kind: KindPackage, External: name}, nil
	}
	return Resolved{}, unresolved(f, id, "no variable, type or package named %s", name)
}

// switchLabelConstant resolves an unqualified enum constant in a case label
// against the type of the switch selector.
func (s *Solver) switchLabelConstant(f *jast.File, id jast.NodeID, name string) (Resolved, bool) {
	if f.Kind(f.Parent(id)) != "switch_label" {
		return Resolved{}, false
	}
	sw := f.Ancestor(id, "switch_expression", "switch_statement")
	if sw == jast.NoNode {
		return Resolved{}, false
	}
	t, err := s.TypeOf(f, f.Child(sw, "condition"))
	if err != nil {
		return Resolved{}, false
	}
	r, ok := t.(jtypes.Reference)
	if !ok {
		return Resolved{}, false
	}
	tr, ok := s.P.Lookup(r.Name)
	if !ok {
		return Resolved{}, false
	}
	return s.findField(tr, name)
}

// qualifier is what the object part of a member access denotes.
type qualifier struct {
	pkg   string      // package name
	typ   *TypeRef    // type name, static access
	value jtypes.Type // expression value
}

// resolveQualifier classifies the object of a field access, method call or
// method reference.
func (s *Solver) resolveQualifier(f *jast.File, obj jast.NodeID) (qualifier, error) {
	switch f.Kind(obj) {
	case "identifier":
		r, err := s.ResolveName(f, obj)
		if err != nil {
			return qualifier{}, err
		}
		return s.qualifierOf(f, obj, r)
	case "field_access":
		if f.Text(f.Child(obj, "field")) == "this" {
			break
		}
		r, err := s.ResolveFieldAccess(f, obj)
		if err != nil {
			return qualifier{}, err
		}
		return s.qualifierOf(f, obj, r)
	case "type_identifier", "scoped_type_identifier", "generic_type", "array_type",
		"integral_type", "floating_point_type", "boolean_type":
		t, err := s.ResolveTypeNode(f, obj)
		if err != nil {
			return qualifier{}, err
		}
		if r, ok := t.(jtypes.Reference); ok {
			tr, ok := s.P.Lookup(r.Name)
			if ok {
				return qualifier{typ: &tr, value: r}, nil
			}
		}
		return qualifier{value: t}, nil
	case "super":
		sup, err := s.superOf(f, obj)
		if err != nil {
			return qualifier{}, err
		}
		return qualifier{value: sup}, nil
	}
	t, err := s.TypeOf(f, obj)
	if err != nil {
		return qualifier{}, err
	}
	return qualifier{value: t}, nil
}

func (s *Solver) qualifierOf(f *jast.File, obj jast.NodeID, r Resolved) (qualifier, error) {
	switch r.Kind {
	case KindPackage:
		return qualifier{pkg: r.External}, nil
	case KindType:
		ref, _ := r.Type.(jtypes.Reference)
		tr, ok := s.P.Lookup(ref.Name)
		if !ok {
			return qualifier{}, unresolved(f, obj, "type %s not loaded", ref.Name)
		}
		return qualifier{typ: &tr, value: ref}, nil
	}
	t, err := s.resolvedValueType(r)
	if err != nil {
		return qualifier{}, err
	}
	if t == nil {
		return qualifier{}, unresolved(f, obj, "unknown type of %s", r)
	}
	return qualifier{value: t}, nil
}

// resolvedValueType is the type of the value a name denotes.
func (s *Solver) resolvedValueType(r Resolved) (jtypes.Type, error) {
	if r.Kind == KindVariable && r.Var != nil {
		return s.VariableType(r.Var)
	}
	return r.Type, nil
}

// superOf is the superclass of the type enclosing node at.
func (s *Solver) superOf(f *jast.File, at jast.NodeID) (jtypes.Type, error) {
	encl := s.EnclosingTypes(f, at)
	if len(encl) == 0 {
		return nil, unresolved(f, at, "super outside a type")
	}
	for _, sup := range s.Supertypes(encl[0].QName()) {
		if !s.IsInterface(sup.Name) {
			return sup, nil
		}
	}
	return jtypes.Object, nil
}

// ResolveFieldAccess resolves a field_access node: a field, an enum
// constant, a member type or a package segment.
func (s *Solver) ResolveFieldAccess(f *jast.File, id jast.NodeID) (Resolved, error) {
	obj := f.Child(id, "object")
	name := f.Text(f.Child(id, "field"))
	switch name {
	case "this":
		// Outer.this
		t, err := s.ResolveTypeNode(f, obj)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Kind: KindVariable, Type: t}, nil
	case "super":
		t, err := s.ResolveTypeNode(f, obj)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Kind: KindVariable, Type: t}, nil
	}

	q, err := s.resolveQualifier(f, obj)
	if err != nil {
		return Resolved{}, err
	}
	switch {
	case q.pkg != "":
		full := q.pkg + "." + name
		if tr, ok := s.P.Lookup(full); ok {
			return typeResolved(tr), nil
		}
		if s.P.IsPackage(full) {
			return Resolved{Kind: KindPackage, External: full}, nil
		}
		return Resolved{}, unresolved(f, id, "no type or package %s", full)
	case q.typ != nil:
		if r, ok := s.findField(*q.typ, name); ok {
			return r, nil
		}
		if m, ok := s.memberType(*q.typ, name, s.defaultOpts()); ok {
			return typeResolved(m), nil
		}
		return Resolved{}, unresolved(f, id, "no member %s in %s", name, q.typ.Name())
	}
	return s.fieldOfValue(f, id, q.value, name)
}

func (s *Solver) fieldOfValue(f *jast.File, id jast.NodeID, recv jtypes.Type, name string) (Resolved, error) {
	switch t := recv.(type) {
	case jtypes.Array:
		if name == "length" {
			return Resolved{Kind: KindField, External: "array#length", Type: jtypes.Int}, nil
		}
	case jtypes.Reference:
		tr, ok := s.P.Lookup(t.Name)
		if !ok {
			return Resolved{}, unresolved(f, id, "type %s not loaded", t.Name)
		}
		r, ok := s.findField(tr, name)
		if !ok {
			return Resolved{}, unresolved(f, id, "no field %s in %s", name, t.Name)
		}
		if r.Type != nil && r.Owner != "" {
			if sup, ok := s.AsSuper(t, r.Owner); ok {
				r.Type = jtypes.Subst(r.Type, s.bindings(sup))
			}
		}
		return r, nil
	case jtypes.TypeVariable:
		if len(t.Bounds) > 0 {
			return s.fieldOfValue(f, id, t.Bounds[0], name)
		}
	case jtypes.Intersection:
		for _, e := range t.Elems {
			if r, err := s.fieldOfValue(f, id, e, name); err == nil {
				return r, nil
			}
		}
	}
	return Resolved{}, unresolved(f, id, "no field %s on %v", name, recv)
}

// VariableType is the declared (or inferred, for var) type of v.
func (s *Solver) VariableType(v symbols.Variable) (jtypes.Type, error) {
	f := v.File()
	tn := v.TypeNode()
	switch v := v.(type) {
	case *symbols.FieldVar:
		r := s.fieldResolved(v.Field)
		if r.Type == nil {
			return nil, unresolved(f, v.Node(), "unknown field type")
		}
		return r.Type, nil
	case *symbols.CatchParam:
		if len(v.Types) > 1 {
			var u jtypes.Union
			for _, n := range v.Types {
				t, err := s.ResolveTypeNode(f, n)
				if err != nil {
					return nil, err
				}
				u.Elems = append(u.Elems, t)
			}
			return u, nil
		}
	case *symbols.ParamVar:
		if tn == jast.NoNode {
			return jtypes.InferenceVariable{ID: int(v.Node())}, nil
		}
		t, err := s.ResolveTypeNode(f, tn)
		if err != nil {
			return nil, err
		}
		if v.Varargs {
			return jtypes.Array{Elem: t}, nil
		}
		return t, nil
	case *symbols.ForEachVar:
		if f.Text(tn) == "var" {
			it, err := s.TypeOf(f, v.Iterable)
			if err != nil {
				return nil, err
			}
			return s.ElementType(it), nil
		}
	case *symbols.LocalVar:
		if f.Text(tn) == "var" {
			if v.Init() == jast.NoNode {
				return nil, unresolved(f, v.Node(), "var without initializer")
			}
			return s.TypeOf(f, v.Init())
		}
		t, err := s.ResolveTypeNode(f, tn)
		if err != nil {
			return nil, err
		}
		return wrapDims(t, f.Text(f.Child(v.Node(), "dimensions"))), nil
	}
	if tn == jast.NoNode {
		return jtypes.InferenceVariable{ID: int(v.Node())}, nil
	}
	return s.ResolveTypeNode(f, tn)
}

// ElementType is the element type of an array or Iterable.
func (s *Solver) ElementType(t jtypes.Type) jtypes.Type {
	switch t := t.(type) {
	case jtypes.Array:
		return t.Elem
	case jtypes.Reference:
		if it, ok := s.AsSuper(t, "java.lang.Iterable"); ok && len(it.Args) == 1 {
			if w, ok := it.Args[0].(jtypes.Wildcard); ok {
				if w.Bound != nil && !w.Super {
					return w.Bound
				}
				return jtypes.Object
			}
			return it.Args[0]
		}
	case jtypes.TypeVariable:
		if len(t.Bounds) > 0 {
			return s.ElementType(t.Bounds[0])
		}
	}
	return jtypes.Object
}

package resolve

import (
	"strings"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
)

// TypeOf computes the static type of an expression node. Poly expressions
// without a target type (lambdas, method references, bare array
// initializers) yield an InferenceVariable.
func (s *Solver) TypeOf(f *jast.File, id jast.NodeID) (jtypes.Type, error) {
	ref := f.Ref(id)
	if v, ok := s.exprs.Load(ref); ok {
		r := v.(exprResult)
		return r.t, r.err
	}
	t, err := s.typeOf(f, id)
	s.exprs.Store(ref, exprResult{t: t, err: err})
	return t, err
}

func (s *Solver) typeOf(f *jast.File, id jast.NodeID) (jtypes.Type, error) {
	switch kind := f.Kind(id); kind {
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		if strings.HasSuffix(strings.ToLower(f.Text(id)), "l") {
			return jtypes.Long, nil
		}
		return jtypes.Int, nil
	case "decimal_floating_point_literal", "hex_floating_point_literal":
		if strings.HasSuffix(strings.ToLower(f.Text(id)), "f") {
			return jtypes.Float, nil
		}
		return jtypes.Double, nil
	case "true", "false":
		return jtypes.Boolean, nil
	case "character_literal":
		return jtypes.Char, nil
	case "string_literal", "text_block", "template_expression":
		return jtypes.String, nil
	case "null_literal":
		return jtypes.Null{}, nil
	case "this":
		encl := s.EnclosingTypes(f, id)
		if len(encl) == 0 {
			return nil, unresolved(f, id, "this outside a type")
		}
		return s.selfType(encl[0]), nil
	case "super":
		return s.superOf(f, id)
	case "identifier":
		r, err := s.ResolveName(f, id)
		if err != nil {
			return nil, err
		}
		return s.valueOf(f, id, r)
	case "field_access":
		r, err := s.ResolveFieldAccess(f, id)
		if err != nil {
			return nil, err
		}
		return s.valueOf(f, id, r)
	case "parenthesized_expression":
		named := f.NamedChildren(id)
		if len(named) == 0 {
			return nil, unresolved(f, id, "empty parentheses")
		}
		return s.TypeOf(f, named[0])
	case "method_invocation":
		res, err := s.ResolveCall(f, id)
		if err != nil {
			return nil, err
		}
		for _, m := range res.Methods {
			if m.Type != nil {
				return m.Type, nil
			}
		}
		return nil, unresolved(f, id, "unknown return type")
	case "object_creation_expression":
		if body := f.ChildOfKind(id, "class_body"); body != jast.NoNode {
			if t := s.typeOfBody(f, body); t != nil {
				return s.selfType(t), nil
			}
		}
		return s.creationType(f, id)
	case "array_creation_expression":
		elem, err := s.ResolveTypeNode(f, f.Child(id, "type"))
		if err != nil {
			return nil, err
		}
		dims := 0
		for _, c := range f.Node(id).Children {
			switch f.Kind(c) {
			case "dimensions_expr":
				dims++
			case "dimensions":
				dims += strings.Count(f.Text(c), "[")
			}
		}
		for ; dims > 0; dims-- {
			elem = jtypes.Array{Elem: elem}
		}
		return elem, nil
	case "array_initializer", "lambda_expression", "method_reference", "switch_expression":
		return jtypes.InferenceVariable{ID: int(id)}, nil
	case "array_access":
		at, err := s.TypeOf(f, f.Child(id, "array"))
		if err != nil {
			return nil, err
		}
		if a, ok := at.(jtypes.Array); ok {
			return a.Elem, nil
		}
		return nil, unresolved(f, id, "indexing non-array type %s", at)
	case "cast_expression":
		var elems []jtypes.Type
		for _, tn := range f.Fields(id, "type") {
			t, err := s.ResolveTypeNode(f, tn)
			if err != nil {
				return nil, err
			}
			elems = append(elems, t)
		}
		switch len(elems) {
		case 0:
			return nil, unresolved(f, id, "cast without type")
		case 1:
			return elems[0], nil
		default:
			return jtypes.Intersection{Elems: elems}, nil
		}
	case "assignment_expression":
		return s.TypeOf(f, f.Child(id, "left"))
	case "binary_expression":
		return s.binaryType(f, id)
	case "unary_expression":
		op := f.Text(f.Child(id, "operator"))
		if op == "!" {
			return jtypes.Boolean, nil
		}
		t, err := s.TypeOf(f, f.Child(id, "operand"))
		if err != nil {
			return nil, err
		}
		return jtypes.Promote(t, jtypes.Int), nil
	case "update_expression":
		named := f.NamedChildren(id)
		if len(named) == 0 {
			return nil, unresolved(f, id, "empty update")
		}
		return s.TypeOf(f, named[0])
	case "ternary_expression":
		a, errA := s.TypeOf(f, f.Child(id, "consequence"))
		b, errB := s.TypeOf(f, f.Child(id, "alternative"))
		switch {
		case errA != nil && errB != nil:
			return nil, errA
		case errA != nil:
			return b, nil
		case errB != nil:
			return a, nil
		}
		return s.conditionalType(a, b), nil
	case "instanceof_expression":
		return jtypes.Boolean, nil
	case "class_literal":
		named := f.NamedChildren(id)
		if len(named) == 0 {
			return nil, unresolved(f, id, "empty class literal")
		}
		t, err := s.ResolveTypeNode(f, named[0])
		if err != nil {
			return nil, err
		}
		if _, ok := t.(jtypes.Void); ok {
			t = jtypes.Reference{Name: "java.lang.Void"}
		}
		return jtypes.Reference{Name: "java.lang.Class", Args: []jtypes.Type{jtypes.Box(t)}}, nil
	}
	return nil, unresolved(f, id, "no type rule for expression")
}

func (s *Solver) valueOf(f *jast.File, id jast.NodeID, r Resolved) (jtypes.Type, error) {
	switch r.Kind {
	case KindType, KindPackage:
		return nil, unresolved(f, id, "%s used as a value", r)
	}
	t, err := s.resolvedValueType(r)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, unresolved(f, id, "unknown type of %s", r)
	}
	return t, nil
}

func (s *Solver) binaryType(f *jast.File, id jast.NodeID) (jtypes.Type, error) {
	op := f.Text(f.Child(id, "operator"))
	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return jtypes.Boolean, nil
	}
	l, errL := s.TypeOf(f, f.Child(id, "left"))
	r, errR := s.TypeOf(f, f.Child(id, "right"))
	if op == "+" && ((errL == nil && jtypes.Equal(l, jtypes.String)) || (errR == nil && jtypes.Equal(r, jtypes.String))) {
		return jtypes.String, nil
	}
	if errL != nil {
		return nil, errL
	}
	if errR != nil {
		return nil, errR
	}
	switch op {
	case "<<", ">>", ">>>":
		return jtypes.Promote(l, jtypes.Int), nil
	case "&", "|", "^":
		if lp, ok := l.(jtypes.Primitive); ok && lp.Name == "boolean" {
			return jtypes.Boolean, nil
		}
		if ub, ok := jtypes.Unbox(l); ok && ub.Name == "boolean" {
			return jtypes.Boolean, nil
		}
	}
	return jtypes.Promote(l, r), nil
}

// conditionalType is the type of c ? a : b.
func (s *Solver) conditionalType(a, b jtypes.Type) jtypes.Type {
	switch {
	case jtypes.Equal(a, b):
		return a
	case jtypes.IsNumeric(a) && jtypes.IsNumeric(b):
		return jtypes.Promote(a, b)
	}
	if _, ok := a.(jtypes.Null); ok {
		return jtypes.Box(b)
	}
	if _, ok := b.(jtypes.Null); ok {
		return jtypes.Box(a)
	}
	return jtypes.Union{Elems: []jtypes.Type{jtypes.Box(a), jtypes.Box(b)}}
}

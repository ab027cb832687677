package symbols

import (
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
)

// Variable is anything a simple name can denote as a value: a parameter, a
// catch parameter, a field, a for-each variable or a local. The set of
// implementations is closed; use VariableAt to obtain one from a node.
type Variable interface {
	File() *jast.File
	// Node is the declaring node.
	Node() jast.NodeID
	Name() string
	// TypeNode is the declared type, or NoNode for inferred lambda
	// parameters.
	TypeNode() jast.NodeID
	// Init is the initializer expression, or NoNode.
	Init() jast.NodeID
	Final() bool
	isVariable()
}

// ParamVar is a method, constructor or lambda parameter.
type ParamVar struct {
	file     *jast.File
	node     jast.NodeID
	name     string
	typeNode jast.NodeID
	final    bool
	Lambda   bool
	Varargs  bool
}

// CatchParam is the parameter of a catch clause. Types lists the
// alternatives of a multi-catch.
type CatchParam struct {
	file  *jast.File
	node  jast.NodeID
	name  string
	Types []jast.NodeID
	final bool
}

// FieldVar is a field or record component used as a variable.
type FieldVar struct {
	Field *Field
}

// ForEachVar is the variable of an enhanced for statement.
type ForEachVar struct {
	file     *jast.File
	node     jast.NodeID
	name     string
	typeNode jast.NodeID
	Iterable jast.NodeID
	final    bool
}

// LocalVar is a local variable, a try resource or a pattern binding.
type LocalVar struct {
	file     *jast.File
	node     jast.NodeID
	name     string
	typeNode jast.NodeID
	init     jast.NodeID
	final    bool
}

func (v *ParamVar) File() *jast.File      { return v.file }
func (v *ParamVar) Node() jast.NodeID     { return v.node }
func (v *ParamVar) Name() string          { return v.name }
func (v *ParamVar) TypeNode() jast.NodeID { return v.typeNode }
func (v *ParamVar) Init() jast.NodeID     { return jast.NoNode }
func (v *ParamVar) Final() bool           { return v.final }

func (v *CatchParam) File() *jast.File  { return v.file }
func (v *CatchParam) Node() jast.NodeID { return v.node }
func (v *CatchParam) Name() string      { return v.name }
func (v *CatchParam) TypeNode() jast.NodeID {
	if len(v.Types) == 0 {
		return jast.NoNode
	}
	return v.Types[0]
}
func (v *CatchParam) Init() jast.NodeID { return jast.NoNode }

// Final reports whether the parameter is final. Multi-catch parameters are
// implicitly final.
func (v *CatchParam) Final() bool { return v.final || len(v.Types) > 1 }

func (v *FieldVar) File() *jast.File      { return v.Field.file }
func (v *FieldVar) Node() jast.NodeID     { return v.Field.node }
func (v *FieldVar) Name() string          { return v.Field.name }
func (v *FieldVar) TypeNode() jast.NodeID { return v.Field.TypeNode }
func (v *FieldVar) Init() jast.NodeID     { return v.Field.Init }
func (v *FieldVar) Final() bool           { return v.Field.IsFinal() }

func (v *ForEachVar) File() *jast.File      { return v.file }
func (v *ForEachVar) Node() jast.NodeID     { return v.node }
func (v *ForEachVar) Name() string          { return v.name }
func (v *ForEachVar) TypeNode() jast.NodeID { return v.typeNode }
func (v *ForEachVar) Init() jast.NodeID     { return jast.NoNode }
func (v *ForEachVar) Final() bool           { return v.final }

func (v *LocalVar) File() *jast.File      { return v.file }
func (v *LocalVar) Node() jast.NodeID     { return v.node }
func (v *LocalVar) Name() string          { return v.name }
func (v *LocalVar) TypeNode() jast.NodeID { return v.typeNode }
func (v *LocalVar) Init() jast.NodeID     { return v.init }
func (v *LocalVar) Final() bool           { return v.final }

func (*ParamVar) isVariable()   {}
func (*CatchParam) isVariable() {}
func (*FieldVar) isVariable()   {}
func (*ForEachVar) isVariable() {}
func (*LocalVar) isVariable()   {}

// VariableAt maps a declaring node to its Variable shape. Field declarators
// are looked up in reg. Any other node is a *ShapeError.
func VariableAt(reg *Registry, f *jast.File, id jast.NodeID) (Variable, error) {
	if d, ok := reg.DeclAt(f.Ref(id)); ok {
		if fd, ok := d.(*Field); ok {
			return &FieldVar{Field: fd}, nil
		}
	}
	parent := f.Parent(id)
	switch f.Kind(id) {
	case "formal_parameter":
		lambda := f.Ancestor(id, "lambda_expression")
		return &ParamVar{
			file:     f,
			node:     id,
			name:     f.Text(f.Child(id, "name")),
			typeNode: f.Child(id, "type"),
			final:    parseModifiers(f, id).Final,
			Lambda:   lambda != jast.NoNode && f.Parent(parent) == lambda,
		}, nil
	case "spread_parameter":
		for _, p := range params(f, parent) {
			if p.Node == id {
				return &ParamVar{file: f, node: id, name: p.Name, typeNode: p.TypeNode, final: p.Final, Varargs: true}, nil
			}
		}
	case "identifier":
		// Inferred lambda parameters: x -> ..., (x, y) -> ...
		if f.Kind(parent) == "inferred_parameters" || (f.Kind(parent) == "lambda_expression" && f.Child(parent, "parameters") == id) {
			return &ParamVar{file: f, node: id, name: f.Text(id), typeNode: jast.NoNode, Lambda: true}, nil
		}
		if f.Kind(parent) == "instanceof_expression" {
			return &LocalVar{file: f, node: id, name: f.Text(id), typeNode: f.Child(parent, "right"), init: jast.NoNode}, nil
		}
	case "catch_formal_parameter":
		cp := &CatchParam{file: f, node: id, name: f.Text(f.Child(id, "name")), final: parseModifiers(f, id).Final}
		if ct := f.ChildOfKind(id, "catch_type"); ct != jast.NoNode {
			cp.Types = f.NamedChildren(ct)
		}
		return cp, nil
	case "variable_declarator":
		switch f.Kind(parent) {
		case "local_variable_declaration":
			return &LocalVar{
				file:     f,
				node:     id,
				name:     f.Text(f.Child(id, "name")),
				typeNode: f.Child(parent, "type"),
				init:     f.Child(id, "value"),
				final:    parseModifiers(f, parent).Final,
			}, nil
		case "spread_parameter":
			return VariableAt(reg, f, parent)
		}
	case "enhanced_for_statement":
		return &ForEachVar{
			file:     f,
			node:     id,
			name:     f.Text(f.Child(id, "name")),
			typeNode: f.Child(id, "type"),
			Iterable: f.Child(id, "value"),
			final:    parseModifiers(f, id).Final,
		}, nil
	case "resource":
		return &LocalVar{
			file:     f,
			node:     id,
			name:     f.Text(f.Child(id, "name")),
			typeNode: f.Child(id, "type"),
			init:     f.Child(id, "value"),
			final:    true,
		}, nil
	case "type_pattern":
		named := f.NamedChildren(id)
		if len(named) >= 2 {
			return &LocalVar{file: f, node: id, name: f.Text(named[len(named)-1]), typeNode: named[0], init: jast.NoNode}, nil
		}
	}
	return nil, shapeError(f, id, "not a variable declaration")
}

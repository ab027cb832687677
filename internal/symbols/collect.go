package symbols

import (
	"strconv"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
)

// Import is one import declaration.
type Import struct {
	Node     jast.NodeID
	Name     string // without the trailing ".*"
	Static   bool
	Asterisk bool
}

// Simple returns the last segment of a single import.
func (i Import) Simple() string {
	return lastSegment(i.Name)
}

// Unit is the declaration model of one compilation unit.
type Unit struct {
	File    *jast.File
	Package string
	Imports []Import
	Types   []*Type // top-level types
	All     []*Type // every type declared in the file, pre-order
}

// TypeDeclKinds are the node kinds of named type declarations.
var TypeDeclKinds = []string{
	"class_declaration", "interface_declaration", "enum_declaration",
	"record_declaration", "annotation_type_declaration",
}

var typeDeclKind = map[string]TypeKind{
	"class_declaration":           KindClass,
	"interface_declaration":       KindInterface,
	"enum_declaration":            KindEnum,
	"record_declaration":          KindRecord,
	"annotation_type_declaration": KindAnnotation,
}

// IsTypeDecl reports whether kind is a named type declaration.
func IsTypeDecl(kind string) bool {
	_, ok := typeDeclKind[kind]
	return ok
}

type collector struct {
	f        *jast.File
	u        *Unit
	counters map[*Type]int
}

// Collect builds the declaration model of f. It does not assign DeclIDs;
// that happens when the unit is added to a Registry.
func Collect(f *jast.File) (*Unit, error) {
	u := &Unit{File: f}
	c := &collector{f: f, u: u, counters: map[*Type]int{}}
	for _, n := range f.NamedChildren(jast.RootID) {
		switch kind := f.Kind(n); {
		case kind == "package_declaration":
			u.Package = f.Text(f.ChildOfKind(n, "scoped_identifier", "identifier"))
		case kind == "import_declaration":
			u.Imports = append(u.Imports, parseImport(f, n))
		case IsTypeDecl(kind):
			t, err := c.typeDecl(n, nil, jast.NoNode)
			if err != nil {
				return nil, err
			}
			u.Types = append(u.Types, t)
		}
	}
	return u, nil
}

func parseImport(f *jast.File, n jast.NodeID) Import {
	imp := Import{Node: n}
	for _, c := range f.Node(n).Children {
		switch f.Kind(c) {
		case "static":
			imp.Static = true
		case "asterisk":
			imp.Asterisk = true
		case "identifier", "scoped_identifier":
			imp.Name = f.Text(c)
		}
	}
	return imp
}

func (c *collector) nextIndex(owner *Type) int {
	c.counters[owner]++
	return c.counters[owner]
}

func (c *collector) typeDecl(n jast.NodeID, outer *Type, enclosing jast.NodeID) (*Type, error) {
	f := c.f
	t := &Type{
		base:      base{file: f, node: n, name: f.Text(f.Child(n, "name")), owner: outer},
		Kind:      typeDeclKind[f.Kind(n)],
		Unit:      c.u,
		Enclosing: enclosing,
		Local:     enclosing != jast.NoNode,
		Modifiers: parseModifiers(f, n),
		Super:     jast.NoNode,
		Body:      f.Child(n, "body"),
	}
	switch {
	case outer == nil && c.u.Package != "":
		t.qname = c.u.Package + "." + t.name
	case outer == nil:
		t.qname = t.name
	case t.Local:
		t.qname = outer.qname + "$" + strconv.Itoa(c.nextIndex(outer)) + t.name
	default:
		t.qname = outer.qname + "." + t.name
	}
	t.TypeParams = typeParams(f, f.Child(n, "type_parameters"))

	for _, ch := range f.Node(n).Children {
		switch f.Kind(ch) {
		case "superclass":
			t.Clauses = append(t.Clauses, ch)
			if named := f.NamedChildren(ch); len(named) > 0 {
				t.Super = named[0]
			}
		case "super_interfaces", "extends_interfaces":
			t.Clauses = append(t.Clauses, ch)
			t.Interfaces = append(t.Interfaces, typeList(f, ch)...)
		case "permits":
			t.Clauses = append(t.Clauses, ch)
		}
	}
	if t.Kind == KindRecord {
		for _, p := range params(f, f.Child(n, "parameters")) {
			t.Components = append(t.Components, &Field{
				base:        base{file: f, node: p.Node, name: p.Name, owner: t},
				Declaration: p.Node,
				TypeNode:    p.TypeNode,
				Init:        jast.NoNode,
				Component:   true,
			})
		}
	}

	c.u.All = append(c.u.All, t)
	if t.Body == jast.NoNode {
		return nil, shapeError(f, n, "type declaration without body")
	}
	if err := c.members(t, t.Body); err != nil {
		return nil, err
	}
	return t, nil
}

func (c *collector) anonymous(body jast.NodeID, owner *Type, enclosing jast.NodeID, super jast.NodeID, kind TypeKind) (*Type, error) {
	t := &Type{
		base:      base{file: c.f, node: body, owner: owner},
		Kind:      kind,
		Unit:      c.u,
		Enclosing: enclosing,
		Local:     true,
		Super:     super,
		Body:      body,
	}
	t.qname = owner.qname + "$" + strconv.Itoa(c.nextIndex(owner))
	c.u.All = append(c.u.All, t)
	owner.Inner = append(owner.Inner, t)
	return t, c.members(t, body)
}

func (c *collector) members(t *Type, body jast.NodeID) error {
	f := c.f
	for _, m := range f.NamedChildren(body) {
		switch kind := f.Kind(m); {
		case kind == "field_declaration" || kind == "constant_declaration":
			mods := parseModifiers(f, m)
			typ := f.Child(m, "type")
			for _, d := range f.Fields(m, "declarator") {
				fd := &Field{
					base:        base{file: f, node: d, name: f.Text(f.Child(d, "name")), owner: t},
					Modifiers:   mods,
					Declaration: m,
					TypeNode:    typ,
					Init:        f.Child(d, "value"),
				}
				t.Fields = append(t.Fields, fd)
				if err := c.inner(t, fd.Init, d); err != nil {
					return err
				}
			}
		case kind == "method_declaration" || kind == "annotation_type_element_declaration":
			md := c.method(t, m)
			md.AnnotationElement = kind == "annotation_type_element_declaration"
			t.Methods = append(t.Methods, md)
			if err := c.inner(t, md.Body, m); err != nil {
				return err
			}
		case kind == "constructor_declaration" || kind == "compact_constructor_declaration":
			md := c.method(t, m)
			md.Ctor = true
			md.ReturnType = jast.NoNode
			if kind == "compact_constructor_declaration" {
				for _, comp := range t.Components {
					md.Params = append(md.Params, &Param{Name: comp.name, Node: comp.node, TypeNode: comp.TypeNode})
				}
			}
			t.Ctors = append(t.Ctors, md)
			if err := c.inner(t, md.Body, m); err != nil {
				return err
			}
		case kind == "block" || kind == "static_initializer":
			init := &Initializer{
				base:   base{file: f, node: m, name: "<init>", owner: t},
				Static: kind == "static_initializer",
				Block:  m,
				index:  len(t.Initializers),
			}
			if init.Static {
				init.name = "<clinit>"
				init.Block = f.ChildOfKind(m, "block")
			}
			t.Initializers = append(t.Initializers, init)
			if err := c.inner(t, init.Block, m); err != nil {
				return err
			}
		case kind == "enum_constant":
			ec := &EnumConstant{
				base: base{file: f, node: m, name: f.Text(f.Child(m, "name")), owner: t},
				Args: f.Child(m, "arguments"),
			}
			t.Constants = append(t.Constants, ec)
			if err := c.inner(t, ec.Args, m); err != nil {
				return err
			}
			if b := f.Child(m, "body"); b != jast.NoNode {
				bt, err := c.anonymous(b, t, m, jast.NoNode, KindEnumConstantBody)
				if err != nil {
					return err
				}
				bt.Constant = ec
				ec.Body = bt
			}
		case kind == "enum_body_declarations":
			if err := c.members(t, m); err != nil {
				return err
			}
		case IsTypeDecl(kind):
			mt, err := c.typeDecl(m, t, jast.NoNode)
			if err != nil {
				return err
			}
			t.Members = append(t.Members, mt)
		}
	}
	return nil
}

// inner collects local and anonymous types declared in region.
func (c *collector) inner(owner *Type, region, enclosing jast.NodeID) error {
	if region == jast.NoNode {
		return nil
	}
	var err error
	f := c.f
	f.Walk(region, func(id jast.NodeID) bool {
		if err != nil {
			return false
		}
		switch kind := f.Kind(id); {
		case kind == "object_creation_expression":
			body := f.ChildOfKind(id, "class_body")
			if body == jast.NoNode {
				return true
			}
			for _, ch := range f.Node(id).Children {
				if ch != body {
					if err = c.inner(owner, ch, enclosing); err != nil {
						return false
					}
				}
			}
			_, err = c.anonymous(body, owner, enclosing, f.Child(id, "type"), KindAnonymous)
			return false
		case IsTypeDecl(kind) && id != region:
			var t *Type
			t, err = c.typeDecl(id, owner, enclosing)
			if err == nil {
				owner.Inner = append(owner.Inner, t)
			}
			return false
		}
		return true
	})
	return err
}

func (c *collector) method(t *Type, n jast.NodeID) *Method {
	f := c.f
	m := &Method{
		base:         base{file: f, node: n, name: f.Text(f.Child(n, "name")), owner: t},
		Modifiers:    parseModifiers(f, n),
		TypeParams:   typeParams(f, f.Child(n, "type_parameters")),
		ReturnType:   f.Child(n, "type"),
		Params:       params(f, f.Child(n, "parameters")),
		Body:         f.Child(n, "body"),
		DefaultValue: f.Child(n, "value"),
	}
	if th := f.ChildOfKind(n, "throws"); th != jast.NoNode {
		m.Throws = f.NamedChildren(th)
	}
	return m
}

func params(f *jast.File, fp jast.NodeID) []*Param {
	if fp == jast.NoNode {
		return nil
	}
	var out []*Param
	for _, p := range f.NamedChildren(fp) {
		switch f.Kind(p) {
		case "formal_parameter":
			out = append(out, &Param{
				Name:     f.Text(f.Child(p, "name")),
				Node:     p,
				TypeNode: f.Child(p, "type"),
				Final:    parseModifiers(f, p).Final,
			})
		case "spread_parameter":
			sp := &Param{Node: p, TypeNode: jast.NoNode, Varargs: true, Final: parseModifiers(f, p).Final}
			for _, ch := range f.NamedChildren(p) {
				switch f.Kind(ch) {
				case "modifiers":
				case "variable_declarator":
					sp.Name = f.Text(f.Child(ch, "name"))
				default:
					if sp.TypeNode == jast.NoNode {
						sp.TypeNode = ch
					}
				}
			}
			out = append(out, sp)
		}
	}
	return out
}

func typeParams(f *jast.File, tps jast.NodeID) []TypeParam {
	if tps == jast.NoNode {
		return nil
	}
	var out []TypeParam
	for _, tp := range f.ChildrenOfKind(tps, "type_parameter") {
		p := TypeParam{Node: tp, Name: f.Text(f.ChildOfKind(tp, "type_identifier", "identifier"))}
		if b := f.ChildOfKind(tp, "type_bound"); b != jast.NoNode {
			p.Bounds = f.NamedChildren(b)
		}
		out = append(out, p)
	}
	return out
}

func typeList(f *jast.File, clause jast.NodeID) []jast.NodeID {
	if tl := f.ChildOfKind(clause, "type_list"); tl != jast.NoNode {
		return f.NamedChildren(tl)
	}
	return nil
}

func lastSegment(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}

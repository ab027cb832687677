// Package symbols is the declaration model of a Java source tree: types
// (including anonymous classes and enum constant bodies), callables, fields,
// enum constants and initializers, indexed by a Registry.
package symbols

import (
	"strconv"
	"strings"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
)

// DeclID is the dense index of a declaration inside its Registry.
type DeclID uint32

// Decl is a declaration that can be reached, kept, dummied or removed. The
// set of implementations is closed.
type Decl interface {
	ID() DeclID
	File() *jast.File
	Node() jast.NodeID
	Ref() jast.Ref
	Name() string
	// QName identifies the declaration across the tree, e.g. "p.C",
	// "p.C#m(int,String)" or "p.C#f".
	QName() string
	// Owner is the declaring type, nil for top-level types.
	Owner() *Type
	isDecl()
}

type base struct {
	id    DeclID
	file  *jast.File
	node  jast.NodeID
	name  string
	owner *Type
}

func (b *base) ID() DeclID { return b.id }
func (b *base) File() *jast.File { return b.file }
func (b *base) Node() jast.NodeID { return b.node }
func (b *base) Ref() jast.Ref { return b.file.Ref(b.node) }
func (b *base) Name() string { return b.name }
func (b *base) Owner() *Type { return b.owner }
func (b *base) setID(id DeclID) { b.id = id }
func (b *base) baseDecl() *base { return b }
func (*Type) isDecl() {}
func (*Method) isDecl() {}
func (*Field) isDecl() {}
func (*EnumConstant) isDecl() {}
func (*Initializer) isDecl() {}

// Modifiers are the keyword modifiers and annotations of a declaration.
type Modifiers struct {
	Public, Protected, Private bool
	Static, Final, Abstract    bool
	Default                    bool
	Annotations                []jast.NodeID
}

func parseModifiers(f *jast.File, decl jast.NodeID) Modifiers {
	var m Modifiers
	mods := f.ChildOfKind(decl, "modifiers")
	if mods == jast.NoNode {
		return m
	}
	for _, c := range f.Node(mods).Children {
		switch f.Kind(c) {
		case "public":
			m.Public = true
		case "protected":
			m.Protected = true
		case "private":
			m.Private = true
		case "static":
			m.Static = true
		case "final":
			m.Final = true
		case "abstract":
			m.Abstract = true
		case "default":
			m.Default = true
		case "annotation", "marker_annotation":
			m.Annotations = append(m.Annotations, c)
		}
	}
	return m
}

// AnnotationName returns the simple name of an annotation node.
func AnnotationName(f *jast.File, ann jast.NodeID) string {
	name := f.Text(f.Child(ann, "name"))
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// HasAnnotation reports whether m carries an annotation with the simple name.
func (m Modifiers) HasAnnotation(f *jast.File, simple string) bool {
	for _, a := range m.Annotations {
		if AnnotationName(f, a) == simple {
			return true
		}
	}
	return false
}

// TypeKind classifies type declarations.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindEnum
	KindRecord
	KindAnnotation
	KindAnonymous
	KindEnumConstantBody
)

var typeKindNames = [...]string{"class", "interface", "enum", "record", "annotation", "anonymous", "enum-constant-body"}

func (k TypeKind) String() string { return typeKindNames[k] }

// TypeParam is a declared type parameter.
type TypeParam struct {
	Name   string
	Node   jast.NodeID
	Bounds []jast.NodeID
}

// Type is a class, interface, enum, record, annotation, anonymous class or
// enum constant body.
type Type struct {
	base
	Kind  TypeKind
	Unit  *Unit
	qname string

	// Enclosing is the member, initializer or field whose code declares a
	// local or anonymous type; NoNode for member and top-level types.
	Enclosing jast.NodeID
	Local     bool

	Modifiers  Modifiers
	TypeParams []TypeParam
	// Super is the superclass type node. For anonymous types it is the
	// instantiated type, which may be an interface.
	Super      jast.NodeID
	Interfaces []jast.NodeID
	// Clauses are the superclass, super_interfaces, extends_interfaces and
	// permits nodes of the header.
	Clauses []jast.NodeID
	Body    jast.NodeID

	Methods      []*Method // includes annotation type elements
	Ctors        []*Method
	Fields       []*Field
	Components   []*Field // record components
	Constants    []*EnumConstant
	Initializers []*Initializer
	Members      []*Type // member types
	Inner        []*Type // local and anonymous types declared in this type's code
	Constant     *EnumConstant
}

func (t *Type) QName() string { return t.qname }

// IsInterface reports whether t is an interface or annotation type.
func (t *Type) IsInterface() bool {
	return t.Kind == KindInterface || t.Kind == KindAnnotation
}

// IsStatic reports whether t has no enclosing instance.
func (t *Type) IsStatic() bool {
	if t.owner == nil || t.Modifiers.Static {
		return true
	}
	switch t.Kind {
	case KindInterface, KindEnum, KindRecord, KindAnnotation:
		return true
	}
	return t.owner.IsInterface()
}

// IsAbstract reports whether t cannot be instantiated directly.
func (t *Type) IsAbstract() bool {
	return t.Modifiers.Abstract || t.IsInterface()
}

// Decls returns t's own member declarations in source order groups: fields,
// components, constants, constructors, methods, initializers and member types.
func (t *Type) Decls() []Decl {
	var out []Decl
	for _, f := range t.Fields {
		out = append(out, f)
	}
	for _, f := range t.Components {
		out = append(out, f)
	}
	for _, c := range t.Constants {
		out = append(out, c)
	}
	for _, c := range t.Ctors {
		out = append(out, c)
	}
	for _, m := range t.Methods {
		out = append(out, m)
	}
	for _, i := range t.Initializers {
		out = append(out, i)
	}
	for _, m := range t.Members {
		out = append(out, m)
	}
	return out
}

// MethodsNamed returns t's declared methods with the given name.
func (t *Type) MethodsNamed(name string) []*Method {
	var out []*Method
	for _, m := range t.Methods {
		if m.name == name {
			out = append(out, m)
		}
	}
	return out
}

// Field returns the declared field or record component with the given name.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.name == name {
			return f
		}
	}
	for _, f := range t.Components {
		if f.name == name {
			return f
		}
	}
	return nil
}

// EnumConstant returns the declared constant with the given name.
func (t *Type) EnumConstant(name string) *EnumConstant {
	for _, c := range t.Constants {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Member returns the member type with the given simple name.
func (t *Type) Member(name string) *Type {
	for _, m := range t.Members {
		if m.name == name {
			return m
		}
	}
	return nil
}

// Outermost returns the top-level type enclosing t.
func (t *Type) Outermost() *Type {
	for t.owner != nil {
		t = t.owner
	}
	return t
}

// Param is a formal parameter of a callable.
type Param struct {
	Name     string
	Node     jast.NodeID // formal_parameter or spread_parameter
	TypeNode jast.NodeID
	Final    bool
	Varargs  bool
}

// Method is a method, constructor or annotation type element.
type Method struct {
	base
	Ctor              bool
	AnnotationElement bool
	Modifiers         Modifiers
	TypeParams        []TypeParam
	ReturnType        jast.NodeID // NoNode for constructors
	Params            []*Param
	Throws            []jast.NodeID
	Body              jast.NodeID // NoNode for abstract and native methods
	DefaultValue      jast.NodeID // annotation element default
}

func (m *Method) QName() string {
	return m.owner.qname + "#" + m.Signature()
}

// Signature renders name and erased parameter types as written, e.g.
// "put(K,V)" or "<init>(int)".
func (m *Method) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.name)
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(compactTypeText(m.file, p.TypeNode))
		if p.Varargs {
			sb.WriteString("...")
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// Arity is the number of declared parameters.
func (m *Method) Arity() int { return len(m.Params) }

// Varargs reports whether the last parameter is variadic.
func (m *Method) Varargs() bool {
	return len(m.Params) > 0 && m.Params[len(m.Params)-1].Varargs
}

// IsStatic reports whether m is a static method. Constructors are not static.
func (m *Method) IsStatic() bool { return m.Modifiers.Static }

// IsAbstract reports whether m has no body and is meant to be implemented.
func (m *Method) IsAbstract() bool {
	if m.Ctor || m.Body != jast.NoNode {
		return false
	}
	return m.Modifiers.Abstract || m.owner.IsInterface()
}

// Overridable reports whether m can take part in dynamic dispatch.
func (m *Method) Overridable() bool {
	return !m.Ctor && !m.Modifiers.Static && !m.Modifiers.Private
}

// ExplicitInvocation returns the explicit this(...)/super(...) call of a
// constructor body, or NoNode.
func (m *Method) ExplicitInvocation() jast.NodeID {
	if !m.Ctor || m.Body == jast.NoNode {
		return jast.NoNode
	}
	return m.file.ChildOfKind(m.Body, "explicit_constructor_invocation")
}

// Field is one declarator of a field declaration, an interface constant or a
// record component.
type Field struct {
	base
	Modifiers   Modifiers
	Declaration jast.NodeID // field_declaration, constant_declaration or formal_parameter
	TypeNode    jast.NodeID
	Init        jast.NodeID // NoNode when absent
	Component   bool
}

func (f *Field) QName() string { return f.owner.qname + "#" + f.name }

// IsStatic reports whether f is a static field. Interface constants are
// implicitly static.
func (f *Field) IsStatic() bool {
	return f.Modifiers.Static || (!f.Component && f.owner.IsInterface())
}

// IsFinal reports whether f cannot be reassigned.
func (f *Field) IsFinal() bool {
	return f.Modifiers.Final || f.Component || f.owner.IsInterface()
}

// EnumConstant is one constant of an enum.
type EnumConstant struct {
	base
	Args jast.NodeID // argument_list or NoNode
	Body *Type       // constant body or nil
}

func (c *EnumConstant) QName() string { return c.owner.qname + "#" + c.name }

// Initializer is an instance or static initializer block.
type Initializer struct {
	base
	Static bool
	Block  jast.NodeID
	index  int
}

func (i *Initializer) QName() string {
	kind := "<init>"
	if i.Static {
		kind = "<clinit>"
	}
	return i.owner.qname + "#" + kind + "[" + strconv.Itoa(i.index) + "]"
}

func compactTypeText(f *jast.File, id jast.NodeID) string {
	return strings.Join(strings.Fields(f.Text(id)), "")
}

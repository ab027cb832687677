// Package jtypes models resolved Java types as a closed sum type and provides
// the normalize/flatten algebra used to turn inferred types back into types
// that can be written in source.
package jtypes

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is a resolved type. The set of implementations is closed: only the
// variants in this file satisfy it.
type Type interface {
	String() string
	isType()
}

// Primitive is one of the eight primitive types.
type Primitive struct {
	Name string
}

// Array is an array of Elem.
type Array struct {
	Elem Type
}

// Reference is a nominal class, interface, enum, record or annotation type,
// possibly parameterized.
type Reference struct {
	Name string // qualified name, nested types joined with '.'
	Args []Type
}

// TypeVariable is a declared type parameter.
type TypeVariable struct {
	Name   string
	Bounds []Type
}

// Wildcard is a type argument "?", "? extends Bound" or "? super Bound".
type Wildcard struct {
	Bound Type // nil when unbounded
	Super bool
}

// Intersection is "A & B & ...".
type Intersection struct {
	Elems []Type
}

// Union is a multi-catch or conditional "A | B".
type Union struct {
	Elems []Type
}

// Null is the type of the null literal.
type Null struct{}

// Void is the return type of void methods.
type Void struct{}

// InferenceVariable stands for a type the solver could not infer (lambda,
// method reference and poly-expression targets).
type InferenceVariable struct {
	ID     int
	Bounds []Type
}

func (Primitive) isType()         {}
func (Array) isType()             {}
func (Reference) isType()         {}
func (TypeVariable) isType()      {}
func (Wildcard) isType()          {}
func (Intersection) isType()      {}
func (Union) isType()             {}
func (Null) isType()              {}
func (Void) isType()              {}
func (InferenceVariable) isType() {}

func (p Primitive) String() string { return p.Name }

func (a Array) String() string { return a.Elem.String() + "[]" }

func (r Reference) String() string {
	if len(r.Args) == 0 {
		return r.Name
	}
	return r.Name + "<" + joinTypes(r.Args, ",") + ">"
}

func (v TypeVariable) String() string { return v.Name }

func (w Wildcard) String() string {
	switch {
	case w.Bound == nil:
		return "?"
	case w.Super:
		return "? super " + w.Bound.String()
	default:
		return "? extends " + w.Bound.String()
	}
}

func (i Intersection) String() string { return joinTypes(i.Elems, " & ") }

func (u Union) String() string { return joinTypes(u.Elems, " | ") }

func (Null) String() string { return "null" }

func (Void) String() string { return "void" }

func (v InferenceVariable) String() string { return "α" + strconv.Itoa(v.ID) }

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

// UnhandledTypeError reports a Type value outside the closed variant set. It
// is raised as a panic: reaching it means an algorithm was not updated for a
// new variant.
type UnhandledTypeError struct {
	Op   string
	Type Type
}

func (e *UnhandledTypeError) Error() string {
	return fmt.Sprintf("jtypes: %s: unhandled type variant %T", e.Op, e.Type)
}

// Well-known types.
var (
	Object    = Reference{Name: "java.lang.Object"}
	String    = Reference{Name: "java.lang.String"}
	Throwable = Reference{Name: "java.lang.Throwable"}
	Boolean   = Primitive{Name: "boolean"}
	Int       = Primitive{Name: "int"}
	Long      = Primitive{Name: "long"}
	Float     = Primitive{Name: "float"}
	Double    = Primitive{Name: "double"}
	Char      = Primitive{Name: "char"}
	Byte      = Primitive{Name: "byte"}
	Short     = Primitive{Name: "short"}
)

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "short": true, "int": true,
	"long": true, "char": true, "float": true, "double": true,
}

// IsPrimitiveName reports whether name is a primitive type keyword.
func IsPrimitiveName(name string) bool {
	return primitiveNames[name]
}

var boxes = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"char":    "java.lang.Character",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
}

// Box returns the wrapper reference type of a primitive, or t unchanged.
func Box(t Type) Type {
	if p, ok := t.(Primitive); ok {
		return Reference{Name: boxes[p.Name]}
	}
	return t
}

// Unbox returns the primitive of a wrapper reference type.
func Unbox(t Type) (Primitive, bool) {
	r, ok := t.(Reference)
	if !ok {
		return Primitive{}, false
	}
	for p, b := range boxes {
		if b == r.Name {
			return Primitive{Name: p}, true
		}
	}
	return Primitive{}, false
}

var numericRank = map[string]int{
	"byte": 1, "short": 2, "char": 2, "int": 3, "long": 4, "float": 5, "double": 6,
}

// IsNumeric reports whether t is a numeric primitive or its wrapper.
func IsNumeric(t Type) bool {
	p, ok := t.(Primitive)
	if !ok {
		p, ok = Unbox(t)
	}
	return ok && numericRank[p.Name] > 0
}

// Promote applies binary numeric promotion to a and b.
func Promote(a, b Type) Type {
	pa, ok := a.(Primitive)
	if !ok {
		pa, _ = Unbox(a)
	}
	pb, ok := b.(Primitive)
	if !ok {
		pb, _ = Unbox(b)
	}
	switch {
	case pa.Name == "double" || pb.Name == "double":
		return Double
	case pa.Name == "float" || pb.Name == "float":
		return Float
	case pa.Name == "long" || pb.Name == "long":
		return Long
	default:
		return Int
	}
}

// Erase drops type arguments and replaces type variables by their first
// bound.
func Erase(t Type) Type {
	switch t := t.(type) {
	case Reference:
		return Reference{Name: t.Name}
	case Array:
		return Array{Elem: Erase(t.Elem)}
	case TypeVariable:
		if len(t.Bounds) > 0 {
			return Erase(t.Bounds[0])
		}
		return Object
	case Wildcard:
		if t.Bound != nil && !t.Super {
			return Erase(t.Bound)
		}
		return Object
	case Intersection:
		if len(t.Elems) > 0 {
			return Erase(t.Elems[0])
		}
		return Object
	case InferenceVariable:
		if len(t.Bounds) > 0 {
			return Erase(t.Bounds[0])
		}
		return Object
	case Union, Null:
		return Object
	case Primitive, Void:
		return t
	default:
		panic(&UnhandledTypeError{Op: "erase", Type: t})
	}
}

// Subst replaces type variables named in m.
func Subst(t Type, m map[string]Type) Type {
	if len(m) == 0 || t == nil {
		return t
	}
	switch t := t.(type) {
	case TypeVariable:
		if r, ok := m[t.Name]; ok {
			return r
		}
		return t
	case Reference:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = Subst(a, m)
		}
		return Reference{Name: t.Name, Args: args}
	case Array:
		return Array{Elem: Subst(t.Elem, m)}
	case Wildcard:
		if t.Bound == nil {
			return t
		}
		return Wildcard{Bound: Subst(t.Bound, m), Super: t.Super}
	case Intersection:
		return Intersection{Elems: substAll(t.Elems, m)}
	case Union:
		return Union{Elems: substAll(t.Elems, m)}
	case InferenceVariable:
		return InferenceVariable{ID: t.ID, Bounds: substAll(t.Bounds, m)}
	case Primitive, Null, Void:
		return t
	default:
		panic(&UnhandledTypeError{Op: "subst", Type: t})
	}
}

func substAll(ts []Type, m map[string]Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = Subst(t, m)
	}
	return out
}

// Equal compares types structurally.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// IsReference reports whether t is a reference-typed value (anything but a
// primitive or void).
func IsReference(t Type) bool {
	switch t.(type) {
	case Primitive, Void:
		return false
	default:
		return true
	}
}

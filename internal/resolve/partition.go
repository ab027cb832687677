package resolve

import (
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// TypeRef is a nominal type found by name: either in-tree or external.
// Exactly one of Tree and Lib is set.
type TypeRef struct {
	Tree *symbols.Type
	Lib  *LibType
}

// Name returns the qualified name.
func (r TypeRef) Name() string {
	if r.Tree != nil {
		return r.Tree.QName()
	}
	return r.Lib.Name
}

// IsInterface reports whether the type is an interface or annotation type.
func (r TypeRef) IsInterface() bool {
	if r.Tree != nil {
		return r.Tree.IsInterface()
	}
	return r.Lib.Interface
}

// Partitioned answers type-name lookups over the in-tree registry and the
// external library. In-tree declarations shadow library ones of the same
// name.
type Partitioned struct {
	Registry *symbols.Registry
	Library  *Library
}

// InTree reports whether qname is declared in the analysed tree.
func (p *Partitioned) InTree(qname string) bool {
	return p.Registry.Type(qname) != nil
}

// Lookup finds a type by qualified name.
func (p *Partitioned) Lookup(qname string) (TypeRef, bool) {
	if t := p.Registry.Type(qname); t != nil {
		return TypeRef{Tree: t}, true
	}
	if t, ok := p.Library.Type(qname); ok {
		return TypeRef{Lib: t}, true
	}
	return TypeRef{}, false
}

// IsPackage reports whether name is a package (or package prefix) on either
// side.
func (p *Partitioned) IsPackage(name string) bool {
	return p.Registry.IsPackage(name) || p.Library.IsPackage(name)
}

// Member returns the member type name of r, searching only r itself.
func (p *Partitioned) Member(r TypeRef, name string) (TypeRef, bool) {
	if r.Tree != nil {
		if m := r.Tree.Member(name); m != nil {
			return TypeRef{Tree: m}, true
		}
		return TypeRef{}, false
	}
	return p.Lookup(r.Lib.Name + "." + name)
}

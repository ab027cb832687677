package symbols

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
)

// Registry indexes every declaration of a loaded source tree. It is built
// once and read-only afterwards.
type Registry struct {
	decls    []Decl
	byRef    map[jast.Ref]Decl
	types    map[string]*Type
	all      []*Type
	units    map[string]*Unit
	paths    []string
	packages map[string]bool
}

// NewRegistry assigns DeclIDs to the declarations of units in path order.
// When two units declare the same qualified type name, the first in path
// order wins.
func NewRegistry(units []*Unit) *Registry {
	sorted := append([]*Unit(nil), units...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].File.Path < sorted[j].File.Path })

	r := &Registry{
		byRef:    make(map[jast.Ref]Decl),
		types:    make(map[string]*Type),
		units:    make(map[string]*Unit, len(units)),
		packages: make(map[string]bool),
	}
	for _, u := range sorted {
		r.units[u.File.Path] = u
		r.paths = append(r.paths, u.File.Path)
		for pkg := u.Package; pkg != ""; {
			r.packages[pkg] = true
			i := strings.LastIndexByte(pkg, '.')
			if i < 0 {
				break
			}
			pkg = pkg[:i]
		}
		for _, t := range u.All {
			if _, dup := r.types[t.qname]; dup {
				continue
			}
			r.types[t.qname] = t
			r.all = append(r.all, t)
			r.add(t)
			for _, d := range t.Decls() {
				if _, isType := d.(*Type); !isType {
					r.add(d)
				}
			}
		}
	}
	return r
}

func (r *Registry) add(d Decl) {
	type idSetter interface{ setID(DeclID) }
	d.(idSetter).setID(DeclID(len(r.decls)))
	r.decls = append(r.decls, d)
	r.byRef[d.Ref()] = d
}

// Len returns the number of declarations.
func (r *Registry) Len() int { return len(r.decls) }

// Decl returns the declaration with the given ID.
func (r *Registry) Decl(id DeclID) Decl { return r.decls[id] }

// Decls returns every declaration in ID order.
func (r *Registry) Decls() []Decl { return r.decls }

// DeclAt returns the declaration whose declaring node is ref.
func (r *Registry) DeclAt(ref jast.Ref) (Decl, bool) {
	d, ok := r.byRef[ref]
	return d, ok
}

// Type returns the in-tree type with the given qualified name.
func (r *Registry) Type(qname string) *Type {
	return r.types[qname]
}

// Types returns every registered type in registration order.
func (r *Registry) Types() []*Type { return r.all }

// Unit returns the unit loaded from path.
func (r *Registry) Unit(path string) *Unit { return r.units[path] }

// Units returns all units sorted by path.
func (r *Registry) Units() []*Unit {
	out := make([]*Unit, len(r.paths))
	for i, p := range r.paths {
		out[i] = r.units[p]
	}
	return out
}

// IsPackage reports whether name is a package, or a prefix of a package,
// declared by some loaded unit.
func (r *Registry) IsPackage(name string) bool {
	return r.packages[name]
}

// TypesInPackage returns the top-level types declared in pkg.
func (r *Registry) TypesInPackage(pkg string) []*Type {
	var out []*Type
	for _, p := range r.paths {
		u := r.units[p]
		if u.Package == pkg {
			out = append(out, u.Types...)
		}
	}
	return out
}

// EnclosingType returns the innermost type whose body contains node id of f.
func (r *Registry) EnclosingType(f *jast.File, id jast.NodeID) *Type {
	for p := f.Parent(id); p != jast.NoNode; p = f.Parent(p) {
		switch f.Kind(p) {
		case "class_body", "interface_body", "enum_body", "annotation_type_body":
			owner := f.Parent(p)
			if d, ok := r.byRef[f.Ref(owner)]; ok {
				if t, ok := d.(*Type); ok {
					return t
				}
			}
			if d, ok := r.byRef[f.Ref(p)]; ok {
				if t, ok := d.(*Type); ok {
					return t
				}
			}
		}
	}
	return nil
}

// EnclosingDecl returns the innermost callable, field, enum constant or
// initializer containing node id of f.
func (r *Registry) EnclosingDecl(f *jast.File, id jast.NodeID) Decl {
	for p := id; p != jast.NoNode; p = f.Parent(p) {
		if d, ok := r.byRef[f.Ref(p)]; ok {
			if _, isType := d.(*Type); !isType {
				return d
			}
		}
	}
	return nil
}

// ShapeError reports an AST node that matches none of the shapes the model
// expects. It is an invariant violation.
type ShapeError struct {
	File     string
	Line     int
	Path     string
	Kind     string
	Text     string
	Ancestry []string
	Reason   string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("symbols: %s:%d: %s: node %s %q at %s (ancestry %s)",
		e.File, e.Line, e.Reason, e.Kind, e.Text, e.Path, strings.Join(e.Ancestry, " < "))
}

func shapeError(f *jast.File, id jast.NodeID, reason string) *ShapeError {
	e := &ShapeError{
		File:   f.Path,
		Line:   f.Node(id).Row,
		Path:   f.ASTPath(id),
		Kind:   f.Kind(id),
		Text:   truncate(f.Text(id), 80),
		Reason: reason,
	}
	for p := f.Parent(id); p != jast.NoNode; p = f.Parent(p) {
		e.Ancestry = append(e.Ancestry, f.Kind(p))
	}
	return e
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

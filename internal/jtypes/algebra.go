package jtypes

import (
	"log/slog"
	"slices"
	"sort"

	"github.com/hashicorp/go-set/v3"
)

// Ancestor is one transitive supertype of a nominal type.
type Ancestor struct {
	Name      string
	Depth     int // 1 for direct supertypes
	Interface bool
}

// Hierarchy answers the subtype questions the algebra needs. It is
// implemented by the analysis context over both in-tree and library types.
type Hierarchy interface {
	// Ancestors returns every transitive supertype of name, each once, with
	// its shortest distance from name.
	Ancestors(name string) []Ancestor
	IsInterface(name string) bool
	// InTreeClasses lists the qualified names of in-tree classes, sorted.
	InTreeClasses() []string
}

// Algebra implements normalize, flatten and assignability over a Hierarchy.
type Algebra struct {
	H      Hierarchy
	Logger *slog.Logger
}

func (a *Algebra) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Normalize collapses t to the set of concrete types it can be declared as in
// source. Type arguments are erased. Null normalizes to the empty set.
// Every member of the result normalizes to itself.
func (a *Algebra) Normalize(t Type) []Type {
	seen := set.New[string](4)
	var out []Type
	add := func(ts ...Type) {
		for _, t := range ts {
			if seen.Insert(t.String()) {
				out = append(out, t)
			}
		}
	}

	switch t := t.(type) {
	case Primitive, Void:
		add(t)
	case Reference:
		add(Reference{Name: t.Name})
	case Array:
		for _, e := range a.Normalize(t.Elem) {
			add(Array{Elem: e})
		}
	case TypeVariable:
		if len(t.Bounds) == 0 {
			add(Object)
		}
		for _, b := range t.Bounds {
			add(a.Normalize(b)...)
		}
	case Wildcard:
		if t.Bound == nil || t.Super {
			add(Object)
		} else {
			add(a.Normalize(t.Bound)...)
		}
	case Intersection:
		if cands := a.intersectionClasses(t); len(cands) > 0 {
			add(cands...)
			break
		}
		for _, e := range t.Elems {
			add(a.Normalize(e)...)
		}
	case Union:
		add(a.Flatten(t))
	case Null:
	case InferenceVariable:
		if len(t.Bounds) == 0 {
			add(Object)
		}
		for _, b := range t.Bounds {
			add(a.Normalize(b)...)
		}
	default:
		panic(&UnhandledTypeError{Op: "normalize", Type: t})
	}
	return out
}

// Flatten collapses t to exactly one declarable type, widening when needed.
// Flatten is idempotent.
func (a *Algebra) Flatten(t Type) Type {
	switch t := t.(type) {
	case Primitive, Void:
		return t
	case Reference:
		return Reference{Name: t.Name}
	case Array:
		return Array{Elem: a.Flatten(t.Elem)}
	case TypeVariable:
		if len(t.Bounds) == 0 {
			return Object
		}
		return a.Flatten(t.Bounds[0])
	case Wildcard:
		if t.Bound == nil || t.Super {
			return Object
		}
		return a.Flatten(t.Bound)
	case Intersection:
		if cands := a.intersectionClasses(t); len(cands) == 1 {
			return cands[0]
		}
		for _, e := range t.Elems {
			if r, ok := a.Flatten(e).(Reference); ok && !a.isInterface(r.Name) {
				return r
			}
		}
		if len(t.Elems) == 0 {
			return Object
		}
		return a.Flatten(t.Elems[0])
	case Union:
		return a.lub(t.Elems)
	case Null:
		return Object
	case InferenceVariable:
		if len(t.Bounds) == 0 {
			return Object
		}
		return a.Flatten(t.Bounds[0])
	default:
		panic(&UnhandledTypeError{Op: "flatten", Type: t})
	}
}

func (a *Algebra) isInterface(name string) bool {
	return a.H != nil && a.H.IsInterface(name)
}

func (a *Algebra) ancestors(name string) []Ancestor {
	if a.H == nil {
		return nil
	}
	return a.H.Ancestors(name)
}

// intersectionClasses returns the in-tree classes whose ancestor set
// (including themselves) is a superset of the intersection's elements.
func (a *Algebra) intersectionClasses(t Intersection) []Type {
	if a.H == nil {
		return nil
	}
	want := set.New[string](len(t.Elems))
	for _, e := range t.Elems {
		if r, ok := a.Flatten(e).(Reference); ok && r.Name != Object.Name {
			want.Insert(r.Name)
		}
	}
	if want.Size() == 0 {
		return nil
	}
	var out []Type
	for _, c := range a.H.InTreeClasses() {
		have := set.New[string](8)
		have.Insert(c)
		for _, anc := range a.H.Ancestors(c) {
			have.Insert(anc.Name)
		}
		if containsAll(have, want.Slice()) {
			out = append(out, Reference{Name: c})
		}
	}
	return out
}

// lub computes the least upper bound of elems: the deepest common superclass,
// else the shallowest common interface, else java.lang.Object. A tie between
// interfaces is logged and resolved to java.lang.Object.
func (a *Algebra) lub(elems []Type) Type {
	if len(elems) == 0 {
		return Object
	}
	flat := make([]Type, 0, len(elems))
	for _, e := range elems {
		if _, ok := e.(Null); ok {
			continue
		}
		flat = append(flat, a.Flatten(e))
	}
	if len(flat) == 0 {
		return Object
	}
	if allEqual(flat) {
		return flat[0]
	}

	var prims, arrays int
	for _, f := range flat {
		switch f.(type) {
		case Primitive:
			prims++
		case Array:
			arrays++
		}
	}
	if prims == len(flat) {
		if IsNumeric(flat[0]) {
			out := flat[0]
			for _, f := range flat[1:] {
				if !IsNumeric(f) {
					return Object
				}
				out = Promote(out, f)
			}
			return out
		}
		return Object
	}
	if arrays == len(flat) {
		comps := make([]Type, len(flat))
		for i, f := range flat {
			comps[i] = f.(Array).Elem
			if _, ok := comps[i].(Primitive); ok {
				return Object
			}
		}
		return Array{Elem: a.lub(comps)}
	}
	if arrays > 0 {
		return Object
	}

	names := make([]string, len(flat))
	for i, f := range flat {
		if p, ok := f.(Primitive); ok {
			f = Box(p)
		}
		r, ok := f.(Reference)
		if !ok {
			return Object
		}
		names[i] = r.Name
	}

	if c := a.commonClass(names); c != "" {
		return Reference{Name: c}
	}
	return a.commonInterface(names)
}

func (a *Algebra) classChain(name string) []string {
	var chain []string
	if !a.isInterface(name) {
		chain = append(chain, name)
	}
	ancs := slices.Clone(a.ancestors(name))
	sort.SliceStable(ancs, func(i, j int) bool { return ancs[i].Depth < ancs[j].Depth })
	for _, anc := range ancs {
		if !anc.Interface {
			chain = append(chain, anc.Name)
		}
	}
	return chain
}

func (a *Algebra) commonClass(names []string) string {
	others := make([]*set.Set[string], 0, len(names)-1)
	for _, n := range names[1:] {
		chain := set.New[string](8)
		for _, c := range a.classChain(n) {
			chain.Insert(c)
		}
		others = append(others, chain)
	}
	for _, c := range a.classChain(names[0]) {
		shared := true
		for _, o := range others {
			if !o.Contains(c) {
				shared = false
				break
			}
		}
		if shared && c != Object.Name {
			return c
		}
	}
	return ""
}

func (a *Algebra) commonInterface(names []string) Type {
	var common map[string]int
	for _, n := range names {
		depths := map[string]int{}
		if a.isInterface(n) {
			depths[n] = 0
		}
		for _, anc := range a.ancestors(n) {
			if anc.Interface {
				depths[anc.Name] = anc.Depth
			}
		}
		if common == nil {
			common = depths
			continue
		}
		for iface, d := range common {
			nd, ok := depths[iface]
			if !ok {
				delete(common, iface)
				continue
			}
			common[iface] = max(d, nd)
		}
	}
	if len(common) == 0 {
		return Object
	}

	best := -1
	var tied []string
	for iface, d := range common {
		switch {
		case best < 0 || d < best:
			best = d
			tied = []string{iface}
		case d == best:
			tied = append(tied, iface)
		}
	}
	if len(tied) == 1 {
		return Reference{Name: tied[0]}
	}
	sort.Strings(tied)
	a.logger().Warn("ambiguous least upper bound, widening to java.lang.Object",
		"types", names, "candidates", tied)
	return Object
}

func containsAll(s *set.Set[string], items []string) bool {
	for _, it := range items {
		if !s.Contains(it) {
			return false
		}
	}
	return true
}

func allEqual(ts []Type) bool {
	for _, t := range ts[1:] {
		if !Equal(t, ts[0]) {
			return false
		}
	}
	return true
}

var widening = map[string][]string{
	"byte":  {"short", "int", "long", "float", "double"},
	"short": {"int", "long", "float", "double"},
	"char":  {"int", "long", "float", "double"},
	"int":   {"long", "float", "double"},
	"long":  {"float", "double"},
	"float": {"double"},
}

// IsAssignable reports whether a value of type from may be assigned to a
// variable of type to. The check works on erasures and is deliberately
// lenient with type variables and inference variables.
func (a *Algebra) IsAssignable(from, to Type) bool {
	if from == nil || to == nil {
		return false
	}
	switch t := to.(type) {
	case InferenceVariable, TypeVariable:
		return true
	case Wildcard:
		if t.Bound == nil || t.Super {
			return true
		}
		return a.IsAssignable(from, t.Bound)
	case Intersection:
		for _, e := range t.Elems {
			if !a.IsAssignable(from, e) {
				return false
			}
		}
		return true
	case Union:
		for _, e := range t.Elems {
			if a.IsAssignable(from, e) {
				return true
			}
		}
		return false
	}

	switch f := from.(type) {
	case InferenceVariable:
		return true
	case Null:
		return IsReference(to)
	case Void:
		return false
	case TypeVariable:
		if len(f.Bounds) == 0 {
			return a.IsAssignable(Object, to)
		}
		return a.IsAssignable(f.Bounds[0], to)
	case Wildcard:
		return a.IsAssignable(Erase(f), to)
	case Intersection:
		for _, e := range f.Elems {
			if a.IsAssignable(e, to) {
				return true
			}
		}
		return false
	case Union:
		for _, e := range f.Elems {
			if !a.IsAssignable(e, to) {
				return false
			}
		}
		return true
	case Primitive:
		switch t := to.(type) {
		case Primitive:
			return f.Name == t.Name || slices.Contains(widening[f.Name], t.Name)
		case Reference:
			return a.IsAssignable(Box(f), t)
		default:
			return false
		}
	case Array:
		switch t := to.(type) {
		case Array:
			if fp, ok := f.Elem.(Primitive); ok {
				tp, ok := t.Elem.(Primitive)
				return ok && fp.Name == tp.Name
			}
			return a.IsAssignable(f.Elem, t.Elem)
		case Reference:
			switch t.Name {
			case Object.Name, "java.lang.Cloneable", "java.io.Serializable":
				return true
			}
		}
		return false
	case Reference:
		switch t := to.(type) {
		case Primitive:
			p, ok := Unbox(f)
			return ok && (p.Name == t.Name || slices.Contains(widening[p.Name], t.Name))
		case Reference:
			if f.Name == t.Name || t.Name == Object.Name {
				return true
			}
			for _, anc := range a.ancestors(f.Name) {
				if anc.Name == t.Name {
					return true
				}
			}
			return false
		default:
			return false
		}
	default:
		panic(&UnhandledTypeError{Op: "assignable", Type: from})
	}
}

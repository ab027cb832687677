package jtypes

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// fakeHierarchy is a static Hierarchy: supers maps a type to its direct
// supertypes, ifaces marks interfaces, classes lists in-tree classes.
type fakeHierarchy struct {
	supers  map[string][]string
	ifaces  map[string]bool
	classes []string
}

func (h *fakeHierarchy) Ancestors(name string) []Ancestor {
	depth := map[string]int{}
	frontier := []string{name}
	for d := 1; len(frontier) > 0; d++ {
		var next []string
		for _, n := range frontier {
			for _, s := range h.supers[n] {
				if _, ok := depth[s]; ok {
					continue
				}
				depth[s] = d
				next = append(next, s)
			}
		}
		frontier = next
	}
	if !h.ifaces[name] && name != Object.Name {
		if _, ok := depth[Object.Name]; !ok {
			depth[Object.Name] = len(depth) + 1
		}
	}
	out := make([]Ancestor, 0, len(depth))
	for n, d := range depth {
		out = append(out, Ancestor{Name: n, Depth: d, Interface: h.ifaces[n]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (h *fakeHierarchy) IsInterface(name string) bool { return h.ifaces[name] }

func (h *fakeHierarchy) InTreeClasses() []string { return h.classes }

// zoo:
//
//	interface Animal; interface Pet extends Animal; interface Swimmer
//	class Base implements Animal
//	class Dog extends Base implements Pet
//	class Cat extends Base implements Pet
//	class Fish implements Swimmer, Pet
//	class Duck implements Swimmer, Animal
//	class Frog implements Swimmer, Pet
func zoo() *fakeHierarchy {
	return &fakeHierarchy{
		supers: map[string][]string{
			"Pet":  {"Animal"},
			"Base": {"Animal"},
			"Dog":  {"Base", "Pet"},
			"Cat":  {"Base", "Pet"},
			"Fish": {"Swimmer", "Pet"},
			"Duck": {"Swimmer", "Animal"},
			"Frog": {"Swimmer", "Pet"},
		},
		ifaces:  map[string]bool{"Animal": true, "Pet": true, "Swimmer": true},
		classes: []string{"Base", "Cat", "Dog", "Duck", "Fish", "Frog"},
	}
}

func ref(name string, args ...Type) Reference { return Reference{Name: name, Args: args} }

// everyVariant returns one value of each Type variant, plus a few nestings.
func everyVariant() []Type {
	return []Type{
		Int,
		Void{},
		Null{},
		ref("Dog"),
		ref("java.util.List", ref("Dog")),
		Array{Elem: Int},
		Array{Elem: ref("Cat")},
		TypeVariable{Name: "T"},
		TypeVariable{Name: "T", Bounds: []Type{ref("Base")}},
		Wildcard{},
		Wildcard{Bound: ref("Pet")},
		Wildcard{Bound: ref("Dog"), Super: true},
		Intersection{Elems: []Type{ref("Base"), ref("Pet")}},
		Intersection{Elems: []Type{ref("Swimmer"), ref("Comparable")}},
		Union{Elems: []Type{ref("Dog"), ref("Cat")}},
		Union{Elems: []Type{ref("Fish"), ref("Duck")}},
		Union{Elems: []Type{Int, Long}},
		InferenceVariable{ID: 1},
		InferenceVariable{ID: 2, Bounds: []Type{ref("Animal")}},
	}
}

// ---------------------------------------------------------------------------
// Flatten / Normalize
// ---------------------------------------------------------------------------

func TestFlatten_Idempotent(t *testing.T) {
	a := &Algebra{H: zoo()}
	for _, ty := range everyVariant() {
		t.Run(ty.String(), func(t *testing.T) {
			once := a.Flatten(ty)
			assert.Equal(t, once.String(), a.Flatten(once).String())
		})
	}
}

func TestNormalize_LeavesAreFixedPoints(t *testing.T) {
	a := &Algebra{H: zoo()}
	for _, ty := range everyVariant() {
		t.Run(ty.String(), func(t *testing.T) {
			for _, leaf := range a.Normalize(ty) {
				again := a.Normalize(leaf)
				require.Len(t, again, 1, "leaf %s", leaf)
				assert.Equal(t, leaf.String(), again[0].String())
			}
		})
	}
}

func TestFlatten_Union(t *testing.T) {
	a := &Algebra{H: zoo()}

	tests := []struct {
		name  string
		union Union
		want  string
	}{
		{"common superclass wins", Union{Elems: []Type{ref("Dog"), ref("Cat")}}, "Base"},
		{"shallowest common interface", Union{Elems: []Type{ref("Fish"), ref("Dog")}}, "Pet"},
		{"shallowest interface beats deeper one", Union{Elems: []Type{ref("Fish"), ref("Duck")}}, "Swimmer"},
		{"interface tie widens to Object", Union{Elems: []Type{ref("Fish"), ref("Frog")}}, Object.Name},
		{"null is ignored", Union{Elems: []Type{Null{}, ref("Dog")}}, "Dog"},
		{"numeric promotion", Union{Elems: []Type{Int, Long}}, "long"},
		{"arrays of related classes", Union{Elems: []Type{Array{Elem: ref("Dog")}, Array{Elem: ref("Cat")}}}, "Base[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Flatten(tt.union).String())
		})
	}
}

func TestNormalize_Intersection(t *testing.T) {
	a := &Algebra{H: zoo()}

	got := a.Normalize(Intersection{Elems: []Type{ref("Base"), ref("Pet")}})
	var names []string
	for _, g := range got {
		names = append(names, g.String())
	}
	assert.Equal(t, []string{"Cat", "Dog"}, names)

	// No in-tree class satisfies both: fall back to the elements.
	got = a.Normalize(Intersection{Elems: []Type{ref("Swimmer"), ref("Comparable")}})
	names = names[:0]
	for _, g := range got {
		names = append(names, g.String())
	}
	assert.Equal(t, []string{"Swimmer", "Comparable"}, names)
}

func TestNormalize_NullIsEmpty(t *testing.T) {
	a := &Algebra{H: zoo()}
	assert.Empty(t, a.Normalize(Null{}))
	assert.Equal(t, Object.String(), a.Flatten(Null{}).String())
}

func TestUnhandledVariantPanics(t *testing.T) {
	a := &Algebra{H: zoo()}
	assert.PanicsWithError(t, "jtypes: flatten: unhandled type variant <nil>", func() {
		a.Flatten(nil)
	})
}

// ---------------------------------------------------------------------------
// Assignability
// ---------------------------------------------------------------------------

func TestIsAssignable(t *testing.T) {
	a := &Algebra{H: zoo()}

	tests := []struct {
		name     string
		from, to Type
		want     bool
	}{
		{"subclass to superclass", ref("Dog"), ref("Base"), true},
		{"class to inherited interface", ref("Dog"), ref("Animal"), true},
		{"sibling classes", ref("Dog"), ref("Cat"), false},
		{"anything to Object", ref("Fish"), Object, true},
		{"null to reference", Null{}, ref("Dog"), true},
		{"null to primitive", Null{}, Int, false},
		{"int widens to long", Int, Long, true},
		{"long does not narrow to int", Long, Int, false},
		{"boxing", Int, ref("java.lang.Integer"), true},
		{"unboxing", ref("java.lang.Integer"), Long, true},
		{"array covariance", Array{Elem: ref("Dog")}, Array{Elem: ref("Base")}, true},
		{"primitive arrays are invariant", Array{Elem: Int}, Array{Elem: Long}, false},
		{"array to Object", Array{Elem: Int}, Object, true},
		{"type variable bound", TypeVariable{Name: "T", Bounds: []Type{ref("Dog")}}, ref("Pet"), true},
		{"to type variable is lenient", ref("Cat"), TypeVariable{Name: "T"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.IsAssignable(tt.from, tt.to))
		})
	}
}

// ---------------------------------------------------------------------------
// Substitution and erasure
// ---------------------------------------------------------------------------

func TestSubst(t *testing.T) {
	list := ref("java.util.List", TypeVariable{Name: "E"})
	got := Subst(list, map[string]Type{"E": ref("Dog")})
	assert.Equal(t, "java.util.List<Dog>", got.String())

	wild := Wildcard{Bound: TypeVariable{Name: "E"}}
	assert.Equal(t, "? extends Cat", Subst(wild, map[string]Type{"E": ref("Cat")}).String())
}

func TestErase(t *testing.T) {
	assert.Equal(t, "java.util.Map", Erase(ref("java.util.Map", String, Int)).String())
	assert.Equal(t, "Base", Erase(TypeVariable{Name: "T", Bounds: []Type{ref("Base", ref("X"))}}).String())
	assert.Equal(t, Object.Name, Erase(Wildcard{Bound: ref("Dog"), Super: true}).String())
}

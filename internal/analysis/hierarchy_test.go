package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/resolve"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

const shapesJava = `package s;

import java.util.*;

interface Shape {
    double area();
}

abstract class Base implements Shape {
    public abstract double area();
    public String name() { return "base"; }
    static void util() {}
    private void hidden() {}
}

class Square extends Base {
    public double area() { return 1; }
}

class Tile extends Square {
    public double area() { return 2; }
}

class Plain extends Base {
    public double area() { return 3; }
    public String name() { return "plain"; }
}

class Box<T> extends ArrayList<T> {
    public boolean add(T t) { return true; }
}

enum Kind {
    A {
        String label() { return "a"; }
    };
    String label() { return ""; }
}

class Uses {
    Shape anon = new Shape() {
        public double area() { return 0; }
    };
}
`

func shapes(t *testing.T) *Context {
	return newContext(t, map[string]string{"s/Shapes.java": shapesJava})
}

func TestDescendantsOf(t *testing.T) {
	c := shapes(t)

	direct := c.DescendantsOf(jtypes.Reference{Name: "s.Base"}, true)
	assert.Equal(t, []string{"s.Plain", "s.Square"}, qnames(direct))

	all := c.DescendantsOf(jtypes.Reference{Name: "s.Shape"}, false)
	names := qnames(all)
	assert.Contains(t, names, "s.Base")
	assert.Contains(t, names, "s.Tile")
	assert.Contains(t, names, "s.Uses$1")
	assert.Len(t, names, 5)

	enumSubs := c.DescendantsOf(jtypes.Reference{Name: "s.Kind"}, true)
	require.Len(t, enumSubs, 1)
	assert.Equal(t, symbols.KindEnumConstantBody, enumSubs[0].Kind)
	assert.Equal(t, "s.Kind$1", enumSubs[0].QName())
}

func TestAncestorsOf(t *testing.T) {
	c := shapes(t)

	anc := c.AncestorsOf(jtypes.Reference{Name: "s.Box", Args: []jtypes.Type{jtypes.String}}, false)
	var rendered []string
	for _, a := range anc {
		rendered = append(rendered, a.String())
	}
	assert.Contains(t, rendered, "java.util.ArrayList<java.lang.String>")
	assert.Contains(t, rendered, "java.util.Collection<java.lang.String>")
	assert.Contains(t, rendered, "java.lang.Object")

	direct := c.AncestorsOf(jtypes.Reference{Name: "s.Tile"}, true)
	require.Len(t, direct, 1)
	assert.Equal(t, "s.Square", direct[0].Name)
}

func TestOverriddenMethods(t *testing.T) {
	c := shapes(t)
	tile := method(t, c, "s.Tile", "area")

	all := c.OverriddenMethods(tile, false)
	var got []string
	for _, r := range all {
		got = append(got, r.Decl.QName())
	}
	assert.Equal(t, []string{"s.Square#area()", "s.Base#area()", "s.Shape#area()"}, got)

	upToAbstract := c.OverriddenMethods(tile, true)
	require.Len(t, upToAbstract, 2)
	assert.Equal(t, "s.Base#area()", upToAbstract[1].Decl.QName())

	boxAdd := method(t, c, "s.Box", "add")
	lib := c.OverriddenMethods(boxAdd, false)
	require.NotEmpty(t, lib)
	for _, r := range lib {
		assert.Equal(t, resolve.KindMethod, r.Kind)
		assert.False(t, r.InTree())
	}

	assert.Empty(t, c.OverriddenMethods(method(t, c, "s.Base", "util"), false))
}

func TestOverridingMethods(t *testing.T) {
	c := shapes(t)
	area := method(t, c, "s.Base", "area")

	all := qnames(c.OverridingMethods(area, false))
	assert.Equal(t, []string{"s.Plain#area()", "s.Square#area()", "s.Tile#area()"}, all)

	first := qnames(c.OverridingMethods(area, true))
	assert.Equal(t, []string{"s.Plain#area()", "s.Square#area()"}, first)

	shapeArea := method(t, c, "s.Shape", "area")
	assert.Len(t, c.OverridingMethods(shapeArea, true), 2, "Base and the anonymous class")

	label := method(t, c, "s.Kind", "label")
	require.Len(t, c.OverridingMethods(label, false), 1)

	assert.Empty(t, c.OverridingMethods(method(t, c, "s.Base", "hidden"), false))
}

func TestIsInherited(t *testing.T) {
	c := shapes(t)
	reg := c.Registry()
	name := method(t, c, "s.Base", "name")

	assert.True(t, c.IsInherited(reg.Type("s.Square"), name))
	assert.True(t, c.IsInherited(reg.Type("s.Tile"), name))
	assert.False(t, c.IsInherited(reg.Type("s.Plain"), name), "Plain overrides name")
	assert.False(t, c.IsInherited(reg.Type("s.Base"), name), "owner does not inherit")
	assert.False(t, c.IsInherited(reg.Type("s.Uses"), name), "not a subtype")

	assert.True(t, c.IsInherited(reg.Type("s.Tile"), method(t, c, "s.Base", "util")))
	assert.False(t, c.IsInherited(reg.Type("s.Tile"), method(t, c, "s.Base", "hidden")))
	assert.False(t, c.IsInherited(reg.Type("s.Tile"), method(t, c, "s.Base", "area")), "Square overrides area")
}

func TestOverriddenMethods_ObjectThroughLibraryClass(t *testing.T) {
	c := newContext(t, map[string]string{"q/X.java": `package q;

import java.util.*;

class X extends AbstractCollection<String> {
    public Iterator<String> iterator() { return null; }
    public int size() { return 0; }
    public String toString() { return "x"; }
}
`})
	var owners []string
	for _, r := range c.OverriddenMethods(method(t, c, "q.X", "toString"), false) {
		owners = append(owners, r.Owner)
	}
	assert.Contains(t, owners, "java.lang.Object")
}

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

const holderJava = `package h;

import java.util.*;

class Holder {
    Object slot = "init";
    final Object fixed = "x";

    void fill(List<Integer> nums) {
        Object local = 1;
        local = "two";
        local = 3;
        local += 4;
        this.slot = 5L;
        for (Number n : nums) {}
        for (var v : nums) {}
        for (Object o : nums) {}
    }
}
`

func variable(t *testing.T, c *Context, f *jast.File, kind, text string) symbols.Variable {
	t.Helper()
	v, err := symbols.VariableAt(c.Registry(), f, find(t, f, kind, text))
	require.NoError(t, err)
	return v
}

func rendered(ts []jtypes.Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}

func TestReassignments(t *testing.T) {
	c := newContext(t, map[string]string{"h/Holder.java": holderJava})
	f := c.File("h/Holder.java")

	local := variable(t, c, f, "variable_declarator", "local = 1")
	got := c.Reassignments(local)
	require.Len(t, got, 2, "compound assignment is not a reassignment")
	assert.Equal(t, `"two"`, f.Text(got[0].RHS()))
	assert.Equal(t, "3", f.Text(got[1].RHS()))

	slot := variable(t, c, f, "variable_declarator", `slot = "init"`)
	require.Len(t, c.Reassignments(slot), 1)
}

func TestAssignedTypesOf(t *testing.T) {
	c := newContext(t, map[string]string{"h/Holder.java": holderJava})
	f := c.File("h/Holder.java")

	local := variable(t, c, f, "variable_declarator", "local = 1")
	assert.Equal(t, []string{"int", "java.lang.String"}, rendered(c.AssignedTypesOf(local)))

	slot := variable(t, c, f, "variable_declarator", `slot = "init"`)
	assert.Equal(t, []string{"java.lang.String", "long"}, rendered(c.AssignedTypesOf(slot)))

	fixed := variable(t, c, f, "variable_declarator", `fixed = "x"`)
	assert.Equal(t, []string{"java.lang.String"}, rendered(c.AssignedTypesOf(fixed)))

	var fors []jast.NodeID
	f.Walk(jast.RootID, func(id jast.NodeID) bool {
		if f.Kind(id) == "enhanced_for_statement" {
			fors = append(fors, id)
		}
		return true
	})
	require.Len(t, fors, 3)
	want := []string{"java.lang.Number", "java.lang.Integer", "java.lang.Object"}
	for i, id := range fors {
		v, err := symbols.VariableAt(c.Registry(), f, id)
		require.NoError(t, err)
		assert.Equal(t, []string{want[i]}, rendered(c.AssignedTypesOf(v)), f.Text(id))
	}
}

package decision

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/coverage"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/mark"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/optflag"
)

func newContext(t *testing.T, srcs map[string]string) *analysis.Context {
	t.Helper()
	paths := make([]string, 0, len(srcs))
	for p := range srcs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var files []*jast.File
	for _, p := range paths {
		f, err := jast.Parse(context.Background(), p, []byte(srcs[p]))
		require.NoError(t, err)
		require.False(t, f.HasError, "fixture %s must parse cleanly", p)
		files = append(files, f)
	}
	c, err := analysis.New(context.Background(), files, analysis.Options{Flags: optflag.Default(), Concurrency: 2})
	require.NoError(t, err)
	return c
}

func find(t *testing.T, f *jast.File, kind, text string) jast.NodeID {
	t.Helper()
	found := jast.NoNode
	f.Walk(jast.RootID, func(id jast.NodeID) bool {
		if found != jast.NoNode {
			return false
		}
		if f.Kind(id) == kind && f.Text(id) == text {
			found = id
			return false
		}
		return true
	})
	require.NotEqual(t, jast.NoNode, found, "no %s %q", kind, text)
	return found
}

// --- Table ---

func TestTable_WriteOnce(t *testing.T) {
	tab := NewTable()
	ref := jast.Ref{File: "A.java", Node: 4}

	require.NoError(t, tab.Set(ref, Remove))
	require.NoError(t, tab.Set(ref, Remove), "same decision twice is fine")
	assert.Equal(t, Remove, tab.Of(ref))
	assert.Equal(t, Keep, tab.Of(jast.Ref{File: "A.java", Node: 5}))

	err := tab.Set(ref, Dummy)
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, Remove, ce.First)
	assert.Equal(t, Dummy, ce.Second)
	assert.Contains(t, ce.FirstStack, "TestTable_WriteOnce")
	assert.Equal(t, Remove, tab.Of(ref), "first write wins")
}

func TestTable_Refs(t *testing.T) {
	tab := NewTable()
	require.NoError(t, tab.Set(jast.Ref{File: "B.java", Node: 1}, Keep))
	require.NoError(t, tab.Set(jast.Ref{File: "A.java", Node: 9}, Remove))
	require.NoError(t, tab.Set(jast.Ref{File: "A.java", Node: 2}, Dummy))

	assert.Equal(t, []jast.Ref{
		{File: "A.java", Node: 2},
		{File: "A.java", Node: 9},
		{File: "B.java", Node: 1},
	}, tab.Refs())
	assert.Equal(t, 3, tab.Len())
}

// --- Decide ---

const decideJava = `package d;

import java.util.List;
import java.util.Map;

public class Main {
    interface Marker {}

    static class Holder implements Marker {
        static class Deep { static int X = 1; }
        void drop() {}
    }

    interface Api { void call(); }

    static class Impl implements Api {
        public void call() {}
    }

    static class Base {
        void run() { other(); }
        void other() {}
    }

    static class Child extends Base {
        void run() {}
    }

    static class Oops extends Exception {}

    int used = 1, unused = 2;

    public void entry(List<String> xs) {
        int v = Holder.Deep.X;
        new Child().run();
        this.used = v;
        try { v++; } catch (Oops e) { }
    }
}
`

func decide(t *testing.T, c *analysis.Context, specs ...string) *Table {
	t.Helper()
	seeds, err := mark.EntrypointSeeds(c, specs)
	require.NoError(t, err)
	res, err := mark.NewEngine(c, mark.Options{}).Run(context.Background(), seeds, 2)
	require.NoError(t, err)
	tab := NewTable()
	require.NoError(t, Decide(context.Background(), c, res, tab))
	return tab
}

func TestDecide(t *testing.T) {
	c := newContext(t, map[string]string{"d/Main.java": decideJava})
	reg := c.Registry()
	f := c.File("d/Main.java")
	tab := decide(t, c, "d.Main#entry")

	of := func(node jast.NodeID) Decision { return tab.Of(f.Ref(node)) }
	meth := func(owner, name string) jast.NodeID { return reg.Type(owner).MethodsNamed(name)[0].Node() }

	holder := reg.Type("d.Main.Holder")
	assert.Equal(t, Keep, of(holder.Node()), "namespace of Deep")
	require.Len(t, holder.Clauses, 1)
	assert.Equal(t, Remove, of(holder.Clauses[0]))
	assert.Equal(t, Remove, of(meth("d.Main.Holder", "drop")))
	assert.Equal(t, Remove, of(reg.Type("d.Main.Marker").Node()))

	assert.Equal(t, Remove, of(reg.Type("d.Main.Impl").Node()))
	_, recorded := tab.Get(f.Ref(meth("d.Main.Impl", "call")))
	assert.False(t, recorded, "members of removed types are shadowed")

	assert.Equal(t, Keep, of(meth("d.Main.Child", "run")))
	assert.Equal(t, Dummy, of(meth("d.Main.Base", "run")))
	assert.Equal(t, Remove, of(meth("d.Main.Base", "other")))

	main := reg.Type("d.Main")
	assert.Equal(t, Keep, of(main.Field("used").Node()))
	assert.Equal(t, Remove, of(main.Field("unused").Node()))

	u := reg.Unit("d/Main.java")
	assert.Equal(t, Keep, of(u.Imports[0].Node))
	assert.Equal(t, Remove, of(u.Imports[1].Node))

	catch := find(t, f, "catch_clause", "catch (Oops e) { }")
	_, recorded = tab.Get(f.Ref(catch))
	assert.False(t, recorded, "catch is inside the unwrapped try")
	try := f.Parent(catch)
	assert.Equal(t, Dummy, of(try))
	assert.Equal(t, Remove, of(reg.Type("d.Main.Oops").Node()))
}

func TestDecide_RespectsExistingDecisions(t *testing.T) {
	c := newContext(t, map[string]string{"d/Main.java": decideJava})
	f := c.File("d/Main.java")
	seeds, err := mark.EntrypointSeeds(c, []string{"d.Main#entry"})
	require.NoError(t, err)
	res, err := mark.NewEngine(c, mark.Options{}).Run(context.Background(), seeds, 1)
	require.NoError(t, err)

	tab := NewTable()
	impl := c.Registry().Type("d.Main.Impl")
	require.NoError(t, tab.Set(f.Ref(impl.Node()), Keep))
	err = Decide(context.Background(), c, res, tab)
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, f.Ref(impl.Node()), ce.Ref)
}

// --- Coverage tagging ---

const loopJava = `package u;

public class Loop {
    int pick(int k) {
        int r = 0;
        switch (k) {
            case 1:
                r = 1;
                break;
                r = 2;
                r = 3;
            default:
                r = 4;
        }
        return r;
    }

    int sign(int x) {
        if (x < 0) {
            return -1;
        } else {
            x = x + 1;
        }
        return x;
    }

    int both(int x) {
        if (x < 0) {
            x = 10;
        } else {
            x = 20;
        }
        return x * 3;
    }
}
`

func TestTagUncovered(t *testing.T) {
	c := newContext(t, map[string]string{"u/Loop.java": loopJava})
	f := c.File("u/Loop.java")
	oracle := coverage.NewMap()
	line := func(kind, text string) int {
		l, _ := f.Lines(find(t, f, kind, text))
		return l
	}
	oracle.SetLines(f.Path, coverage.Covered,
		line("expression_statement", "r = 1;"), line("break_statement", "break;"),
		line("expression_statement", "x = x + 1;"))
	oracle.SetLines(f.Path, coverage.Uncovered,
		line("expression_statement", "r = 2;"), line("expression_statement", "r = 3;"),
		line("return_statement", "return -1;"),
		line("expression_statement", "x = 10;"), line("expression_statement", "x = 20;"),
		line("return_statement", "return x * 3;"))

	tab := NewTable()
	require.NoError(t, TagUncovered(context.Background(), c, oracle, tab))

	of := func(kind, text string) Decision { return tab.Of(f.Ref(find(t, f, kind, text))) }
	assert.Equal(t, Keep, of("expression_statement", "r = 1;"))
	assert.Equal(t, Remove, of("expression_statement", "r = 2;"))
	assert.Equal(t, Remove, of("expression_statement", "r = 3;"))
	assert.Equal(t, Keep, of("expression_statement", "r = 4;"), "next switch group is reachable")

	ret := find(t, f, "return_statement", "return -1;")
	assert.Equal(t, Dummy, tab.Of(f.Ref(f.Parent(ret))))
	assert.Equal(t, Keep, of("return_statement", "return x;"), "else branch still completes normally")

	assert.Equal(t, Remove, of("return_statement", "return x * 3;"), "both branches now throw")
}

func TestTagUncovered_UnknownLinesKeepCode(t *testing.T) {
	c := newContext(t, map[string]string{"u/Loop.java": loopJava})
	tab := NewTable()
	require.NoError(t, TagUncovered(context.Background(), c, coverage.NewMap(), tab))
	assert.Zero(t, tab.Len())
}

// --- Single assignment ---

func TestCheckSingleAssignment(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"straight line", `class A { final int in; A() { in = 1; in = 2; } }`, true},
		{"through this", `class A { final int in; A() { this.in = 1; in = 2; } }`, true},
		{"branched", `class A { final int in; A(boolean c) { if (c) { in = 1; } else { in = 2; } } }`, false},
		{"not final", `class A { int in; A() { in = 1; in = 2; } }`, false},
		{"final local", `class A { void m() { final int x; x = 1; x = 2; } }`, true},
		{"compound", `class A { final int in; A() { in = 1; in += 2; } }`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := jast.Parse(context.Background(), "A.java", []byte(tt.src))
			require.NoError(t, err)
			err = CheckSingleAssignment(f)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ae *AssignmentError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, "A.java", ae.File)
		})
	}
}

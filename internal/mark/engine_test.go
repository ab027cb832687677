package mark

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/coverage"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/optflag"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

func newContext(t *testing.T, flags optflag.Set, srcs map[string]string) *analysis.Context {
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
	c, err := analysis.New(context.Background(), files, analysis.Options{Flags: flags, Concurrency: 2})
	require.NoError(t, err)
	return c
}

func mark(t *testing.T, c *analysis.Context, specs ...string) *Result {
	t.Helper()
	seeds, err := EntrypointSeeds(c, specs)
	require.NoError(t, err)
	res, err := NewEngine(c, Options{}).Run(context.Background(), seeds, 2)
	require.NoError(t, err)
	return res
}

func method(t *testing.T, c *analysis.Context, owner, name string) *symbols.Method {
	t.Helper()
	ty := c.Registry().Type(owner)
	require.NotNil(t, ty, "no type %s", owner)
	ms := ty.MethodsNamed(name)
	require.Len(t, ms, 1, "%s#%s", owner, name)
	return ms[0]
}

func nodesOfKind(f *jast.File, kind string) []jast.NodeID {
	var out []jast.NodeID
	f.Walk(jast.RootID, func(id jast.NodeID) bool {
		if f.Kind(id) == kind {
			out = append(out, id)
		}
		return true
	})
	return out
}

// --- Entrypoints ---

const scenarioJava = `package p;

import lib.L;
import java.util.List;

public class C {
    public void test() { foo(); }

    void foo() {
        L.bar();
        if (false) baz();
    }

    void baz() {}

    void unused() {}
}
`

func TestRun_DeadBranchCalleeStaysReachable(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"p/C.java": scenarioJava})
	res := mark(t, c, "p.C#test")

	assert.Equal(t, Full, res.Level(method(t, c, "p.C", "test")))
	assert.Equal(t, Full, res.Level(method(t, c, "p.C", "foo")))
	assert.Equal(t, Full, res.Level(method(t, c, "p.C", "baz")), "reachability is reference based")
	assert.Equal(t, None, res.Level(method(t, c, "p.C", "unused")))
	assert.Equal(t, Full, res.Level(c.Registry().Type("p.C")))

	u := c.Registry().Unit("p/C.java")
	require.Len(t, u.Imports, 2)
	assert.True(t, res.Justified(u.File.Ref(u.Imports[0].Node)), "library import kept through fallback")
	assert.False(t, res.Justified(u.File.Ref(u.Imports[1].Node)), "unused import")
}

func TestRun_ImportFallbackDisabled(t *testing.T) {
	c := newContext(t, optflag.Default().Disable(optflag.ImportFallback), map[string]string{"p/C.java": scenarioJava})
	res := mark(t, c, "p.C#test")

	u := c.Registry().Unit("p/C.java")
	assert.False(t, res.Justified(u.File.Ref(u.Imports[0].Node)))
	assert.NotZero(t, c.Reporter().Len(), "lib.L is reported as unresolved")
}

func TestRun_SkippedStatementHidesCallee(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"p/C.java": scenarioJava})
	f := c.File("p/C.java")
	ifs := nodesOfKind(f, "if_statement")
	require.Len(t, ifs, 1)

	seeds, err := EntrypointSeeds(c, []string{"p.C#test"})
	require.NoError(t, err)
	skip := f.Ref(ifs[0])
	res, err := NewEngine(c, Options{Skip: func(r jast.Ref) bool { return r == skip }}).
		Run(context.Background(), seeds, 1)
	require.NoError(t, err)
	assert.Equal(t, None, res.Level(method(t, c, "p.C", "baz")))
}

func TestEntrypointSeeds(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"p/C.java": scenarioJava})

	tests := []struct {
		name    string
		spec    string
		want    []string
		wantErr string
	}{
		{"member", "p.C#foo", []string{"p.C", "p.C#foo()"}, ""},
		{"member with signature", "p.C#baz()", []string{"p.C", "p.C#baz()"}, ""},
		{"unknown class", "p.D", nil, "no class p.D"},
		{"unknown member", "p.C#nope", nil, "no member nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seeds, err := EntrypointSeeds(c, []string{tt.spec})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			var got []string
			for _, s := range seeds {
				got = append(got, s.Decl.QName())
				assert.Equal(t, Entrypoint{Spec: tt.spec}, s.Reason)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	seeds, err := EntrypointSeeds(c, []string{"p.C"})
	require.NoError(t, err)
	assert.Len(t, seeds, 1+len(c.Registry().Type("p.C").Decls()))
}

const lifecycleJava = `package t;

abstract class Fixture {
    @BeforeEach void setUp() {}
    void helper() {}
}

public class SuiteTest extends Fixture {
    @Rule Object rule = null;

    SuiteTest() {}

    @AfterEach void tearDown() {}

    void testOne() {}

    void testTwo() {}
}
`

func TestEntrypointSeeds_Lifecycle(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"t/SuiteTest.java": lifecycleJava})
	res := mark(t, c, "t.SuiteTest#testOne")

	for _, m := range []string{"testOne", "tearDown"} {
		assert.Equal(t, Full, res.Level(method(t, c, "t.SuiteTest", m)), m)
	}
	assert.Equal(t, Full, res.Level(method(t, c, "t.Fixture", "setUp")))
	assert.Equal(t, None, res.Level(method(t, c, "t.Fixture", "helper")))
	assert.Equal(t, None, res.Level(method(t, c, "t.SuiteTest", "testTwo")))
	assert.Equal(t, Full, res.Level(c.Registry().Type("t.SuiteTest").Field("rule")))
	assert.Equal(t, Full, res.Level(c.Registry().Type("t.SuiteTest").Ctors[0]))

	c = newContext(t, optflag.Default().Disable(optflag.LifecycleEntrypoints), map[string]string{"t/SuiteTest.java": lifecycleJava})
	res = mark(t, c, "t.SuiteTest#testOne")
	assert.Equal(t, None, res.Level(method(t, c, "t.SuiteTest", "tearDown")))
}

// --- Dispatch ---

const shapesJava = `package q;

interface Shape { double area(); }

class Sq implements Shape { public double area() { return 1; } }

class Circle implements Shape { public double area() { return 2; } }

class Unused implements Shape { public double area() { return 3; } }

abstract class Base {
    abstract void run();
    void helper() {}
}

class Impl extends Base {
    void run() {}
}

public class Main {
    public static void main(String[] args) {
        Shape s = new Sq();
        s.area();
        new Circle();
        new Impl().run();
    }
}
`

func TestRun_OverrideCompleteness(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"q/Main.java": shapesJava})
	res := mark(t, c, "q.Main#main")

	assert.Equal(t, Full, res.Level(method(t, c, "q.Shape", "area")))
	for _, owner := range []string{"q.Sq", "q.Circle"} {
		m := method(t, c, owner, "area")
		assert.Equal(t, Full, res.Level(m), owner)
		var dispatched bool
		for _, r := range res.Reasons(m.Ref()) {
			if _, ok := r.(DispatchedOverride); ok {
				dispatched = true
			}
		}
		assert.True(t, dispatched, "%s#area kept by dispatch", owner)
	}
	assert.Equal(t, None, res.Level(c.Registry().Type("q.Unused")))
	assert.Equal(t, None, res.Level(method(t, c, "q.Unused", "area")))
}

func TestRun_AscentIsShallow(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"q/Main.java": shapesJava})
	res := mark(t, c, "q.Main#main")

	assert.Equal(t, Full, res.Level(method(t, c, "q.Impl", "run")))
	base := method(t, c, "q.Base", "run")
	assert.Equal(t, Shallow, res.Level(base))
	reasons := res.Reasons(base.Ref())
	require.NotEmpty(t, reasons)
	assert.Equal(t, "required-for-compilation", Kind(reasons[0]))
	assert.Equal(t, None, res.Level(method(t, c, "q.Base", "helper")))
	assert.Equal(t, Full, res.Level(c.Registry().Type("q.Base")))
}

const inheritedImplJava = `package h;

interface I {
    int m();
}

class S {
    public int m() { return 1; }
    public int other() { return 2; }
}

class T extends S implements I {}

class U extends S {}

public class Main {
    public static void main(String[] args) {
        I i = new T();
        i.m();
    }
}
`

func TestRun_InheritedImplementationFromUnrelatedSuperclass(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"h/Main.java": inheritedImplJava})
	res := mark(t, c, "h.Main#main")

	sm := method(t, c, "h.S", "m")
	assert.Equal(t, Full, res.Level(sm), "T inherits its implementation of I.m from S")
	var dispatched bool
	for _, r := range res.Reasons(sm.Ref()) {
		if d, ok := r.(DispatchedOverride); ok {
			dispatched = true
			assert.Equal(t, "h.I#m()", d.Overridden)
		}
	}
	assert.True(t, dispatched)
	assert.Equal(t, None, res.Level(method(t, c, "h.S", "other")))
	assert.Equal(t, None, res.Level(c.Registry().Type("h.U")))
}

func TestInheritedImplementation(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"h/Main.java": inheritedImplJava})
	reg := c.Registry()
	im := method(t, c, "h.I", "m")

	assert.Equal(t, method(t, c, "h.S", "m"), c.Solver().InheritedImplementation(reg.Type("h.T"), im))
	assert.Nil(t, c.Solver().InheritedImplementation(reg.Type("h.U"), im), "U does not implement I")
	assert.Nil(t, c.Solver().InheritedImplementation(reg.Type("h.I"), im))
}

// --- Structure ---

const structureJava = `package s;

public class Outer {
    static class Inner {
        static int VALUE = 1;
    }

    enum Color { RED, GREEN }

    static class Parent {
        Parent() {}
        Parent(int x) {}
    }

    static class Child extends Parent {
        void touch() {}
    }

    static class Kept {
        Kept(String s) {}
        Kept(int i) {}
        static void ping() {}
    }

    public void entry() {
        int v = Inner.VALUE;
        Color[] all = Color.values();
        new Child().touch();
        Kept.ping();
    }
}
`

func TestRun_Structure(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"s/Outer.java": structureJava})
	reg := c.Registry()
	res := mark(t, c, "s.Outer#entry")

	assert.Equal(t, Full, res.Level(reg.Type("s.Outer.Inner").Field("VALUE")))
	color := reg.Type("s.Outer.Color")
	for _, ec := range color.Constants {
		assert.Equal(t, Full, res.Level(ec), "values() keeps %s", ec.Name())
	}

	parent := reg.Type("s.Outer.Parent")
	assert.Equal(t, Full, res.Level(parent.Ctors[0]), "implicit super()")
	assert.Equal(t, None, res.Level(parent.Ctors[1]))

	kept := reg.Type("s.Outer.Kept")
	assert.Equal(t, Full, res.Level(kept))
	assert.NotEqual(t, None, res.Level(kept.Ctors[0]), "a kept class keeps one constructor")
	assert.Equal(t, None, res.Level(kept.Ctors[1]))
}

const shallowHeaderJava = `package g;

@interface Ann {}

interface Bound {}

interface Unrelated {}

@Ann
class Outer<T extends Bound> implements Unrelated {
    static class Inner {
        static void go() {}
    }
}

public class Main {
    public static void main(String[] args) {
        Outer.Inner.go();
    }
}
`

func TestRun_ShallowTypeKeepsHeaderReferences(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"g/Main.java": shallowHeaderJava})
	reg := c.Registry()
	res := mark(t, c, "g.Main#main")

	assert.Equal(t, Shallow, res.Level(reg.Type("g.Outer")))
	assert.True(t, res.Reachable(reg.Type("g.Bound")), "type parameter bound")
	assert.True(t, res.Reachable(reg.Type("g.Ann")), "annotation on the type")
	assert.False(t, res.Reachable(reg.Type("g.Unrelated")), "supertype clauses of a shallow type are dropped")
}

// --- Exceptions ---

const catchesJava = `package e;

import java.io.IOException;

public class T {
    void io() throws IOException {}
    void quiet() {}
    void dead() {}
    void live() {}
    void rt() {}

    public void run() {
        try { quiet(); } catch (IOException x) { dead(); }
        try { io(); } catch (IOException x) { live(); }
        try { quiet(); } catch (RuntimeException x) { rt(); }
    }
}
`

func TestRun_CatchClauses(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"e/T.java": catchesJava})
	res := mark(t, c, "e.T#run")
	f := c.File("e/T.java")

	assert.Equal(t, None, res.Level(method(t, c, "e.T", "dead")))
	assert.Equal(t, Full, res.Level(method(t, c, "e.T", "live")))
	assert.Equal(t, Full, res.Level(method(t, c, "e.T", "rt")))

	catches := nodesOfKind(f, "catch_clause")
	require.Len(t, catches, 3)
	assert.False(t, res.Justified(f.Ref(catches[0])))
	assert.True(t, res.Justified(f.Ref(catches[1])))
	assert.True(t, res.Justified(f.Ref(catches[2])))

	u := c.Registry().Unit("e/T.java")
	assert.True(t, res.Justified(f.Ref(u.Imports[0].Node)))
}

// --- Coverage ---

func TestCoverageSeeds(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"p/C.java": scenarioJava})
	oracle := coverage.NewMap()
	oracle.SetMethod("p.C", "unused()", coverage.Covered)
	oracle.SetMethod("p.C", "foo()", coverage.Uncovered)

	seeds := CoverageSeeds(c.Registry(), oracle)
	require.Len(t, seeds, 1)
	assert.Equal(t, "p.C#unused()", seeds[0].Decl.QName())
	assert.Equal(t, CoveredAtRuntime{Key: "p.C#unused()"}, seeds[0].Reason)
}

func TestResult_All(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"p/C.java": scenarioJava})
	res := mark(t, c, "p.C#test")

	all := res.All()
	assert.Len(t, all, res.Len())
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID(), all[i].ID())
	}
	for _, ref := range res.Refs() {
		assert.NotEmpty(t, res.Reasons(ref))
	}
}

func TestRun_Cancelled(t *testing.T) {
	c := newContext(t, optflag.Default(), map[string]string{"p/C.java": scenarioJava})
	seeds, err := EntrypointSeeds(c, []string{"p.C#test"})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewEngine(c, Options{}).Run(ctx, seeds, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

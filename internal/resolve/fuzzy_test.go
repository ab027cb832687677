package resolve

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/optflag"
)

type recordingReporter struct {
	mu   sync.Mutex
	refs []jast.Ref
}

func (r *recordingReporter) Report(f *jast.File, n jast.NodeID, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs = append(r.refs, f.Ref(n))
}

const fuzzyJava = `package q;

class Sink {
    void accept(int n) {}
    void accept(int n, int m) {}
}

class User {
    void overload(String s) {}

    void run(Sink sink) {
        mystery.accept(1);
        overload(42);
        sink.accept(3);
        Runnable r = mystery::accept;
    }
}
`

func TestFuzzy_UnknownReceiverFallback(t *testing.T) {
	fx := newFixture(t, nil, map[string]string{"q/User.java": fuzzyJava})
	f := fx.files["q/User.java"]
	call := find(t, f, "method_invocation", "mystery.accept(1)")

	rep := &recordingReporter{}
	z := NewFuzzy(fx.s, optflag.Default(), rep)
	out, err := z.Call(f, call)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "q.Sink", out[0].Owner)
	assert.Equal(t, "q.Sink#accept(int)", out[0].Decl.QName())
	assert.Empty(t, rep.refs)

	rep = &recordingReporter{}
	z = NewFuzzy(fx.s, optflag.Default().Disable(optflag.UnknownReceiverNameFallback), rep)
	out, err = z.Call(f, call)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, []jast.Ref{f.Ref(call)}, rep.refs)
}

func TestFuzzy_ArityOnlyFallback(t *testing.T) {
	fx := newFixture(t, nil, map[string]string{"q/User.java": fuzzyJava})
	f := fx.files["q/User.java"]
	call := find(t, f, "method_invocation", "overload(42)")

	z := NewFuzzy(fx.s, optflag.Default(), &recordingReporter{})
	out, err := z.Call(f, call)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "q.User#overload(String)", out[0].Decl.QName())

	rep := &recordingReporter{}
	z = NewFuzzy(fx.s, optflag.Default().Disable(optflag.ArityOnlyOverloadFallback), rep)
	out, err = z.Call(f, call)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Len(t, rep.refs, 1)
}

func TestFuzzy_ResolvedCallPassesThrough(t *testing.T) {
	fx := newFixture(t, nil, map[string]string{"q/User.java": fuzzyJava})
	f := fx.files["q/User.java"]

	rep := &recordingReporter{}
	z := NewFuzzy(fx.s, optflag.Default(), rep)
	out, err := z.Call(f, find(t, f, "method_invocation", "sink.accept(3)"))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "q.Sink#accept(int)", out[0].Decl.QName())
	assert.Empty(t, rep.refs)
}

func TestFuzzy_MethodRefByName(t *testing.T) {
	fx := newFixture(t, nil, map[string]string{"q/User.java": fuzzyJava})
	f := fx.files["q/User.java"]

	z := NewFuzzy(fx.s, optflag.Default(), &recordingReporter{})
	out, err := z.MethodRef(f, find(t, f, "method_reference", "mystery::accept"))
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestFuzzy_PackageFragmentIsQuiet(t *testing.T) {
	lib, err := JDK()
	require.NoError(t, err)
	lib.Add(&LibType{Name: "com.acme.Widget", Opaque: true})
	fx := newFixture(t, lib, map[string]string{"q/Pkg.java": `package q;

class Pkg {
    Object o = com.acme.Missing.VALUE;
}
`})
	f := fx.files["q/Pkg.java"]
	z := NewFuzzy(fx.s, optflag.Default(), &recordingReporter{})
	assert.True(t, z.suppressed(f, find(t, f, "field_access", "com.acme")))
	assert.False(t, z.suppressed(f, find(t, f, "field_access", "com.acme.Missing.VALUE")))

	z = NewFuzzy(fx.s, optflag.Default().Disable(optflag.PackageNameHeuristic, optflag.AncestorResolutionFallback), nil)
	assert.False(t, z.suppressed(f, find(t, f, "field_access", "com.acme")))
}

package graph

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/decision"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/optflag"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/reducer"
)

const populateJava = `package p;

public class A {
    public void test() { new B().step(); }
    void dead() {}
}

class B extends A {
    void step() {}
}
`

func reduced(t *testing.T) (*analysis.Context, reducer.Reducer) {
	t.Helper()
	ctx := context.Background()
	f, err := jast.Parse(ctx, "p/A.java", []byte(populateJava))
	require.NoError(t, err)
	c, err := analysis.New(ctx, []*jast.File{f}, analysis.Options{
		Flags:  optflag.Default(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	r := reducer.NewMemberReducer(c, []string{"p.A#test"})
	require.NoError(t, r.Run(ctx, 1))
	return c, r
}

func TestPopulate(t *testing.T) {
	ctx := context.Background()
	c, r := reduced(t)
	s := NewMemStore()
	require.NoError(t, Populate(ctx, s, c, r.Result(), r.Decisions()))

	file, err := s.GetFile(ctx, "p/A.java")
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.True(t, file.Kept)
	assert.Positive(t, file.Decls)

	test, err := s.GetDecl(ctx, "p.A#test()")
	require.NoError(t, err)
	require.NotNil(t, test)
	assert.Equal(t, DeclKindMethod, test.Kind)
	assert.Equal(t, "keep", test.Decision)
	assert.Equal(t, "entrypoint p.A#test", test.Seed)
	assert.Equal(t, 4, test.StartLine)

	dead, err := s.GetDecl(ctx, "p.A#dead()")
	require.NoError(t, err)
	require.NotNil(t, dead)
	assert.Equal(t, "remove", dead.Decision)
	assert.Equal(t, "none", dead.Level)
	assert.Empty(t, dead.Seed)

	edges, err := s.GetAllEdges(ctx)
	require.NoError(t, err)
	assert.Contains(t, edges, Edge{SourceID: "p/A.java", TargetID: "p.A", Kind: EdgeKindDeclares})
	assert.Contains(t, edges, Edge{SourceID: "p.A#dead()", TargetID: "p.A", Kind: EdgeKindMemberOf})
	assert.Contains(t, edges, Edge{SourceID: "p.B", TargetID: "p.A", Kind: EdgeKindExtends})

	up, err := s.GetDependencies(ctx, "p.B#step()", DirectionUpstream, 1)
	require.NoError(t, err)
	var callers []string
	for _, ch := range up {
		callers = append(callers, ch.Nodes[1])
	}
	assert.Contains(t, callers, "p.A#test()")

	for _, e := range edges {
		if e.Kind == EdgeKindReaches {
			assert.NotEqual(t, e.SourceID, e.TargetID, "self edges are skipped")
			assert.NotEmpty(t, e.Reason)
		}
	}
}

func TestPopulate_Cancelled(t *testing.T) {
	c, r := reduced(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Populate(ctx, NewMemStore(), c, r.Result(), r.Decisions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEffective(t *testing.T) {
	ctx := context.Background()
	f, err := jast.Parse(ctx, "p/A.java", []byte(populateJava))
	require.NoError(t, err)
	method := f.ChildOfKind(f.ChildOfKind(f.ChildOfKind(jast.RootID, "class_declaration"), "class_body"), "method_declaration")
	require.NotEqual(t, jast.NoNode, method)
	body := f.Child(method, "body")

	tab := decision.NewTable()
	assert.Equal(t, decision.Keep, Effective(tab, f, body))

	require.NoError(t, tab.Set(f.Ref(method), decision.Dummy))
	assert.Equal(t, decision.Dummy, Effective(tab, f, method))
	assert.Equal(t, decision.Remove, Effective(tab, f, body))
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	_, r := reduced(t)
	s := NewMemStore()
	require.NoError(t, Record(ctx, s, &reducer.Report{Passes: 1, Reducer: r}))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.FileCount)
	assert.Positive(t, st.Kept)
	assert.Positive(t, st.Removed)
}

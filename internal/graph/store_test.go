package graph

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sorted returns a sorted copy of the given string slice so that assertions
// are deterministic regardless of map iteration order.
func sorted(ss []string) []string {
	out := make([]string, len(ss))
	copy(out, ss)
	sort.Strings(out)
	return out
}

// seedChain populates a store with three methods where a.run reaches b.step
// and b.step reaches c.done, plus the files declaring them.
func seedChain(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	for _, f := range []FileNode{
		{Path: "p/A.java", Kept: true, Decls: 2},
		{Path: "p/B.java", Kept: true, Decls: 2},
		{Path: "p/C.java", Kept: false, Decls: 2},
	} {
		require.NoError(t, s.AddFile(ctx, f))
	}
	for _, d := range []DeclNode{
		{ID: "p.A", Name: "A", Kind: DeclKindClass, FilePath: "p/A.java", StartLine: 1, EndLine: 5, Level: "full", Decision: "keep", Seed: "entrypoint"},
		{ID: "p.A.run()", Name: "run", Kind: DeclKindMethod, FilePath: "p/A.java", StartLine: 2, EndLine: 4, Level: "full", Decision: "keep", Seed: "entrypoint"},
		{ID: "p.B", Name: "B", Kind: DeclKindClass, FilePath: "p/B.java", StartLine: 1, EndLine: 5, Level: "full", Decision: "keep"},
		{ID: "p.B.step()", Name: "step", Kind: DeclKindMethod, FilePath: "p/B.java", StartLine: 2, EndLine: 4, Level: "shallow", Decision: "dummy"},
		{ID: "p.C", Name: "C", Kind: DeclKindClass, FilePath: "p/C.java", StartLine: 1, EndLine: 5, Level: "none", Decision: "remove"},
		{ID: "p.C.done()", Name: "done", Kind: DeclKindMethod, FilePath: "p/C.java", StartLine: 2, EndLine: 4, Level: "none", Decision: "remove"},
	} {
		require.NoError(t, s.AddDecl(ctx, d))
	}
	for _, e := range []Edge{
		{SourceID: "p/A.java", TargetID: "p.A", Kind: EdgeKindDeclares},
		{SourceID: "p.A.run()", TargetID: "p.A", Kind: EdgeKindMemberOf},
		{SourceID: "p.A.run()", TargetID: "p.B.step()", Kind: EdgeKindReaches, Reason: "invoked"},
		{SourceID: "p.B.step()", TargetID: "p.C.done()", Kind: EdgeKindReaches, Reason: "invoked"},
		{SourceID: "p.B", TargetID: "p.A", Kind: EdgeKindExtends},
	} {
		require.NoError(t, s.AddEdge(ctx, e))
	}
}

// runStoreSuite exercises the behavior every Store implementation shares.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("file round trip", func(t *testing.T) {
		s := newStore(t)
		seedChain(t, s)
		got, err := s.GetFile(ctx, "p/C.java")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, FileNode{Path: "p/C.java", Kept: false, Decls: 2}, *got)

		missing, err := s.GetFile(ctx, "nope.java")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("decl round trip", func(t *testing.T) {
		s := newStore(t)
		seedChain(t, s)
		got, err := s.GetDecl(ctx, "p.B.step()")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "step", got.Name)
		assert.Equal(t, DeclKindMethod, got.Kind)
		assert.Equal(t, "shallow", got.Level)
		assert.Equal(t, "dummy", got.Decision)
		assert.Empty(t, got.Seed)

		missing, err := s.GetDecl(ctx, "p.Z")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("query decls", func(t *testing.T) {
		s := newStore(t)
		seedChain(t, s)
		got, err := s.QueryDecls(ctx, "P.B", 0)
		require.NoError(t, err)
		ids := make([]string, len(got))
		for i, d := range got {
			ids[i] = d.ID
		}
		assert.Equal(t, []string{"p.B", "p.B.step()"}, ids)

		limited, err := s.QueryDecls(ctx, "p.", 1)
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, "p.A", limited[0].ID)

		none, err := s.QueryDecls(ctx, "zzz", 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("downstream", func(t *testing.T) {
		s := newStore(t)
		seedChain(t, s)
		chains, err := s.GetDependencies(ctx, "p.A.run()", DirectionDownstream, 1)
		require.NoError(t, err)
		require.Len(t, chains, 1)
		assert.Equal(t, []string{"p.A.run()", "p.B.step()"}, chains[0].Nodes)
		assert.Equal(t, 1, chains[0].Depth)

		chains, err = s.GetDependencies(ctx, "p.A.run()", DirectionDownstream, 10)
		require.NoError(t, err)
		require.Len(t, chains, 2)
		tips := make([]string, len(chains))
		for i, c := range chains {
			tips[i] = c.Nodes[len(c.Nodes)-1]
		}
		assert.Equal(t, []string{"p.B.step()", "p.C.done()"}, sorted(tips))

		leaf, err := s.GetDependencies(ctx, "p.C.done()", DirectionDownstream, 10)
		require.NoError(t, err)
		assert.Empty(t, leaf)
	})

	t.Run("upstream ignores structural edges", func(t *testing.T) {
		s := newStore(t)
		seedChain(t, s)
		chains, err := s.GetDependencies(ctx, "p.C.done()", DirectionUpstream, 10)
		require.NoError(t, err)
		require.Len(t, chains, 2)
		assert.Equal(t, []string{"p.C.done()", "p.B.step()", "p.A.run()"}, chains[1].Nodes)

		// p.A is only the target of MEMBER_OF and EXTENDS edges.
		none, err := s.GetDependencies(ctx, "p.A", DirectionUpstream, 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("zero depth", func(t *testing.T) {
		s := newStore(t)
		seedChain(t, s)
		chains, err := s.GetDependencies(ctx, "p.A.run()", DirectionDownstream, 0)
		require.NoError(t, err)
		assert.Empty(t, chains)
	})

	t.Run("edges", func(t *testing.T) {
		s := newStore(t)
		seedChain(t, s)
		edges, err := s.GetAllEdges(ctx)
		require.NoError(t, err)
		assert.Len(t, edges, 5)
		var reasons []string
		for _, e := range edges {
			if e.Kind == EdgeKindReaches {
				reasons = append(reasons, e.Reason)
			}
		}
		assert.Equal(t, []string{"invoked", "invoked"}, reasons)
	})

	t.Run("stats", func(t *testing.T) {
		s := newStore(t)
		empty, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, GraphStats{}, *empty)

		seedChain(t, s)
		st, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, GraphStats{
			FileCount: 3,
			DeclCount: 6,
			EdgeCount: 5,
			Kept:      3,
			Dummied:   1,
			Removed:   2,
		}, *st)
	})
}

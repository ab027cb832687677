package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		s := NewMemStore()
		require.NoError(t, s.InitSchema(context.Background()))
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestMemStore_AddDeclOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.AddDecl(ctx, DeclNode{ID: "p.A", Decision: "keep"}))
	require.NoError(t, s.AddDecl(ctx, DeclNode{ID: "p.A", Decision: "remove"}))

	got, err := s.GetDecl(ctx, "p.A")
	require.NoError(t, err)
	assert.Equal(t, "remove", got.Decision)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.DeclCount)
	assert.Equal(t, 1, st.Removed)
}

func TestMemStore_GetAllEdgesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	require.NoError(t, s.AddEdge(ctx, Edge{SourceID: "a", TargetID: "b", Kind: EdgeKindReaches}))

	edges, err := s.GetAllEdges(ctx)
	require.NoError(t, err)
	edges[0].SourceID = "mutated"

	again, err := s.GetAllEdges(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].SourceID)
}

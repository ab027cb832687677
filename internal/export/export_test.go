package export

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/graph"
)

func newStore(t *testing.T) graph.Store {
	t.Helper()
	ctx := context.Background()
	s := graph.NewMemStore()
	for _, f := range []graph.FileNode{
		{Path: "src/p/A.java", Kept: true, Decls: 2},
		{Path: "src/p/Dead.java", Kept: false, Decls: 1},
	} {
		require.NoError(t, s.AddFile(ctx, f))
	}
	for _, d := range []graph.DeclNode{
		{ID: "p.A", Name: "A", Kind: graph.DeclKindClass, FilePath: "src/p/A.java", Decision: "keep", Seed: "entrypoint p.A#test"},
		{ID: "p.A#test()", Name: "test", Kind: graph.DeclKindMethod, FilePath: "src/p/A.java", Decision: "keep", Seed: "entrypoint p.A#test"},
		{ID: "p.A#helper()", Name: "helper", Kind: graph.DeclKindMethod, FilePath: "src/p/A.java", Decision: "dummy"},
		{ID: "p.Dead", Name: "Dead", Kind: graph.DeclKindClass, FilePath: "src/p/Dead.java", Decision: "remove"},
	} {
		require.NoError(t, s.AddDecl(ctx, d))
	}
	for _, e := range []graph.Edge{
		{SourceID: "src/p/A.java", TargetID: "p.A", Kind: graph.EdgeKindDeclares},
		{SourceID: "p.A#test()", TargetID: "p.A", Kind: graph.EdgeKindMemberOf},
		{SourceID: "p.A#test()", TargetID: "p.A#helper()", Kind: graph.EdgeKindReaches, Reason: "referenced-by-symbol-name"},
		{SourceID: "p.A#test()", TargetID: "p.A#helper()", Kind: graph.EdgeKindReaches, Reason: "directly-referenced-by-node"},
	} {
		require.NoError(t, s.AddEdge(ctx, e))
	}
	return s
}

func TestExportReduction(t *testing.T) {
	s := newStore(t)
	got, err := ExportReduction(context.Background(), s, Meta{
		Strategy:   "member",
		Passes:     2,
		FixedPoint: true,
		Outputs:    map[string]string{"src/p/A.java": "out/p/A.java"},
	})
	require.NoError(t, err)

	assert.Equal(t, "member", got.Strategy)
	assert.Equal(t, 2, got.Passes)
	assert.True(t, got.FixedPoint)
	assert.NotEmpty(t, got.ExportedAt)
	assert.Equal(t, 4, got.Stats.DeclCount)
	assert.Equal(t, 1, got.Stats.Removed)

	assert.Equal(t, []FileExport{
		{Path: "src/p/A.java", Kept: true, Output: "out/p/A.java"},
		{Path: "src/p/Dead.java", Kept: false},
	}, got.Files)

	require.Len(t, got.Decls, 4)
	assert.Equal(t, "p.A", got.Decls[0].ID)
	helper := got.Decls[1]
	assert.Equal(t, "p.A#helper()", helper.ID)
	assert.Equal(t, []Reach{
		{From: "p.A#test()", Reason: "directly-referenced-by-node"},
		{From: "p.A#test()", Reason: "referenced-by-symbol-name"},
	}, helper.ReachedBy)
	assert.Empty(t, got.Decls[0].ReachedBy, "structural edges are not reach reasons")
}

func TestWriteJSON(t *testing.T) {
	s := newStore(t)
	rep, err := ExportReduction(context.Background(), s, Meta{Strategy: "class", Passes: 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, rep))
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("}\n")))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "class", decoded["strategy"])
	decls := decoded["decls"].([]any)
	first := decls[0].(map[string]any)
	assert.Equal(t, "p.A", first["id"], "embedded decl fields are flattened")
	assert.Equal(t, "entrypoint p.A#test", first["seed"])
}

func TestGenerateMermaid(t *testing.T) {
	s := newStore(t)
	out, err := GenerateMermaid(context.Background(), s, "", 0)
	require.NoError(t, err)

	assert.Contains(t, out, "graph TD\n")
	assert.Contains(t, out, "classDef dummy")
	assert.Contains(t, out, `subgraph F0["p/A.java"]`)
	assert.Contains(t, out, `subgraph F1["p/Dead.java"]`)
	// IDs follow qualified-name order: p.A, p.A#helper(), p.A#test(), p.Dead.
	assert.Contains(t, out, `N1["A#helper()"]:::dummy`)
	assert.Contains(t, out, `N3["Dead"]:::remove`)
	assert.Contains(t, out, "N2 -->|referenced-by-symbol-name| N1\n")
	assert.Contains(t, out, "N2 -->|directly-referenced-by-node| N1\n")
}

func TestGenerateMermaid_Focus(t *testing.T) {
	s := newStore(t)
	out, err := GenerateMermaid(context.Background(), s, "p.A#helper()", 5)
	require.NoError(t, err)

	assert.Contains(t, out, `N0["A#helper()"]:::dummy`)
	assert.Contains(t, out, `N1["A#test()"]:::keep`)
	assert.NotContains(t, out, "Dead")
	assert.NotContains(t, out, `"A"]`)
	assert.Contains(t, out, "N1 -->|referenced-by-symbol-name| N0\n")
}

func TestShortName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"p.q.C", "C"},
		{"p.C#m(p.B)", "C#m(p.B)"},
		{"C#f", "C#f"},
		{"p.Outer$1", "Outer$1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, shortName(tt.in))
		})
	}
}

package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/graph"
)

// ReductionExport is the top-level JSON report of a reduction.
type ReductionExport struct {
	Strategy   string           `json:"strategy"`
	Passes     int              `json:"passes"`
	FixedPoint bool             `json:"fixedPoint"`
	ExportedAt string           `json:"exportedAt"`
	Stats      graph.GraphStats `json:"stats"`
	Files      []FileExport     `json:"files"`
	Decls      []DeclExport     `json:"decls"`
}

// FileExport describes one input file and where its reduced form went.
type FileExport struct {
	Path   string `json:"path"`
	Kept   bool   `json:"kept"`
	Output string `json:"output,omitempty"`
}

// DeclExport is a declaration with the decision taken for it and the
// declarations whose code made it reachable.
type DeclExport struct {
	graph.DeclNode
	ReachedBy []Reach `json:"reachedBy,omitempty"`
}

// Reach is one incoming REACHES edge.
type Reach struct {
	From   string `json:"from"`
	Reason string `json:"reason"`
}

// Meta carries the run details the graph does not hold.
type Meta struct {
	Strategy   string
	Passes     int
	FixedPoint bool
	// Outputs maps an input path to the path its reduced form was written to.
	Outputs map[string]string
}

// ExportReduction builds a ReductionExport from a populated graph store.
func ExportReduction(ctx context.Context, store graph.Store, meta Meta) (*ReductionExport, error) {
	stats, err := store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("graph stats: %w", err)
	}
	decls, err := store.QueryDecls(ctx, "", 0)
	if err != nil {
		return nil, fmt.Errorf("list decls: %w", err)
	}
	edges, err := store.GetAllEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("get edges: %w", err)
	}

	reached := make(map[string][]Reach)
	for _, e := range edges {
		if e.Kind != graph.EdgeKindReaches {
			continue
		}
		reached[e.TargetID] = append(reached[e.TargetID], Reach{From: e.SourceID, Reason: e.Reason})
	}

	out := &ReductionExport{
		Strategy:   meta.Strategy,
		Passes:     meta.Passes,
		FixedPoint: meta.FixedPoint,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Stats:      *stats,
	}

	paths := make(map[string]bool)
	for _, d := range decls {
		paths[d.FilePath] = true
		rs := reached[d.ID]
		sort.Slice(rs, func(i, j int) bool {
			if rs[i].From != rs[j].From {
				return rs[i].From < rs[j].From
			}
			return rs[i].Reason < rs[j].Reason
		})
		out.Decls = append(out.Decls, DeclExport{DeclNode: d, ReachedBy: rs})
	}

	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)
	for _, p := range sorted {
		f, err := store.GetFile(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("get file %s: %w", p, err)
		}
		fe := FileExport{Path: p, Output: meta.Outputs[p]}
		if f != nil {
			fe.Kept = f.Kept
		}
		out.Files = append(out.Files, fe)
	}
	return out, nil
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

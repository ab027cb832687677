package mcptools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/coverage"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/export"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/graph"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/optflag"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/reducer"
)

// ReductionService holds the reduction graph queried by the MCP tool
// handlers. The reduce tool replaces the graph with the one of its run.
type ReductionService struct {
	mu     sync.RWMutex
	store  graph.Store
	logger *slog.Logger
}

// NewReductionService creates a ReductionService over store, which may hold
// the graph of an earlier run. A nil store starts empty.
func NewReductionService(store graph.Store, logger *slog.Logger) *ReductionService {
	if store == nil {
		store = graph.NewMemStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReductionService{store: store, logger: logger}
}

// Close releases the current graph store.
func (s *ReductionService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Close()
}

func (s *ReductionService) current() graph.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// Reduce runs a reduction and records its decisions as the current graph.
func (s *ReductionService) Reduce(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReduceInput,
) (*mcp.CallToolResult, ReduceOutput, error) {
	if len(input.SourceRoots) == 0 {
		return nil, ReduceOutput{}, fmt.Errorf("sourceRoots is required")
	}
	if len(input.Entrypoints) == 0 {
		return nil, ReduceOutput{}, fmt.Errorf("entrypoints is required")
	}

	name := input.Strategy
	if name == "" {
		name = string(reducer.MemberLevel)
	}
	strategy, err := reducer.ParseStrategy(name)
	if err != nil {
		return nil, ReduceOutput{}, err
	}
	flags, err := optflag.Parse(input.DisableFlags)
	if err != nil {
		return nil, ReduceOutput{}, err
	}

	opts := reducer.Options{
		Analysis: analysis.Options{
			SourceRoots: input.SourceRoots,
			Classpath:   input.Classpath,
			Flags:       flags,
			Logger:      s.logger,
		},
		Entrypoints: input.Entrypoints,
		OutputRoot:  input.OutputDir,
	}
	if input.Coverage != "" {
		m, err := coverage.Load(input.Coverage)
		if err != nil {
			return nil, ReduceOutput{}, fmt.Errorf("load coverage: %w", err)
		}
		opts.Coverage = m
	}

	rep, err := reducer.Reduce(ctx, opts, strategy, input.Passes)
	if err != nil {
		return nil, ReduceOutput{}, fmt.Errorf("reduce: %w", err)
	}
	if input.OutputDir != "" {
		if err := rep.Write(); err != nil {
			return nil, ReduceOutput{}, fmt.Errorf("write outputs: %w", err)
		}
	}

	store := graph.NewMemStore()
	if err := graph.Record(ctx, store, rep); err != nil {
		return nil, ReduceOutput{}, err
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return nil, ReduceOutput{}, fmt.Errorf("stats: %w", err)
	}

	s.mu.Lock()
	old := s.store
	s.store = store
	s.mu.Unlock()
	if err := old.Close(); err != nil {
		s.logger.Warn("closing previous graph", "err", err)
	}

	out := ReduceOutput{Passes: rep.Passes, FixedPoint: rep.FixedPoint, Stats: *stats}
	for _, o := range rep.Outputs {
		out.Files = append(out.Files, o.Path)
	}
	return nil, out, nil
}

// Why explains the decision taken for one declaration.
func (s *ReductionService) Why(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input WhyInput,
) (*mcp.CallToolResult, WhyOutput, error) {
	if input.Decl == "" {
		return nil, WhyOutput{}, fmt.Errorf("decl is required")
	}
	maxDepth := input.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 5
	}

	store := s.current()
	d, err := store.GetDecl(ctx, input.Decl)
	if err != nil {
		return nil, WhyOutput{}, fmt.Errorf("get decl: %w", err)
	}
	if d == nil {
		return nil, WhyOutput{}, fmt.Errorf("no declaration %q in the reduction graph", input.Decl)
	}
	chains, err := store.GetDependencies(ctx, input.Decl, graph.DirectionUpstream, maxDepth)
	if err != nil {
		return nil, WhyOutput{}, fmt.Errorf("get dependencies: %w", err)
	}
	diagram, err := export.GenerateMermaid(ctx, store, input.Decl, maxDepth)
	if err != nil {
		return nil, WhyOutput{}, err
	}
	return nil, WhyOutput{Decl: *d, Chains: chains, Mermaid: diagram}, nil
}

// QueryDecls searches declarations by qualified name substring match.
func (s *ReductionService) QueryDecls(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryDeclsInput,
) (*mcp.CallToolResult, QueryDeclsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	decls, err := s.current().QueryDecls(ctx, input.Query, 0)
	if err != nil {
		return nil, QueryDeclsOutput{}, fmt.Errorf("query decls: %w", err)
	}

	kind := graph.DeclKind(strings.ToLower(input.Kind))
	decision := strings.ToLower(input.Decision)
	filtered := decls[:0]
	for _, d := range decls {
		if kind != "" && d.Kind != kind {
			continue
		}
		if decision != "" && d.Decision != decision {
			continue
		}
		filtered = append(filtered, d)
	}
	total := len(filtered)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return nil, QueryDeclsOutput{Decls: filtered, Total: total}, nil
}

// Stats returns the counts of the current graph.
func (s *ReductionService) Stats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.current().Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, fmt.Errorf("stats: %w", err)
	}
	return nil, StatsOutput{Stats: *stats}, nil
}

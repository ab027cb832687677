// Package reducer drives whole reductions: it marks, decides and sweeps an
// analysis context under one of several strategies and remaps the result
// onto an output tree.
package reducer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/decision"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/mark"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/sweep"
)

// ErrNotRun is returned when results are requested before Run succeeded.
var ErrNotRun = errors.New("reducer: Run has not completed")

// ErrUnparsable is returned when a reduced unit is no longer valid Java.
var ErrUnparsable = errors.New("reduced unit does not parse")

// Reducer is one reduction strategy bound to an analysis context.
type Reducer interface {
	// Run computes reachability and decisions. It is called once.
	Run(ctx context.Context, concurrency int) error
	// TransformedCompilationUnits sweeps every file and maps it from its
	// source root onto outputRoot. Files left without a type are omitted.
	TransformedCompilationUnits(outputRoot string) ([]Output, error)
	Decisions() *decision.Table
	Result() *mark.Result
	Context() *analysis.Context
}

// Compile-time interface checks.
var (
	_ Reducer = (*ClassReducer)(nil)
	_ Reducer = (*MemberReducer)(nil)
	_ Reducer = (*CoverageReducer)(nil)
)

// Output is one reduced compilation unit.
type Output struct {
	// Path is where the unit is written.
	Path string
	// Source is the path of the unit it was reduced from.
	Source  string
	Content []byte

	file *jast.File
}

// Write persists the unit, creating parent directories as needed.
func (o Output) Write() error {
	if err := os.MkdirAll(filepath.Dir(o.Path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(o.Path, o.Content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", o.Path, err)
	}
	return nil
}

// base holds what every strategy shares.
type base struct {
	c           *analysis.Context
	entrypoints []string
	logger      *slog.Logger

	table  *decision.Table
	result *mark.Result
}

func newBase(c *analysis.Context, entrypoints []string) base {
	return base{
		c:           c,
		entrypoints: entrypoints,
		logger:      c.Logger().With("component", "reducer"),
	}
}

func (b *base) Decisions() *decision.Table  { return b.table }
func (b *base) Result() *mark.Result        { return b.result }
func (b *base) Context() *analysis.Context { return b.c }

// markAndDecide runs one marking pass from seeds and derives decisions
// into t. Results are published only when both steps succeed.
func (b *base) markAndDecide(ctx context.Context, seeds []mark.Seed, opts mark.Options, t *decision.Table, concurrency int) error {
	res, err := mark.NewEngine(b.c, opts).Run(ctx, seeds, concurrency)
	if err != nil {
		return fmt.Errorf("mark: %w", err)
	}
	if err := decision.Decide(ctx, b.c, res, t); err != nil {
		return fmt.Errorf("decide: %w", err)
	}
	b.result, b.table = res, t
	b.logger.Info("reduction decided", "reached", res.Len(), "decisions", t.Len())
	return nil
}

func (b *base) TransformedCompilationUnits(outputRoot string) ([]Output, error) {
	if b.table == nil {
		return nil, ErrNotRun
	}
	var out []Output
	for _, path := range b.c.Paths() {
		content, ok := sweep.Sweep(b.c.File(path), b.table)
		if !ok {
			b.logger.Debug("dropping compilation unit", "file", path)
			continue
		}
		swept, err := jast.Parse(context.Background(), path, content)
		if err != nil {
			return nil, fmt.Errorf("reparse %s: %w", path, err)
		}
		if swept.HasError {
			return nil, fmt.Errorf("%w: %s: first error at line %d", ErrUnparsable, path, swept.FirstErrorLine())
		}
		if err := decision.CheckSingleAssignment(swept); err != nil {
			return nil, fmt.Errorf("check %s: %w", path, err)
		}
		out = append(out, Output{
			Path:    remap(b.c.SourceRoot(path), path, outputRoot),
			Source:  path,
			Content: content,
			file:    swept,
		})
	}
	return out, nil
}

// remap moves path from under root to under outputRoot. Paths outside
// every source root keep their full path below outputRoot.
func remap(root, path, outputRoot string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil {
			return filepath.Join(outputRoot, rel)
		}
	}
	return filepath.Join(outputRoot, path)
}

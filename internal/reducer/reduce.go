package reducer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/coverage"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
)

// Strategy selects a reducer.
type Strategy string

const (
	ClassLevel    Strategy = "class"
	MemberLevel   Strategy = "member"
	CoverageBased Strategy = "coverage"
)

// Strategies lists every strategy in a stable order.
var Strategies = []Strategy{ClassLevel, MemberLevel, CoverageBased}

// ParseStrategy maps a strategy name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if string(st) == strings.ToLower(s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

var errNoOracle = errors.New("coverage strategy needs coverage data")

// Options configures Reduce.
type Options struct {
	Analysis    analysis.Options
	Entrypoints []string
	// Coverage is required by CoverageBased and ignored otherwise.
	Coverage   coverage.Oracle
	OutputRoot string
}

// Report is the outcome of Reduce.
type Report struct {
	// Passes is the number of passes run.
	Passes int
	// FixedPoint is set when the last pass changed nothing.
	FixedPoint bool
	Outputs    []Output
	// Reducer is the reducer of the last pass.
	Reducer Reducer
}

// Write persists every output.
func (r *Report) Write() error {
	for _, o := range r.Outputs {
		if err := o.Write(); err != nil {
			return err
		}
	}
	return nil
}

// New creates the reducer for strategy s over c.
func New(c *analysis.Context, s Strategy, opts Options) (Reducer, error) {
	switch s {
	case ClassLevel:
		return NewClassReducer(c, opts.Entrypoints), nil
	case MemberLevel:
		return NewMemberReducer(c, opts.Entrypoints), nil
	case CoverageBased:
		if opts.Coverage == nil {
			return nil, errNoOracle
		}
		return NewCoverageReducer(c, opts.Entrypoints, opts.Coverage), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", s)
}

// Reduce loads the source roots and runs up to passes reductions, each over
// the previous pass's output, stopping early once a pass changes nothing.
// Nothing is written; see Report.Write.
func Reduce(ctx context.Context, opts Options, s Strategy, passes int) (*Report, error) {
	if passes < 1 {
		passes = 1
	}
	c, err := analysis.Load(ctx, opts.Analysis)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	logger := c.Logger()

	rep := &Report{}
	for pass := 1; ; pass++ {
		r, err := New(c, s, opts)
		if err != nil {
			return nil, err
		}
		if cr, ok := r.(*CoverageReducer); ok && pass > 1 {
			cr.lines = false
		}
		if err := r.Run(ctx, opts.Analysis.Concurrency); err != nil {
			return nil, fmt.Errorf("pass %d: %w", pass, err)
		}
		outs, err := r.TransformedCompilationUnits(opts.OutputRoot)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", pass, err)
		}
		rep.Passes, rep.Outputs, rep.Reducer = pass, outs, r
		if unchanged(c, outs) {
			rep.FixedPoint = true
			logger.Info("reduction reached a fixed point", "pass", pass, "files", len(outs))
			break
		}
		logger.Info("reduction pass done", "pass", pass, "files", len(outs), "strategy", string(s))
		if pass == passes {
			break
		}
		files := make([]*jast.File, len(outs))
		for i, o := range outs {
			files[i] = o.file
		}
		if c, err = analysis.New(ctx, files, opts.Analysis); err != nil {
			return nil, fmt.Errorf("pass %d: reload: %w", pass+1, err)
		}
	}
	return rep, nil
}

// unchanged reports whether outs reproduce the files of c exactly.
func unchanged(c *analysis.Context, outs []Output) bool {
	if len(outs) != len(c.Paths()) {
		return false
	}
	for _, o := range outs {
		f := c.File(o.Source)
		if f == nil || !bytes.Equal(f.Source, o.Content) {
			return false
		}
	}
	return true
}

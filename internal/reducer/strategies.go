package reducer

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/coverage"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/decision"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/mark"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// ---------------------------------------------------------------------------
// Member level
// ---------------------------------------------------------------------------

// MemberReducer keeps exactly the reachable declarations: unreached
// members and types are removed and callables needed only for their
// signature are stubbed.
type MemberReducer struct {
	base
}

func NewMemberReducer(c *analysis.Context, entrypoints []string) *MemberReducer {
	return &MemberReducer{base: newBase(c, entrypoints)}
}

func (r *MemberReducer) Run(ctx context.Context, concurrency int) error {
	seeds, err := mark.EntrypointSeeds(r.c, r.entrypoints)
	if err != nil {
		return err
	}
	return r.markAndDecide(ctx, seeds, mark.Options{}, decision.NewTable(), concurrency)
}

// ---------------------------------------------------------------------------
// Class level
// ---------------------------------------------------------------------------

// ClassReducer keeps or removes whole classes. Every member of a reached
// class is treated as reached, which can pull in further classes; marking
// repeats until the set of classes stops growing.
type ClassReducer struct {
	base
}

func NewClassReducer(c *analysis.Context, entrypoints []string) *ClassReducer {
	return &ClassReducer{base: newBase(c, entrypoints)}
}

func (r *ClassReducer) Run(ctx context.Context, concurrency int) error {
	entry, err := mark.EntrypointSeeds(r.c, r.entrypoints)
	if err != nil {
		return err
	}
	var classes []*symbols.Type
	for round := 1; ; round++ {
		seeds := slices.Concat(entry, mark.ClassSeeds(classes))
		res, err := mark.NewEngine(r.c, mark.Options{}).Run(ctx, seeds, concurrency)
		if err != nil {
			return fmt.Errorf("mark: %w", err)
		}
		reached := reachedTypes(res)
		if round > 1 && len(reached) == len(classes) {
			t := decision.NewTable()
			if err := decision.Decide(ctx, r.c, res, t); err != nil {
				return fmt.Errorf("decide: %w", err)
			}
			r.result, r.table = res, t
			r.logger.Info("reduction decided", "classes", len(reached), "rounds", round, "decisions", t.Len())
			return nil
		}
		classes = reached
	}
}

func reachedTypes(res *mark.Result) []*symbols.Type {
	var out []*symbols.Type
	for _, d := range res.All() {
		if t, ok := d.(*symbols.Type); ok {
			out = append(out, t)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Coverage guided
// ---------------------------------------------------------------------------

// CoverageReducer is the member-level reduction informed by runtime
// coverage: code the oracle saw running is seeded, and statements it saw
// never running are tagged before marking so that nothing they reference is
// kept on their account.
type CoverageReducer struct {
	base
	oracle coverage.Oracle
	// lines enables statement tagging. Line data only describes the
	// original sources, so later passes turn it off.
	lines bool
}

func NewCoverageReducer(c *analysis.Context, entrypoints []string, oracle coverage.Oracle) *CoverageReducer {
	return &CoverageReducer{
		base:   newBase(c, entrypoints),
		oracle: &rootRelative{Oracle: oracle, c: c},
		lines:  true,
	}
}

func (r *CoverageReducer) Run(ctx context.Context, concurrency int) error {
	t := decision.NewTable()
	if r.lines {
		if err := decision.TagUncovered(ctx, r.c, r.oracle, t); err != nil {
			return fmt.Errorf("tag uncovered statements: %w", err)
		}
		r.logger.Debug("uncovered statements tagged", "decisions", t.Len())
	}
	seeds, err := mark.EntrypointSeeds(r.c, r.entrypoints)
	if err != nil {
		return err
	}
	seeds = append(seeds, mark.CoverageSeeds(r.c.Registry(), r.oracle)...)
	skip := func(ref jast.Ref) bool { return t.Of(ref) != decision.Keep }
	return r.markAndDecide(ctx, seeds, mark.Options{Skip: skip}, t, concurrency)
}

// rootRelative answers line queries for loaded paths from data keyed by
// paths relative to the source root.
type rootRelative struct {
	coverage.Oracle
	c *analysis.Context
}

func (o *rootRelative) Line(path string, line int) coverage.Status {
	if s := o.Oracle.Line(path, line); s != coverage.Unknown {
		return s
	}
	root := o.c.SourceRoot(path)
	if root == "" {
		return coverage.Unknown
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return coverage.Unknown
	}
	return o.Oracle.Line(filepath.ToSlash(rel), line)
}

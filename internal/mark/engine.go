package mark

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// Seed is an initial reachability fact.
type Seed struct {
	Decl   symbols.Decl
	Reason Reason
}

// Options configures an Engine.
type Options struct {
	// Skip reports statements the engine must not look into, such as code
	// already tagged for removal.
	Skip func(jast.Ref) bool
}

type item struct {
	decl  symbols.Decl
	level Level
}

// Engine runs the mark phase over an analysis context. An Engine is good
// for one Run.
type Engine struct {
	c      *analysis.Context
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	full    *roaring.Bitmap
	shallow *roaring.Bitmap
	reasons map[jast.Ref][]Reason
	next    []item

	// uses feed the import analysis: resolved simple names per file and
	// names that resolved to nothing.
	usesMu     sync.Mutex
	uses       map[string][]use
	unresolved map[string][]unresolvedName
}

func NewEngine(c *analysis.Context, opts Options) *Engine {
	return &Engine{
		c:          c,
		opts:       opts,
		logger:     c.Logger(),
		full:       roaring.New(),
		shallow:    roaring.New(),
		reasons:    map[jast.Ref][]Reason{},
		uses:       map[string][]use{},
		unresolved: map[string][]unresolvedName{},
	}
}

// Run marks everything reachable from seeds. Each wave of newly queued
// declarations is visited by up to concurrency goroutines; the context is
// checked between waves.
func (e *Engine) Run(ctx context.Context, seeds []Seed, concurrency int) (*Result, error) {
	if concurrency <= 0 {
		concurrency = e.c.Concurrency()
	}
	for _, s := range seeds {
		e.reach(s.Decl, s.Reason)
	}
	waves := 0
	for {
		for {
			wave := e.drain()
			if len(wave) == 0 {
				break
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			waves++
			g, _ := errgroup.WithContext(ctx)
			g.SetLimit(concurrency)
			for _, it := range wave {
				g.Go(func() error {
					if err := e.visit(it); err != nil {
						return fmt.Errorf("mark %s: %w", it.decl.QName(), err)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}
		}
		if !e.retainConstructors() {
			break
		}
	}
	e.justifyImports()

	res := &Result{reg: e.c.Registry(), full: e.full, shallow: e.shallow, reasons: e.reasons}
	e.logger.Debug("mark phase done", "waves", waves, "reached", res.Len(), "full", e.full.GetCardinality())
	return res, nil
}

func (e *Engine) drain() []item {
	e.mu.Lock()
	defer e.mu.Unlock()
	wave := e.next
	e.next = nil
	return wave
}

// reach records r on d and queues d when r raises its level.
func (e *Engine) reach(d symbols.Decl, r Reason) {
	if d == nil {
		return
	}
	id := uint32(d.ID())
	lvl := r.Level()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.appendReason(d.Ref(), r)
	queued := false
	if lvl == Full {
		if e.full.CheckedAdd(id) {
			e.shallow.Add(id)
			queued = true
		}
	} else if !e.full.Contains(id) && e.shallow.CheckedAdd(id) {
		queued = true
	}
	if queued {
		e.next = append(e.next, item{decl: d, level: lvl})
	}
}

// justify records r on a node that is not a declaration.
func (e *Engine) justify(ref jast.Ref, r Reason) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.appendReason(ref, r)
}

func (e *Engine) appendReason(ref jast.Ref, r Reason) {
	if slices.Contains(e.reasons[ref], r) {
		return
	}
	e.reasons[ref] = append(e.reasons[ref], r)
}

func (e *Engine) level(d symbols.Decl) Level {
	id := uint32(d.ID())
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.full.Contains(id):
		return Full
	case e.shallow.Contains(id):
		return Shallow
	}
	return None
}

func (e *Engine) skipped(f *jast.File, id jast.NodeID) bool {
	return e.opts.Skip != nil && e.opts.Skip(f.Ref(id))
}

// retainConstructors keeps one constructor of every fully kept class whose
// declared constructors were all left unreached, so that removing them
// cannot expose an implicit constructor the superclass does not support.
// It reports whether anything new was queued.
func (e *Engine) retainConstructors() bool {
	queued := false
	for _, t := range e.c.Registry().Types() {
		if len(t.Ctors) == 0 || e.level(t) != Full {
			continue
		}
		if slices.ContainsFunc(t.Ctors, func(m *symbols.Method) bool { return e.level(m) != None }) {
			continue
		}
		e.reach(t.Ctors[0], RequiredForCompilation{Site: t.Ref(), Why: "kept class constructor"})
		queued = true
	}
	return queued
}

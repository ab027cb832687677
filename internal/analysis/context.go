// Package analysis owns the per-run state of a reduction: the parsed source
// tree, the declaration registry, the resolver stack and the lazily built
// hierarchy and reassignment indexes.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/optflag"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/resolve"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// Options configures a Context.
type Options struct {
	// SourceRoots are the directories holding the analysed tree, in order.
	SourceRoots []string
	// Classpath entries: directories of .class files, .jar archives or .txt
	// lists of qualified type names.
	Classpath []string
	Flags     optflag.Set
	// Concurrency bounds the worker pools. Zero means GOMAXPROCS.
	Concurrency int
	Logger      *slog.Logger
}

func (o Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// ParseError records a source file that could not be parsed. The file is
// left out of the analysed universe.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Context is the shared state of one reduction run. It is safe for
// concurrent use once constructed.
type Context struct {
	opts   Options
	logger *slog.Logger

	files       map[string]*jast.File
	roots       map[string]string
	parseErrors []*ParseError

	registry *symbols.Registry
	solver   *resolve.Solver
	fuzzy    *resolve.Fuzzy
	reporter *Reporter

	hierOnce sync.Once
	subs     [numDescKinds]map[string][]*symbols.Type

	overriding *resolve.Cache[overrideQuery, []*symbols.Method]

	assignOnce sync.Once
	assigns    map[jast.Ref][]Assignment
}

// Load parses every .java file under opts.SourceRoots and builds a context
// over the files that parsed cleanly.
func Load(ctx context.Context, opts Options) (*Context, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	type job struct{ path, root string }
	var jobs []job
	for _, root := range opts.SourceRoots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".java") {
				jobs = append(jobs, job{path: path, root: root})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk source root %s: %w", root, err)
		}
	}

	parsed := make([]*jast.File, len(jobs))
	failures := make([]*ParseError, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency())
	for i, j := range jobs {
		g.Go(func() error {
			src, err := os.ReadFile(j.path)
			if err != nil {
				return fmt.Errorf("read %s: %w", j.path, err)
			}
			f, err := jast.Parse(gctx, j.path, src)
			switch {
			case err != nil:
				failures[i] = &ParseError{Path: j.path, Err: err}
			case f.HasError:
				failures[i] = &ParseError{Path: j.path, Line: firstErrorLine(f), Err: errSyntax}
			default:
				parsed[i] = f
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var files []*jast.File
	var parseErrors []*ParseError
	roots := make(map[string]string, len(jobs))
	for i, j := range jobs {
		if failures[i] != nil {
			logger.Warn("excluding file that failed to parse", "file", j.path, "line", failures[i].Line, "err", failures[i].Err)
			parseErrors = append(parseErrors, failures[i])
			continue
		}
		files = append(files, parsed[i])
		roots[j.path] = j.root
	}

	c, err := New(ctx, files, opts)
	if err != nil {
		return nil, err
	}
	c.parseErrors = parseErrors
	c.roots = roots
	return c, nil
}

var errSyntax = errors.New("syntax error")

func firstErrorLine(f *jast.File) int {
	line := 0
	f.Walk(jast.RootID, func(id jast.NodeID) bool {
		if line != 0 {
			return false
		}
		if k := f.Kind(id); k == "ERROR" || k == "MISSING" {
			line = f.Node(id).Row
			return false
		}
		return true
	})
	return line
}

// New builds a context from already parsed files.
func New(ctx context.Context, files []*jast.File, opts Options) (*Context, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sorted := append([]*jast.File(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	units := make([]*symbols.Unit, len(sorted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency())
	for i, f := range sorted {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			u, err := symbols.Collect(f)
			if err != nil {
				return fmt.Errorf("collect declarations: %w", err)
			}
			units[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lib, err := resolve.LoadClasspath(opts.Classpath)
	if err != nil {
		return nil, err
	}
	reg := symbols.NewRegistry(units)
	solver := resolve.NewSolver(&resolve.Partitioned{Registry: reg, Library: lib}, logger)
	if err := solver.BuildHierarchy(ctx, opts.concurrency()); err != nil {
		return nil, fmt.Errorf("build hierarchy: %w", err)
	}

	c := &Context{
		opts:     opts,
		logger:   logger,
		files:    make(map[string]*jast.File, len(sorted)),
		roots:    map[string]string{},
		registry: reg,
		solver:   solver,
		reporter: NewReporter(logger),
		overriding: resolve.NewCache[overrideQuery, []*symbols.Method](func(q overrideQuery) string {
			return fmt.Sprintf("%d/%t", q.method, q.stopAtFirst)
		}),
	}
	for _, f := range sorted {
		c.files[f.Path] = f
		for _, root := range opts.SourceRoots {
			if rel, err := filepath.Rel(root, f.Path); err == nil && !strings.HasPrefix(rel, "..") {
				c.roots[f.Path] = root
				break
			}
		}
	}
	c.fuzzy = resolve.NewFuzzy(solver, opts.Flags, c.reporter)
	logger.Debug("analysis context ready", "files", len(sorted), "decls", reg.Len(), "library", lib.Len())
	return c, nil
}

// Files returns the loaded files keyed by path.
func (c *Context) Files() map[string]*jast.File { return c.files }

// File returns the loaded file at path, or nil.
func (c *Context) File(path string) *jast.File { return c.files[path] }

// Paths returns the loaded file paths, sorted.
func (c *Context) Paths() []string {
	out := make([]string, 0, len(c.files))
	for p := range c.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// SourceRoot returns the source root a file lives under, or "" when it is
// outside every configured root.
func (c *Context) SourceRoot(path string) string { return c.roots[path] }

// ParseErrors lists the files excluded by Load.
func (c *Context) ParseErrors() []*ParseError { return c.parseErrors }

func (c *Context) Registry() *symbols.Registry { return c.registry }
func (c *Context) Solver() *resolve.Solver     { return c.solver }
func (c *Context) Fuzzy() *resolve.Fuzzy       { return c.fuzzy }
func (c *Context) Reporter() *Reporter         { return c.reporter }
func (c *Context) Flags() optflag.Set          { return c.opts.Flags }
func (c *Context) Logger() *slog.Logger        { return c.logger }
func (c *Context) Concurrency() int            { return c.opts.concurrency() }

// Normalize collapses t to the source-declarable types it stands for.
func (c *Context) Normalize(t jtypes.Type) []jtypes.Type {
	return c.solver.Algebra().Normalize(t)
}

// Flatten collapses t to a single source-declarable type.
func (c *Context) Flatten(t jtypes.Type) jtypes.Type {
	return c.solver.Algebra().Flatten(t)
}

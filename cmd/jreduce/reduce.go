package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/config"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/coverage"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/export"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/graph"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/optflag"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/reducer"
)

// reduceFlags mirror config.ProjectConfig; a flag set on the command line
// wins over the config file.
type reduceFlags struct {
	SourceRoots  []string
	Classpath    []string
	Entrypoints  []string
	OutputDir    string
	Strategy     string
	Passes       int
	Coverage     string
	Concurrency  int
	DisableFlags []string
	GraphDB      string
	Report       string
}

func newReduceCmd(g *globals) *cobra.Command {
	f := &reduceFlags{}
	cmd := &cobra.Command{
		Use:   "reduce [entrypoint...]",
		Short: "reduce the source roots and write the reduced tree",
		Long: `Reduce loads the source roots, marks everything reachable from the
entrypoints (pkg.Class or pkg.Class#member) and writes the reduced tree under
the output directory. Positional arguments are added to the entrypoints.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			f.merge(cmd, cfg)
			f.Entrypoints = append(f.Entrypoints, args...)
			return runReduce(cmd.Context(), cmd.OutOrStdout(), f, logger)
		},
	}
	fl := cmd.Flags()
	fl.StringSliceVar(&f.SourceRoots, "source-root", nil, "source root directory (repeatable)")
	fl.StringSliceVar(&f.Classpath, "classpath", nil, "classpath entry: class directory, jar or .txt list of qualified names (repeatable)")
	fl.StringSliceVarP(&f.Entrypoints, "entrypoint", "e", nil, "entrypoint as pkg.Class or pkg.Class#member (repeatable)")
	fl.StringVarP(&f.OutputDir, "output-dir", "o", "", "directory to write the reduced tree to")
	fl.StringVar(&f.Strategy, "strategy", string(reducer.MemberLevel), "reduction strategy: class, member or coverage")
	fl.IntVar(&f.Passes, "passes", 1, "maximum number of passes")
	fl.StringVar(&f.Coverage, "coverage", "", "coverage YAML file, required by the coverage strategy")
	fl.IntVar(&f.Concurrency, "concurrency", 0, "worker pool size (default GOMAXPROCS)")
	fl.StringSliceVar(&f.DisableFlags, "disable-flag", nil, "optimization flag to disable (repeatable)")
	fl.StringVar(&f.GraphDB, "graph-db", "", "directory to persist the reduction graph to (cgo builds only)")
	fl.StringVar(&f.Report, "report", "", "write a JSON report to this file, or - for stdout")
	return cmd
}

// merge fills every flag left unset on the command line from cfg.
func (f *reduceFlags) merge(cmd *cobra.Command, cfg *config.ProjectConfig) {
	changed := cmd.Flags().Changed
	if !changed("source-root") {
		f.SourceRoots = cfg.SourceRoots
	}
	if !changed("classpath") {
		f.Classpath = cfg.Classpath
	}
	if !changed("entrypoint") {
		f.Entrypoints = cfg.Entrypoints
	}
	if !changed("output-dir") && cfg.OutputDir != "" {
		f.OutputDir = cfg.OutputDir
	}
	if !changed("strategy") && cfg.Strategy != "" {
		f.Strategy = cfg.Strategy
	}
	if !changed("passes") && cfg.Passes > 0 {
		f.Passes = cfg.Passes
	}
	if !changed("coverage") && cfg.Coverage != "" {
		f.Coverage = cfg.Coverage
	}
	if !changed("concurrency") && cfg.Concurrency > 0 {
		f.Concurrency = cfg.Concurrency
	}
	if !changed("disable-flag") {
		f.DisableFlags = cfg.DisableFlags
	}
	if !changed("graph-db") && cfg.GraphDB != "" {
		f.GraphDB = cfg.GraphDB
	}
}

func runReduce(ctx context.Context, stdout io.Writer, f *reduceFlags, logger *slog.Logger) error {
	if len(f.SourceRoots) == 0 {
		return fmt.Errorf("no source roots: pass --source-root or set sourceRoots in jreduce.yml")
	}
	if len(f.Entrypoints) == 0 {
		return fmt.Errorf("no entrypoints: pass --entrypoint or set entrypoints in jreduce.yml")
	}
	if f.OutputDir == "" {
		return fmt.Errorf("no output directory: pass --output-dir or set outputDir in jreduce.yml")
	}
	strategy, err := reducer.ParseStrategy(f.Strategy)
	if err != nil {
		return err
	}
	flags, err := optflag.Parse(f.DisableFlags)
	if err != nil {
		return err
	}

	opts := reducer.Options{
		Analysis: analysis.Options{
			SourceRoots: f.SourceRoots,
			Classpath:   f.Classpath,
			Flags:       flags,
			Concurrency: f.Concurrency,
			Logger:      logger,
		},
		Entrypoints: f.Entrypoints,
		OutputRoot:  f.OutputDir,
	}
	if f.Coverage != "" {
		m, err := coverage.Load(f.Coverage)
		if err != nil {
			return fmt.Errorf("load coverage: %w", err)
		}
		opts.Coverage = m
	}
	logger.Debug("reducing", "strategy", string(strategy), "roots", f.SourceRoots, "flags", flags.String())

	rep, err := reducer.Reduce(ctx, opts, strategy, f.Passes)
	if err != nil {
		return err
	}
	if err := rep.Write(); err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}

	store, err := newStore(f.GraphDB)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := graph.Record(ctx, store, rep); err != nil {
		return err
	}

	if f.Report != "" {
		if err := writeReport(ctx, stdout, f.Report, store, strategy, rep); err != nil {
			return err
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	state := "pass limit reached"
	if rep.FixedPoint {
		state = "fixed point"
	}
	fmt.Fprintf(stdout, "reduced %d files to %d in %d passes (%s): %d kept, %d stubbed, %d removed\n",
		stats.FileCount, len(rep.Outputs), rep.Passes, state, stats.Kept, stats.Dummied, stats.Removed)
	fmt.Fprintf(stdout, "output written to %s\n", f.OutputDir)
	return nil
}

// newStore opens the persistent graph at dbPath, replacing any earlier
// graph there, or an in-memory graph when dbPath is empty.
func newStore(dbPath string) (graph.Store, error) {
	if dbPath == "" {
		return graph.NewMemStore(), nil
	}
	// Remove old graph to avoid stale data.
	if err := os.RemoveAll(dbPath); err != nil {
		return nil, fmt.Errorf("remove old graph: %w", err)
	}
	return openGraph(dbPath)
}

func writeReport(ctx context.Context, stdout io.Writer, path string, store graph.Store, s reducer.Strategy, rep *reducer.Report) error {
	meta := export.Meta{
		Strategy:   string(s),
		Passes:     rep.Passes,
		FixedPoint: rep.FixedPoint,
		Outputs:    make(map[string]string, len(rep.Outputs)),
	}
	for _, o := range rep.Outputs {
		meta.Outputs[o.Source] = o.Path
	}
	data, err := export.ExportReduction(ctx, store, meta)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if path == "-" {
		return export.WriteJSON(stdout, data)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := export.WriteJSON(out, data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/config"
)

// version is set by goreleaser at build time.
var version = "dev"

// globals are the persistent flags shared by every subcommand.
type globals struct {
	ProjectRoot string
	Debug       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "jreduce",
		Short: "reduces a Java source tree to what a set of entrypoints needs",
		Long: `jreduce statically marks the declarations reachable from the given
entrypoints, stubs the bodies that only need to compile and removes the rest.
Settings are read from jreduce.yml in the project root; flags override them.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.ProjectRoot, "project-root", ".", "directory holding jreduce.yml; relative paths in it resolve against this directory")
	root.PersistentFlags().BoolVar(&g.Debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newReduceCmd(g),
		newServeMCPCmd(g),
		newWhyCmd(g),
		newDiagramCmd(g),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// load reads the project config and builds the logger both honour.
func (g *globals) load(w io.Writer) (*config.ProjectConfig, *slog.Logger, error) {
	cfg, err := config.Load(g.ProjectRoot)
	if err != nil {
		return nil, nil, err
	}
	level := slog.LevelInfo
	if g.Debug || cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return cfg, logger, nil
}

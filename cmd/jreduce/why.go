package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/graph"
)

func newWhyCmd(g *globals) *cobra.Command {
	var graphDB string
	var depth int
	cmd := &cobra.Command{
		Use:   "why <decl>",
		Short: "explain the decision taken for a declaration",
		Long: `Why looks a declaration up in the graph persisted by reduce --graph-db and
prints its decision with the declarations that made it reachable.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, err := openExisting(graphDB, cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			return runWhy(cmd, store, args[0], depth)
		},
	}
	cmd.Flags().StringVar(&graphDB, "graph-db", "", "directory of the persisted reduction graph")
	cmd.Flags().IntVar(&depth, "depth", 3, "maximum justification chain length")
	return cmd
}

func runWhy(cmd *cobra.Command, store graph.Store, id string, depth int) error {
	ctx := cmd.Context()
	d, err := store.GetDecl(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		matches, err := store.QueryDecls(ctx, id, 10)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("no declaration %q in the reduction graph", id)
		}
		return printMatches(cmd.OutOrStdout(), id, matches)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## %s\n\n", d.ID))
	sb.WriteString(fmt.Sprintf("- %s in `%s:%d`\n", d.Kind, d.FilePath, d.StartLine))
	sb.WriteString(fmt.Sprintf("- decision: %s (level %s)\n", d.Decision, d.Level))
	if d.Seed != "" {
		sb.WriteString(fmt.Sprintf("- seeded as %s\n", d.Seed))
	}

	edges, err := store.GetAllEdges(ctx)
	if err != nil {
		return err
	}
	var reasons []string
	for _, e := range edges {
		if e.Kind == graph.EdgeKindReaches && e.TargetID == d.ID {
			reasons = append(reasons, fmt.Sprintf("- `%s` (%s)\n", e.SourceID, e.Reason))
		}
	}
	if len(reasons) > 0 {
		sb.WriteString("\n**Reached from:**\n")
		for _, r := range reasons {
			sb.WriteString(r)
		}
	}

	chains, err := store.GetDependencies(ctx, d.ID, graph.DirectionUpstream, depth)
	if err != nil {
		return err
	}
	shown := 0
	for _, chain := range chains {
		if chain.Depth < 2 {
			continue
		}
		if shown == 0 {
			sb.WriteString("\n**Justification chains:**\n")
		}
		if shown < 8 {
			sb.WriteString("- " + strings.Join(chain.Nodes, " <- ") + "\n")
		}
		shown++
	}
	if shown > 8 {
		sb.WriteString(fmt.Sprintf("- ... (%d more)\n", shown-8))
	}

	_, err = io.WriteString(cmd.OutOrStdout(), sb.String())
	return err
}

func printMatches(w io.Writer, query string, matches []graph.DeclNode) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("no declaration %q; did you mean:\n", query))
	for _, m := range matches {
		sb.WriteString(fmt.Sprintf("- `%s` (%s, %s)\n", m.ID, m.Kind, m.Decision))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

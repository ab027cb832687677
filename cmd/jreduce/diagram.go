package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/export"
)

func newDiagramCmd(g *globals) *cobra.Command {
	var graphDB, focus string
	var depth int
	cmd := &cobra.Command{
		Use:   "diagram",
		Short: "print a Mermaid diagram of the persisted reduction graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			store, err := openExisting(graphDB, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			mermaid, err := export.GenerateMermaid(cmd.Context(), store, focus, depth)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), mermaid)
			return nil
		},
	}
	cmd.Flags().StringVar(&graphDB, "graph-db", "", "directory of the persisted reduction graph")
	cmd.Flags().StringVar(&focus, "focus", "", "only draw the justification chains of this declaration")
	cmd.Flags().IntVar(&depth, "depth", 5, "maximum chain length with --focus")
	return cmd
}

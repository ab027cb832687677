package main

import (
	"github.com/spf13/cobra"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/graph"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/mcptools"
)

func newServeMCPCmd(g *globals) *cobra.Command {
	var addr, graphDB string
	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "serve the reduction tools over MCP",
		Long: `Serve-mcp exposes the reduce, why, query_decls and stats tools over MCP, on
stdio by default or over streamable HTTP with --http. With --graph-db the
graph of an earlier reduce run is queryable before the first reduce call.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			var store graph.Store
			if graphDB != "" || cfg.GraphDB != "" {
				if store, err = openExisting(graphDB, cfg); err != nil {
					return err
				}
			}
			svc := mcptools.NewReductionService(store, logger)
			defer svc.Close()

			server := mcptools.NewReductionMCPServer(svc)
			if addr != "" {
				logger.Info("serving MCP over HTTP", "addr", addr)
				return mcptools.RunMCPServer(cmd.Context(), server, addr)
			}
			return mcptools.RunMCPServerStdio(cmd.Context(), server)
		},
	}
	cmd.Flags().StringVar(&addr, "http", "", "listen address for streamable HTTP instead of stdio, e.g. :8080")
	cmd.Flags().StringVar(&graphDB, "graph-db", "", "directory of a persisted reduction graph to serve")
	return cmd
}

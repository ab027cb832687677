package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewReductionMCPServer creates an MCP server with the reduction tools registered.
func NewReductionMCPServer(svc *ReductionService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "jreduce",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reduce",
		Description: "Reduce a Java source tree to what the given entrypoints need. Loads the source roots, marks reachable declarations, stubs or removes the rest and records every decision in the reduction graph.",
	}, svc.Reduce)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "why",
		Description: "Explain why a declaration was kept: returns its decision, the chains of declarations that made it reachable and a Mermaid diagram of them.",
	}, svc.Why)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_decls",
		Description: "Search declarations of the last reduction by qualified name substring. Optionally filter by kind and decision and limit results.",
	}, svc.QueryDecls)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stats",
		Description: "Return counts of files, declarations, edges and decisions in the reduction graph.",
	}, svc.Stats)

	return server
}

// RunMCPServerStdio runs the MCP server on stdio transport, blocking until
// stdin is closed or the context is cancelled.
func RunMCPServerStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunMCPServer starts an HTTP server exposing the reduction MCP tools.
func RunMCPServer(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

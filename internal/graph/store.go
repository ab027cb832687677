package graph

import (
	"context"
	"io"
)

// Store is the interface for the reduction graph backend.
// Implementations: KuzuStore (persistent), MemStore (default and testing).
type Store interface {
	io.Closer

	// Schema setup, called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// Write operations.
	AddFile(ctx context.Context, node FileNode) error
	AddDecl(ctx context.Context, node DeclNode) error
	AddEdge(ctx context.Context, edge Edge) error

	// Read operations.
	GetFile(ctx context.Context, path string) (*FileNode, error)
	GetDecl(ctx context.Context, id string) (*DeclNode, error)
	QueryDecls(ctx context.Context, query string, limit int) ([]DeclNode, error)
	GetAllEdges(ctx context.Context) ([]Edge, error)

	// Graph traversal over REACHES edges.
	GetDependencies(ctx context.Context, nodeID string, direction Direction, maxDepth int) ([]DependencyChain, error)

	// Stats.
	Stats(ctx context.Context) (*GraphStats, error)
}

// Direction controls dependency traversal direction.
type Direction string

const (
	DirectionUpstream   Direction = "upstream"   // what made this reachable?
	DirectionDownstream Direction = "downstream" // what does this make reachable?
)

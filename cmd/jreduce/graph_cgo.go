//go:build cgo

package main

import (
	"fmt"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/graph"
)

// openGraph opens the KuzuDB graph at dbPath, creating it when missing.
func openGraph(dbPath string) (graph.Store, error) {
	store, err := graph.NewKuzuFileStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open graph: %w", err)
	}
	return store, nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/config"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/graph"
)

// openExisting opens the graph persisted by an earlier reduce run. The flag
// value wins over the graphDB setting of cfg.
func openExisting(flagPath string, cfg *config.ProjectConfig) (graph.Store, error) {
	dbPath := flagPath
	if dbPath == "" {
		dbPath = cfg.GraphDB
	}
	if dbPath == "" {
		return nil, fmt.Errorf("no graph configured: pass --graph-db or set graphDB in jreduce.yml")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("no graph found at %s\nRun 'jreduce reduce --graph-db %s' first", dbPath, dbPath)
	}
	store, err := openGraph(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.InitSchema(context.Background()); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

//go:build !cgo

package main

import (
	"errors"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/graph"
)

func openGraph(string) (graph.Store, error) {
	return nil, errors.New("persistent graphs need KuzuDB, which requires a cgo build")
}

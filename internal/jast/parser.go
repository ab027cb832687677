package jast

import (
	"context"
	"fmt"
	"os"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

var javaLanguage = tree_sitter.NewLanguage(tree_sitter_java.Language())

// Parse parses Java source into an arena File. A new tree-sitter parser is
// created per call, so Parse is safe for concurrent use. Syntax errors do not
// fail the call; they set File.HasError.
func Parse(_ context.Context, path string, source []byte) (*File, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(javaLanguage); err != nil {
		return nil, fmt.Errorf("set language java: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	f := &File{
		Path:     path,
		Source:   source,
		HasError: root.HasError(),
	}

	cursor := root.Walk()
	defer cursor.Close()

	f.copyTree(cursor, NoNode)
	return f, nil
}

// ParseFile reads and parses the file at path.
func ParseFile(ctx context.Context, path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(ctx, path, source)
}

// copyTree appends the node under cursor and its subtree to the arena in
// pre-order and returns the new node's ID.
func (f *File) copyTree(cursor *tree_sitter.TreeCursor, parent NodeID) NodeID {
	node := cursor.Node()
	id := NodeID(len(f.Nodes))
	f.Nodes = append(f.Nodes, Node{
		Kind:   node.Kind(),
		Field:  cursor.FieldName(),
		Named:  node.IsNamed(),
		Parent: parent,
		Start:  uint32(node.StartByte()),
		End:    uint32(node.EndByte()),
		Row:    int(node.StartPosition().Row) + 1,
		EndRow: int(node.EndPosition().Row) + 1,
	})
	if node.IsError() || node.IsMissing() {
		f.HasError = true
		if f.errorRow == 0 {
			f.errorRow = f.Nodes[id].Row
		}
	}
	if parent != NoNode {
		f.Nodes[parent].Children = append(f.Nodes[parent].Children, id)
	}

	if cursor.GotoFirstChild() {
		f.copyTree(cursor, id)
		for cursor.GotoNextSibling() {
			f.copyTree(cursor, id)
		}
		cursor.GotoParent()
	}
	return id
}

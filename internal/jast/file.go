package jast

import (
	"strconv"
	"strings"
)

// NodeID is the pre-order index of a node inside its File arena. Because the
// arena is filled in a fixed traversal order, a NodeID is a structural
// position: parsing the same source twice yields the same IDs.
type NodeID int32

// NoNode marks an absent optional child.
const NoNode NodeID = -1

// Node is one syntax node stored in a File arena. Parent and Children are
// indices into the same arena, never pointers.
type Node struct {
	Kind     string
	Field    string // field name in the parent, "" when unnamed
	Named    bool
	Parent   NodeID
	Children []NodeID
	Start    uint32 // byte offset, inclusive
	End      uint32 // byte offset, exclusive
	Row      int    // 1-based start line
	EndRow   int    // 1-based end line
}

// File is a parsed compilation unit.
type File struct {
	Path     string // path as loaded (absolute or root-relative)
	Root     string // source root the file was loaded from, "" if unknown
	Source   []byte
	Nodes    []Node
	HasError bool

	errorRow int
}

// FirstErrorLine returns the 1-based line of the first syntax error or
// missing token, or 0 when the file parsed cleanly.
func (f *File) FirstErrorLine() int {
	switch {
	case f.errorRow > 0:
		return f.errorRow
	case f.HasError && len(f.Nodes) > 0:
		return f.Nodes[RootID].Row
	}
	return 0
}

// Ref identifies a node across files. It is the key of every side table
// (justifications, decisions, reassignment maps).
type Ref struct {
	File string
	Node NodeID
}

func (r Ref) String() string {
	return r.File + "#" + strconv.Itoa(int(r.Node))
}

// IsZero reports whether r is the zero Ref.
func (r Ref) IsZero() bool {
	return r.File == "" && r.Node == 0
}

// RootID is the ID of the program node.
const RootID NodeID = 0

// Ref returns the cross-file reference of id.
func (f *File) Ref(id NodeID) Ref {
	return Ref{File: f.Path, Node: id}
}

// Node returns the node with the given id.
func (f *File) Node(id NodeID) *Node {
	return &f.Nodes[id]
}

// Kind returns the kind of id, or "" for NoNode.
func (f *File) Kind(id NodeID) string {
	if id == NoNode {
		return ""
	}
	return f.Nodes[id].Kind
}

// Text returns the source text spanned by id.
func (f *File) Text(id NodeID) string {
	if id == NoNode {
		return ""
	}
	n := &f.Nodes[id]
	return string(f.Source[n.Start:n.End])
}

// Parent returns the parent of id, or NoNode for the root.
func (f *File) Parent(id NodeID) NodeID {
	if id == NoNode || id == RootID {
		return NoNode
	}
	return f.Nodes[id].Parent
}

// Child returns the first child of id attached under field, or NoNode.
func (f *File) Child(id NodeID, field string) NodeID {
	if id == NoNode {
		return NoNode
	}
	for _, c := range f.Nodes[id].Children {
		if f.Nodes[c].Field == field {
			return c
		}
	}
	return NoNode
}

// Fields returns every child of id attached under field.
func (f *File) Fields(id NodeID, field string) []NodeID {
	var out []NodeID
	for _, c := range f.Nodes[id].Children {
		if f.Nodes[c].Field == field {
			out = append(out, c)
		}
	}
	return out
}

// ChildOfKind returns the first direct child of id with one of the kinds.
func (f *File) ChildOfKind(id NodeID, kinds ...string) NodeID {
	if id == NoNode {
		return NoNode
	}
	for _, c := range f.Nodes[id].Children {
		for _, k := range kinds {
			if f.Nodes[c].Kind == k {
				return c
			}
		}
	}
	return NoNode
}

// ChildrenOfKind returns every direct child of id with one of the kinds.
func (f *File) ChildrenOfKind(id NodeID, kinds ...string) []NodeID {
	var out []NodeID
	for _, c := range f.Nodes[id].Children {
		for _, k := range kinds {
			if f.Nodes[c].Kind == k {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// NamedChildren returns the named, non-comment children of id.
func (f *File) NamedChildren(id NodeID) []NodeID {
	var out []NodeID
	for _, c := range f.Nodes[id].Children {
		n := &f.Nodes[c]
		if n.Named && !IsComment(n.Kind) {
			out = append(out, c)
		}
	}
	return out
}

// Ancestor returns the nearest strict ancestor of id with one of the kinds.
func (f *File) Ancestor(id NodeID, kinds ...string) NodeID {
	for p := f.Parent(id); p != NoNode; p = f.Parent(p) {
		for _, k := range kinds {
			if f.Nodes[p].Kind == k {
				return p
			}
		}
	}
	return NoNode
}

// Contains reports whether inner lies in the subtree rooted at outer.
func (f *File) Contains(outer, inner NodeID) bool {
	for p := inner; p != NoNode; p = f.Parent(p) {
		if p == outer {
			return true
		}
	}
	return false
}

// Walk visits the subtree rooted at id in pre-order. Returning false from fn
// skips the children of the visited node.
func (f *File) Walk(id NodeID, fn func(NodeID) bool) {
	if id == NoNode || !fn(id) {
		return
	}
	for _, c := range f.Nodes[id].Children {
		f.Walk(c, fn)
	}
}

// ASTPath renders the child-index path from the root to id, e.g. "0/3/1".
func (f *File) ASTPath(id NodeID) string {
	var idx []string
	for cur := id; cur != RootID && cur != NoNode; {
		p := f.Nodes[cur].Parent
		for i, c := range f.Nodes[p].Children {
			if c == cur {
				idx = append(idx, strconv.Itoa(i))
				break
			}
		}
		cur = p
	}
	var sb strings.Builder
	for i := len(idx) - 1; i >= 0; i-- {
		sb.WriteString(idx[i])
		if i > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// Lines returns the 1-based inclusive line range of id.
func (f *File) Lines(id NodeID) (int, int) {
	n := &f.Nodes[id]
	return n.Row, n.EndRow
}

// IsComment reports whether kind is a comment extra.
func IsComment(kind string) bool {
	return kind == "line_comment" || kind == "block_comment"
}

// Package sweep prints a compilation unit with its transform decisions
// applied.
package sweep

import (
	"bytes"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/decision"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// Stub is the statement that replaces dummied code.
const Stub = "throw new AssertionError();"

// Nodes printed verbatim even though the grammar gives them children.
var atomic = map[string]bool{
	"string_literal":    true,
	"text_block":        true,
	"character_literal": true,
}

type printer struct {
	f   *jast.File
	t   *decision.Table
	buf bytes.Buffer
}

// Sweep renders f with the decisions of t applied. Comments are dropped.
// The second result is false when no type declaration survives, in which
// case the file should not be written at all. Sweep does not modify f or t.
func Sweep(f *jast.File, t *decision.Table) ([]byte, bool) {
	p := &printer{f: f, t: t}
	kept := false
	for _, c := range f.Node(jast.RootID).Children {
		if symbols.IsTypeDecl(f.Kind(c)) && !p.removed(c) {
			kept = true
			break
		}
	}
	if !kept {
		return nil, false
	}
	p.node(jast.RootID)
	out := p.buf.Bytes()
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, true
}

func (p *printer) node(id jast.NodeID) {
	f := p.f
	n := f.Node(id)
	if p.t.Of(f.Ref(id)) == decision.Dummy {
		p.dummy(id)
		return
	}
	if len(n.Children) == 0 || atomic[n.Kind] {
		p.write(f.Source[n.Start:n.End])
		return
	}
	pos := p.children(id, jast.NoNode)
	p.write(f.Source[pos:n.End])
}

// children prints the children of id that precede stop, keeping the
// original whitespace between survivors. It returns the source offset the
// output has reached.
func (p *printer) children(id, stop jast.NodeID) uint32 {
	f := p.f
	n := f.Node(id)
	drop := p.dropped(id)
	pos := n.Start
	for _, c := range n.Children {
		if c == stop {
			break
		}
		cn := f.Node(c)
		if drop[c] {
			pos = cn.End
			continue
		}
		p.write(f.Source[pos:cn.Start])
		p.node(c)
		pos = cn.End
	}
	return pos
}

func (p *printer) dummy(id jast.NodeID) {
	f := p.f
	switch f.Kind(id) {
	case "method_declaration", "constructor_declaration", "compact_constructor_declaration":
		body := f.Child(id, "body")
		if body == jast.NoNode {
			pos := p.children(id, jast.NoNode)
			p.write(f.Source[pos:f.Node(id).End])
			return
		}
		pos := p.children(id, body)
		p.write(f.Source[pos:f.Node(body).Start])
		p.write([]byte("{ "))
		if inv := f.ChildOfKind(body, "explicit_constructor_invocation"); inv != jast.NoNode {
			p.node(inv)
			p.write([]byte(" "))
		}
		p.write([]byte(Stub + " }"))
	case "try_statement":
		p.node(f.Child(id, "body"))
	default:
		p.write([]byte("{ " + Stub + " }"))
	}
}

// removed reports whether child c disappears from the output.
func (p *printer) removed(c jast.NodeID) bool {
	f := p.f
	kind := f.Kind(c)
	if jast.IsComment(kind) || p.t.Of(f.Ref(c)) == decision.Remove {
		return true
	}
	switch kind {
	case "field_declaration", "constant_declaration":
		decls := f.ChildrenOfKind(c, "variable_declarator")
		if len(decls) == 0 {
			return false
		}
		for _, d := range decls {
			if p.t.Of(f.Ref(d)) != decision.Remove {
				return false
			}
		}
		return true
	}
	return false
}

// dropped returns the children of id to omit: removed ones plus one comma
// per removed list element, so that separated lists stay well formed.
func (p *printer) dropped(id jast.NodeID) map[jast.NodeID]bool {
	f := p.f
	kids := f.Node(id).Children
	var drop map[jast.NodeID]bool
	for _, c := range kids {
		if p.removed(c) {
			if drop == nil {
				drop = map[jast.NodeID]bool{}
			}
			drop[c] = true
		}
	}
	if drop == nil {
		return nil
	}
	isComma := func(c jast.NodeID) bool { return f.Kind(c) == "," }
	for i, c := range kids {
		if !drop[c] || isComma(c) || jast.IsComment(f.Kind(c)) {
			continue
		}
		next := -1
		for j := i + 1; j < len(kids); j++ {
			if !jast.IsComment(f.Kind(kids[j])) {
				next = j
				break
			}
		}
		if next >= 0 && isComma(kids[next]) && !drop[kids[next]] {
			drop[kids[next]] = true
			continue
		}
		for j := i - 1; j >= 0; j-- {
			k := kids[j]
			if drop[k] || jast.IsComment(f.Kind(k)) {
				continue
			}
			if isComma(k) {
				drop[k] = true
			}
			break
		}
	}
	return drop
}

func identByte(b byte) bool {
	return b == '_' || b == '$' || b >= 0x80 ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// write appends s, separating it from the previous output when dropping a
// comment would otherwise glue two tokens together.
func (p *printer) write(s []byte) {
	if len(s) == 0 {
		return
	}
	if b := p.buf.Bytes(); len(b) > 0 && identByte(b[len(b)-1]) && identByte(s[0]) {
		p.buf.WriteByte(' ')
	}
	p.buf.Write(s)
}

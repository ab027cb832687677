package decision

import (
	"context"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/coverage"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
)

var statementContainers = map[string]bool{
	"block":                        true,
	"constructor_body":             true,
	"switch_block_statement_group": true,
}

// TagUncovered records the statement-level decisions a coverage oracle
// allows: branches whose known lines never ran become Dummy, and
// statements that can only run after an abrupt completion and never ran
// are removed with everything after them in their block.
func TagUncovered(ctx context.Context, c *analysis.Context, oracle coverage.Oracle, t *Table) error {
	for _, path := range c.Paths() {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := c.File(path)
		u := &uncovered{f: f, oracle: oracle, t: t}
		if err := u.branches(); err != nil {
			return err
		}
		if err := u.tails(); err != nil {
			return err
		}
	}
	return nil
}

type uncovered struct {
	f      *jast.File
	oracle coverage.Oracle
	t      *Table
}

// neverRan reports whether every line of id the oracle knows about is
// uncovered, with at least one known line. Block braces are ignored since
// they share lines with the code around them.
func (u *uncovered) neverRan(id jast.NodeID) bool {
	f := u.f
	regions := []jast.NodeID{id}
	if f.Kind(id) == "block" {
		regions = f.NamedChildren(id)
	}
	known := false
	for _, r := range regions {
		if jast.IsComment(f.Kind(r)) {
			continue
		}
		from, to := f.Lines(r)
		for l := from; l <= to; l++ {
			switch u.oracle.Line(f.Path, l) {
			case coverage.Covered:
				return false
			case coverage.Uncovered:
				known = true
			}
		}
	}
	return known
}

func (u *uncovered) branches() error {
	f := u.f
	var ifs []jast.NodeID
	f.Walk(jast.RootID, func(id jast.NodeID) bool {
		if f.Kind(id) == "if_statement" {
			ifs = append(ifs, id)
		}
		return true
	})
	for _, id := range ifs {
		for _, field := range []string{"consequence", "alternative"} {
			br := f.Child(id, field)
			if br == jast.NoNode || f.Kind(br) == "if_statement" {
				continue
			}
			if u.t.Shadowed(f, br) || !u.neverRan(br) {
				continue
			}
			if err := u.t.Set(f.Ref(br), Dummy); err != nil {
				return err
			}
		}
	}
	return nil
}

func (u *uncovered) tails() error {
	f := u.f
	var blocks []jast.NodeID
	f.Walk(jast.RootID, func(id jast.NodeID) bool {
		if statementContainers[f.Kind(id)] {
			blocks = append(blocks, id)
		}
		return true
	})
	for _, b := range blocks {
		stmts := statements(f, b)
		for i := 0; i+1 < len(stmts); i++ {
			if !u.abrupt(stmts[i]) || !u.neverRan(stmts[i+1]) {
				continue
			}
			for _, s := range stmts[i+1:] {
				if u.t.Shadowed(f, s) {
					continue
				}
				if err := u.t.Set(f.Ref(s), Remove); err != nil {
					return err
				}
			}
			break
		}
	}
	return nil
}

// statements returns the statement children of a block-like node.
func statements(f *jast.File, b jast.NodeID) []jast.NodeID {
	var out []jast.NodeID
	for _, ch := range f.NamedChildren(b) {
		switch k := f.Kind(ch); {
		case jast.IsComment(k), k == "switch_label", k == "explicit_constructor_invocation":
			continue
		}
		out = append(out, ch)
	}
	return out
}

// abrupt reports whether statement id cannot complete normally once the
// recorded decisions are applied.
func (u *uncovered) abrupt(id jast.NodeID) bool {
	f := u.f
	if u.t.Of(f.Ref(id)) == Dummy {
		return true
	}
	switch f.Kind(id) {
	case "return_statement", "throw_statement", "break_statement", "continue_statement", "yield_statement":
		return true
	case "if_statement":
		cons, alt := f.Child(id, "consequence"), f.Child(id, "alternative")
		return cons != jast.NoNode && alt != jast.NoNode && u.abrupt(cons) && u.abrupt(alt)
	case "block":
		stmts := statements(f, id)
		return len(stmts) > 0 && u.abrupt(stmts[len(stmts)-1])
	}
	return false
}

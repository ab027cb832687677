package decision

import (
	"context"
	"fmt"
	"sort"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/mark"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

type pending struct {
	ref jast.Ref
	d   Decision
}

// Decide derives decisions for every declaration, import and catch clause
// of the context from a marking result and records them in t. Nodes inside
// a region that already has a Dummy or Remove decision are left alone.
func Decide(ctx context.Context, c *analysis.Context, res *mark.Result, t *Table) error {
	reg := c.Registry()
	var out []pending
	add := func(f *jast.File, id jast.NodeID, d Decision) {
		out = append(out, pending{ref: f.Ref(id), d: d})
	}

	for _, d := range reg.Decls() {
		f := d.File()
		lvl := res.Level(d)
		switch d := d.(type) {
		case *symbols.Type:
			if d.Kind == symbols.KindAnonymous || d.Kind == symbols.KindEnumConstantBody {
				continue
			}
			switch lvl {
			case mark.Full:
				add(f, d.Node(), Keep)
			case mark.Shallow:
				add(f, d.Node(), Keep)
				for _, cl := range d.Clauses {
					add(f, cl, Remove)
				}
			default:
				add(f, d.Node(), Remove)
			}
		case *symbols.Method:
			switch {
			case lvl == mark.Full:
				add(f, d.Node(), Keep)
			case lvl == mark.Shallow && d.Body == jast.NoNode:
				add(f, d.Node(), Keep)
			case lvl == mark.Shallow:
				add(f, d.Node(), Dummy)
			default:
				add(f, d.Node(), Remove)
			}
		case *symbols.Field:
			switch {
			case d.Component && res.Reachable(d.Owner()):
				add(f, d.Node(), Keep)
			case lvl != mark.None:
				add(f, d.Node(), Keep)
			default:
				add(f, d.Node(), Remove)
			}
		case *symbols.EnumConstant, *symbols.Initializer:
			if lvl != mark.None {
				add(f, d.Node(), Keep)
			} else {
				add(f, d.Node(), Remove)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, u := range reg.Units() {
		for _, imp := range u.Imports {
			if !res.Justified(u.File.Ref(imp.Node)) {
				add(u.File, imp.Node, Remove)
			}
		}
	}

	for _, path := range c.Paths() {
		f := c.File(path)
		removed := map[jast.NodeID]bool{}
		var tries []jast.NodeID
		f.Walk(jast.RootID, func(id jast.NodeID) bool {
			switch f.Kind(id) {
			case "catch_clause":
				if keptCode(res, reg.EnclosingDecl(f, id)) && !res.Justified(f.Ref(id)) {
					add(f, id, Remove)
					removed[id] = true
				}
			case "try_statement":
				tries = append(tries, id)
			}
			return true
		})
		for _, try := range tries {
			if emptiedTry(f, try, removed) {
				add(f, try, Dummy)
			}
		}
	}

	return apply(c, t, out)
}

// keptCode reports whether the code of d survives as written.
func keptCode(res *mark.Result, d symbols.Decl) bool {
	if d == nil {
		return false
	}
	if _, ok := d.(*symbols.Method); ok {
		return res.Level(d) == mark.Full
	}
	return res.Reachable(d)
}

// emptiedTry reports whether every catch clause of a plain try statement
// without finally is being removed.
func emptiedTry(f *jast.File, try jast.NodeID, removed map[jast.NodeID]bool) bool {
	if f.ChildOfKind(try, "finally_clause") != jast.NoNode {
		return false
	}
	catches := f.ChildrenOfKind(try, "catch_clause")
	if len(catches) == 0 {
		return false
	}
	for _, c := range catches {
		if !removed[c] {
			return false
		}
	}
	return true
}

// apply writes the pending decisions in tree order, skipping the ones
// shadowed by a pending or recorded ancestor decision.
func apply(c *analysis.Context, t *Table, out []pending) error {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ref.File != out[j].ref.File {
			return out[i].ref.File < out[j].ref.File
		}
		return out[i].ref.Node < out[j].ref.Node
	})
	pendingOf := make(map[jast.Ref]Decision, len(out))
	for _, p := range out {
		if p.d != Keep {
			pendingOf[p.ref] = p.d
		}
	}
	for _, p := range out {
		f := c.File(p.ref.File)
		if f == nil {
			return fmt.Errorf("decide: unknown file %s", p.ref.File)
		}
		if t.Shadowed(f, p.ref.Node) {
			continue
		}
		shadowed := false
		for a := f.Parent(p.ref.Node); a != jast.NoNode; a = f.Parent(a) {
			if _, ok := pendingOf[f.Ref(a)]; ok {
				shadowed = true
				break
			}
		}
		if shadowed {
			continue
		}
		if err := t.Set(p.ref, p.d); err != nil {
			return err
		}
	}
	return nil
}

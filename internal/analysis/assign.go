package analysis

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/resolve"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// Assignment is a plain "=" assignment to a variable.
type Assignment struct {
	File *jast.File
	// Node is the assignment_expression.
	Node jast.NodeID
}

// RHS returns the assigned expression.
func (a Assignment) RHS() jast.NodeID { return a.File.Child(a.Node, "right") }

type assignHit struct {
	key jast.Ref
	a   Assignment
}

// scanAssignments indexes every plain assignment in the tree by the
// declaring node of its target.
func (c *Context) scanAssignments() {
	c.assignOnce.Do(func() {
		paths := c.Paths()
		hits := make([][]assignHit, len(paths))
		g, _ := errgroup.WithContext(context.Background())
		g.SetLimit(c.opts.concurrency())
		for i, p := range paths {
			g.Go(func() error {
				hits[i] = c.assignmentsIn(c.files[p])
				return nil
			})
		}
		_ = g.Wait()

		c.assigns = map[jast.Ref][]Assignment{}
		for _, hs := range hits {
			for _, h := range hs {
				c.assigns[h.key] = append(c.assigns[h.key], h.a)
			}
		}
	})
}

func (c *Context) assignmentsIn(f *jast.File) []assignHit {
	var out []assignHit
	f.Walk(jast.RootID, func(id jast.NodeID) bool {
		if f.Kind(id) != "assignment_expression" || f.Text(f.Child(id, "operator")) != "=" {
			return true
		}
		left := f.Child(id, "left")
		var r resolve.Resolved
		var err error
		switch f.Kind(left) {
		case "identifier":
			r, err = c.solver.ResolveName(f, left)
		case "field_access":
			r, err = c.solver.ResolveFieldAccess(f, left)
		default:
			return true
		}
		if err != nil {
			return true
		}
		if key, ok := variableKey(r); ok {
			out = append(out, assignHit{key: key, a: Assignment{File: f, Node: id}})
		}
		return true
	})
	return out
}

func variableKey(r resolve.Resolved) (jast.Ref, bool) {
	switch {
	case r.Var != nil:
		return r.Var.File().Ref(r.Var.Node()), true
	case r.Kind == resolve.KindField && r.Decl != nil:
		return r.Decl.Ref(), true
	}
	return jast.Ref{}, false
}

// Reassignments returns the plain assignments to v in source order.
func (c *Context) Reassignments(v symbols.Variable) []Assignment {
	c.scanAssignments()
	return c.assigns[v.File().Ref(v.Node())]
}

// AssignedTypesOf returns the static types of the values v may hold: its
// initializer and every reassignment. A final variable yields only its
// initializer. A for-each variable yields its element type reconciled with
// the declared type.
func (c *Context) AssignedTypesOf(v symbols.Variable) []jtypes.Type {
	var out []jtypes.Type
	seen := map[string]bool{}
	add := func(t jtypes.Type) {
		if t == nil || seen[t.String()] {
			return
		}
		seen[t.String()] = true
		out = append(out, t)
	}

	f := v.File()
	if fe, ok := v.(*symbols.ForEachVar); ok {
		add(c.forEachType(fe))
	} else if init := v.Init(); init != jast.NoNode {
		if t, err := c.solver.TypeOf(f, init); err == nil {
			add(t)
		}
	}
	if !v.Final() {
		for _, a := range c.Reassignments(v) {
			if t, err := c.solver.TypeOf(a.File, a.RHS()); err == nil {
				add(t)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (c *Context) forEachType(v *symbols.ForEachVar) jtypes.Type {
	f := v.File()
	it, err := c.solver.TypeOf(f, v.Iterable)
	if err != nil {
		return nil
	}
	elem := c.solver.ElementType(it)
	if v.TypeNode() == jast.NoNode || f.Text(v.TypeNode()) == "var" {
		return elem
	}
	declared, err := c.solver.ResolveTypeNode(f, v.TypeNode())
	if err != nil {
		return elem
	}
	alg := c.solver.Algebra()
	switch {
	case alg.IsAssignable(elem, declared):
		return declared
	case alg.IsAssignable(declared, elem):
		return elem
	default:
		return declared
	}
}

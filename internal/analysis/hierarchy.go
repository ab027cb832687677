package analysis

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/resolve"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// Descendant maps are kept per declaration shape and merged on query.
const (
	descNamed = iota
	descAnonymous
	descEnumConstant
	numDescKinds
)

func descKind(t *symbols.Type) int {
	switch t.Kind {
	case symbols.KindAnonymous:
		return descAnonymous
	case symbols.KindEnumConstantBody:
		return descEnumConstant
	default:
		return descNamed
	}
}

// buildHierarchy inverts the supertype relation. Transitive ancestor sets
// are warmed in parallel on the way.
func (c *Context) buildHierarchy() {
	c.hierOnce.Do(func() {
		types := c.registry.Types()
		supers := make([][]jtypes.Reference, len(types))
		g, _ := errgroup.WithContext(context.Background())
		g.SetLimit(c.opts.concurrency())
		for i, t := range types {
			g.Go(func() error {
				supers[i] = c.solver.Supertypes(t.QName())
				c.solver.Ancestors(t.QName())
				return nil
			})
		}
		_ = g.Wait()

		for k := range c.subs {
			c.subs[k] = map[string][]*symbols.Type{}
		}
		for i, t := range types {
			m := c.subs[descKind(t)]
			for _, sup := range supers[i] {
				m[sup.Name] = append(m[sup.Name], t)
			}
		}
	})
}

func (c *Context) directSubtypes(name string) []*symbols.Type {
	c.buildHierarchy()
	var out []*symbols.Type
	for _, m := range c.subs {
		out = append(out, m[name]...)
	}
	return out
}

// AncestorsOf returns the supertypes of t with t's type arguments carried
// through, nearest first. direct limits the result to declared supertypes.
func (c *Context) AncestorsOf(t jtypes.Reference, direct bool) []jtypes.Reference {
	var names []string
	if direct {
		for _, s := range c.solver.Supertypes(t.Name) {
			names = append(names, s.Name)
		}
	} else {
		for _, a := range c.solver.Ancestors(t.Name) {
			names = append(names, a.Name)
		}
	}
	out := make([]jtypes.Reference, 0, len(names))
	for _, n := range names {
		if r, ok := c.solver.AsSuper(t, n); ok {
			out = append(out, r)
		} else {
			out = append(out, jtypes.Reference{Name: n})
		}
	}
	return out
}

// DescendantsOf returns the in-tree subtypes of t, including anonymous
// classes and enum constant bodies, ordered by qualified name.
func (c *Context) DescendantsOf(t jtypes.Reference, direct bool) []*symbols.Type {
	seen := map[*symbols.Type]bool{}
	var out []*symbols.Type
	frontier := []string{t.Name}
	for len(frontier) > 0 {
		var next []string
		for _, n := range frontier {
			for _, sub := range c.directSubtypes(n) {
				if seen[sub] {
					continue
				}
				seen[sub] = true
				out = append(out, sub)
				next = append(next, sub.QName())
			}
		}
		if direct {
			break
		}
		frontier = next
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QName() < out[j].QName() })
	return out
}

// OverriddenMethods returns the methods m overrides, nearest ancestor first.
// With stopAtAbstract the ascent ends at the first abstract declaration
// found. Static and private methods and constructors yield nothing.
func (c *Context) OverriddenMethods(m *symbols.Method, stopAtAbstract bool) []resolve.Resolved {
	if !m.Overridable() {
		return nil
	}
	var out []resolve.Resolved
	for _, a := range c.solver.Ancestors(m.Owner().QName()) {
		found := c.solver.OverriddenIn(m, a.Name)
		out = append(out, found...)
		if !stopAtAbstract {
			continue
		}
		for _, r := range found {
			if r.Abstract() {
				return out
			}
		}
	}
	return out
}

type overrideQuery struct {
	method      symbols.DeclID
	stopAtFirst bool
}

// OverridingMethods returns the in-tree methods overriding m in subtypes of
// its owner, ordered by owner. With stopAtFirst the descent does not look
// below a type that overrides m.
func (c *Context) OverridingMethods(m *symbols.Method, stopAtFirst bool) []*symbols.Method {
	if !m.Overridable() {
		return nil
	}
	out, _ := c.overriding.Get(overrideQuery{method: m.ID(), stopAtFirst: stopAtFirst}, func() ([]*symbols.Method, error) {
		return c.overridingMethods(m, stopAtFirst), nil
	})
	return out
}

func (c *Context) overridingMethods(m *symbols.Method, stopAtFirst bool) []*symbols.Method {
	seen := map[*symbols.Type]bool{}
	var out []*symbols.Method
	frontier := c.directSubtypes(m.Owner().QName())
	for len(frontier) > 0 {
		var next []*symbols.Type
		for _, t := range frontier {
			if seen[t] {
				continue
			}
			seen[t] = true
			overrides := false
			for _, dm := range t.MethodsNamed(m.Name()) {
				if c.solver.Overrides(dm, m) {
					out = append(out, dm)
					overrides = true
				}
			}
			if overrides && stopAtFirst {
				continue
			}
			next = append(next, c.directSubtypes(t.QName())...)
		}
		frontier = next
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QName() < out[j].QName() })
	return out
}

// IsInherited reports whether t dispatches m's signature to m itself: t is
// a proper subtype of m's owner and neither t nor any type between them
// declares an override.
func (c *Context) IsInherited(t *symbols.Type, m *symbols.Method) bool {
	owner := m.Owner()
	if t == owner || m.Ctor || m.Modifiers.Private || !c.solver.IsSubtype(t.QName(), owner.QName()) {
		return false
	}
	if m.IsStatic() {
		return true
	}
	between := []*symbols.Type{t}
	for _, a := range c.solver.Ancestors(t.QName()) {
		if a.Name == owner.QName() {
			continue
		}
		if at := c.registry.Type(a.Name); at != nil && c.solver.IsSubtype(a.Name, owner.QName()) {
			between = append(between, at)
		}
	}
	for _, bt := range between {
		for _, dm := range bt.MethodsNamed(m.Name()) {
			if c.solver.Overrides(dm, m) {
				return false
			}
		}
	}
	return true
}

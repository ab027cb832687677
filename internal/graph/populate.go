package graph

import (
	"context"
	"fmt"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/decision"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/mark"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/reducer"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// Record initializes store and fills it with the decisions of the last pass
// of rep.
func Record(ctx context.Context, store Store, rep *reducer.Report) error {
	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	r := rep.Reducer
	if err := Populate(ctx, store, r.Context(), r.Result(), r.Decisions()); err != nil {
		return fmt.Errorf("populate graph: %w", err)
	}
	return nil
}

// Populate records a finished reduction in store: one node per file and
// declaration, membership and supertype edges, and a REACHES edge for
// every justification whose site lies inside another declaration.
func Populate(ctx context.Context, store Store, c *analysis.Context, res *mark.Result, t *decision.Table) error {
	reg := c.Registry()
	perFile := map[string]int{}
	keptFile := map[string]bool{}

	for _, d := range reg.Decls() {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := d.File()
		start, end := f.Lines(d.Node())
		dec := Effective(t, f, d.Node())
		node := DeclNode{
			ID:        d.QName(),
			Name:      d.Name(),
			Kind:      declKind(d),
			FilePath:  f.Path,
			StartLine: start,
			EndLine:   end,
			Level:     res.Level(d).String(),
			Decision:  dec.String(),
		}
		for _, r := range res.Reasons(d.Ref()) {
			if mark.Site(r) == (jast.Ref{}) {
				node.Seed = r.String()
				break
			}
		}
		if err := store.AddDecl(ctx, node); err != nil {
			return fmt.Errorf("add decl %s: %w", node.ID, err)
		}
		perFile[f.Path]++
		if ty, ok := d.(*symbols.Type); ok && ty.Owner() == nil && ty.Enclosing == jast.NoNode && dec != decision.Remove {
			keptFile[f.Path] = true
		}
	}

	for _, path := range c.Paths() {
		node := FileNode{Path: path, Kept: keptFile[path], Decls: perFile[path]}
		if err := store.AddFile(ctx, node); err != nil {
			return fmt.Errorf("add file %s: %w", path, err)
		}
	}

	for _, d := range reg.Decls() {
		for _, e := range edgesOf(c, res, d) {
			if err := store.AddEdge(ctx, e); err != nil {
				return fmt.Errorf("add %s edge %s -> %s: %w", e.Kind, e.SourceID, e.TargetID, err)
			}
		}
	}
	return nil
}

func edgesOf(c *analysis.Context, res *mark.Result, d symbols.Decl) []Edge {
	reg := c.Registry()
	var out []Edge
	if owner := d.Owner(); owner != nil {
		out = append(out, Edge{SourceID: d.QName(), TargetID: owner.QName(), Kind: EdgeKindMemberOf})
	} else {
		out = append(out, Edge{SourceID: d.File().Path, TargetID: d.QName(), Kind: EdgeKindDeclares})
	}
	if t, ok := d.(*symbols.Type); ok {
		for _, sup := range c.Solver().Supertypes(t.QName()) {
			if reg.Type(sup.Name) != nil {
				out = append(out, Edge{SourceID: t.QName(), TargetID: sup.Name, Kind: EdgeKindExtends})
			}
		}
	}
	seen := map[string]bool{}
	for _, r := range res.Reasons(d.Ref()) {
		site := mark.Site(r)
		if site == (jast.Ref{}) {
			continue
		}
		u := reg.Unit(site.File)
		if u == nil {
			continue
		}
		from := reg.EnclosingDecl(u.File, site.Node)
		if from == nil {
			if t := reg.EnclosingType(u.File, site.Node); t != nil {
				from = t
			}
		}
		if from == nil || from.QName() == d.QName() {
			continue
		}
		key := from.QName() + "\x00" + mark.Kind(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Edge{SourceID: from.QName(), TargetID: d.QName(), Kind: EdgeKindReaches, Reason: mark.Kind(r)})
	}
	return out
}

// Effective is the decision that applies to a node once the decisions of
// its ancestors are taken into account: anything inside a removed or
// stubbed region is gone.
func Effective(t *decision.Table, f *jast.File, id jast.NodeID) decision.Decision {
	if d := t.Of(f.Ref(id)); d != decision.Keep {
		return d
	}
	if t.Shadowed(f, id) {
		return decision.Remove
	}
	return decision.Keep
}

func declKind(d symbols.Decl) DeclKind {
	switch d := d.(type) {
	case *symbols.Type:
		switch d.Kind {
		case symbols.KindInterface:
			return DeclKindInterface
		case symbols.KindEnum:
			return DeclKindEnum
		case symbols.KindRecord:
			return DeclKindRecord
		case symbols.KindAnnotation:
			return DeclKindAnnotation
		case symbols.KindAnonymous, symbols.KindEnumConstantBody:
			return DeclKindAnonymous
		}
		return DeclKindClass
	case *symbols.Method:
		if d.Ctor {
			return DeclKindConstructor
		}
		return DeclKindMethod
	case *symbols.Field:
		return DeclKindField
	case *symbols.EnumConstant:
		return DeclKindEnumConstant
	case *symbols.Initializer:
		return DeclKindInitializer
	}
	panic(fmt.Sprintf("graph: unhandled declaration %T", d))
}

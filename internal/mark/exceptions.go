package mark

import (
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/resolve"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// thrown is the set of exception types a region may throw. When any is
// set the set is unknown and anySite is the first node that made it so.
type thrown struct {
	types   []jtypes.Reference
	sites   []jast.NodeID
	any     bool
	anySite jast.NodeID
}

func (t *thrown) add(ty jtypes.Type, site jast.NodeID) {
	ref, ok := ty.(jtypes.Reference)
	if !ok {
		t.unknown(site)
		return
	}
	t.types = append(t.types, ref)
	t.sites = append(t.sites, site)
}

func (t *thrown) unknown(site jast.NodeID) {
	if !t.any {
		t.any, t.anySite = true, site
	}
}

func (t *thrown) merge(o thrown) {
	t.types = append(t.types, o.types...)
	t.sites = append(t.sites, o.sites...)
	if o.any {
		t.unknown(o.anySite)
	}
}

// thrownBy computes what the body and resources of a try statement throw.
func (e *Engine) thrownBy(f *jast.File, try jast.NodeID) thrown {
	var th thrown
	if res := f.Child(try, "resources"); res != jast.NoNode {
		th.unknown(res)
	}
	th.merge(e.throwsIn(f, f.Child(try, "body")))
	return th
}

func (e *Engine) throwsIn(f *jast.File, region jast.NodeID) thrown {
	var th thrown
	if region == jast.NoNode {
		return th
	}
	sv := e.c.Solver()
	callable := func(res resolve.CallResult, err error, site jast.NodeID) {
		if err != nil {
			th.unknown(site)
			return
		}
		for _, m := range res.Methods {
			ts, ok := sv.ThrownTypes(m)
			if !ok {
				th.unknown(site)
				continue
			}
			for _, t := range ts {
				th.add(t, site)
			}
		}
	}
	f.Walk(region, func(id jast.NodeID) bool {
		if e.skipped(f, id) {
			return false
		}
		kind := f.Kind(id)
		switch {
		case kind == "lambda_expression", kind == "class_body", symbols.IsTypeDecl(kind):
			return false
		case id != region && (kind == "try_statement" || kind == "try_with_resources_statement"):
			th.merge(e.nestedTry(f, id))
			return false
		}
		switch kind {
		case "method_invocation":
			res, err := sv.ResolveCall(f, id)
			callable(res, err, id)
		case "object_creation_expression", "explicit_constructor_invocation":
			res, err := sv.ResolveCtor(f, id)
			callable(res, err, id)
		case "throw_statement":
			named := f.NamedChildren(id)
			if len(named) == 0 {
				break
			}
			t, err := sv.TypeOf(f, named[0])
			if err != nil {
				th.unknown(id)
			} else {
				th.add(t, id)
			}
		}
		return true
	})
	return th
}

// nestedTry is what escapes a try statement: the throws of its body that no
// catch covers plus whatever its catch and finally blocks throw.
func (e *Engine) nestedTry(f *jast.File, try jast.NodeID) thrown {
	inner := e.thrownBy(f, try)
	var caught []jtypes.Reference
	catchAll := false
	for _, c := range f.ChildrenOfKind(try, "catch_clause") {
		types, ok := e.catchTypes(f, c)
		if !ok {
			catchAll = true
		}
		caught = append(caught, types...)
	}
	var out thrown
	if inner.any && !catchAll {
		out.unknown(inner.anySite)
	}
	if !catchAll {
		for i, t := range inner.types {
			covered := false
			for _, c := range caught {
				if e.subtype(t.Name, c.Name) {
					covered = true
					break
				}
			}
			if !covered {
				out.types = append(out.types, t)
				out.sites = append(out.sites, inner.sites[i])
			}
		}
	}
	for _, c := range f.ChildrenOfKind(try, "catch_clause") {
		out.merge(e.throwsIn(f, f.Child(c, "body")))
	}
	if fin := f.ChildOfKind(try, "finally_clause"); fin != jast.NoNode {
		out.merge(e.throwsIn(f, fin))
	}
	return out
}

// catchTypes resolves the types a catch clause names. ok is false when one
// of them does not resolve.
func (e *Engine) catchTypes(f *jast.File, clause jast.NodeID) ([]jtypes.Reference, bool) {
	param := f.ChildOfKind(clause, "catch_formal_parameter")
	ct := f.ChildOfKind(param, "catch_type")
	if ct == jast.NoNode {
		return nil, false
	}
	var out []jtypes.Reference
	for _, n := range f.NamedChildren(ct) {
		t, err := e.c.Solver().ResolveTypeNode(f, n)
		if err != nil {
			return nil, false
		}
		ref, ok := t.(jtypes.Reference)
		if !ok {
			return nil, false
		}
		out = append(out, ref)
	}
	return out, len(out) > 0
}

func (e *Engine) subtype(sub, sup string) bool {
	return sub == sup || e.c.Solver().IsSubtype(sub, sup)
}

var alwaysCatchable = map[string]bool{
	"java.lang.Exception": true,
	"java.lang.Throwable": true,
}

// catchSite decides whether a catch clause can catch anything th contains
// and returns the node that justifies it.
func (e *Engine) catchSite(f *jast.File, clause jast.NodeID, th thrown) (jast.NodeID, bool) {
	types, ok := e.catchTypes(f, clause)
	if !ok {
		return clause, true
	}
	for _, c := range types {
		if alwaysCatchable[c.Name] || e.subtype(c.Name, "java.lang.RuntimeException") || e.subtype(c.Name, "java.lang.Error") {
			return clause, true
		}
	}
	if th.any {
		return th.anySite, true
	}
	for i, t := range th.types {
		for _, c := range types {
			if e.subtype(t.Name, c.Name) || e.subtype(c.Name, t.Name) {
				return th.sites[i], true
			}
		}
	}
	return jast.NoNode, false
}

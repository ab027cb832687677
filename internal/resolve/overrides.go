package resolve

import (
	"strconv"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// Abstract reports whether r is a callable without an implementation.
func (r Resolved) Abstract() bool {
	if m, ok := r.Decl.(*symbols.Method); ok {
		return m.IsAbstract()
	}
	return r.lib != nil && r.lib.Abstract
}

// overrideKey renders parameter types for override matching. Class type
// variables compare by name, method type variables by position, everything
// else by erasure.
func overrideKey(params []jtypes.Type, methodTPs []string) []string {
	pos := make(map[string]int, len(methodTPs))
	for i, n := range methodTPs {
		pos[n] = i
	}
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = keyOf(p, pos)
	}
	return out
}

func keyOf(t jtypes.Type, pos map[string]int) string {
	switch t := t.(type) {
	case nil:
		return "?"
	case jtypes.TypeVariable:
		if i, ok := pos[t.Name]; ok {
			return "#" + strconv.Itoa(i)
		}
		return "'" + t.Name
	case jtypes.Array:
		return keyOf(t.Elem, pos) + "[]"
	}
	return jtypes.Erase(t).String()
}

func keysMatch(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] && a[i] != "?" && b[i] != "?" {
			return false
		}
	}
	return true
}

// OverriddenIn returns the methods declared directly in ancestor that m
// overrides. Static, private and constructor declarations never take part.
func (s *Solver) OverriddenIn(m *symbols.Method, ancestor string) []Resolved {
	if !m.Overridable() {
		return nil
	}
	sup, ok := s.AsSuper(s.selfType(m.Owner()), ancestor)
	if !ok {
		return nil
	}
	tr, ok := s.P.Lookup(ancestor)
	if !ok {
		return nil
	}
	subst := s.bindings(sup)
	self := candidate{m: m, owner: m.Owner().QName()}
	mine := overrideKey(s.params(self), self.typeParams())

	var cands []candidate
	if tr.Tree != nil {
		for _, am := range tr.Tree.MethodsNamed(m.Name()) {
			if am != m && am.Overridable() {
				cands = append(cands, candidate{m: am, owner: ancestor, subst: subst})
			}
		}
	} else {
		for _, lm := range tr.Lib.Methods {
			if lm.Name == m.Name() && !lm.Static {
				cands = append(cands, candidate{lm: lm, owner: ancestor, subst: subst})
			}
		}
	}
	var out []Resolved
	for _, c := range cands {
		if c.arity() != len(mine) {
			continue
		}
		if keysMatch(mine, overrideKey(s.params(c), c.typeParams())) {
			out = append(out, s.candidateResolved(c, nil, false))
		}
	}
	return out
}

// InheritedImplementation returns the method t dispatches target to when t
// does not declare one itself: the first match along t's in-tree superclass
// chain, even if that superclass does not subtype target's owner. It returns
// nil when t declares its own override, when the chain reaches target's owner
// or when nothing matches.
func (s *Solver) InheritedImplementation(t *symbols.Type, target *symbols.Method) *symbols.Method {
	if !target.Overridable() || t.IsInterface() {
		return nil
	}
	self := s.selfType(t)
	tsup, ok := s.AsSuper(self, target.Owner().QName())
	if !ok {
		return nil
	}
	want := candidate{m: target, owner: target.Owner().QName(), subst: s.bindings(tsup)}
	wantKey := overrideKey(s.params(want), want.typeParams())

	seen := map[*symbols.Type]bool{}
	for cls := t; cls != nil && !seen[cls]; cls = s.superclass(cls) {
		seen[cls] = true
		if cls == target.Owner() {
			return nil
		}
		csup, ok := s.AsSuper(self, cls.QName())
		if !ok {
			return nil
		}
		subst := s.bindings(csup)
		for _, cm := range cls.MethodsNamed(target.Name()) {
			if !cm.Overridable() || cm.Arity() != target.Arity() {
				continue
			}
			c := candidate{m: cm, owner: cls.QName(), subst: subst}
			if keysMatch(wantKey, overrideKey(s.params(c), c.typeParams())) {
				if cls == t {
					return nil
				}
				return cm
			}
		}
	}
	return nil
}

// superclass returns the in-tree class t directly extends, or nil.
func (s *Solver) superclass(t *symbols.Type) *symbols.Type {
	for _, sup := range s.Supertypes(t.QName()) {
		if st := s.P.Registry.Type(sup.Name); st != nil && !st.IsInterface() {
			return st
		}
	}
	return nil
}

// Overrides reports whether m overrides target, which must be declared in
// one of m's proper supertypes.
func (s *Solver) Overrides(m, target *symbols.Method) bool {
	if m.Owner() == target.Owner() || !s.IsSubtype(m.Owner().QName(), target.Owner().QName()) {
		return false
	}
	for _, r := range s.OverriddenIn(m, target.Owner().QName()) {
		if r.Decl == target {
			return true
		}
	}
	return false
}

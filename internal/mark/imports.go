package mark

import (
	"strings"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/optflag"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// justifyImports ties every import of a file with kept declarations to a
// use in kept code. It runs after the fixed point, when all uses are known.
func (e *Engine) justifyImports() {
	reg := e.c.Registry()
	fallback := e.c.Flags().Enabled(optflag.ImportFallback)
	for _, u := range reg.Units() {
		if !e.unitReached(u) {
			continue
		}
		f := u.File
		uses := e.uses[f.Path]
		for _, imp := range u.Imports {
			matched := false
			for _, us := range uses {
				if importMatches(imp, us) {
					e.justify(f.Ref(imp.Node), DirectlyReferencedByNode{Site: f.Ref(us.node)})
					matched = true
					break
				}
			}
			if matched || !fallback {
				continue
			}
			for _, n := range e.unresolved[f.Path] {
				if e.fallbackMatches(reg, imp, n.name) {
					e.justify(f.Ref(imp.Node), DirectlyReferencedByNode{Site: f.Ref(n.node)})
					break
				}
			}
		}
	}
}

func (e *Engine) unitReached(u *symbols.Unit) bool {
	for _, t := range u.All {
		if e.level(t) != None {
			return true
		}
	}
	return false
}

func parentName(qname string) string {
	i := strings.LastIndexByte(qname, '.')
	if i < 0 {
		return ""
	}
	return qname[:i]
}

func importMatches(imp symbols.Import, us use) bool {
	switch {
	case !imp.Static && !imp.Asterisk:
		return us.member == "" && us.qname == imp.Name
	case !imp.Static:
		return us.member == "" && parentName(us.qname) == imp.Name
	case !imp.Asterisk:
		if us.member == "" {
			return us.qname == imp.Name
		}
		return us.member == imp.Simple() && us.qname == parentName(imp.Name)
	}
	if us.member == "" {
		return parentName(us.qname) == imp.Name
	}
	return us.qname == imp.Name
}

// fallbackMatches keeps imports that may supply a name nothing resolved:
// single imports of that simple name and on-demand imports of code outside
// the tree.
func (e *Engine) fallbackMatches(reg *symbols.Registry, imp symbols.Import, name string) bool {
	if !imp.Asterisk {
		return imp.Simple() == name
	}
	return !reg.IsPackage(imp.Name) && reg.Type(imp.Name) == nil
}

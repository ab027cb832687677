package mark

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/coverage"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/optflag"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

var lifecycleAnnotations = []string{
	"Before", "After", "BeforeEach", "AfterEach",
	"BeforeClass", "AfterClass", "BeforeAll", "AfterAll",
}

var ruleAnnotations = []string{"Rule", "ClassRule"}

// EntrypointSeeds turns entrypoint specs into seeds. A spec is either a
// class name "pkg.Class", which seeds the class and all its members, or a
// member "pkg.Class#name" optionally followed by a parameter list
// "(int,String)" to pick one overload.
func EntrypointSeeds(c *analysis.Context, specs []string) ([]Seed, error) {
	reg := c.Registry()
	lifecycle := c.Flags().Enabled(optflag.LifecycleEntrypoints)
	var out []Seed
	for _, spec := range specs {
		cls, member, hasMember := strings.Cut(spec, "#")
		t := reg.Type(cls)
		if t == nil {
			return nil, fmt.Errorf("entrypoint %q: no class %s in the source tree", spec, cls)
		}
		r := Entrypoint{Spec: spec}
		out = append(out, Seed{Decl: t, Reason: r})
		if !hasMember {
			for _, d := range t.Decls() {
				out = append(out, Seed{Decl: d, Reason: r})
			}
		} else {
			ds := membersMatching(t, member)
			if len(ds) == 0 {
				return nil, fmt.Errorf("entrypoint %q: no member %s in %s", spec, member, cls)
			}
			for _, d := range ds {
				out = append(out, Seed{Decl: d, Reason: r})
			}
		}
		if lifecycle {
			out = append(out, lifecycleSeeds(c, t, spec)...)
		}
	}
	return out, nil
}

func membersMatching(t *symbols.Type, member string) []symbols.Decl {
	name, sig, withSig := strings.Cut(member, "(")
	var out []symbols.Decl
	for _, m := range slices.Concat(t.Methods, t.Ctors) {
		if m.Name() != name {
			continue
		}
		if withSig && m.Signature() != name+"("+sig {
			continue
		}
		out = append(out, m)
	}
	if withSig {
		return out
	}
	if fd := t.Field(name); fd != nil {
		out = append(out, fd)
	}
	if ec := t.EnumConstant(name); ec != nil {
		out = append(out, ec)
	}
	return out
}

// lifecycleSeeds are the members a test runner invokes around an
// entrypoint: fixture methods and rule fields of the class and its in-tree
// ancestors, and the constructors of the class itself.
func lifecycleSeeds(c *analysis.Context, t *symbols.Type, spec string) []Seed {
	r := Entrypoint{Spec: spec}
	var out []Seed
	for _, ctor := range t.Ctors {
		out = append(out, Seed{Decl: ctor, Reason: r})
	}
	types := []*symbols.Type{t}
	for _, a := range c.Solver().Ancestors(t.QName()) {
		if at := c.Registry().Type(a.Name); at != nil {
			types = append(types, at)
		}
	}
	for _, lt := range types {
		f := lt.File()
		for _, m := range lt.Methods {
			if hasAny(m.Modifiers, f, lifecycleAnnotations) {
				out = append(out, Seed{Decl: m, Reason: r})
			}
		}
		for _, fd := range lt.Fields {
			if hasAny(fd.Modifiers, f, ruleAnnotations) {
				out = append(out, Seed{Decl: fd, Reason: r})
			}
		}
	}
	return out
}

func hasAny(mods symbols.Modifiers, f *jast.File, names []string) bool {
	for _, n := range names {
		if mods.HasAnnotation(f, n) {
			return true
		}
	}
	return false
}

// CoverageSeeds seeds every callable the oracle saw executing.
func CoverageSeeds(reg *symbols.Registry, oracle coverage.Oracle) []Seed {
	var out []Seed
	for _, t := range reg.Types() {
		if t.Kind == symbols.KindAnonymous || t.Kind == symbols.KindEnumConstantBody {
			continue
		}
		for _, m := range slices.Concat(t.Methods, t.Ctors) {
			if oracle.Method(t.QName(), m.Signature()) == coverage.Covered {
				out = append(out, Seed{Decl: m, Reason: CoveredAtRuntime{Key: m.QName()}})
			}
		}
	}
	return out
}

// ClassSeeds seeds every member of each type in types, for reductions that
// keep or drop whole classes.
func ClassSeeds(types []*symbols.Type) []Seed {
	var out []Seed
	for _, t := range types {
		r := KeptWithClass{Class: t.QName()}
		out = append(out, Seed{Decl: t, Reason: r})
		for _, d := range t.Decls() {
			out = append(out, Seed{Decl: d, Reason: r})
		}
	}
	return out
}

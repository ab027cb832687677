// Package optflag names the toggles that gate fuzzy-resolution fallbacks and
// optional reachability rules. Every flag is enabled unless disabled.
package optflag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// Flag is one named optimization toggle.
type Flag string

const (
	// PackageNameHeuristic treats an unresolved qualified-name segment that
	// matches a loaded package prefix as a package fragment and stays quiet.
	PackageNameHeuristic Flag = "package-name-heuristic"
	// AncestorResolutionFallback suppresses a resolution failure when the
	// nearest enclosing field access or method call resolves.
	AncestorResolutionFallback Flag = "ancestor-resolution-fallback"
	// ArityOnlyOverloadFallback picks every overload with a matching arity
	// when argument types cannot be computed.
	ArityOnlyOverloadFallback Flag = "arity-only-overload-fallback"
	// UnknownReceiverNameFallback resolves a call on an untyped receiver to
	// every in-tree method with that name and arity.
	UnknownReceiverNameFallback Flag = "unknown-receiver-name-fallback"
	// LibraryOverrides keeps methods of kept types that override library
	// methods, since library code may call them.
	LibraryOverrides Flag = "library-overrides"
	// LifecycleEntrypoints seeds JUnit lifecycle methods and constructors of
	// the entrypoint class alongside member entrypoints.
	LifecycleEntrypoints Flag = "lifecycle-entrypoints"
	// ImportFallback justifies library imports by unresolved simple names.
	ImportFallback Flag = "import-fallback"
)

// All lists every flag in a stable order.
var All = []Flag{
	PackageNameHeuristic,
	AncestorResolutionFallback,
	ArityOnlyOverloadFallback,
	UnknownReceiverNameFallback,
	LibraryOverrides,
	LifecycleEntrypoints,
	ImportFallback,
}

// Set is an immutable set of enabled flags. The zero value enables all.
type Set struct {
	disabled *set.Set[Flag]
}

// Default returns the set with every flag enabled.
func Default() Set { return Set{} }

// Disable returns a copy of s with the given flags disabled.
func (s Set) Disable(flags ...Flag) Set {
	out := set.New[Flag](len(flags))
	if s.disabled != nil {
		for _, f := range s.disabled.Slice() {
			out.Insert(f)
		}
	}
	for _, f := range flags {
		out.Insert(f)
	}
	return Set{disabled: out}
}

// Enabled reports whether f is on.
func (s Set) Enabled(f Flag) bool {
	return s.disabled == nil || !s.disabled.Contains(f)
}

// Disabled lists the disabled flags, sorted.
func (s Set) Disabled() []Flag {
	if s.disabled == nil {
		return nil
	}
	out := s.disabled.Slice()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s Set) String() string {
	var on []string
	for _, f := range All {
		if s.Enabled(f) {
			on = append(on, string(f))
		}
	}
	return strings.Join(on, ",")
}

// Parse returns the default set with the named flags disabled. Unknown names
// are an error.
func Parse(disabled []string) (Set, error) {
	known := set.New[Flag](len(All))
	for _, f := range All {
		known.Insert(f)
	}
	var flags []Flag
	for _, name := range disabled {
		f := Flag(strings.TrimSpace(name))
		if f == "" {
			continue
		}
		if !known.Contains(f) {
			return Set{}, fmt.Errorf("unknown optimization flag %q", name)
		}
		flags = append(flags, f)
	}
	if len(flags) == 0 {
		return Default(), nil
	}
	return Default().Disable(flags...), nil
}

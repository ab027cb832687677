package mark

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// Result is the fixed point of one marking run. It is read-only.
type Result struct {
	reg     *symbols.Registry
	full    *roaring.Bitmap
	shallow *roaring.Bitmap
	reasons map[jast.Ref][]Reason
}

// Level returns how much of d must be kept.
func (r *Result) Level(d symbols.Decl) Level {
	id := uint32(d.ID())
	switch {
	case r.full.Contains(id):
		return Full
	case r.shallow.Contains(id):
		return Shallow
	}
	return None
}

// Reachable reports whether d was reached at any level.
func (r *Result) Reachable(d symbols.Decl) bool {
	return r.shallow.Contains(uint32(d.ID()))
}

// Reasons returns the justifications recorded for the node at ref: a
// declaration, an import or a catch clause.
func (r *Result) Reasons(ref jast.Ref) []Reason {
	return r.reasons[ref]
}

// Justified reports whether any reason was recorded for ref.
func (r *Result) Justified(ref jast.Ref) bool {
	return len(r.reasons[ref]) > 0
}

// All returns the reached declarations in DeclID order.
func (r *Result) All() []symbols.Decl {
	out := make([]symbols.Decl, 0, r.shallow.GetCardinality())
	it := r.shallow.Iterator()
	for it.HasNext() {
		out = append(out, r.reg.Decl(symbols.DeclID(it.Next())))
	}
	return out
}

// Len returns the number of reached declarations.
func (r *Result) Len() int { return int(r.shallow.GetCardinality()) }

// Refs returns every node with recorded reasons, ordered by file and node.
func (r *Result) Refs() []jast.Ref {
	out := make([]jast.Ref, 0, len(r.reasons))
	for ref := range r.reasons {
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Node < out[j].Node
	})
	return out
}

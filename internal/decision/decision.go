// Package decision turns reachability results into per-node transform
// decisions consumed by the sweep.
package decision

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
)

// Decision is what the sweep does with a node.
type Decision uint8

const (
	// Keep copies the node unchanged. It is the default for nodes without
	// an entry.
	Keep Decision = iota
	// Dummy keeps a callable's signature with a stub body, replaces a branch
	// with a throwing block, or unwraps a try statement to its body.
	Dummy
	// Remove omits the node.
	Remove
)

var decisionNames = [...]string{"keep", "dummy", "remove"}

func (d Decision) String() string { return decisionNames[d] }

// ConflictError reports a second, different decision for a node. It is an
// invariant violation; FirstStack shows who wrote the first one.
type ConflictError struct {
	Ref        jast.Ref
	First      Decision
	Second     Decision
	FirstStack string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("decision: conflicting decisions for %s: %s then %s\nfirst written at:\n%s",
		e.Ref, e.First, e.Second, e.FirstStack)
}

type entry struct {
	d     Decision
	stack []uintptr
}

// Table is a write-once side table of decisions keyed by node. It is safe
// for concurrent use.
type Table struct {
	mu      sync.Mutex
	entries map[jast.Ref]entry
}

func NewTable() *Table {
	return &Table{entries: map[jast.Ref]entry{}}
}

// Set records d for ref. Writing the same decision twice is a no-op;
// writing a different one returns a *ConflictError.
func (t *Table) Set(ref jast.Ref, d Decision) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[ref]; ok {
		if e.d == d {
			return nil
		}
		return &ConflictError{Ref: ref, First: e.d, Second: d, FirstStack: formatStack(e.stack)}
	}
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	t.entries[ref] = entry{d: d, stack: pcs[:n]}
	return nil
}

// Get returns the decision recorded for ref.
func (t *Table) Get(ref jast.Ref) (Decision, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[ref]
	return e.d, ok
}

// Of returns the decision for ref, Keep when none was recorded.
func (t *Table) Of(ref jast.Ref) Decision {
	d, _ := t.Get(ref)
	return d
}

func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Refs returns every node with a recorded decision, ordered by file and
// node.
func (t *Table) Refs() []jast.Ref {
	t.mu.Lock()
	out := make([]jast.Ref, 0, len(t.entries))
	for ref := range t.entries {
		out = append(out, ref)
	}
	t.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Node < out[j].Node
	})
	return out
}

// Shadowed reports whether a strict ancestor of id in f has a decision
// other than Keep, making any decision on id irrelevant.
func (t *Table) Shadowed(f *jast.File, id jast.NodeID) bool {
	for p := f.Parent(id); p != jast.NoNode; p = f.Parent(p) {
		if t.Of(f.Ref(p)) != Keep {
			return true
		}
	}
	return false
}

func formatStack(pcs []uintptr) string {
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs)
	for {
		fr, more := frames.Next()
		fmt.Fprintf(&sb, "\t%s\n\t\t%s:%d\n", fr.Function, fr.File, fr.Line)
		if !more {
			break
		}
	}
	return sb.String()
}

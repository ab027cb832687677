package analysis

import (
	"cmp"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-set/v3"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
)

// Reporter collects references the analysis gave up on. Each node is
// logged once no matter how many passes reach it.
type Reporter struct {
	logger *slog.Logger

	mu   sync.Mutex
	seen *set.TreeSet[jast.Ref]
}

func compareRefs(a, b jast.Ref) int {
	if c := cmp.Compare(a.File, b.File); c != 0 {
		return c
	}
	return cmp.Compare(a.Node, b.Node)
}

func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger, seen: set.NewTreeSet[jast.Ref](compareRefs)}
}

// Report records an unresolved reference at n.
func (r *Reporter) Report(f *jast.File, n jast.NodeID, err error) {
	r.mu.Lock()
	fresh := r.seen.Insert(f.Ref(n))
	r.mu.Unlock()
	if !fresh {
		return
	}
	line := 0
	if n != jast.NoNode {
		line = f.Node(n).Row
	}
	r.logger.Warn("unresolved reference",
		"file", f.Path,
		"line", line,
		"path", f.ASTPath(n),
		"kind", f.Kind(n),
		"err", err,
	)
}

// Reported returns the reported nodes ordered by file and node.
func (r *Reporter) Reported() []jast.Ref {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen.Slice()
}

func (r *Reporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen.Size()
}

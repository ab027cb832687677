package export

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/graph"
)

// GenerateMermaid produces a Mermaid graph TD diagram from a graph store.
// Declarations are grouped by file and styled by decision; REACHES edges
// become arrows labelled with their reason. With a non-empty focus only
// the declarations within depth REACHES hops upstream of focus are drawn,
// which is the justification chain of that declaration.
func GenerateMermaid(ctx context.Context, store graph.Store, focus string, depth int) (string, error) {
	decls, err := store.QueryDecls(ctx, "", 0)
	if err != nil {
		return "", fmt.Errorf("list decls: %w", err)
	}
	edges, err := store.GetAllEdges(ctx)
	if err != nil {
		return "", fmt.Errorf("get edges: %w", err)
	}

	include := func(string) bool { return true }
	if focus != "" {
		chains, err := store.GetDependencies(ctx, focus, graph.DirectionUpstream, depth)
		if err != nil {
			return "", fmt.Errorf("dependencies of %s: %w", focus, err)
		}
		keep := map[string]bool{focus: true}
		for _, c := range chains {
			for _, n := range c.Nodes {
				keep[n] = true
			}
		}
		include = func(id string) bool { return keep[id] }
	}

	// Mermaid IDs must be alphanumeric; assign them in ID order.
	nodeIDs := make(map[string]string)
	byFile := make(map[string][]graph.DeclNode)
	for _, d := range decls {
		if !include(d.ID) {
			continue
		}
		nodeIDs[d.ID] = fmt.Sprintf("N%d", len(nodeIDs))
		byFile[d.FilePath] = append(byFile[d.FilePath], d)
	}
	files := make([]string, 0, len(byFile))
	for f := range byFile {
		files = append(files, f)
	}
	sort.Strings(files)

	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("  classDef keep fill:#d4edda,stroke:#28a745\n")
	sb.WriteString("  classDef dummy fill:#fff3cd,stroke:#ffc107\n")
	sb.WriteString("  classDef remove fill:#f8d7da,stroke:#dc3545\n")

	for i, f := range files {
		sb.WriteString(fmt.Sprintf("  subgraph F%d[\"%s\"]\n", i, shortPath(f)))
		for _, d := range byFile[f] {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]:::%s\n", nodeIDs[d.ID], escape(shortName(d.ID)), d.Decision))
		}
		sb.WriteString("  end\n")
	}

	var arrows []string
	seen := make(map[string]bool)
	for _, e := range edges {
		if e.Kind != graph.EdgeKindReaches {
			continue
		}
		src, ok1 := nodeIDs[e.SourceID]
		dst, ok2 := nodeIDs[e.TargetID]
		if !ok1 || !ok2 {
			continue
		}
		line := fmt.Sprintf("  %s -->|%s| %s\n", src, e.Reason, dst)
		if !seen[line] {
			seen[line] = true
			arrows = append(arrows, line)
		}
	}
	sort.Strings(arrows)
	for _, a := range arrows {
		sb.WriteString(a)
	}

	return sb.String(), nil
}

// shortPath returns the last 2 path segments for readability.
func shortPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= 2 {
		return path
	}
	return strings.Join(parts[len(parts)-2:], "/")
}

// shortName drops the package prefix of a qualified name:
// "p.q.C#m(int)" becomes "C#m(int)".
func shortName(qname string) string {
	head, member, hasMember := strings.Cut(qname, "#")
	if i := strings.LastIndex(head, "."); i >= 0 {
		head = head[i+1:]
	}
	if hasMember {
		return head + "#" + member
	}
	return head
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

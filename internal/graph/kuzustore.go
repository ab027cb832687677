//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph backend.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(":memory:", cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path, so that a reduction can be queried after the run
// that produced it. KuzuDB creates the leaf directory itself.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open file database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Order matters: node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS File(
		path STRING,
		kept BOOLEAN,
		decls INT64,
		PRIMARY KEY(path)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Decl(
		id STRING,
		name STRING,
		kind STRING,
		file_path STRING,
		start_line INT64,
		end_line INT64,
		level STRING,
		decision STRING,
		seed STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS DECLARES(FROM File TO Decl)`,
	`CREATE REL TABLE IF NOT EXISTS MEMBER_OF(FROM Decl TO Decl)`,
	`CREATE REL TABLE IF NOT EXISTS REACHES(FROM Decl TO Decl, reason STRING)`,
	`CREATE REL TABLE IF NOT EXISTS EXTENDS(FROM Decl TO Decl)`,
}

var relTables = []string{"DECLARES", "MEMBER_OF", "REACHES", "EXTENDS"}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// AddFile inserts a File node.
func (s *KuzuStore) AddFile(_ context.Context, node FileNode) error {
	return s.exec(
		"CREATE (f:File {path: $path, kept: $kept, decls: $decls})",
		map[string]any{
			"path":  node.Path,
			"kept":  node.Kept,
			"decls": int64(node.Decls),
		},
	)
}

// AddDecl inserts a Decl node.
func (s *KuzuStore) AddDecl(_ context.Context, node DeclNode) error {
	return s.exec(
		`CREATE (d:Decl {
			id: $id,
			name: $name,
			kind: $kind,
			file_path: $fp,
			start_line: $sl,
			end_line: $el,
			level: $level,
			decision: $decision,
			seed: $seed
		})`,
		map[string]any{
			"id":       node.ID,
			"name":     node.Name,
			"kind":     string(node.Kind),
			"fp":       node.FilePath,
			"sl":       int64(node.StartLine),
			"el":       int64(node.EndLine),
			"level":    node.Level,
			"decision": node.Decision,
			"seed":     node.Seed,
		},
	)
}

// AddEdge inserts a relationship edge between two nodes.
// The Cypher statement is chosen based on the EdgeKind.
func (s *KuzuStore) AddEdge(_ context.Context, edge Edge) error {
	cypher, err := edgeCypher(edge.Kind)
	if err != nil {
		return err
	}
	params := map[string]any{
		"src": edge.SourceID,
		"dst": edge.TargetID,
	}
	if edge.Kind == EdgeKindReaches {
		params["reason"] = edge.Reason
	}
	return s.exec(cypher, params)
}

// edgeCypher returns the MATCH-CREATE Cypher for the given edge kind.
func edgeCypher(kind EdgeKind) (string, error) {
	switch kind {
	case EdgeKindDeclares:
		return `MATCH (a:File {path: $src}), (b:Decl {id: $dst})
				CREATE (a)-[:DECLARES]->(b)`, nil
	case EdgeKindMemberOf:
		return `MATCH (a:Decl {id: $src}), (b:Decl {id: $dst})
				CREATE (a)-[:MEMBER_OF]->(b)`, nil
	case EdgeKindReaches:
		return `MATCH (a:Decl {id: $src}), (b:Decl {id: $dst})
				CREATE (a)-[:REACHES {reason: $reason}]->(b)`, nil
	case EdgeKindExtends:
		return `MATCH (a:Decl {id: $src}), (b:Decl {id: $dst})
				CREATE (a)-[:EXTENDS]->(b)`, nil
	default:
		return "", fmt.Errorf("kuzu: unsupported edge kind: %s", kind)
	}
}

// ---------- Read operations ----------

const declColumns = "d.id, d.name, d.kind, d.file_path, d.start_line, d.end_line, d.level, d.decision, d.seed"

// GetFile retrieves a single File node by path, or returns nil if not found.
func (s *KuzuStore) GetFile(_ context.Context, path string) (*FileNode, error) {
	rows, err := s.query(
		"MATCH (f:File {path: $path}) RETURN f.path, f.kept, f.decls",
		map[string]any{"path": path},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &FileNode{
		Path:  toString(r[0]),
		Kept:  toBool(r[1]),
		Decls: toInt(r[2]),
	}, nil
}

// GetDecl retrieves a single Decl node by qualified name, or nil if not found.
func (s *KuzuStore) GetDecl(_ context.Context, id string) (*DeclNode, error) {
	rows, err := s.query(
		"MATCH (d:Decl {id: $id}) RETURN "+declColumns,
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToDecl(rows[0]), nil
}

// QueryDecls returns declarations whose qualified name contains the query
// string, ordered by ID.
func (s *KuzuStore) QueryDecls(_ context.Context, queryStr string, limit int) ([]DeclNode, error) {
	cypher := "MATCH (d:Decl) WHERE lower(d.id) CONTAINS lower($q) RETURN " + declColumns + " ORDER BY d.id"
	params := map[string]any{"q": queryStr}
	if limit > 0 {
		cypher += " LIMIT $lim"
		params["lim"] = int64(limit)
	}
	rows, err := s.query(cypher, params)
	if err != nil {
		return nil, err
	}
	out := make([]DeclNode, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToDecl(r))
	}
	return out, nil
}

// ---------- Graph traversal ----------

// GetDependencies performs a BFS over REACHES edges starting from the given
// declaration. It returns one DependencyChain per reachable declaration.
func (s *KuzuStore) GetDependencies(_ context.Context, nodeID string, dir Direction, maxDepth int) ([]DependencyChain, error) {
	if maxDepth <= 0 {
		return nil, nil
	}

	// BFS state.
	type bfsEntry struct {
		path  []string
		depth int
	}
	visited := map[string]bool{nodeID: true}
	queue := []bfsEntry{{path: []string{nodeID}, depth: 0}}
	var chains []DependencyChain

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		tip := cur.path[len(cur.path)-1]
		neighbors, err := s.reachNeighbors(tip, dir)
		if err != nil {
			return nil, err
		}
		for _, nb := range neighbors {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			newPath := make([]string, len(cur.path)+1)
			copy(newPath, cur.path)
			newPath[len(cur.path)] = nb
			chains = append(chains, DependencyChain{
				Nodes: newPath,
				Depth: cur.depth + 1,
			})
			queue = append(queue, bfsEntry{path: newPath, depth: cur.depth + 1})
		}
	}
	return chains, nil
}

// reachNeighbors returns immediate neighbors along REACHES edges.
func (s *KuzuStore) reachNeighbors(id string, dir Direction) ([]string, error) {
	var cypher string
	switch dir {
	case DirectionDownstream:
		cypher = "MATCH (a:Decl {id: $id})-[:REACHES]->(b:Decl) RETURN b.id ORDER BY b.id"
	case DirectionUpstream:
		cypher = "MATCH (a:Decl)-[:REACHES]->(b:Decl {id: $id}) RETURN a.id ORDER BY a.id"
	default:
		return nil, fmt.Errorf("kuzu: unknown direction: %s", dir)
	}
	rows, err := s.query(cypher, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, toString(r[0]))
	}
	return out, nil
}

// ---------- Edge enumeration ----------

// GetAllEdges returns all edges across all relationship tables.
func (s *KuzuStore) GetAllEdges(_ context.Context) ([]Edge, error) {
	type relQuery struct {
		cypher string
		kind   EdgeKind
	}

	queries := []relQuery{
		{"MATCH (a:File)-[:DECLARES]->(b:Decl) RETURN a.path, b.id, ''", EdgeKindDeclares},
		{"MATCH (a:Decl)-[:MEMBER_OF]->(b:Decl) RETURN a.id, b.id, ''", EdgeKindMemberOf},
		{"MATCH (a:Decl)-[r:REACHES]->(b:Decl) RETURN a.id, b.id, r.reason", EdgeKindReaches},
		{"MATCH (a:Decl)-[:EXTENDS]->(b:Decl) RETURN a.id, b.id, ''", EdgeKindExtends},
	}

	var edges []Edge
	for _, q := range queries {
		rows, err := s.query(q.cypher, nil)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			edges = append(edges, Edge{
				SourceID: toString(r[0]),
				TargetID: toString(r[1]),
				Kind:     q.kind,
				Reason:   toString(r[2]),
			})
		}
	}
	return edges, nil
}

// ---------- Stats ----------

// Stats returns counts of nodes, edges and decisions.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	files, err := s.countTable("File")
	if err != nil {
		return nil, err
	}
	decls, err := s.countTable("Decl")
	if err != nil {
		return nil, err
	}
	edges, err := s.countEdges()
	if err != nil {
		return nil, err
	}
	st := &GraphStats{FileCount: files, DeclCount: decls, EdgeCount: edges}

	rows, err := s.query("MATCH (d:Decl) RETURN d.decision, count(d)", nil)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		countDecision(st, toString(r[0]), toInt(r[1]))
	}
	return st, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// countTable returns the number of rows in a node table.
func (s *KuzuStore) countTable(table string) (int, error) {
	// Table name is a fixed internal constant, not user input.
	cypher := fmt.Sprintf("MATCH (n:%s) RETURN count(n)", table)
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// countEdges returns the total number of edges across all relationship tables.
func (s *KuzuStore) countEdges() (int, error) {
	total := 0
	for _, t := range relTables {
		cypher := fmt.Sprintf("MATCH ()-[r:%s]->() RETURN count(r)", t)
		rows, err := s.query(cypher, nil)
		if err != nil {
			return 0, err
		}
		if len(rows) > 0 && len(rows[0]) > 0 {
			total += toInt(rows[0][0])
		}
	}
	return total, nil
}

// rowToDecl converts a result row in declColumns order into a DeclNode.
func rowToDecl(r []any) *DeclNode {
	return &DeclNode{
		ID:        toString(r[0]),
		Name:      toString(r[1]),
		Kind:      DeclKind(toString(r[2])),
		FilePath:  toString(r[3]),
		StartLine: toInt(r[4]),
		EndLine:   toInt(r[5]),
		Level:     toString(r[6]),
		Decision:  toString(r[7]),
		Seed:      toString(r[8]),
	}
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

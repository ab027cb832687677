package mcptools

import "github.com/Derppening/test-dependency-minimization-sub005/internal/graph"

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// ReduceInput is the input for the reduce MCP tool.
type ReduceInput struct {
	SourceRoots  []string `json:"sourceRoots" jsonschema:"absolute paths of the source roots to reduce"`
	Entrypoints  []string `json:"entrypoints" jsonschema:"entrypoints as pkg.Class or pkg.Class#member"`
	Strategy     string   `json:"strategy,omitempty" jsonschema:"class, member or coverage (default: member)"`
	Passes       int      `json:"passes,omitempty" jsonschema:"maximum number of passes (default: 1)"`
	Classpath    []string `json:"classpath,omitempty" jsonschema:"classpath entries: class directories, jars or .txt lists of qualified names"`
	Coverage     string   `json:"coverage,omitempty" jsonschema:"path to a coverage YAML file, required by the coverage strategy"`
	DisableFlags []string `json:"disableFlags,omitempty" jsonschema:"optimization flags to disable"`
	OutputDir    string   `json:"outputDir,omitempty" jsonschema:"directory to write the reduced tree to; nothing is written when empty"`
}

// ReduceOutput is the result of the reduce MCP tool.
type ReduceOutput struct {
	Passes     int              `json:"passes"`
	FixedPoint bool             `json:"fixedPoint"`
	Files      []string         `json:"files"`
	Stats      graph.GraphStats `json:"stats"`
}

// WhyInput is the input for the why MCP tool.
type WhyInput struct {
	Decl     string `json:"decl" jsonschema:"qualified declaration name, e.g. p.C#foo() or p.C#field"`
	MaxDepth int    `json:"maxDepth,omitempty" jsonschema:"maximum justification chain length (default: 5)"`
}

// WhyOutput is the result of the why MCP tool.
type WhyOutput struct {
	Decl    graph.DeclNode          `json:"decl"`
	Chains  []graph.DependencyChain `json:"chains"`
	Mermaid string                  `json:"mermaid"`
}

// QueryDeclsInput is the input for the query_decls MCP tool.
type QueryDeclsInput struct {
	Query    string `json:"query" jsonschema:"substring of the qualified declaration name"`
	Kind     string `json:"kind,omitempty" jsonschema:"filter by kind: class, interface, enum, record, annotation, anonymous, method, constructor, field, enum-constant, initializer"`
	Decision string `json:"decision,omitempty" jsonschema:"filter by decision: keep, dummy or remove"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of results (default: 20)"`
}

// QueryDeclsOutput is the result of the query_decls MCP tool.
type QueryDeclsOutput struct {
	Decls []graph.DeclNode `json:"decls"`
	Total int              `json:"total"`
}

// StatsInput is the input for the stats MCP tool.
type StatsInput struct{}

// StatsOutput is the result of the stats MCP tool.
type StatsOutput struct {
	Stats graph.GraphStats `json:"stats"`
}

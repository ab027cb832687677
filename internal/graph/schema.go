package graph

// --- Enums ---

// DeclKind classifies declarations in the reduction graph.
type DeclKind string

const (
	DeclKindClass        DeclKind = "class"
	DeclKindInterface    DeclKind = "interface"
	DeclKindEnum         DeclKind = "enum"
	DeclKindRecord       DeclKind = "record"
	DeclKindAnnotation   DeclKind = "annotation"
	DeclKindAnonymous    DeclKind = "anonymous"
	DeclKindMethod       DeclKind = "method"
	DeclKindConstructor  DeclKind = "constructor"
	DeclKindField        DeclKind = "field"
	DeclKindEnumConstant DeclKind = "enum-constant"
	DeclKindInitializer  DeclKind = "initializer"
)

// EdgeKind classifies relationships between nodes.
type EdgeKind string

const (
	// EdgeKindDeclares links a file to a top-level or nested declaration.
	EdgeKindDeclares EdgeKind = "DECLARES"
	// EdgeKindMemberOf links a member to its declaring type.
	EdgeKindMemberOf EdgeKind = "MEMBER_OF"
	// EdgeKindReaches links the declaration enclosing a reference site to
	// the declaration it made reachable. Reason carries the reason kind.
	EdgeKindReaches EdgeKind = "REACHES"
	// EdgeKindExtends links a type to an in-tree supertype.
	EdgeKindExtends EdgeKind = "EXTENDS"
)

// --- Models ---

// FileNode represents a source file of the reduced tree.
type FileNode struct {
	Path string `json:"path"`
	// Kept is false when no type of the file survives reduction.
	Kept  bool `json:"kept"`
	Decls int  `json:"decls"`
}

// DeclNode represents one declaration with the outcome of the reduction.
type DeclNode struct {
	ID        string   `json:"id"` // qualified name
	Name      string   `json:"name"`
	Kind      DeclKind `json:"kind"`
	FilePath  string   `json:"filePath"`
	StartLine int      `json:"startLine"`
	EndLine   int      `json:"endLine"`
	Level     string   `json:"level"`
	Decision  string   `json:"decision"`
	// Seed is the first seed reason of the declaration, if it was seeded.
	Seed string `json:"seed,omitempty"`
}

// Edge represents a relationship between two nodes.
type Edge struct {
	SourceID string   `json:"sourceId"`
	TargetID string   `json:"targetId"`
	Kind     EdgeKind `json:"kind"`
	Reason   string   `json:"reason,omitempty"`
}

// GraphStats summarizes a reduction graph.
type GraphStats struct {
	FileCount int `json:"fileCount"`
	DeclCount int `json:"declCount"`
	EdgeCount int `json:"edgeCount"`
	Kept      int `json:"kept"`
	Dummied   int `json:"dummied"`
	Removed   int `json:"removed"`
}

// DependencyChain is an ordered sequence of nodes forming a reachability
// path.
type DependencyChain struct {
	Nodes []string `json:"nodes"` // node IDs in order
	Depth int      `json:"depth"`
}

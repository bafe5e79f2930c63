// Package entity defines the value type extracted from source files and its
// graph-persistent counterparts (Node, Edge).
package entity

// Type is the syntactic kind of an extracted entity.
type Type string

const (
	Function   Type = "function"
	Class      Type = "class"
	Variable   Type = "variable"
	ImportType Type = "import"
	ModuleCode Type = "module_code"
)

// Confidence tags how certain an edge's resolved target is.
type Confidence string

const (
	High   Confidence = "high"
	Medium Confidence = "medium"
	Low    Confidence = "low"
)

// Less reports whether c is strictly weaker than other, ranking low below
// medium below high.
func (c Confidence) Less(other Confidence) bool {
	return rank(c) < rank(other)
}

func rank(c Confidence) int {
	switch c {
	case Low:
		return 0
	case Medium:
		return 1
	case High:
		return 2
	default:
		return -1
	}
}

// Import pairs an imported symbol with the module it was imported from.
// Module may be empty or "." for a local/relative include.
type Import struct {
	Module string
	Symbol string
}

// Entity is the unit of source structure an extractor recognizes. It is an
// immutable value produced fresh on every parse; the bridge consumes it to
// update the persistent graph and then discards it (only its fields survive,
// copied onto a Node).
type Entity struct {
	EntityType Type
	// Name is scoped: methods are rendered "Outer.inner"; free names are bare.
	Name string
	// FilePath is project-relative, forward-slash separated.
	FilePath string
	// LineStart, LineEnd are 1-indexed and inclusive; LineStart <= LineEnd.
	LineStart int
	LineEnd   int

	// SignatureHash is a 12-hex-digit prefix of a hash of the entity's
	// canonical source text. Any change to the definition changes it.
	SignatureHash string
	// StructureHash is the same, computed with the entity's own name
	// replaced by a sentinel first, so pure renames preserve it.
	StructureHash string

	Calls      []string
	Inherits   []string
	TypeRefs   []string
	Decorators []string
	Imports    []Import
	Params     []string
}

// Key identifies an entity within one file for delta bucketing: (type, name).
type Key struct {
	Type Type
	Name string
}

func (e Entity) Key() Key {
	return Key{Type: e.EntityType, Name: e.Name}
}

// Node is the graph's persistent view of an entity.
type Node struct {
	Entity
	// ID is the node's stable identity: FilePath + "::" + Name.
	ID string
	// LastSeen is the Unix timestamp of the most recent extraction that
	// produced or confirmed this node.
	LastSeen int64
	// Confidence reflects how this node itself was produced. The bridge sets
	// high for every node it adds, including partial-recovery entities.
	Confidence Confidence
}

// NodeID builds the canonical node identity string.
func NodeID(filePath, name string) string {
	return filePath + "::" + name
}

// EdgeKind is the relationship a directed edge represents.
type EdgeKind string

const (
	Calls        EdgeKind = "calls"
	Imports      EdgeKind = "imports"
	Inherits     EdgeKind = "inherits"
	UsesType     EdgeKind = "uses_type"
	DecoratedBy  EdgeKind = "decorated_by"
)

// UnresolvedPrefix marks a placeholder target id for an edge whose real
// target has not yet been found.
const UnresolvedPrefix = "unresolved:"

// UnresolvedTarget builds the placeholder target id for an unresolved name.
func UnresolvedTarget(name string) string {
	return UnresolvedPrefix + name
}

// IsUnresolved reports whether a target id is a placeholder.
func IsUnresolved(targetID string) bool {
	return len(targetID) > len(UnresolvedPrefix) && targetID[:len(UnresolvedPrefix)] == UnresolvedPrefix
}

// Edge is a directed labeled arc between two nodes, or a node and a
// placeholder target when unresolved.
type Edge struct {
	SourceID string
	// TargetID is either a real Node.ID or an UnresolvedTarget placeholder.
	TargetID   string
	Kind       EdgeKind
	Confidence Confidence
	// SourceFile is always the file of the source node; used to
	// bulk-invalidate edges when that file is re-extracted.
	SourceFile string
}

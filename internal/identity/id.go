// Package identity implements the IdCanonicalizer: deterministic,
// collision-resistant identifiers derived from a node kind and its fully
// qualified name, plus a per-run legacy-to-canonical id map so edges can be
// rewritten without re-resolving symbols.
package identity

// NodeKind enumerates the kinds of nodes the graph assembler produces.
type NodeKind string

const (
	KindSolution  NodeKind = "Solution"
	KindLayer     NodeKind = "Layer"
	KindProject   NodeKind = "Project"
	KindFile      NodeKind = "File"
	KindClass     NodeKind = "Class"
	KindInterface NodeKind = "Interface"
	KindStruct    NodeKind = "Struct"
	KindEnum      NodeKind = "Enum"
	KindMethod    NodeKind = "Method"
	KindProperty  NodeKind = "Property"
	KindField     NodeKind = "Field"
)

// typeSlugs is the fixed kind-to-slug mapping used in the canonical id form
// "grafo:{typeSlug}/{hash}".
var typeSlugs = map[NodeKind]string{
	KindSolution:  "sln",
	KindLayer:     "lyr",
	KindProject:   "prj",
	KindFile:      "fil",
	KindClass:     "cls",
	KindInterface: "ifc",
	KindStruct:    "str",
	KindEnum:      "enm",
	KindMethod:    "mth",
	KindProperty:  "prp",
	KindField:     "fld",
}

// TypeSlug returns the fixed abbreviation for a node kind. Unknown kinds
// fall back to "unk" so canonicalization never fails.
func TypeSlug(kind NodeKind) string {
	if slug, ok := typeSlugs[kind]; ok {
		return slug
	}
	return "unk"
}

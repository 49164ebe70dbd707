// Package serialize implements the GraphSerializer (C8): it turns an
// assembled graph.Result into a stream of UTF-8 NDJSON-LD lines, one
// metadata document followed by one document per node, relationships
// grouped by kind rather than carried as a flat edge list.
package serialize

// Location is a node document's declaration-site position, relative to the
// repository root with forward-slash separators.
type Location struct {
	Path   string `json:"path"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// NodeDocument is one line of the node stream. Relationship
// fields are arrays of target ids, unique and order-preserving; containedIn
// is the single containment parent, if any.
type NodeDocument struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	FullName      string    `json:"fullName,omitempty"`
	Namespace     string    `json:"namespace,omitempty"`
	Project       string    `json:"project,omitempty"`
	Accessibility string    `json:"accessibility,omitempty"`
	IsAbstract    bool      `json:"isAbstract,omitempty"`
	IsStatic      bool      `json:"isStatic,omitempty"`
	IsSealed      bool      `json:"isSealed,omitempty"`
	Layer         string    `json:"layer,omitempty"`
	Location      *Location `json:"location,omitempty"`

	ContainedIn string   `json:"containedIn,omitempty"`
	Contains    []string `json:"contains,omitempty"`
	HasMember   []string `json:"hasMember,omitempty"`
	Calls       []string `json:"calls,omitempty"`
	Implements  []string `json:"implements,omitempty"`
	Inherits    []string `json:"inherits,omitempty"`
	Uses        []string `json:"uses,omitempty"`
}

// MetadataDocument is line 1 of the stream.
type MetadataDocument struct {
	Context           string `json:"context"`
	ID                string `json:"id"`
	Type              string `json:"type"`
	GeneratedAt       string `json:"generatedAt"`
	SolutionPath      string `json:"solutionPath"`
	ToolVersion       string `json:"toolVersion"`
	Format            string `json:"format"`
	NodeCount         int    `json:"nodeCount"`
	RelationshipCount int    `json:"relationshipCount"`
}

// DefaultContextRef is the sibling context document's conventional name,
// used whenever the writer isn't told to point at a different location.
const DefaultContextRef = "context.jsonld"

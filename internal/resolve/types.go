// Package resolve implements the RelationResolver (C5): it turns the raw
// relation streams the semantic walker produced into resolved graph edges
// between component symbols.
package resolve

// EdgeKind is one of the four semantic relationship kinds C5 resolves.
type EdgeKind string

const (
	Calls      EdgeKind = "Calls"
	Uses       EdgeKind = "Uses"
	Inherits   EdgeKind = "Inherits"
	Implements EdgeKind = "Implements"
)

// EdgeStyle is the fixed rendering tuple associated with an EdgeKind.
type EdgeStyle struct {
	Style    string
	Color    string
	Strength float64
	Weight   float64
}

var edgeStyles = map[EdgeKind]EdgeStyle{
	Calls:      {Style: "dashed", Color: "#6b7280", Strength: 0.7, Weight: 0.7},
	Uses:       {Style: "dotted", Color: "#9ca3af", Strength: 0.6, Weight: 0.6},
	Inherits:   {Style: "solid", Color: "#1d4ed8", Strength: 0.9, Weight: 0.9},
	Implements: {Style: "dashed", Color: "#059669", Strength: 0.95, Weight: 0.95},
}

// StyleFor returns the fixed {style, color, strength, weight} tuple for an
// EdgeKind.
func StyleFor(kind EdgeKind) EdgeStyle {
	return edgeStyles[kind]
}

// GraphEdge is a resolved relationship between two component symbols.
type GraphEdge struct {
	Kind   EdgeKind
	Source string // fullyQualifiedName
	Target string // fullyQualifiedName
	Style  EdgeStyle
}

// componentKinds restricts the symbol index (and therefore resolution
// targets) to the kinds GraphAssembler renders as Component nodes.
var componentKinds = map[string]bool{
	"Class":     true,
	"Interface": true,
	"Struct":    true,
	"Enum":      true,
	"Method":    true,
}

// Result is C5's output: resolved edges plus a count of dropped
// invocations/usages for diagnostics.
type Result struct {
	Edges          []GraphEdge
	DroppedCalls   int
	DroppedUses    int
	DroppedInherit int
}

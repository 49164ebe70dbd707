package serialize

import (
	"encoding/json"
	"io"
)

// contextTerm describes one vocabulary term with explicit @id/@type
// annotations, so the NDJSON-LD stream is interpretable as linked data
// without loading every line.
type contextTerm struct {
	ID   string `json:"@id"`
	Type string `json:"@type,omitempty"`
}

// WriteContext emits the sibling context.jsonld document describing the
// term vocabulary the node stream's field names reference.
func WriteContext(w io.Writer) error {
	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"grafo":         "https://grafo.dev/ns#",
			"id":            "@id",
			"type":          "@type",
			"name":          "grafo:name",
			"fullName":      "grafo:fullName",
			"namespace":     "grafo:namespace",
			"project":       "grafo:project",
			"accessibility": "grafo:accessibility",
			"isAbstract":    "grafo:isAbstract",
			"isStatic":      "grafo:isStatic",
			"isSealed":      "grafo:isSealed",
			"layer":         "grafo:layer",
			"location":      "grafo:location",
			"containedIn":   contextTerm{ID: "grafo:containedIn", Type: "@id"},
			"contains":      contextTerm{ID: "grafo:contains", Type: "@id"},
			"hasMember":     contextTerm{ID: "grafo:hasMember", Type: "@id"},
			"calls":         contextTerm{ID: "grafo:calls", Type: "@id"},
			"callsVia":      contextTerm{ID: "grafo:callsVia", Type: "@id"},
			"indirectCall":  contextTerm{ID: "grafo:indirectCall", Type: "@id"},
			"implements":    contextTerm{ID: "grafo:implements", Type: "@id"},
			"inherits":      contextTerm{ID: "grafo:inherits", Type: "@id"},
			"uses":          contextTerm{ID: "grafo:uses", Type: "@id"},
			"Solution":      "grafo:Solution",
			"Layer":         "grafo:Layer",
			"Project":       "grafo:Project",
			"File":          "grafo:File",
			"Class":         "grafo:Class",
			"Interface":     "grafo:Interface",
			"Struct":        "grafo:Struct",
			"Enum":          "grafo:Enum",
			"Method":        "grafo:Method",
		},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

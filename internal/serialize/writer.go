package serialize

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"grafo/internal/graph"
	"grafo/internal/logging"
)

// relationGroup accumulates one node's outgoing relationships while edges
// are scanned once, before any line is written.
type relationGroup struct {
	containedIn string
	contains    []string
	hasMember   []string
	calls       []string
	implements  []string
	inherits    []string
	uses        []string
}

// groupEdges scans the edge list once and buckets each edge by its source
// node, preserving the assembler's construction order so every
// relationship array stays order-preserving.
func groupEdges(edges []graph.Edge) map[string]*relationGroup {
	groups := make(map[string]*relationGroup)
	group := func(id string) *relationGroup {
		g, ok := groups[id]
		if !ok {
			g = &relationGroup{}
			groups[id] = g
		}
		return g
	}

	for _, e := range edges {
		switch e.Kind {
		case graph.EdgeContains, graph.EdgeHasMember:
			src := group(e.Source)
			tgt := group(e.Target)
			tgt.containedIn = e.Source
			if e.Kind == graph.EdgeHasMember {
				src.hasMember = append(src.hasMember, e.Target)
			} else {
				src.contains = append(src.contains, e.Target)
			}
		case graph.EdgeCalls:
			group(e.Source).calls = append(group(e.Source).calls, e.Target)
		case graph.EdgeUses:
			group(e.Source).uses = append(group(e.Source).uses, e.Target)
		case graph.EdgeInherits:
			group(e.Source).inherits = append(group(e.Source).inherits, e.Target)
		case graph.EdgeImplements:
			group(e.Source).implements = append(group(e.Source).implements, e.Target)
		default:
			// dependsOn and projectReference are structural-graph-only
			// relationships; the node document schema has no field for
			// them, they surface only in the structural-only variant file.
		}
	}
	return groups
}

// Writer streams a graph.Result as NDJSON-LD.
type Writer struct {
	contextRef  string
	toolVersion string
	logger      *logging.Logger
}

// NewWriter builds a Writer. contextRef is the value of the metadata
// document's "context" field (a URL/relative path to a context.jsonld
// sibling); an empty value falls back to DefaultContextRef.
func NewWriter(contextRef, toolVersion string, logger *logging.Logger) *Writer {
	if contextRef == "" {
		contextRef = DefaultContextRef
	}
	return &Writer{contextRef: contextRef, toolVersion: toolVersion, logger: logger}
}

// WriteNodes writes the metadata line followed by one document per node.
// Grouping the edge list happens once, in O(N+E); after that, each line is
// built and written without holding the full output in memory, so memory
// usage beyond the already-assembled Result is bounded by the per-node
// relationship maps, not a second copy of the serialized text.
func (w *Writer) WriteNodes(dst io.Writer, result graph.Result, solutionPath string) (int, error) {
	bw := bufio.NewWriter(dst)
	groups := groupEdges(result.Edges)

	meta := MetadataDocument{
		Context:           w.contextRef,
		ID:                "grafo:run/" + uuid.NewString(),
		Type:              "CodeGraph",
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
		SolutionPath:      solutionPath,
		ToolVersion:       w.toolVersion,
		Format:            "NDJSON-LD",
		NodeCount:         len(result.Nodes),
		RelationshipCount: len(result.Edges),
	}
	if err := writeLine(bw, meta); err != nil {
		return 0, fmt.Errorf("metadata line: %w", err)
	}

	written := 0
	for _, n := range result.Nodes {
		doc := nodeDocument(n, groups[n.ID])
		if err := writeLine(bw, doc); err != nil {
			if w.logger != nil {
				w.logger.Warn("skipping unserializable node", map[string]interface{}{"id": n.ID, "error": err.Error()})
			}
			continue
		}
		written++
	}

	return written, bw.Flush()
}

func nodeDocument(n graph.Node, g *relationGroup) NodeDocument {
	doc := NodeDocument{
		ID:            n.ID,
		Type:          string(n.Kind),
		Name:          n.Name,
		FullName:      n.FullName,
		Namespace:     n.Namespace,
		Project:       n.Project,
		Accessibility: n.Accessibility,
		IsAbstract:    n.IsAbstract,
		IsStatic:      n.IsStatic,
		IsSealed:      n.IsSealed,
		Layer:         n.Layer,
	}
	if n.Location != nil {
		doc.Location = &Location{Path: n.Location.RelativePath, Line: n.Location.Line, Column: n.Location.Column}
	}
	if g != nil {
		doc.ContainedIn = g.containedIn
		doc.Contains = g.contains
		doc.HasMember = g.hasMember
		doc.Calls = g.calls
		doc.Implements = g.implements
		doc.Inherits = g.inherits
		doc.Uses = g.uses
	}
	return doc
}

func writeLine(w *bufio.Writer, v interface{}) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(line); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

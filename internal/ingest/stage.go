// Package ingest builds an in-memory staging representation of an
// assembled graph.Result using the scip (Source Code Intelligence
// Protocol) symbol/document shape, as a validation pass between
// GraphAssembler's output and GraphSerializer's NDJSON-LD stream. Staging
// documents are built, validated, and discarded per run; they are never
// themselves the persisted artifact.
package ingest

import (
	"github.com/sourcegraph/scip/bindings/go/scip"

	"grafo/internal/graph"
	"grafo/internal/identity"
)

// componentKinds are the node kinds promoted to scip.SymbolInformation
// entries; structural nodes (Solution/Layer/Project/File) have no scip
// symbol counterpart.
var componentKinds = map[identity.NodeKind]bool{
	identity.KindClass:     true,
	identity.KindInterface: true,
	identity.KindStruct:    true,
	identity.KindEnum:      true,
	identity.KindMethod:    true,
}

// symbolKindCodes maps a component node kind to a local scip symbol-kind
// code. This pipeline's five component kinds don't line up with scip's
// language-agnostic kind vocabulary one-for-one, so the code is used
// structurally (to round-trip through scip.SymbolInformation's typed Kind
// field) rather than to claim conformance with scip's own kind semantics.
var symbolKindCodes = map[identity.NodeKind]int32{
	identity.KindClass:     1,
	identity.KindInterface: 2,
	identity.KindStruct:    3,
	identity.KindEnum:      4,
	identity.KindMethod:    5,
}

// Stage converts one assembled graph into a scip.Document per File node,
// with each contained component carried as a scip.SymbolInformation and
// its resolved Calls/Uses/Inherits/Implements edges as scip.Relationships.
// Occurrence-level position data is already carried in graph.Node.Location
// and doesn't need duplicating into scip.Occurrence for this staging use.
func Stage(result graph.Result) []*scip.Document {
	byID := make(map[string]graph.Node, len(result.Nodes))
	for _, n := range result.Nodes {
		byID[n.ID] = n
	}

	childrenOf := make(map[string][]string)
	for _, e := range result.Edges {
		if e.Kind == graph.EdgeHasMember {
			childrenOf[e.Source] = append(childrenOf[e.Source], e.Target)
		}
	}

	relsBySource := relationshipsBySource(result.Edges)

	var docs []*scip.Document
	for _, n := range result.Nodes {
		if n.Kind != identity.KindFile {
			continue
		}
		doc := &scip.Document{Language: "csharp"}
		if n.Location != nil {
			doc.RelativePath = n.Location.RelativePath
		}
		for _, childID := range childrenOf[n.ID] {
			child, ok := byID[childID]
			if !ok || !componentKinds[child.Kind] {
				continue
			}
			doc.Symbols = append(doc.Symbols, &scip.SymbolInformation{
				Symbol:        child.ID,
				DisplayName:   child.Name,
				Kind:          scip.SymbolInformation_Kind(symbolKindCodes[child.Kind]),
				Relationships: relsBySource[child.ID],
			})
		}
		docs = append(docs, doc)
	}
	return docs
}

func relationshipsBySource(edges []graph.Edge) map[string][]*scip.Relationship {
	rels := make(map[string][]*scip.Relationship)
	for _, e := range edges {
		switch e.Kind {
		case graph.EdgeCalls:
			rels[e.Source] = append(rels[e.Source], &scip.Relationship{Symbol: e.Target, IsReference: true})
		case graph.EdgeUses:
			rels[e.Source] = append(rels[e.Source], &scip.Relationship{Symbol: e.Target, IsTypeDefinition: true})
		case graph.EdgeInherits, graph.EdgeImplements:
			rels[e.Source] = append(rels[e.Source], &scip.Relationship{Symbol: e.Target, IsImplementation: true})
		}
	}
	return rels
}

// SymbolCount totals the staged symbols across every document, the figure
// the pipeline logs as a cross-check against the assembled graph's
// component node count before writing the NDJSON-LD stream.
func SymbolCount(docs []*scip.Document) int {
	count := 0
	for _, d := range docs {
		count += len(d.Symbols)
	}
	return count
}

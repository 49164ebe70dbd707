package serialize

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"grafo/internal/graph"
)

// WriteStatsCSV tabulates result.Statistics as a metric,value table.
func WriteStatsCSV(w io.Writer, stats graph.Statistics) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"metric", "value"}); err != nil {
		return err
	}

	write := func(metric string, value int) error {
		return writer.Write([]string{metric, fmt.Sprintf("%d", value)})
	}

	for _, kind := range sortedKeys(stats.NodesByKind) {
		if err := write("nodes."+kind, stats.NodesByKind[kind]); err != nil {
			return err
		}
	}
	for _, kind := range sortedKeys(stats.EdgesByKind) {
		if err := write("edges."+kind, stats.EdgesByKind[kind]); err != nil {
			return err
		}
	}
	for _, l := range sortedKeys(stats.ProjectsByLayer) {
		if err := write("projectsByLayer."+l, stats.ProjectsByLayer[l]); err != nil {
			return err
		}
	}
	for _, rel := range sortedKeys(stats.SemanticEdgesByRelation) {
		if err := write("semanticEdges."+rel, stats.SemanticEdgesByRelation[rel]); err != nil {
			return err
		}
	}

	return writer.Error()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

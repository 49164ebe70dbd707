package graph

// buildStatistics tallies nodes/edges by kind, projects per layer, and
// semantic edges by relation.
func buildStatistics(nodes []Node, edges []Edge, projects []ProjectInput) Statistics {
	stats := Statistics{
		NodesByKind:             make(map[string]int),
		EdgesByKind:             make(map[string]int),
		ProjectsByLayer:         make(map[string]int),
		SemanticEdgesByRelation: make(map[string]int),
	}

	for _, n := range nodes {
		stats.NodesByKind[string(n.Kind)]++
	}
	for _, e := range edges {
		stats.EdgesByKind[string(e.Kind)]++
		switch e.Kind {
		case EdgeCalls, EdgeUses, EdgeInherits, EdgeImplements:
			stats.SemanticEdgesByRelation[string(e.Kind)]++
		}
	}
	for _, p := range projects {
		stats.ProjectsByLayer[string(p.Layer.Layer)]++
	}

	return stats
}

package graph

import "grafo/internal/identity"

// structuralKinds is the node-kind subset the structural-only variant
// retains.
var structuralKinds = map[identity.NodeKind]bool{
	identity.KindSolution: true,
	identity.KindLayer:    true,
	identity.KindProject:  true,
	identity.KindFile:     true,
}

// StructuralOnly derives the "structural-only" projection: Solution, Layer,
// Project, and File nodes, the edges whose endpoints both survive, and
// clusters intersected with the surviving node set.
func StructuralOnly(full Result) Result {
	survivingNodes := make([]Node, 0, len(full.Nodes))
	survives := make(map[string]bool, len(full.Nodes))
	for _, n := range full.Nodes {
		if !structuralKinds[n.Kind] {
			continue
		}
		survivingNodes = append(survivingNodes, n)
		survives[n.ID] = true
	}

	survivingEdges := make([]Edge, 0, len(full.Edges))
	for _, e := range full.Edges {
		if survives[e.Source] && survives[e.Target] {
			survivingEdges = append(survivingEdges, e)
		}
	}

	var survivingClusters []Cluster
	for _, c := range full.Clusters {
		var members []string
		for _, id := range c.NodeIDs {
			if survives[id] {
				members = append(members, id)
			}
		}
		if len(members) == 0 {
			continue
		}
		survivingClusters = append(survivingClusters, Cluster{
			ID:      c.ID,
			Layer:   c.Layer,
			Color:   c.Color,
			NodeIDs: members,
		})
	}

	return Result{
		Nodes:      survivingNodes,
		Edges:      survivingEdges,
		Clusters:   survivingClusters,
		Statistics: buildStatisticsFromNodesEdges(survivingNodes, survivingEdges),
		Metadata:   full.Metadata,
	}
}

// FilterByKind keeps only nodes whose Kind is named in kinds (always
// retaining Solution, Layer, and Project nodes so the structural skeleton
// survives regardless of what the caller asked for), plus the edges and
// clusters that still have all their endpoints present.
func FilterByKind(full Result, kinds []string) Result {
	if len(kinds) == 0 {
		return full
	}
	keep := make(map[identity.NodeKind]bool, len(kinds))
	for _, k := range kinds {
		keep[identity.NodeKind(k)] = true
	}
	keep[identity.KindSolution] = true
	keep[identity.KindLayer] = true
	keep[identity.KindProject] = true

	survivingNodes := make([]Node, 0, len(full.Nodes))
	survives := make(map[string]bool, len(full.Nodes))
	for _, n := range full.Nodes {
		if !keep[n.Kind] {
			continue
		}
		survivingNodes = append(survivingNodes, n)
		survives[n.ID] = true
	}

	survivingEdges := make([]Edge, 0, len(full.Edges))
	for _, e := range full.Edges {
		if survives[e.Source] && survives[e.Target] {
			survivingEdges = append(survivingEdges, e)
		}
	}

	var survivingClusters []Cluster
	for _, c := range full.Clusters {
		var members []string
		for _, id := range c.NodeIDs {
			if survives[id] {
				members = append(members, id)
			}
		}
		if len(members) == 0 {
			continue
		}
		survivingClusters = append(survivingClusters, Cluster{
			ID:      c.ID,
			Layer:   c.Layer,
			Color:   c.Color,
			NodeIDs: members,
		})
	}

	return Result{
		Nodes:      survivingNodes,
		Edges:      survivingEdges,
		Clusters:   survivingClusters,
		Statistics: buildStatisticsFromNodesEdges(survivingNodes, survivingEdges),
		Metadata:   full.Metadata,
	}
}

// buildStatisticsFromNodesEdges recomputes node/edge-kind tallies for a
// derived variant, without needing the original ProjectInput slice.
func buildStatisticsFromNodesEdges(nodes []Node, edges []Edge) Statistics {
	stats := Statistics{
		NodesByKind:             make(map[string]int),
		EdgesByKind:             make(map[string]int),
		ProjectsByLayer:         make(map[string]int),
		SemanticEdgesByRelation: make(map[string]int),
	}
	for _, n := range nodes {
		stats.NodesByKind[string(n.Kind)]++
		if n.Kind == identity.KindProject {
			stats.ProjectsByLayer[n.Layer]++
		}
	}
	for _, e := range edges {
		stats.EdgesByKind[string(e.Kind)]++
	}
	return stats
}

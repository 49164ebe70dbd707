package graph

import "grafo/internal/layer"

// buildClusters produces one cluster per detected layer, holding its
// member projects' node ids, colored with the pastel variant of the
// layer's color.
func buildClusters(projects []ProjectInput, layerIDs map[layer.Kind]string, projectIDs map[string]string) []Cluster {
	var clusters []Cluster
	for _, k := range allLayerKinds {
		layerID, ok := layerIDs[k]
		if !ok {
			continue
		}
		var members []string
		for _, p := range projects {
			if p.Layer.Layer == k {
				members = append(members, projectIDs[p.Project.Name])
			}
		}
		if len(members) == 0 {
			continue
		}
		clusters = append(clusters, Cluster{
			ID:      layerID,
			Layer:   string(k),
			Color:   pastel(colorForLayer(k)),
			NodeIDs: members,
		})
	}
	return clusters
}

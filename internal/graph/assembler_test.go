package graph

import (
	"testing"

	"grafo/internal/identity"
	"grafo/internal/layer"
	"grafo/internal/resolve"
	"grafo/internal/semantic"
	"grafo/internal/solution"
)

func sampleProjects() []ProjectInput {
	orderFile := semantic.ParsedFile{Path: "/repo/Billing/OrderService.cs", Project: "Billing"}
	repoFile := semantic.ParsedFile{Path: "/repo/Billing.Data/OrderRepository.cs", Project: "Billing.Data"}

	return []ProjectInput{
		{
			Project:  solution.Project{Name: "Billing", Path: "/repo/Billing/Billing.csproj", Dir: "/repo/Billing"},
			Metadata: solution.ProjectMetadata{AssemblyName: "Billing", ProjectReferences: []string{"/repo/Billing.Data/Billing.Data.csproj"}},
			Layer:    layer.Result{ProjectName: "Billing", Layer: layer.Business, Confidence: 0.9, Source: layer.SourceNaming},
			Files:    []semantic.ParsedFile{orderFile},
			Walk: semantic.WalkResult{
				Symbols: []semantic.SymbolRecord{
					{Name: "OrderService", FullyQualifiedName: "Billing.OrderService", Kind: "Class", Project: "Billing", File: orderFile.Path},
					{Name: "Place", FullyQualifiedName: "Billing.OrderService.Place", Kind: "Method", Project: "Billing", File: orderFile.Path},
				},
			},
		},
		{
			Project:  solution.Project{Name: "Billing.Data", Path: "/repo/Billing.Data/Billing.Data.csproj", Dir: "/repo/Billing.Data"},
			Metadata: solution.ProjectMetadata{AssemblyName: "Billing.Data"},
			Layer:    layer.Result{ProjectName: "Billing.Data", Layer: layer.Data, Confidence: 0.9, Source: layer.SourceNaming},
			Files:    []semantic.ParsedFile{repoFile},
			Walk: semantic.WalkResult{
				Symbols: []semantic.SymbolRecord{
					{Name: "IOrderRepository", FullyQualifiedName: "Billing.Data.IOrderRepository", Kind: "Interface", Project: "Billing.Data", File: repoFile.Path},
					{Name: "Save", FullyQualifiedName: "Billing.Data.IOrderRepository.Save", Kind: "Method", Project: "Billing.Data", File: repoFile.Path},
				},
			},
		},
	}
}

func TestAssembleNodeConstructionOrder(t *testing.T) {
	canon := identity.NewCanonicalizer()
	a := NewAssembler(canon)
	resolved := resolve.Result{Edges: []resolve.GraphEdge{
		{Kind: resolve.Calls, Source: "Billing.OrderService.Place", Target: "Billing.Data.IOrderRepository.Save", Style: resolve.StyleFor(resolve.Calls)},
	}}

	result := a.Assemble("/repo/Billing.sln", "1.0.0", sampleProjects(), resolved)

	kindOf := func(k identity.NodeKind) int {
		n := 0
		for _, node := range result.Nodes {
			if node.Kind == k {
				n++
			}
		}
		return n
	}

	if kindOf(identity.KindSolution) != 1 {
		t.Errorf("want 1 Solution node, got %d", kindOf(identity.KindSolution))
	}
	if kindOf(identity.KindLayer) != 2 {
		t.Errorf("want 2 Layer nodes (Business, Data), got %d", kindOf(identity.KindLayer))
	}
	if kindOf(identity.KindProject) != 2 {
		t.Errorf("want 2 Project nodes, got %d", kindOf(identity.KindProject))
	}
	if kindOf(identity.KindFile) != 2 {
		t.Errorf("want 2 File nodes, got %d", kindOf(identity.KindFile))
	}
	if kindOf(identity.KindClass) != 1 || kindOf(identity.KindInterface) != 1 || kindOf(identity.KindMethod) != 2 {
		t.Errorf("want 1 Class, 1 Interface, 2 Method nodes; got Class=%d Interface=%d Method=%d",
			kindOf(identity.KindClass), kindOf(identity.KindInterface), kindOf(identity.KindMethod))
	}

	// Solution node must come first, per construction order.
	if result.Nodes[0].Kind != identity.KindSolution {
		t.Errorf("Nodes[0].Kind = %q, want Solution", result.Nodes[0].Kind)
	}
}

func TestAssembleEdgeConstructionOrder(t *testing.T) {
	canon := identity.NewCanonicalizer()
	a := NewAssembler(canon)
	resolved := resolve.Result{Edges: []resolve.GraphEdge{
		{Kind: resolve.Calls, Source: "Billing.OrderService.Place", Target: "Billing.Data.IOrderRepository.Save", Style: resolve.StyleFor(resolve.Calls)},
	}}

	result := a.Assemble("/repo/Billing.sln", "1.0.0", sampleProjects(), resolved)

	countKind := func(k EdgeKind) int {
		n := 0
		for _, e := range result.Edges {
			if e.Kind == k {
				n++
			}
		}
		return n
	}

	if countKind(EdgeContains) == 0 {
		t.Error("want at least one contains edge (Solution->Layer, Layer->Project, Project->File)")
	}
	if countKind(EdgeHasMember) != 4 {
		t.Errorf("want 4 hasMember edges (File->Component for 2 classes/interfaces + 2 methods), got %d", countKind(EdgeHasMember))
	}
	if countKind(EdgeDependsOn) != 1 {
		t.Errorf("want 1 dependsOn edge (Business->Data adjacency), got %d", countKind(EdgeDependsOn))
	}
	if countKind(EdgeProjectReference) != 1 {
		t.Errorf("want 1 projectReference edge (Billing -> Billing.Data), got %d", countKind(EdgeProjectReference))
	}
	if countKind(EdgeCalls) != 1 {
		t.Errorf("want 1 Calls edge from C5's resolved output, got %d", countKind(EdgeCalls))
	}
}

func TestAssembleClustersOnePerLayer(t *testing.T) {
	canon := identity.NewCanonicalizer()
	a := NewAssembler(canon)
	result := a.Assemble("/repo/Billing.sln", "1.0.0", sampleProjects(), resolve.Result{})

	if len(result.Clusters) != 2 {
		t.Fatalf("want 2 clusters, got %d", len(result.Clusters))
	}
	for _, c := range result.Clusters {
		if len(c.NodeIDs) != 1 {
			t.Errorf("cluster %q has %d members, want 1", c.Layer, len(c.NodeIDs))
		}
	}
}

func TestAssembleStatistics(t *testing.T) {
	canon := identity.NewCanonicalizer()
	a := NewAssembler(canon)
	resolved := resolve.Result{Edges: []resolve.GraphEdge{
		{Kind: resolve.Calls, Source: "Billing.OrderService.Place", Target: "Billing.Data.IOrderRepository.Save", Style: resolve.StyleFor(resolve.Calls)},
	}}
	result := a.Assemble("/repo/Billing.sln", "1.0.0", sampleProjects(), resolved)

	if result.Statistics.ProjectsByLayer["business"] != 1 || result.Statistics.ProjectsByLayer["data"] != 1 {
		t.Errorf("got ProjectsByLayer %+v, want business=1 data=1", result.Statistics.ProjectsByLayer)
	}
	if result.Statistics.SemanticEdgesByRelation["Calls"] != 1 {
		t.Errorf("got SemanticEdgesByRelation %+v, want Calls=1", result.Statistics.SemanticEdgesByRelation)
	}
}

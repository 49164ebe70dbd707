package graph

import (
	"path/filepath"

	"grafo/internal/identity"
	"grafo/internal/layer"
	"grafo/internal/resolve"
	"grafo/internal/semantic"
	"grafo/internal/solution"
)

// componentKinds restricts Component node construction to the same kinds
// RelationResolver indexes, so every resolved edge endpoint has a node to
// land on.
var componentKinds = map[string]bool{
	"Class":     true,
	"Interface": true,
	"Struct":    true,
	"Enum":      true,
	"Method":    true,
}

// ProjectInput is everything the assembler needs about one surviving
// project: its identity, declared references, classified layer, parsed
// files, and the symbols/relations its semantic walk produced.
type ProjectInput struct {
	Project  solution.Project
	Metadata solution.ProjectMetadata
	Layer    layer.Result
	Files    []semantic.ParsedFile
	Walk     semantic.WalkResult
}

// Assembler builds a Result from one solution's compiled, classified,
// resolved inputs.
type Assembler struct {
	canon *identity.Canonicalizer
}

// NewAssembler returns an Assembler using canon to mint every node id.
func NewAssembler(canon *identity.Canonicalizer) *Assembler {
	return &Assembler{canon: canon}
}

// builder accumulates nodes/edges/clusters while one Assemble call runs.
type builder struct {
	canon      *identity.Canonicalizer
	nodes      []Node
	edges      []Edge
	nodeByID   map[string]int
	projectIDs map[string]string // project name -> node id
	layerIDs   map[layer.Kind]string
	symbolIDs  map[string]string // fullyQualifiedName -> component node id
}

// Assemble runs the full C6 node/edge construction order over projects and
// resolved, producing the complete (non-variant) graph.
func (a *Assembler) Assemble(solutionPath, toolVersion string, projects []ProjectInput, resolved resolve.Result) Result {
	b := &builder{
		canon:      a.canon,
		nodeByID:   make(map[string]int),
		projectIDs: make(map[string]string),
		layerIDs:   make(map[layer.Kind]string),
		symbolIDs:  make(map[string]string),
	}

	repoRoot := findRepoRoot(filepath.Dir(solutionPath))

	b.addSolutionNode(solutionPath)
	b.addLayerNodes(projects)
	b.addProjectNodes(projects)
	fileIDsByAbsPath := b.addFileNodes(repoRoot, projects)
	b.addComponentNodes(repoRoot, projects, fileIDsByAbsPath)

	b.wireSolutionToLayer()
	b.wireLayerToProject(projects)
	b.wireProjectToFile(projects, fileIDsByAbsPath)
	b.wireFileToComponent(projects, fileIDsByAbsPath)
	b.wireLayerGradient()
	b.wireProjectReferences(projects)
	b.wireSemanticEdges(resolved)

	clusters := buildClusters(projects, b.layerIDs, b.projectIDs)
	stats := buildStatistics(b.nodes, b.edges, projects)

	return Result{
		Nodes:      b.nodes,
		Edges:      b.edges,
		Clusters:   clusters,
		Statistics: stats,
		Metadata: Metadata{
			SolutionPath: solutionPath,
			ToolVersion:  toolVersion,
		},
	}
}

func (b *builder) addNode(n Node) {
	b.nodeByID[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
}

func (b *builder) addEdge(kind EdgeKind, source, target string) {
	if source == "" || target == "" {
		return
	}
	b.edges = append(b.edges, Edge{Kind: kind, Source: source, Target: target})
}

// --- node construction, in spec order ---

func (b *builder) addSolutionNode(solutionPath string) {
	id := b.canon.ID(identity.KindSolution, solutionPath, "")
	b.addNode(Node{
		ID:         id,
		Kind:       identity.KindSolution,
		Name:       filepath.Base(solutionPath),
		FullName:   solutionPath,
		Layer:      "root",
		Importance: 10,
		Color:      "#111827",
	})
}

func (b *builder) solutionID() string {
	return b.nodes[0].ID
}

// allLayerKinds fixes the iteration order for layer-node creation, so the
// assembled node slice is deterministic regardless of project order.
var allLayerKinds = []layer.Kind{
	layer.Presentation,
	layer.Services,
	layer.Business,
	layer.Data,
	layer.Infrastructure,
	layer.Shared,
	layer.Test,
}

func (b *builder) addLayerNodes(projects []ProjectInput) {
	counts := map[layer.Kind]int{}
	for _, p := range projects {
		counts[p.Layer.Layer]++
	}
	for _, k := range allLayerKinds {
		n := counts[k]
		if n == 0 {
			continue
		}
		id := b.canon.ID(identity.KindLayer, string(k), "")
		b.layerIDs[k] = id
		b.addNode(Node{
			ID:         id,
			Kind:       identity.KindLayer,
			Name:       string(k),
			FullName:   string(k),
			Layer:      string(k),
			Importance: 8,
			Color:      colorForLayer(k),
			Size:       float64(n),
		})
	}
}

func (b *builder) addProjectNodes(projects []ProjectInput) {
	for _, p := range projects {
		id := b.canon.ID(identity.KindProject, p.Project.Path, "")
		b.projectIDs[p.Project.Name] = id
		density := 0.0
		if len(p.Files) > 0 {
			density = float64(len(p.Walk.Symbols)) / float64(len(p.Files))
		}
		b.addNode(Node{
			ID:         id,
			Kind:       identity.KindProject,
			Name:       p.Project.Name,
			FullName:   p.Metadata.AssemblyName,
			Project:    p.Project.Name,
			Layer:      string(p.Layer.Layer),
			Importance: 5,
			Color:      colorForLayer(p.Layer.Layer),
			Size:       density,
		})
	}
}

func (b *builder) addFileNodes(repoRoot string, projects []ProjectInput) map[string]string {
	ids := make(map[string]string)
	for _, p := range projects {
		for _, f := range p.Files {
			id := b.canon.ID(identity.KindFile, f.Path, "")
			ids[f.Path] = id
			importance, color := fileImportanceAndColor(filepath.Base(f.Path))
			b.addNode(Node{
				ID:         id,
				Kind:       identity.KindFile,
				Name:       filepath.Base(f.Path),
				FullName:   f.Path,
				Project:    p.Project.Name,
				Layer:      string(p.Layer.Layer),
				Location:   newLocation(repoRoot, f.Path, 0, 0),
				Importance: importance,
				Color:      color,
			})
		}
	}
	return ids
}

func (b *builder) addComponentNodes(repoRoot string, projects []ProjectInput, fileIDs map[string]string) {
	for _, p := range projects {
		for _, s := range p.Walk.Symbols {
			if !componentKinds[s.Kind] {
				continue
			}
			kind := identity.NodeKind(s.Kind)
			id := b.canon.ID(kind, s.FullyQualifiedName, "")
			b.symbolIDs[s.FullyQualifiedName] = id
			b.addNode(Node{
				ID:            id,
				Kind:          kind,
				Name:          s.Name,
				FullName:      s.FullyQualifiedName,
				Project:       p.Project.Name,
				Accessibility: string(s.Accessibility),
				IsAbstract:    s.Modifiers.Abstract,
				IsStatic:      s.Modifiers.Static,
				IsSealed:      s.Modifiers.Sealed,
				Layer:         string(p.Layer.Layer),
				Location:      newLocation(repoRoot, s.File, s.Line, s.Column),
				Importance:    1,
				Color:         colorForLayer(p.Layer.Layer),
			})
		}
	}
}

// --- edge construction, in spec order ---

func (b *builder) wireSolutionToLayer() {
	sol := b.solutionID()
	for _, k := range allLayerKinds {
		if id, ok := b.layerIDs[k]; ok {
			b.addEdge(EdgeContains, sol, id)
		}
	}
}

func (b *builder) wireLayerToProject(projects []ProjectInput) {
	for _, p := range projects {
		layerID, ok := b.layerIDs[p.Layer.Layer]
		if !ok {
			continue
		}
		b.addEdge(EdgeContains, layerID, b.projectIDs[p.Project.Name])
	}
}

func (b *builder) wireProjectToFile(projects []ProjectInput, fileIDs map[string]string) {
	for _, p := range projects {
		projectID := b.projectIDs[p.Project.Name]
		for _, f := range p.Files {
			b.addEdge(EdgeContains, projectID, fileIDs[f.Path])
		}
	}
}

func (b *builder) wireFileToComponent(projects []ProjectInput, fileIDs map[string]string) {
	for _, p := range projects {
		for _, s := range p.Walk.Symbols {
			if !componentKinds[s.Kind] {
				continue
			}
			fileID, ok := fileIDs[s.File]
			if !ok {
				continue
			}
			b.addEdge(EdgeHasMember, fileID, b.symbolIDs[s.FullyQualifiedName])
		}
	}
}

func (b *builder) wireLayerGradient() {
	for i := 0; i < len(layerGradient)-1; i++ {
		from, fromOK := b.layerIDs[layerGradient[i]]
		to, toOK := b.layerIDs[layerGradient[i+1]]
		if fromOK && toOK {
			b.addEdge(EdgeDependsOn, from, to)
		}
	}
}

func (b *builder) wireProjectReferences(projects []ProjectInput) {
	byStem := make(map[string]string, len(projects))
	for _, p := range projects {
		byStem[stem(p.Project.Path)] = p.Project.Name
	}
	for _, p := range projects {
		sourceID := b.projectIDs[p.Project.Name]
		for _, ref := range p.Metadata.ProjectReferences {
			targetName, ok := byStem[stem(ref)]
			if !ok {
				continue // reference points outside the filtered project set
			}
			b.addEdge(EdgeProjectReference, sourceID, b.projectIDs[targetName])
		}
	}
}

func (b *builder) wireSemanticEdges(resolved resolve.Result) {
	for _, e := range resolved.Edges {
		sourceID, sourceOK := b.symbolIDs[e.Source]
		targetID, targetOK := b.symbolIDs[e.Target]
		if !sourceOK {
			continue
		}
		if !targetOK {
			// Implements/Inherits may legitimately target an unindexed
			// external type; carry the raw fully qualified name through
			// rather than dropping the edge C5 chose to keep.
			targetID = e.Target
		}
		b.addEdge(EdgeKind(e.Kind), sourceID, targetID)
	}
}

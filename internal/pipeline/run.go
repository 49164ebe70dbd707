// Package pipeline wires CompilationHost (C1) through IncrementalProcessor
// (C10) into one bounded-parallel run over a single solution: compile each
// surviving project in turn, classify and walk the compiled projects
// concurrently, resolve and assemble the graph
// single-threaded once every project has finished, then serialize, ingest,
// and record incremental state.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"grafo/internal/config"
	"grafo/internal/grafoerrors"
	"grafo/internal/graph"
	"grafo/internal/identity"
	"grafo/internal/incremental"
	"grafo/internal/ingest"
	"grafo/internal/layer"
	"grafo/internal/logging"
	"grafo/internal/resolve"
	"grafo/internal/semantic"
	"grafo/internal/serialize"
	"grafo/internal/solution"
	"grafo/internal/store"
	"grafo/internal/version"
)

// Options governs one Run over a single solution.
type Options struct {
	SolutionPath string
	NodesPath    string   // primary NDJSON-LD output (required)
	GraphPath    string   // optional structural-only projection
	StatsCSVPath string   // optional metric,value statistics table
	FilterTypes  []string // if set, restrict emitted component node kinds (Solution/Layer/Project always kept)
	Concurrency  int      // 0 means errgroup's unlimited default
	ProgressSink solution.ProgressSink

	// Confirm, when set, is invoked once C3's layer summary is available and
	// before resolution/assembly proceed. Returning false aborts the run
	// cleanly (Summary.Aborted is set, no output is written). Only wired
	// when the caller's configuration marks the run interactive.
	Confirm func(layer.Summary) bool
}

// Summary is the per-run report surfaced to the CLI.
type Summary struct {
	Attempted    int
	Excluded     int
	Failed       int
	Succeeded    int
	NodeCount    int
	EdgeCount    int
	LayerSummary layer.Summary
	Aborted      bool
	Incremental  incremental.Summary
}

// Run executes C1 through C10 against a single solution, writing the
// primary NDJSON-LD node stream to opts.NodesPath and, if opts.GraphPath is
// set, the structural-only projection alongside it.
func Run(ctx context.Context, cfg *config.Config, opts Options, db *store.DB, logger *logging.Logger) (Summary, error) {
	filter := solution.NewFilterWithInclude(cfg.ProjectFilter.ExcludePatterns, cfg.ProjectFilter.IncludeOnly, logger)
	host := solution.NewHost(solution.HostConfig{
		AllowCompilationErrors: cfg.Compilation.AllowCompilationErrors,
		BinderStrategy:         cfg.Compilation.BinderStrategy,
	}, filter, logger, opts.ProgressSink)

	allProjects, err := solution.ParseSolutionFile(opts.SolutionPath)
	if err != nil {
		return Summary{}, grafoerrors.New(grafoerrors.BindingFailure, "unable to parse solution file", err).
			WithDetails(map[string]any{"solutionPath": opts.SolutionPath})
	}

	compilations, err := host.Compile(ctx, opts.SolutionPath)
	if err != nil {
		return Summary{}, err
	}

	inputs, err := classifyAndWalk(ctx, opts, compilations, cfg, logger)
	if err != nil {
		return Summary{}, err
	}

	layerResults := make([]layer.Result, 0, len(inputs))
	for _, in := range inputs {
		layerResults = append(layerResults, in.Layer)
	}
	layerSummary := layer.BuildSummary(layerResults)

	if opts.Confirm != nil && !opts.Confirm(layerSummary) {
		return Summary{
			Attempted:    len(compilations),
			Excluded:     len(allProjects) - len(compilations),
			Failed:       len(compilations) - len(inputs),
			Succeeded:    len(inputs),
			LayerSummary: layerSummary,
			Aborted:      true,
		}, nil
	}

	merged := mergeWalks(inputs)
	resolver := resolve.NewResolver(merged.symbols, cfg.Resolution.PermitExternalBaseClasses)
	resolved := resolver.Resolve(merged.walk)

	canon := identity.NewCanonicalizer()
	assembler := graph.NewAssembler(canon)
	result := assembler.Assemble(opts.SolutionPath, version.Version, inputs, resolved)
	result.Metadata.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

	if len(opts.FilterTypes) > 0 {
		result = graph.FilterByKind(result, opts.FilterTypes)
	}

	summary := Summary{
		Attempted:    len(compilations),
		Excluded:     len(allProjects) - len(compilations),
		Failed:       len(compilations) - len(inputs),
		Succeeded:    len(inputs),
		NodeCount:    len(result.Nodes),
		EdgeCount:    len(result.Edges),
		LayerSummary: layerSummary,
	}

	stagedDocs := ingest.Stage(result)
	stagedSymbols := ingest.SymbolCount(stagedDocs)
	if componentNodes := countComponentNodes(result); stagedSymbols != componentNodes && logger != nil {
		logger.Warn("staged scip symbol count disagrees with assembled component node count", map[string]interface{}{
			"stagedSymbols":  stagedSymbols,
			"componentNodes": componentNodes,
			"solutionPath":   opts.SolutionPath,
		})
	}

	writer := serialize.NewWriter(serialize.DefaultContextRef, version.Version, logger)

	var nodeStream bytes.Buffer
	if _, err := writer.WriteNodes(&nodeStream, result, opts.SolutionPath); err != nil {
		return summary, grafoerrors.New(grafoerrors.SerializationError, "writing node stream", err)
	}

	out, err := serialize.CreateOutput(opts.NodesPath)
	if err != nil {
		return summary, grafoerrors.New(grafoerrors.SerializationError, "opening node output", err)
	}
	if _, err := out.Write(nodeStream.Bytes()); err != nil {
		out.Close()
		return summary, grafoerrors.New(grafoerrors.SerializationError, "writing node output", err)
	}
	if err := out.Close(); err != nil {
		return summary, grafoerrors.New(grafoerrors.SerializationError, "closing node output", err)
	}

	if opts.GraphPath != "" {
		if err := writeGraphVariant(result, opts.GraphPath, writer); err != nil {
			return summary, err
		}
	}

	if opts.StatsCSVPath != "" {
		if err := writeStatsCSV(result, opts.StatsCSVPath); err != nil {
			return summary, err
		}
	}

	incSummary, err := recordIncremental(db, opts.SolutionPath, inputs)
	if err != nil {
		return summary, err
	}
	summary.Incremental = incSummary

	if db != nil {
		ingestResult := db.IngestStream(bytes.NewReader(nodeStream.Bytes()), solutionName(opts.SolutionPath), logger)
		if ingestResult.Error != nil {
			return summary, grafoerrors.NewIngestError(solutionName(opts.SolutionPath), ingestResult.Error)
		}
	}

	return summary, nil
}

// projectWalk is one surviving project's classification and semantic walk,
// produced concurrently and merged single-threaded afterward.
type projectWalk struct {
	input graph.ProjectInput
	err   error
}

// classifyAndWalk runs C3 and C4 for every compiled project with bounded
// parallelism, then returns the inputs in stable project order.
func classifyAndWalk(ctx context.Context, opts Options, compilations []solution.Compilation, cfg *config.Config, logger *logging.Logger) ([]graph.ProjectInput, error) {
	g, gCtx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	results := make([]projectWalk, len(compilations))
	solutionRoot := solutionDir(opts.SolutionPath)

	for i, comp := range compilations {
		i, comp := i, comp
		g.Go(func() error {
			meta, _ := solution.ReadProjectMetadata(comp.Project)

			layerResult := layer.Classify(solutionRoot, layer.Project{
				Name: comp.Project.Name,
				Dir:  comp.Project.Dir,
			}, cfg.LayerClassification.Mode)

			walker := semantic.NewWalker()
			walk, err := walker.WalkProject(gCtx, comp.Project.Name, comp.Files)
			if err != nil {
				results[i] = projectWalk{err: err}
				return nil // per-file/per-project walk errors are logged and skipped, not fatal to the run
			}

			results[i] = projectWalk{input: graph.ProjectInput{
				Project:  comp.Project,
				Metadata: meta,
				Layer:    layerResult,
				Files:    comp.Files,
				Walk:     walk,
			}}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	inputs := make([]graph.ProjectInput, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			if logger != nil {
				logger.Warn("project walk failed; excluding from graph", map[string]interface{}{"error": r.err.Error()})
			}
			continue
		}
		inputs = append(inputs, r.input)
	}
	return inputs, nil
}

type mergedWalk struct {
	walk    semantic.WalkResult
	symbols []semantic.SymbolRecord
}

func mergeWalks(inputs []graph.ProjectInput) mergedWalk {
	var m mergedWalk
	for _, in := range inputs {
		m.walk.Symbols = append(m.walk.Symbols, in.Walk.Symbols...)
		m.walk.Invocations = append(m.walk.Invocations, in.Walk.Invocations...)
		m.walk.TypeUsages = append(m.walk.TypeUsages, in.Walk.TypeUsages...)
		m.walk.Inheritance = append(m.walk.Inheritance, in.Walk.Inheritance...)
		m.walk.Implementations = append(m.walk.Implementations, in.Walk.Implementations...)
		m.symbols = append(m.symbols, in.Walk.Symbols...)
	}
	return m
}

func writeStatsCSV(result graph.Result, path string) error {
	out, err := serialize.CreateOutput(path)
	if err != nil {
		return grafoerrors.New(grafoerrors.SerializationError, "opening stats output", err)
	}
	defer out.Close()
	if err := serialize.WriteStatsCSV(out, result.Statistics); err != nil {
		return grafoerrors.New(grafoerrors.SerializationError, "writing stats csv", err)
	}
	return nil
}

func writeGraphVariant(result graph.Result, path string, writer *serialize.Writer) error {
	variant := graph.StructuralOnly(result)
	out, err := serialize.CreateOutput(path)
	if err != nil {
		return grafoerrors.New(grafoerrors.SerializationError, "opening graph output", err)
	}
	defer out.Close()
	if _, err := writer.WriteNodes(out, variant, result.Metadata.SolutionPath); err != nil {
		return grafoerrors.New(grafoerrors.SerializationError, "writing graph projection", err)
	}
	return nil
}

// recordIncremental evaluates C10 for every project input against the
// store's processing-state table, accumulating the per-run summary.
func recordIncremental(db *store.DB, solutionPath string, inputs []graph.ProjectInput) (incremental.Summary, error) {
	var sum incremental.Summary
	if db == nil {
		return sum, nil
	}

	proc := incremental.NewProcessor(db)
	solName := solutionName(solutionPath)

	total, err := db.CountProjects(solName)
	if err != nil {
		return sum, err
	}
	sum.TotalInDB = total

	for _, in := range inputs {
		content := projectContentBytes(in)
		outcome, err := proc.Evaluate(in.Project.Name, solName, string(in.Layer.Layer), content)
		if err != nil {
			return sum, err
		}
		sum.Record(outcome)
	}
	return sum, nil
}

// projectContentBytes is the byte stream C10 hashes: the project's own
// symbol set, independent of the rest of the solution, so an unrelated
// project's change does not perturb this one's content hash.
func projectContentBytes(in graph.ProjectInput) []byte {
	var buf bytes.Buffer
	for _, s := range in.Walk.Symbols {
		fmt.Fprintf(&buf, "%s|%s|%s\n", s.Kind, s.FullyQualifiedName, s.Accessibility)
	}
	return buf.Bytes()
}

// componentNodeKinds mirrors ingest.Stage's notion of which node kinds carry
// a scip symbol, so the two counts are comparable.
var componentNodeKinds = map[identity.NodeKind]bool{
	identity.KindClass:     true,
	identity.KindInterface: true,
	identity.KindStruct:    true,
	identity.KindEnum:      true,
	identity.KindMethod:    true,
}

func countComponentNodes(result graph.Result) int {
	n := 0
	for _, node := range result.Nodes {
		if componentNodeKinds[node.Kind] {
			n++
		}
	}
	return n
}

func solutionDir(solutionPath string) string {
	return filepath.Dir(solutionPath)
}

func solutionName(solutionPath string) string {
	base := filepath.Base(solutionPath)
	return base[:len(base)-len(filepath.Ext(base))]
}

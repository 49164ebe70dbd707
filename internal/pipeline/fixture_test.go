//go:build cgo

package pipeline

import (
	"context"
	"os"
	"testing"

	"grafo/internal/config"
	"grafo/internal/graph"
	"grafo/internal/identity"
	"grafo/internal/layer"
	"grafo/internal/resolve"
	"grafo/internal/semantic"
	"grafo/internal/solution"
	"grafo/internal/testutil"
)

// compilationsFromFixture builds []solution.Compilation directly from a
// fixture's projects on disk, the same way a Binder would, without ever
// shelling out to a build toolchain: ParseSolutionFile finds the projects,
// SourceFiles finds their *.cs files, and each is read into memory.
func compilationsFromFixture(t *testing.T, fx *testutil.FixtureContext) []solution.Compilation {
	t.Helper()

	projects, err := solution.ParseSolutionFile(fx.SolutionPath)
	if err != nil {
		t.Fatalf("ParseSolutionFile: %v", err)
	}

	comps := make([]solution.Compilation, 0, len(projects))
	for _, p := range projects {
		files, err := solution.SourceFiles(p)
		if err != nil {
			t.Fatalf("SourceFiles(%s): %v", p.Name, err)
		}

		var parsed []semantic.ParsedFile
		for _, path := range files {
			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading %s: %v", path, err)
			}
			parsed = append(parsed, semantic.ParsedFile{Path: path, Project: p.Name, Source: src})
		}

		comps = append(comps, solution.Compilation{Project: p, Files: parsed})
	}
	return comps
}

// assembleFixture runs classification, the semantic walk, resolution, and
// assembly for a fixture's compilations, mirroring Run without touching a
// store or writing any output.
func assembleFixture(t *testing.T, cfg *config.Config, solutionPath string, comps []solution.Compilation) (graph.Result, []layer.Result) {
	t.Helper()

	opts := Options{SolutionPath: solutionPath}
	inputs, err := classifyAndWalk(context.Background(), opts, comps, cfg, testLogger())
	if err != nil {
		t.Fatalf("classifyAndWalk: %v", err)
	}

	layerResults := make([]layer.Result, 0, len(inputs))
	for _, in := range inputs {
		layerResults = append(layerResults, in.Layer)
	}

	merged := mergeWalks(inputs)
	resolver := resolve.NewResolver(merged.symbols, cfg.Resolution.PermitExternalBaseClasses)
	resolved := resolver.Resolve(merged.walk)

	assembler := graph.NewAssembler(identity.NewCanonicalizer())
	result := assembler.Assemble(opts.SolutionPath, "test", inputs, resolved)
	result.Metadata.GeneratedAt = "" // excluded from comparison, not part of the id-stability invariant

	return result, layerResults
}

// TestFixtureBillingDemoIDStability exercises the id-stability invariant:
// canonical ids assigned from the same input must be identical across
// independent runs, regardless of map-iteration or goroutine-scheduling
// order. It loads the billing-demo fixture via testutil (the orphaned
// golden-test harness this wires up) and compares two independent
// assemblies of it.
func TestFixtureBillingDemoIDStability(t *testing.T) {
	fx := testutil.LoadFixture(t, "billing-demo")
	cfg := config.DefaultConfig()

	first, _ := assembleFixture(t, cfg, fx.SolutionPath, compilationsFromFixture(t, fx))
	second, _ := assembleFixture(t, cfg, fx.SolutionPath, compilationsFromFixture(t, fx))

	if !testutil.DeepEqual(t, fx, first, second) {
		t.Fatalf("assembled graph differs across independent runs of the same fixture; canonical ids are not stable")
	}
}

// TestFixtureBillingDemoLayerSummaryGolden golden-compares the layer
// classification summary C3 produces for the billing-demo fixture: one
// project resolved by the directory pass (1_PresentationLayer, a numbered
// presentation directory), one by the naming pass's compound-keyword match
// (BackOffice.BusinessEntities, sitting in a directory the lexicon does not
// recognize).
func TestFixtureBillingDemoLayerSummaryGolden(t *testing.T) {
	fx := testutil.LoadFixture(t, "billing-demo")
	cfg := config.DefaultConfig()

	_, layerResults := assembleFixture(t, cfg, fx.SolutionPath, compilationsFromFixture(t, fx))
	summary := layer.BuildSummary(layerResults)

	testutil.AssertGoldenStruct(t, fx, "layer-summary", summary)
}

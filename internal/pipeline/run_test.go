//go:build cgo

package pipeline

import (
	"context"
	"testing"

	"grafo/internal/config"
	"grafo/internal/graph"
	"grafo/internal/layer"
	"grafo/internal/logging"
	"grafo/internal/semantic"
	"grafo/internal/solution"
	"grafo/internal/store"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.ErrorLevel})
}

func testConfig() *config.Config {
	return config.DefaultConfig()
}

func projectInputForTest(t *testing.T) []graph.ProjectInput {
	t.Helper()
	return []graph.ProjectInput{
		{
			Project: solution.Project{Name: "Billing", Path: "/repo/Billing/Billing.csproj", Dir: "/repo/Billing"},
			Layer:   layer.Result{ProjectName: "Billing", Layer: layer.Business, Source: layer.SourceNaming},
			Walk: semantic.WalkResult{
				Symbols: []semantic.SymbolRecord{
					{Name: "OrderService", FullyQualifiedName: "Billing.OrderService", Kind: "Class", Project: "Billing"},
				},
			},
		},
	}
}

func sampleCompilations() []solution.Compilation {
	orderSource := `
namespace Billing
{
    public interface IOrderRepository
    {
        void Save(Order order);
    }

    public class OrderService
    {
        private readonly IOrderRepository _repo;

        public void Place(Order order)
        {
            _repo.Save(order);
        }
    }
}
`
	return []solution.Compilation{
		{
			Project: solution.Project{Name: "Billing", Path: "/repo/Billing/Billing.csproj", Dir: "/repo/Billing"},
			Files: []semantic.ParsedFile{
				{Path: "/repo/Billing/OrderService.cs", Project: "Billing", Source: []byte(orderSource)},
			},
		},
	}
}

func TestClassifyAndWalkProducesProjectInputs(t *testing.T) {
	opts := Options{SolutionPath: "/repo/Billing.sln"}
	cfg := testConfig()

	inputs, err := classifyAndWalk(context.Background(), opts, sampleCompilations(), cfg, testLogger())
	if err != nil {
		t.Fatalf("classifyAndWalk returned error: %v", err)
	}
	if len(inputs) != 1 {
		t.Fatalf("len(inputs) = %d, want 1", len(inputs))
	}
	if len(inputs[0].Walk.Symbols) == 0 {
		t.Error("expected at least one walked symbol")
	}
}

func TestMergeWalksConcatenatesAcrossProjects(t *testing.T) {
	opts := Options{SolutionPath: "/repo/Billing.sln"}
	cfg := testConfig()

	inputs, err := classifyAndWalk(context.Background(), opts, sampleCompilations(), cfg, testLogger())
	if err != nil {
		t.Fatalf("classifyAndWalk returned error: %v", err)
	}

	merged := mergeWalks(inputs)
	if len(merged.symbols) != len(inputs[0].Walk.Symbols) {
		t.Errorf("merged.symbols = %d, want %d", len(merged.symbols), len(inputs[0].Walk.Symbols))
	}
}

func TestRecordIncrementalFirstRunIsAllNew(t *testing.T) {
	inputs := projectInputForTest(t)

	dbPath := t.TempDir() + "/grafo.db"
	db, err := store.Open(dbPath, testLogger())
	if err != nil {
		t.Fatalf("store.Open returned error: %v", err)
	}
	defer db.Close()

	sum, err := recordIncremental(db, "/repo/Billing.sln", inputs)
	if err != nil {
		t.Fatalf("recordIncremental returned error: %v", err)
	}
	if sum.New != 1 || sum.Files != 1 {
		t.Errorf("summary = %+v, want one New project", sum)
	}

	sum2, err := recordIncremental(db, "/repo/Billing.sln", inputs)
	if err != nil {
		t.Fatalf("second recordIncremental returned error: %v", err)
	}
	if sum2.Skipped != 1 {
		t.Errorf("second run summary = %+v, want Skipped=1", sum2)
	}
}

func TestSolutionNameStripsExtension(t *testing.T) {
	if got := solutionName("/repo/Billing.sln"); got != "Billing" {
		t.Errorf("solutionName = %q, want %q", got, "Billing")
	}
}

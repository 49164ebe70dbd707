package batch

import (
	"os"
	"path/filepath"
	"testing"

	"grafo/internal/config"
)

func TestLoadYAMLBatchConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	content := `
solutions:
  - solution: /repo/Billing.sln
    output: /out/billing.ndjson
    exclude: ["Tests"]
  - solution: /repo/Shipping.sln
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(f.Solutions) != 2 {
		t.Fatalf("len(Solutions) = %d, want 2", len(f.Solutions))
	}
	if f.Solutions[0].Output != "/out/billing.ndjson" {
		t.Errorf("Output = %q", f.Solutions[0].Output)
	}
	if len(f.Solutions[0].Exclude) != 1 || f.Solutions[0].Exclude[0] != "Tests" {
		t.Errorf("Exclude = %v", f.Solutions[0].Exclude)
	}
}

func TestLoadJSONBatchConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")
	content := `{"solutions":[{"solution":"/repo/Billing.sln"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(f.Solutions) != 1 || f.Solutions[0].Solution != "/repo/Billing.sln" {
		t.Errorf("Solutions = %+v", f.Solutions)
	}
}

func TestLoadRejectsEmptySolutionList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	if err := os.WriteFile(path, []byte("solutions: []\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for empty solutions list")
	}
}

func TestOverlayAppendsExcludePatternsWithoutMutatingBase(t *testing.T) {
	base := config.DefaultConfig()
	base.ProjectFilter.ExcludePatterns = []string{"Legacy"}

	overridden := Overlay(base, SolutionEntry{Exclude: []string{"Tests"}})

	if len(base.ProjectFilter.ExcludePatterns) != 1 {
		t.Errorf("base was mutated: %v", base.ProjectFilter.ExcludePatterns)
	}
	want := []string{"Legacy", "Tests"}
	got := overridden.ProjectFilter.ExcludePatterns
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ExcludePatterns = %v, want %v", got, want)
	}
}

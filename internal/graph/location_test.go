package graph

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindRepoRootLocatesMarker(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "src", "Billing")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got := findRepoRoot(nested)
	if got != root {
		t.Errorf("findRepoRoot(%q) = %q, want %q", nested, got, root)
	}
}

func TestFindRepoRootFallsBackToStart(t *testing.T) {
	start := t.TempDir()
	if got := findRepoRoot(start); got != start {
		t.Errorf("findRepoRoot with no marker = %q, want fallback %q", got, start)
	}
}

func TestNewLocationNormalizesSlashes(t *testing.T) {
	root := filepath.FromSlash("/repo")
	abs := filepath.Join(root, "src", "Billing", "Order.cs")
	loc := newLocation(root, abs, 12, 4)
	if loc.RelativePath != "src/Billing/Order.cs" {
		t.Errorf("RelativePath = %q, want src/Billing/Order.cs", loc.RelativePath)
	}
	if loc.Line != 12 || loc.Column != 4 {
		t.Errorf("got line/column %d/%d, want 12/4", loc.Line, loc.Column)
	}
}

func TestStem(t *testing.T) {
	if got := stem("/solutions/Billing.Data/Billing.Data.csproj"); got != "Billing.Data" {
		t.Errorf("stem = %q, want Billing.Data", got)
	}
}

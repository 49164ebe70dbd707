package solution

import "testing"

func TestFilterExcludesByNameOrPath(t *testing.T) {
	f := NewFilter([]string{"\\.Tests$", "legacy"}, nil)

	projects := []Project{
		{Name: "Billing", Path: "/src/Billing/Billing.csproj"},
		{Name: "Billing.Tests", Path: "/test/Billing.Tests/Billing.Tests.csproj"},
		{Name: "Shared", Path: "/src/legacy/Shared/Shared.csproj"},
	}

	kept := f.Apply(projects)
	if len(kept) != 1 || kept[0].Name != "Billing" {
		t.Errorf("Apply() = %+v, want only Billing", kept)
	}
}

func TestFilterEmptyConfigIncludesAll(t *testing.T) {
	f := NewFilter(nil, nil)
	projects := []Project{{Name: "Billing"}, {Name: "Shared"}}
	kept := f.Apply(projects)
	if len(kept) != 2 {
		t.Errorf("Apply() = %+v, want all %d projects kept", kept, len(projects))
	}
}

func TestFilterSkipsInvalidPatternWithoutFailing(t *testing.T) {
	f := NewFilter([]string{"(unterminated", "Tests"}, nil)
	if len(f.patterns) != 1 {
		t.Fatalf("got %d compiled patterns, want 1 (invalid pattern skipped)", len(f.patterns))
	}
	if !f.Excludes(Project{Name: "Billing.Tests"}) {
		t.Error("expected Billing.Tests to be excluded by the valid pattern")
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	f := NewFilter([]string{"tests"}, nil)
	if !f.Excludes(Project{Name: "Billing.TESTS"}) {
		t.Error("expected case-insensitive match to exclude Billing.TESTS")
	}
}

func TestFilterIncludeOnlyNarrowsSurvivors(t *testing.T) {
	f := NewFilterWithInclude(nil, "^Billing", nil)
	projects := []Project{
		{Name: "Billing.Core", Path: "/src/Billing.Core"},
		{Name: "Shipping.Core", Path: "/src/Shipping.Core"},
	}
	kept := f.Apply(projects)
	if len(kept) != 1 || kept[0].Name != "Billing.Core" {
		t.Errorf("Apply() = %+v, want only Billing.Core", kept)
	}
}

func TestFilterIncludeOnlyCombinesWithExclude(t *testing.T) {
	f := NewFilterWithInclude([]string{"\\.Tests$"}, "^Billing", nil)
	projects := []Project{
		{Name: "Billing.Core"},
		{Name: "Billing.Tests"},
		{Name: "Shipping.Core"},
	}
	kept := f.Apply(projects)
	if len(kept) != 1 || kept[0].Name != "Billing.Core" {
		t.Errorf("Apply() = %+v, want only Billing.Core", kept)
	}
}

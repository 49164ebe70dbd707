package identity

import "testing"

func TestCanonicalizeIsDeterministic(t *testing.T) {
	a := Canonicalize(KindMethod, "Core.Business.OrderService.Place")
	b := Canonicalize(KindMethod, "Core.Business.OrderService.Place")
	if a != b {
		t.Errorf("Canonicalize() not deterministic: %q != %q", a, b)
	}
}

func TestCanonicalizeFormAndSlug(t *testing.T) {
	cases := []struct {
		kind NodeKind
		slug string
	}{
		{KindMethod, "mth"},
		{KindClass, "cls"},
		{KindInterface, "ifc"},
		{KindProject, "prj"},
		{KindSolution, "sln"},
	}
	for _, c := range cases {
		id := Canonicalize(c.kind, "Some.Qualified.Name")
		want := "grafo:" + c.slug + "/"
		if len(id) <= len(want) || id[:len(want)] != want {
			t.Errorf("Canonicalize(%s, ...) = %q, want prefix %q", c.kind, id, want)
		}
	}
}

func TestCanonicalizeDistinctNamesDiffer(t *testing.T) {
	a := Canonicalize(KindClass, "Core.Business.OrderService")
	b := Canonicalize(KindClass, "Core.Business.InvoiceService")
	if a == b {
		t.Error("distinct fully qualified names produced the same id")
	}
}

func TestCanonicalizerLegacyRoundTrip(t *testing.T) {
	c := NewCanonicalizer()
	id := c.ID(KindMethod, "Core.Business.OrderService.Place", "component:Core.Business.OrderService.Place")

	got, ok := c.Resolve("component:Core.Business.OrderService.Place")
	if !ok {
		t.Fatal("Resolve() did not find registered legacy id")
	}
	if got != id {
		t.Errorf("Resolve() = %q, want %q", got, id)
	}

	if _, ok := c.Resolve("component:Never.Registered"); ok {
		t.Error("Resolve() found an id that was never registered")
	}
}

func TestCanonicalizerMintsOnce(t *testing.T) {
	c := NewCanonicalizer()
	c.ID(KindClass, "Core.Business.OrderService", "")
	c.ID(KindClass, "Core.Business.OrderService", "")
	c.ID(KindClass, "Core.Business.InvoiceService", "")

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

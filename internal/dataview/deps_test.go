package dataview

import (
	"testing"
)

func TestGraph_AffectedIncludesSelf(t *testing.T) {
	g := NewGraph()
	affected := g.Affected("tickets")
	if len(affected) != 1 || affected[0] != "tickets" {
		t.Errorf("expected only the resource itself, got %v", affected)
	}
}

func TestGraph_AffectedIncludesDependents(t *testing.T) {
	g := NewGraph()
	g.Register("tickets", "tickets.stats")

	affected := g.Affected("tickets")
	if len(affected) != 2 {
		t.Fatalf("expected 2 affected resources, got %v", affected)
	}
	if affected[0] != "tickets" || affected[1] != "tickets.stats" {
		t.Errorf("unexpected order: %v", affected)
	}
}

func TestGraph_AffectedIsTransitive(t *testing.T) {
	g := NewGraph()
	g.Register("transactions", "transactions.aging")
	g.Register("transactions.aging", "dashboard.summary")

	affected := g.Affected("transactions")
	want := map[string]bool{
		"transactions":       true,
		"transactions.aging": true,
		"dashboard.summary":  true,
	}
	if len(affected) != len(want) {
		t.Fatalf("expected %d affected resources, got %v", len(want), affected)
	}
	for _, name := range affected {
		if !want[name] {
			t.Errorf("unexpected affected resource %s", name)
		}
	}
}

func TestGraph_AffectedHandlesCycles(t *testing.T) {
	g := NewGraph()
	g.Register("a", "b")
	g.Register("b", "a")

	affected := g.Affected("a")
	if len(affected) != 2 {
		t.Errorf("expected cycle to terminate with 2 resources, got %v", affected)
	}
}

func TestGraph_DependentMutationDoesNotInvalidateOwner(t *testing.T) {
	g := NewGraph()
	g.Register("tickets", "tickets.stats")

	affected := g.Affected("tickets.stats")
	if len(affected) != 1 || affected[0] != "tickets.stats" {
		t.Errorf("expected edges to be directional, got %v", affected)
	}
}

package scope

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeLister struct {
	scopes map[string][]string
	calls  int
}

func (f *fakeLister) Scopes(ctx context.Context, token string) ([]string, error) {
	f.calls++
	scopes, ok := f.scopes[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return scopes, nil
}

func TestGate_GrantsWhenAllScopesPresent(t *testing.T) {
	lister := &fakeLister{scopes: map[string][]string{
		"tok": {"support.tickets", "admin.sync"},
	}}
	gate := NewGate(lister, 8, time.Minute)

	decision, err := gate.Check(context.Background(), "tok", "support.tickets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Granted {
		t.Error("expected grant")
	}
	if len(decision.Missing) != 0 {
		t.Errorf("expected no missing scopes, got %v", decision.Missing)
	}
}

func TestGate_ReportsMissingScopes(t *testing.T) {
	lister := &fakeLister{scopes: map[string][]string{
		"tok": {"support.tickets"},
	}}
	gate := NewGate(lister, 8, time.Minute)

	decision, err := gate.Check(context.Background(), "tok", "support.tickets", "admin.templates")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Granted {
		t.Error("expected denial")
	}
	if len(decision.Missing) != 1 || decision.Missing[0] != "admin.templates" {
		t.Errorf("expected missing admin.templates, got %v", decision.Missing)
	}
}

func TestGate_CachesScopeResolution(t *testing.T) {
	lister := &fakeLister{scopes: map[string][]string{
		"tok": {"support.tickets"},
	}}
	gate := NewGate(lister, 8, time.Minute)

	for i := 0; i < 5; i++ {
		if _, err := gate.Check(context.Background(), "tok", "support.tickets"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if lister.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", lister.calls)
	}
}

func TestGate_ForgetForcesReResolution(t *testing.T) {
	lister := &fakeLister{scopes: map[string][]string{
		"tok": {"support.tickets"},
	}}
	gate := NewGate(lister, 8, time.Minute)

	_, _ = gate.Check(context.Background(), "tok", "support.tickets")
	gate.Forget("tok")
	_, _ = gate.Check(context.Background(), "tok", "support.tickets")

	if lister.calls != 2 {
		t.Errorf("expected 2 upstream calls after Forget, got %d", lister.calls)
	}
}

func TestGate_ResolutionErrorDenies(t *testing.T) {
	lister := &fakeLister{scopes: map[string][]string{}}
	gate := NewGate(lister, 8, time.Minute)

	decision, err := gate.Check(context.Background(), "bogus", "support.tickets")
	if err == nil {
		t.Fatal("expected error for unknown token")
	}
	if decision.Granted {
		t.Error("an error must never grant access")
	}
}

func TestGate_EmptyTokenDenies(t *testing.T) {
	gate := NewGate(&fakeLister{}, 8, time.Minute)

	decision, err := gate.Check(context.Background(), "", "support.tickets")
	if err == nil {
		t.Fatal("expected error for empty token")
	}
	if decision.Granted {
		t.Error("empty token must be denied")
	}
	if len(decision.Missing) != 1 {
		t.Errorf("expected required scopes reported missing, got %v", decision.Missing)
	}
}

package filter

import "testing"

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestState_Default(t *testing.T) {
	s := Default()
	if s.Page != 1 {
		t.Errorf("expected page 1, got %d", s.Page)
	}
	if s.PageSize != DefaultPageSize {
		t.Errorf("expected page size %d, got %d", DefaultPageSize, s.PageSize)
	}
	if s.Version != SchemaVersion {
		t.Errorf("expected schema version %d, got %d", SchemaVersion, s.Version)
	}
}

func TestState_FieldChangeResetsPage(t *testing.T) {
	s := Default()
	s.Page = 3

	next := s.Apply(Patch{Fields: map[string]string{"status": "failed"}})

	if next.Page != 1 {
		t.Errorf("expected page reset to 1, got %d", next.Page)
	}
	if next.Fields["status"] != "failed" {
		t.Errorf("expected status filter 'failed', got %q", next.Fields["status"])
	}
	if next.PageSize != s.PageSize {
		t.Errorf("expected page size unchanged, got %d", next.PageSize)
	}
}

func TestState_SearchChangeResetsPage(t *testing.T) {
	s := Default()
	s.Page = 5

	next := s.Apply(Patch{Search: strPtr("invoice")})
	if next.Page != 1 {
		t.Errorf("expected page reset to 1, got %d", next.Page)
	}
}

func TestState_SortChangeResetsPage(t *testing.T) {
	s := Default()
	s.Page = 2

	next := s.Apply(Patch{SortBy: strPtr("created_at"), SortOrder: strPtr("desc")})
	if next.Page != 1 {
		t.Errorf("expected page reset to 1, got %d", next.Page)
	}
}

func TestState_PageSizeChangeResetsPage(t *testing.T) {
	s := Default()
	s.Page = 4

	next := s.Apply(Patch{PageSize: intPtr(50)})
	if next.Page != 1 {
		t.Errorf("expected page reset to 1, got %d", next.Page)
	}
	if next.PageSize != 50 {
		t.Errorf("expected page size 50, got %d", next.PageSize)
	}
}

func TestState_PureNavigationKeepsFilters(t *testing.T) {
	s := Default()
	s.Fields["status"] = "open"

	next := s.Apply(Patch{Page: intPtr(3)})
	if next.Page != 3 {
		t.Errorf("expected page 3, got %d", next.Page)
	}
	if next.Fields["status"] != "open" {
		t.Error("expected filters to survive navigation")
	}
}

func TestState_ResetWinsOverExplicitPage(t *testing.T) {
	s := Default()
	s.Page = 3

	// Changing a filter and asking for page 3 in the same patch: the reset
	// rule wins, otherwise the view could render a page that no longer
	// exists under the new filter.
	next := s.Apply(Patch{
		Fields: map[string]string{"status": "failed"},
		Page:   intPtr(3),
	})
	if next.Page != 1 {
		t.Errorf("expected reset to win over explicit page, got %d", next.Page)
	}
}

func TestState_NoopPatchDoesNotResetPage(t *testing.T) {
	s := Default()
	s.Fields["status"] = "open"
	s.Page = 3

	// Re-applying the same value is not a change.
	next := s.Apply(Patch{Fields: map[string]string{"status": "open"}})
	if next.Page != 3 {
		t.Errorf("expected page to stay at 3 for no-op patch, got %d", next.Page)
	}
}

func TestState_EmptyValueClearsFilter(t *testing.T) {
	s := Default()
	s.Fields["status"] = "open"
	s.Page = 2

	next := s.Apply(Patch{Fields: map[string]string{"status": ""}})
	if _, ok := next.Fields["status"]; ok {
		t.Error("expected empty value to clear the filter")
	}
	if next.Page != 1 {
		t.Errorf("expected clearing a filter to reset the page, got %d", next.Page)
	}
}

func TestState_StatusUpdateScenario(t *testing.T) {
	// {status:"", page:3, pageSize:20} + {status:"failed"}
	// -> {status:"failed", page:1, pageSize:20}
	s := Default()
	s.Page = 3

	next := s.Apply(Patch{Fields: map[string]string{"status": "failed"}})
	if next.Fields["status"] != "failed" || next.Page != 1 || next.PageSize != 20 {
		t.Errorf("unexpected state: %+v", next)
	}
}

func TestState_ClampedPagination(t *testing.T) {
	s := Default()
	next := s.Apply(Patch{Page: intPtr(-2)})
	if next.Page != 1 {
		t.Errorf("expected negative page clamped to 1, got %d", next.Page)
	}

	next = s.Apply(Patch{PageSize: intPtr(0)})
	if next.PageSize != DefaultPageSize {
		t.Errorf("expected zero page size clamped to default, got %d", next.PageSize)
	}
}

func TestState_ApplyDoesNotMutateReceiver(t *testing.T) {
	s := Default()
	s.Fields["status"] = "open"

	_ = s.Apply(Patch{Fields: map[string]string{"status": "closed"}})
	if s.Fields["status"] != "open" {
		t.Error("expected Apply to leave the receiver untouched")
	}
}

func TestState_Offset(t *testing.T) {
	s := Default()
	s.Page = 3
	s.PageSize = 20
	if s.Offset() != 40 {
		t.Errorf("expected offset 40, got %d", s.Offset())
	}
}

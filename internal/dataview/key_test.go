package dataview

import "testing"

func TestKey_EqualStatesEncodeEqually(t *testing.T) {
	a := ListKey("tickets", map[string]string{"status": "open", "priority": "high"}, 2, 20, "created_at", "desc")
	b := ListKey("tickets", map[string]string{"priority": "high", "status": "open"}, 2, 20, "created_at", "desc")

	if a.String() != b.String() {
		t.Errorf("expected equal encodings, got %q vs %q", a.String(), b.String())
	}
}

func TestKey_EmptyFilterValueIsIgnored(t *testing.T) {
	withEmpty := ListKey("tickets", map[string]string{"status": ""}, 1, 20, "", "")
	without := ListKey("tickets", map[string]string{}, 1, 20, "", "")

	if withEmpty.String() != without.String() {
		t.Errorf("expected unset filter to match empty filter, got %q vs %q", withEmpty.String(), without.String())
	}
}

func TestKey_DistinctResourcesNeverCollide(t *testing.T) {
	a := ListKey("tickets", nil, 1, 20, "", "")
	b := ListKey("templates", nil, 1, 20, "", "")

	if a.String() == b.String() {
		t.Error("expected distinct resources to produce distinct keys")
	}
}

func TestKey_ParamValuesAreEscaped(t *testing.T) {
	// A crafted value must not be able to masquerade as another parameter.
	a := ListKey("logs", map[string]string{"status": "failed;f.resource=invoices"}, 1, 20, "", "")
	b := ListKey("logs", map[string]string{"status": "failed", "resource": "invoices"}, 1, 20, "", "")

	if a.String() == b.String() {
		t.Error("expected escaped values to prevent key collisions")
	}
}

func TestKey_PaginationChangesKey(t *testing.T) {
	base := ListKey("tickets", nil, 1, 20, "", "")
	page2 := ListKey("tickets", nil, 2, 20, "", "")
	bigger := ListKey("tickets", nil, 1, 50, "", "")

	if base.String() == page2.String() {
		t.Error("expected page change to change the key")
	}
	if base.String() == bigger.String() {
		t.Error("expected page size change to change the key")
	}
}

func TestKey_SortChangesKey(t *testing.T) {
	asc := ListKey("tickets", nil, 1, 20, "created_at", "asc")
	desc := ListKey("tickets", nil, 1, 20, "created_at", "desc")

	if asc.String() == desc.String() {
		t.Error("expected sort order change to change the key")
	}
}

func TestEntityKey(t *testing.T) {
	k := EntityKey("tickets", "42")
	if !k.IsDetail() {
		t.Error("expected entity key to be a detail key")
	}
	if k.String() == EntityKey("tickets", "43").String() {
		t.Error("expected distinct entity ids to produce distinct keys")
	}

	list := ListKey("tickets", nil, 1, 20, "", "")
	if list.IsDetail() {
		t.Error("expected list key to not be a detail key")
	}
}

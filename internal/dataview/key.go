package dataview

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Key identifies one cached request: a resource plus everything that changes
// the server-side answer. Two keys with equal field values encode to the same
// string and therefore share one cache entry. The resource name is a dedicated
// segment, so keys of distinct resources can never collide.
type Key struct {
	Resource  string
	EntityID  string
	Params    map[string]string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// ListKey builds the key for a paginated list request.
func ListKey(resource string, params map[string]string, page, pageSize int, sortBy, sortOrder string) Key {
	return Key{
		Resource:  resource,
		Params:    params,
		Page:      page,
		PageSize:  pageSize,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
}

// EntityKey builds the key for a single-entity request.
func EntityKey(resource, id string) Key {
	return Key{Resource: resource, EntityID: id}
}

// String returns the deterministic encoding of the key. Parameter names are
// sorted and every value is escaped, so the encoding is injective.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString("res=")
	b.WriteString(url.QueryEscape(k.Resource))
	if k.EntityID != "" {
		b.WriteString(";id=")
		b.WriteString(url.QueryEscape(k.EntityID))
	}

	names := make([]string, 0, len(k.Params))
	for name, value := range k.Params {
		// Empty values mean "filter not set"; they must not disturb equality.
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(";f.")
		b.WriteString(url.QueryEscape(name))
		b.WriteString("=")
		b.WriteString(url.QueryEscape(k.Params[name]))
	}

	if k.Page > 0 || k.PageSize > 0 {
		b.WriteString(";page=")
		b.WriteString(strconv.Itoa(k.Page))
		b.WriteString(";size=")
		b.WriteString(strconv.Itoa(k.PageSize))
	}
	if k.SortBy != "" {
		b.WriteString(";sort=")
		b.WriteString(url.QueryEscape(k.SortBy))
		b.WriteString(":")
		b.WriteString(url.QueryEscape(k.SortOrder))
	}
	return b.String()
}

// IsDetail reports whether the key addresses a single entity.
func (k Key) IsDetail() bool {
	return k.EntityID != ""
}

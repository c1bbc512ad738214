package filter

// SchemaVersion is written into persisted states. Stored states from another
// version are discarded in favor of defaults rather than half-interpreted.
const SchemaVersion = 1

// DefaultPageSize applies when a state carries no usable page size.
const DefaultPageSize = 20

// State is the full query state of one list page: free-text search, field
// filters, sort spec, and pagination.
type State struct {
	Version   int               `json:"version"`
	Search    string            `json:"search"`
	Fields    map[string]string `json:"fields"`
	Page      int               `json:"page"`
	PageSize  int               `json:"pageSize"`
	SortBy    string            `json:"sortBy"`
	SortOrder string            `json:"sortOrder"`
}

// Default returns the initial state of a list page.
func Default() State {
	return State{
		Version:  SchemaVersion,
		Fields:   map[string]string{},
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// Patch is a partial state update. Nil pointer fields are "not present".
// Field entries merge into the state's filter map; an empty string value
// clears that filter.
type Patch struct {
	Search    *string
	Fields    map[string]string
	Page      *int
	PageSize  *int
	SortBy    *string
	SortOrder *string
}

// Apply merges the patch into a copy of the state. Any effective change to a
// non-pagination field (search, filters, sort, page size) resets the page to
// 1 -- an explicit Page in the same patch loses against the reset. The result
// is always clamped to a sane page and page size.
func (s State) Apply(p Patch) State {
	next := s.clone()
	reset := false

	if p.Search != nil && *p.Search != next.Search {
		next.Search = *p.Search
		reset = true
	}
	for name, value := range p.Fields {
		if next.Fields[name] == value {
			continue
		}
		if value == "" {
			delete(next.Fields, name)
		} else {
			next.Fields[name] = value
		}
		reset = true
	}
	if p.SortBy != nil && *p.SortBy != next.SortBy {
		next.SortBy = *p.SortBy
		reset = true
	}
	if p.SortOrder != nil && *p.SortOrder != next.SortOrder {
		next.SortOrder = *p.SortOrder
		reset = true
	}
	if p.PageSize != nil && *p.PageSize != next.PageSize {
		next.PageSize = *p.PageSize
		reset = true
	}

	if reset {
		next.Page = 1
	} else if p.Page != nil {
		next.Page = *p.Page
	}

	return next.clamped()
}

// clone copies the state including its filter map.
func (s State) clone() State {
	next := s
	next.Fields = make(map[string]string, len(s.Fields))
	for name, value := range s.Fields {
		next.Fields[name] = value
	}
	return next
}

// clamped normalizes pagination values.
func (s State) clamped() State {
	if s.Page < 1 {
		s.Page = 1
	}
	if s.PageSize < 1 {
		s.PageSize = DefaultPageSize
	}
	if s.Fields == nil {
		s.Fields = map[string]string{}
	}
	s.Version = SchemaVersion
	return s
}

// Offset translates the 1-based page into the remote API's item offset.
func (s State) Offset() int {
	return (s.Page - 1) * s.PageSize
}

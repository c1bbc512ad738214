package dataview

// Page is a bounded slice of a larger server-side collection plus its total
// count. Offset and Limit mirror what the remote API was asked for, so page
// math stays consistent even when the collection changed between requests.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// TotalPages returns how many pages the collection spans.
func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 || p.Total <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// HasNext reports whether items exist beyond this page.
func (p Page[T]) HasNext() bool {
	return p.Offset+len(p.Items) < p.Total
}

// HasPrev reports whether this page is not the first one.
func (p Page[T]) HasPrev() bool {
	return p.Offset > 0
}

// IsEmpty reports whether the whole collection is empty, as opposed to just
// this page being past the end.
func (p Page[T]) IsEmpty() bool {
	return p.Total == 0
}

// PageOf extracts a typed page from a cache result value.
func PageOf[T any](r Result) (Page[T], bool) {
	page, ok := r.Data.(Page[T])
	return page, ok
}

// EntityOf extracts a typed entity from a cache result value.
func EntityOf[T any](r Result) (T, bool) {
	entity, ok := r.Data.(T)
	return entity, ok
}

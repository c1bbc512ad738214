// Package view composes the data-view building blocks into the three shapes
// the API serves: paginated lists, single-entity details, and derived
// aggregates. Views hold no data themselves; everything lives in the shared
// cache and views read snapshots.
package view

import (
	"context"
	"sync"
	"time"

	"github.com/michaelayoade/dotmac-insights/internal/dataview"
	"github.com/michaelayoade/dotmac-insights/internal/filter"
	"github.com/michaelayoade/dotmac-insights/internal/logger"
	"github.com/michaelayoade/dotmac-insights/internal/remote"
	"github.com/michaelayoade/dotmac-insights/internal/resource"
)

// FilterSource is the filter state holder a list view reads and steers.
// Both the in-memory and the persistent holder satisfy it.
type FilterSource interface {
	State() filter.State
	Update(filter.Patch) filter.State
	SetPage(page int) filter.State
	Reset() filter.State
}

// ListState is one renderable snapshot of a list view: the typed rows, page
// math, and the fetch status. With stale-while-revalidate a state can carry
// both rows and an Err from the failed refresh that kept them.
type ListState[T any] struct {
	Items         []T
	Total         int
	Page          int
	PageSize      int
	TotalPages    int
	HasNext       bool
	HasPrev       bool
	Status        dataview.Status
	Err           error
	LastFetchedAt time.Time
}

// ListView serves one resource's paginated list. Pausing the view gates all
// fetching, which is how scope checks keep unauthorized views off the wire.
type ListView[T any] struct {
	cache    *dataview.Cache
	backend  remote.Backend
	resource string
	filters  FilterSource

	mu     sync.Mutex
	paused bool
}

// NewListView wires a list view for resourceName, reading its query state
// from filters.
func NewListView[T any](cache *dataview.Cache, backend remote.Backend, resourceName string, filters FilterSource) *ListView[T] {
	return &ListView[T]{
		cache:    cache,
		backend:  backend,
		resource: resourceName,
		filters:  filters,
	}
}

// Pause stops the view from issuing fetches. Fetch returns an idle state
// until Resume.
func (v *ListView[T]) Pause() {
	v.mu.Lock()
	v.paused = true
	v.mu.Unlock()
}

// Resume re-enables fetching.
func (v *ListView[T]) Resume() {
	v.mu.Lock()
	v.paused = false
	v.mu.Unlock()
}

// Filters exposes the view's filter source for patching and resetting.
func (v *ListView[T]) Filters() FilterSource {
	return v.filters
}

// Fetch resolves the current filter state to a page of rows. It subscribes
// to the cache (sharing in-flight requests with concurrent callers), waits
// for a presentable result, and applies the last-page correction: when a
// page beyond the end comes back empty but the collection is not, the page
// is clamped to the last one and refetched.
func (v *ListView[T]) Fetch(ctx context.Context) ListState[T] {
	v.mu.Lock()
	paused := v.paused
	v.mu.Unlock()
	if paused {
		sub := v.cache.Subscribe(nil, nil)
		defer sub.Close()
		return ListState[T]{Status: dataview.StatusIdle}
	}

	state := v.filters.State()
	listState := v.fetchPage(ctx, state)

	// Last-page correction. A delete or an external change can leave the
	// current page past the end of the collection.
	if listState.Status == dataview.StatusSuccess &&
		len(listState.Items) == 0 && listState.Total > 0 && state.Page > 1 {
		last := listState.TotalPages
		if last < 1 {
			last = 1
		}
		logger.WithComponent("view").Debugf("page %d of %s is past the end, clamping to %d", state.Page, v.resource, last)
		state = v.filters.SetPage(last)
		listState = v.fetchPage(ctx, state)
	}

	return listState
}

func (v *ListView[T]) fetchPage(ctx context.Context, state filter.State) ListState[T] {
	key := listKeyFor(v.resource, state)
	sub := v.cache.Subscribe(&key, v.fetcherFor(state))
	defer sub.Close()

	result := sub.Wait(ctx)
	listState := ListState[T]{
		Page:          state.Page,
		PageSize:      state.PageSize,
		Status:        result.Status,
		Err:           result.Err,
		LastFetchedAt: result.LastFetchedAt,
	}
	if page, ok := dataview.PageOf[T](result); ok {
		listState.Items = page.Items
		listState.Total = page.Total
		listState.TotalPages = page.TotalPages()
		listState.HasNext = page.HasNext()
		listState.HasPrev = page.HasPrev()
	}
	return listState
}

// fetcherFor captures the query derived from state. The fetcher runs under
// the cache's base context so revalidation outlives the triggering request.
func (v *ListView[T]) fetcherFor(state filter.State) dataview.Fetcher {
	query := remote.Query{
		Resource:  v.resource,
		Params:    state.Fields,
		Search:    state.Search,
		Limit:     state.PageSize,
		Offset:    state.Offset(),
		SortBy:    state.SortBy,
		SortOrder: state.SortOrder,
	}
	return func(ctx context.Context) (any, error) {
		raw, err := v.backend.FetchList(ctx, query)
		if err != nil {
			return nil, err
		}
		return resource.DecodePage[T](v.resource, raw)
	}
}

// listKeyFor derives the cache key from a filter state. The search term
// rides in the params map under a reserved name so it participates in key
// equality like any other filter.
func listKeyFor(resourceName string, state filter.State) dataview.Key {
	params := make(map[string]string, len(state.Fields)+1)
	for name, value := range state.Fields {
		params[name] = value
	}
	if state.Search != "" {
		params["q"] = state.Search
	}
	return dataview.ListKey(resourceName, params, state.Page, state.PageSize, state.SortBy, state.SortOrder)
}

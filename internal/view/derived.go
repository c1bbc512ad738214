package view

import (
	"context"
	"time"

	"github.com/michaelayoade/dotmac-insights/internal/dataview"
)

// DerivedState is one renderable snapshot of a derived aggregate.
type DerivedState[T any] struct {
	Value         T
	Computed      bool
	Status        dataview.Status
	Err           error
	LastFetchedAt time.Time
}

// DerivedView serves an aggregate computed from base resource rows, such as
// the ticket queue stats or the receivables aging buckets. The aggregate is
// cached under its own dotted resource name; the dependency graph
// invalidates it whenever the base resource changes.
type DerivedView[T any] struct {
	cache    *dataview.Cache
	resource string
	compute  func(ctx context.Context) (T, error)
}

// NewDerivedView wires a derived view. resourceName must be the dotted
// derived name registered in the dependency graph; compute fetches the base
// rows and reduces them.
func NewDerivedView[T any](cache *dataview.Cache, resourceName string, compute func(ctx context.Context) (T, error)) *DerivedView[T] {
	return &DerivedView[T]{cache: cache, resource: resourceName, compute: compute}
}

// Get returns the aggregate, computing it on a cache miss and serving the
// cached value otherwise.
func (v *DerivedView[T]) Get(ctx context.Context) DerivedState[T] {
	key := dataview.EntityKey(v.resource, "summary")
	sub := v.cache.Subscribe(&key, func(ctx context.Context) (any, error) {
		return v.compute(ctx)
	})
	defer sub.Close()

	result := sub.Wait(ctx)
	state := DerivedState[T]{
		Status:        result.Status,
		Err:           result.Err,
		LastFetchedAt: result.LastFetchedAt,
	}
	if value, ok := dataview.EntityOf[T](result); ok {
		state.Value = value
		state.Computed = true
	}
	return state
}

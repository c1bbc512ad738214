package view

import (
	"context"
	"time"

	"github.com/michaelayoade/dotmac-insights/internal/dataview"
	"github.com/michaelayoade/dotmac-insights/internal/remote"
	"github.com/michaelayoade/dotmac-insights/internal/resource"
)

// DetailState is one renderable snapshot of a single entity.
type DetailState[T any] struct {
	Entity        T
	Found         bool
	Status        dataview.Status
	Err           error
	LastFetchedAt time.Time
}

// DetailView serves single entities of one resource.
type DetailView[T any] struct {
	cache    *dataview.Cache
	backend  remote.Backend
	resource string
}

// NewDetailView wires a detail view for resourceName.
func NewDetailView[T any](cache *dataview.Cache, backend remote.Backend, resourceName string) *DetailView[T] {
	return &DetailView[T]{cache: cache, backend: backend, resource: resourceName}
}

// Load fetches the entity with the given id. An empty id is the paused
// pattern: no fetch is issued and the state stays idle, which covers the
// window where a caller has not selected an entity yet.
func (v *DetailView[T]) Load(ctx context.Context, id string) DetailState[T] {
	if id == "" {
		sub := v.cache.Subscribe(nil, nil)
		defer sub.Close()
		return DetailState[T]{Status: dataview.StatusIdle}
	}

	key := dataview.EntityKey(v.resource, id)
	sub := v.cache.Subscribe(&key, func(ctx context.Context) (any, error) {
		raw, err := v.backend.FetchOne(ctx, v.resource, id)
		if err != nil {
			return nil, err
		}
		return resource.Decode[T](v.resource, raw)
	})
	defer sub.Close()

	result := sub.Wait(ctx)
	state := DetailState[T]{
		Status:        result.Status,
		Err:           result.Err,
		LastFetchedAt: result.LastFetchedAt,
	}
	if entity, ok := dataview.EntityOf[T](result); ok {
		state.Entity = entity
		state.Found = true
	}
	return state
}

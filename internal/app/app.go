package app

import (
	"context"
	"errors"

	"github.com/michaelayoade/dotmac-insights/internal/config"
	"github.com/michaelayoade/dotmac-insights/internal/dataview"
	"github.com/michaelayoade/dotmac-insights/internal/filterstore"
	"github.com/michaelayoade/dotmac-insights/internal/logger"
	"github.com/michaelayoade/dotmac-insights/internal/remote"
	"github.com/michaelayoade/dotmac-insights/internal/resource"
	"github.com/michaelayoade/dotmac-insights/internal/scope"
	"github.com/michaelayoade/dotmac-insights/internal/view"
)

// App is the application container (immutable dependencies + lifecycle
// context). It is not a request context; handlers still use gin's request
// context for deadlines.
type App struct {
	Config  *config.Config
	Backend remote.Backend
	Graph   *dataview.Graph
	Cache   *dataview.Cache
	Filters *filterstore.JSONStore
	Gate    *scope.Gate
	Mutator *view.Mutator

	BaseCtx context.Context
	Cancel  context.CancelFunc
}

// New assembles the container. The dependency graph is registered here so
// every part of the app agrees on which derived views hang off which
// resource.
func New(cfg *config.Config, backend remote.Backend, filters *filterstore.JSONStore) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if backend == nil {
		return nil, errors.New("backend is nil")
	}
	if filters == nil {
		return nil, errors.New("filter store is nil")
	}

	graph := dataview.NewGraph()
	graph.Register(resource.Tickets, resource.TicketStats)
	graph.Register(resource.Transactions, resource.TransactionAging)

	ctx, cancel := context.WithCancel(context.Background())
	cache := dataview.NewCache(ctx, graph, cfg.Cache.EntryTTL)

	return &App{
		Config:  cfg,
		Backend: backend,
		Graph:   graph,
		Cache:   cache,
		Filters: filters,
		Gate:    scope.NewGate(backend, cfg.Scope.CacheSize, cfg.Scope.CacheTTL),
		Mutator: view.NewMutator(backend, cache),
		BaseCtx: ctx,
		Cancel:  cancel,
	}, nil
}

// Shutdown cancels the base context; watchers and sweepers drain on it.
func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.Cancel()
}

// StartWatchers launches the background goroutines: the filter file watcher,
// the periodic filter flush, and the cache eviction sweeper.
func (a *App) StartWatchers() error {
	if err := a.Filters.StartWatcher(a.BaseCtx); err != nil {
		return err
	}
	filterstore.StartFlushScheduler(a.BaseCtx, a.Filters, a.Config.Filters.PersistInterval)
	a.Cache.StartEvictionSweeper(a.BaseCtx, a.Config.Cache.SweepInterval)
	logger.WithComponent("app").Info("background watchers started")
	return nil
}

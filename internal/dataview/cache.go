package dataview

import (
	"context"
	"sync"
	"time"

	"github.com/michaelayoade/dotmac-insights/internal/logger"
	"golang.org/x/sync/singleflight"
)

// Status is the lifecycle state of a cache entry as presented to views.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Fetcher loads the value for one key from the remote backend.
type Fetcher func(ctx context.Context) (any, error)

// Result is a read-only snapshot of a cache entry. After a successful fetch,
// Data survives later failed revalidations so views are never blanked by a
// transient error; Err carries the latest failure in that case.
type Result struct {
	Status        Status
	Data          any
	Err           error
	LastFetchedAt time.Time
}

// IsLoading reports whether the entry has no presentable value yet.
func (r Result) IsLoading() bool {
	return r.Status == StatusLoading
}

type entry struct {
	key           Key
	encoded       string
	status        Status
	data          any
	hasData       bool
	err           error
	lastFetchedAt time.Time
	stale         bool
	generation    uint64
	fetcher       Fetcher
	subscribers   map[*Subscription]struct{}
	idleSince     time.Time
}

func (e *entry) snapshot() Result {
	return Result{
		Status:        e.status,
		Data:          e.data,
		Err:           e.err,
		LastFetchedAt: e.lastFetchedAt,
	}
}

// Cache is the shared remote-data cache. It exclusively owns all entries;
// views hold keys and read-only Results. All writes happen on fetch
// completion or through Mutate -- nothing else may touch entry state.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	flight  singleflight.Group
	graph   *Graph
	ttl     time.Duration
	baseCtx context.Context
}

// NewCache creates a cache whose fetches run under baseCtx (not the request
// context, so background revalidation survives the request that started it).
// Entries nobody subscribes to are evicted entryTTL after their last
// subscriber left, by the sweeper started via StartEvictionSweeper.
func NewCache(baseCtx context.Context, graph *Graph, entryTTL time.Duration) *Cache {
	if graph == nil {
		graph = NewGraph()
	}
	return &Cache{
		entries: map[string]*entry{},
		graph:   graph,
		ttl:     entryTTL,
		baseCtx: baseCtx,
	}
}

// Subscription is one consumer's handle on a cache entry. Close releases it;
// a closed subscription receives no further updates.
type Subscription struct {
	cache     *Cache
	entry     *entry
	updates   chan Result
	closeOnce sync.Once
}

// Subscribe registers interest in key. A nil key is the paused pattern: the
// subscription stays idle and no fetch is ever issued, which is how fetches
// are gated behind preconditions such as a pending scope check.
//
// When the entry is missing or stale a fetch starts immediately. Concurrent
// subscribers to the same key share a single in-flight request.
func (c *Cache) Subscribe(key *Key, fetcher Fetcher) *Subscription {
	if key == nil {
		return &Subscription{}
	}

	encoded := key.String()

	c.mu.Lock()
	e, ok := c.entries[encoded]
	if !ok {
		e = &entry{
			key:         *key,
			encoded:     encoded,
			status:      StatusIdle,
			subscribers: map[*Subscription]struct{}{},
		}
		c.entries[encoded] = e
	}
	if fetcher != nil {
		e.fetcher = fetcher
	}

	sub := &Subscription{cache: c, entry: e, updates: make(chan Result, 1)}
	e.subscribers[sub] = struct{}{}
	e.idleSince = time.Time{}

	needFetch := (e.status == StatusIdle || e.stale) && e.fetcher != nil
	if needFetch && !e.hasData {
		e.status = StatusLoading
	}
	c.mu.Unlock()

	if needFetch {
		c.refresh(e)
	}
	return sub
}

// refresh fetches the entry's value. singleflight collapses concurrent
// refreshes of the same key into one wire call; every caller applies the
// shared result, which is idempotent.
func (c *Cache) refresh(e *entry) {
	c.mu.Lock()
	fetcher := e.fetcher
	gen := e.generation
	encoded := e.encoded
	c.mu.Unlock()

	if fetcher == nil {
		return
	}

	go func() {
		value, err, _ := c.flight.Do(encoded, func() (any, error) {
			return fetcher(c.baseCtx)
		})
		c.apply(e, gen, value, err)
	}()
}

// apply commits a fetch outcome to the entry, unless the entry was evicted or
// invalidated while the request was in flight -- then the arriving result is
// discarded so a stale response can never overwrite newer state.
func (c *Cache) apply(e *entry, gen uint64, value any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries[e.encoded] != e {
		logger.WithComponent("dataview").Debugf("discarding result for evicted key %s", e.encoded)
		return
	}
	if e.generation != gen {
		logger.WithComponent("dataview").Debugf("discarding superseded result for key %s", e.encoded)
		if len(e.subscribers) > 0 {
			go c.refresh(e)
		}
		return
	}

	e.lastFetchedAt = time.Now()
	if err != nil {
		e.err = err
		// A failed fetch leaves the entry stale so the next subscriber
		// retries it instead of being served the cached error.
		e.stale = true
		if !e.hasData {
			e.status = StatusError
		}
		// Stale-while-revalidate: a previously fetched value stays visible.
	} else {
		e.data = value
		e.hasData = true
		e.err = nil
		e.status = StatusSuccess
		e.stale = false
	}
	c.broadcastLocked(e)
}

func (c *Cache) broadcastLocked(e *entry) {
	result := e.snapshot()
	for sub := range e.subscribers {
		// Latest-wins: drop the buffered update if the consumer lags.
		select {
		case <-sub.updates:
		default:
		}
		select {
		case sub.updates <- result:
		default:
		}
	}
}

// MutateKey marks the entry for key stale and refetches it when subscribers
// exist. Entries without subscribers stay stale and refetch lazily on the
// next Subscribe.
func (c *Cache) MutateKey(key Key) {
	encoded := key.String()
	c.Mutate(func(k Key) bool { return k.String() == encoded })
}

// Mutate invalidates every entry whose key matches pred.
func (c *Cache) Mutate(pred func(Key) bool) {
	var refetch []*entry

	c.mu.Lock()
	for _, e := range c.entries {
		if !pred(e.key) {
			continue
		}
		e.stale = true
		e.generation++
		// Drop any in-flight request for the key. Without this the eager
		// refetch below would join a pre-invalidation flight and carry its
		// result under the new generation.
		c.flight.Forget(e.encoded)
		if len(e.subscribers) > 0 {
			refetch = append(refetch, e)
		}
	}
	c.mu.Unlock()

	for _, e := range refetch {
		c.refresh(e)
	}
}

// InvalidateResource invalidates all entries of the named resources plus
// everything the dependency graph derives from them.
func (c *Cache) InvalidateResource(resources ...string) {
	affected := map[string]bool{}
	for _, resource := range resources {
		for _, name := range c.graph.Affected(resource) {
			affected[name] = true
		}
	}
	c.Mutate(func(k Key) bool { return affected[k.Resource] })
}

// Clear drops every entry. In-flight results arriving afterwards are
// discarded by the identity check in apply.
func (c *Cache) Clear() {
	c.mu.Lock()
	for encoded := range c.entries {
		c.flight.Forget(encoded)
	}
	c.entries = map[string]*entry{}
	c.mu.Unlock()
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// StartEvictionSweeper runs a goroutine that periodically drops entries whose
// last subscriber left more than the entry TTL ago. Returns a channel that is
// closed when the sweeper has shut down.
func (c *Cache) StartEvictionSweeper(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	logger.WithComponent("dataview").Debugf("starting eviction sweeper with interval: %v, ttl: %v", interval, c.ttl)
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.WithComponent("dataview").Info("eviction sweeper stopped")
				return
			case <-ticker.C:
				c.sweep(time.Now())
			}
		}
	}()
	return done
}

// sweep removes entries idle for longer than the TTL.
func (c *Cache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for encoded, e := range c.entries {
		if len(e.subscribers) > 0 || e.idleSince.IsZero() {
			continue
		}
		if now.Sub(e.idleSince) >= c.ttl {
			delete(c.entries, encoded)
			evicted++
		}
	}
	if evicted > 0 {
		logger.WithComponent("dataview").Debugf("evicted %d idle cache entries", evicted)
	}
}

// Snapshot returns the current state of the subscribed entry. Paused
// subscriptions report idle.
func (s *Subscription) Snapshot() Result {
	if s.entry == nil {
		return Result{Status: StatusIdle}
	}
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	return s.entry.snapshot()
}

// Updates delivers state changes, latest-wins. Nil for paused subscriptions.
func (s *Subscription) Updates() <-chan Result {
	return s.updates
}

// Wait blocks until the entry leaves the loading state or ctx is done. With
// a previously fetched value present it returns immediately, serving stale
// data while any revalidation continues in the background.
func (s *Subscription) Wait(ctx context.Context) Result {
	if s.entry == nil {
		return Result{Status: StatusIdle}
	}
	for {
		result := s.Snapshot()
		if result.Status != StatusLoading {
			return result
		}
		select {
		case <-ctx.Done():
			result.Err = ctx.Err()
			return result
		case <-s.updates:
		}
	}
}

// Close releases the subscription. Idempotent. When the last subscriber of
// an entry closes, the entry becomes a candidate for TTL eviction.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		if s.entry == nil {
			return
		}
		s.cache.mu.Lock()
		delete(s.entry.subscribers, s)
		if len(s.entry.subscribers) == 0 {
			s.entry.idleSince = time.Now()
		}
		s.cache.mu.Unlock()
	})
}

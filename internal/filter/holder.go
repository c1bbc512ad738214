package filter

import (
	"encoding/json"
	"sync"

	"github.com/michaelayoade/dotmac-insights/internal/logger"
)

// Holder owns the filter state of one list page. All access goes through the
// mutex; callers receive copies.
type Holder struct {
	mu    sync.Mutex
	state State
}

// NewHolder creates a holder starting from the given state.
func NewHolder(initial State) *Holder {
	return &Holder{state: initial.clamped()}
}

// State returns a copy of the current state.
func (h *Holder) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.clone()
}

// Update applies the patch (including the page-reset rule) and returns the
// resulting state.
func (h *Holder) Update(p Patch) State {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = h.state.Apply(p)
	return h.state.clone()
}

// SetPage moves to another page without touching any filter field. Used by
// pagination controls and the last-page correction.
func (h *Holder) SetPage(page int) State {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.Page = page
	h.state = h.state.clamped()
	return h.state.clone()
}

// Reset restores the default state.
func (h *Holder) Reset() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = Default()
	return h.state.clone()
}

// Store is the process-wide keyed store persisted holders read and write.
// Keys are dot-delimited per page, e.g. "support.tickets.filters".
type Store interface {
	Get(key string) (json.RawMessage, bool)
	Put(key string, value json.RawMessage)
}

// PersistentHolder is a Holder whose state survives in a Store. Hydration
// degrades to defaults when the stored value is absent, malformed, or from
// an incompatible schema version.
type PersistentHolder struct {
	Holder
	store Store
	key   string
}

// NewPersistentHolder hydrates a holder from store under the given page key.
func NewPersistentHolder(store Store, key string, defaults State) *PersistentHolder {
	state := defaults.clamped()
	if raw, ok := store.Get(key); ok {
		var stored State
		if err := json.Unmarshal(raw, &stored); err != nil {
			logger.WithComponent("filter").Warnf("discarding malformed persisted filters for %s: %v", key, err)
		} else if stored.Version != SchemaVersion {
			logger.WithComponent("filter").Warnf("discarding persisted filters for %s: schema version %d, want %d", key, stored.Version, SchemaVersion)
		} else {
			state = stored.clamped()
		}
	}

	return &PersistentHolder{
		Holder: Holder{state: state},
		store:  store,
		key:    key,
	}
}

// Update applies the patch and writes the result back to the store.
func (h *PersistentHolder) Update(p Patch) State {
	state := h.Holder.Update(p)
	h.persist(state)
	return state
}

// SetPage moves pages and writes the result back to the store.
func (h *PersistentHolder) SetPage(page int) State {
	state := h.Holder.SetPage(page)
	h.persist(state)
	return state
}

// Reset restores defaults and writes them back to the store.
func (h *PersistentHolder) Reset() State {
	state := h.Holder.Reset()
	h.persist(state)
	return state
}

func (h *PersistentHolder) persist(state State) {
	raw, err := json.Marshal(state)
	if err != nil {
		logger.WithComponent("filter").Errorf("cannot persist filters for %s: %v", h.key, err)
		return
	}
	h.store.Put(h.key, raw)
}

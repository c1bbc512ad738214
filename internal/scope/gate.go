// Package scope gates data views behind the scopes granted to a token.
// Views whose scope check fails never reach the remote backend; their
// fetches stay paused and the caller gets an access-denied decision it can
// render instead of data.
package scope

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/michaelayoade/dotmac-insights/internal/logger"
)

// ScopeLister resolves the scopes granted to a bearer token.
type ScopeLister interface {
	Scopes(ctx context.Context, token string) ([]string, error)
}

// Decision is the outcome of a gate check. Granted is false when any
// required scope is missing; Missing lists which ones.
type Decision struct {
	Granted bool
	Missing []string
}

// Gate answers "may this token see this view". Resolved scope sets are
// cached per token with a TTL so a burst of list and detail fetches does
// not hammer the auth endpoint.
type Gate struct {
	lister ScopeLister
	cache  *expirable.LRU[string, map[string]bool]
}

// NewGate builds a gate with an expiring per-token decision cache.
func NewGate(lister ScopeLister, cacheSize int, cacheTTL time.Duration) *Gate {
	return &Gate{
		lister: lister,
		cache:  expirable.NewLRU[string, map[string]bool](cacheSize, nil, cacheTTL),
	}
}

// Check resolves the token's scopes and reports whether all required scopes
// are present. Resolution errors are returned as-is; callers must treat an
// error as "not granted", never as an open gate.
func (g *Gate) Check(ctx context.Context, token string, required ...string) (Decision, error) {
	if token == "" {
		return Decision{Granted: false, Missing: required}, fmt.Errorf("empty token")
	}

	granted, ok := g.cache.Get(token)
	if !ok {
		scopes, err := g.lister.Scopes(ctx, token)
		if err != nil {
			return Decision{Granted: false, Missing: required}, err
		}
		granted = make(map[string]bool, len(scopes))
		for _, s := range scopes {
			granted[s] = true
		}
		g.cache.Add(token, granted)
		logger.WithComponent("scope").Debugf("resolved %d scopes for token", len(scopes))
	}

	var missing []string
	for _, s := range required {
		if !granted[s] {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		return Decision{Granted: false, Missing: missing}, nil
	}
	return Decision{Granted: true}, nil
}

// Forget drops a token from the cache. Call it when upstream reports the
// token invalid so a freshly granted scope is picked up immediately.
func (g *Gate) Forget(token string) {
	g.cache.Remove(token)
}

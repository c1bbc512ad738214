package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/michaelayoade/dotmac-insights/internal/config"
	"github.com/michaelayoade/dotmac-insights/internal/dataview"
)

const (
	BackendTypeHTTP   = "http"
	BackendTypeMemory = "memory"
)

// Query is everything a list request sends to the remote API.
type Query struct {
	Resource  string
	Params    map[string]string
	Search    string
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// Backend abstracts the remote dotmac API. All reads return raw JSON; typing
// and validation happen at the resource boundary.
type Backend interface {
	FetchList(ctx context.Context, q Query) (dataview.Page[json.RawMessage], error)
	FetchOne(ctx context.Context, resource, id string) (json.RawMessage, error)
	Create(ctx context.Context, resource string, payload any) (json.RawMessage, error)
	Update(ctx context.Context, resource, id string, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, resource, id string) error
	Invoke(ctx context.Context, resource, id, action string) (json.RawMessage, error)
	Scopes(ctx context.Context, token string) ([]string, error)
}

// NewBackendFromConfig creates a Backend based on the configured type.
// "memory" serves seeded demo data and is what the test suites run against;
// "http" (default) talks to the real API.
func NewBackendFromConfig(cfg config.RemoteConfig) (Backend, error) {
	switch cfg.Backend {
	case BackendTypeMemory:
		return NewMemoryBackend(), nil
	case BackendTypeHTTP, "":
		return NewHTTPBackend(cfg)
	default:
		return nil, fmt.Errorf("unknown backend type: %s (supported: %s, %s)", cfg.Backend, BackendTypeHTTP, BackendTypeMemory)
	}
}

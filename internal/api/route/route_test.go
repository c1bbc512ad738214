package route

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/app"
	"github.com/michaelayoade/dotmac-insights/internal/config"
	"github.com/michaelayoade/dotmac-insights/internal/filterstore"
	"github.com/michaelayoade/dotmac-insights/internal/remote"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// The seeded demo token carries every module scope; see the memory backend
// fixtures.
const demoToken = "demo-token"

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			RequestTimeout:     5 * time.Second,
			CORSAllowedOrigins: "*",
		},
		Remote: config.RemoteConfig{
			Backend: remote.BackendTypeMemory,
			BaseURL: "http://upstream.local/api/v1",
		},
		Cache: config.CacheConfig{
			EntryTTL:      time.Minute,
			SweepInterval: time.Minute,
		},
		Filters: config.FiltersConfig{
			FilePath:        filepath.Join(t.TempDir(), "filters.json"),
			PersistInterval: time.Minute,
		},
		Scope: config.ScopeConfig{
			CacheSize: 16,
			CacheTTL:  time.Minute,
		},
	}

	store, err := filterstore.NewJSONStore(cfg.Filters.FilePath)
	if err != nil {
		t.Fatalf("cannot create filter store: %v", err)
	}
	a, err := app.New(cfg, remote.NewMemoryBackend(), store)
	if err != nil {
		t.Fatalf("cannot create app: %v", err)
	}
	t.Cleanup(a.Shutdown)

	return SetupRoutes(a)
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestEngine(t)

	w := get(r, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("cannot parse body: %v", err)
	}
	if body["message"] != "UP" {
		t.Errorf("expected UP, got %q", body["message"])
	}
}

func TestScopedRoutes_RequireToken(t *testing.T) {
	r := newTestEngine(t)

	paths := []string{"/synclogs", "/syncschedules", "/tickets", "/transactions", "/templates"}
	for _, path := range paths {
		if w := get(r, path, ""); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 for %s without a token, got %d", path, w.Code)
		}
	}
}

func TestScopedRoutes_GrantedTokenReachesData(t *testing.T) {
	r := newTestEngine(t)

	paths := []string{"/synclogs", "/syncschedules", "/tickets", "/tickets/stats", "/transactions", "/transactions/aging", "/templates"}
	for _, path := range paths {
		if w := get(r, path, demoToken); w.Code != http.StatusOK {
			t.Errorf("expected 200 for %s, got %d: %s", path, w.Code, w.Body.String())
		}
	}
}

func TestScopedRoutes_UnknownTokenGets401(t *testing.T) {
	r := newTestEngine(t)

	if w := get(r, "/tickets", "no-such-token"); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for an unknown token, got %d", w.Code)
	}
}

func TestSyncLogRetryRoute(t *testing.T) {
	r := newTestEngine(t)

	req := httptest.NewRequest(http.MethodPost, "/synclogs/42/retry", nil)
	req.Header.Set("Authorization", "Bearer "+demoToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("cannot parse body: %v", err)
	}
	if body["status"] != "pending" {
		t.Errorf("expected the log requeued, got %v", body["status"])
	}
}

func TestTransactionAgingRoute(t *testing.T) {
	r := newTestEngine(t)

	w := get(r, "/transactions/aging", demoToken)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Currency           string  `json:"currency"`
		Outstanding        float64 `json:"outstanding"`
		OutstandingDisplay string  `json:"outstanding_display"`
		Buckets            []struct {
			Label        string `json:"label"`
			TotalDisplay string `json:"total_display"`
		} `json:"buckets"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("cannot parse body: %v", err)
	}
	if len(body.Buckets) != 5 {
		t.Errorf("expected 5 aging bands, got %d", len(body.Buckets))
	}
	if body.Outstanding <= 0 {
		t.Errorf("seeded ledger has outstanding balances, got %v", body.Outstanding)
	}
	if body.OutstandingDisplay == "" {
		t.Error("expected a rendered outstanding amount")
	}
}

func TestWriteRoutesAreRegistered(t *testing.T) {
	r := newTestEngine(t)

	req := httptest.NewRequest(http.MethodDelete, "/templates/tpl-otp", nil)
	req.Header.Set("Authorization", "Bearer "+demoToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
}

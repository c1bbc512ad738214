package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/michaelayoade/dotmac-insights/internal/dataview"
	"github.com/michaelayoade/dotmac-insights/internal/logger"
)

// MemoryBackend is a Backend implementation that keeps seeded demo data in
// memory. It implements real filter, search, sort, pagination, and mutation
// semantics, so everything above the transport can be exercised without the
// remote API: demo mode and the test suites run against it.
type MemoryBackend struct {
	mu     sync.RWMutex
	rows   map[string][]map[string]any
	scopes map[string][]string
}

// row field used as the entity id everywhere.
const idField = "id"

func NewMemoryBackend() *MemoryBackend {
	b := &MemoryBackend{
		rows:   map[string][]map[string]any{},
		scopes: map[string][]string{},
	}
	b.seed()
	return b
}

// Seed replaces the rows of one resource. Used by tests to set up exact
// datasets.
func (b *MemoryBackend) Seed(resource string, rows []map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows[resource] = rows
}

// SeedScopes grants scopes to a token.
func (b *MemoryBackend) SeedScopes(token string, scopes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scopes[token] = scopes
}

// FetchList filters, searches, sorts, and paginates the resource rows.
func (b *MemoryBackend) FetchList(ctx context.Context, q Query) (dataview.Page[json.RawMessage], error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rows, ok := b.rows[q.Resource]
	if !ok {
		return dataview.Page[json.RawMessage]{}, &FetchError{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("unknown resource: %s", q.Resource),
		}
	}

	matched := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if matchesParams(row, q.Params) && matchesSearch(row, q.Search) {
			matched = append(matched, row)
		}
	}

	if q.SortBy != "" {
		sortRows(matched, q.SortBy, q.SortOrder)
	}

	total := len(matched)
	limit := q.Limit
	if limit <= 0 {
		limit = total
	}
	start := q.Offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	items := make([]json.RawMessage, 0, end-start)
	for _, row := range matched[start:end] {
		raw, err := json.Marshal(row)
		if err != nil {
			return dataview.Page[json.RawMessage]{}, &FetchError{Message: err.Error()}
		}
		items = append(items, raw)
	}

	return dataview.Page[json.RawMessage]{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: q.Offset,
	}, nil
}

// FetchOne returns the row with the given id.
func (b *MemoryBackend) FetchOne(ctx context.Context, resource, id string) (json.RawMessage, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	row, _, err := b.findLocked(resource, id)
	if err != nil {
		return nil, err
	}
	return json.Marshal(row)
}

// Create inserts a new row, assigning an id when the payload has none.
func (b *MemoryBackend) Create(ctx context.Context, resource string, payload any) (json.RawMessage, error) {
	row, err := toRow(payload)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.rows[resource]; !ok {
		return nil, &MutationError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("unknown resource: %s", resource)}
	}
	if _, ok := row[idField]; !ok {
		row[idField] = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = now
	}
	row["updated_at"] = now

	b.rows[resource] = append(b.rows[resource], row)
	logger.WithComponent("memory-backend").Debugf("created %s %v", resource, row[idField])
	return json.Marshal(row)
}

// Update merges the payload into the existing row.
func (b *MemoryBackend) Update(ctx context.Context, resource, id string, payload any) (json.RawMessage, error) {
	patch, err := toRow(payload)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	row, _, err := b.findLocked(resource, id)
	if err != nil {
		return nil, &MutationError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
	}
	for field, value := range patch {
		if field == idField {
			continue
		}
		row[field] = value
	}
	row["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	return json.Marshal(row)
}

// Delete removes the row with the given id.
func (b *MemoryBackend) Delete(ctx context.Context, resource, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, index, err := b.findLocked(resource, id)
	if err != nil {
		return &MutationError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
	}
	b.rows[resource] = append(b.rows[resource][:index], b.rows[resource][index+1:]...)
	logger.WithComponent("memory-backend").Debugf("deleted %s %s", resource, id)
	return nil
}

// Invoke applies a row action. "retry" requeues a failed sync log; "run"
// kicks off a schedule immediately.
func (b *MemoryBackend) Invoke(ctx context.Context, resource, id, action string) (json.RawMessage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	row, _, err := b.findLocked(resource, id)
	if err != nil {
		return nil, &MutationError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	switch action {
	case "retry":
		if fmt.Sprint(row["status"]) != "failed" {
			return nil, &MutationError{
				StatusCode: http.StatusConflict,
				Message:    fmt.Sprintf("%s %s is not in a retryable state", resource, id),
			}
		}
		row["status"] = "pending"
		row["last_error"] = ""
		if attempts, ok := toFloat(row["attempts"]); ok {
			row["attempts"] = int(attempts) + 1
		}
	case "run":
		row["last_status"] = "pending"
		row["last_run_at"] = now
	default:
		return nil, &MutationError{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("unknown action: %s", action),
		}
	}
	return json.Marshal(row)
}

// Scopes returns the scopes granted to a token.
func (b *MemoryBackend) Scopes(ctx context.Context, token string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	scopes, ok := b.scopes[token]
	if !ok {
		return nil, &FetchError{StatusCode: http.StatusUnauthorized, Message: "unknown token"}
	}
	return scopes, nil
}

// findLocked returns the row with the given id. Caller must hold the lock.
func (b *MemoryBackend) findLocked(resource, id string) (map[string]any, int, error) {
	rows, ok := b.rows[resource]
	if !ok {
		return nil, 0, &FetchError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("unknown resource: %s", resource)}
	}
	for i, row := range rows {
		if fmt.Sprint(row[idField]) == id {
			return row, i, nil
		}
	}
	return nil, 0, &FetchError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

func toRow(payload any) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, &MutationError{Message: fmt.Sprintf("unserializable payload: %v", err)}
	}
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, &MutationError{StatusCode: http.StatusBadRequest, Message: "payload must be an object"}
	}
	return row, nil
}

func matchesParams(row map[string]any, params map[string]string) bool {
	for field, want := range params {
		if want == "" {
			continue
		}
		if fmt.Sprint(row[field]) != want {
			return false
		}
	}
	return true
}

func matchesSearch(row map[string]any, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, value := range row {
		if s, ok := value.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

func sortRows(rows []map[string]any, field, order string) {
	desc := order == "desc"
	sort.SliceStable(rows, func(i, j int) bool {
		less := lessValues(rows[i][field], rows[j][field])
		if desc {
			return lessValues(rows[j][field], rows[i][field])
		}
		return less
	})
}

func lessValues(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

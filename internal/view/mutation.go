package view

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/michaelayoade/dotmac-insights/internal/dataview"
	"github.com/michaelayoade/dotmac-insights/internal/logger"
	"github.com/michaelayoade/dotmac-insights/internal/remote"
)

// ValidationError reports a payload that failed pre-submit validation. The
// remote API is never called for such payloads. Fields maps each offending
// field to the failed rule.
type ValidationError struct {
	Resource string
	Fields   map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, field+": "+rule)
	}
	return fmt.Sprintf("invalid %s payload (%s)", e.Resource, strings.Join(parts, ", "))
}

// Mutator executes create/update/delete/action calls against the backend
// and keeps the cache honest: on success the affected resource and all its
// derived views are invalidated; on failure nothing local changes.
type Mutator struct {
	backend remote.Backend
	cache   *dataview.Cache
}

// NewMutator wires a mutator over the shared cache.
func NewMutator(backend remote.Backend, cache *dataview.Cache) *Mutator {
	return &Mutator{backend: backend, cache: cache}
}

var payloadValidator = validator.New()

// checkPayload validates payload with its struct tags before anything goes
// on the wire.
func checkPayload(resourceName string, payload any) error {
	err := payloadValidator.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	fields := map[string]string{}
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	} else {
		fields["payload"] = err.Error()
	}
	return &ValidationError{Resource: resourceName, Fields: fields}
}

// Create validates payload, posts it, and on success invalidates the
// resource and its derived views.
func (m *Mutator) Create(ctx context.Context, resourceName string, payload any) (json.RawMessage, error) {
	if err := checkPayload(resourceName, payload); err != nil {
		return nil, err
	}
	raw, err := m.backend.Create(ctx, resourceName, payload)
	if err != nil {
		return nil, err
	}
	m.invalidate(resourceName, "create")
	return raw, nil
}

// Update validates payload, puts it, and on success invalidates the
// resource and its derived views.
func (m *Mutator) Update(ctx context.Context, resourceName, id string, payload any) (json.RawMessage, error) {
	if err := checkPayload(resourceName, payload); err != nil {
		return nil, err
	}
	raw, err := m.backend.Update(ctx, resourceName, id, payload)
	if err != nil {
		return nil, err
	}
	m.invalidate(resourceName, "update")
	return raw, nil
}

// Delete removes the entity and on success invalidates the resource and its
// derived views. List views pick up the shrunk collection on their next
// fetch and clamp the page if it fell past the end.
func (m *Mutator) Delete(ctx context.Context, resourceName, id string) error {
	if err := m.backend.Delete(ctx, resourceName, id); err != nil {
		return err
	}
	m.invalidate(resourceName, "delete")
	return nil
}

// Invoke runs a row action such as retry or run, invalidating the resource
// on success.
func (m *Mutator) Invoke(ctx context.Context, resourceName, id, action string) (json.RawMessage, error) {
	raw, err := m.backend.Invoke(ctx, resourceName, id, action)
	if err != nil {
		return nil, err
	}
	m.invalidate(resourceName, action)
	return raw, nil
}

func (m *Mutator) invalidate(resourceName, action string) {
	logger.WithComponent("view").Debugf("%s on %s committed, invalidating", action, resourceName)
	m.cache.InvalidateResource(resourceName)
}

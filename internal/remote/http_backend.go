package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/michaelayoade/dotmac-insights/internal/config"
	"github.com/michaelayoade/dotmac-insights/internal/dataview"
	"github.com/michaelayoade/dotmac-insights/internal/logger"
)

// HTTPBackend talks to the dotmac API over REST.
type HTTPBackend struct {
	client  *resty.Client
	baseURL string
}

// apiError is the error envelope the dotmac API uses for non-2xx responses.
type apiError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (e apiError) message(fallback string) string {
	if e.Error != "" {
		return e.Error
	}
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// listEnvelope is the wire shape of every list endpoint.
type listEnvelope struct {
	Items  []json.RawMessage `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// NewHTTPBackend builds the resty client: JSON headers, bearer auth, bounded
// retries with backoff, and a per-request id for upstream correlation.
func NewHTTPBackend(cfg config.RemoteConfig) (*HTTPBackend, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute with a host, got: %s", cfg.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base URL scheme must be http or https, got: %s", parsed.Scheme)
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWaitTime).
		SetRetryMaxWaitTime(cfg.RetryMaxWaitTime)

	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})

	// Retry network errors and 5xx; a 4xx is the caller's problem.
	client.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return resp.StatusCode() >= http.StatusInternalServerError
	})

	return &HTTPBackend{client: client, baseURL: cfg.BaseURL}, nil
}

// FetchList performs GET /{resource} with the query's filter, search, sort
// and pagination parameters.
func (b *HTTPBackend) FetchList(ctx context.Context, q Query) (dataview.Page[json.RawMessage], error) {
	req := b.client.R().SetContext(ctx)
	req.SetQueryParam("limit", strconv.Itoa(q.Limit))
	req.SetQueryParam("offset", strconv.Itoa(q.Offset))
	if q.Search != "" {
		req.SetQueryParam("search", q.Search)
	}
	if q.SortBy != "" {
		req.SetQueryParam("sort_by", q.SortBy)
		req.SetQueryParam("sort_order", q.SortOrder)
	}
	for name, value := range q.Params {
		if value != "" {
			req.SetQueryParam(name, value)
		}
	}

	resp, err := req.Get("/" + q.Resource)
	if err != nil {
		return dataview.Page[json.RawMessage]{}, &FetchError{Message: err.Error()}
	}
	if resp.IsError() {
		return dataview.Page[json.RawMessage]{}, fetchErrorFrom(resp)
	}

	var envelope listEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return dataview.Page[json.RawMessage]{}, &FetchError{
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("malformed list response: %v", err),
		}
	}

	return dataview.Page[json.RawMessage]{
		Items:  envelope.Items,
		Total:  envelope.Total,
		Limit:  envelope.Limit,
		Offset: envelope.Offset,
	}, nil
}

// FetchOne performs GET /{resource}/{id}.
func (b *HTTPBackend) FetchOne(ctx context.Context, resource, id string) (json.RawMessage, error) {
	resp, err := b.client.R().SetContext(ctx).Get(fmt.Sprintf("/%s/%s", resource, url.PathEscape(id)))
	if err != nil {
		return nil, &FetchError{Message: err.Error()}
	}
	if resp.IsError() {
		return nil, fetchErrorFrom(resp)
	}
	return json.RawMessage(resp.Body()), nil
}

// Create performs POST /{resource}.
func (b *HTTPBackend) Create(ctx context.Context, resource string, payload any) (json.RawMessage, error) {
	resp, err := b.client.R().SetContext(ctx).SetBody(payload).Post("/" + resource)
	if err != nil {
		return nil, &MutationError{Message: err.Error()}
	}
	if resp.IsError() {
		return nil, mutationErrorFrom(resp)
	}
	return json.RawMessage(resp.Body()), nil
}

// Update performs PUT /{resource}/{id}.
func (b *HTTPBackend) Update(ctx context.Context, resource, id string, payload any) (json.RawMessage, error) {
	resp, err := b.client.R().SetContext(ctx).SetBody(payload).
		Put(fmt.Sprintf("/%s/%s", resource, url.PathEscape(id)))
	if err != nil {
		return nil, &MutationError{Message: err.Error()}
	}
	if resp.IsError() {
		return nil, mutationErrorFrom(resp)
	}
	return json.RawMessage(resp.Body()), nil
}

// Delete performs DELETE /{resource}/{id}.
func (b *HTTPBackend) Delete(ctx context.Context, resource, id string) error {
	resp, err := b.client.R().SetContext(ctx).
		Delete(fmt.Sprintf("/%s/%s", resource, url.PathEscape(id)))
	if err != nil {
		return &MutationError{Message: err.Error()}
	}
	if resp.IsError() {
		return mutationErrorFrom(resp)
	}
	return nil
}

// Invoke performs POST /{resource}/{id}/{action} for row actions such as
// retry and run.
func (b *HTTPBackend) Invoke(ctx context.Context, resource, id, action string) (json.RawMessage, error) {
	logger.WithComponent("remote").Debugf("invoking %s on %s/%s", action, resource, id)
	resp, err := b.client.R().SetContext(ctx).
		Post(fmt.Sprintf("/%s/%s/%s", resource, url.PathEscape(id), action))
	if err != nil {
		return nil, &MutationError{Message: err.Error()}
	}
	if resp.IsError() {
		return nil, mutationErrorFrom(resp)
	}
	return json.RawMessage(resp.Body()), nil
}

// Scopes performs GET /auth/scopes for the given token.
func (b *HTTPBackend) Scopes(ctx context.Context, token string) ([]string, error) {
	resp, err := b.client.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		Get("/auth/scopes")
	if err != nil {
		return nil, &FetchError{Message: err.Error()}
	}
	if resp.IsError() {
		return nil, fetchErrorFrom(resp)
	}

	var body struct {
		Scopes []string `json:"scopes"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &FetchError{
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf("malformed scopes response: %v", err),
		}
	}
	return body.Scopes, nil
}

func fetchErrorFrom(resp *resty.Response) *FetchError {
	var envelope apiError
	_ = json.Unmarshal(resp.Body(), &envelope)
	return &FetchError{
		StatusCode: resp.StatusCode(),
		Message:    envelope.message(http.StatusText(resp.StatusCode())),
	}
}

func mutationErrorFrom(resp *resty.Response) *MutationError {
	var envelope apiError
	_ = json.Unmarshal(resp.Body(), &envelope)
	return &MutationError{
		StatusCode: resp.StatusCode(),
		Message:    envelope.message(http.StatusText(resp.StatusCode())),
	}
}

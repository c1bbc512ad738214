package resource

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/michaelayoade/dotmac-insights/internal/dataview"
)

// Resource names. These are the cache key prefixes and, for plain resources,
// the remote API path segments. Dotted names are derived views computed from
// a base resource and never map to a remote endpoint of their own.
const (
	SyncLogs         = "synclogs"
	SyncSchedules    = "syncschedules"
	Tickets          = "tickets"
	TicketStats      = "tickets.stats"
	Transactions     = "transactions"
	TransactionAging = "transactions.aging"
	Templates        = "templates"
)

// Entity is the minimal contract every resource record satisfies: a stable
// id usable as cache sub-key and table row key.
type Entity interface {
	EntityID() string
}

// ParseError reports a response that failed boundary validation. The API
// contract is weakly typed at the wire; every payload is validated on
// receipt so bad data fails fast here instead of leaking zero values into
// views.
type ParseError struct {
	Resource string
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Resource, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Resource, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

var validate = validator.New()

// Decode parses and validates a single entity payload.
func Decode[T any](resourceName string, raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &ParseError{Resource: resourceName, Reason: "malformed payload", Err: err}
	}
	if err := validate.Struct(&v); err != nil {
		return v, &ParseError{Resource: resourceName, Reason: "invalid payload", Err: err}
	}
	return v, nil
}

// DecodePage parses and validates a raw page into a typed one. Every item is
// validated, and a page carrying more items than its limit is rejected.
func DecodePage[T any](resourceName string, raw dataview.Page[json.RawMessage]) (dataview.Page[T], error) {
	if raw.Limit > 0 && len(raw.Items) > raw.Limit {
		return dataview.Page[T]{}, &ParseError{
			Resource: resourceName,
			Reason:   fmt.Sprintf("server returned %d items for limit %d", len(raw.Items), raw.Limit),
		}
	}

	items := make([]T, 0, len(raw.Items))
	for _, rawItem := range raw.Items {
		item, err := Decode[T](resourceName, rawItem)
		if err != nil {
			return dataview.Page[T]{}, err
		}
		items = append(items, item)
	}

	return dataview.Page[T]{
		Items:  items,
		Total:  raw.Total,
		Limit:  raw.Limit,
		Offset: raw.Offset,
	}, nil
}

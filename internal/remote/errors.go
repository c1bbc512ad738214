package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// FetchError reports a failed read against the remote API. The message is
// meant to be shown inline next to a retry action.
type FetchError struct {
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed (%d): %s", e.StatusCode, e.Message)
}

// MutationError reports a rejected create/update/delete/action call. Failed
// mutations never commit anything locally; the message surfaces near the
// action trigger.
type MutationError struct {
	StatusCode int
	Message    string
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("mutation failed (%d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == http.StatusNotFound
	}
	var mutErr *MutationError
	if errors.As(err, &mutErr) {
		return mutErr.StatusCode == http.StatusNotFound
	}
	return false
}

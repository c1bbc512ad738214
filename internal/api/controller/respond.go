package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/logger"
	"github.com/michaelayoade/dotmac-insights/internal/remote"
	"github.com/michaelayoade/dotmac-insights/internal/resource"
	"github.com/michaelayoade/dotmac-insights/internal/view"
)

// respondError maps the error taxonomy onto HTTP statuses. Validation
// failures are the client's fault; parse errors mean the upstream broke its
// contract; fetch and mutation errors pass the upstream's own 4xx through
// and collapse everything else to 502.
func respondError(c *gin.Context, err error) {
	var verr *view.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
		return
	}

	var perr *resource.ParseError
	if errors.As(err, &perr) {
		logger.WithComponent("controller").Errorf("upstream contract violation: %v", perr)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "upstream returned malformed data",
		})
		return
	}

	var ferr *remote.FetchError
	if errors.As(err, &ferr) {
		c.JSON(upstreamStatus(ferr.StatusCode), gin.H{"error": ferr.Message})
		return
	}

	var merr *remote.MutationError
	if errors.As(err, &merr) {
		c.JSON(upstreamStatus(merr.StatusCode), gin.H{"error": merr.Message})
		return
	}

	logger.WithComponent("controller").Errorf("unhandled error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// upstreamStatus passes client errors through and hides upstream faults
// behind 502.
func upstreamStatus(code int) int {
	if code >= 400 && code < 500 {
		return code
	}
	return http.StatusBadGateway
}

// listBody renders a list state. A refresh_error field appears when stale
// rows are being served because the latest revalidation failed.
func listBody[T any](state view.ListState[T]) gin.H {
	items := state.Items
	if items == nil {
		items = []T{}
	}
	body := gin.H{
		"items":       items,
		"total":       state.Total,
		"page":        state.Page,
		"page_size":   state.PageSize,
		"total_pages": state.TotalPages,
		"has_next":    state.HasNext,
		"has_prev":    state.HasPrev,
	}
	if !state.LastFetchedAt.IsZero() {
		body["fetched_at"] = state.LastFetchedAt
	}
	if state.Err != nil {
		body["refresh_error"] = state.Err.Error()
	}
	return body
}

package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/app"
	"github.com/michaelayoade/dotmac-insights/internal/dataview"
	"github.com/michaelayoade/dotmac-insights/internal/filter"
	"github.com/michaelayoade/dotmac-insights/internal/format"
	"github.com/michaelayoade/dotmac-insights/internal/remote"
	"github.com/michaelayoade/dotmac-insights/internal/resource"
	"github.com/michaelayoade/dotmac-insights/internal/view"
)

// TransactionController serves the read-only transaction ledger plus the
// derived receivables aging view.
type TransactionController struct {
	crud  *DataViewController[resource.Transaction, struct{}]
	aging *view.DerivedView[resource.AgingSummary]
}

// NewTransactionController wires the transaction views. Aging is recomputed
// whenever transactions change.
func NewTransactionController(appCtx *app.App) *TransactionController {
	holder := filter.NewPersistentHolder(appCtx.Filters, "books.transactions", filter.Default())
	backend := appCtx.Backend

	aging := view.NewDerivedView(appCtx.Cache, resource.TransactionAging,
		func(ctx context.Context) (resource.AgingSummary, error) {
			raw, err := backend.FetchList(ctx, remote.Query{
				Resource: resource.Transactions,
				Limit:    aggregateFetchLimit,
			})
			if err != nil {
				return resource.AgingSummary{}, err
			}
			page, err := resource.DecodePage[resource.Transaction](resource.Transactions, raw)
			if err != nil {
				return resource.AgingSummary{}, err
			}
			return resource.AggregateAging(page.Items, time.Now()), nil
		})

	return &TransactionController{
		crud: NewDataViewController[resource.Transaction, struct{}](
			appCtx.Cache, backend, appCtx.Mutator,
			resource.Transactions, holder, appCtx.Config.Remote.BaseURL,
			"status", "account", "currency",
		),
		aging: aging,
	}
}

// List handles GET /transactions.
func (tc *TransactionController) List(c *gin.Context) {
	tc.crud.List(c)
}

// Get handles GET /transactions/:id.
func (tc *TransactionController) Get(c *gin.Context) {
	tc.crud.Get(c)
}

// Export handles GET /transactions/export.
func (tc *TransactionController) Export(c *gin.Context) {
	tc.crud.Export(c)
}

// Aging handles GET /transactions/aging - outstanding balances bucketed by
// days overdue, with display strings pre-rendered for table cells.
func (tc *TransactionController) Aging(c *gin.Context) {
	state := tc.aging.Get(c.Request.Context())
	if state.Status == dataview.StatusError {
		respondError(c, state.Err)
		return
	}

	buckets := make([]gin.H, 0, len(state.Value.Buckets))
	for _, bucket := range state.Value.Buckets {
		buckets = append(buckets, gin.H{
			"label":         bucket.Label,
			"count":         bucket.Count,
			"total":         bucket.Total,
			"total_display": format.Amount(bucket.Total, state.Value.Currency),
		})
	}
	body := gin.H{
		"currency":            state.Value.Currency,
		"outstanding":         state.Value.Outstanding,
		"outstanding_display": format.Amount(state.Value.Outstanding, state.Value.Currency),
		"buckets":             buckets,
	}
	if !state.LastFetchedAt.IsZero() {
		body["as_of"] = format.DateTime(state.LastFetchedAt)
	}
	if state.Err != nil {
		body["refresh_error"] = state.Err.Error()
	}
	c.JSON(http.StatusOK, body)
}

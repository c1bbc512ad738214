package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/app"
	"github.com/michaelayoade/dotmac-insights/internal/dataview"
	"github.com/michaelayoade/dotmac-insights/internal/filter"
	"github.com/michaelayoade/dotmac-insights/internal/remote"
	"github.com/michaelayoade/dotmac-insights/internal/resource"
	"github.com/michaelayoade/dotmac-insights/internal/view"
)

// aggregateFetchLimit bounds how many rows a derived aggregate pulls in one
// request.
const aggregateFetchLimit = 500

// TicketController serves support ticket CRUD plus the derived queue stats.
type TicketController struct {
	crud  *DataViewController[resource.Ticket, resource.TicketPayload]
	stats *view.DerivedView[resource.TicketStatsSummary]
}

// NewTicketController wires the ticket views. The stats view is cached under
// its own derived name and recomputed whenever tickets change.
func NewTicketController(appCtx *app.App) *TicketController {
	holder := filter.NewPersistentHolder(appCtx.Filters, "support.tickets", filter.Default())
	backend := appCtx.Backend

	stats := view.NewDerivedView(appCtx.Cache, resource.TicketStats,
		func(ctx context.Context) (resource.TicketStatsSummary, error) {
			raw, err := backend.FetchList(ctx, remote.Query{
				Resource: resource.Tickets,
				Limit:    aggregateFetchLimit,
			})
			if err != nil {
				return resource.TicketStatsSummary{}, err
			}
			page, err := resource.DecodePage[resource.Ticket](resource.Tickets, raw)
			if err != nil {
				return resource.TicketStatsSummary{}, err
			}
			return resource.AggregateTicketStats(page.Items), nil
		})

	return &TicketController{
		crud: NewDataViewController[resource.Ticket, resource.TicketPayload](
			appCtx.Cache, backend, appCtx.Mutator,
			resource.Tickets, holder, appCtx.Config.Remote.BaseURL,
			"status", "priority", "assigned_to", "requester",
		),
		stats: stats,
	}
}

// List handles GET /tickets.
func (tc *TicketController) List(c *gin.Context) {
	tc.crud.List(c)
}

// Get handles GET /tickets/:id.
func (tc *TicketController) Get(c *gin.Context) {
	tc.crud.Get(c)
}

// Create handles POST /tickets.
func (tc *TicketController) Create(c *gin.Context) {
	tc.crud.Create(c)
}

// Update handles PUT /tickets/:id.
func (tc *TicketController) Update(c *gin.Context) {
	tc.crud.Update(c)
}

// Delete handles DELETE /tickets/:id.
func (tc *TicketController) Delete(c *gin.Context) {
	tc.crud.Delete(c)
}

// Export handles GET /tickets/export.
func (tc *TicketController) Export(c *gin.Context) {
	tc.crud.Export(c)
}

// Stats handles GET /tickets/stats - the derived queue summary.
func (tc *TicketController) Stats(c *gin.Context) {
	state := tc.stats.Get(c.Request.Context())
	if state.Status == dataview.StatusError {
		respondError(c, state.Err)
		return
	}
	body := gin.H{
		"total":      state.Value.Total,
		"open":       state.Value.Open,
		"pending":    state.Value.Pending,
		"resolved":   state.Value.Resolved,
		"closed":     state.Value.Closed,
		"urgent":     state.Value.Urgent,
		"unassigned": state.Value.Unassigned,
	}
	if state.Err != nil {
		body["refresh_error"] = state.Err.Error()
	}
	c.JSON(http.StatusOK, body)
}

package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/app"
	"github.com/michaelayoade/dotmac-insights/internal/filter"
	"github.com/michaelayoade/dotmac-insights/internal/logger"
	"github.com/michaelayoade/dotmac-insights/internal/resource"
)

// SyncLogController serves the outbound sync log: a read-only list plus the
// retry action on failed entries.
type SyncLogController struct {
	crud *DataViewController[resource.SyncLog, struct{}]
}

// NewSyncLogController wires the sync log views with their persistent
// filter state.
func NewSyncLogController(appCtx *app.App) *SyncLogController {
	holder := filter.NewPersistentHolder(appCtx.Filters, "sync.logs", filter.Default())
	return &SyncLogController{
		crud: NewDataViewController[resource.SyncLog, struct{}](
			appCtx.Cache, appCtx.Backend, appCtx.Mutator,
			resource.SyncLogs, holder, appCtx.Config.Remote.BaseURL,
			"status", "resource", "operation",
		),
	}
}

// List handles GET /synclogs.
func (sc *SyncLogController) List(c *gin.Context) {
	sc.crud.List(c)
}

// Get handles GET /synclogs/:id.
func (sc *SyncLogController) Get(c *gin.Context) {
	sc.crud.Get(c)
}

// Retry handles POST /synclogs/:id/retry - requeues a failed sync.
func (sc *SyncLogController) Retry(c *gin.Context) {
	logger.WithComponent("synclog-controller").Debugf("retry requested for sync log %s", c.Param("id"))
	sc.crud.InvokeAction("retry")(c)
}

// Export handles GET /synclogs/export.
func (sc *SyncLogController) Export(c *gin.Context) {
	sc.crud.Export(c)
}

package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/app"
	"github.com/michaelayoade/dotmac-insights/internal/filter"
	"github.com/michaelayoade/dotmac-insights/internal/logger"
	"github.com/michaelayoade/dotmac-insights/internal/resource"
)

// ScheduleController serves sync schedule CRUD plus the run-now action.
type ScheduleController struct {
	crud *DataViewController[resource.SyncSchedule, resource.SchedulePayload]
}

// NewScheduleController wires the schedule views with their persistent
// filter state.
func NewScheduleController(appCtx *app.App) *ScheduleController {
	holder := filter.NewPersistentHolder(appCtx.Filters, "sync.schedules", filter.Default())
	return &ScheduleController{
		crud: NewDataViewController[resource.SyncSchedule, resource.SchedulePayload](
			appCtx.Cache, appCtx.Backend, appCtx.Mutator,
			resource.SyncSchedules, holder, appCtx.Config.Remote.BaseURL,
			"resource", "active",
		),
	}
}

// List handles GET /syncschedules.
func (sc *ScheduleController) List(c *gin.Context) {
	sc.crud.List(c)
}

// Get handles GET /syncschedules/:id.
func (sc *ScheduleController) Get(c *gin.Context) {
	sc.crud.Get(c)
}

// Create handles POST /syncschedules.
func (sc *ScheduleController) Create(c *gin.Context) {
	sc.crud.Create(c)
}

// Update handles PUT /syncschedules/:id.
func (sc *ScheduleController) Update(c *gin.Context) {
	sc.crud.Update(c)
}

// Delete handles DELETE /syncschedules/:id.
func (sc *ScheduleController) Delete(c *gin.Context) {
	sc.crud.Delete(c)
}

// Run handles POST /syncschedules/:id/run - queues an immediate run.
func (sc *ScheduleController) Run(c *gin.Context) {
	logger.WithComponent("schedule-controller").Debugf("immediate run requested for schedule %s", c.Param("id"))
	sc.crud.InvokeAction("run")(c)
}

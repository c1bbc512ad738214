package route

import (
	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/api/controller"
	"github.com/michaelayoade/dotmac-insights/internal/api/middleware"
	"github.com/michaelayoade/dotmac-insights/internal/app"
)

// NewSyncRouter registers the sync log and sync schedule endpoints. Both
// belong to the admin sync module and share its scope.
func NewSyncRouter(group *gin.RouterGroup, appCtx *app.App) {
	sync := group.Group("", middleware.RequireScopes(appCtx.Gate, ScopeAdminSync))

	lc := controller.NewSyncLogController(appCtx)
	sync.GET("/synclogs", lc.List)
	sync.GET("/synclogs/export", lc.Export)
	sync.GET("/synclogs/:id", lc.Get)
	sync.POST("/synclogs/:id/retry", lc.Retry)

	sc := controller.NewScheduleController(appCtx)
	sync.GET("/syncschedules", sc.List)
	sync.GET("/syncschedules/:id", sc.Get)
	sync.POST("/syncschedules", sc.Create)
	sync.PUT("/syncschedules/:id", sc.Update)
	sync.DELETE("/syncschedules/:id", sc.Delete)
	sync.POST("/syncschedules/:id/run", sc.Run)
}

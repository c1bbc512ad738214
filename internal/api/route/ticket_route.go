package route

import (
	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/api/controller"
	"github.com/michaelayoade/dotmac-insights/internal/api/middleware"
	"github.com/michaelayoade/dotmac-insights/internal/app"
)

// NewTicketRouter registers the support ticket endpoints.
func NewTicketRouter(group *gin.RouterGroup, appCtx *app.App) {
	tickets := group.Group("", middleware.RequireScopes(appCtx.Gate, ScopeSupportTickets))

	tc := controller.NewTicketController(appCtx)
	tickets.GET("/tickets", tc.List)
	tickets.GET("/tickets/stats", tc.Stats)
	tickets.GET("/tickets/export", tc.Export)
	tickets.GET("/tickets/:id", tc.Get)
	tickets.POST("/tickets", tc.Create)
	tickets.PUT("/tickets/:id", tc.Update)
	tickets.DELETE("/tickets/:id", tc.Delete)
}

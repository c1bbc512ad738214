package route

import (
	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/api/controller"
	"github.com/michaelayoade/dotmac-insights/internal/api/middleware"
	"github.com/michaelayoade/dotmac-insights/internal/app"
)

// NewTemplateRouter registers the notification template endpoints.
func NewTemplateRouter(group *gin.RouterGroup, appCtx *app.App) {
	templates := group.Group("", middleware.RequireScopes(appCtx.Gate, ScopeAdminTemplates))

	tc := controller.NewTemplateController(appCtx)
	templates.GET("/templates", tc.List)
	templates.GET("/templates/:id", tc.Get)
	templates.POST("/templates", tc.Create)
	templates.PUT("/templates/:id", tc.Update)
	templates.DELETE("/templates/:id", tc.Delete)
}

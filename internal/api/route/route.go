package route

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/api/middleware"
	"github.com/michaelayoade/dotmac-insights/internal/app"
	"github.com/michaelayoade/dotmac-insights/internal/logger"
)

// Required scopes per module.
const (
	ScopeAdminSync         = "admin.sync"
	ScopeSupportTickets    = "support.tickets"
	ScopeBooksTransactions = "books.transactions"
	ScopeAdminTemplates    = "admin.templates"
)

// SetupRoutes builds the gin engine: global middleware, the health probe,
// and one scope-gated group per module.
func SetupRoutes(appCtx *app.App) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Honeybadger(logger.Logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(appCtx.Config.Server.CORSAllowedOrigins))
	r.Use(middleware.RequestTimeout(appCtx.Config.Server.RequestTimeout))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "UP",
		})
	})

	api := r.Group("")

	NewSyncRouter(api, appCtx)
	NewTicketRouter(api, appCtx)
	NewTransactionRouter(api, appCtx)
	NewTemplateRouter(api, appCtx)

	return r
}

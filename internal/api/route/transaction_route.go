package route

import (
	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/api/controller"
	"github.com/michaelayoade/dotmac-insights/internal/api/middleware"
	"github.com/michaelayoade/dotmac-insights/internal/app"
)

// NewTransactionRouter registers the read-only transaction ledger endpoints.
func NewTransactionRouter(group *gin.RouterGroup, appCtx *app.App) {
	books := group.Group("", middleware.RequireScopes(appCtx.Gate, ScopeBooksTransactions))

	tc := controller.NewTransactionController(appCtx)
	books.GET("/transactions", tc.List)
	books.GET("/transactions/aging", tc.Aging)
	books.GET("/transactions/export", tc.Export)
	books.GET("/transactions/:id", tc.Get)
}

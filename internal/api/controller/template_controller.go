package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/app"
	"github.com/michaelayoade/dotmac-insights/internal/filter"
	"github.com/michaelayoade/dotmac-insights/internal/resource"
)

// TemplateController serves notification template CRUD.
type TemplateController struct {
	crud *DataViewController[resource.Template, resource.TemplatePayload]
}

// NewTemplateController wires the template views with their persistent
// filter state.
func NewTemplateController(appCtx *app.App) *TemplateController {
	holder := filter.NewPersistentHolder(appCtx.Filters, "admin.templates", filter.Default())
	return &TemplateController{
		crud: NewDataViewController[resource.Template, resource.TemplatePayload](
			appCtx.Cache, appCtx.Backend, appCtx.Mutator,
			resource.Templates, holder, appCtx.Config.Remote.BaseURL,
			"channel", "active",
		),
	}
}

// List handles GET /templates.
func (tc *TemplateController) List(c *gin.Context) {
	tc.crud.List(c)
}

// Get handles GET /templates/:id.
func (tc *TemplateController) Get(c *gin.Context) {
	tc.crud.Get(c)
}

// Create handles POST /templates.
func (tc *TemplateController) Create(c *gin.Context) {
	tc.crud.Create(c)
}

// Update handles PUT /templates/:id.
func (tc *TemplateController) Update(c *gin.Context) {
	tc.crud.Update(c)
}

// Delete handles DELETE /templates/:id.
func (tc *TemplateController) Delete(c *gin.Context) {
	tc.crud.Delete(c)
}

package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/michaelayoade/dotmac-insights/internal/dataview"
	"github.com/michaelayoade/dotmac-insights/internal/filter"
	"github.com/michaelayoade/dotmac-insights/internal/remote"
	"github.com/michaelayoade/dotmac-insights/internal/view"
)

// DataViewController provides the generic list/detail/mutation handlers for
// one resource. T is the entity type, P the client payload type for creates
// and updates. Resource controllers embed it and add their row actions.
type DataViewController[T any, P any] struct {
	resource   string
	fields     []string
	filters    view.FilterSource
	list       *view.ListView[T]
	detail     *view.DetailView[T]
	mutator    *view.Mutator
	exportBase string
}

// NewDataViewController wires the generic handlers for resourceName. fields
// lists the filterable query parameters the list endpoint accepts; anything
// else is ignored rather than forwarded upstream.
func NewDataViewController[T any, P any](
	cache *dataview.Cache,
	backend remote.Backend,
	mutator *view.Mutator,
	resourceName string,
	filters view.FilterSource,
	exportBase string,
	fields ...string,
) *DataViewController[T, P] {
	return &DataViewController[T, P]{
		resource:   resourceName,
		fields:     fields,
		filters:    filters,
		list:       view.NewListView[T](cache, backend, resourceName, filters),
		detail:     view.NewDetailView[T](cache, backend, resourceName),
		mutator:    mutator,
		exportBase: exportBase,
	}
}

// List handles GET /{resource}. Query parameters patch the persistent
// filter state first (triggering the page reset rule), then the current
// state is fetched through the cache.
func (cc *DataViewController[T, P]) List(c *gin.Context) {
	if c.Query("reset") == "true" {
		cc.filters.Reset()
	}

	patch, err := cc.patchFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !patchEmpty(patch) {
		cc.filters.Update(patch)
	}

	state := cc.list.Fetch(c.Request.Context())
	if state.Status == dataview.StatusError {
		respondError(c, state.Err)
		return
	}
	c.JSON(http.StatusOK, listBody(state))
}

// Get handles GET /{resource}/:id.
func (cc *DataViewController[T, P]) Get(c *gin.Context) {
	state := cc.detail.Load(c.Request.Context(), c.Param("id"))
	if state.Status == dataview.StatusError {
		respondError(c, state.Err)
		return
	}
	if !state.Found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, state.Entity)
}

// Create handles POST /{resource}.
func (cc *DataViewController[T, P]) Create(c *gin.Context) {
	var payload P
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	raw, err := cc.mutator.Create(c.Request.Context(), cc.resource, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusCreated, "application/json", raw)
}

// Update handles PUT /{resource}/:id.
func (cc *DataViewController[T, P]) Update(c *gin.Context) {
	var payload P
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	raw, err := cc.mutator.Update(c.Request.Context(), cc.resource, c.Param("id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

// Delete handles DELETE /{resource}/:id.
func (cc *DataViewController[T, P]) Delete(c *gin.Context) {
	if err := cc.mutator.Delete(c.Request.Context(), cc.resource, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// InvokeAction returns the handler for POST /{resource}/:id/{action}.
func (cc *DataViewController[T, P]) InvokeAction(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := cc.mutator.Invoke(c.Request.Context(), cc.resource, c.Param("id"), action)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/json", raw)
	}
}

// Export handles GET /{resource}/export: it resolves the current filter
// state into a download URL on the remote API and redirects. The file never
// flows through this service or its cache.
func (cc *DataViewController[T, P]) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	exportURL, err := remote.BuildExportURL(cc.exportBase, cc.resource, cc.filters.State(), format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, exportURL)
}

// patchFromQuery builds the filter patch from list query parameters. Only
// parameters present in the query end up in the patch, so omitted ones
// leave the persisted state alone.
func (cc *DataViewController[T, P]) patchFromQuery(c *gin.Context) (filter.Patch, error) {
	var patch filter.Patch

	if v, ok := c.GetQuery("search"); ok {
		patch.Search = &v
	}
	if v, ok := c.GetQuery("sort_by"); ok {
		patch.SortBy = &v
	}
	if v, ok := c.GetQuery("sort_order"); ok {
		patch.SortOrder = &v
	}
	if v, ok := c.GetQuery("page"); ok {
		page, err := strconv.Atoi(v)
		if err != nil {
			return filter.Patch{}, &badQueryError{"page", v}
		}
		patch.Page = &page
	}
	if v, ok := c.GetQuery("page_size"); ok {
		size, err := strconv.Atoi(v)
		if err != nil {
			return filter.Patch{}, &badQueryError{"page_size", v}
		}
		patch.PageSize = &size
	}
	for _, name := range cc.fields {
		if v, ok := c.GetQuery(name); ok {
			if patch.Fields == nil {
				patch.Fields = map[string]string{}
			}
			patch.Fields[name] = v
		}
	}
	return patch, nil
}

func patchEmpty(p filter.Patch) bool {
	return p.Search == nil && p.SortBy == nil && p.SortOrder == nil &&
		p.Page == nil && p.PageSize == nil && len(p.Fields) == 0
}

type badQueryError struct {
	param string
	value string
}

func (e *badQueryError) Error() string {
	raw, _ := json.Marshal(e.value)
	return "invalid " + e.param + " parameter: " + string(raw)
}

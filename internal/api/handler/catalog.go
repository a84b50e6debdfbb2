package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/pvhub/internal/repository"
	"github.com/timmy/pvhub/internal/service"
)

// CatalogHandler serves the manufacturer, efficiency and technology sections.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListManufacturers handles GET /api/v1/manufacturers.
func (h *CatalogHandler) ListManufacturers(c *gin.Context) {
	f := repository.ManufacturerFilter{
		Country: c.Query("country"),
		Stage:   c.Query("stage"),
		Keyword: c.Query("keyword"),
	}
	var err error
	if f.Page, err = queryInt(c, "page"); err != nil {
		writeError(c, err)
		return
	}
	if f.PageSize, err = queryInt(c, "pageSize"); err != nil {
		writeError(c, err)
		return
	}

	page, err := h.catalog.ListManufacturers(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetManufacturer handles GET /api/v1/manufacturers/:id.
func (h *CatalogHandler) GetManufacturer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	item, err := h.catalog.GetManufacturer(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ListEfficiency handles GET /api/v1/efficiency.
func (h *CatalogHandler) ListEfficiency(c *gin.Context) {
	items, err := h.catalog.ListEfficiency(c.Request.Context(), c.Query("cellType"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CurrentEfficiency handles GET /api/v1/efficiency/current.
func (h *CatalogHandler) CurrentEfficiency(c *gin.Context) {
	items, err := h.catalog.CurrentEfficiency(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// EfficiencyChart handles GET /api/v1/efficiency/chart.
func (h *CatalogHandler) EfficiencyChart(c *gin.Context) {
	points, err := h.catalog.EfficiencyChart(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// SeedEfficiency handles POST /api/v1/admin/efficiency/seed.
func (h *CatalogHandler) SeedEfficiency(c *gin.Context) {
	n, err := h.catalog.SeedEfficiency(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": n})
}

// ListPapers handles GET /api/v1/tech/papers.
func (h *CatalogHandler) ListPapers(c *gin.Context) {
	f := repository.PaperFilter{
		ResearchType: c.Query("researchType"),
		Keyword:      c.Query("keyword"),
	}
	var err error
	if f.Limit, err = queryInt(c, "limit"); err != nil {
		writeError(c, err)
		return
	}
	if f.Offset, err = queryInt(c, "offset"); err != nil {
		writeError(c, err)
		return
	}
	if f.IsHighlight, err = queryBool(c, "isHighlight"); err != nil {
		writeError(c, err)
		return
	}

	page, err := h.catalog.ListPapers(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetPaper handles GET /api/v1/tech/papers/:id.
func (h *CatalogHandler) GetPaper(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	item, err := h.catalog.GetPaper(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ListPatents handles GET /api/v1/tech/patents.
func (h *CatalogHandler) ListPatents(c *gin.Context) {
	f := repository.PatentFilter{
		PatentType: c.Query("patentType"),
		Country:    c.Query("country"),
		Status:     c.Query("status"),
		Keyword:    c.Query("keyword"),
	}
	var err error
	if f.Limit, err = queryInt(c, "limit"); err != nil {
		writeError(c, err)
		return
	}
	if f.Offset, err = queryInt(c, "offset"); err != nil {
		writeError(c, err)
		return
	}
	if f.IsHighlight, err = queryBool(c, "isHighlight"); err != nil {
		writeError(c, err)
		return
	}

	page, err := h.catalog.ListPatents(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetPatent handles GET /api/v1/tech/patents/:id.
func (h *CatalogHandler) GetPatent(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	item, err := h.catalog.GetPatent(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

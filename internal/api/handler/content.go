package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/pvhub/internal/repository"
	"github.com/timmy/pvhub/internal/service"
)

// ContentHandler serves the public read API.
type ContentHandler struct {
	content *service.ContentService
	summary *service.SummaryService
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(content *service.ContentService, summary *service.SummaryService) *ContentHandler {
	return &ContentHandler{content: content, summary: summary}
}

// ListNews handles GET /api/v1/news.
func (h *ContentHandler) ListNews(c *gin.Context) {
	f := repository.NewsFilter{
		Category: c.Query("category"),
		Keyword:  c.Query("keyword"),
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
	if f.IsImportant, err = queryBool(c, "isImportant"); err != nil {
		writeError(c, err)
		return
	}
	if f.FromDate, err = queryTime(c, "fromDate"); err != nil {
		writeError(c, err)
		return
	}
	if f.ToDate, err = queryTime(c, "toDate"); err != nil {
		writeError(c, err)
		return
	}

	page, err := h.content.ListNews(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// LatestNews handles GET /api/v1/news/latest.
func (h *ContentHandler) LatestNews(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		writeError(c, err)
		return
	}
	items, err := h.content.LatestNews(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetNews handles GET /api/v1/news/:id.
func (h *ContentHandler) GetNews(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	item, err := h.content.GetNews(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ListTenders handles GET /api/v1/tenders.
func (h *ContentHandler) ListTenders(c *gin.Context) {
	f := repository.TenderFilter{
		ProjectType: c.Query("projectType"),
		Region:      c.Query("region"),
		Keyword:     c.Query("keyword"),
		Status:      c.Query("status"),
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

	page, err := h.content.ListTenders(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// LatestTenders handles GET /api/v1/tenders/latest.
func (h *ContentHandler) LatestTenders(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		writeError(c, err)
		return
	}
	items, err := h.content.LatestTenders(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetTender handles GET /api/v1/tenders/:id.
func (h *ContentHandler) GetTender(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	item, err := h.content.GetTender(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Search handles GET /api/v1/search?q=.
func (h *ContentHandler) Search(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.content.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stats handles GET /api/v1/stats.
func (h *ContentHandler) Stats(c *gin.Context) {
	stats, err := h.content.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SummaryRequest is the body of POST /api/v1/news/summary.
type SummaryRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// GenerateSummary handles POST /api/v1/news/summary.
func (h *ContentHandler) GenerateSummary(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	out, err := h.summary.GenerateSummary(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

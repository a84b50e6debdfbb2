package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/timmy/pvhub/internal/logger"
	"github.com/timmy/pvhub/internal/service"
)

// Runner runs one ingestion.
type Runner interface {
	Run(ctx context.Context, trigger service.Trigger) (service.RunResult, error)
}

// SchedulerReporter exposes the scheduler state.
type SchedulerReporter interface {
	State() service.SchedulerStatus
}

// AdminHandler handles admin operations.
type AdminHandler struct {
	runner    Runner
	scheduler SchedulerReporter
	content   *service.ContentService

	// manual fetch bookkeeping
	mu            sync.RWMutex
	running       int
	lastRunTime   time.Time
	lastRunStatus string
	lastResult    *service.RunResult
}

// NewAdminHandler creates an AdminHandler. scheduler may be nil when the
// timer is disabled.
func NewAdminHandler(runner Runner, scheduler SchedulerReporter, content *service.ContentService) *AdminHandler {
	return &AdminHandler{runner: runner, scheduler: scheduler, content: content}
}

// FetchResponse is the body of a successful manual fetch.
type FetchResponse struct {
	Success     bool `json:"success"`
	NewsCount   int  `json:"newsCount"`
	TenderCount int  `json:"tenderCount"`
}

// TriggerFetch handles POST /api/v1/admin/fetch. It runs the same ingestion
// as the daily timer, synchronously. Concurrent triggers are not rejected.
func (h *AdminHandler) TriggerFetch(c *gin.Context) {
	ctx := c.Request.Context()
	logger.CtxInfo(ctx, "Manual fetch requested: client_ip=%s", c.ClientIP())

	h.mu.Lock()
	h.running++
	h.mu.Unlock()

	// detached from the request so a client disconnect does not abort the run
	runCtx := logger.FromContext(ctx).WithContext(context.Background())
	start := time.Now()
	result, err := h.runner.Run(runCtx, service.TriggerManual)

	h.mu.Lock()
	h.running--
	h.lastRunTime = time.Now()
	if err != nil {
		h.lastRunStatus = "failed: " + err.Error()
		h.lastResult = nil
	} else {
		h.lastRunStatus = "success"
		h.lastResult = &result
	}
	h.mu.Unlock()

	if err != nil {
		logger.With(nil).Since(start).Error(ctx, "Manual fetch failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.content.InvalidateStats(ctx)
	c.JSON(http.StatusOK, FetchResponse{
		Success:     true,
		NewsCount:   result.NewsCount,
		TenderCount: result.TenderCount,
	})
}

// SchedulerStatusResponse combines timer state with the last manual run.
type SchedulerStatusResponse struct {
	Scheduler     service.SchedulerStatus `json:"scheduler"`
	ManualRunning bool                    `json:"manualRunning"`
	LastRunTime   string                  `json:"lastRunTime,omitempty"`
	LastRunStatus string                  `json:"lastRunStatus,omitempty"`
	LastResult    *service.RunResult      `json:"lastResult,omitempty"`
}

// SchedulerStatus handles GET /api/v1/admin/scheduler.
func (h *AdminHandler) SchedulerStatus(c *gin.Context) {
	resp := SchedulerStatusResponse{
		Scheduler: service.SchedulerStatus{State: service.SchedulerIdle},
	}
	if h.scheduler != nil {
		resp.Scheduler = h.scheduler.State()
	}

	h.mu.RLock()
	resp.ManualRunning = h.running > 0
	resp.LastRunStatus = h.lastRunStatus
	resp.LastResult = h.lastResult
	if !h.lastRunTime.IsZero() {
		resp.LastRunTime = h.lastRunTime.Format(time.RFC3339)
	}
	h.mu.RUnlock()

	c.JSON(http.StatusOK, resp)
}

// ListJobs handles GET /api/v1/admin/jobs.
func (h *AdminHandler) ListJobs(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		writeError(c, err)
		return
	}
	jobs, err := h.content.RecentJobs(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// CreateNews handles POST /api/v1/admin/news.
func (h *AdminHandler) CreateNews(c *gin.Context) {
	var in service.NewsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	item, err := h.content.CreateNews(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateNews handles PUT /api/v1/admin/news/:id.
func (h *AdminHandler) UpdateNews(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var in service.NewsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := h.content.UpdateNews(c.Request.Context(), id, in); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteNews handles DELETE /api/v1/admin/news/:id.
func (h *AdminHandler) DeleteNews(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.content.DeleteNews(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateTender handles POST /api/v1/admin/tenders.
func (h *AdminHandler) CreateTender(c *gin.Context) {
	var in service.TenderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	item, err := h.content.CreateTender(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateTender handles PUT /api/v1/admin/tenders/:id.
func (h *AdminHandler) UpdateTender(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var in service.TenderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := h.content.UpdateTender(c.Request.Context(), id, in); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteTender handles DELETE /api/v1/admin/tenders/:id.
func (h *AdminHandler) DeleteTender(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.content.DeleteTender(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

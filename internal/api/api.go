// Package api exposes the orchestrator and source registry over HTTP.
package api

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polibrief/newscrawl/internal/domain"
	"github.com/polibrief/newscrawl/internal/logger"
	"github.com/polibrief/newscrawl/internal/orchestrate"
	"github.com/polibrief/newscrawl/internal/sources"
)

// Runner executes one orchestration run.
type Runner interface {
	Run(ctx context.Context) (*domain.RunReport, error)
}

// Handler serves run and registry state. One run executes at a time;
// triggering while a run is in flight is rejected.
type Handler struct {
	log      logger.Interface
	runner   Runner
	registry *sources.Registry

	// baseCtx bounds background runs, not the triggering request.
	baseCtx context.Context
	running atomic.Bool

	mu     sync.RWMutex
	latest *domain.RunReport
}

// NewHandler creates a handler. Background runs stop when ctx is
// cancelled.
func NewHandler(ctx context.Context, log logger.Interface, runner Runner, registry *sources.Registry) *Handler {
	return &Handler{
		log:      log,
		runner:   runner,
		registry: registry,
		baseCtx:  ctx,
	}
}

// SetupRouter creates and configures the Gin router with all routes.
func SetupRouter(log logger.Interface, h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.GET("/report", h.getReport)
	v1.POST("/runs", h.triggerRun)
	v1.GET("/sources", h.listSources)

	return router
}

// Run executes one orchestration through the same single-run guard the
// HTTP trigger uses, so a scheduled run and a triggered run can never
// overlap. A rejected start returns orchestrate.ErrRunInProgress. The
// finished report is stored as the latest.
func (h *Handler) Run(ctx context.Context) (*domain.RunReport, error) {
	if !h.running.CompareAndSwap(false, true) {
		return nil, orchestrate.ErrRunInProgress
	}
	defer h.running.Store(false)

	report, err := h.runner.Run(ctx)
	if report != nil {
		h.StoreReport(report)
	}
	return report, err
}

// StoreReport records a finished run as the latest report.
func (h *Handler) StoreReport(report *domain.RunReport) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = report
}

// Latest returns the most recent report, nil when no run finished yet.
func (h *Handler) Latest() *domain.RunReport {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

func (h *Handler) getReport(c *gin.Context) {
	report := h.Latest()
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run has completed yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) triggerRun(c *gin.Context) {
	if !h.running.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"error": "a run is already in progress"})
		return
	}

	go h.runAndStore()

	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

func (h *Handler) runAndStore() {
	defer h.running.Store(false)

	report, err := h.runner.Run(h.baseCtx)
	if err != nil {
		h.log.Error("triggered run did not complete", "error", err.Error())
	}
	if report != nil {
		h.StoreReport(report)
	}
}

type sourceSummary struct {
	Name        string `json:"name"`
	Group       string `json:"group"`
	BaseURL     string `json:"base_url"`
	PoliticsURL string `json:"politics_url"`
	Render      bool   `json:"render"`
}

func (h *Handler) listSources(c *gin.Context) {
	all := h.registry.All()
	summaries := make([]sourceSummary, 0, len(all))
	for _, s := range all {
		summaries = append(summaries, sourceSummary{
			Name:        s.Name,
			Group:       s.Group,
			BaseURL:     s.BaseURL,
			PoliticsURL: s.PoliticsURL,
			Render:      s.Render,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"sources": summaries,
		"total":   len(summaries),
	})
}

// loggingMiddleware logs each request after it completes.
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("http request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

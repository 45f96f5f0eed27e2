package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/testflowhq/testflow-api/internal/middleware"
	"github.com/testflowhq/testflow-api/internal/service"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
	"github.com/testflowhq/testflow-api/pkg/response"
)

// AnalyticsHandler exposes dashboard-ready analytics endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	metrics   *service.MetricsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, metrics *service.MetricsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, metrics: metrics}
}

// Snapshot godoc
// @Summary Project analytics
// @Description Aggregated quality metrics for one project
// @Tags Analytics
// @Produce json
// @Param project_id query int true "Project ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /analytics [get]
func (h *AnalyticsHandler) Snapshot(c *gin.Context) {
	projectID := int64Query(c, "project_id")
	if projectID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "project_id is required"))
		return
	}

	start := time.Now()
	snapshot, cacheHit, err := h.analytics.Snapshot(c.Request.Context(), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, snapshot, nil, meta)
}

// Export godoc
// @Summary Export analytics report
// @Description Download the project snapshot as CSV or PDF
// @Tags Analytics
// @Produce text/csv
// @Produce application/pdf
// @Param project_id query int true "Project ID"
// @Param format query string true "csv or pdf"
// @Success 200 {file} byte
// @Failure 400 {object} response.Envelope
// @Router /analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	projectID := int64Query(c, "project_id")
	if projectID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "project_id is required"))
		return
	}

	format := c.DefaultQuery("format", service.ExportFormatCSV)
	payload, contentType, filename, err := h.analytics.Export(c.Request.Context(), projectID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

// System godoc
// @Summary Runtime metrics snapshot
// @Description Aggregated cache and request counters
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/testflowhq/testflow-api/internal/service"
)

func TestAnalyticsSnapshotRequiresProjectID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAnalyticsHandler(nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics", nil)

	handler.Snapshot(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsExportRequiresProjectID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAnalyticsHandler(nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/export?format=csv", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsSystemSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	handler := NewAnalyticsHandler(nil, metrics)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/analytics/system", nil)

	handler.System(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Contains(t, envelope.Data, "goroutines")
}

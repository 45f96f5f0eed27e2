package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/testflowhq/testflow-api/internal/middleware"
	"github.com/testflowhq/testflow-api/internal/models"
	"github.com/testflowhq/testflow-api/internal/service"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
	"github.com/testflowhq/testflow-api/pkg/response"
)

// TestCaseHandler wires HTTP endpoints to the test case service.
type TestCaseHandler struct {
	service *service.TestCaseService
}

// NewTestCaseHandler creates a new handler.
func NewTestCaseHandler(svc *service.TestCaseService) *TestCaseHandler {
	return &TestCaseHandler{service: svc}
}

// List godoc
// @Summary List test cases
// @Description List test cases with filtering and pagination
// @Tags TestCases
// @Produce json
// @Param project_id query int false "Project filter"
// @Param priority query string false "Priority filter"
// @Param type query string false "Type filter"
// @Param search query string false "Title/description search"
// @Param assigned_to query int false "Assignee filter"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /test-cases [get]
func (h *TestCaseHandler) List(c *gin.Context) {
	filter := models.TestCaseFilter{
		ProjectID:  int64Query(c, "project_id"),
		Priority:   c.Query("priority"),
		Type:       c.Query("type"),
		Search:     c.Query("search"),
		AssignedTo: int64Query(c, "assigned_to"),
		Page:       intQuery(c, "page", 1),
		PageSize:   intQuery(c, "page_size", 20),
	}

	result, cacheHit, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	pagination := &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: result.Total,
	}
	response.JSON(c, http.StatusOK, result.TestCases, pagination, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get test case
// @Description Get one test case with steps and recent executions
// @Tags TestCases
// @Produce json
// @Param id path int true "Test case ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /test-cases/{id} [get]
func (h *TestCaseHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Create test case
// @Description Create a test case with ordered steps
// @Tags TestCases
// @Accept json
// @Produce json
// @Param payload body models.TestCaseCreateRequest true "Test case payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /test-cases [post]
func (h *TestCaseHandler) Create(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.TestCaseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid test case payload"))
		return
	}

	detail, err := h.service.Create(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// Update godoc
// @Summary Update test case
// @Description Update test case fields; a steps array replaces all steps
// @Tags TestCases
// @Accept json
// @Produce json
// @Param id path int true "Test case ID"
// @Param payload body models.TestCaseUpdateRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /test-cases/{id} [put]
func (h *TestCaseHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.TestCaseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid test case payload"))
		return
	}

	testCase, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, testCase, nil)
}

// Delete godoc
// @Summary Delete test case
// @Tags TestCases
// @Produce json
// @Param id path int true "Test case ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /test-cases/{id} [delete]
func (h *TestCaseHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Bulk godoc
// @Summary Bulk test case action
// @Description Apply delete, update_priority, update_status, or assign to many test cases
// @Tags TestCases
// @Accept json
// @Produce json
// @Param payload body models.BulkActionRequest true "Bulk payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /test-cases/bulk [post]
func (h *TestCaseHandler) Bulk(c *gin.Context) {
	var req models.BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid bulk payload"))
		return
	}

	if err := h.service.Bulk(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"action": req.Action, "affected": len(req.IDs)}, nil)
}

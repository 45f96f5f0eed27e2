package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/testflowhq/testflow-api/internal/models"
	"github.com/testflowhq/testflow-api/internal/service"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
	"github.com/testflowhq/testflow-api/pkg/response"
)

// ExecutionHandler wires HTTP endpoints to the execution service.
type ExecutionHandler struct {
	service *service.ExecutionService
}

// NewExecutionHandler creates a new handler.
func NewExecutionHandler(svc *service.ExecutionService) *ExecutionHandler {
	return &ExecutionHandler{service: svc}
}

// List godoc
// @Summary List executions
// @Description List execution results, newest first
// @Tags Executions
// @Produce json
// @Param test_case_id query int false "Test case filter"
// @Param project_id query int false "Project filter"
// @Param status query string false "Status filter"
// @Param limit query int false "Row limit (default 50)"
// @Success 200 {object} response.Envelope
// @Router /executions [get]
func (h *ExecutionHandler) List(c *gin.Context) {
	filter := models.ExecutionFilter{
		TestCaseID: int64Query(c, "test_case_id"),
		ProjectID:  int64Query(c, "project_id"),
		Status:     c.Query("status"),
		Limit:      intQuery(c, "limit", 50),
	}

	executions, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, executions, nil)
}

// Create godoc
// @Summary Record execution
// @Description Record the outcome of running a test case
// @Tags Executions
// @Accept json
// @Produce json
// @Param payload body models.ExecutionCreateRequest true "Execution payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /executions [post]
func (h *ExecutionHandler) Create(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.ExecutionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid execution payload"))
		return
	}

	execution, err := h.service.Create(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, execution)
}

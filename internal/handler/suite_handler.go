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

// SuiteHandler wires HTTP endpoints to the suite service.
type SuiteHandler struct {
	service *service.SuiteService
}

// NewSuiteHandler creates a new handler.
func NewSuiteHandler(svc *service.SuiteService) *SuiteHandler {
	return &SuiteHandler{service: svc}
}

// List godoc
// @Summary List test suites
// @Description List suites of one project
// @Tags TestSuites
// @Produce json
// @Param project_id query int true "Project ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /test-suites [get]
func (h *SuiteHandler) List(c *gin.Context) {
	projectID := int64Query(c, "project_id")
	if projectID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "project_id is required"))
		return
	}

	suites, cacheHit, err := h.service.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, suites, nil, middleware.ExtractMeta(c))
}

// Create godoc
// @Summary Create test suite
// @Tags TestSuites
// @Accept json
// @Produce json
// @Param payload body models.SuiteCreateRequest true "Suite payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /test-suites [post]
func (h *SuiteHandler) Create(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.SuiteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid test suite payload"))
		return
	}

	suite, err := h.service.Create(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, suite)
}

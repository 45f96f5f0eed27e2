package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/testflowhq/testflow-api/internal/models"
	"github.com/testflowhq/testflow-api/internal/service"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
	"github.com/testflowhq/testflow-api/pkg/response"
)

// DefectHandler wires HTTP endpoints to the defect service.
type DefectHandler struct {
	service *service.DefectService
}

// NewDefectHandler creates a new handler.
func NewDefectHandler(svc *service.DefectService) *DefectHandler {
	return &DefectHandler{service: svc}
}

// List godoc
// @Summary List defects
// @Description List defects, newest first
// @Tags Defects
// @Produce json
// @Param project_id query int false "Project filter"
// @Param status query string false "Status filter"
// @Success 200 {object} response.Envelope
// @Router /defects [get]
func (h *DefectHandler) List(c *gin.Context) {
	filter := models.DefectFilter{
		ProjectID: int64Query(c, "project_id"),
		Status:    c.Query("status"),
	}

	defects, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, defects, nil)
}

// Create godoc
// @Summary Report defect
// @Description Report a defect against a test case
// @Tags Defects
// @Accept json
// @Produce json
// @Param payload body models.DefectCreateRequest true "Defect payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /defects [post]
func (h *DefectHandler) Create(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.DefectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid defect payload"))
		return
	}

	defect, err := h.service.Create(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, defect)
}

// Update godoc
// @Summary Update defect
// @Description Update defect fields; omitted fields are unchanged
// @Tags Defects
// @Accept json
// @Produce json
// @Param id path int true "Defect ID"
// @Param payload body models.DefectUpdateRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /defects/{id} [put]
func (h *DefectHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req models.DefectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid defect payload"))
		return
	}

	defect, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, defect, nil)
}

package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/testflowhq/testflow-api/internal/models"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
)

type defectRepository interface {
	List(ctx context.Context, filter models.DefectFilter) ([]models.Defect, error)
	FindByID(ctx context.Context, id int64) (*models.Defect, error)
	Create(ctx context.Context, defect *models.Defect) error
	Update(ctx context.Context, id int64, title, description, severity, status *string, assignedTo *int64) (*models.Defect, error)
}

// DefectService tracks defects raised from failed executions.
type DefectService struct {
	repo      defectRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDefectService constructs a DefectService instance.
func NewDefectService(repo defectRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *DefectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DefectService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns defects matching the filter, newest first.
func (s *DefectService) List(ctx context.Context, filter models.DefectFilter) ([]models.Defect, error) {
	if filter.Status != "" && !models.ValidDefectStatus(models.DefectStatus(filter.Status)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown defect status")
	}

	defects, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list defects")
	}
	return defects, nil
}

// Create records a new defect. New defects default to Open.
func (s *DefectService) Create(ctx context.Context, user models.UserInfo, req models.DefectCreateRequest) (*models.Defect, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid defect payload")
	}
	if !models.ValidSeverity(models.DefectSeverity(req.Severity)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown defect severity")
	}

	status := models.DefectOpen
	if req.Status != "" {
		status = models.DefectStatus(req.Status)
		if !models.ValidDefectStatus(status) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown defect status")
		}
	}

	defect := &models.Defect{
		TestCaseID:      req.TestCaseID,
		TestExecutionID: req.TestExecutionID,
		Title:           req.Title,
		Description:     req.Description,
		Severity:        models.DefectSeverity(req.Severity),
		Status:          status,
		CreatedBy:       &user.ID,
		AssignedTo:      req.AssignedTo,
	}
	if err := s.repo.Create(ctx, defect); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create defect")
	}

	s.cache.Invalidate(ctx, CacheKeyAnalytics)
	return defect, nil
}

// Update modifies a defect; nil fields are left unchanged.
func (s *DefectService) Update(ctx context.Context, id int64, req models.DefectUpdateRequest) (*models.Defect, error) {
	if req.Severity != nil && !models.ValidSeverity(models.DefectSeverity(*req.Severity)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown defect severity")
	}
	if req.Status != nil && !models.ValidDefectStatus(models.DefectStatus(*req.Status)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown defect status")
	}

	defect, err := s.repo.Update(ctx, id, req.Title, req.Description, req.Severity, req.Status, req.AssignedTo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "defect not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update defect")
	}

	s.cache.Invalidate(ctx, CacheKeyAnalytics)
	return defect, nil
}

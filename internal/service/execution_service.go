package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/testflowhq/testflow-api/internal/models"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
)

type executionRepository interface {
	List(ctx context.Context, filter models.ExecutionFilter) ([]models.TestExecution, error)
	Create(ctx context.Context, execution *models.TestExecution) error
}

// ExecutionService records and lists test execution results.
type ExecutionService struct {
	repo      executionRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExecutionService constructs an ExecutionService instance.
func NewExecutionService(repo executionRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ExecutionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExecutionService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns executions matching the filter, newest first.
func (s *ExecutionService) List(ctx context.Context, filter models.ExecutionFilter) ([]models.TestExecution, error) {
	if filter.Status != "" && !models.ValidExecutionStatus(models.ExecutionStatus(filter.Status)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown execution status")
	}

	executions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list executions")
	}
	return executions, nil
}

// Create records an execution result. Analytics and test case caches are
// stale afterwards, so both namespaces are flushed.
func (s *ExecutionService) Create(ctx context.Context, user models.UserInfo, req models.ExecutionCreateRequest) (*models.TestExecution, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid execution payload")
	}
	if !models.ValidExecutionStatus(models.ExecutionStatus(req.Status)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown execution status")
	}

	execution := &models.TestExecution{
		TestCaseID:    req.TestCaseID,
		TestSuiteID:   req.TestSuiteID,
		ExecutedBy:    &user.ID,
		Status:        models.ExecutionStatus(req.Status),
		Comments:      req.Comments,
		ExecutionTime: req.ExecutionTime,
	}
	if err := s.repo.Create(ctx, execution); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record execution")
	}

	s.cache.Invalidate(ctx, CacheKeyAnalytics, CacheKeyTestCases)
	return execution, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/testflowhq/testflow-api/internal/models"
	"github.com/testflowhq/testflow-api/internal/repository"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
)

type testCaseRepository interface {
	List(ctx context.Context, filter models.TestCaseFilter) ([]models.TestCase, int, error)
	FindByID(ctx context.Context, id int64) (*models.TestCase, error)
	Steps(ctx context.Context, testCaseID int64) ([]models.TestStep, error)
	Create(ctx context.Context, tc *models.TestCase) error
	ReplaceSteps(ctx context.Context, testCaseID int64, steps []models.TestStep) error
	Update(ctx context.Context, id int64, fields repository.UpdateFields) (*models.TestCase, error)
	Delete(ctx context.Context, id int64) error
	BulkDelete(ctx context.Context, ids []int64) error
	BulkUpdatePriority(ctx context.Context, ids []int64, priority string) error
	BulkUpdateStatus(ctx context.Context, ids []int64, status string) error
	BulkAssign(ctx context.Context, ids []int64, userID int64) error
}

type executionReader interface {
	RecentForTestCase(ctx context.Context, testCaseID int64, limit int) ([]models.TestExecution, error)
}

// TestCaseListResult bundles a page of test cases with its total.
type TestCaseListResult struct {
	TestCases []models.TestCase `json:"test_cases"`
	Total     int               `json:"total"`
}

// TestCaseDetail is a test case with its steps and recent run history.
type TestCaseDetail struct {
	models.TestCase
	Steps            []models.TestStep      `json:"steps"`
	RecentExecutions []models.TestExecution `json:"recent_executions"`
}

// TestCaseService provides test case use cases with read-through caching.
type TestCaseService struct {
	repo       testCaseRepository
	executions executionReader
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
	ttl        CacheTTLs
}

// NewTestCaseService constructs a TestCaseService instance.
func NewTestCaseService(repo testCaseRepository, executions executionReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger, ttl CacheTTLs) *TestCaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TestCaseService{repo: repo, executions: executions, cache: cache, validator: validate, logger: logger, ttl: ttl}
}

// List returns a filtered page of test cases. Every filter value joins the
// cache key so distinct queries never collide.
func (s *TestCaseService) List(ctx context.Context, filter models.TestCaseFilter) (*TestCaseListResult, bool, error) {
	key := listCacheKey(filter)
	var cached TestCaseListResult
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	testCases, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list test cases")
	}

	result := &TestCaseListResult{TestCases: testCases, Total: total}
	s.cache.Set(ctx, key, result, s.ttl.TestCases)
	return result, false, nil
}

// Get returns a test case with its ordered steps and recent executions.
func (s *TestCaseService) Get(ctx context.Context, id int64) (*TestCaseDetail, error) {
	testCase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "test case not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load test case")
	}

	steps, err := s.repo.Steps(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load test steps")
	}

	recent, err := s.executions.RecentForTestCase(ctx, id, 10)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent executions")
	}

	return &TestCaseDetail{TestCase: *testCase, Steps: steps, RecentExecutions: recent}, nil
}

// Create persists a new test case with its steps.
func (s *TestCaseService) Create(ctx context.Context, user models.UserInfo, req models.TestCaseCreateRequest) (*TestCaseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid test case payload")
	}
	if !models.ValidPriority(models.TestCasePriority(req.Priority)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown priority")
	}
	if !models.ValidTestCaseType(models.TestCaseType(req.Type)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown test case type")
	}

	testCase := &models.TestCase{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		Priority:       models.TestCasePriority(req.Priority),
		Type:           models.TestCaseType(req.Type),
		Status:         models.TestCaseActive,
		PreConditions:  req.PreConditions,
		PostConditions: req.PostConditions,
		Tags:           pq.StringArray(req.Tags),
		CreatedBy:      &user.ID,
		AssignedTo:     req.AssignedTo,
	}
	if err := s.repo.Create(ctx, testCase); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create test case")
	}

	steps := stepsFromInput(testCase.ID, req.Steps)
	if len(steps) > 0 {
		if err := s.repo.ReplaceSteps(ctx, testCase.ID, steps); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store test steps")
		}
	}
	testCase.StepsCount = len(steps)

	s.cache.Invalidate(ctx, CacheKeyTestCases, CacheKeyAnalytics)
	return &TestCaseDetail{TestCase: *testCase, Steps: steps, RecentExecutions: []models.TestExecution{}}, nil
}

// Update modifies a test case; a non-nil Steps slice replaces the step list.
// AssignedTo set to 0 clears the assignee.
func (s *TestCaseService) Update(ctx context.Context, id int64, req models.TestCaseUpdateRequest) (*models.TestCase, error) {
	if req.Priority != nil && !models.ValidPriority(models.TestCasePriority(*req.Priority)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown priority")
	}
	if req.Type != nil && !models.ValidTestCaseType(models.TestCaseType(*req.Type)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown test case type")
	}

	fields := repository.UpdateFields{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		Type:           req.Type,
		PreConditions:  req.PreConditions,
		PostConditions: req.PostConditions,
	}
	if req.Tags != nil {
		tags := pq.StringArray(*req.Tags)
		fields.Tags = &tags
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == 0 {
			fields.ClearAssignee = true
		} else {
			fields.AssignedTo = req.AssignedTo
		}
	}

	testCase, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "test case not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update test case")
	}

	if req.Steps != nil {
		steps := stepsFromInput(id, *req.Steps)
		if err := s.repo.ReplaceSteps(ctx, id, steps); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace test steps")
		}
		testCase.StepsCount = len(steps)
	}

	s.cache.Invalidate(ctx, CacheKeyTestCases, CacheKeyAnalytics)
	return testCase, nil
}

// Delete removes a test case.
func (s *TestCaseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "test case not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load test case")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete test case")
	}

	s.cache.Invalidate(ctx, CacheKeyTestCases, CacheKeyAnalytics)
	return nil
}

// Bulk applies one action to a set of test cases.
func (s *TestCaseService) Bulk(ctx context.Context, req models.BulkActionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk payload")
	}

	switch req.Action {
	case models.BulkActionDelete:
		if err := s.repo.BulkDelete(ctx, req.IDs); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "bulk delete failed")
		}
	case models.BulkActionUpdatePriority:
		if !models.ValidPriority(models.TestCasePriority(req.Priority)) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown priority")
		}
		if err := s.repo.BulkUpdatePriority(ctx, req.IDs, req.Priority); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "bulk priority update failed")
		}
	case models.BulkActionUpdateStatus:
		if !models.ValidTestCaseStatus(models.TestCaseStatus(req.Status)) {
			return appErrors.Clone(appErrors.ErrValidation, "unknown status")
		}
		if err := s.repo.BulkUpdateStatus(ctx, req.IDs, req.Status); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "bulk status update failed")
		}
	case models.BulkActionAssign:
		if req.AssignedTo <= 0 {
			return appErrors.Clone(appErrors.ErrValidation, "assigned_to is required for assign")
		}
		if err := s.repo.BulkAssign(ctx, req.IDs, req.AssignedTo); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "bulk assign failed")
		}
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown bulk action")
	}

	s.cache.Invalidate(ctx, CacheKeyTestCases, CacheKeyAnalytics)
	return nil
}

func stepsFromInput(testCaseID int64, inputs []models.TestStepInput) []models.TestStep {
	steps := make([]models.TestStep, 0, len(inputs))
	for i, in := range inputs {
		steps = append(steps, models.TestStep{
			TestCaseID:     testCaseID,
			StepNumber:     i + 1,
			Description:    in.Description,
			ExpectedResult: in.ExpectedResult,
		})
	}
	return steps
}

func listCacheKey(filter models.TestCaseFilter) string {
	return CacheKey(CacheKeyTestCases,
		fmt.Sprintf("%d", filter.ProjectID),
		filter.Priority,
		filter.Type,
		filter.Search,
		fmt.Sprintf("%d", filter.AssignedTo),
		fmt.Sprintf("%d", filter.Page),
		fmt.Sprintf("%d", filter.PageSize),
	)
}

package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/testflowhq/testflow-api/internal/models"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
)

type suiteRepository interface {
	ListByProject(ctx context.Context, projectID int64) ([]models.TestSuite, error)
	Create(ctx context.Context, suite *models.TestSuite) error
}

// SuiteService groups test cases into suites per project.
type SuiteService struct {
	repo      suiteRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	ttl       CacheTTLs
}

// NewSuiteService constructs a SuiteService instance.
func NewSuiteService(repo suiteRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, ttl CacheTTLs) *SuiteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SuiteService{repo: repo, cache: cache, validator: validate, logger: logger, ttl: ttl}
}

// ListByProject returns a project's suites through the cache.
func (s *SuiteService) ListByProject(ctx context.Context, projectID int64) ([]models.TestSuite, bool, error) {
	key := CacheKey(CacheKeySuites, fmt.Sprintf("%d", projectID))
	var cached []models.TestSuite
	if s.cache.Get(ctx, key, &cached) {
		return cached, true, nil
	}

	suites, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list test suites")
	}

	s.cache.Set(ctx, key, suites, s.ttl.Suites)
	return suites, false, nil
}

// Create persists a new test suite.
func (s *SuiteService) Create(ctx context.Context, user models.UserInfo, req models.SuiteCreateRequest) (*models.TestSuite, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid test suite payload")
	}

	suite := &models.TestSuite{
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   &user.ID,
	}
	if err := s.repo.Create(ctx, suite); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create test suite")
	}

	s.cache.Invalidate(ctx, CacheKeySuites)
	return suite, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/testflowhq/testflow-api/internal/models"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
)

type projectRepository interface {
	ListAll(ctx context.Context) ([]models.Project, error)
	ListForMember(ctx context.Context, userID int64) ([]models.Project, error)
	FindByID(ctx context.Context, id int64) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, id int64, name, description, version, status *string) (*models.Project, error)
	Delete(ctx context.Context, id int64) error
	Members(ctx context.Context, projectID int64) ([]models.ProjectMember, error)
	IsMember(ctx context.Context, projectID, userID int64) (bool, error)
	AddMember(ctx context.Context, projectID, userID int64) error
	RemoveMember(ctx context.Context, projectID, userID int64) error
}

// ProjectService provides project and membership use cases.
type ProjectService struct {
	repo      projectRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	ttl       CacheTTLs
}

// NewProjectService constructs a ProjectService instance.
func NewProjectService(repo projectRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, ttl CacheTTLs) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProjectService{repo: repo, cache: cache, validator: validate, logger: logger, ttl: ttl}
}

// List returns projects visible to the user: admins see everything, other
// roles only projects they are members of. The admin listing is cached.
func (s *ProjectService) List(ctx context.Context, user models.UserInfo) ([]models.Project, bool, error) {
	if user.Role == models.RoleAdmin {
		key := CacheKey(CacheKeyProjects, "all")
		var cached []models.Project
		if s.cache.Get(ctx, key, &cached) {
			return cached, true, nil
		}

		projects, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
		}
		s.cache.Set(ctx, key, projects, s.ttl.Projects)
		return projects, false, nil
	}

	projects, err := s.repo.ListForMember(ctx, user.ID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}
	return projects, false, nil
}

// Get returns one project, enforcing membership for non-admin roles.
func (s *ProjectService) Get(ctx context.Context, user models.UserInfo, id int64) (*models.Project, error) {
	if err := s.requireAccess(ctx, user, id); err != nil {
		return nil, err
	}

	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}
	return project, nil
}

// Create persists a new project and enrolls its creator as a member.
func (s *ProjectService) Create(ctx context.Context, user models.UserInfo, req models.ProjectCreateRequest) (*models.Project, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}

	status := models.ProjectActive
	if req.Status != nil {
		status = models.ProjectStatus(*req.Status)
		if !models.ValidProjectStatus(status) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown project status")
		}
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Version:     req.Version,
		Status:      status,
		CreatedBy:   &user.ID,
	}
	if err := s.repo.Create(ctx, project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create project")
	}

	if err := s.repo.AddMember(ctx, project.ID, user.ID); err != nil {
		s.logger.Warn("failed to enroll project creator", zap.Int64("project_id", project.ID), zap.Error(err))
	}

	s.cache.Invalidate(ctx, CacheKeyProjects)
	return project, nil
}

// Update modifies a project and invalidates cached listings.
func (s *ProjectService) Update(ctx context.Context, user models.UserInfo, id int64, req models.ProjectUpdateRequest) (*models.Project, error) {
	if err := s.requireAccess(ctx, user, id); err != nil {
		return nil, err
	}
	if req.Status != nil && !models.ValidProjectStatus(models.ProjectStatus(*req.Status)) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown project status")
	}

	project, err := s.repo.Update(ctx, id, req.Name, req.Description, req.Version, req.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update project")
	}

	s.cache.Invalidate(ctx, CacheKeyProjects)
	return project, nil
}

// Delete removes a project and every cache namespace derived from it.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete project")
	}

	s.cache.Invalidate(ctx, CacheKeyProjects, CacheKeyTestCases, CacheKeySuites, CacheKeyAnalytics)
	return nil
}

// Members lists the membership roster of a project.
func (s *ProjectService) Members(ctx context.Context, user models.UserInfo, projectID int64) ([]models.ProjectMember, error) {
	if err := s.requireAccess(ctx, user, projectID); err != nil {
		return nil, err
	}

	members, err := s.repo.Members(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list members")
	}
	return members, nil
}

// AddMember enrolls a user into a project.
func (s *ProjectService) AddMember(ctx context.Context, projectID int64, req models.MemberAddRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid member payload")
	}

	already, err := s.repo.IsMember(ctx, projectID, req.UserID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
	}
	if already {
		return appErrors.Clone(appErrors.ErrConflict, "user is already a project member")
	}

	if err := s.repo.AddMember(ctx, projectID, req.UserID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add member")
	}
	return nil
}

// RemoveMember withdraws a user from a project.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID int64) error {
	if err := s.repo.RemoveMember(ctx, projectID, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove member")
	}
	return nil
}

func (s *ProjectService) requireAccess(ctx context.Context, user models.UserInfo, projectID int64) error {
	if user.Role == models.RoleAdmin {
		return nil
	}
	member, err := s.repo.IsMember(ctx, projectID, user.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
	}
	if !member {
		return appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("no access to project %d", projectID))
	}
	return nil
}

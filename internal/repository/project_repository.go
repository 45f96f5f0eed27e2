package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/testflowhq/testflow-api/internal/models"
)

// ProjectRepository handles persistence for projects and memberships.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new repository instance.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ListAll returns every project with creator name and test case count.
// Reserved for admins.
func (r *ProjectRepository) ListAll(ctx context.Context) ([]models.Project, error) {
	const query = `
		SELECT p.id, p.name, p.description, p.version, p.status, p.created_by, p.created_at, p.updated_at,
		       u.full_name AS creator_name,
		       (SELECT COUNT(*) FROM test_cases tc WHERE tc.project_id = p.id) AS test_case_count
		FROM projects p
		LEFT JOIN users u ON p.created_by = u.id
		ORDER BY p.created_at DESC`
	var projects []models.Project
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// ListForMember returns projects the user belongs to.
func (r *ProjectRepository) ListForMember(ctx context.Context, userID int64) ([]models.Project, error) {
	const query = `
		SELECT DISTINCT p.id, p.name, p.description, p.version, p.status, p.created_by, p.created_at, p.updated_at,
		       u.full_name AS creator_name,
		       (SELECT COUNT(*) FROM test_cases tc WHERE tc.project_id = p.id) AS test_case_count
		FROM projects p
		LEFT JOIN users u ON p.created_by = u.id
		INNER JOIN project_members pm ON p.id = pm.project_id
		WHERE pm.user_id = $1
		ORDER BY p.created_at DESC`
	var projects []models.Project
	if err := r.db.SelectContext(ctx, &projects, query, userID); err != nil {
		return nil, fmt.Errorf("list member projects: %w", err)
	}
	return projects, nil
}

// FindByID returns a project by id.
func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	const query = `
		SELECT p.id, p.name, p.description, p.version, p.status, p.created_by, p.created_at, p.updated_at,
		       u.full_name AS creator_name,
		       (SELECT COUNT(*) FROM test_cases tc WHERE tc.project_id = p.id) AS test_case_count
		FROM projects p
		LEFT JOIN users u ON p.created_by = u.id
		WHERE p.id = $1`
	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, id); err != nil {
		return nil, err
	}
	return &project, nil
}

// Create persists a new project.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	const query = `INSERT INTO projects (name, description, version, status, created_by) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, project.Name, project.Description, project.Version, project.Status, project.CreatedBy)
	if err := row.Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// Update modifies provided fields of a project; nil fields are left unchanged.
func (r *ProjectRepository) Update(ctx context.Context, id int64, name, description, version, status *string) (*models.Project, error) {
	const query = `
		UPDATE projects
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    version = COALESCE($4, version),
		    status = COALESCE($5, status),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id, name, description, version, status, created_by, created_at, updated_at`
	var project models.Project
	if err := r.db.GetContext(ctx, &project, query, id, name, description, version, status); err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes a project record; child rows cascade at the schema level.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// Members returns member records with user details.
func (r *ProjectRepository) Members(ctx context.Context, projectID int64) ([]models.ProjectMember, error) {
	const query = `
		SELECT pm.id, pm.project_id, pm.user_id, pm.assigned_at, u.full_name, u.email, u.role
		FROM project_members pm
		JOIN users u ON pm.user_id = u.id
		WHERE pm.project_id = $1`
	var members []models.ProjectMember
	if err := r.db.SelectContext(ctx, &members, query, projectID); err != nil {
		return nil, fmt.Errorf("list project members: %w", err)
	}
	return members, nil
}

// IsMember reports whether the user belongs to the project.
func (r *ProjectRepository) IsMember(ctx context.Context, projectID, userID int64) (bool, error) {
	const query = `SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, projectID, userID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check project membership: %w", err)
	}
	return true, nil
}

// AddMember links a user to a project.
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID int64) error {
	const query = `INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, projectID, userID); err != nil {
		return fmt.Errorf("add project member: %w", err)
	}
	return nil
}

// RemoveMember unlinks a user from a project.
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID int64) error {
	const query = `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, projectID, userID); err != nil {
		return fmt.Errorf("remove project member: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/testflowhq/testflow-api/internal/models"
)

// DefectRepository handles persistence for defects.
type DefectRepository struct {
	db *sqlx.DB
}

// NewDefectRepository creates a new repository instance.
func NewDefectRepository(db *sqlx.DB) *DefectRepository {
	return &DefectRepository{db: db}
}

// List returns defects matching filters, newest first.
func (r *DefectRepository) List(ctx context.Context, filter models.DefectFilter) ([]models.Defect, error) {
	base := `
		SELECT d.id, d.test_case_id, d.test_execution_id, d.title, d.description, d.severity, d.status,
		       d.created_by, d.assigned_to, d.created_at, d.updated_at,
		       u1.full_name AS created_by_name, u2.full_name AS assigned_to_name,
		       tc.title AS test_case_title, tc.project_id
		FROM defects d
		JOIN test_cases tc ON d.test_case_id = tc.id
		LEFT JOIN users u1 ON d.created_by = u1.id
		LEFT JOIN users u2 ON d.assigned_to = u2.id
		WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.ProjectID > 0 {
		conditions = append(conditions, fmt.Sprintf("tc.project_id = $%d", len(args)+1))
		args = append(args, filter.ProjectID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("d.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	query := base + " ORDER BY d.created_at DESC"

	var defects []models.Defect
	if err := r.db.SelectContext(ctx, &defects, query, args...); err != nil {
		return nil, fmt.Errorf("list defects: %w", err)
	}
	return defects, nil
}

// FindByID returns a defect by id.
func (r *DefectRepository) FindByID(ctx context.Context, id int64) (*models.Defect, error) {
	const query = `
		SELECT d.id, d.test_case_id, d.test_execution_id, d.title, d.description, d.severity, d.status,
		       d.created_by, d.assigned_to, d.created_at, d.updated_at,
		       u1.full_name AS created_by_name, u2.full_name AS assigned_to_name
		FROM defects d
		LEFT JOIN users u1 ON d.created_by = u1.id
		LEFT JOIN users u2 ON d.assigned_to = u2.id
		WHERE d.id = $1`
	var defect models.Defect
	if err := r.db.GetContext(ctx, &defect, query, id); err != nil {
		return nil, err
	}
	return &defect, nil
}

// Create persists a new defect.
func (r *DefectRepository) Create(ctx context.Context, defect *models.Defect) error {
	const query = `INSERT INTO defects (test_case_id, test_execution_id, title, description, severity, status, created_by, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, defect.TestCaseID, defect.TestExecutionID, defect.Title,
		defect.Description, defect.Severity, defect.Status, defect.CreatedBy, defect.AssignedTo)
	if err := row.Scan(&defect.ID, &defect.CreatedAt, &defect.UpdatedAt); err != nil {
		return fmt.Errorf("create defect: %w", err)
	}
	return nil
}

// Update modifies provided fields of a defect; nil fields are left unchanged.
func (r *DefectRepository) Update(ctx context.Context, id int64, title, description, severity, status *string, assignedTo *int64) (*models.Defect, error) {
	const query = `
		UPDATE defects
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    severity = COALESCE($4, severity),
		    status = COALESCE($5, status),
		    assigned_to = COALESCE($6, assigned_to),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id, test_case_id, test_execution_id, title, description, severity, status, created_by, assigned_to, created_at, updated_at`
	var defect models.Defect
	if err := r.db.GetContext(ctx, &defect, query, id, title, description, severity, status, assignedTo); err != nil {
		return nil, err
	}
	return &defect, nil
}

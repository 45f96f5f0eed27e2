package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/testflowhq/testflow-api/internal/models"
)

// TestCaseRepository handles persistence for test cases and their steps.
type TestCaseRepository struct {
	db *sqlx.DB
}

// NewTestCaseRepository creates a new repository instance.
func NewTestCaseRepository(db *sqlx.DB) *TestCaseRepository {
	return &TestCaseRepository{db: db}
}

// List returns test cases matching filters with pagination metadata.
func (r *TestCaseRepository) List(ctx context.Context, filter models.TestCaseFilter) ([]models.TestCase, int, error) {
	base := `FROM test_cases tc
		LEFT JOIN users u1 ON tc.created_by = u1.id
		LEFT JOIN users u2 ON tc.assigned_to = u2.id
		WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.ProjectID > 0 {
		conditions = append(conditions, fmt.Sprintf("tc.project_id = $%d", len(args)+1))
		args = append(args, filter.ProjectID)
	}
	if filter.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("tc.priority = $%d", len(args)+1))
		args = append(args, filter.Priority)
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("tc.type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(tc.title ILIKE $%d OR tc.description ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.AssignedTo > 0 {
		conditions = append(conditions, fmt.Sprintf("tc.assigned_to = $%d", len(args)+1))
		args = append(args, filter.AssignedTo)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT tc.id, tc.project_id, tc.title, tc.description, tc.priority, tc.type, tc.status,
		tc.pre_conditions, tc.post_conditions, tc.tags, tc.created_by, tc.assigned_to, tc.created_at, tc.updated_at,
		u1.full_name AS created_by_name, u2.full_name AS assigned_to_name,
		(SELECT COUNT(*) FROM test_steps ts WHERE ts.test_case_id = tc.id) AS steps_count
		%s ORDER BY tc.created_at DESC LIMIT %d OFFSET %d`, base, size, offset)

	var testCases []models.TestCase
	if err := r.db.SelectContext(ctx, &testCases, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list test cases: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count test cases: %w", err)
	}

	return testCases, total, nil
}

// FindByID returns a test case with creator and assignee names.
func (r *TestCaseRepository) FindByID(ctx context.Context, id int64) (*models.TestCase, error) {
	const query = `SELECT tc.id, tc.project_id, tc.title, tc.description, tc.priority, tc.type, tc.status,
		tc.pre_conditions, tc.post_conditions, tc.tags, tc.created_by, tc.assigned_to, tc.created_at, tc.updated_at,
		u1.full_name AS created_by_name, u2.full_name AS assigned_to_name,
		(SELECT COUNT(*) FROM test_steps ts WHERE ts.test_case_id = tc.id) AS steps_count
		FROM test_cases tc
		LEFT JOIN users u1 ON tc.created_by = u1.id
		LEFT JOIN users u2 ON tc.assigned_to = u2.id
		WHERE tc.id = $1`
	var testCase models.TestCase
	if err := r.db.GetContext(ctx, &testCase, query, id); err != nil {
		return nil, err
	}
	return &testCase, nil
}

// Steps returns the ordered steps of a test case.
func (r *TestCaseRepository) Steps(ctx context.Context, testCaseID int64) ([]models.TestStep, error) {
	const query = `SELECT id, test_case_id, step_number, description, expected_result, created_at FROM test_steps WHERE test_case_id = $1 ORDER BY step_number`
	var steps []models.TestStep
	if err := r.db.SelectContext(ctx, &steps, query, testCaseID); err != nil {
		return nil, fmt.Errorf("list test steps: %w", err)
	}
	return steps, nil
}

// Create persists a new test case.
func (r *TestCaseRepository) Create(ctx context.Context, tc *models.TestCase) error {
	const query = `INSERT INTO test_cases (project_id, title, description, priority, type, status, pre_conditions, post_conditions, tags, created_by, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, tc.ProjectID, tc.Title, tc.Description, tc.Priority, tc.Type,
		tc.Status, tc.PreConditions, tc.PostConditions, tc.Tags, tc.CreatedBy, tc.AssignedTo)
	if err := row.Scan(&tc.ID, &tc.CreatedAt, &tc.UpdatedAt); err != nil {
		return fmt.Errorf("create test case: %w", err)
	}
	return nil
}

// ReplaceSteps deletes existing steps and inserts the provided ones in order.
func (r *TestCaseRepository) ReplaceSteps(ctx context.Context, testCaseID int64, steps []models.TestStep) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace steps: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM test_steps WHERE test_case_id = $1`, testCaseID); err != nil {
		return fmt.Errorf("delete test steps: %w", err)
	}

	const insert = `INSERT INTO test_steps (test_case_id, step_number, description, expected_result) VALUES ($1, $2, $3, $4)`
	for i, step := range steps {
		if _, err := tx.ExecContext(ctx, insert, testCaseID, i+1, step.Description, step.ExpectedResult); err != nil {
			return fmt.Errorf("insert test step %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace steps: %w", err)
	}
	return nil
}

// UpdateFields holds the optional column updates for a test case. Nil
// pointers leave the column unchanged; ClearAssignee nulls assigned_to.
type UpdateFields struct {
	Title          *string
	Description    *string
	Priority       *string
	Type           *string
	PreConditions  *string
	PostConditions *string
	Tags           *pq.StringArray
	AssignedTo     *int64
	ClearAssignee  bool
}

// Update applies COALESCE semantics over the provided fields.
func (r *TestCaseRepository) Update(ctx context.Context, id int64, fields UpdateFields) (*models.TestCase, error) {
	// Both branches must reference $9 so the bound argument count matches
	// the placeholder count; clearing binds the nil AssignedTo as NULL.
	assignedExpr := "COALESCE($9, assigned_to)"
	if fields.ClearAssignee {
		assignedExpr = "$9"
	}
	query := fmt.Sprintf(`
		UPDATE test_cases
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    priority = COALESCE($4, priority),
		    type = COALESCE($5, type),
		    pre_conditions = COALESCE($6, pre_conditions),
		    post_conditions = COALESCE($7, post_conditions),
		    tags = COALESCE($8, tags),
		    assigned_to = %s,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING id, project_id, title, description, priority, type, status, pre_conditions, post_conditions, tags, created_by, assigned_to, created_at, updated_at`, assignedExpr)

	var testCase models.TestCase
	if err := r.db.GetContext(ctx, &testCase, query, id, fields.Title, fields.Description, fields.Priority,
		fields.Type, fields.PreConditions, fields.PostConditions, fields.Tags, fields.AssignedTo); err != nil {
		return nil, err
	}
	return &testCase, nil
}

// Delete removes a test case record.
func (r *TestCaseRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM test_cases WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete test case: %w", err)
	}
	return nil
}

// BulkDelete removes every test case in the id set.
func (r *TestCaseRepository) BulkDelete(ctx context.Context, ids []int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM test_cases WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return fmt.Errorf("bulk delete test cases: %w", err)
	}
	return nil
}

// BulkUpdatePriority sets the priority for every test case in the id set.
func (r *TestCaseRepository) BulkUpdatePriority(ctx context.Context, ids []int64, priority string) error {
	const query = `UPDATE test_cases SET priority = $2, updated_at = CURRENT_TIMESTAMP WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(ids), priority); err != nil {
		return fmt.Errorf("bulk update priority: %w", err)
	}
	return nil
}

// BulkUpdateStatus sets the status for every test case in the id set.
func (r *TestCaseRepository) BulkUpdateStatus(ctx context.Context, ids []int64, status string) error {
	const query = `UPDATE test_cases SET status = $2, updated_at = CURRENT_TIMESTAMP WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(ids), status); err != nil {
		return fmt.Errorf("bulk update status: %w", err)
	}
	return nil
}

// BulkAssign sets the assignee for every test case in the id set.
func (r *TestCaseRepository) BulkAssign(ctx context.Context, ids []int64, userID int64) error {
	const query = `UPDATE test_cases SET assigned_to = $2, updated_at = CURRENT_TIMESTAMP WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(ids), userID); err != nil {
		return fmt.Errorf("bulk assign: %w", err)
	}
	return nil
}

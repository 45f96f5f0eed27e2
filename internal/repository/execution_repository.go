package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/testflowhq/testflow-api/internal/models"
)

// ExecutionRepository handles persistence for test executions.
type ExecutionRepository struct {
	db *sqlx.DB
}

// NewExecutionRepository creates a new repository instance.
func NewExecutionRepository(db *sqlx.DB) *ExecutionRepository {
	return &ExecutionRepository{db: db}
}

// List returns executions matching filters, newest first.
func (r *ExecutionRepository) List(ctx context.Context, filter models.ExecutionFilter) ([]models.TestExecution, error) {
	base := `
		SELECT te.id, te.test_case_id, te.test_suite_id, te.executed_by, te.status, te.comments,
		       te.execution_time, te.executed_at,
		       tc.title AS test_case_title, tc.project_id, u.full_name AS executed_by_name
		FROM test_executions te
		JOIN test_cases tc ON te.test_case_id = tc.id
		LEFT JOIN users u ON te.executed_by = u.id
		WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.TestCaseID > 0 {
		conditions = append(conditions, fmt.Sprintf("te.test_case_id = $%d", len(args)+1))
		args = append(args, filter.TestCaseID)
	}
	if filter.ProjectID > 0 {
		conditions = append(conditions, fmt.Sprintf("tc.project_id = $%d", len(args)+1))
		args = append(args, filter.ProjectID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("te.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf("%s ORDER BY te.executed_at DESC LIMIT %d", base, limit)

	var executions []models.TestExecution
	if err := r.db.SelectContext(ctx, &executions, query, args...); err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	return executions, nil
}

// RecentForTestCase returns the latest executions of a test case.
func (r *ExecutionRepository) RecentForTestCase(ctx context.Context, testCaseID int64, limit int) ([]models.TestExecution, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`
		SELECT te.id, te.test_case_id, te.test_suite_id, te.executed_by, te.status, te.comments,
		       te.execution_time, te.executed_at, u.full_name AS executed_by_name
		FROM test_executions te
		LEFT JOIN users u ON te.executed_by = u.id
		WHERE te.test_case_id = $1
		ORDER BY te.executed_at DESC LIMIT %d`, limit)
	var executions []models.TestExecution
	if err := r.db.SelectContext(ctx, &executions, query, testCaseID); err != nil {
		return nil, fmt.Errorf("list recent executions: %w", err)
	}
	return executions, nil
}

// Create records a new execution.
func (r *ExecutionRepository) Create(ctx context.Context, execution *models.TestExecution) error {
	const query = `INSERT INTO test_executions (test_case_id, test_suite_id, executed_by, status, comments, execution_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, executed_at`
	row := r.db.QueryRowxContext(ctx, query, execution.TestCaseID, execution.TestSuiteID,
		execution.ExecutedBy, execution.Status, execution.Comments, execution.ExecutionTime)
	if err := row.Scan(&execution.ID, &execution.ExecutedAt); err != nil {
		return fmt.Errorf("create execution: %w", err)
	}
	return nil
}

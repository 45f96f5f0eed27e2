package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/testflowhq/testflow-api/internal/models"
)

// SuiteRepository handles persistence for test suites.
type SuiteRepository struct {
	db *sqlx.DB
}

// NewSuiteRepository creates a new repository instance.
func NewSuiteRepository(db *sqlx.DB) *SuiteRepository {
	return &SuiteRepository{db: db}
}

// ListByProject returns suites of a project with member counts.
func (r *SuiteRepository) ListByProject(ctx context.Context, projectID int64) ([]models.TestSuite, error) {
	const query = `
		SELECT ts.id, ts.project_id, ts.name, ts.description, ts.created_by, ts.created_at, ts.updated_at,
		       (SELECT COUNT(*) FROM test_suite_cases tsc WHERE tsc.test_suite_id = ts.id) AS test_case_count
		FROM test_suites ts
		WHERE ts.project_id = $1
		ORDER BY ts.created_at DESC`
	var suites []models.TestSuite
	if err := r.db.SelectContext(ctx, &suites, query, projectID); err != nil {
		return nil, fmt.Errorf("list test suites: %w", err)
	}
	return suites, nil
}

// Create persists a new test suite.
func (r *SuiteRepository) Create(ctx context.Context, suite *models.TestSuite) error {
	const query = `INSERT INTO test_suites (project_id, name, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, suite.ProjectID, suite.Name, suite.Description, suite.CreatedBy)
	if err := row.Scan(&suite.ID, &suite.CreatedAt, &suite.UpdatedAt); err != nil {
		return fmt.Errorf("create test suite: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/testflowhq/testflow-api/internal/models"
)

// AnalyticsRepository runs the read-only aggregate queries that feed
// project analytics snapshots.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository creates a new repository instance.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// TestCaseStats counts a project's test cases by priority and type.
func (r *AnalyticsRepository) TestCaseStats(ctx context.Context, projectID int64) (*models.TestCaseStats, error) {
	const query = `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE priority = 'Critical') AS critical,
		       COUNT(*) FILTER (WHERE priority = 'High') AS high,
		       COUNT(*) FILTER (WHERE priority = 'Medium') AS medium,
		       COUNT(*) FILTER (WHERE priority = 'Low') AS low,
		       COUNT(*) FILTER (WHERE type = 'Functional') AS functional,
		       COUNT(*) FILTER (WHERE type = 'Integration') AS integration,
		       COUNT(*) FILTER (WHERE type = 'Regression') AS regression,
		       COUNT(*) FILTER (WHERE type = 'Smoke') AS smoke,
		       COUNT(*) FILTER (WHERE type = 'UI') AS ui,
		       COUNT(*) FILTER (WHERE type = 'API') AS api
		FROM test_cases
		WHERE project_id = $1`
	var stats models.TestCaseStats
	if err := r.db.GetContext(ctx, &stats, query, projectID); err != nil {
		return nil, fmt.Errorf("test case stats: %w", err)
	}
	return &stats, nil
}

// ExecutionStats counts a project's executions by outcome.
func (r *AnalyticsRepository) ExecutionStats(ctx context.Context, projectID int64) (*models.ExecutionStats, error) {
	const query = `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE te.status = 'Pass') AS passed,
		       COUNT(*) FILTER (WHERE te.status = 'Fail') AS failed,
		       COUNT(*) FILTER (WHERE te.status = 'Blocked') AS blocked,
		       COUNT(*) FILTER (WHERE te.status = 'Skipped') AS skipped
		FROM test_executions te
		JOIN test_cases tc ON te.test_case_id = tc.id
		WHERE tc.project_id = $1`
	var stats models.ExecutionStats
	if err := r.db.GetContext(ctx, &stats, query, projectID); err != nil {
		return nil, fmt.Errorf("execution stats: %w", err)
	}
	return &stats, nil
}

// PendingCount counts test cases of a project with no execution at all.
func (r *AnalyticsRepository) PendingCount(ctx context.Context, projectID int64) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM test_cases tc
		WHERE tc.project_id = $1
		  AND NOT EXISTS (SELECT 1 FROM test_executions te WHERE te.test_case_id = tc.id)`
	var pending int
	if err := r.db.GetContext(ctx, &pending, query, projectID); err != nil {
		return 0, fmt.Errorf("pending count: %w", err)
	}
	return pending, nil
}

// ExecutionTrends returns per-day outcome counts for the last seven days,
// oldest day first.
func (r *AnalyticsRepository) ExecutionTrends(ctx context.Context, projectID int64) ([]models.TrendPoint, error) {
	const query = `
		SELECT DATE(te.executed_at)::text AS date,
		       COUNT(*) FILTER (WHERE te.status = 'Pass') AS passed,
		       COUNT(*) FILTER (WHERE te.status = 'Fail') AS failed,
		       COUNT(*) FILTER (WHERE te.status = 'Blocked') AS blocked,
		       COUNT(*) FILTER (WHERE te.status = 'Skipped') AS skipped
		FROM test_executions te
		JOIN test_cases tc ON te.test_case_id = tc.id
		WHERE tc.project_id = $1
		  AND te.executed_at >= CURRENT_DATE - INTERVAL '7 days'
		GROUP BY DATE(te.executed_at)
		ORDER BY DATE(te.executed_at)`
	var trends []models.TrendPoint
	if err := r.db.SelectContext(ctx, &trends, query, projectID); err != nil {
		return nil, fmt.Errorf("execution trends: %w", err)
	}
	return trends, nil
}

// DefectStats counts a project's defects by status and severity.
func (r *AnalyticsRepository) DefectStats(ctx context.Context, projectID int64) (*models.DefectStats, error) {
	const query = `
		SELECT COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE d.status = 'Open') AS open,
		       COUNT(*) FILTER (WHERE d.status = 'In Progress') AS in_progress,
		       COUNT(*) FILTER (WHERE d.status = 'Resolved') AS resolved,
		       COUNT(*) FILTER (WHERE d.status = 'Closed') AS closed,
		       COUNT(*) FILTER (WHERE d.severity = 'Critical') AS critical,
		       COUNT(*) FILTER (WHERE d.severity = 'High') AS high,
		       COUNT(*) FILTER (WHERE d.severity = 'Medium') AS medium,
		       COUNT(*) FILTER (WHERE d.severity = 'Low') AS low
		FROM defects d
		JOIN test_cases tc ON d.test_case_id = tc.id
		WHERE tc.project_id = $1`
	var stats models.DefectStats
	if err := r.db.GetContext(ctx, &stats, query, projectID); err != nil {
		return nil, fmt.Errorf("defect stats: %w", err)
	}
	return &stats, nil
}

// TesterStats ranks the five most active testers over the last thirty days.
func (r *AnalyticsRepository) TesterStats(ctx context.Context, projectID int64) ([]models.TesterStats, error) {
	const query = `
		SELECT u.full_name,
		       COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE te.status = 'Pass') AS passed,
		       COUNT(*) FILTER (WHERE te.status = 'Fail') AS failed
		FROM test_executions te
		JOIN test_cases tc ON te.test_case_id = tc.id
		JOIN users u ON te.executed_by = u.id
		WHERE tc.project_id = $1
		  AND te.executed_at >= CURRENT_DATE - INTERVAL '30 days'
		GROUP BY u.id, u.full_name
		ORDER BY total DESC, u.id
		LIMIT 5`
	var stats []models.TesterStats
	if err := r.db.SelectContext(ctx, &stats, query, projectID); err != nil {
		return nil, fmt.Errorf("tester stats: %w", err)
	}
	return stats, nil
}

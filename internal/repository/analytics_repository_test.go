package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCaseStatsAggregates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"total", "critical", "high", "medium", "low", "functional", "integration", "regression", "smoke", "ui", "api"}).
		AddRow(10, 2, 3, 4, 1, 6, 0, 0, 0, 0, 4)
	mock.ExpectQuery("FROM test_cases").WithArgs(int64(1)).WillReturnRows(rows)

	stats, err := repo.TestCaseStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 2, stats.Critical)
	assert.Equal(t, 4, stats.API)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutionStatsAggregates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"total", "passed", "failed", "blocked", "skipped"}).
		AddRow(6, 4, 1, 1, 0)
	mock.ExpectQuery("FROM test_executions te").WithArgs(int64(1)).WillReturnRows(rows)

	stats, err := repo.ExecutionStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 4, stats.Passed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingCountExcludesExecuted(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery("NOT EXISTS").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	pending, err := repo.PendingCount(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 4, pending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutionTrendsOrderedByDay(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"date", "passed", "failed", "blocked", "skipped"}).
		AddRow("2026-08-25", 3, 1, 0, 0).
		AddRow("2026-08-26", 5, 0, 1, 0)
	mock.ExpectQuery("GROUP BY DATE").WithArgs(int64(1)).WillReturnRows(rows)

	trends, err := repo.ExecutionTrends(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, "2026-08-25", trends[0].Date)
	assert.Equal(t, 5, trends[1].Passed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTesterStatsRanking(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"full_name", "total", "passed", "failed"}).
		AddRow("Ada", 9, 8, 1).
		AddRow("Grace", 5, 4, 1)
	mock.ExpectQuery("JOIN users u ON te.executed_by").WithArgs(int64(1)).WillReturnRows(rows)

	stats, err := repo.TesterStats(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Ada", stats[0].FullName)
	assert.GreaterOrEqual(t, stats[0].Total, stats[1].Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"regexp"
	"strconv"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testflowhq/testflow-api/internal/models"
)

func testCaseColumns() []string {
	return []string{"id", "project_id", "title", "description", "priority", "type", "status",
		"pre_conditions", "post_conditions", "tags", "created_by", "assigned_to", "created_at", "updated_at",
		"created_by_name", "assigned_to_name", "steps_count"}
}

func testCaseUpdateColumns() []string {
	return []string{"id", "project_id", "title", "description", "priority", "type", "status",
		"pre_conditions", "post_conditions", "tags", "created_by", "assigned_to", "created_at", "updated_at"}
}

func TestListTestCasesPaginates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTestCaseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(testCaseColumns()).
		AddRow(int64(1), int64(2), "Login works", nil, "High", "Functional", "Active", nil, nil, "{smoke}", int64(1), nil, now, now, "Ada", nil, 3)
	mock.ExpectQuery("SELECT tc.id, tc.project_id").
		WithArgs(int64(2), "High").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(2), "High").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	testCases, total, err := repo.List(context.Background(), models.TestCaseFilter{ProjectID: 2, Priority: "High", Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, testCases, 1)
	assert.Equal(t, "Login works", testCases[0].Title)
	assert.Equal(t, 3, testCases[0].StepsCount)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTestCasesSearchSharesPlaceholder(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTestCaseRepository(db)

	mock.ExpectQuery("ILIKE").
		WithArgs("%login%").
		WillReturnRows(sqlmock.NewRows(testCaseColumns()))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%login%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.TestCaseFilter{Search: "login"})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceStepsRunsInTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTestCaseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM test_steps").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO test_steps").
		WithArgs(int64(1), 1, "Open cart", "Cart page loads").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO test_steps").
		WithArgs(int64(1), 2, "Pay", "Order confirmed").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	steps := []models.TestStep{
		{Description: "Open cart", ExpectedResult: "Cart page loads"},
		{Description: "Pay", ExpectedResult: "Order confirmed"},
	}
	require.NoError(t, repo.ReplaceSteps(context.Background(), 1, steps))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateClearsAssignee(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTestCaseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(testCaseUpdateColumns()).
		AddRow(int64(1), int64(2), "Login works", nil, "High", "Functional", "Active", nil, nil, "{}", int64(1), nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`assigned_to = $9`)).
		WithArgs(int64(1), nil, nil, nil, nil, nil, nil, nil, nil).
		WillReturnRows(rows)

	testCase, err := repo.Update(context.Background(), 1, UpdateFields{ClearAssignee: true})
	require.NoError(t, err)
	assert.Nil(t, testCase.AssignedTo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The clear-assignee branch rewrites the SET clause; the statement must
// still reference every bound argument or the driver rejects it.
func TestUpdateClearAssigneeBindsEveryArgument(t *testing.T) {
	var captured string
	matcher := sqlmock.QueryMatcherFunc(func(_, actual string) error {
		captured = actual
		return nil
	})
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	defer db.Close() //nolint:errcheck
	repo := NewTestCaseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(testCaseUpdateColumns()).
		AddRow(int64(1), int64(2), "Login works", nil, "High", "Functional", "Active", nil, nil, "{}", int64(1), nil, now, now)
	mock.ExpectQuery("").
		WithArgs(int64(1), nil, nil, nil, nil, nil, nil, nil, nil).
		WillReturnRows(rows)

	_, err = repo.Update(context.Background(), 1, UpdateFields{ClearAssignee: true})
	require.NoError(t, err)

	highest := 0
	for _, match := range regexp.MustCompile(`\$(\d+)`).FindAllStringSubmatch(captured, -1) {
		n, convErr := strconv.Atoi(match[1])
		require.NoError(t, convErr)
		if n > highest {
			highest = n
		}
	}
	assert.Equal(t, 9, highest, "placeholder count must match the bound arguments")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkDeleteUsesArrayBinding(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTestCaseRepository(db)

	mock.ExpectExec("DELETE FROM test_cases").
		WithArgs(pq.Array([]int64{1, 2, 3})).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.BulkDelete(context.Background(), []int64{1, 2, 3}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpdatePriority(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTestCaseRepository(db)

	mock.ExpectExec("UPDATE test_cases SET priority").
		WithArgs(pq.Array([]int64{5, 6}), "Low").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.BulkUpdatePriority(context.Background(), []int64{5, 6}, "Low"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpdateStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTestCaseRepository(db)

	mock.ExpectExec("UPDATE test_cases SET status").
		WithArgs(pq.Array([]int64{5, 6}), "Deprecated").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.BulkUpdateStatus(context.Background(), []int64{5, 6}, "Deprecated"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

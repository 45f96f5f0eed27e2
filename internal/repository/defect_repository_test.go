package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testflowhq/testflow-api/internal/models"
)

func defectUpdateColumns() []string {
	return []string{"id", "test_case_id", "test_execution_id", "title", "description", "severity", "status",
		"created_by", "assigned_to", "created_at", "updated_at"}
}

func TestListDefectsFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDefectRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(append(defectUpdateColumns(), "created_by_name", "assigned_to_name", "test_case_title", "project_id")).
		AddRow(int64(1), int64(4), nil, "Payment declined", nil, "High", "Open", int64(2), nil, now, now, "Ada", nil, "Checkout flow", int64(3))
	mock.ExpectQuery("FROM defects d").
		WithArgs(int64(3), "Open").
		WillReturnRows(rows)

	defects, err := repo.List(context.Background(), models.DefectFilter{ProjectID: 3, Status: "Open"})
	require.NoError(t, err)
	require.Len(t, defects, 1)
	assert.Equal(t, "Payment declined", defects[0].Title)
	require.NotNil(t, defects[0].ProjectID)
	assert.Equal(t, int64(3), *defects[0].ProjectID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDefectKeepsOmittedFields(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDefectRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(defectUpdateColumns()).
		AddRow(int64(1), int64(4), nil, "Payment declined", nil, "High", "Resolved", int64(2), nil, now, now)
	status := "Resolved"
	mock.ExpectQuery("UPDATE defects").
		WithArgs(int64(1), nil, nil, nil, &status, nil).
		WillReturnRows(rows)

	defect, err := repo.Update(context.Background(), 1, nil, nil, nil, &status, nil)
	require.NoError(t, err)
	assert.Equal(t, models.DefectResolved, defect.Status)
	assert.Equal(t, "Payment declined", defect.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

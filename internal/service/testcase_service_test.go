package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/testflowhq/testflow-api/internal/models"
	"github.com/testflowhq/testflow-api/internal/repository"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
)

type mockTestCaseRepo struct {
	testCases   []models.TestCase
	total       int
	listCalls   int
	lastUpdate  repository.UpdateFields
	deletedIDs  []int64
	assignedIDs []int64
	assignedTo  int64
	statusIDs   []int64
	status      string
}

func (m *mockTestCaseRepo) List(_ context.Context, _ models.TestCaseFilter) ([]models.TestCase, int, error) {
	m.listCalls++
	return m.testCases, m.total, nil
}

func (m *mockTestCaseRepo) FindByID(_ context.Context, id int64) (*models.TestCase, error) {
	for i := range m.testCases {
		if m.testCases[i].ID == id {
			return &m.testCases[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockTestCaseRepo) Steps(_ context.Context, _ int64) ([]models.TestStep, error) {
	return []models.TestStep{}, nil
}

func (m *mockTestCaseRepo) Create(_ context.Context, tc *models.TestCase) error {
	tc.ID = int64(len(m.testCases) + 1)
	tc.CreatedAt = time.Now()
	tc.UpdatedAt = tc.CreatedAt
	m.testCases = append(m.testCases, *tc)
	return nil
}

func (m *mockTestCaseRepo) ReplaceSteps(_ context.Context, _ int64, _ []models.TestStep) error {
	return nil
}

func (m *mockTestCaseRepo) Update(_ context.Context, id int64, fields repository.UpdateFields) (*models.TestCase, error) {
	m.lastUpdate = fields
	tc, err := m.FindByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	copied := *tc
	return &copied, nil
}

func (m *mockTestCaseRepo) Delete(_ context.Context, id int64) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockTestCaseRepo) BulkDelete(_ context.Context, ids []int64) error {
	m.deletedIDs = append(m.deletedIDs, ids...)
	return nil
}

func (m *mockTestCaseRepo) BulkUpdatePriority(_ context.Context, _ []int64, _ string) error {
	return nil
}

func (m *mockTestCaseRepo) BulkUpdateStatus(_ context.Context, ids []int64, status string) error {
	m.statusIDs = ids
	m.status = status
	return nil
}

func (m *mockTestCaseRepo) BulkAssign(_ context.Context, ids []int64, userID int64) error {
	m.assignedIDs = ids
	m.assignedTo = userID
	return nil
}

type mockExecutionReader struct {
	recent []models.TestExecution
}

func (m *mockExecutionReader) RecentForTestCase(_ context.Context, _ int64, _ int) ([]models.TestExecution, error) {
	return m.recent, nil
}

func newTestCaseService(repo *mockTestCaseRepo, cacheRepo *stubCacheRepo) *TestCaseService {
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), cacheRepo != nil)
	return NewTestCaseService(repo, &mockExecutionReader{}, cacheSvc, nil, zap.NewNop(), newTestTTLs())
}

func TestListCacheKeyIncludesEveryFilter(t *testing.T) {
	base := models.TestCaseFilter{ProjectID: 1, Priority: "high", Type: "functional", Search: "login", AssignedTo: 2, Page: 1, PageSize: 20}

	variants := []models.TestCaseFilter{
		{ProjectID: 2, Priority: "high", Type: "functional", Search: "login", AssignedTo: 2, Page: 1, PageSize: 20},
		{ProjectID: 1, Priority: "low", Type: "functional", Search: "login", AssignedTo: 2, Page: 1, PageSize: 20},
		{ProjectID: 1, Priority: "high", Type: "api", Search: "login", AssignedTo: 2, Page: 1, PageSize: 20},
		{ProjectID: 1, Priority: "high", Type: "functional", Search: "logout", AssignedTo: 2, Page: 1, PageSize: 20},
		{ProjectID: 1, Priority: "high", Type: "functional", Search: "login", AssignedTo: 3, Page: 1, PageSize: 20},
		{ProjectID: 1, Priority: "high", Type: "functional", Search: "login", AssignedTo: 2, Page: 2, PageSize: 20},
		{ProjectID: 1, Priority: "high", Type: "functional", Search: "login", AssignedTo: 2, Page: 1, PageSize: 50},
	}
	for _, variant := range variants {
		assert.NotEqual(t, listCacheKey(base), listCacheKey(variant))
	}
}

func TestListServesSecondCallFromCache(t *testing.T) {
	repo := &mockTestCaseRepo{testCases: []models.TestCase{{ID: 1, Title: "Login works"}}, total: 1}
	svc := newTestCaseService(repo, &stubCacheRepo{})
	filter := models.TestCaseFilter{ProjectID: 1, Page: 1, PageSize: 20}

	ctx := context.Background()
	first, hit, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, first.Total)

	second, hit2, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.True(t, hit2)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, first.Total, second.Total)
}

func TestCreateInvalidatesTestCaseCache(t *testing.T) {
	repo := &mockTestCaseRepo{}
	cacheRepo := &stubCacheRepo{}
	svc := newTestCaseService(repo, cacheRepo)
	ctx := context.Background()

	filter := models.TestCaseFilter{ProjectID: 1, Page: 1, PageSize: 20}
	_, _, err := svc.List(ctx, filter)
	require.NoError(t, err)
	require.Contains(t, cacheRepo.store, listCacheKey(filter))

	_, err = svc.Create(ctx, models.UserInfo{ID: 9}, models.TestCaseCreateRequest{
		ProjectID: 1,
		Title:     "Checkout flow",
		Priority:  string(models.PriorityHigh),
		Type:      string(models.TypeFunctional),
		Steps:     []models.TestStepInput{{Description: "Open cart"}},
	})
	require.NoError(t, err)
	assert.NotContains(t, cacheRepo.store, listCacheKey(filter))
}

func TestCreateRejectsUnknownPriority(t *testing.T) {
	svc := newTestCaseService(&mockTestCaseRepo{}, nil)

	_, err := svc.Create(context.Background(), models.UserInfo{ID: 1}, models.TestCaseCreateRequest{
		ProjectID: 1,
		Title:     "Checkout flow",
		Priority:  "urgent",
		Type:      string(models.TypeFunctional),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateNumbersStepsSequentially(t *testing.T) {
	repo := &mockTestCaseRepo{}
	svc := newTestCaseService(repo, nil)

	detail, err := svc.Create(context.Background(), models.UserInfo{ID: 1}, models.TestCaseCreateRequest{
		ProjectID: 1,
		Title:     "Checkout flow",
		Priority:  string(models.PriorityMedium),
		Type:      string(models.TypeFunctional),
		Steps: []models.TestStepInput{
			{Description: "Open cart"},
			{Description: "Pay"},
			{Description: "Confirm"},
		},
	})
	require.NoError(t, err)
	require.Len(t, detail.Steps, 3)
	for i, step := range detail.Steps {
		assert.Equal(t, i+1, step.StepNumber)
	}
	assert.Equal(t, 3, detail.StepsCount)
}

func TestUpdateZeroAssigneeClearsAssignment(t *testing.T) {
	repo := &mockTestCaseRepo{testCases: []models.TestCase{{ID: 1, Title: "Login works"}}}
	svc := newTestCaseService(repo, nil)

	zero := int64(0)
	_, err := svc.Update(context.Background(), 1, models.TestCaseUpdateRequest{AssignedTo: &zero})
	require.NoError(t, err)
	assert.True(t, repo.lastUpdate.ClearAssignee)
	assert.Nil(t, repo.lastUpdate.AssignedTo)

	assignee := int64(4)
	_, err = svc.Update(context.Background(), 1, models.TestCaseUpdateRequest{AssignedTo: &assignee})
	require.NoError(t, err)
	assert.False(t, repo.lastUpdate.ClearAssignee)
	require.NotNil(t, repo.lastUpdate.AssignedTo)
	assert.Equal(t, int64(4), *repo.lastUpdate.AssignedTo)
}

func TestUpdateMissingTestCase(t *testing.T) {
	svc := newTestCaseService(&mockTestCaseRepo{}, nil)

	title := "Renamed"
	_, err := svc.Update(context.Background(), 42, models.TestCaseUpdateRequest{Title: &title})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBulkAssignRequiresAssignee(t *testing.T) {
	svc := newTestCaseService(&mockTestCaseRepo{}, nil)

	err := svc.Bulk(context.Background(), models.BulkActionRequest{Action: models.BulkActionAssign, IDs: []int64{1, 2}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBulkRejectsUnknownAction(t *testing.T) {
	svc := newTestCaseService(&mockTestCaseRepo{}, nil)

	err := svc.Bulk(context.Background(), models.BulkActionRequest{Action: "archive", IDs: []int64{1}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBulkUpdatePriorityValidatesValue(t *testing.T) {
	svc := newTestCaseService(&mockTestCaseRepo{}, nil)

	err := svc.Bulk(context.Background(), models.BulkActionRequest{Action: models.BulkActionUpdatePriority, IDs: []int64{1}, Priority: "urgent"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBulkUpdateStatusValidatesValue(t *testing.T) {
	svc := newTestCaseService(&mockTestCaseRepo{}, nil)

	err := svc.Bulk(context.Background(), models.BulkActionRequest{Action: models.BulkActionUpdateStatus, IDs: []int64{1}, Status: "archived"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBulkUpdateStatusDispatchesToRepository(t *testing.T) {
	repo := &mockTestCaseRepo{}
	svc := newTestCaseService(repo, nil)

	err := svc.Bulk(context.Background(), models.BulkActionRequest{
		Action: models.BulkActionUpdateStatus,
		IDs:    []int64{3, 4},
		Status: string(models.TestCaseDeprecated),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, repo.statusIDs)
	assert.Equal(t, string(models.TestCaseDeprecated), repo.status)
}

func TestCreateDefaultsToActiveStatus(t *testing.T) {
	repo := &mockTestCaseRepo{}
	svc := newTestCaseService(repo, nil)

	detail, err := svc.Create(context.Background(), models.UserInfo{ID: 1}, models.TestCaseCreateRequest{
		ProjectID: 1,
		Title:     "Checkout flow",
		Priority:  string(models.PriorityMedium),
		Type:      string(models.TypeFunctional),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TestCaseActive, detail.Status)
}

func TestBulkAssignDispatchesToRepository(t *testing.T) {
	repo := &mockTestCaseRepo{}
	svc := newTestCaseService(repo, nil)

	err := svc.Bulk(context.Background(), models.BulkActionRequest{Action: models.BulkActionAssign, IDs: []int64{3, 4}, AssignedTo: 7})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, repo.assignedIDs)
	assert.Equal(t, int64(7), repo.assignedTo)
}

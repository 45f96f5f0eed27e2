package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/testflowhq/testflow-api/internal/models"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
)

type mockAnalyticsRepo struct {
	testCases  models.TestCaseStats
	executions models.ExecutionStats
	pending    int
	trends     []models.TrendPoint
	defects    models.DefectStats
	testers    []models.TesterStats
	calls      int
	err        error
}

func (m *mockAnalyticsRepo) TestCaseStats(ctx context.Context, projectID int64) (*models.TestCaseStats, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	stats := m.testCases
	return &stats, nil
}

func (m *mockAnalyticsRepo) ExecutionStats(ctx context.Context, projectID int64) (*models.ExecutionStats, error) {
	stats := m.executions
	return &stats, nil
}

func (m *mockAnalyticsRepo) PendingCount(ctx context.Context, projectID int64) (int, error) {
	return m.pending, nil
}

func (m *mockAnalyticsRepo) ExecutionTrends(ctx context.Context, projectID int64) ([]models.TrendPoint, error) {
	return m.trends, nil
}

func (m *mockAnalyticsRepo) DefectStats(ctx context.Context, projectID int64) (*models.DefectStats, error) {
	stats := m.defects
	return &stats, nil
}

func (m *mockAnalyticsRepo) TesterStats(ctx context.Context, projectID int64) ([]models.TesterStats, error) {
	return m.testers, nil
}

type stubCacheRepo struct {
	store map[string][]byte
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	for key := range s.store {
		if len(pattern) > 1 && pattern[len(pattern)-1] == '*' && len(key) >= len(pattern)-1 && key[:len(pattern)-1] == pattern[:len(pattern)-1] {
			delete(s.store, key)
		}
	}
	return nil
}

func newTestTTLs() CacheTTLs {
	return CacheTTLs{Analytics: 15 * time.Minute, TestCases: 10 * time.Minute, Suites: 30 * time.Minute, Projects: time.Hour}
}

func TestAnalyticsSnapshotMetricDerivation(t *testing.T) {
	repo := &mockAnalyticsRepo{
		testCases:  models.TestCaseStats{Total: 10, Critical: 2, High: 3, Medium: 4, Low: 1, Functional: 6, API: 4},
		executions: models.ExecutionStats{Total: 6, Passed: 4, Failed: 1, Blocked: 1},
		pending:    4,
		defects:    models.DefectStats{Total: 3, Open: 2, Resolved: 1, Critical: 1, Medium: 2},
		testers:    []models.TesterStats{{FullName: "Ada", Total: 5, Passed: 4, Failed: 1}},
	}
	cacheSvc := NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
	svc := NewAnalyticsService(repo, cacheSvc, nil, zap.NewNop(), newTestTTLs())

	snapshot, cacheHit, err := svc.Snapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, cacheHit)

	assert.Equal(t, 10, snapshot.TestCases.Total)
	assert.Equal(t, 2, snapshot.TestCases.ByPriority.Critical)
	assert.Equal(t, 4, snapshot.TestCases.ByType.API)

	assert.Equal(t, 4, snapshot.Executions.Pending)
	assert.Equal(t, 67, snapshot.Executions.PassRate)
	assert.Equal(t, 60, snapshot.Coverage)
	assert.Equal(t, "0.30", snapshot.DefectDensity)
	assert.Equal(t, 2, snapshot.Defects.Open)
	assert.Len(t, snapshot.ExecutionByTester, 1)
}

func TestAnalyticsSnapshotZeroDenominators(t *testing.T) {
	repo := &mockAnalyticsRepo{}
	cacheSvc := NewCacheService(nil, nil, time.Minute, zap.NewNop(), false)
	svc := NewAnalyticsService(repo, cacheSvc, nil, zap.NewNop(), newTestTTLs())

	snapshot, _, err := svc.Snapshot(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 0, snapshot.Executions.PassRate)
	assert.Equal(t, 0, snapshot.Coverage)
	assert.Equal(t, "0.00", snapshot.DefectDensity)
	assert.NotNil(t, snapshot.Trends)
	assert.NotNil(t, snapshot.ExecutionByTester)
}

func TestAnalyticsSnapshotCaching(t *testing.T) {
	repo := &mockAnalyticsRepo{testCases: models.TestCaseStats{Total: 3}}
	cacheSvc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewAnalyticsService(repo, cacheSvc, nil, zap.NewNop(), newTestTTLs())

	ctx := context.Background()
	first, hit, err := svc.Snapshot(ctx, 5)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, repo.calls)

	second, hit2, err := svc.Snapshot(ctx, 5)
	require.NoError(t, err)
	assert.True(t, hit2)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first.TestCases.Total, second.TestCases.Total)
}

func TestAnalyticsSnapshotRequiresProject(t *testing.T) {
	svc := NewAnalyticsService(&mockAnalyticsRepo{}, NewCacheService(nil, nil, time.Minute, zap.NewNop(), false), nil, zap.NewNop(), newTestTTLs())

	_, _, err := svc.Snapshot(context.Background(), 0)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAnalyticsExportFormats(t *testing.T) {
	repo := &mockAnalyticsRepo{testCases: models.TestCaseStats{Total: 2}, testers: []models.TesterStats{{FullName: "Ada", Total: 2, Passed: 2}}}
	svc := NewAnalyticsService(repo, NewCacheService(nil, nil, time.Minute, zap.NewNop(), false), nil, zap.NewNop(), newTestTTLs())

	payload, contentType, filename, err := svc.Export(context.Background(), 3, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, filename, ".csv")
	assert.Contains(t, string(payload), "Total Test Cases")
	assert.Contains(t, string(payload), "Ada")

	_, contentType, filename, err = svc.Export(context.Background(), 3, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.Contains(t, filename, ".pdf")

	_, _, _, err = svc.Export(context.Background(), 3, "xlsx")
	require.Error(t, err)
}

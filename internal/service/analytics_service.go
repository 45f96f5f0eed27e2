package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/testflowhq/testflow-api/internal/models"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
	"github.com/testflowhq/testflow-api/pkg/export"
)

type analyticsRepository interface {
	TestCaseStats(ctx context.Context, projectID int64) (*models.TestCaseStats, error)
	ExecutionStats(ctx context.Context, projectID int64) (*models.ExecutionStats, error)
	PendingCount(ctx context.Context, projectID int64) (int, error)
	ExecutionTrends(ctx context.Context, projectID int64) ([]models.TrendPoint, error)
	DefectStats(ctx context.Context, projectID int64) (*models.DefectStats, error)
	TesterStats(ctx context.Context, projectID int64) ([]models.TesterStats, error)
}

// Export formats supported by the analytics export endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// AnalyticsService computes per-project quality snapshots with read-through
// caching and renders them as downloadable reports.
type AnalyticsService struct {
	repo    analyticsRepository
	cache   *CacheService
	metrics *MetricsService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
	ttl     CacheTTLs
}

// NewAnalyticsService constructs an AnalyticsService instance.
func NewAnalyticsService(repo analyticsRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger, ttl CacheTTLs) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		ttl:     ttl,
	}
}

// Snapshot returns the analytics view for a project. The second return
// value reports whether the snapshot came from cache.
func (s *AnalyticsService) Snapshot(ctx context.Context, projectID int64) (*models.AnalyticsSnapshot, bool, error) {
	if projectID <= 0 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "project_id is required")
	}

	key := CacheKey(CacheKeyAnalytics, fmt.Sprintf("%d", projectID))
	var cached models.AnalyticsSnapshot
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	snapshot, err := s.buildSnapshot(ctx, projectID)
	if err != nil {
		return nil, false, err
	}

	s.cache.Set(ctx, key, snapshot, s.ttl.Analytics)
	return snapshot, false, nil
}

// Export renders the snapshot in the requested format and returns the
// payload with its content type and suggested filename.
func (s *AnalyticsService) Export(ctx context.Context, projectID int64, format string) ([]byte, string, string, error) {
	snapshot, _, err := s.Snapshot(ctx, projectID)
	if err != nil {
		return nil, "", "", err
	}

	data := snapshotDataset(snapshot)
	stamp := time.Now().UTC().Format("20060102")

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(data)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", fmt.Sprintf("analytics-%d-%s.csv", projectID, stamp), nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(data, fmt.Sprintf("Project %d Quality Report", projectID))
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", fmt.Sprintf("analytics-%d-%s.pdf", projectID, stamp), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func (s *AnalyticsService) buildSnapshot(ctx context.Context, projectID int64) (*models.AnalyticsSnapshot, error) {
	start := time.Now()

	testCases, err := s.repo.TestCaseStats(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate test cases")
	}
	executions, err := s.repo.ExecutionStats(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate executions")
	}
	pending, err := s.repo.PendingCount(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending test cases")
	}
	trends, err := s.repo.ExecutionTrends(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate trends")
	}
	defects, err := s.repo.DefectStats(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate defects")
	}
	testers, err := s.repo.TesterStats(ctx, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate tester activity")
	}

	if s.metrics != nil {
		s.metrics.ObserveDBQuery("analytics_snapshot", time.Since(start))
	}

	snapshot := assembleSnapshot(testCases, executions, pending, trends, defects, testers)
	return snapshot, nil
}

// assembleSnapshot derives the rates and densities from raw aggregates.
// Zero denominators yield zero rates, never NaN.
func assembleSnapshot(tc *models.TestCaseStats, ex *models.ExecutionStats, pending int, trends []models.TrendPoint, df *models.DefectStats, testers []models.TesterStats) *models.AnalyticsSnapshot {
	passRate := 0
	if ex.Total > 0 {
		passRate = int(math.Round(float64(ex.Passed) * 100 / float64(ex.Total)))
	}

	coverage := 0
	if tc.Total > 0 {
		coverage = int(math.Round(float64(tc.Total-pending) * 100 / float64(tc.Total)))
	}

	defectDensity := "0.00"
	if tc.Total > 0 {
		defectDensity = fmt.Sprintf("%.2f", float64(df.Total)/float64(tc.Total))
	}

	if trends == nil {
		trends = []models.TrendPoint{}
	}
	if testers == nil {
		testers = []models.TesterStats{}
	}

	return &models.AnalyticsSnapshot{
		TestCases: models.TestCaseSummary{
			Total: tc.Total,
			ByPriority: models.PriorityBreakdown{
				Critical: tc.Critical,
				High:     tc.High,
				Medium:   tc.Medium,
				Low:      tc.Low,
			},
			ByType: models.TypeBreakdown{
				Functional:  tc.Functional,
				Integration: tc.Integration,
				Regression:  tc.Regression,
				Smoke:       tc.Smoke,
				UI:          tc.UI,
				API:         tc.API,
			},
		},
		Executions: models.ExecutionSummary{
			Total:    ex.Total,
			Passed:   ex.Passed,
			Failed:   ex.Failed,
			Blocked:  ex.Blocked,
			Skipped:  ex.Skipped,
			Pending:  pending,
			PassRate: passRate,
		},
		Coverage:      coverage,
		DefectDensity: defectDensity,
		Trends:        trends,
		Defects: models.DefectSummary{
			Total:      df.Total,
			Open:       df.Open,
			InProgress: df.InProgress,
			Resolved:   df.Resolved,
			Closed:     df.Closed,
			BySeverity: models.SeverityBreakdown{
				Critical: df.Critical,
				High:     df.High,
				Medium:   df.Medium,
				Low:      df.Low,
			},
		},
		ExecutionByTester: testers,
		GeneratedAt:       time.Now().UTC(),
	}
}

func snapshotDataset(snapshot *models.AnalyticsSnapshot) export.Dataset {
	rows := []map[string]string{
		{"Metric": "Total Test Cases", "Value": fmt.Sprintf("%d", snapshot.TestCases.Total)},
		{"Metric": "Total Executions", "Value": fmt.Sprintf("%d", snapshot.Executions.Total)},
		{"Metric": "Passed", "Value": fmt.Sprintf("%d", snapshot.Executions.Passed)},
		{"Metric": "Failed", "Value": fmt.Sprintf("%d", snapshot.Executions.Failed)},
		{"Metric": "Blocked", "Value": fmt.Sprintf("%d", snapshot.Executions.Blocked)},
		{"Metric": "Skipped", "Value": fmt.Sprintf("%d", snapshot.Executions.Skipped)},
		{"Metric": "Pending Test Cases", "Value": fmt.Sprintf("%d", snapshot.Executions.Pending)},
		{"Metric": "Pass Rate (%)", "Value": fmt.Sprintf("%d", snapshot.Executions.PassRate)},
		{"Metric": "Coverage (%)", "Value": fmt.Sprintf("%d", snapshot.Coverage)},
		{"Metric": "Defect Density", "Value": snapshot.DefectDensity},
		{"Metric": "Total Defects", "Value": fmt.Sprintf("%d", snapshot.Defects.Total)},
		{"Metric": "Open Defects", "Value": fmt.Sprintf("%d", snapshot.Defects.Open)},
	}
	for _, tester := range snapshot.ExecutionByTester {
		rows = append(rows, map[string]string{
			"Metric": fmt.Sprintf("Executions by %s", tester.FullName),
			"Value":  fmt.Sprintf("%d (passed %d, failed %d)", tester.Total, tester.Passed, tester.Failed),
		})
	}
	return export.Dataset{Headers: []string{"Metric", "Value"}, Rows: rows}
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/testflowhq/testflow-api/pkg/config"
	appErrors "github.com/testflowhq/testflow-api/pkg/errors"
)

// CacheTTLs groups the per-resource cache lifetimes used by domain services.
type CacheTTLs struct {
	Analytics time.Duration
	TestCases time.Duration
	Suites    time.Duration
	Projects  time.Duration
}

// NewCacheTTLs builds the TTL set from configuration.
func NewCacheTTLs(cfg config.CacheConfig) CacheTTLs {
	return CacheTTLs{
		Analytics: cfg.AnalyticsTTL,
		TestCases: cfg.TestCasesTTL,
		Suites:    cfg.SuitesTTL,
		Projects:  cfg.ProjectsTTL,
	}
}

// Cache key namespaces. Writes invalidate the whole namespace so reads
// never observe stale lists.
const (
	CacheKeyAnalytics = "analytics"
	CacheKeyTestCases = "testcases"
	CacheKeySuites    = "testsuites"
	CacheKeyProjects  = "projects"
)

// CacheKey joins namespace parts with ':' into a Redis key.
func CacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService orchestrates cache operations and related metrics. Backend
// failures are reported as misses so a Redis outage degrades to slower
// responses rather than errors.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true on a hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	if !s.Enabled() {
		return false
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false, duration)
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) && s.logger != nil {
			s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(true, duration)
	}
	return true
}

// Set stores the value in cache. Failures are logged, never surfaced.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !s.Enabled() {
		return
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	if s.metrics != nil {
		s.metrics.ObserveCacheWrite(time.Since(start))
	}
	if err != nil && s.logger != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes every cached value under the given namespaces.
func (s *CacheService) Invalidate(ctx context.Context, namespaces ...string) {
	if !s.Enabled() {
		return
	}
	for _, ns := range namespaces {
		pattern := ns + ":*"
		if err := s.repo.DeleteByPattern(ctx, pattern); err != nil && s.logger != nil {
			s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

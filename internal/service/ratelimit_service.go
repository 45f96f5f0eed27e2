package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/testflowhq/testflow-api/internal/models"
	"github.com/testflowhq/testflow-api/pkg/config"
)

// RateLimitStore abstracts the fixed-window counter backend.
type RateLimitStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RateLimitService enforces per-identifier fixed-window quotas. When the
// backing store fails the request is admitted; availability wins over
// strict limiting.
type RateLimitService struct {
	store   RateLimitStore
	logger  *zap.Logger
	enabled bool
}

// NewRateLimitService constructs a rate limit service.
func NewRateLimitService(store RateLimitStore, logger *zap.Logger, enabled bool) *RateLimitService {
	return &RateLimitService{store: store, logger: logger, enabled: enabled}
}

// Enabled indicates whether limiting is active.
func (s *RateLimitService) Enabled() bool {
	return s != nil && s.enabled && s.store != nil
}

// Admit checks the identifier against the rule and returns the decision
// together with the remaining quota and the window reset time in Unix
// seconds.
func (s *RateLimitService) Admit(ctx context.Context, class, identifier string, rule config.RateLimitRule) models.RateLimitResult {
	if !s.Enabled() || rule.Limit <= 0 {
		return models.RateLimitResult{Allowed: true, Remaining: rule.Limit}
	}

	key := "ratelimit:" + class + ":" + identifier
	count, ttl, err := s.store.Increment(ctx, key, rule.Window)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("rate limit store unavailable, admitting request", zap.String("key", key), zap.Error(err))
		}
		return models.RateLimitResult{Allowed: true, Remaining: rule.Limit}
	}

	remaining := rule.Limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return models.RateLimitResult{
		Allowed:   count <= int64(rule.Limit),
		Remaining: remaining,
		ResetAt:   time.Now().Add(ttl).Unix(),
	}
}

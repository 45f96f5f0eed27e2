package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/testflowhq/testflow-api/internal/models"
	"github.com/testflowhq/testflow-api/internal/service"
	"github.com/testflowhq/testflow-api/pkg/config"
)

type memoryRateStore struct {
	counts map[string]int64
}

func (s *memoryRateStore) Increment(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if s.counts == nil {
		s.counts = make(map[string]int64)
	}
	s.counts[key]++
	return s.counts[key], window, nil
}

func rateLimitedRouter(limiter *service.RateLimitService, rule config.RateLimitRule) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", RateLimit(limiter, "auth", rule), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRateLimitBlocksAfterQuota(t *testing.T) {
	store := &memoryRateStore{}
	limiter := service.NewRateLimitService(store, nil, true)
	router := rateLimitedRouter(limiter, config.RateLimitRule{Limit: 2, Window: time.Minute})

	for i := 0; i < 2; i++ {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", nil))
		if recorder.Code != http.StatusNoContent {
			t.Fatalf("request %d should pass, got %d", i+1, recorder.Code)
		}
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", nil))
	if recorder.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	if got := recorder.Header().Get("X-RateLimit-Limit"); got != "2" {
		t.Fatalf("unexpected limit header: %s", got)
	}
	if got := recorder.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("unexpected remaining header: %s", got)
	}
	if recorder.Header().Get("X-RateLimit-Reset") == "" {
		t.Fatal("expected reset header")
	}
}

func TestRateLimitKeysOnAuthenticatedUser(t *testing.T) {
	store := &memoryRateStore{}
	limiter := service.NewRateLimitService(store, nil, true)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	rule := config.RateLimitRule{Limit: 10, Window: time.Minute}
	router.GET("/cases", JWT(newAuthService(), "token"), RateLimit(limiter, "testcase", rule), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cases", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: signToken(t, testSecret, models.RoleTester)})
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	if _, ok := store.counts["ratelimit:testcase:user:42"]; !ok {
		t.Fatalf("expected user-scoped key, got %v", store.counts)
	}
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	limiter := service.NewRateLimitService(nil, nil, false)
	router := rateLimitedRouter(limiter, config.RateLimitRule{Limit: 1, Window: time.Minute})

	for i := 0; i < 5; i++ {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/login", nil))
		if recorder.Code != http.StatusNoContent {
			t.Fatalf("request %d should pass, got %d", i+1, recorder.Code)
		}
	}
}

package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/testflowhq/testflow-api/api/swagger"
	"github.com/testflowhq/testflow-api/internal/handler"
	"github.com/testflowhq/testflow-api/internal/middleware"
	"github.com/testflowhq/testflow-api/internal/models"
	"github.com/testflowhq/testflow-api/internal/repository"
	"github.com/testflowhq/testflow-api/internal/service"
	"github.com/testflowhq/testflow-api/pkg/cache"
	"github.com/testflowhq/testflow-api/pkg/config"
	"github.com/testflowhq/testflow-api/pkg/database"
	"github.com/testflowhq/testflow-api/pkg/logger"
	corsmiddleware "github.com/testflowhq/testflow-api/pkg/middleware/cors"
	reqidmiddleware "github.com/testflowhq/testflow-api/pkg/middleware/requestid"
)

// @title TestFlow API
// @version 1.0.0
// @description Test case management and QA analytics service
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// Redis is optional: without it caching and rate limiting degrade
	// gracefully instead of blocking startup.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching and rate limiting disabled", zap.Error(err))
		redisClient = nil
	}

	r := newRouter(cfg, db, redisClient, logr)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// newRouter wires repositories, services, handlers, and route guards into
// a gin engine. Kept apart from main so the route table is testable.
func newRouter(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, logr *zap.Logger) *gin.Engine {
	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	ttl := service.NewCacheTTLs(cfg.Cache)

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	rateRepo := repository.NewRateLimitRepository(redisClient)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	testCaseRepo := repository.NewTestCaseRepository(db)
	executionRepo := repository.NewExecutionRepository(db)
	defectRepo := repository.NewDefectRepository(db)
	suiteRepo := repository.NewSuiteRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TestCasesTTL, logr, cfg.Cache.Enabled && redisClient != nil)
	limiter := service.NewRateLimitService(rateRepo, logr, cfg.RateLimit.Enabled && redisClient != nil)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, logr)
	projectSvc := service.NewProjectService(projectRepo, cacheSvc, validate, logr, ttl)
	testCaseSvc := service.NewTestCaseService(testCaseRepo, executionRepo, cacheSvc, validate, logr, ttl)
	executionSvc := service.NewExecutionService(executionRepo, cacheSvc, validate, logr)
	defectSvc := service.NewDefectService(defectRepo, cacheSvc, validate, logr)
	suiteSvc := service.NewSuiteService(suiteRepo, cacheSvc, validate, logr, ttl)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheSvc, metricsSvc, logr, ttl)

	secureCookie := cfg.Env == config.EnvProduction
	authHandler := handler.NewAuthHandler(authSvc, cfg.JWT.CookieName, secureCookie)
	userHandler := handler.NewUserHandler(userSvc)
	projectHandler := handler.NewProjectHandler(projectSvc)
	testCaseHandler := handler.NewTestCaseHandler(testCaseSvc)
	executionHandler := handler.NewExecutionHandler(executionSvc)
	defectHandler := handler.NewDefectHandler(defectSvc)
	suiteHandler := handler.NewSuiteHandler(suiteSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := middleware.JWT(authSvc, cfg.JWT.CookieName)
	writers := middleware.RequireRoles(models.RoleAdmin, models.RoleTestLead, models.RoleTester)
	leads := middleware.RequireRoles(models.RoleAdmin, models.RoleTestLead)
	admins := middleware.RequireRoles(models.RoleAdmin)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		authLimit := middleware.RateLimit(limiter, "auth", cfg.RateLimit.Auth)
		auth.POST("/register", authLimit, authHandler.Register)
		auth.POST("/login", authLimit, authHandler.Login)
		auth.POST("/logout", requireAuth, authHandler.Logout)
		auth.GET("/me", requireAuth, authHandler.Me)
	}

	api.GET("/users", requireAuth, userHandler.List)

	projects := api.Group("/projects", requireAuth)
	{
		projects.GET("", projectHandler.List)
		projects.POST("", leads, projectHandler.Create)
		projects.GET("/:id", projectHandler.Get)
		projects.PUT("/:id", leads, projectHandler.Update)
		projects.DELETE("/:id", leads, projectHandler.Delete)
		projects.GET("/:id/members", projectHandler.Members)
		projects.POST("/:id/members", leads, projectHandler.AddMember)
		projects.DELETE("/:id/members/:userId", leads, projectHandler.RemoveMember)
	}

	testCases := api.Group("/test-cases", requireAuth)
	{
		tcLimit := middleware.RateLimit(limiter, "testcase", cfg.RateLimit.TestCases)
		testCases.GET("", tcLimit, testCaseHandler.List)
		testCases.POST("", tcLimit, leads, testCaseHandler.Create)
		testCases.POST("/bulk", tcLimit, leads, testCaseHandler.Bulk)
		testCases.GET("/:id", tcLimit, testCaseHandler.Get)
		testCases.PUT("/:id", tcLimit, leads, testCaseHandler.Update)
		testCases.DELETE("/:id", tcLimit, leads, testCaseHandler.Delete)
	}

	suites := api.Group("/test-suites", requireAuth)
	{
		suites.GET("", suiteHandler.List)
		suites.POST("", leads, suiteHandler.Create)
	}

	executions := api.Group("/executions", requireAuth)
	{
		execLimit := middleware.RateLimit(limiter, "execution", cfg.RateLimit.Execution)
		executions.GET("", execLimit, writers, executionHandler.List)
		executions.POST("", execLimit, writers, executionHandler.Create)
	}

	defects := api.Group("/defects", requireAuth)
	{
		defects.GET("", writers, defectHandler.List)
		defects.POST("", writers, defectHandler.Create)
		defects.PUT("/:id", writers, defectHandler.Update)
	}

	analytics := api.Group("/analytics", requireAuth)
	{
		analyticsLimit := middleware.RateLimit(limiter, "analytics", cfg.RateLimit.Analytics)
		analytics.GET("", analyticsLimit, analyticsHandler.Snapshot)
		analytics.GET("/export", analyticsLimit, analyticsHandler.Export)
		analytics.GET("/system", analyticsLimit, admins, analyticsHandler.System)
	}

	return r
}

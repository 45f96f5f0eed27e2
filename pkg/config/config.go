package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
	CookieName string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig carries per-resource TTLs for the read-through cache.
type CacheConfig struct {
	Enabled      bool
	AnalyticsTTL time.Duration
	TestCasesTTL time.Duration
	SuitesTTL    time.Duration
	ProjectsTTL  time.Duration
}

// RateLimitRule defines a fixed-window quota for an endpoint class.
type RateLimitRule struct {
	Limit  int
	Window time.Duration
}

// RateLimitConfig holds the named quota rules.
type RateLimitConfig struct {
	Enabled   bool
	Auth      RateLimitRule
	TestCases RateLimitRule
	Execution RateLimitRule
	Analytics RateLimitRule
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 7*24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
		CookieName: v.GetString("JWT_COOKIE_NAME"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:      v.GetBool("ENABLE_CACHE"),
		AnalyticsTTL: parseDuration(v.GetString("CACHE_ANALYTICS_TTL"), 15*time.Minute),
		TestCasesTTL: parseDuration(v.GetString("CACHE_TEST_CASES_TTL"), 10*time.Minute),
		SuitesTTL:    parseDuration(v.GetString("CACHE_SUITES_TTL"), 30*time.Minute),
		ProjectsTTL:  parseDuration(v.GetString("CACHE_PROJECTS_TTL"), time.Hour),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled: v.GetBool("ENABLE_RATE_LIMIT"),
		Auth: RateLimitRule{
			Limit:  v.GetInt("RATE_LIMIT_AUTH"),
			Window: parseDuration(v.GetString("RATE_LIMIT_AUTH_WINDOW"), 15*time.Minute),
		},
		TestCases: RateLimitRule{
			Limit:  v.GetInt("RATE_LIMIT_TEST_CASES"),
			Window: parseDuration(v.GetString("RATE_LIMIT_TEST_CASES_WINDOW"), time.Hour),
		},
		Execution: RateLimitRule{
			Limit:  v.GetInt("RATE_LIMIT_EXECUTION"),
			Window: parseDuration(v.GetString("RATE_LIMIT_EXECUTION_WINDOW"), time.Hour),
		},
		Analytics: RateLimitRule{
			Limit:  v.GetInt("RATE_LIMIT_ANALYTICS"),
			Window: parseDuration(v.GetString("RATE_LIMIT_ANALYTICS_WINDOW"), time.Hour),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "testflow")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "168h")
	v.SetDefault("JWT_ISSUER", "testflow-api")
	v.SetDefault("JWT_COOKIE_NAME", "token")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", true)
	v.SetDefault("CACHE_ANALYTICS_TTL", "15m")
	v.SetDefault("CACHE_TEST_CASES_TTL", "10m")
	v.SetDefault("CACHE_SUITES_TTL", "30m")
	v.SetDefault("CACHE_PROJECTS_TTL", "1h")

	v.SetDefault("ENABLE_RATE_LIMIT", true)
	v.SetDefault("RATE_LIMIT_AUTH", 5)
	v.SetDefault("RATE_LIMIT_AUTH_WINDOW", "15m")
	v.SetDefault("RATE_LIMIT_TEST_CASES", 100)
	v.SetDefault("RATE_LIMIT_TEST_CASES_WINDOW", "1h")
	v.SetDefault("RATE_LIMIT_EXECUTION", 200)
	v.SetDefault("RATE_LIMIT_EXECUTION_WINDOW", "1h")
	v.SetDefault("RATE_LIMIT_ANALYTICS", 50)
	v.SetDefault("RATE_LIMIT_ANALYTICS_WINDOW", "1h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

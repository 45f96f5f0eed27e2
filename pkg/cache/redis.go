package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/testflowhq/testflow-api/pkg/config"
)

// Startup should not hang on an unreachable Redis; the caller treats a
// failed connect as "run without caching".
const pingTimeout = 5 * time.Second

// NewRedis connects to the Redis instance backing the read-through cache
// and the rate-limit counters, verifying reachability with a ping.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int

	// SlowCommandThreshold logs commands slower than this. Zero disables it.
	SlowCommandThreshold time.Duration
}

// DefaultRedisConfig returns defaults for a local Redis.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:                 "localhost:6379",
		PoolSize:             20,
		SlowCommandThreshold: 50 * time.Millisecond,
	}
}

// NewRedisClient creates a traced Redis client and verifies the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	client.AddHook(NewTracingHook(cfg.SlowCommandThreshold, logger))

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/storage"
)

// Storage implements storage.Storage using Redis. Every write refreshes the
// key's TTL so idle sessions expire on their own.
type Storage struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a new Redis-backed session storage.
func New(client *redis.Client, ttl time.Duration) *Storage {
	return &Storage{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the raw value stored under key.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set writes value under key with the configured TTL.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes key from Redis.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

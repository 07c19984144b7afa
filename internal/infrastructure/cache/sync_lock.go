package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSyncLock serializes sync runs across instances. One lock key guards
// each sync scope; a second run against a held scope is rejected instead of
// queued. The TTL bounds how long a crashed run can block the next one.
type RedisSyncLock struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSyncLock creates a Redis-backed sync lock
func NewRedisSyncLock(cfg RedisConfig, ttl time.Duration) (*RedisSyncLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSyncLockWithClient(client, "", ttl), nil
}

// NewRedisSyncLockWithClient creates a lock with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisSyncLockWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSyncLock {
	if keyPrefix == "" {
		keyPrefix = "sync:lock:"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisSyncLock{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Acquire attempts to take the lock for a sync scope.
// Returns true when this caller now holds the lock, false when another run
// already holds it. SETNX with TTL keeps acquisition atomic.
func (l *RedisSyncLock) Acquire(ctx context.Context, scope string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.keyPrefix+scope, "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock for a sync scope. Releasing an already-expired lock
// is not an error.
func (l *RedisSyncLock) Release(ctx context.Context, scope string) error {
	if err := l.client.Del(ctx, l.keyPrefix+scope).Err(); err != nil {
		return fmt.Errorf("failed to release sync lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisSyncLock) Close() error {
	return l.client.Close()
}

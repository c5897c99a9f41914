// Package cache holds the Redis-backed parts of the API: the
// auth-context cache consulted on every authenticated request and the
// token-bucket rate limiter.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Pool sizing matches the Postgres pool so a fully loaded server does
// not queue on Redis before it queues on the database.
const (
	redisPoolSize     = 10
	redisMinIdleConns = 2
	redisPoolTimeout  = 4 * time.Second
	redisConnMaxIdle  = 5 * time.Minute
)

// Cache is the shared Redis handle.
type Cache struct {
	client *redis.Client
}

// New parses redisURL, applies pool settings, and pings once so a bad
// address fails at startup rather than on the first request.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opt.PoolSize = redisPoolSize
	opt.MinIdleConns = redisMinIdleConns
	opt.PoolTimeout = redisPoolTimeout
	opt.ConnMaxIdleTime = redisConnMaxIdle

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis unreachable: %w", err)
	}

	return &Cache{client: client}, nil
}

// Ping reports Redis connectivity, for readiness checks.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client's connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

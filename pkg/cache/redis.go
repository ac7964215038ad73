// Package cache keeps detected partitions in Redis so repeated runs over the
// same snapshot skip detection.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dd0wney/neochain/pkg/artifact"
	"github.com/dd0wney/neochain/pkg/community"
	"github.com/dd0wney/neochain/pkg/logging"
)

const (
	// DefaultTTL applies when no expiry is configured
	DefaultTTL = 24 * time.Hour

	keyPrefix = "neochain:partition:"
)

// Options configure the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache implements community.Cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

var _ community.Cache = (*RedisCache)(nil)

// Dial connects to Redis and checks the connection.
func Dial(ctx context.Context, opts Options, logger logging.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	return New(client, opts.TTL, logger), nil
}

// New wraps an existing client. A non-positive ttl means DefaultTTL.
func New(client *redis.Client, ttl time.Duration, logger logging.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logging.OrNop(logger).With(logging.Component("cache")),
	}
}

// Get implements community.Cache.
func (c *RedisCache) Get(ctx context.Context, key string) (community.Partition, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("cache miss", logging.String("key", key))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	p, _, err := artifact.DecodePartition(data)
	if err != nil {
		return nil, false, err
	}
	c.logger.Debug("cache hit", logging.String("key", key), logging.Count(len(p)))
	return p, true, nil
}

// Put implements community.Cache.
func (c *RedisCache) Put(ctx context.Context, key string, p community.Partition) error {
	data, err := artifact.EncodePartition(p, "")
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisOptions configures the redis-backed cache
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
	// MaxConnectWait bounds the exponential backoff spent waiting for the first ping
	MaxConnectWait time.Duration
}

// RedisCache stores results in redis so several service instances share them
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger zerolog.Logger
}

var _ ResultCache = (*RedisCache)(nil)

// NewRedisCache connects to redis, retrying the initial ping with exponential backoff
func NewRedisCache(ctx context.Context, opts RedisOptions, logger zerolog.Logger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	logger = logger.With().Str("component", "redis_cache").Str("addr", opts.Addr).Logger()

	operation := func() error {
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis ping failed")
			return err
		}
		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = opts.MaxConnectWait
	if backoffStrategy.MaxElapsedTime <= 0 {
		backoffStrategy.MaxElapsedTime = 10 * time.Second
	}

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "supplydesk:"
	}

	logger.Info().Msg("redis cache connected")
	return &RedisCache{rdb: rdb, ttl: opts.TTL, prefix: prefix, logger: logger}, nil
}

// Get decodes the stored value for key into dest; a missing key is a miss
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	payload, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under the prefixed key with the configured TTL
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", key, err)
	}
	if err := c.rdb.Set(ctx, c.prefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close closes the redis client
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wisefood/data-catalog/internal/catalog"
)

// ErrUnavailable reports a failed round trip to the cache backend. The
// catalog treats it as a degraded read, not a failure.
var ErrUnavailable = errors.New("cache unavailable")

const poolSize = 10

var (
	_ catalog.Cache = &Redis{}
	_ catalog.Cache = Noop{}
)

// Redis implements catalog.Cache on a Redis database.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFromEnv builds the cache configured by the REDIS_* and CACHE_*
// environment variables. When caching is disabled it returns a Noop cache,
// so callers never have to branch.
func NewFromEnv() (catalog.Cache, error) {
	config, err := loadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if !config.Enabled {
		return Noop{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		Password: config.Password,
		DB:       config.DB,
		PoolSize: poolSize,
	})
	return &Redis{client: client, ttl: time.Duration(config.TTL) * time.Second}, nil
}

// Get implements catalog.Cache.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %q", catalog.ErrCacheMiss, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return value, nil
}

// Set implements catalog.Cache.
func (c *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return nil
}

// Delete implements catalog.Cache.
func (c *Redis) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return nil
}

// Ping checks that the cache backend is reachable.
func (c *Redis) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Redis) Close() error {
	return c.client.Close()
}

// Noop satisfies catalog.Cache when caching is disabled. Reads always miss
// and writes are discarded.
type Noop struct{}

func (Noop) Get(_ context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("%w: %q", catalog.ErrCacheMiss, key)
}

func (Noop) Set(context.Context, string, []byte) error { return nil }

func (Noop) Delete(context.Context, string) error { return nil }

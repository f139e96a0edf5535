// Package redis connects the optional Redis backend used by the token
// revocation list. The service runs without it, trading durability of
// revocations for zero infrastructure.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"nirvachan/internal/platform/config"
)

// New dials Redis from the configured URL and verifies the connection with a
// ping. An empty URL means Redis is not configured; New returns nil and the
// caller falls back to the in-memory revocation list.
func New(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

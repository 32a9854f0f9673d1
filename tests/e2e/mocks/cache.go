package mocks

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NullCache always misses. It stands in for the shared response cache in
// flows that must exercise the full service path.
type NullCache struct{}

func (c *NullCache) Get(ctx context.Context, key string, dest any) error {
	return redis.Nil
}

func (c *NullCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}

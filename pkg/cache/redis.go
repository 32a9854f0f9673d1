package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a shared response cache backed by a Redis server. Values are
// stored as JSON; expiry is handled server-side by Redis TTLs. A missing
// key surfaces as redis.Nil from Get.
type Redis struct {
	client *redis.Client
}

type RedisOptions struct {
	Address  string
	Password string
	DB       int
}

type RedisOption func(*RedisOptions)

func WithAddress(addr string) RedisOption {
	return func(o *RedisOptions) {
		o.Address = addr
	}
}

func WithPassword(pass string) RedisOption {
	return func(o *RedisOptions) {
		o.Password = pass
	}
}

func WithDB(db int) RedisOption {
	return func(o *RedisOptions) {
		o.DB = db
	}
}

func NewRedis(ctx context.Context, opts ...RedisOption) (*Redis, error) {
	options := &RedisOptions{
		Address:  "localhost:6379",
		Password: "",
		DB:       0,
	}

	for _, opt := range opts {
		opt(options)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     options.Address,
		Password: options.Password,
		DB:       options.DB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return &Redis{client: client}, nil
}

func (c *Redis) Get(ctx context.Context, key string, dest any) error {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func (c *Redis) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Redis) Close() error {
	return c.client.Close()
}

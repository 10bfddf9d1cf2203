package cache

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const pageKeyPrefix = "page:"

// RedisInvalidator drops cached pages from Redis.
type RedisInvalidator struct {
	client *redis.Client
}

func NewRedisInvalidator(url string) (*RedisInvalidator, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return &RedisInvalidator{client: client}, nil
}

var _ Invalidator = (*RedisInvalidator)(nil)

func (r *RedisInvalidator) InvalidatePath(ctx context.Context, path string) error {
	return r.client.Del(ctx, pageKeyPrefix+path).Err()
}

func (r *RedisInvalidator) Close() error {
	return r.client.Close()
}

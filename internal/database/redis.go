package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisClient is a Redis connection
type RedisClient struct {
	*redis.Client
}

// NewRedisClient connects to the Redis instance at redisURL
func NewRedisClient(ctx context.Context, redisURL string) (*RedisClient, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	check := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := ping(ctx, "redis", check, client.Close); err != nil {
		return nil, err
	}
	return &RedisClient{Client: client}, nil
}

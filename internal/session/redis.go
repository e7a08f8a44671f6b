package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs sessions with one hash per browser session. The hash TTL is
// refreshed on every write, so idle sessions expire without a sweeper.
type Redis struct {
	client  *redis.Client
	maxIdle time.Duration
}

func NewRedis(redisURL string, maxIdle time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Redis{client: redis.NewClient(opt), maxIdle: maxIdle}, nil
}

func hashKey(sid string) string { return "lifelink:sess:" + sid }

func (r *Redis) Get(ctx context.Context, sid, key string) (string, error) {
	v, err := r.client.HGet(ctx, hashKey(sid), key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("hget %s: %w", key, err)
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, sid, key, value string) error {
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, hashKey(sid), key, value)
	pipe.Expire(ctx, hashKey(sid), r.maxIdle)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, sid string, keys ...string) error {
	if err := r.client.HDel(ctx, hashKey(sid), keys...).Err(); err != nil {
		return fmt.Errorf("hdel: %w", err)
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

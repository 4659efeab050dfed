package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter keeps fixed-window counters in Redis so several instances share them.
type RedisLimiter struct {
	redis  redis.Cmdable
	prefix string
}

func NewRedisLimiter(client redis.Cmdable, prefix string) *RedisLimiter {
	return &RedisLimiter{redis: client, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, period time.Duration) (Result, error) {
	key = l.prefix + key

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return Result{}, err
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key, period).Err(); err != nil {
			return Result{}, err
		}
	}

	ttl, err := l.redis.TTL(ctx, key).Result()
	if err != nil {
		return Result{}, err
	}
	// a key left without expiry would block the client forever
	if ttl < 0 {
		if err := l.redis.Expire(ctx, key, period).Err(); err != nil {
			return Result{}, err
		}
		ttl = period
	}

	return newResult(count, limit, ttl), nil
}

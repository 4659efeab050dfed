package ratelimit

import (
	"context"
	"fmt"
	"time"

	"probul-backend/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Result describes the state of one fixed window after a hit was counted.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// Limiter counts hits per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// Rule is one admission policy applied to a group of routes.
type Rule struct {
	Name    string
	Limit   int
	Window  time.Duration
	Message string
}

var (
	GeneralRule = Rule{
		Name:    "api",
		Limit:   100,
		Window:  15 * time.Minute,
		Message: "Too many requests. Try again in 15 minutes.",
	}
	OTPRule = Rule{
		Name:    "otp",
		Limit:   3,
		Window:  time.Minute,
		Message: "Too many code requests. Wait 1 minute.",
	}
	LoginRule = Rule{
		Name:    "login",
		Limit:   10,
		Window:  15 * time.Minute,
		Message: "Too many login attempts. Try again in 15 minutes.",
	}
)

func newResult(count int64, limit int, ttl time.Duration) Result {
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:    count <= int64(limit),
		Limit:      limit,
		Remaining:  remaining,
		ResetAfter: ttl,
	}
}

// New returns a Redis backed limiter when REDIS_URL is configured and an
// in-process one otherwise. The returned close func releases the Redis client.
func New(ctx context.Context, config utils.RateLimitConfig, log *zap.Logger) (Limiter, func() error, error) {
	if config.RedisURL == "" {
		log.Info("Rate limiting with in-memory counters")
		return NewMemoryLimiter(), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info("Rate limiting with Redis counters", zap.String("addr", opts.Addr))
	return NewRedisLimiter(client, "probul:ratelimit:"), client.Close, nil
}

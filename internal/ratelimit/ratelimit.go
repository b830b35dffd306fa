package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const KeyPrefix = "ratelimit:"

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetIn is how long until the current window closes.
	ResetIn time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RedisLimiter is a fixed-window counter: INCR per request, EXPIRE set when
// the window opens.
type RedisLimiter struct {
	client redis.Cmdable
	max    int
	window time.Duration
}

func NewRedisLimiter(client redis.Cmdable, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := KeyPrefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return Decision{Allowed: true, Limit: l.max}, fmt.Errorf("rate limit %s: %w", key, err)
	}

	count := int(incr.Val())
	resetIn := ttl.Val()
	if resetIn < 0 {
		resetIn = l.window
	}
	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}

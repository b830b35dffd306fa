package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiterFailsOpenWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, 5, time.Minute)
	d, err := l.Allow(context.Background(), "login:10.0.0.1")
	require.Error(t, err)
	assert.True(t, d.Allowed, "an unreachable store must not block callers")
	assert.Equal(t, 5, d.Limit)
}

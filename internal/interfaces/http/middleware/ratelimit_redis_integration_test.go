//go:build integration

package middleware

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%d", host, port.Int())})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisRateLimiter(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	limiter := NewRedisRateLimiter(client, "sms", 2, time.Minute)

	for i := 0; i < 2; i++ {
		q, err := limiter.Take(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, q.Allowed)
		assert.Equal(t, 1-i, q.Remaining)
	}

	q, err := limiter.Take(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, q.Allowed)
	assert.Zero(t, q.Remaining)
	assert.InDelta(t, time.Minute.Seconds(), q.ResetIn.Seconds(), 5)

	other, err := limiter.Take(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed)

	ttl, err := client.PTTL(ctx, "ratelimit:sms:10.0.0.1").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
}

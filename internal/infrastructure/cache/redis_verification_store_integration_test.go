//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/verification"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) config.RedisConfig {
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

	return config.RedisConfig{Host: host, Port: port.Int()}
}

func TestRedisVerificationStore(t *testing.T) {
	cfg := startRedis(t)
	ctx := context.Background()

	store, client, err := NewVerificationStoreFactory(cfg, WithInMemoryFallback(false)).CreateStore(ctx)
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	now := time.Now().UTC()
	v := verification.NewPhoneVerification("+48123456789", "123456", 10*time.Minute, now)
	require.NoError(t, store.Save(ctx, v))

	got, err := store.Get(ctx, "+48123456789")
	require.NoError(t, err)
	assert.Equal(t, v.CodeHash, got.CodeHash)
	assert.True(t, v.ExpiresAt.Equal(got.ExpiresAt))

	ttl, err := client.TTL(ctx, defaultVerificationPrefix+"+48123456789").Result()
	require.NoError(t, err)
	assert.InDelta(t, (10 * time.Minute).Seconds(), ttl.Seconds(), 5)

	require.NoError(t, got.Check("123456", now, 5))
	require.NoError(t, store.Save(ctx, got))
	again, err := store.Get(ctx, "+48123456789")
	require.NoError(t, err)
	assert.True(t, again.Verified)

	require.NoError(t, store.Delete(ctx, "+48123456789"))
	_, err = store.Get(ctx, "+48123456789")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

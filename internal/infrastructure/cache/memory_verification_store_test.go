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
)

func TestInMemoryVerificationStore(t *testing.T) {
	store := NewInMemoryVerificationStore(time.Hour)
	defer store.Close()

	ctx := context.Background()
	now := time.Date(2030, 3, 13, 10, 0, 0, 0, time.UTC)

	v := verification.NewPhoneVerification("+48123456789", "123456", 10*time.Minute, now)
	require.NoError(t, store.Save(ctx, v))

	t.Run("get returns a copy", func(t *testing.T) {
		got, err := store.Get(ctx, "+48123456789")
		require.NoError(t, err)
		got.Attempts = 99

		again, err := store.Get(ctx, "+48123456789")
		require.NoError(t, err)
		assert.Equal(t, 0, again.Attempts)
	})

	t.Run("missing phone", func(t *testing.T) {
		_, err := store.Get(ctx, "+48000000000")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("purge expired", func(t *testing.T) {
		old := verification.NewPhoneVerification("+48999999999", "111111", time.Minute, now.Add(-time.Hour))
		require.NoError(t, store.Save(ctx, old))
		assert.Equal(t, 2, store.Len())

		n, err := store.PurgeExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "+48123456789"))
		assert.Equal(t, 0, store.Len())
	})
}

func TestInMemoryVerificationStore_CleanupLoop(t *testing.T) {
	store := newInMemoryVerificationStore(10*time.Millisecond, func() time.Time {
		return time.Date(2030, 3, 13, 12, 0, 0, 0, time.UTC)
	})

	expired := verification.NewPhoneVerification("+48123456789", "123456", time.Minute,
		time.Date(2030, 3, 13, 10, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(context.Background(), expired))

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestVerificationStoreFactory_Fallback(t *testing.T) {
	t.Run("no redis host falls back to memory", func(t *testing.T) {
		f := NewVerificationStoreFactory(config.RedisConfig{}, WithCleanupInterval(0))
		store, client, err := f.CreateStore(context.Background())
		require.NoError(t, err)
		assert.Nil(t, client)
		assert.IsType(t, &InMemoryVerificationStore{}, store)
	})

	t.Run("fallback disabled", func(t *testing.T) {
		f := NewVerificationStoreFactory(config.RedisConfig{}, WithInMemoryFallback(false))
		_, _, err := f.CreateStore(context.Background())
		assert.Error(t, err)
	})
}

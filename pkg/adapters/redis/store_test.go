package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/peek/pkg/adapters/redis"
	"github.com/aretw0/peek/pkg/domain"
	"github.com/aretw0/peek/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Contract(t *testing.T) {
	// Setup miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	store := redis.NewFromClient(client)
	ports.RunSettingsStoreContract(t, store)
}

func TestRedisStore_KeyLayout(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store := redis.New(mr.Addr(), "", 0, redis.WithPrefix("app:"))
	defer store.Close()

	require.NoError(t, store.SetEnabled(context.Background(), true))

	val, err := mr.Get("app:enabled")
	require.NoError(t, err)
	assert.Equal(t, "1", val)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, store.SetEnabled(ctx, true))
	enabled, err := store.Enabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	// Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	enabled, err = store.Enabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled, "an expired flag reads as disabled")
}

func TestRedisStore_InvalidValue(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	require.NoError(t, mr.Set(redis.DefaultPrefix+"enabled", "maybe"))

	store := redis.New(mr.Addr(), "", 0)
	defer store.Close()

	_, err = store.Enabled(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidSetting)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	store := redis.New(addr, "", 0)
	defer store.Close()

	_, err = store.Enabled(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore instance
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client, "booknclean")

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "cart", []byte(`[{"name":"Small Bag","quantity":2}]`)))

	// The value lands under the prefixed key with no TTL.
	got, err := mr.Get("booknclean:cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Small Bag","quantity":2}]`, got)
	assert.Zero(t, mr.TTL("booknclean:cart"))

	data, err := store.Load(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Small Bag","quantity":2}]`, string(data))
}

func TestRedisStore_LoadMissingKey(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := store.Load(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "cart", []byte(`[]`)))
	require.NoError(t, store.Delete(ctx, "cart"))

	_, err := store.Load(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_NoPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "")
	require.NoError(t, store.Save(context.Background(), "cart", []byte(`[]`)))

	got, err := mr.Get("cart")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)
}

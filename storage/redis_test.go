package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a Redis storage on top of it
func setupTestRedis(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedis(client, ttl), mr
}

func TestRedis(t *testing.T) {
	s, _ := setupTestRedis(t, 0)
	exerciseStorage(t, s)
}

func TestRedis_StoresRawValue(t *testing.T) {
	s, mr := setupTestRedis(t, 0)

	require.NoError(t, s.SetItem(context.Background(), "@GoMarketplace:products", "[]"))

	stored, err := mr.Get("@GoMarketplace:products")
	require.NoError(t, err)
	assert.Equal(t, "[]", stored)
	assert.Zero(t, mr.TTL("@GoMarketplace:products"))
}

func TestRedis_WithTTL(t *testing.T) {
	s, mr := setupTestRedis(t, time.Hour)

	require.NoError(t, s.SetItem(context.Background(), "k", "v"))
	assert.Equal(t, time.Hour, mr.TTL("k"))

	mr.FastForward(2 * time.Hour)
	_, ok, err := s.GetItem(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_ServerDown(t *testing.T) {
	s, mr := setupTestRedis(t, 0)
	mr.Close()

	_, _, err := s.GetItem(context.Background(), "k")
	require.ErrorContains(t, err, "redis get failed")
}

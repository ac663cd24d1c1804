package driver

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, redisPoolSize, client.Options().PoolSize)
	assert.Equal(t, redisMaxRetries, client.Options().MaxRetries)
}

func TestConnectRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := ConnectRedis(context.Background(), addr, "", 0)
	require.ErrorContains(t, err, "redis connection error")
}

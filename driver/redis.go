package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The cart issues one small GET at start-up and one SET per mutation from a
// single writer, so the pool is tiny and failures surface quickly on the Ack.
const (
	redisPoolSize        = 2
	redisMaxRetries      = 2
	redisMinRetryBackoff = 50 * time.Millisecond
	redisMaxRetryBackoff = 500 * time.Millisecond
	redisDialTimeout     = 2 * time.Second
	redisIOTimeout       = time.Second
	redisPingTimeout     = 3 * time.Second
)

// ConnectRedis builds a client sized for cart persistence and pings it
// before returning.
func ConnectRedis(ctx context.Context, addr string, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              db,
		PoolSize:        redisPoolSize,
		MaxRetries:      redisMaxRetries,
		MinRetryBackoff: redisMinRetryBackoff,
		MaxRetryBackoff: redisMaxRetryBackoff,
		DialTimeout:     redisDialTimeout,
		ReadTimeout:     redisIOTimeout,
		WriteTimeout:    redisIOTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection error: %w", err)
	}

	return client, nil
}

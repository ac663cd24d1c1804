package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Storage = (*Redis)(nil)

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis stores values with the given TTL. Zero keeps them forever.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
	}
}

func (r *Redis) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}

	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}

	return value, true, nil
}

func (r *Redis) SetItem(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *Redis) RemoveItem(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *Redis) Close(context.Context) error {
	return r.client.Close()
}

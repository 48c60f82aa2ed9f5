package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// Redis implements Store against a remote Redis instance, used when the
// shopper's cart lives in a shared profile store instead of the local
// device. All calls go through a circuit breaker so a dead Redis fails
// fast instead of stalling every store operation.
type Redis struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// NewRedis creates a Redis-backed store on an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name: "redis-storage",
			// A missing key is a normal read outcome, not a Redis failure.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrNotFound)
			},
		}),
	}
}

func (r *Redis) Read(ctx context.Context, key string) ([]byte, error) {
	return r.breaker.Execute(func() ([]byte, error) {
		data, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("redis get failed: %w", err)
		}
		return data, nil
	})
}

func (r *Redis) Write(ctx context.Context, key string, value []byte) error {
	_, err := r.breaker.Execute(func() ([]byte, error) {
		if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
			return nil, fmt.Errorf("redis set failed: %w", err)
		}
		return nil, nil
	})
	return err
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	_, err := r.breaker.Execute(func() ([]byte, error) {
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return nil, fmt.Errorf("redis delete failed: %w", err)
		}
		return nil, nil
	})
	return err
}

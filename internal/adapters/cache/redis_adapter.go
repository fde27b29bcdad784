package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/heritagecrafts/platform/backend/internal/domain/providers"
	redisclient "github.com/heritagecrafts/platform/backend/internal/infrastructure/clients/redis"
)

// RedisAdapter backs the CacheProvider port with Redis.
type RedisAdapter struct {
	rdb *redis.Client
}

func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{rdb: client.Client()}
}

func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := a.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("cache miss: %s", key)
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return value, nil
}

func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	ttl := time.Duration(expirationSeconds) * time.Second
	if err := a.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	n, err := a.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists %s: %w", key, err)
	}
	return n > 0, nil
}

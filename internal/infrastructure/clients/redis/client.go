package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/heritagecrafts/platform/backend/pkg/config"
)

const dialCheckTimeout = 3 * time.Second

// Client wraps the go-redis client with a verified connection.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis and pings once before handing the client out.
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialCheckTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect %s: %w", cfg.RedisAddr(), err)
	}

	return &Client{rdb: rdb}, nil
}

// Client returns the underlying go-redis client.
func (c *Client) Client() *redis.Client {
	return c.rdb
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

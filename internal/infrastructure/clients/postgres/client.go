package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/heritagecrafts/platform/backend/internal/infrastructure/observability"
	"github.com/heritagecrafts/platform/backend/pkg/config"
	"github.com/heritagecrafts/platform/backend/pkg/retry"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Client wraps a pooled database/sql connection to PostgreSQL.
type Client struct {
	db *sql.DB
}

// NewClient opens the pool and pings with exponential backoff until the
// database answers or the retry budget runs out.
func NewClient(cfg *config.DatabaseConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	logger := observability.GetLogger()
	err = retry.DoWithLog(
		context.Background(),
		retry.DefaultConfig(),
		"postgres",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
			defer cancel()
			return db.PingContext(ctx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			logger.Warn().
				Int("attempt", attempt).
				Dur("next_delay", nextDelay).
				Err(err).
				Msg("postgres connection failed, retrying")
		},
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &Client{db: db}, nil
}

// NewClientWithDB wraps an existing connection, used by adapter tests
// to inject a mock database.
func NewClientWithDB(db *sql.DB) *Client {
	return &Client{db: db}
}

// DB returns the underlying connection pool.
func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Client) Close() error {
	return c.db.Close()
}

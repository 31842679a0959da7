package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// Approval and allocation paths hold row locks on promoters, so the pool
	// stays small to keep lock wait chains short.
	dbMaxConns        = 16
	dbMinConns        = 2
	dbMaxConnIdleTime = 5 * time.Minute
	dbConnectTimeout  = 5 * time.Second
)

// NewPostgresPool configures and returns a PostgreSQL connection pool.
// Pool parameters in the URL (pool_max_conns etc) take precedence.
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("database url is required")
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if !strings.Contains(url, "pool_max_conns") {
		cfg.MaxConns = dbMaxConns
	}
	if !strings.Contains(url, "pool_min_conns") {
		cfg.MinConns = dbMinConns
	}
	if !strings.Contains(url, "pool_max_conn_idle_time") {
		cfg.MaxConnIdleTime = dbMaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

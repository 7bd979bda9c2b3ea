package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connection lifecycle defaults. API queries here are short-lived row
// lookups, so idle connections are recycled aggressively and every
// connection is rotated before proxies start dropping it.
const (
	defaultMaxConns    = 10
	maxConnIdleTime    = 5 * time.Minute
	maxConnLifetime    = 30 * time.Minute
	healthCheckPeriod  = time.Minute
	connectAttemptWait = 5 * time.Second
)

// NewPool opens a pgx connection pool against databaseURL and verifies it
// with a ping before returning. maxConns and minConns override the pool
// bounds when positive; otherwise the defaults above apply.
func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if maxConns > 0 {
		cfg.MaxConns = maxConns
	} else {
		cfg.MaxConns = defaultMaxConns
	}
	if minConns > 0 {
		cfg.MinConns = minConns
	}
	cfg.MaxConnIdleTime = maxConnIdleTime
	cfg.MaxConnLifetime = maxConnLifetime
	cfg.HealthCheckPeriod = healthCheckPeriod
	cfg.ConnConfig.ConnectTimeout = connectAttemptWait

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

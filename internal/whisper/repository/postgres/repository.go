// Package postgres stores whisper messages, profiles and the indexer checkpoint in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CheckpointKey is the indexer_state key holding the last processed height.
const CheckpointKey = "last_processed_block"

type Repository struct {
	conn    Conn
	metrics Metrics
	close   func()
}

// NewRepository opens a connection pool for dsn and verifies it with a ping.
func NewRepository(ctx context.Context, dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	if metrics == nil {
		return nil, errors.New("postgres metrics is required")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Repository{conn: pool, metrics: metrics, close: pool.Close}, nil
}

// Close releases the connection pool.
func (r *Repository) Close() {
	if r.close != nil {
		r.close()
	}
}

// Ping checks that the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("ping", err, start)
	}()

	if err = r.conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

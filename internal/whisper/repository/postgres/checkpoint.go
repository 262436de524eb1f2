package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
)

const checkpointQuery = `SELECT value FROM indexer_state WHERE key = $1`

const setCheckpointQuery = `
INSERT INTO indexer_state (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET
	value = EXCLUDED.value,
	updated_at = EXCLUDED.updated_at`

// Checkpoint returns the last processed height. found is false when none was stored.
func (r *Repository) Checkpoint(ctx context.Context) (height uint64, found bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("checkpoint", err, start)
	}()

	var value string
	if err = r.conn.QueryRow(ctx, checkpointQuery, CheckpointKey).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("query checkpoint: %w", err)
	}

	height, err = strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse checkpoint %q: %w", value, err)
	}
	return height, true, nil
}

// SetCheckpoint replaces the stored checkpoint with height.
func (r *Repository) SetCheckpoint(ctx context.Context, height uint64) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("set_checkpoint", err, start)
	}()

	if _, err = r.conn.Exec(ctx, setCheckpointQuery, CheckpointKey, strconv.FormatUint(height, 10)); err != nil {
		return fmt.Errorf("set checkpoint %d: %w", height, err)
	}
	return nil
}

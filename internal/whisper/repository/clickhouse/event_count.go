package clickhouse

import (
	"context"
	"fmt"
	"time"
)

func eventCountQuery() string {
	return `
SELECT count()
FROM whisper_events FINAL
WHERE contract = ?`
}

// EventCount returns the number of distinct archived events of contract.
func (r *Repository) EventCount(ctx context.Context, contract string) (uint64, error) {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("event_count", err, start)
	}()

	row := r.conn.QueryRow(ctx, eventCountQuery(), contract)
	if err = row.Err(); err != nil {
		return 0, fmt.Errorf("query event count: %w", err)
	}

	var count uint64
	if err = row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan event count: %w", err)
	}
	return count, nil
}

package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
)

func insertEventsQuery() string {
	return `
INSERT INTO whisper_events (
	contract,
	block_height,
	block_timestamp,
	tx_hash,
	event_type,
	version,
	account,
	counterparty,
	payload
) VALUES`
}

// InsertEvents appends archived event rows. Duplicates collapse on merge.
func (r *Repository) InsertEvents(ctx context.Context, records []model.EventRecord) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_events", err, start)
	}()

	if len(records) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertEventsQuery())
	if err != nil {
		return fmt.Errorf("prepare events batch: %w", err)
	}

	for _, rec := range records {
		if err = batch.Append(eventRow(rec)...); err != nil {
			return fmt.Errorf("append event %s/%s: %w", rec.TxHash, rec.EventType, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}
	return nil
}

func eventRow(rec model.EventRecord) []any {
	return []any{
		rec.ExecutorID,
		rec.BlockHeight,
		rec.BlockTimestamp.UTC(),
		rec.TxHash,
		string(rec.EventType),
		rec.Version,
		rec.Account,
		rec.Counterparty,
		rec.Payload,
	}
}

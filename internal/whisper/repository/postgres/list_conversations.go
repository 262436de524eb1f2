package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
	"github.com/goodnatureofminers/whisper-indexer/pkg/safe"
)

const listConversationsQuery = `
SELECT
	counterparty,
	max(block_timestamp) AS last_timestamp,
	max(block_height) AS last_height,
	count(*) AS message_count
FROM (
	SELECT
		CASE WHEN sender = $1 THEN recipient ELSE sender END AS counterparty,
		block_timestamp,
		block_height
	FROM messages
	WHERE sender = $1 OR recipient = $1
) AS exchanged
GROUP BY counterparty
ORDER BY last_timestamp DESC, counterparty
LIMIT $2`

// ListConversations returns the counterparties of account ordered by latest activity.
func (r *Repository) ListConversations(ctx context.Context, account string, limit int) (out []model.Conversation, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("list_conversations", err, start)
	}()

	rows, err := r.conn.Query(ctx, listConversationsQuery, account, model.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c                    model.Conversation
			lastTS, lastH, count int64
		)
		if err = rows.Scan(&c.Counterparty, &lastTS, &lastH, &count); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		if c.LastTimestamp, err = safe.Uint64(lastTS); err != nil {
			return nil, fmt.Errorf("convert last timestamp: %w", err)
		}
		if c.LastHeight, err = safe.Uint64(lastH); err != nil {
			return nil, fmt.Errorf("convert last height: %w", err)
		}
		if c.MessageCount, err = safe.Uint64(count); err != nil {
			return nil, fmt.Errorf("convert message count: %w", err)
		}
		out = append(out, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	return out, nil
}

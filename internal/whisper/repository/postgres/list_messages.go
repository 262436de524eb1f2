package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
	"github.com/goodnatureofminers/whisper-indexer/pkg/safe"
)

const listMessagesQuery = `
SELECT
	id,
	tx_hash,
	block_height,
	block_timestamp,
	event_type,
	sender,
	recipient,
	encrypted_body,
	nonce,
	recipient_key_version,
	reply_to,
	amount
FROM messages
WHERE ((sender = $1 AND recipient = $2) OR (sender = $2 AND recipient = $1))
	AND ($3::boolean OR (block_timestamp, id) < ($4::bigint, $5::bigint))
ORDER BY block_timestamp DESC, id DESC
LIMIT $6`

// ListMessages returns messages between q.AccountA and q.AccountB, newest first.
func (r *Repository) ListMessages(ctx context.Context, q model.MessageQuery) (page model.MessagePage, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("list_messages", err, start)
	}()

	limit := model.ClampLimit(q.Limit)
	var afterTS, afterID int64
	if q.After != nil {
		if afterTS, err = safe.Int64(q.After.Timestamp); err != nil {
			return page, fmt.Errorf("convert cursor timestamp: %w", err)
		}
		afterID = q.After.ID
	}

	rows, err := r.conn.Query(ctx, listMessagesQuery,
		q.AccountA,
		q.AccountB,
		q.After == nil,
		afterTS,
		afterID,
		limit+1,
	)
	if err != nil {
		return page, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]model.Message, 0, limit+1)
	for rows.Next() {
		var (
			m          model.Message
			height, ts int64
			eventType  string
			keyVersion int32
		)
		if err = rows.Scan(
			&m.ID,
			&m.TxHash,
			&height,
			&ts,
			&eventType,
			&m.Sender,
			&m.Recipient,
			&m.EncryptedBody,
			&m.Nonce,
			&keyVersion,
			&m.ReplyTo,
			&m.Amount,
		); err != nil {
			return page, fmt.Errorf("scan message: %w", err)
		}
		if m.BlockHeight, err = safe.Uint64(height); err != nil {
			return page, fmt.Errorf("convert block height: %w", err)
		}
		if m.Timestamp, err = safe.Uint64(ts); err != nil {
			return page, fmt.Errorf("convert block timestamp: %w", err)
		}
		if m.RecipientKeyVersion, err = safe.Uint32(keyVersion); err != nil {
			return page, fmt.Errorf("convert recipient key version: %w", err)
		}
		m.EventType = model.EventType(eventType)
		messages = append(messages, m)
	}
	if err = rows.Err(); err != nil {
		return page, fmt.Errorf("iterate messages: %w", err)
	}

	if len(messages) > limit {
		messages = messages[:limit]
		page.Next = model.CursorAfter(messages[limit-1])
	}
	page.Messages = messages
	return page, nil
}

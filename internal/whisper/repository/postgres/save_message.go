package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
	"github.com/goodnatureofminers/whisper-indexer/pkg/safe"
)

const saveMessageQuery = `
INSERT INTO messages (
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
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (tx_hash, event_type, sender, recipient) DO NOTHING`

// SaveMessage inserts m. A row with the same natural key is left untouched.
func (r *Repository) SaveMessage(ctx context.Context, m model.Message) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("save_message", err, start)
	}()

	height, err := safe.Int64(m.BlockHeight)
	if err != nil {
		return fmt.Errorf("convert block height: %w", err)
	}
	ts, err := safe.Int64(m.Timestamp)
	if err != nil {
		return fmt.Errorf("convert block timestamp: %w", err)
	}
	keyVersion, err := safe.Int32(m.RecipientKeyVersion)
	if err != nil {
		return fmt.Errorf("convert recipient key version: %w", err)
	}

	if _, err = r.conn.Exec(ctx, saveMessageQuery,
		m.TxHash,
		height,
		ts,
		string(m.EventType),
		m.Sender,
		m.Recipient,
		m.EncryptedBody,
		m.Nonce,
		keyVersion,
		m.ReplyTo,
		m.Amount,
	); err != nil {
		return fmt.Errorf("insert message %s: %w", m.TxHash, err)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
	"github.com/goodnatureofminers/whisper-indexer/pkg/safe"
)

// registered_at is written on first insert only.
const saveProfileQuery = `
INSERT INTO profiles (
	account_id,
	public_key,
	key_version,
	display_name,
	registered_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (account_id) DO UPDATE SET
	public_key = EXCLUDED.public_key,
	key_version = EXCLUDED.key_version,
	display_name = EXCLUDED.display_name,
	updated_at = EXCLUDED.updated_at`

// SaveProfile upserts p, preserving the registration timestamp of an existing profile.
func (r *Repository) SaveProfile(ctx context.Context, p model.Profile) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("save_profile", err, start)
	}()

	keyVersion, err := safe.Int32(p.KeyVersion)
	if err != nil {
		return fmt.Errorf("convert key version: %w", err)
	}
	registeredAt, err := safe.Int64(p.RegisteredAt)
	if err != nil {
		return fmt.Errorf("convert registered_at: %w", err)
	}
	updatedAt, err := safe.Int64(p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("convert updated_at: %w", err)
	}

	if _, err = r.conn.Exec(ctx, saveProfileQuery,
		p.AccountID,
		p.PublicKey,
		keyVersion,
		p.DisplayName,
		registeredAt,
		updatedAt,
	); err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.AccountID, err)
	}
	return nil
}

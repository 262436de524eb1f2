package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/goodnatureofminers/whisper-indexer/internal/whisper/model"
	"github.com/goodnatureofminers/whisper-indexer/pkg/safe"
)

const profileColumns = `account_id, public_key, key_version, display_name, registered_at, updated_at`

const profileQuery = `SELECT ` + profileColumns + ` FROM profiles WHERE account_id = $1`

const searchProfilesQuery = `
SELECT ` + profileColumns + `
FROM profiles
WHERE account_id LIKE $1 ESCAPE '\'
ORDER BY account_id
LIMIT $2`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Profile returns the profile of account. found is false when the account never registered.
func (r *Repository) Profile(ctx context.Context, account string) (p model.Profile, found bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("profile", err, start)
	}()

	p, err = scanProfile(r.conn.QueryRow(ctx, profileQuery, account))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
			return model.Profile{}, false, nil
		}
		return model.Profile{}, false, fmt.Errorf("query profile %s: %w", account, err)
	}
	return p, true, nil
}

// SearchProfiles returns profiles whose account id starts with prefix.
func (r *Repository) SearchProfiles(ctx context.Context, prefix string, limit int) (out []model.Profile, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("search_profiles", err, start)
	}()

	rows, err := r.conn.Query(ctx, searchProfilesQuery, likeEscaper.Replace(prefix)+"%", model.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, scanErr := scanProfile(rows)
		if scanErr != nil {
			err = scanErr
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return out, nil
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var (
		p                       model.Profile
		keyVersion              int32
		registeredAt, updatedAt int64
	)
	if err := row.Scan(&p.AccountID, &p.PublicKey, &keyVersion, &p.DisplayName, &registeredAt, &updatedAt); err != nil {
		return model.Profile{}, err
	}

	var err error
	if p.KeyVersion, err = safe.Uint32(keyVersion); err != nil {
		return model.Profile{}, fmt.Errorf("convert key version: %w", err)
	}
	if p.RegisteredAt, err = safe.Uint64(registeredAt); err != nil {
		return model.Profile{}, fmt.Errorf("convert registered_at: %w", err)
	}
	if p.UpdatedAt, err = safe.Uint64(updatedAt); err != nil {
		return model.Profile{}, fmt.Errorf("convert updated_at: %w", err)
	}
	return p, nil
}

package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGOverrideStore keeps configuration overrides in Postgres, keyed by
// dotted path. Writes are upserts; concurrent readers never block
// writers.
type PGOverrideStore struct {
	pool *pgxpool.Pool
}

// NewPGOverrideStore creates a Postgres-backed override store.
func NewPGOverrideStore(pool *pgxpool.Pool) *PGOverrideStore {
	return &PGOverrideStore{pool: pool}
}

func (s *PGOverrideStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM extraction_setting WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read override %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PGOverrideStore) Set(ctx context.Context, key, value string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO extraction_setting (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()`, key, value)
	if err != nil {
		return fmt.Errorf("write override %s: %w", key, err)
	}
	return nil
}

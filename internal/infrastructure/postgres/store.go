package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopeasy/shopeasy-engine/internal/domain/repository"
)

// Store persists engine records as jsonb rows in store_records, one row per
// namespaced key.
type Store struct {
	pool      *pgxpool.Pool
	namespace string
}

func NewStore(pool *pgxpool.Pool, namespace string) *Store {
	return &Store{pool: pool, namespace: namespace}
}

func (s *Store) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

func (s *Store) Get(ctx context.Context, key string, dest any) (bool, error) {
	var b []byte
	row := s.pool.QueryRow(ctx, `
		SELECT value
		FROM store_records
		WHERE key = $1
	`, s.key(key))
	if err := row.Scan(&b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Set(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO store_records (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, s.key(key), b, time.Now().UTC())
	return err
}

func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM store_records WHERE key = $1`, s.key(key))
	return err
}

var _ repository.Store = (*Store)(nil)

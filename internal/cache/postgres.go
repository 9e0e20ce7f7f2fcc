package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	category   TEXT NOT NULL DEFAULT 'general',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	expires_at TIMESTAMPTZ NOT NULL,
	hit_count  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_expires ON cache_entries (expires_at);
CREATE INDEX IF NOT EXISTS idx_cache_entries_category ON cache_entries (category);
`

// PostgresStore is the durable backup tier. Entries survive restarts and are
// shared between instances.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore connects to the database and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting cache store: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &PostgresStore{db: pool}, nil
}

// Load returns the value for key when present and not expired. Hit counts
// are updated in place.
func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	query := `
		UPDATE cache_entries
		SET hit_count = hit_count + 1
		WHERE key = $1 AND expires_at > NOW()
		RETURNING value
	`
	var value []byte
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Save upserts an entry.
func (s *PostgresStore) Save(ctx context.Context, key string, value []byte, category Category, expiresAt time.Time) error {
	query := `
		INSERT INTO cache_entries (key, value, category, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET value = $2, category = $3, created_at = NOW(), expires_at = $4, hit_count = 0
	`
	_, err := s.db.Exec(ctx, query, key, value, string(category), expiresAt)
	return err
}

// DeleteExpired removes dead entries and returns how many were dropped.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM cache_entries WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}

package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store backed by a single key/value table on a pgx pool, for
// deployments where snapshots should live on a shared database server.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates the documents table if needed and returns the store.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS documents (
		key  TEXT PRIMARY KEY,
		blob BYTEA NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Get returns the blob stored under key.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var blob []byte
	err := p.pool.QueryRow(ctx, `SELECT blob FROM documents WHERE key = $1`, key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get document %q: %w", key, err)
	}
	return blob, true, nil
}

// Set stores blob under key, replacing any previous value.
func (p *Postgres) Set(ctx context.Context, key string, blob []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO documents (key, blob) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET blob = EXCLUDED.blob`, key, blob)
	if err != nil {
		return fmt.Errorf("set document %q: %w", key, err)
	}
	return nil
}

// Remove deletes the key.
func (p *Postgres) Remove(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM documents WHERE key = $1`, key); err != nil {
		return fmt.Errorf("remove document %q: %w", key, err)
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const storageSchema = `CREATE TABLE IF NOT EXISTS storefront_storage (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (namespace, key)
)`

// Postgres is a Storage backed by a single PostgreSQL table
type Postgres struct {
	db        *sqlx.DB
	namespace string
}

// NewPostgres creates a PostgreSQL store
func NewPostgres(db *sqlx.DB, namespace string) *Postgres {
	return &Postgres{db: db, namespace: namespace}
}

// EnsureSchema creates the storage table if needed
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, storageSchema); err != nil {
		return fmt.Errorf("failed to create storage table: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM storefront_storage WHERE namespace = $1 AND key = $2`

	err := p.db.GetContext(ctx, &value, query, p.namespace, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO storefront_storage (namespace, key, value, updated_at)
			  VALUES ($1, $2, $3, NOW())
			  ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := p.db.ExecContext(ctx, query, p.namespace, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query := `DELETE FROM storefront_storage WHERE namespace = $1 AND key = ANY($2)`

	if _, err := p.db.ExecContext(ctx, query, p.namespace, pq.Array(keys)); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// Health pings the database
func (p *Postgres) Health(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the database handle
func (p *Postgres) Close() error {
	return p.db.Close()
}

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ekrishihub/storefront/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB is a PostgreSQL handle
type DB struct {
	*sqlx.DB
}

// NewPostgresDB opens a PostgreSQL connection. Only a handful of credential
// keys live here, so the pool is kept small.
func NewPostgresDB(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	db, err := sqlx.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := ping(ctx, "postgres", db.PingContext, db.Close); err != nil {
		return nil, err
	}
	return &DB{DB: db}, nil
}

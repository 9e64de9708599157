// Package storage provides the durable key-value store the credential store
// persists to. Values survive a process restart for every driver but memory.
package storage

import (
	"context"
	"fmt"

	"github.com/ekrishihub/storefront/internal/config"
	"github.com/ekrishihub/storefront/internal/database"
	"go.uber.org/zap"
)

// Storage is a string key-value store
type Storage interface {
	// Get returns the value for key and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes keys; missing keys are not an error
	Delete(ctx context.Context, keys ...string) error
}

// Closer is implemented by drivers holding a connection
type Closer interface {
	Close() error
}

// Pinger is implemented by drivers that can report reachability
type Pinger interface {
	Health(ctx context.Context) error
}

// Open builds the storage driver selected by cfg
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage, sessions will not survive a restart")
		return NewMemory(), nil

	case config.StorageFile:
		store, err := NewFile(cfg.Storage.FilePath, cfg.Storage.FileKey)
		if err != nil {
			return nil, err
		}
		logger.Info("Using file storage",
			zap.String("path", cfg.Storage.FilePath),
			zap.Bool("sealed", cfg.Storage.FileKey != ""),
		)
		return store, nil

	case config.StorageRedis:
		client, err := database.NewRedisClient(ctx, cfg.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to Redis storage")
		return NewRedis(client.Client, cfg.Storage.Namespace), nil

	case config.StoragePostgres:
		db, err := database.NewPostgresDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		store := NewPostgres(db.DB, cfg.Storage.Namespace)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("Connected to PostgreSQL storage")
		return store, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

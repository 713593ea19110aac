// Package storage persists the progress snapshot as a single blob under one well-known key.
package storage

import (
	"context"
	"errors"
	"fmt"

	"roadmap/backend/config"
	"roadmap/backend/utils"

	"go.uber.org/zap"
)

// ErrNotFound is returned by Load when nothing has been saved under the adapter's key.
var ErrNotFound = errors.New("progress snapshot not found")

// Adapter is a durable key/value slot holding the encoded progress snapshot.
type Adapter interface {
	// Load returns the stored blob, or ErrNotFound when the key is absent.
	Load(ctx context.Context) ([]byte, error)
	// Save overwrites the stored blob.
	Save(ctx context.Context, blob []byte) error
	Close() error
}

// Open builds the adapter selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Adapter, error) {
	logger = logger.With(zap.String("driver", cfg.StorageDriver), zap.String("key", cfg.StorageKey))

	switch cfg.StorageDriver {
	case "memory":
		logger.Warn("Using in-memory storage, progress will not survive restarts")
		return NewMemoryAdapter(), nil
	case "file":
		logger.Info("Using file storage", zap.String("path", cfg.StoragePath))
		return NewFileAdapter(cfg.StoragePath, cfg.StorageKey, logger), nil
	case "sqlite":
		logger.Info("Using sqlite storage", zap.String("path", cfg.StoragePath))
		return NewSQLiteAdapter(ctx, cfg.StoragePath, cfg.StorageKey)
	case "postgres":
		logger.Info("Using postgres storage", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
		db, err := utils.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		return NewGormAdapter(ctx, db, cfg.StorageKey)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

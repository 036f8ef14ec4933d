package storage

import (
	"context"
	"fmt"

	"github.com/jonathan/jobfit-kit/internal/config"
	"go.uber.org/zap"
)

// Record names of the two persisted documents
const (
	ProfileRecord = "jobFit_profile"
	HistoryRecord = "jobFit_history"
)

// DefaultWorkspace is the workspace whose keys carry no prefix
const DefaultWorkspace = "default"

// Backend is a named-record store. Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the stored bytes or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the record. Oversized writes fail with *StorageQuotaError.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Key returns the backend key of a record within a workspace
func Key(workspace, record string) string {
	if workspace == "" || workspace == DefaultWorkspace {
		return record
	}
	return workspace + ":" + record
}

func checkQuota(key string, value []byte, limit int) error {
	if limit > 0 && len(value) > limit {
		return &StorageQuotaError{Key: key, Size: len(value), Limit: limit}
	}
	return nil
}

// Open builds the backend selected by cfg.Storage
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Backend, error) {
	limit := cfg.MaxRecordBytes
	switch cfg.Storage {
	case config.StorageMemory:
		return NewMemoryBackend(limit), nil
	case "", config.StorageFile:
		return NewFileBackend(cfg.DataDir, limit)
	case config.StoragePostgres:
		b, err := NewPostgresBackend(ctx, cfg.DatabaseURL, limit)
		if err != nil {
			return nil, err
		}
		if err := b.EnsureSchema(ctx); err != nil {
			b.Close()
			return nil, err
		}
		return b, nil
	case config.StorageRedis:
		return NewRedisBackend(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, limit, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

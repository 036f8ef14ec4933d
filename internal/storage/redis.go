package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisOptions selects the Redis server
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisBackend stores each record as a plain Redis string
type RedisBackend struct {
	client *redis.Client
	limit  int
	logger *zap.Logger
}

// NewRedisBackend connects and pings the server
func NewRedisBackend(ctx context.Context, opts RedisOptions, limit int, logger *zap.Logger) (*RedisBackend, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisBackendFromClient(rdb, limit, logger), nil
}

// NewRedisBackendFromClient wraps an existing client
func NewRedisBackendFromClient(client *redis.Client, limit int, logger *zap.Logger) *RedisBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBackend{client: client, limit: limit, logger: logger}
}

func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", key, err)
	}
	return value, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := checkQuota(key, value, r.limit); err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		// maxmemory rejections surface as "OOM command not allowed ..."
		if strings.HasPrefix(err.Error(), "OOM") {
			r.logger.Warn("redis rejected write", zap.String("key", key), zap.Error(err))
			return &StorageQuotaError{Key: key, Size: len(value), Limit: r.limit, Message: "redis out of memory", Cause: err}
		}
		return fmt.Errorf("failed to set record %s: %w", key, err)
	}
	return nil
}

func (r *RedisBackend) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

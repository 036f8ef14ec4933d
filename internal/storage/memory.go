package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps records in a map. Contents are lost on exit.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string][]byte
	limit   int
}

// NewMemoryBackend returns an empty backend. limit <= 0 disables the quota.
func NewMemoryBackend(limit int) *MemoryBackend {
	return &MemoryBackend{records: make(map[string][]byte), limit: limit}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	if err := checkQuota(key, value, m.limit); err != nil {
		return err
	}
	m.mu.Lock()
	m.records[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBackend) Close() error { return nil }

package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jonathan/jobfit-kit/internal/metrics"
	"github.com/jonathan/jobfit-kit/internal/types"
	"go.uber.org/zap"
)

// ProfileStore loads and saves the single profile record of a workspace.
// Persistence failures never reach callers; the caller's copy stays authoritative.
type ProfileStore struct {
	backend Backend
	key     string
	logger  *zap.Logger
}

// NewProfileStore returns a store for the workspace's profile record
func NewProfileStore(backend Backend, workspace string, logger *zap.Logger) *ProfileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := Key(workspace, ProfileRecord)
	return &ProfileStore{backend: backend, key: key, logger: logger.With(zap.String("record", key))}
}

// Load returns the saved profile, or the zero profile when the record is
// absent or unreadable.
func (s *ProfileStore) Load(ctx context.Context) types.UserProfile {
	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return types.UserProfile{}
	}
	if err != nil {
		s.logger.Warn("failed to read profile, starting empty", zap.Error(err))
		return types.UserProfile{}
	}

	var profile types.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		s.logger.Warn("corrupt profile record, starting empty", zap.Error(err))
		return types.UserProfile{}
	}
	profile.Analysis.Normalize()
	return profile
}

// Save writes the full profile. A quota rejection is retried once with the
// binary resume payload stripped; if that fails too the write is dropped.
func (s *ProfileStore) Save(ctx context.Context, profile types.UserProfile) {
	err := s.write(ctx, profile)
	if err == nil {
		return
	}
	if !IsQuotaError(err) || !profile.HasFileData() {
		s.drop(err)
		return
	}

	s.logger.Warn("profile exceeds storage quota, saving without file data", zap.Error(err))
	metrics.StorageQuotaFallbacks.WithLabelValues(ProfileRecord).Inc()
	if err := s.write(ctx, profile.WithoutFileData()); err != nil {
		s.drop(err)
	}
}

func (s *ProfileStore) write(ctx context.Context, profile types.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, s.key, data)
}

func (s *ProfileStore) drop(err error) {
	s.logger.Error("profile write dropped", zap.Error(err))
	metrics.StorageDroppedWrites.WithLabelValues(ProfileRecord).Inc()
}

package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jonathan/jobfit-kit/internal/metrics"
	"github.com/jonathan/jobfit-kit/internal/types"
	"go.uber.org/zap"
)

// History is the analysis log, newest first
type History []types.ApplicationAnalysis

// Append returns a new history with a at the front. h is not modified.
func (h History) Append(a types.ApplicationAnalysis) History {
	out := make(History, 0, len(h)+1)
	out = append(out, a)
	return append(out, h...)
}

// Find returns the entry with the given id
func (h History) Find(id string) (*types.ApplicationAnalysis, bool) {
	for i := range h {
		if h[i].ID == id {
			return &h[i], true
		}
	}
	return nil, false
}

// AttachOptimization returns a copy with opt attached to the entry with the
// given id. The boolean is false when no entry matches.
func (h History) AttachOptimization(id string, opt *types.ResumeOptimization) (History, bool) {
	out := make(History, len(h))
	copy(out, h)
	for i := range out {
		if out[i].ID == id {
			out[i].Optimization = opt.Clone()
			return out, true
		}
	}
	return out, false
}

// ClearHistory returns the empty history
func ClearHistory() History {
	return History{}
}

// HistoryStore loads and saves the history record of a workspace
type HistoryStore struct {
	backend Backend
	key     string
	logger  *zap.Logger
}

// NewHistoryStore returns a store for the workspace's history record
func NewHistoryStore(backend Backend, workspace string, logger *zap.Logger) *HistoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := Key(workspace, HistoryRecord)
	return &HistoryStore{backend: backend, key: key, logger: logger.With(zap.String("record", key))}
}

// Load returns the saved history, or an empty one when the record is absent or unreadable
func (s *HistoryStore) Load(ctx context.Context) History {
	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return History{}
	}
	if err != nil {
		s.logger.Warn("failed to read history, starting empty", zap.Error(err))
		return History{}
	}

	var history History
	if err := json.Unmarshal(data, &history); err != nil {
		s.logger.Warn("corrupt history record, starting empty", zap.Error(err))
		return History{}
	}
	if history == nil {
		history = History{}
	}
	for i := range history {
		history[i].Normalize()
	}
	return history
}

// Save persists the full sequence. Failures are logged and the write dropped.
func (s *HistoryStore) Save(ctx context.Context, history History) {
	if history == nil {
		history = History{}
	}
	data, err := json.Marshal(history)
	if err == nil {
		err = s.backend.Set(ctx, s.key, data)
	}
	if err == nil {
		return
	}
	if IsQuotaError(err) {
		s.logger.Warn("history exceeds storage quota, write dropped", zap.Int("entries", len(history)), zap.Error(err))
	} else {
		s.logger.Error("history write dropped", zap.Error(err))
	}
	metrics.StorageDroppedWrites.WithLabelValues(HistoryRecord).Inc()
}

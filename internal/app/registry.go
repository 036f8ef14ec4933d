package app

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/jobfit-kit/internal/storage"
	"go.uber.org/zap"
)

// Registry lazily creates one App per workspace on a shared backend
type Registry struct {
	backend   storage.Backend
	gateway   Gateway
	logger    *zap.Logger
	aiTimeout time.Duration

	mu   sync.Mutex
	apps map[string]*App
}

// NewRegistry creates a registry. Every App it creates talks to gateway.
func NewRegistry(backend storage.Backend, gateway Gateway, aiTimeout time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		backend:   backend,
		gateway:   gateway,
		logger:    logger,
		aiTimeout: aiTimeout,
		apps:      make(map[string]*App),
	}
}

// Get returns the App of workspace, loading it from the backend on first use.
// An empty workspace is the default one.
func (r *Registry) Get(ctx context.Context, workspace string) *App {
	if workspace == "" {
		workspace = storage.DefaultWorkspace
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.apps[workspace]; ok {
		return a
	}
	logger := r.logger.With(zap.String("workspace", workspace))
	a := New(ctx, Options{
		Gateway:   r.gateway,
		Profiles:  storage.NewProfileStore(r.backend, workspace, logger),
		History:   storage.NewHistoryStore(r.backend, workspace, logger),
		Logger:    logger,
		AITimeout: r.aiTimeout,
	})
	r.apps[workspace] = a
	logger.Info("workspace opened")
	return a
}

// Workspaces returns the ids of the workspaces opened so far
func (r *Registry) Workspaces() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.apps))
	for id := range r.apps {
		ids = append(ids, id)
	}
	return ids
}

// Package app is the view controller: it owns the profile, the history, the
// live analysis session and the current view, and is the only place they change.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobfit-kit/internal/gateway"
	"github.com/jonathan/jobfit-kit/internal/ingestion"
	"github.com/jonathan/jobfit-kit/internal/metrics"
	"github.com/jonathan/jobfit-kit/internal/rendering"
	"github.com/jonathan/jobfit-kit/internal/storage"
	"github.com/jonathan/jobfit-kit/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// DefaultAITimeout bounds one AI call
const DefaultAITimeout = 2 * time.Minute

// Gateway is the AI boundary. *gateway.Gateway implements it.
type Gateway interface {
	ExtractResume(ctx context.Context, profile types.UserProfile) (*types.ResumeAnalysis, error)
	AnalyzeApplication(ctx context.Context, jobDescription string, profile types.UserProfile, instructions string) (*types.ApplicationAnalysis, error)
	OptimizeResume(ctx context.Context, jobDescription string, profile types.UserProfile, currentScore types.Score) (*types.ResumeOptimization, error)
}

// Options configures an App
type Options struct {
	Gateway   Gateway
	Profiles  *storage.ProfileStore
	History   *storage.HistoryStore
	Logger    *zap.Logger
	AITimeout time.Duration
	Now       func() time.Time
	NewID     func() string
}

// App holds one workspace's state. It is safe for concurrent use. The mutex
// is never held across an AI call. profileSave and historySave are taken
// before mu and held until the write reaches the store, so writes of one
// record land in the order their snapshots were taken.
type App struct {
	gateway   Gateway
	profiles  *storage.ProfileStore
	historyDB *storage.HistoryStore
	logger    *zap.Logger
	aiTimeout time.Duration
	now       func() time.Time
	newID     func() string

	guards map[gateway.Operation]*semaphore.Weighted

	profileSave sync.Mutex
	historySave sync.Mutex

	mu      sync.Mutex
	profile types.UserProfile
	history storage.History
	session *Session
	view    View
	detail  *types.ApplicationAnalysis
	viewGen uint64
}

// New loads the persisted profile and history and starts in the profile view
func New(ctx context.Context, opts Options) *App {
	a := &App{
		gateway:   opts.Gateway,
		profiles:  opts.Profiles,
		historyDB: opts.History,
		logger:    opts.Logger,
		aiTimeout: opts.AITimeout,
		now:       opts.Now,
		newID:     opts.NewID,
		view:      ViewProfile,
		guards: map[gateway.Operation]*semaphore.Weighted{
			gateway.OpExtractResume:      semaphore.NewWeighted(1),
			gateway.OpAnalyzeApplication: semaphore.NewWeighted(1),
			gateway.OpOptimizeResume:     semaphore.NewWeighted(1),
		},
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.aiTimeout <= 0 {
		a.aiTimeout = DefaultAITimeout
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.newID == nil {
		a.newID = uuid.NewString
	}

	a.profile = a.profiles.Load(ctx)
	a.history = a.historyDB.Load(ctx)
	a.logger.Debug("state loaded", zap.Bool("has_resume", a.profile.HasResume()), zap.Int("history", len(a.history)))
	return a
}

// Profile returns a copy of the profile
func (a *App) Profile() types.UserProfile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile.Clone()
}

// History returns a deep copy of the history, newest first
func (a *App) History() storage.History {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneHistory(a.history)
}

// HistoryEntry returns a copy of one history entry
func (a *App) HistoryEntry(id string) (*types.ApplicationAnalysis, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	entry, ok := a.history.Find(id)
	if !ok {
		return nil, &NotFoundError{Kind: "history entry", ID: id}
	}
	return entry.Clone(), nil
}

// Session returns a copy of the live analysis session, or nil
func (a *App) Session() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session.clone()
}

// --- profile ---

// SetResumeText replaces the resume source with pasted text
func (a *App) SetResumeText(ctx context.Context, text string) types.UserProfile {
	return a.updateProfile(ctx, func(p types.UserProfile) (types.UserProfile, error) {
		return p.WithResumeText(text), nil
	})
}

// UploadResume ingests a file and makes it the resume source. On failure the
// profile is unchanged.
func (a *App) UploadResume(ctx context.Context, name, mediaType string, data []byte) (types.UserProfile, error) {
	result, err := ingestion.Ingest(name, mediaType, data)
	if err != nil {
		return a.Profile(), err
	}
	a.logger.Info("resume uploaded", zap.String("name", name), zap.String("media_type", result.File.MimeType),
		zap.Bool("as_text", result.IsText()))
	return a.updateProfile(ctx, func(p types.UserProfile) (types.UserProfile, error) {
		return result.Apply(p), nil
	}), nil
}

// RemoveResume clears both resume sources and the extracted analysis
func (a *App) RemoveResume(ctx context.Context) types.UserProfile {
	return a.updateProfile(ctx, func(p types.UserProfile) (types.UserProfile, error) {
		return p.WithoutResume(), nil
	})
}

// SetTargetRole sets the role the candidate is aiming for
func (a *App) SetTargetRole(ctx context.Context, role string) types.UserProfile {
	return a.updateProfile(ctx, func(p types.UserProfile) (types.UserProfile, error) {
		p.TargetRole = strings.TrimSpace(role)
		return p, nil
	})
}

// UpdatePersonalInfo edits the personal info of the extracted resume
func (a *App) UpdatePersonalInfo(ctx context.Context, info types.PersonalInfo) (types.UserProfile, error) {
	return a.tryUpdateProfile(ctx, func(p types.UserProfile) (types.UserProfile, error) {
		if p.Analysis == nil {
			return p, ErrNoResumeAnalysis
		}
		if info.Links == nil {
			info.Links = []string{}
		}
		p.Analysis.PersonalInfo = info
		return p, nil
	})
}

// SetSectionOrder replaces the section order. Unknown and duplicate keys are
// dropped and missing keys appended.
func (a *App) SetSectionOrder(ctx context.Context, order []string) types.UserProfile {
	return a.updateProfile(ctx, func(p types.UserProfile) (types.UserProfile, error) {
		p.SectionOrder = rendering.NormalizeOrder(order)
		return p, nil
	})
}

// MoveSection moves one section of the current order
func (a *App) MoveSection(ctx context.Context, from, to int) (types.UserProfile, error) {
	return a.tryUpdateProfile(ctx, func(p types.UserProfile) (types.UserProfile, error) {
		order, err := rendering.MoveSection(rendering.NormalizeOrder(p.SectionOrder), from, to)
		if err != nil {
			return p, err
		}
		p.SectionOrder = order
		return p, nil
	})
}

// Document lays out the extracted resume in the profile's section order
func (a *App) Document() (rendering.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.profile.Analysis == nil {
		return rendering.Document{}, ErrNoResumeAnalysis
	}
	return rendering.Render(a.profile.Analysis.Clone(), a.profile.SectionOrder), nil
}

// ExtractResume asks the model for the structured resume and stores it on the
// profile. The user's section order is kept.
func (a *App) ExtractResume(ctx context.Context) (*types.ResumeAnalysis, error) {
	release, err := a.acquire(gateway.OpExtractResume)
	if err != nil {
		return nil, err
	}
	defer release()

	profile := a.Profile()
	callCtx, cancel := a.callContext(ctx)
	defer cancel()

	analysis, err := a.gateway.ExtractResume(callCtx, profile)
	if err != nil {
		return nil, err
	}

	_, err = a.tryUpdateProfile(ctx, func(p types.UserProfile) (types.UserProfile, error) {
		if !p.SameSource(&profile) {
			return p, ErrResumeChanged
		}
		p.Analysis = analysis.Clone()
		p.SectionOrder = rendering.NormalizeOrder(p.SectionOrder)
		return p, nil
	})
	if err != nil {
		a.logger.Info("resume changed during extraction, result discarded")
		return nil, err
	}
	return analysis, nil
}

// --- analysis ---

// AnalyzeApplication runs a job-fit analysis. The result always goes to the
// front of the history; it becomes the live session only if the view has not
// changed since the call started.
func (a *App) AnalyzeApplication(ctx context.Context, jobDescription, instructions string) (*types.ApplicationAnalysis, error) {
	release, err := a.acquire(gateway.OpAnalyzeApplication)
	if err != nil {
		return nil, err
	}
	defer release()

	a.mu.Lock()
	profile := a.profile.Clone()
	gen := a.viewGen
	a.mu.Unlock()

	callCtx, cancel := a.callContext(ctx)
	defer cancel()

	result, err := a.gateway.AnalyzeApplication(callCtx, jobDescription, profile, instructions)
	if err != nil {
		return nil, err
	}
	result.ID = a.newID()
	result.Timestamp = a.now().UnixMilli()

	a.historySave.Lock()
	defer a.historySave.Unlock()
	a.mu.Lock()
	a.history = a.history.Append(*result.Clone())
	history := a.history
	if a.viewGen == gen {
		a.session = &Session{JobDescription: jobDescription, Instructions: instructions, Result: result.Clone()}
	} else {
		a.logger.Info("view changed during analysis, live result discarded", zap.String("id", result.ID))
	}
	a.mu.Unlock()

	a.historyDB.Save(ctx, history)
	return result, nil
}

// UpdateCoverLetter edits the live session's cover letter. The history entry
// is not changed.
func (a *App) UpdateCoverLetter(text string) (*Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil || a.session.Result == nil {
		return nil, ErrNoAnalysis
	}
	a.session.Result.CoverLetter = text
	return a.session.clone(), nil
}

// ClearAnalysis discards the live session
func (a *App) ClearAnalysis() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = nil
}

// OptimizeResume rewrites the resume toward the live session's job
// description. The optimization is always attached to the history entry; the
// live session gets it only if the view has not changed meanwhile.
func (a *App) OptimizeResume(ctx context.Context) (*types.ResumeOptimization, error) {
	a.mu.Lock()
	if a.session == nil || a.session.Result == nil {
		a.mu.Unlock()
		return nil, ErrNoAnalysis
	}
	a.mu.Unlock()

	release, err := a.acquire(gateway.OpOptimizeResume)
	if err != nil {
		return nil, err
	}
	defer release()

	a.mu.Lock()
	if a.session == nil || a.session.Result == nil {
		a.mu.Unlock()
		return nil, ErrNoAnalysis
	}
	profile := a.profile.Clone()
	jobDescription := a.session.JobDescription
	analysisID := a.session.Result.ID
	score := a.session.Result.MatchAnalysis.Score
	gen := a.viewGen
	a.mu.Unlock()

	callCtx, cancel := a.callContext(ctx)
	defer cancel()

	opt, err := a.gateway.OptimizeResume(callCtx, jobDescription, profile, score)
	if err != nil {
		return nil, err
	}

	a.historySave.Lock()
	defer a.historySave.Unlock()
	a.mu.Lock()
	history, found := a.history.AttachOptimization(analysisID, opt)
	if found {
		a.history = history
	} else {
		a.logger.Warn("analysis no longer in history, optimization not recorded", zap.String("id", analysisID))
	}
	if a.viewGen == gen && a.session != nil && a.session.Result != nil && a.session.Result.ID == analysisID {
		a.session.Result.Optimization = opt.Clone()
	}
	a.mu.Unlock()

	if found {
		a.historyDB.Save(ctx, history)
	}
	return opt, nil
}

// OptimizedDocument lays out the live session's optimized resume in the
// profile's section order
func (a *App) OptimizedDocument() (rendering.Document, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil || a.session.Result == nil || a.session.Result.Optimization == nil {
		return rendering.Document{}, ErrNoAnalysis
	}
	resume := a.session.Result.Optimization.StructuredResume.Clone()
	return rendering.Render(resume, a.profile.SectionOrder), nil
}

// --- history ---

// ClearHistory removes every history entry. An open detail view returns to history.
func (a *App) ClearHistory(ctx context.Context) {
	a.historySave.Lock()
	defer a.historySave.Unlock()
	a.mu.Lock()
	a.history = storage.ClearHistory()
	if a.view == ViewHistoryDetail {
		a.setView(ViewHistory, nil)
	}
	history := a.history
	a.mu.Unlock()

	a.historyDB.Save(ctx, history)
}

// --- helpers ---

// acquire takes the single slot of op or fails immediately
func (a *App) acquire(op gateway.Operation) (func(), error) {
	guard := a.guards[op]
	if !guard.TryAcquire(1) {
		metrics.OperationsRejected.WithLabelValues(string(op)).Inc()
		a.logger.Info("operation already in flight", zap.String("operation", string(op)))
		return nil, fmt.Errorf("%s: %w", op, ErrOperationInFlight)
	}
	return func() { guard.Release(1) }, nil
}

// callContext detaches the AI call from the caller's cancellation and bounds
// it by the AI timeout
func (a *App) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), a.aiTimeout)
}

func (a *App) updateProfile(ctx context.Context, fn func(types.UserProfile) (types.UserProfile, error)) types.UserProfile {
	p, _ := a.tryUpdateProfile(ctx, fn)
	return p
}

// tryUpdateProfile applies fn to a copy of the profile; on success the copy
// replaces the profile and is persisted.
func (a *App) tryUpdateProfile(ctx context.Context, fn func(types.UserProfile) (types.UserProfile, error)) (types.UserProfile, error) {
	a.profileSave.Lock()
	defer a.profileSave.Unlock()
	a.mu.Lock()
	next, err := fn(a.profile.Clone())
	if err != nil {
		current := a.profile.Clone()
		a.mu.Unlock()
		return current, err
	}
	a.profile = next
	saved := next.Clone()
	a.mu.Unlock()

	a.profiles.Save(ctx, saved)
	return saved.Clone(), nil
}

func cloneHistory(h storage.History) storage.History {
	out := make(storage.History, len(h))
	for i := range h {
		out[i] = *h[i].Clone()
	}
	return out
}

func zapView(key string, v View) zap.Field {
	return zap.String(key, string(v))
}

package app

import "github.com/jonathan/jobfit-kit/internal/types"

// View is a state of the view controller
type View string

// Views
const (
	ViewProfile       View = "profile"
	ViewAnalysis      View = "analysis"
	ViewHistory       View = "history"
	ViewHistoryDetail View = "history-detail"
)

// ViewState is the current view and, in history-detail, the entry shown
type ViewState struct {
	View   View                       `json:"view"`
	Detail *types.ApplicationAnalysis `json:"detail,omitempty"`
}

// Session is the live analysis panel
type Session struct {
	JobDescription string                     `json:"jobDescription"`
	Instructions   string                     `json:"instructions,omitempty"`
	Result         *types.ApplicationAnalysis `json:"result"`
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Result = s.Result.Clone()
	return &c
}

// navigable reports whether Navigate may target v
func navigable(v View) bool {
	return v == ViewProfile || v == ViewAnalysis || v == ViewHistory
}

// Navigate moves to profile, analysis or history from any view. The detail
// payload is discarded.
func (a *App) Navigate(to View) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !navigable(to) {
		return &InvalidTransitionError{From: a.view, To: to}
	}
	a.setView(to, nil)
	return nil
}

// SelectHistory opens the detail view of a history entry. Allowed only from
// the history view; the payload is a deep copy of the entry.
func (a *App) SelectHistory(id string) (*types.ApplicationAnalysis, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.view != ViewHistory {
		return nil, &InvalidTransitionError{From: a.view, To: ViewHistoryDetail}
	}
	entry, ok := a.history.Find(id)
	if !ok {
		return nil, &NotFoundError{Kind: "history entry", ID: id}
	}
	a.setView(ViewHistoryDetail, entry.Clone())
	return a.detail.Clone(), nil
}

// Back returns from history-detail to history
func (a *App) Back() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.view != ViewHistoryDetail {
		return &InvalidTransitionError{From: a.view, To: ViewHistory}
	}
	a.setView(ViewHistory, nil)
	return nil
}

// View returns a copy of the current view state
func (a *App) View() ViewState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ViewState{View: a.view, Detail: a.detail.Clone()}
}

// setView changes the view. Leaving a view bumps the generation so results of
// calls started in it are no longer shown. Caller holds a.mu.
func (a *App) setView(to View, detail *types.ApplicationAnalysis) {
	if to != a.view {
		a.viewGen++
		a.logger.Debug("view changed", zapView("from", a.view), zapView("to", to))
	}
	a.view = to
	a.detail = detail
}

package app

import (
	"errors"
	"fmt"
)

var (
	// ErrOperationInFlight is returned when the same AI operation is already running
	ErrOperationInFlight = errors.New("operation already in flight")
	// ErrNoAnalysis is returned when an operation needs a live analysis session
	ErrNoAnalysis = errors.New("no live analysis; run an analysis first")
	// ErrNoResumeAnalysis is returned when an operation needs an extracted resume
	ErrNoResumeAnalysis = errors.New("resume has not been analyzed; run extraction first")
	// ErrResumeChanged is returned when the resume source changed while it was being extracted
	ErrResumeChanged = errors.New("resume changed during extraction; run extraction again")
)

// InvalidTransitionError is returned for a navigation the view state machine does not allow
type InvalidTransitionError struct {
	From View
	To   View
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

// NotFoundError is returned when a referenced entity does not exist
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

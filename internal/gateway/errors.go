package gateway

import "fmt"

// MissingResumeError is returned when the profile has neither resume text nor a file payload
type MissingResumeError struct {
	Message string
	Cause   error
}

func (e *MissingResumeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("missing resume: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("missing resume: %s", e.Message)
}

func (e *MissingResumeError) Unwrap() error {
	return e.Cause
}

// AIResponseError represents a failed model call or a reply that does not
// satisfy the operation's schema. No partial result accompanies it.
type AIResponseError struct {
	Operation Operation
	Message   string
	Cause     error
}

func (e *AIResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI response error: %s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI response error: %s: %s", e.Operation, e.Message)
}

func (e *AIResponseError) Unwrap() error {
	return e.Cause
}

// InputError represents a request rejected before the model is called
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// Package rendering turns a structured resume into an ordered document and
// exports it as HTML, LaTeX or PDF.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing an export template
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general export failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// InvalidMoveError is returned when a section move index is out of range
type InvalidMoveError struct {
	From int
	To   int
	Len  int
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid section move from %d to %d: order has %d sections", e.From, e.To, e.Len)
}

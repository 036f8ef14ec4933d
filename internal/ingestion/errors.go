// Package ingestion turns uploaded resume files and job postings into text or
// payloads the AI gateway can consume.
package ingestion

import "fmt"

// ExtractionError represents a file that could not be read as its declared format
type ExtractionError struct {
	Name    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s: %s", e.Name, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// UnsupportedFormatError represents an upload whose media type is not accepted
type UnsupportedFormatError struct {
	Name      string
	MediaType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: %s (%s); upload a PDF, DOCX or TXT file", e.Name, e.MediaType)
}

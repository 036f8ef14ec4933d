// Package storage persists the profile and history records to a local or
// durable key-value backend.
package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Backend.Get when the record does not exist
var ErrNotFound = errors.New("record not found")

// StorageQuotaError reports a write rejected for exceeding the backend's capacity
type StorageQuotaError struct {
	Key     string
	Size    int
	Limit   int
	Message string
	Cause   error
}

func (e *StorageQuotaError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("record %s is %d bytes, limit is %d", e.Key, e.Size, e.Limit)
	}
	if e.Cause != nil {
		return fmt.Sprintf("storage quota exceeded: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("storage quota exceeded: %s", msg)
}

func (e *StorageQuotaError) Unwrap() error {
	return e.Cause
}

// IsQuotaError reports whether err is or wraps a StorageQuotaError
func IsQuotaError(err error) bool {
	var qe *StorageQuotaError
	return errors.As(err, &qe)
}

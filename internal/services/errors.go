package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/justsurfingit/jobtrack/internal/models"
)

var (
	// ErrUnauthorized means the caller could not be authenticated. Nothing was changed.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned for rows that do not exist or belong to another user.
	ErrNotFound = errors.New("not found")
	// ErrConflict is a write that would duplicate a unique value.
	ErrConflict = errors.New("already exists")
	// ErrStorageDisabled means no document store is configured.
	ErrStorageDisabled = errors.New("document storage is not configured")
)

// ValidationError is input that is well formed but breaks a business rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// DataAccessError wraps a failed store read or write.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access failed (%s): %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// SendError is one reminder email that the provider refused or never answered.
type SendError struct {
	EventID uuid.UUID
	Type    models.NotificationType
	Err     error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send %s reminder for event %s: %v", e.Type, e.EventID, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// PayloadError is a webhook body that failed verification or could not be decoded.
type PayloadError struct {
	Reason string
	Err    error
}

func (e *PayloadError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *PayloadError) Unwrap() error { return e.Err }

func dataAccess(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, Err: err}
}

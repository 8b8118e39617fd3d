package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrPoolExhausted is returned when no pooled connection could be
	// obtained within the acquire timeout, including when the database is
	// unreachable and no new physical connection can be opened.
	ErrPoolExhausted = errors.New("connection pool exhausted or timed out")

	// ErrQueryFailed is returned when the database rejected or could not
	// execute a statement. Check the wrapped error for the driver cause.
	ErrQueryFailed = errors.New("query failed")

	// ErrConnReleased is returned when a connection is used after it was
	// handed back to the pool.
	ErrConnReleased = errors.New("connection already released")
)

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Operation string // The operation that failed (e.g., "list tasks")
	Kind      error  // ErrPoolExhausted or ErrQueryFailed
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Operation, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Operation, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is/errors.As.
func (e *StoreError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Cause returns the underlying driver error, or the kind when there is none.
func (e *StoreError) Cause() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// NewStoreError creates a new StoreError for the given operation, kind and cause.
func NewStoreError(operation string, kind, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Kind:      kind,
		Err:       err,
	}
}

// IsPoolExhausted reports whether err means no connection became available.
func IsPoolExhausted(err error) bool {
	return errors.Is(err, ErrPoolExhausted)
}

// IsQueryFailed reports whether err means a statement failed to execute.
func IsQueryFailed(err error) bool {
	return errors.Is(err, ErrQueryFailed)
}

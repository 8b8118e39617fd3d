package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// User-facing messages. These are part of the response contract.
const (
	MsgHello            = "Hello, world!"
	MsgTaskRequired     = "Task is required"
	MsgTaskAdded        = "Task added successfully"
	MsgFailedFetchTasks = "Failed to fetch tasks"
	MsgFailedAddTask    = "Failed to add task"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes.
// Anything that is not a validation error is a server-side failure.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// DescribeCause returns the diagnostic text placed in the error field of a
// 500 response. It is never empty for a non-nil error and is redacted by the
// response writer before it leaves the process.
func DescribeCause(err error) string {
	if err == nil {
		return ""
	}

	var storeErr *store.StoreError
	if !errors.As(err, &storeErr) {
		return err.Error()
	}

	cause := storeErr.Cause()
	switch {
	case errors.Is(err, store.ErrPoolExhausted):
		if cause == store.ErrPoolExhausted {
			return store.ErrPoolExhausted.Error()
		}
		return store.ErrPoolExhausted.Error() + ": " + cause.Error()
	default:
		return cause.Error()
	}
}

package store

import (
	"context"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Each call runs on its own pooled connection, which is released before the
// call returns on every path.
type TaskStore interface {
	// ListTasks returns every task ordered by ascending ID.
	// The result is never nil; an empty store yields an empty slice.
	// Failures wrap ErrPoolExhausted or ErrQueryFailed.
	ListTasks(ctx context.Context) ([]domain.Task, error)

	// CreateTask inserts a task with the given text and returns it with its
	// database-assigned ID. Callers must reject empty text before calling.
	// Failures wrap ErrPoolExhausted or ErrQueryFailed.
	CreateTask(ctx context.Context, text string) (domain.Task, error)
}

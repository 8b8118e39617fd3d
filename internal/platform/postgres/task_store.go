package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const tasksTable = "tasks"

var taskColumns = []string{"id", "task"}

// PostgresTaskStore implements the store.TaskStore interface on top of a
// connection pool. It is the only component that builds SQL.
type PostgresTaskStore struct {
	pool Acquirer
}

// NewPostgresTaskStore creates a new PostgresTaskStore drawing connections from pool.
func NewPostgresTaskStore(pool Acquirer) *PostgresTaskStore {
	if pool == nil {
		panic("pool cannot be nil")
	}
	return &PostgresTaskStore{pool: pool}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// withConn runs fn on a freshly acquired connection and releases it on every
// exit path, including panics and cancellation of ctx. Acquire failures are
// reported as store.ErrPoolExhausted, fn failures as store.ErrQueryFailed.
func (s *PostgresTaskStore) withConn(ctx context.Context, op string, fn func(conn *Conn) error) error {
	log := logger.FromContext(ctx)

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		log.Debug("failed to acquire connection", slog.String("operation", op), slog.String("error", err.Error()))
		return store.NewStoreError(op, store.ErrPoolExhausted, err)
	}
	defer conn.Release()

	if err := fn(conn); err != nil {
		log.Debug("statement failed", slog.String("operation", op), slog.String("error", err.Error()))
		return store.NewStoreError(op, store.ErrQueryFailed, driverCause(err))
	}
	return nil
}

// driverCause strips scany's wrapping so the reported cause is the error the
// driver returned.
func driverCause(err error) error {
	for strings.HasPrefix(err.Error(), "scany: ") {
		inner := errors.Unwrap(err)
		if inner == nil {
			break
		}
		err = inner
	}
	return err
}

// ListTasks implements store.TaskStore.ListTasks.
func (s *PostgresTaskStore) ListTasks(ctx context.Context) ([]domain.Task, error) {
	query, args, err := squirrel.Select(taskColumns...).
		From(tasksTable).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, store.NewStoreError("list tasks", store.ErrQueryFailed, fmt.Errorf("building query: %w", err))
	}

	tasks := make([]domain.Task, 0)
	err = s.withConn(ctx, "list tasks", func(conn *Conn) error {
		return pgxscan.Select(ctx, conn, &tasks, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements store.TaskStore.CreateTask. The insert returns the
// assigned id and stored text in the same round trip.
func (s *PostgresTaskStore) CreateTask(ctx context.Context, text string) (domain.Task, error) {
	query, args, err := squirrel.Insert(tasksTable).
		Columns("task").
		Values(text).
		Suffix("RETURNING id, task").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return domain.Task{}, store.NewStoreError("create task", store.ErrQueryFailed, fmt.Errorf("building query: %w", err))
	}

	var created domain.Task
	err = s.withConn(ctx, "create task", func(conn *Conn) error {
		return pgxscan.Get(ctx, conn, &created, query, args...)
	})
	if err != nil {
		return domain.Task{}, err
	}

	logger.FromContext(ctx).Debug("task created", slog.Int64("task_id", created.ID))
	return created, nil
}

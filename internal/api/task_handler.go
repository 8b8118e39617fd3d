package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	store store.TaskStore
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskStore store.TaskStore) *TaskHandler {
	if taskStore == nil {
		panic("taskStore cannot be nil")
	}
	return &TaskHandler{store: taskStore}
}

// Hello handles GET / requests. It never touches the database.
func (h *TaskHandler) Hello(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HelloResponse{Message: MsgHello})
}

// ListTasks handles GET /tasks requests.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.ListTasks(r.Context())
	if err != nil {
		h.respondStoreError(w, r, MsgFailedFetchTasks, err)
		return
	}

	logger.FromContext(r.Context()).Debug("listed tasks", slog.Int("count", len(tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Success: true,
		Tasks:   tasksToResponse(tasks),
	})
}

// CreateTask handles POST /tasks requests. Invalid input is rejected
// before any connection is acquired.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	input := parseTaskInput(r)
	if !input.valid {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgTaskRequired, input.err)
		return
	}

	task, err := h.store.CreateTask(r.Context(), input.text)
	if err != nil {
		h.respondStoreError(w, r, MsgFailedAddTask, err)
		return
	}

	logger.FromContext(r.Context()).Info("task created", slog.Int64("task_id", task.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, TaskCreatedResponse{
		Success: true,
		Message: MsgTaskAdded,
		Task:    taskToResponse(task),
	})
}

func (h *TaskHandler) respondStoreError(w http.ResponseWriter, r *http.Request, message string, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), message, err,
		shared.WithErrorDetail(DescribeCause(err)))
}

// taskInput is the outcome of reading a create request: either valid text
// ready for the store, or the reason it was rejected.
type taskInput struct {
	valid bool
	text  string
	err   error
}

func parseTaskInput(r *http.Request) taskInput {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		return taskInput{err: err}
	}
	if err := shared.ValidateRequest(req); err != nil {
		return taskInput{err: err}
	}
	if err := domain.ValidateTaskText(req.Task); err != nil {
		return taskInput{err: err}
	}
	return taskInput{valid: true, text: req.Task}
}

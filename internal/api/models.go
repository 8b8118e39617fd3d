package api

import "github.com/phrazzld/tasks-api/internal/domain"

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Task string `json:"task" validate:"required"`
}

// TaskResponse represents a single task in a response body.
type TaskResponse struct {
	ID   int64  `json:"id"`
	Task string `json:"task"`
}

// TaskListResponse is the success body for GET /tasks.
type TaskListResponse struct {
	Success bool           `json:"success"`
	Tasks   []TaskResponse `json:"tasks"`
}

// TaskCreatedResponse is the success body for POST /tasks.
type TaskCreatedResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Task    TaskResponse `json:"task"`
}

// HelloResponse is the body for GET /.
type HelloResponse struct {
	Message string `json:"message"`
}

func taskToResponse(t domain.Task) TaskResponse {
	return TaskResponse{ID: t.ID, Task: t.Text}
}

func tasksToResponse(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

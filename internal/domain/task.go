package domain

import "fmt"

// ErrEmptyTaskText is returned for a create request without text.
var ErrEmptyTaskText = fmt.Errorf("%w: task text cannot be empty", ErrValidation)

// Task is a single work item in the task list. The ID is assigned by the
// database on insert and increases with insertion order; neither field is
// changed after creation.
type Task struct {
	ID   int64  `json:"id" db:"id"`
	Text string `json:"task" db:"task"`
}

// ValidateTaskText checks the text a client submits for a new task.
func ValidateTaskText(text string) error {
	if text == "" {
		return ErrEmptyTaskText
	}
	return nil
}

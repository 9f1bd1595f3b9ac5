package model

import (
	"time"
)

type TaskID string

// Task is the record shape shared by every storage backend and by the
// reporting core. CompletedAt == nil means the task is still open.
type Task struct {
	ID          TaskID    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ProjectID   string    `json:"projectId,omitempty"`
	Priority    Priority  `json:"priority"`
	Order       int       `json:"order"`
	Colour      string    `json:"colour,omitempty"`
	Subtasks    []Subtask `json:"subtasks,omitempty"`

	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"taskCompletedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Subtask has no identity of its own; it lives and dies with its parent
// task and is addressed by position.
type Subtask struct {
	Title     string   `json:"title"`
	Completed bool     `json:"isCompleted"`
	Priority  Priority `json:"priority,omitempty"`
}

func (t Task) Closed() bool {
	return t.CompletedAt != nil
}

// CompletionHours returns the task's open-to-closed duration in hours,
// or 0 for tasks that are still open.
func (t Task) CompletionHours() float64 {
	if t.CompletedAt == nil {
		return 0
	}
	return t.CompletedAt.Sub(t.CreatedAt).Hours()
}

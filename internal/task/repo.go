package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reincoon/task-manager/internal/model"
)

var ErrNotFound = errors.New("task not found")

// Patch is a partial update. nil pointer => "no change"; an empty string
// in ProjectID/DueDate/CompletedAt clears the field.
type Patch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	ProjectID   *string          `json:"projectId,omitempty"`
	Priority    *string          `json:"priority,omitempty"`
	Order       *int             `json:"order,omitempty"`
	Colour      *string          `json:"colour,omitempty"`
	DueDate     *string          `json:"dueDate,omitempty"`
	CompletedAt *string          `json:"taskCompletedAt,omitempty"`
	Subtasks    *[]model.Subtask `json:"subtasks,omitempty"`
}

type ListFilter struct {
	// Status: "" | "all" | "open" | "closed"
	Status string

	// Project: "" | "all" | "none" | "<project id>"
	Project string

	// Priority: "" | "all" | "<level>"
	Priority string
}

type Repo interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id model.TaskID) (model.Task, bool, error)
	Update(ctx context.Context, id model.TaskID, p Patch) (model.Task, error)
	Delete(ctx context.Context, id model.TaskID) error
	List(ctx context.Context, f ListFilter) ([]model.Task, error)
}

// NewID mints a task id. Exposed for alternate storage backends.
func NewID() model.TaskID {
	return model.TaskID("task_" + uuid.NewString())
}

// Normalize fills the defaults every backend applies on write.
func Normalize(t *model.Task) {
	if t.Subtasks == nil {
		t.Subtasks = []model.Subtask{}
	}
	if t.Priority == "" {
		t.Priority = model.PriorityLow
	}
}

// Apply merges the patch into t.
func (p Patch) Apply(t *model.Task) error {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.ProjectID != nil {
		t.ProjectID = *p.ProjectID
	}
	if p.Priority != nil {
		t.Priority = model.Priority(*p.Priority)
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	if p.Colour != nil {
		t.Colour = *p.Colour
	}

	if p.DueDate != nil {
		ts, err := parseTimePtr(*p.DueDate)
		if err != nil {
			return err
		}
		t.DueDate = ts
	}
	if p.CompletedAt != nil {
		ts, err := parseTimePtr(*p.CompletedAt)
		if err != nil {
			return err
		}
		t.CompletedAt = ts
	}

	if p.Subtasks != nil {
		if *p.Subtasks == nil {
			t.Subtasks = []model.Subtask{}
		} else {
			t.Subtasks = *p.Subtasks
		}
	}

	return nil
}

func parseTimePtr(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// Matches reports whether the task passes the filter.
func (f ListFilter) Matches(t model.Task) bool {
	switch strings.ToLower(strings.TrimSpace(f.Status)) {
	case "", "all":
	case "open":
		if t.Closed() {
			return false
		}
	case "closed":
		if !t.Closed() {
			return false
		}
	}

	switch f.Project {
	case "", "all":
	case "none":
		if t.ProjectID != "" {
			return false
		}
	default:
		if t.ProjectID != f.Project {
			return false
		}
	}

	switch f.Priority {
	case "", "all":
	default:
		if string(t.Priority) != f.Priority {
			return false
		}
	}

	return true
}

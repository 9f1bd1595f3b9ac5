package stats

import (
	"strings"
	"time"

	"github.com/reincoon/task-manager/internal/model"
)

// All is the sentinel project/priority selection meaning "unconstrained".
const All = "all"

// Filter narrows a task snapshot before aggregation. Nil date bounds and
// empty/"all" selections impose no constraint.
type Filter struct {
	Start    *time.Time `json:"startDate,omitempty"`
	End      *time.Time `json:"endDate,omitempty"`
	Project  string     `json:"selectedProject,omitempty"`
	Priority string     `json:"selectedPriority,omitempty"`
}

func selectsAll(s string) bool {
	return s == "" || strings.EqualFold(s, All)
}

// AllProjects reports whether the filter constrains the project at all.
func (f Filter) AllProjects() bool {
	return selectsAll(f.Project)
}

func (f Filter) matches(t model.Task) bool {
	if f.Start != nil && t.CreatedAt.Before(*f.Start) {
		return false
	}
	if f.End != nil && t.CreatedAt.After(*f.End) {
		return false
	}
	if !selectsAll(f.Project) && t.ProjectID != f.Project {
		return false
	}
	if !selectsAll(f.Priority) && string(t.Priority) != f.Priority {
		return false
	}
	return true
}

// FilterTasks returns the tasks matching f, in input order, as a new
// slice. The input is never modified.
func FilterTasks(tasks []model.Task, f Filter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

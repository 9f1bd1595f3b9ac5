package stats

import (
	"time"

	"github.com/reincoon/task-manager/internal/model"
)

// Summary is the flat counter record behind the statistics screen. Raw
// numeric fields come first; the Formatted* fields are the same averages
// rendered through FormatDuration for direct display.
type Summary struct {
	TotalTasks  int `json:"totalTasks"`
	OpenTasks   int `json:"openTasks"`
	ClosedTasks int `json:"closedTasks"`

	TotalSubtasks  int `json:"totalSubtasks"`
	ClosedSubtasks int `json:"closedSubtasks"`

	TotalProjects     int `json:"totalProjects"`
	CompletedProjects int `json:"completedProjects"`

	AvgTaskCompletionHours    float64 `json:"avgTaskCompletionHours"`
	AvgProjectCompletionHours float64 `json:"avgProjectCompletionHours"`

	FormattedAvgTaskCompletion    string `json:"avgTaskCompletionTime"`
	FormattedAvgProjectCompletion string `json:"avgProjectCompletionTime"`
}

// Summarize computes the statistics screen's counters. Task-level counts
// run over the filtered task set; project completion runs over the full
// task set handed in, so callers decide the scope by what they pass.
func Summarize(tasks []model.Task, projects []model.Project, f Filter) Summary {
	filtered := FilterTasks(tasks, f)

	var s Summary
	s.TotalTasks = len(filtered)

	var closedHours float64
	for _, t := range filtered {
		if t.Closed() {
			s.ClosedTasks++
			closedHours += t.CompletionHours()
		}
		s.TotalSubtasks += len(t.Subtasks)
		for _, st := range t.Subtasks {
			if st.Completed {
				s.ClosedSubtasks++
			}
		}
	}
	s.OpenTasks = s.TotalTasks - s.ClosedTasks
	if s.ClosedTasks > 0 {
		s.AvgTaskCompletionHours = closedHours / float64(s.ClosedTasks)
	}

	if f.AllProjects() {
		s.TotalProjects = len(projects)
	} else {
		// A single selected project counts as one whether or not any
		// task currently matches.
		s.TotalProjects = 1
	}

	var projectHours float64
	for _, p := range projects {
		span, completed := projectSpan(p.ID, tasks)
		if !completed {
			continue
		}
		s.CompletedProjects++
		projectHours += span.Hours()
	}
	if s.CompletedProjects > 0 {
		s.AvgProjectCompletionHours = projectHours / float64(s.CompletedProjects)
	}

	s.FormattedAvgTaskCompletion = FormatDuration(s.AvgTaskCompletionHours)
	s.FormattedAvgProjectCompletion = FormatDuration(s.AvgProjectCompletionHours)
	return s
}

// projectSpan reports whether every task referencing the project is
// closed, and if so the span from the earliest CreatedAt to the latest
// CompletedAt. A project with no tasks is never completed.
func projectSpan(projectID string, tasks []model.Task) (time.Duration, bool) {
	var (
		found       bool
		minCreated  time.Time
		maxComplete time.Time
	)
	for _, t := range tasks {
		if t.ProjectID != projectID {
			continue
		}
		if !t.Closed() {
			return 0, false
		}
		if !found || t.CreatedAt.Before(minCreated) {
			minCreated = t.CreatedAt
		}
		if !found || t.CompletedAt.After(maxComplete) {
			maxComplete = *t.CompletedAt
		}
		found = true
	}
	if !found {
		return 0, false
	}
	span := maxComplete.Sub(minCreated)
	if span < 0 {
		span = 0
	}
	return span, true
}

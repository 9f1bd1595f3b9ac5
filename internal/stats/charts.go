package stats

import (
	"github.com/reincoon/task-manager/internal/model"
)

// ChartData is the single shape handed to chart renderers: parallel
// label/value slices, Labels[i] describing Values[i].
type ChartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"data"`
}

// ClosedTasksByPriority counts closed filtered tasks per priority level.
// Labels follow the canonical priority order; levels with no matches are
// present with a zero value, and unknown priorities found in the data are
// appended after the canonical ones in encounter order.
func ClosedTasksByPriority(tasks []model.Task, f Filter) ChartData {
	counts := map[model.Priority]float64{}
	var extras []model.Priority

	for _, t := range FilterTasks(tasks, f) {
		if !t.Closed() {
			continue
		}
		if _, seen := counts[t.Priority]; !seen && !t.Priority.Known() {
			extras = append(extras, t.Priority)
		}
		counts[t.Priority]++
	}

	return byPriority(counts, extras)
}

// ClosedSubtasksByPriority counts completed subtasks per priority level,
// grouped by the subtask's own priority. A subtask without a priority
// inherits its parent task's.
func ClosedSubtasksByPriority(tasks []model.Task, f Filter) ChartData {
	counts := map[model.Priority]float64{}
	var extras []model.Priority

	for _, t := range FilterTasks(tasks, f) {
		for _, st := range t.Subtasks {
			if !st.Completed {
				continue
			}
			p := st.Priority
			if p == "" {
				p = t.Priority
			}
			if _, seen := counts[p]; !seen && !p.Known() {
				extras = append(extras, p)
			}
			counts[p]++
		}
	}

	return byPriority(counts, extras)
}

func byPriority(counts map[model.Priority]float64, extras []model.Priority) ChartData {
	data := ChartData{}
	for _, p := range model.Priorities() {
		data.Labels = append(data.Labels, string(p))
		data.Values = append(data.Values, counts[p])
	}
	for _, p := range extras {
		data.Labels = append(data.Labels, string(p))
		data.Values = append(data.Values, counts[p])
	}
	return data
}

// SubtaskPie splits the filtered tasks' subtasks into completed vs open.
func SubtaskPie(tasks []model.Task, f Filter) ChartData {
	var closed, open float64
	for _, t := range FilterTasks(tasks, f) {
		for _, st := range t.Subtasks {
			if st.Completed {
				closed++
			} else {
				open++
			}
		}
	}
	return ChartData{
		Labels: []string{"Completed", "Open"},
		Values: []float64{closed, open},
	}
}

// ProjectPie splits projects into completed vs in-progress over the
// filtered task scope. A project with no matching tasks counts as
// in-progress; it has nothing completed to show.
func ProjectPie(projects []model.Project, tasks []model.Task, f Filter) ChartData {
	filtered := FilterTasks(tasks, f)

	var completed float64
	for _, p := range projects {
		if _, done := projectSpan(p.ID, filtered); done {
			completed++
		}
	}
	return ChartData{
		Labels: []string{"Completed", "In Progress"},
		Values: []float64{completed, float64(len(projects)) - completed},
	}
}

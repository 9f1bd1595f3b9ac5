package stats

import (
	"time"

	"github.com/reincoon/task-manager/internal/model"
)

// TrendDays is the fixed trailing window (in local calendar days, today
// inclusive) shared by every trend-line builder.
const TrendDays = 7

// Metric names accepted by TrendForMetric. Anything else falls through to
// the tasks-completed trend.
const (
	MetricTasksCompleted       = "Tasks Completed"
	MetricProjectsCompleted    = "Projects Completed"
	MetricAvgTaskCompletion    = "Average Task Completion Time"
	MetricAvgProjectCompletion = "Average Project Completion Time"
)

const dayLabelFormat = "2006-01-02"

// trendWindow returns the window's day labels oldest to newest together
// with a label lookup keyed by local calendar day.
func trendWindow(now time.Time) ([]string, map[string]int) {
	labels := make([]string, TrendDays)
	index := make(map[string]int, TrendDays)
	start := now.AddDate(0, 0, -(TrendDays - 1))
	for i := 0; i < TrendDays; i++ {
		label := start.AddDate(0, 0, i).Format(dayLabelFormat)
		labels[i] = label
		index[label] = i
	}
	return labels, index
}

func dayLabel(t time.Time) string {
	return t.In(time.Local).Format(dayLabelFormat)
}

// TasksCompletedTrend counts filtered tasks completed on each day of the
// trailing window. Days without completions stay at zero.
func TasksCompletedTrend(tasks []model.Task, f Filter, now time.Time) ChartData {
	labels, index := trendWindow(now)
	values := make([]float64, TrendDays)

	for _, t := range FilterTasks(tasks, f) {
		if !t.Closed() {
			continue
		}
		if i, ok := index[dayLabel(*t.CompletedAt)]; ok {
			values[i]++
		}
	}
	return ChartData{Labels: labels, Values: values}
}

// ProjectsCompletedTrend counts projects that became completed on each
// day of the window: every task in the filtered scope closed, with the
// latest completion falling on that day.
func ProjectsCompletedTrend(projects []model.Project, tasks []model.Task, f Filter, now time.Time) ChartData {
	labels, index := trendWindow(now)
	values := make([]float64, TrendDays)
	filtered := FilterTasks(tasks, f)

	for _, p := range projects {
		day, ok := projectCompletionDay(p.ID, filtered)
		if !ok {
			continue
		}
		if i, ok := index[day]; ok {
			values[i]++
		}
	}
	return ChartData{Labels: labels, Values: values}
}

// AvgTaskCompletionTrend reports, per window day, the mean completion
// duration in hours of the tasks that closed on that day.
func AvgTaskCompletionTrend(tasks []model.Task, f Filter, now time.Time) ChartData {
	labels, index := trendWindow(now)
	sums := make([]float64, TrendDays)
	counts := make([]float64, TrendDays)

	for _, t := range FilterTasks(tasks, f) {
		if !t.Closed() {
			continue
		}
		if i, ok := index[dayLabel(*t.CompletedAt)]; ok {
			sums[i] += t.CompletionHours()
			counts[i]++
		}
	}
	return ChartData{Labels: labels, Values: means(sums, counts)}
}

// AvgProjectCompletionTrend reports, per window day, the mean span in
// hours of the projects that became completed on that day.
func AvgProjectCompletionTrend(projects []model.Project, tasks []model.Task, f Filter, now time.Time) ChartData {
	labels, index := trendWindow(now)
	sums := make([]float64, TrendDays)
	counts := make([]float64, TrendDays)
	filtered := FilterTasks(tasks, f)

	for _, p := range projects {
		day, ok := projectCompletionDay(p.ID, filtered)
		if !ok {
			continue
		}
		i, ok := index[day]
		if !ok {
			continue
		}
		span, _ := projectSpan(p.ID, filtered)
		sums[i] += span.Hours()
		counts[i]++
	}
	return ChartData{Labels: labels, Values: means(sums, counts)}
}

// TrendForMetric dispatches to the trend builder for the given metric
// name. Unrecognized names render the default tasks-completed trend
// rather than failing; the dashboard always has something to draw.
func TrendForMetric(metric string, tasks []model.Task, projects []model.Project, f Filter, now time.Time) ChartData {
	switch metric {
	case MetricProjectsCompleted:
		return ProjectsCompletedTrend(projects, tasks, f, now)
	case MetricAvgTaskCompletion:
		return AvgTaskCompletionTrend(tasks, f, now)
	case MetricAvgProjectCompletion:
		return AvgProjectCompletionTrend(projects, tasks, f, now)
	default:
		return TasksCompletedTrend(tasks, f, now)
	}
}

// projectCompletionDay returns the local day label on which the project's
// last task closed, if every task in scope is closed.
func projectCompletionDay(projectID string, tasks []model.Task) (string, bool) {
	var (
		found bool
		last  time.Time
	)
	for _, t := range tasks {
		if t.ProjectID != projectID {
			continue
		}
		if !t.Closed() {
			return "", false
		}
		if t.CompletedAt.After(last) {
			last = *t.CompletedAt
		}
		found = true
	}
	if !found {
		return "", false
	}
	return dayLabel(last), true
}

func means(sums, counts []float64) []float64 {
	out := make([]float64, len(sums))
	for i := range sums {
		if counts[i] > 0 {
			out[i] = sums[i] / counts[i]
		}
	}
	return out
}

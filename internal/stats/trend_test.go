package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/reincoon/task-manager/internal/model"
)

func TestTasksCompletedTrend_WindowShape(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.Local)

	got := TasksCompletedTrend(nil, Filter{}, now)
	assert.Len(t, got.Labels, TrendDays)
	assert.Len(t, got.Values, TrendDays)
	assert.Equal(t, "2025-06-04", got.Labels[0])
	assert.Equal(t, "2025-06-10", got.Labels[TrendDays-1])
	assert.Equal(t, make([]float64, TrendDays), got.Values)
}

func TestTasksCompletedTrend_BucketsByDay(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.Local)
	today := time.Date(2025, 6, 10, 9, 0, 0, 0, time.Local)
	twoDaysAgo := time.Date(2025, 6, 8, 23, 0, 0, 0, time.Local)
	outOfWindow := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	tasks := []model.Task{
		{ID: "a", CreatedAt: outOfWindow, CompletedAt: &today},
		{ID: "b", CreatedAt: outOfWindow, CompletedAt: &today},
		{ID: "c", CreatedAt: outOfWindow, CompletedAt: &twoDaysAgo},
		{ID: "d", CreatedAt: outOfWindow, CompletedAt: &outOfWindow},
		{ID: "e", CreatedAt: outOfWindow}, // open
	}

	got := TasksCompletedTrend(tasks, Filter{}, now)
	assert.Equal(t, float64(2), got.Values[TrendDays-1], "today's bucket")
	assert.Equal(t, float64(1), got.Values[4], "two days ago")
	assert.Equal(t, float64(0), got.Values[0], "out-of-window completion ignored")
}

func TestProjectsCompletedTrend(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.Local)
	created := time.Date(2025, 6, 7, 8, 0, 0, 0, time.Local)
	yesterday := time.Date(2025, 6, 9, 10, 0, 0, 0, time.Local)

	tasks := []model.Task{
		{ID: "a", ProjectID: "p1", CreatedAt: created, CompletedAt: &created},
		{ID: "b", ProjectID: "p1", CreatedAt: created, CompletedAt: &yesterday},
		{ID: "c", ProjectID: "p2", CreatedAt: created}, // p2 still open
	}
	projects := []model.Project{{ID: "p1"}, {ID: "p2"}}

	got := ProjectsCompletedTrend(projects, tasks, Filter{}, now)
	assert.Equal(t, float64(1), got.Values[TrendDays-2], "p1 finished yesterday")
	assert.Equal(t, float64(1), sum(got.Values))
}

func TestAvgTaskCompletionTrend(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.Local)
	start := time.Date(2025, 6, 9, 0, 0, 0, 0, time.Local)
	sixHoursLater := start.Add(6 * time.Hour)
	twoHoursLater := start.Add(2 * time.Hour)

	tasks := []model.Task{
		{ID: "a", CreatedAt: start, CompletedAt: &sixHoursLater},
		{ID: "b", CreatedAt: start, CompletedAt: &twoHoursLater},
	}

	got := AvgTaskCompletionTrend(tasks, Filter{}, now)
	assert.InDelta(t, 4.0, got.Values[TrendDays-2], 1e-9)
	assert.Equal(t, float64(0), got.Values[0], "days with no completions stay zero")
}

func TestAvgProjectCompletionTrend(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.Local)
	created := time.Date(2025, 6, 9, 0, 0, 0, 0, time.Local)
	done := created.Add(12 * time.Hour)

	tasks := []model.Task{
		{ID: "a", ProjectID: "p1", CreatedAt: created, CompletedAt: &done},
	}
	projects := []model.Project{{ID: "p1"}}

	got := AvgProjectCompletionTrend(projects, tasks, Filter{}, now)
	assert.InDelta(t, 12.0, got.Values[TrendDays-2], 1e-9)
}

func TestTrendForMetric_Dispatch(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.Local)
	done := time.Date(2025, 6, 10, 9, 0, 0, 0, time.Local)
	created := done.Add(-2 * time.Hour)

	tasks := []model.Task{
		{ID: "a", ProjectID: "p1", CreatedAt: created, CompletedAt: &done},
	}
	projects := []model.Project{{ID: "p1"}}

	taskTrend := TrendForMetric(MetricTasksCompleted, tasks, projects, Filter{}, now)
	assert.Equal(t, float64(1), taskTrend.Values[TrendDays-1])

	projTrend := TrendForMetric(MetricProjectsCompleted, tasks, projects, Filter{}, now)
	assert.Equal(t, float64(1), projTrend.Values[TrendDays-1])

	avgTask := TrendForMetric(MetricAvgTaskCompletion, tasks, projects, Filter{}, now)
	assert.InDelta(t, 2.0, avgTask.Values[TrendDays-1], 1e-9)

	avgProj := TrendForMetric(MetricAvgProjectCompletion, tasks, projects, Filter{}, now)
	assert.InDelta(t, 2.0, avgProj.Values[TrendDays-1], 1e-9)
}

func TestTrendForMetric_UnknownFallsBackToTasks(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.Local)
	done := time.Date(2025, 6, 10, 9, 0, 0, 0, time.Local)

	tasks := []model.Task{{ID: "a", CreatedAt: done.Add(-time.Hour), CompletedAt: &done}}

	got := TrendForMetric("Bogus Metric", tasks, nil, Filter{}, now)
	want := TasksCompletedTrend(tasks, Filter{}, now)
	assert.Equal(t, want, got)
}

func sum(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}

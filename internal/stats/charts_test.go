package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reincoon/task-manager/internal/model"
)

func TestClosedTasksByPriority(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Priority: model.PriorityLow, CreatedAt: date(1), CompletedAt: ptr(date(2))},
		{ID: "b", Priority: model.PriorityModerate, CreatedAt: date(1)},
		{ID: "c", Priority: model.PriorityHigh, CreatedAt: date(1), CompletedAt: ptr(date(3))},
	}

	got := ClosedTasksByPriority(tasks, Filter{})
	assert.Equal(t, []string{"Low", "Moderate", "High", "Critical"}, got.Labels)
	assert.Equal(t, []float64{1, 0, 1, 0}, got.Values)
}

func TestClosedTasksByPriority_TracksUnknownLevels(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Priority: "Urgent", CreatedAt: date(1), CompletedAt: ptr(date(2))},
		{ID: "b", Priority: model.PriorityLow, CreatedAt: date(1), CompletedAt: ptr(date(2))},
	}

	got := ClosedTasksByPriority(tasks, Filter{})
	assert.Equal(t, []string{"Low", "Moderate", "High", "Critical", "Urgent"}, got.Labels)
	assert.Equal(t, []float64{1, 0, 0, 0, 1}, got.Values)
}

func TestClosedSubtasksByPriority_FallsBackToTaskPriority(t *testing.T) {
	tasks := []model.Task{
		{
			ID: "a", Priority: model.PriorityHigh, CreatedAt: date(1),
			Subtasks: []model.Subtask{
				{Completed: true, Priority: model.PriorityLow},
				{Completed: true}, // no own priority: counts as High
				{Completed: false, Priority: model.PriorityLow},
			},
		},
	}

	got := ClosedSubtasksByPriority(tasks, Filter{})
	assert.Equal(t, []string{"Low", "Moderate", "High", "Critical"}, got.Labels)
	assert.Equal(t, []float64{1, 0, 1, 0}, got.Values)
}

func TestSubtaskPie(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", CreatedAt: date(1), Subtasks: []model.Subtask{{Completed: true}, {Completed: false}}},
		{ID: "b", CreatedAt: date(1), Subtasks: []model.Subtask{{Completed: true}}},
		{ID: "c", CreatedAt: date(1)},
	}

	got := SubtaskPie(tasks, Filter{})
	assert.Equal(t, []string{"Completed", "Open"}, got.Labels)
	assert.Equal(t, []float64{2, 1}, got.Values)
}

func TestSubtaskPie_Empty(t *testing.T) {
	got := SubtaskPie(nil, Filter{})
	assert.Equal(t, []float64{0, 0}, got.Values)
}

func TestProjectPie(t *testing.T) {
	tasks, projects := referenceSnapshot()

	got := ProjectPie(projects, tasks, Filter{})
	assert.Equal(t, []string{"Completed", "In Progress"}, got.Labels)
	assert.Equal(t, []float64{1, 1}, got.Values)
}

func TestProjectPie_EmptyProjectCountsInProgress(t *testing.T) {
	projects := []model.Project{{ID: "p1"}, {ID: "p2"}}
	tasks := []model.Task{
		{ID: "a", ProjectID: "p1", CreatedAt: date(1), CompletedAt: ptr(date(2))},
	}

	got := ProjectPie(projects, tasks, Filter{})
	assert.Equal(t, []float64{1, 1}, got.Values)
}

func TestChartBuilders_FilterApplied(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", ProjectID: "p1", Priority: model.PriorityLow, CreatedAt: date(1), CompletedAt: ptr(date(2))},
		{ID: "b", ProjectID: "p2", Priority: model.PriorityLow, CreatedAt: date(1), CompletedAt: ptr(date(2))},
	}

	got := ClosedTasksByPriority(tasks, Filter{Project: "p1"})
	assert.Equal(t, []float64{1, 0, 0, 0}, got.Values)
}

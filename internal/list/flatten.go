package list

import (
	"sort"

	"github.com/reincoon/task-manager/internal/model"
)

// SortOption selects the within-group task ordering.
type SortOption string

const (
	SortDefault      SortOption = ""
	SortPriority     SortOption = "priority"
	SortDate         SortOption = "date"
	SortAlphabetical SortOption = "alphabetical"
	SortColour       SortOption = "colour"
)

type ItemKind string

const (
	KindNoProjectHeader ItemKind = "noProjectHeader"
	KindProjectHeader   ItemKind = "projectHeader"
	KindPriorityHeader  ItemKind = "priorityHeader"
	KindTask            ItemKind = "task"
)

// Item is one row of the flattened display list: a header marker or a
// task.
type Item struct {
	Kind     ItemKind       `json:"type"`
	Project  *model.Project `json:"project,omitempty"`
	Priority model.Priority `json:"priority,omitempty"`
	Task     *model.Task    `json:"task,omitempty"`
}

// Build flattens by-project groups into display rows: the unassigned
// header and its tasks first, then each project (in the order the caller
// supplies them) as a header followed by its tasks.
func Build(g Groups, projects []model.Project, opt SortOption) []Item {
	items := []Item{{Kind: KindNoProjectHeader}}
	items = appendTasks(items, g.Unassigned, opt)

	for _, p := range projects {
		proj := p
		items = append(items, Item{Kind: KindProjectHeader, Project: &proj})
		items = appendTasks(items, g.ByProject[p.ID], opt)
	}
	return items
}

// BuildByPriority flattens by-priority groups, one priorityHeader per
// bucket in the groups' own order. An empty bucket still emits its
// header.
func BuildByPriority(g PriorityGroups, opt SortOption) []Item {
	var items []Item
	for _, p := range g.Order {
		items = append(items, Item{Kind: KindPriorityHeader, Priority: p})
		items = appendTasks(items, g.ByPriority[p], opt)
	}
	return items
}

func appendTasks(items []Item, tasks []model.Task, opt SortOption) []Item {
	for _, t := range sortedTasks(tasks, opt) {
		tt := t
		items = append(items, Item{Kind: KindTask, Task: &tt})
	}
	return items
}

// sortedTasks returns a sorted copy; ties keep input order, and the input
// slice is left alone so callers can reuse it across views.
func sortedTasks(tasks []model.Task, opt SortOption) []model.Task {
	out := append([]model.Task(nil), tasks...)

	var less func(a, b model.Task) bool
	switch opt {
	case SortPriority:
		less = func(a, b model.Task) bool { return a.Priority.Rank() < b.Priority.Rank() }
	case SortDate:
		less = func(a, b model.Task) bool { return dueBefore(a, b) }
	case SortAlphabetical:
		less = func(a, b model.Task) bool { return a.Title < b.Title }
	case SortColour:
		less = func(a, b model.Task) bool { return model.ColourRank(a.Colour) < model.ColourRank(b.Colour) }
	default:
		less = func(a, b model.Task) bool { return a.Order < b.Order }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// dueBefore orders by due date ascending; tasks without one sort last.
func dueBefore(a, b model.Task) bool {
	switch {
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	default:
		return a.DueDate.Before(*b.DueDate)
	}
}

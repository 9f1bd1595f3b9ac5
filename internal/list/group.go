// Package list turns a raw task snapshot into the grouped, flattened,
// header-marked sequence the list view renders. Like the stats package it
// is pure: inputs are never mutated and no call touches shared state.
package list

import (
	"github.com/reincoon/task-manager/internal/model"
)

// Groups is the by-project bucketing. Unassigned holds tasks with no
// ProjectID; ByProject has one bucket per known project, empty or not.
//
// A task whose ProjectID matches none of the supplied projects appears in
// neither bucket. Dropping such strays keeps the list view consistent
// with what the project picker can show; the behavior is pinned by tests.
type Groups struct {
	Unassigned []model.Task
	ByProject  map[string][]model.Task
}

// GroupByProject buckets tasks under the supplied projects. Every project
// gets an entry, and relative task order within a bucket follows the
// input.
func GroupByProject(tasks []model.Task, projects []model.Project) Groups {
	g := Groups{
		Unassigned: []model.Task{},
		ByProject:  make(map[string][]model.Task, len(projects)),
	}
	for _, p := range projects {
		g.ByProject[p.ID] = []model.Task{}
	}
	for _, t := range tasks {
		if t.ProjectID == "" {
			g.Unassigned = append(g.Unassigned, t)
			continue
		}
		if bucket, ok := g.ByProject[t.ProjectID]; ok {
			g.ByProject[t.ProjectID] = append(bucket, t)
		}
	}
	return g
}

// PriorityGroups is the by-priority bucketing. Order lists the bucket
// keys in display order: the supplied canonical levels first, then any
// unexpected priorities in the order they were first seen.
type PriorityGroups struct {
	Order      []model.Priority
	ByPriority map[model.Priority][]model.Task
}

// GroupByPriority buckets tasks by priority. Priorities outside the
// supplied list get an ad hoc bucket rather than being dropped.
func GroupByPriority(tasks []model.Task, priorities []model.Priority) PriorityGroups {
	g := PriorityGroups{
		Order:      append([]model.Priority(nil), priorities...),
		ByPriority: make(map[model.Priority][]model.Task, len(priorities)),
	}
	for _, p := range priorities {
		g.ByPriority[p] = []model.Task{}
	}
	for _, t := range tasks {
		if _, ok := g.ByPriority[t.Priority]; !ok {
			g.Order = append(g.Order, t.Priority)
			g.ByPriority[t.Priority] = []model.Task{}
		}
		g.ByPriority[t.Priority] = append(g.ByPriority[t.Priority], t)
	}
	return g
}

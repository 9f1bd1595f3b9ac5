package task

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/reincoon/task-manager/internal/model"
)

// MemoryRepo keeps tasks in a map behind a RWMutex (dev/test use).
type MemoryRepo struct {
	mu    sync.RWMutex
	tasks map[model.TaskID]model.Task
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{tasks: map[model.TaskID]model.Task{}}
}

func (r *MemoryRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	t.ID = NewID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	Normalize(&t)

	r.tasks[t.ID] = t
	return t, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id model.TaskID) (model.Task, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	return t, ok, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id model.TaskID, p Patch) (model.Task, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	if err := p.Apply(&t); err != nil {
		return model.Task{}, err
	}
	t.UpdatedAt = time.Now()
	r.tasks[id] = t
	return t, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id model.TaskID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, f ListFilter) ([]model.Task, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	sortTasks(out)
	return out, nil
}

// sortTasks gives List a stable, creation-ordered result; map iteration
// order would otherwise leak into every consumer.
func sortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}

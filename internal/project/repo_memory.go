package project

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/reincoon/task-manager/internal/model"
)

type MemoryRepo struct {
	mu sync.RWMutex
	m  map[string]model.Project
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{m: map[string]model.Project{}}
}

func (r *MemoryRepo) Create(ctx context.Context, p model.Project) (model.Project, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	p.ID = NewID()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.m[p.ID] = p
	return p, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (model.Project, bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.m[id]
	return p, ok, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id string, patch Patch) (model.Project, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.m[id]
	if !ok {
		return model.Project{}, ErrNotFound
	}
	patch.Apply(&p)
	p.UpdatedAt = time.Now()
	r.m[id] = p
	return p, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m[id]; !ok {
		return ErrNotFound
	}
	delete(r.m, id)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]model.Project, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Project, 0, len(r.m))
	for _, p := range r.m {
		out = append(out, p)
	}
	sortProjects(out)
	return out, nil
}

func sortProjects(projects []model.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		if !projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].CreatedAt.Before(projects[j].CreatedAt)
		}
		return projects[i].ID < projects[j].ID
	})
}

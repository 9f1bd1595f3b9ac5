package project

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/reincoon/task-manager/internal/model"
)

type fileState struct {
	Users map[string]userProjectState `json:"users"`
}

type userProjectState struct {
	Projects map[string]model.Project `json:"projects"`
}

type fileStore struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

// FileRepo persists projects as a single JSON document, user-scoped like
// the task FileRepo.
type FileRepo struct {
	store  *fileStore
	userID string
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	st := &fileStore{
		path: filepath.Join(dataDir, "projects.json"),
		s:    fileState{Users: map[string]userProjectState{}},
	}
	if err := st.load(); err != nil {
		return nil, err
	}
	return &FileRepo{store: st, userID: "default"}, nil
}

func (r *FileRepo) ForUser(userID string) *FileRepo {
	if userID == "" {
		userID = "default"
	}
	return &FileRepo{store: r.store, userID: userID}
}

func (s *fileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.s = fileState{Users: map[string]userProjectState{}}
			return nil
		}
		return err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Users == nil {
		loaded.Users = map[string]userProjectState{}
	}
	for uid, us := range loaded.Users {
		if us.Projects == nil {
			us.Projects = map[string]model.Project{}
			loaded.Users[uid] = us
		}
	}
	s.s = loaded
	return nil
}

func (s *fileStore) saveLocked() error {
	b, err := json.MarshalIndent(s.s, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) userLocked(userID string) userProjectState {
	us, ok := s.s.Users[userID]
	if !ok {
		us = userProjectState{Projects: map[string]model.Project{}}
		s.s.Users[userID] = us
	}
	return us
}

func (r *FileRepo) Create(ctx context.Context, p model.Project) (model.Project, error) {
	_ = ctx
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	p.ID = NewID()
	p.CreatedAt = now
	p.UpdatedAt = now

	us := r.store.userLocked(r.userID)
	us.Projects[p.ID] = p
	if err := r.store.saveLocked(); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

func (r *FileRepo) Get(ctx context.Context, id string) (model.Project, bool, error) {
	_ = ctx
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	us, ok := r.store.s.Users[r.userID]
	if !ok {
		return model.Project{}, false, nil
	}
	p, ok := us.Projects[id]
	return p, ok, nil
}

func (r *FileRepo) Update(ctx context.Context, id string, patch Patch) (model.Project, error) {
	_ = ctx
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	us := r.store.userLocked(r.userID)
	p, ok := us.Projects[id]
	if !ok {
		return model.Project{}, ErrNotFound
	}
	patch.Apply(&p)
	p.UpdatedAt = time.Now()
	us.Projects[id] = p
	if err := r.store.saveLocked(); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

func (r *FileRepo) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	us := r.store.userLocked(r.userID)
	if _, ok := us.Projects[id]; !ok {
		return ErrNotFound
	}
	delete(us.Projects, id)
	return r.store.saveLocked()
}

func (r *FileRepo) List(ctx context.Context) ([]model.Project, error) {
	_ = ctx
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	us, ok := r.store.s.Users[r.userID]
	if !ok {
		return []model.Project{}, nil
	}
	out := make([]model.Project, 0, len(us.Projects))
	for _, p := range us.Projects {
		out = append(out, p)
	}
	sortProjects(out)
	return out, nil
}

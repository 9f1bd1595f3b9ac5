package task

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
	Users map[string]userTaskState `json:"users"`
}

type userTaskState struct {
	Tasks map[model.TaskID]model.Task `json:"tasks"`
}

func newFileState() fileState {
	return fileState{Users: map[string]userTaskState{}}
}

type fileStore struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

// FileRepo is a persistent task repository backed by a single JSON
// document per data dir. It is user-scoped; call ForUser(userID) to get a
// scoped view sharing the same underlying store.
type FileRepo struct {
	store  *fileStore
	userID string
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	st := &fileStore{
		path: filepath.Join(dataDir, "tasks.json"),
		s:    newFileState(),
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
			s.s = newFileState()
			return nil
		}
		return err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Users == nil {
		loaded.Users = map[string]userTaskState{}
	}
	for uid, us := range loaded.Users {
		if us.Tasks == nil {
			us.Tasks = map[model.TaskID]model.Task{}
			loaded.Users[uid] = us
		}
	}
	s.s = loaded
	return nil
}

// saveLocked persists the state; callers must hold the write lock.
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

func (s *fileStore) userLocked(userID string) userTaskState {
	us, ok := s.s.Users[userID]
	if !ok {
		us = userTaskState{Tasks: map[model.TaskID]model.Task{}}
		s.s.Users[userID] = us
	}
	return us
}

func (r *FileRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	_ = ctx
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	t.ID = NewID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	Normalize(&t)

	us := r.store.userLocked(r.userID)
	us.Tasks[t.ID] = t
	if err := r.store.saveLocked(); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *FileRepo) Get(ctx context.Context, id model.TaskID) (model.Task, bool, error) {
	_ = ctx
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	us, ok := r.store.s.Users[r.userID]
	if !ok {
		return model.Task{}, false, nil
	}
	t, ok := us.Tasks[id]
	return t, ok, nil
}

func (r *FileRepo) Update(ctx context.Context, id model.TaskID, p Patch) (model.Task, error) {
	_ = ctx
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	us := r.store.userLocked(r.userID)
	t, ok := us.Tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	if err := p.Apply(&t); err != nil {
		return model.Task{}, err
	}
	t.UpdatedAt = time.Now()
	us.Tasks[id] = t
	if err := r.store.saveLocked(); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *FileRepo) Delete(ctx context.Context, id model.TaskID) error {
	_ = ctx
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	us := r.store.userLocked(r.userID)
	if _, ok := us.Tasks[id]; !ok {
		return ErrNotFound
	}
	delete(us.Tasks, id)
	return r.store.saveLocked()
}

func (r *FileRepo) List(ctx context.Context, f ListFilter) ([]model.Task, error) {
	_ = ctx
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	us, ok := r.store.s.Users[r.userID]
	if !ok {
		return []model.Task{}, nil
	}
	out := make([]model.Task, 0, len(us.Tasks))
	for _, t := range us.Tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	sortTasks(out)
	return out, nil
}

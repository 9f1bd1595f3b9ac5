package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/reincoon/task-manager/internal/model"
	"github.com/reincoon/task-manager/internal/project"
	"github.com/reincoon/task-manager/internal/task"
)

// Store wraps a SQLite handle and hands out user-scoped task and project
// repositories over it.
type Store struct {
	db     *sql.DB
	userID string
}

func NewStore(sqlDB *sql.DB) *Store {
	return &Store{db: sqlDB, userID: "default"}
}

func (s *Store) ForUser(userID string) *Store {
	if userID == "" {
		userID = "default"
	}
	return &Store{db: s.db, userID: userID}
}

func (s *Store) Tasks() task.Repo {
	return &taskRepo{s}
}

func (s *Store) Projects() project.Repo {
	return &projectRepo{s}
}

type taskRepo struct {
	s *Store
}

const taskColumns = `id, title, description, project_id, priority, task_order, colour, subtasks, due_date, completed_at, created_at, updated_at`

func (r *taskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	now := time.Now()
	t.ID = task.NewID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	task.Normalize(&t)

	subtasks, err := json.Marshal(t.Subtasks)
	if err != nil {
		return model.Task{}, err
	}

	_, err = r.s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, description, project_id, priority, task_order, colour, subtasks, due_date, completed_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(t.ID), r.s.userID, t.Title, t.Description, t.ProjectID, string(t.Priority),
		t.Order, t.Colour, string(subtasks), nullTime(t.DueDate), nullTime(t.CompletedAt),
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *taskRepo) Get(ctx context.Context, id model.TaskID) (model.Task, bool, error) {
	row := r.s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`,
		string(id), r.s.userID,
	)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return model.Task{}, false, nil
	}
	if err != nil {
		return model.Task{}, false, err
	}
	return t, true, nil
}

func (r *taskRepo) Update(ctx context.Context, id model.TaskID, p task.Patch) (model.Task, error) {
	t, ok, err := r.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	if !ok {
		return model.Task{}, task.ErrNotFound
	}
	if err := p.Apply(&t); err != nil {
		return model.Task{}, err
	}
	t.UpdatedAt = time.Now()

	subtasks, err := json.Marshal(t.Subtasks)
	if err != nil {
		return model.Task{}, err
	}

	_, err = r.s.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, project_id = ?, priority = ?, task_order = ?, colour = ?, subtasks = ?, due_date = ?, completed_at = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		t.Title, t.Description, t.ProjectID, string(t.Priority), t.Order, t.Colour,
		string(subtasks), nullTime(t.DueDate), nullTime(t.CompletedAt), t.UpdatedAt,
		string(id), r.s.userID,
	)
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *taskRepo) Delete(ctx context.Context, id model.TaskID) error {
	res, err := r.s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, string(id), r.s.userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return task.ErrNotFound
	}
	return nil
}

func (r *taskRepo) List(ctx context.Context, f task.ListFilter) ([]model.Task, error) {
	rows, err := r.s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY created_at, id`,
		r.s.userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		t           model.Task
		id          string
		priority    string
		subtasksRaw string
		due         sql.NullTime
		completed   sql.NullTime
	)
	err := row.Scan(&id, &t.Title, &t.Description, &t.ProjectID, &priority,
		&t.Order, &t.Colour, &subtasksRaw, &due, &completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Task{}, err
	}
	t.ID = model.TaskID(id)
	t.Priority = model.Priority(priority)
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	if completed.Valid {
		c := completed.Time
		t.CompletedAt = &c
	}
	if err := json.Unmarshal([]byte(subtasksRaw), &t.Subtasks); err != nil {
		// A corrupt checklist document should not take the whole task
		// with it.
		t.Subtasks = []model.Subtask{}
	}
	if t.Subtasks == nil {
		t.Subtasks = []model.Subtask{}
	}
	return t, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

type projectRepo struct {
	s *Store
}

func (r *projectRepo) Create(ctx context.Context, p model.Project) (model.Project, error) {
	now := time.Now()
	p.ID = project.NewID()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.s.db.ExecContext(ctx,
		`INSERT INTO projects (id, user_id, name, colour, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, r.s.userID, p.Name, p.Colour, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return model.Project{}, err
	}
	return p, nil
}

func (r *projectRepo) Get(ctx context.Context, id string) (model.Project, bool, error) {
	var p model.Project
	err := r.s.db.QueryRowContext(ctx,
		`SELECT id, name, colour, created_at, updated_at FROM projects WHERE id = ? AND user_id = ?`,
		id, r.s.userID,
	).Scan(&p.ID, &p.Name, &p.Colour, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Project{}, false, nil
	}
	if err != nil {
		return model.Project{}, false, err
	}
	return p, true, nil
}

func (r *projectRepo) Update(ctx context.Context, id string, patch project.Patch) (model.Project, error) {
	p, ok, err := r.Get(ctx, id)
	if err != nil {
		return model.Project{}, err
	}
	if !ok {
		return model.Project{}, project.ErrNotFound
	}
	patch.Apply(&p)
	p.UpdatedAt = time.Now()

	_, err = r.s.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, colour = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		p.Name, p.Colour, p.UpdatedAt, id, r.s.userID,
	)
	if err != nil {
		return model.Project{}, err
	}
	return p, nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.s.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ? AND user_id = ?`, id, r.s.userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return project.ErrNotFound
	}
	return nil
}

func (r *projectRepo) List(ctx context.Context) ([]model.Project, error) {
	rows, err := r.s.db.QueryContext(ctx,
		`SELECT id, name, colour, created_at, updated_at FROM projects WHERE user_id = ? ORDER BY created_at, id`,
		r.s.userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Colour, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

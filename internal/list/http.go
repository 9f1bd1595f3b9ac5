package list

import (
	"encoding/json"
	"net/http"

	"github.com/reincoon/task-manager/internal/model"
	"github.com/reincoon/task-manager/internal/project"
	"github.com/reincoon/task-manager/internal/task"
)

type Handler struct {
	tasks               task.Repo
	projects            project.Repo
	priorities          []model.Priority
	taskRepoResolver    func(*http.Request) task.Repo
	projectRepoResolver func(*http.Request) project.Repo
}

func NewHandler(tasks task.Repo, projects project.Repo) *Handler {
	return &Handler{tasks: tasks, projects: projects, priorities: model.Priorities()}
}

// SetPriorities overrides the canonical priority display order used when
// grouping by priority.
func (h *Handler) SetPriorities(priorities []model.Priority) {
	if len(priorities) > 0 {
		h.priorities = priorities
	}
}

func (h *Handler) SetTaskRepoResolver(fn func(*http.Request) task.Repo) {
	h.taskRepoResolver = fn
}

func (h *Handler) SetProjectRepoResolver(fn func(*http.Request) project.Repo) {
	h.projectRepoResolver = fn
}

func (h *Handler) taskRepoForRequest(r *http.Request) task.Repo {
	if h.taskRepoResolver != nil {
		if repo := h.taskRepoResolver(r); repo != nil {
			return repo
		}
	}
	return h.tasks
}

func (h *Handler) projectRepoForRequest(r *http.Request) project.Repo {
	if h.projectRepoResolver != nil {
		if repo := h.projectRepoResolver(r); repo != nil {
			return repo
		}
	}
	return h.projects
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// List serves GET /api/list?group=project|priority&sort=<option>.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opt := SortOption(r.URL.Query().Get("sort"))

	tasks, err := h.taskRepoForRequest(r).List(ctx, task.ListFilter{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	var items []Item
	switch r.URL.Query().Get("group") {
	case "priority":
		items = BuildByPriority(GroupByPriority(tasks, h.priorities), opt)
	default:
		projects, err := h.projectRepoForRequest(r).List(ctx)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		items = Build(GroupByProject(tasks, projects), projects, opt)
	}

	writeJSON(w, http.StatusOK, items)
}

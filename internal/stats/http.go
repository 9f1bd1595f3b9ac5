package stats

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/reincoon/task-manager/internal/model"
	"github.com/reincoon/task-manager/internal/project"
	"github.com/reincoon/task-manager/internal/task"
)

// Handler serves the reporting endpoints. It only ever reads: each
// request loads a snapshot from the repos and runs the pure builders over
// it.
type Handler struct {
	tasks               task.Repo
	projects            project.Repo
	taskRepoResolver    func(*http.Request) task.Repo
	projectRepoResolver func(*http.Request) project.Repo

	// now is swappable so trend windows can be pinned in tests.
	now func() time.Time
}

func NewHandler(tasks task.Repo, projects project.Repo) *Handler {
	return &Handler{tasks: tasks, projects: projects, now: time.Now}
}

func (h *Handler) SetTaskRepoResolver(fn func(*http.Request) task.Repo) {
	h.taskRepoResolver = fn
}

func (h *Handler) SetProjectRepoResolver(fn func(*http.Request) project.Repo) {
	h.projectRepoResolver = fn
}

func (h *Handler) SetNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
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

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// filterFromQuery builds a Filter from start/end/project/priority query
// params. Unparseable dates impose no constraint; the reporting path
// degrades instead of erroring.
func filterFromQuery(r *http.Request) Filter {
	q := r.URL.Query()
	return Filter{
		Start:    parseQueryTime(q.Get("start"), false),
		End:      parseQueryTime(q.Get("end"), true),
		Project:  q.Get("project"),
		Priority: q.Get("priority"),
	}
}

// parseQueryTime accepts RFC3339 or a bare calendar day. A bare day used
// as an end bound covers the whole day.
func parseQueryTime(s string, endOfDay bool) *time.Time {
	if s == "" {
		return nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return &ts
	}
	ts, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil
	}
	if endOfDay {
		ts = ts.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &ts
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) ([]model.Task, []model.Project, bool) {
	tasks, err := h.taskRepoForRequest(r).List(r.Context(), task.ListFilter{})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	projects, err := h.projectRepoForRequest(r).List(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	return tasks, projects, true
}

// Summary serves GET /api/stats/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	tasks, projects, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, Summarize(tasks, projects, filterFromQuery(r)))
}

// Chart serves GET /api/stats/charts/{chart}.
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	tasks, projects, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	f := filterFromQuery(r)

	switch r.PathValue("chart") {
	case "priority":
		writeJSON(w, http.StatusOK, ClosedTasksByPriority(tasks, f))
	case "subtask-priority":
		writeJSON(w, http.StatusOK, ClosedSubtasksByPriority(tasks, f))
	case "subtasks":
		writeJSON(w, http.StatusOK, SubtaskPie(tasks, f))
	case "projects":
		writeJSON(w, http.StatusOK, ProjectPie(projects, tasks, f))
	default:
		writeErr(w, http.StatusNotFound, "unknown chart")
	}
}

// Trend serves GET /api/stats/trend?metric=<name>. Unknown metric names
// fall back to the tasks-completed trend.
func (h *Handler) Trend(w http.ResponseWriter, r *http.Request) {
	tasks, projects, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	metric := r.URL.Query().Get("metric")
	writeJSON(w, http.StatusOK, TrendForMetric(metric, tasks, projects, filterFromQuery(r), h.now()))
}

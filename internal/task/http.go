package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/reincoon/task-manager/internal/model"
)

type Handler struct {
	repo         Repo
	repoResolver func(*http.Request) Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo}
}

// SetRepoResolver lets the server swap in a per-request (per-user) repo.
func (h *Handler) SetRepoResolver(fn func(*http.Request) Repo) {
	h.repoResolver = fn
}

func (h *Handler) repoForRequest(r *http.Request) Repo {
	if h.repoResolver != nil {
		if repo := h.repoResolver(r); repo != nil {
			return repo
		}
	}
	return h.repo
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

type createRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ProjectID   string          `json:"projectId"`
	Priority    string          `json:"priority"`
	Order       int             `json:"order"`
	Colour      string          `json:"colour"`
	DueDate     string          `json:"dueDate"`
	Subtasks    []model.Subtask `json:"subtasks"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilter{
		Status:   q.Get("status"),
		Project:  q.Get("project"),
		Priority: q.Get("priority"),
	}
	tasks, err := h.repoForRequest(r).List(r.Context(), f)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeErr(w, http.StatusBadRequest, "title is required")
		return
	}

	t := model.Task{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		Priority:    model.Priority(req.Priority),
		Order:       req.Order,
		Colour:      req.Colour,
		Subtasks:    req.Subtasks,
	}
	if req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid dueDate: "+err.Error())
			return
		}
		t.DueDate = &due
	}

	created, err := h.repoForRequest(r).Create(r.Context(), t)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.TaskID(r.PathValue("id"))
	t, ok, err := h.repoForRequest(r).Get(r.Context(), id)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeErr(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id := model.TaskID(r.PathValue("id"))
	var p Patch
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	h.update(w, r, id, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.TaskID(r.PathValue("id"))
	if err := h.repoForRequest(r).Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeErr(w, http.StatusNotFound, "task not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// Complete stamps CompletedAt with the current time. Completing an
// already-closed task refreshes the stamp.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id := model.TaskID(r.PathValue("id"))
	now := time.Now().Format(time.RFC3339)
	h.update(w, r, id, Patch{CompletedAt: &now})
}

// Reopen clears CompletedAt.
func (h *Handler) Reopen(w http.ResponseWriter, r *http.Request) {
	id := model.TaskID(r.PathValue("id"))
	empty := ""
	h.update(w, r, id, Patch{CompletedAt: &empty})
}

// ToggleSubtask flips the completion state of the subtask at the given
// position.
func (h *Handler) ToggleSubtask(w http.ResponseWriter, r *http.Request) {
	id := model.TaskID(r.PathValue("id"))
	idx, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || idx < 0 {
		writeErr(w, http.StatusBadRequest, "invalid subtask index")
		return
	}

	repo := h.repoForRequest(r)
	t, ok, err := repo.Get(r.Context(), id)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeErr(w, http.StatusNotFound, "task not found")
		return
	}
	if idx >= len(t.Subtasks) {
		writeErr(w, http.StatusBadRequest, "subtask index out of range")
		return
	}

	subtasks := append([]model.Subtask(nil), t.Subtasks...)
	subtasks[idx].Completed = !subtasks[idx].Completed
	h.update(w, r, id, Patch{Subtasks: &subtasks})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id model.TaskID, p Patch) {
	updated, err := h.repoForRequest(r).Update(r.Context(), id, p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeErr(w, http.StatusNotFound, "task not found")
			return
		}
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

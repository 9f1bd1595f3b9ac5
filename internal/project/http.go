package project

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/reincoon/task-manager/internal/model"
	"github.com/reincoon/task-manager/internal/task"
)

type Handler struct {
	repo             Repo
	taskRepo         task.Repo
	repoResolver     func(*http.Request) Repo
	taskRepoResolver func(*http.Request) task.Repo
}

func NewHandler(repo Repo, taskRepo task.Repo) *Handler {
	return &Handler{repo: repo, taskRepo: taskRepo}
}

func (h *Handler) SetRepoResolver(fn func(*http.Request) Repo) {
	h.repoResolver = fn
}

func (h *Handler) SetTaskRepoResolver(fn func(*http.Request) task.Repo) {
	h.taskRepoResolver = fn
}

func (h *Handler) repoForRequest(r *http.Request) Repo {
	if h.repoResolver != nil {
		if repo := h.repoResolver(r); repo != nil {
			return repo
		}
	}
	return h.repo
}

func (h *Handler) taskRepoForRequest(r *http.Request) task.Repo {
	if h.taskRepoResolver != nil {
		if repo := h.taskRepoResolver(r); repo != nil {
			return repo
		}
	}
	return h.taskRepo
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

type createRequest struct {
	Name   string `json:"name"`
	Colour string `json:"colour"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.repoForRequest(r).List(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeErr(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.repoForRequest(r).Create(r.Context(), model.Project{
		Name:   req.Name,
		Colour: req.Colour,
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok, err := h.repoForRequest(r).Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeErr(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	updated, err := h.repoForRequest(r).Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeErr(w, http.StatusNotFound, "project not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes the project and detaches its tasks; the tasks survive as
// unassigned rather than cascading away.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	repo := h.repoForRequest(r)

	if err := repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeErr(w, http.StatusNotFound, "project not found")
			return
		}
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	detached := 0
	if taskRepo := h.taskRepoForRequest(r); taskRepo != nil {
		tasks, err := taskRepo.List(r.Context(), task.ListFilter{Project: id})
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		empty := ""
		for _, t := range tasks {
			if _, err := taskRepo.Update(r.Context(), t.ID, task.Patch{ProjectID: &empty}); err != nil {
				writeErr(w, http.StatusInternalServerError, err.Error())
				return
			}
			detached++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": id, "detachedTasks": detached})
}

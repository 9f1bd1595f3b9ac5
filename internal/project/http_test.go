package project

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reincoon/task-manager/internal/model"
	"github.com/reincoon/task-manager/internal/task"
)

func newTestServer(t *testing.T) (*httptest.Server, *MemoryRepo, *task.MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	taskRepo := task.NewMemoryRepo()
	h := NewHandler(repo, taskRepo)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects", h.List)
	mux.HandleFunc("POST /api/projects", h.Create)
	mux.HandleFunc("GET /api/projects/{id}", h.Get)
	mux.HandleFunc("PATCH /api/projects/{id}", h.Patch)
	mux.HandleFunc("DELETE /api/projects/{id}", h.Delete)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, repo, taskRepo
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestHTTP_CreateGetPatch(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, created := doJSON(t, "POST", srv.URL+"/api/projects", `{"name":"Kitchen","colour":"orange"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	resp, got := doJSON(t, "GET", srv.URL+"/api/projects/"+id, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Kitchen", got["name"])

	resp, patched := doJSON(t, "PATCH", srv.URL+"/api/projects/"+id, `{"name":"Kitchen Remodel"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Kitchen Remodel", patched["name"])
	assert.Equal(t, "orange", patched["colour"])
}

func TestHTTP_CreateRequiresName(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, _ := doJSON(t, "POST", srv.URL+"/api/projects", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_DeleteDetachesTasks(t *testing.T) {
	srv, _, taskRepo := newTestServer(t)
	ctx := context.Background()

	_, created := doJSON(t, "POST", srv.URL+"/api/projects", `{"name":"Attic"}`)
	id := created["id"].(string)

	inProject, err := taskRepo.Create(ctx, model.Task{Title: "clear boxes", ProjectID: id})
	require.NoError(t, err)
	elsewhere, err := taskRepo.Create(ctx, model.Task{Title: "unrelated", ProjectID: "proj_other"})
	require.NoError(t, err)

	resp, body := doJSON(t, "DELETE", srv.URL+"/api/projects/"+id, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["detachedTasks"])

	got, ok, err := taskRepo.Get(ctx, inProject.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, got.ProjectID, "task should survive project deletion unassigned")

	other, _, err := taskRepo.Get(ctx, elsewhere.ID)
	require.NoError(t, err)
	assert.Equal(t, "proj_other", other.ProjectID)
}

func TestHTTP_NotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, _ := doJSON(t, "GET", srv.URL+"/api/projects/proj_missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, "DELETE", srv.URL+"/api/projects/proj_missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

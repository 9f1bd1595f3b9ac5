package serverapp

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reincoon/task-manager/internal/config"
	"github.com/reincoon/task-manager/internal/stats"
)

func newApp(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
		cfg.Storage.Backend = "memory"
	}
	h, err := NewHandler(Options{Config: cfg, Logger: log.New(io.Discard, "", 0)})
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestApp_Healthz(t *testing.T) {
	srv := newApp(t, nil)

	resp, body := do(t, "GET", srv.URL+"/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestApp_TaskLifecycleToStats(t *testing.T) {
	srv := newApp(t, nil)

	_, proj := do(t, "POST", srv.URL+"/api/projects", `{"name":"Bathroom","colour":"blue"}`, nil)
	projectID := proj["id"].(string)

	_, taskA := do(t, "POST", srv.URL+"/api/tasks",
		`{"title":"regrout tiles","projectId":"`+projectID+`","priority":"High"}`, nil)
	_, _ = do(t, "POST", srv.URL+"/api/tasks",
		`{"title":"replace mirror","priority":"Low"}`, nil)

	resp, _ := do(t, "POST", srv.URL+"/api/tasks/"+taskA["id"].(string)+"/complete", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := http.Get(srv.URL + "/api/stats/summary")
	require.NoError(t, err)
	defer resp.Body.Close()

	var s stats.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, 2, s.TotalTasks)
	assert.Equal(t, 1, s.ClosedTasks)
	assert.Equal(t, 1, s.TotalProjects)

	// The mirror task is unassigned, so the project's only task is closed
	// and the project counts as completed.
	assert.Equal(t, 1, s.CompletedProjects)
}

func TestApp_ListGrouping(t *testing.T) {
	srv := newApp(t, nil)

	_, proj := do(t, "POST", srv.URL+"/api/projects", `{"name":"Garage"}`, nil)
	projectID := proj["id"].(string)
	do(t, "POST", srv.URL+"/api/tasks", `{"title":"sort tools","projectId":"`+projectID+`"}`, nil)
	do(t, "POST", srv.URL+"/api/tasks", `{"title":"loose end"}`, nil)

	resp, err := http.Get(srv.URL + "/api/list?group=project")
	require.NoError(t, err)
	defer resp.Body.Close()

	var items []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))

	kinds := make([]string, 0, len(items))
	for _, it := range items {
		kinds = append(kinds, it["type"].(string))
	}
	assert.Equal(t, []string{"noProjectHeader", "task", "projectHeader", "task"}, kinds)
}

func TestApp_UserScopingWithFileBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "file"
	cfg.Storage.DataDir = t.TempDir()
	srv := newApp(t, cfg)

	alice := map[string]string{"X-User-Id": "alice"}
	bob := map[string]string{"X-User-Id": "bob"}

	resp, created := do(t, "POST", srv.URL+"/api/tasks", `{"title":"alice only"}`, alice)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := created["id"].(string)

	resp, _ = do(t, "GET", srv.URL+"/api/tasks/"+id, "", bob)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, "GET", srv.URL+"/api/tasks/"+id, "", alice)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_SqliteBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.DBPath = t.TempDir() + "/tasks.db"
	srv := newApp(t, cfg)

	resp, created := do(t, "POST", srv.URL+"/api/tasks", `{"title":"persisted"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, got := do(t, "GET", srv.URL+"/api/tasks/"+created["id"].(string), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "persisted", got["title"])
}

func TestApp_UnknownBackendRejected(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "postgres"

	_, err := NewHandler(Options{Config: cfg})
	require.Error(t, err)
}

func TestApp_Dashboard(t *testing.T) {
	srv := newApp(t, nil)

	resp, err := http.Get(srv.URL + "/_/dashboard")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/_/dashboard/routes.json")
	require.NoError(t, err)
	defer resp2.Body.Close()

	var routes []map[string]any
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&routes))
	assert.NotEmpty(t, routes)
}

package list

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reincoon/task-manager/internal/model"
	"github.com/reincoon/task-manager/internal/project"
	"github.com/reincoon/task-manager/internal/task"
)

func newListServer(t *testing.T) (*httptest.Server, task.Repo, project.Repo, *Handler) {
	t.Helper()
	taskRepo := task.NewMemoryRepo()
	projectRepo := project.NewMemoryRepo()
	h := NewHandler(taskRepo, projectRepo)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/list", h.List)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, taskRepo, projectRepo, h
}

func getItems(t *testing.T, url string) []Item {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	return items
}

func TestHTTP_ListByProject(t *testing.T) {
	srv, taskRepo, projectRepo, _ := newListServer(t)
	ctx := context.Background()

	p, err := projectRepo.Create(ctx, model.Project{Name: "Shed"})
	require.NoError(t, err)
	_, err = taskRepo.Create(ctx, model.Task{Title: "in project", ProjectID: p.ID})
	require.NoError(t, err)
	_, err = taskRepo.Create(ctx, model.Task{Title: "loose"})
	require.NoError(t, err)

	items := getItems(t, srv.URL+"/api/list")
	require.Len(t, items, 4)
	assert.Equal(t, KindNoProjectHeader, items[0].Kind)
	assert.Equal(t, "loose", items[1].Task.Title)
	assert.Equal(t, KindProjectHeader, items[2].Kind)
	assert.Equal(t, "Shed", items[2].Project.Name)
	assert.Equal(t, "in project", items[3].Task.Title)
}

func TestHTTP_ListByPriority(t *testing.T) {
	srv, taskRepo, _, _ := newListServer(t)
	ctx := context.Background()

	_, err := taskRepo.Create(ctx, model.Task{Title: "urgent", Priority: model.PriorityCritical})
	require.NoError(t, err)

	items := getItems(t, srv.URL+"/api/list?group=priority")

	var headers []model.Priority
	for _, it := range items {
		if it.Kind == KindPriorityHeader {
			headers = append(headers, it.Priority)
		}
	}
	assert.Equal(t, model.Priorities(), headers, "every canonical level gets a header, empty or not")

	assert.Equal(t, KindPriorityHeader, items[len(items)-2].Kind)
	assert.Equal(t, model.PriorityCritical, items[len(items)-2].Priority)
	assert.Equal(t, "urgent", items[len(items)-1].Task.Title)
}

func TestHTTP_ListSortOption(t *testing.T) {
	srv, taskRepo, _, _ := newListServer(t)
	ctx := context.Background()

	_, err := taskRepo.Create(ctx, model.Task{Title: "zebra"})
	require.NoError(t, err)
	_, err = taskRepo.Create(ctx, model.Task{Title: "apple"})
	require.NoError(t, err)

	items := getItems(t, srv.URL+"/api/list?sort=alphabetical")
	require.Len(t, items, 3)
	assert.Equal(t, "apple", items[1].Task.Title)
	assert.Equal(t, "zebra", items[2].Task.Title)
}

func TestHTTP_ListCustomPriorityOrder(t *testing.T) {
	srv, _, _, h := newListServer(t)
	h.SetPriorities([]model.Priority{"Urgent", "Whenever"})

	items := getItems(t, srv.URL+"/api/list?group=priority")
	require.Len(t, items, 2)
	assert.Equal(t, model.Priority("Urgent"), items[0].Priority)
	assert.Equal(t, model.Priority("Whenever"), items[1].Priority)
}

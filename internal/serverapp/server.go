// Package serverapp assembles the HTTP application: storage backend,
// domain handlers, reporting routes, dashboard, and middleware.
package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/reincoon/task-manager/internal/config"
	"github.com/reincoon/task-manager/internal/db"
	"github.com/reincoon/task-manager/internal/httpmw"
	"github.com/reincoon/task-manager/internal/list"
	"github.com/reincoon/task-manager/internal/model"
	"github.com/reincoon/task-manager/internal/project"
	"github.com/reincoon/task-manager/internal/server"
	"github.com/reincoon/task-manager/internal/stats"
	"github.com/reincoon/task-manager/internal/task"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger
}

type repos struct {
	tasksFor    func(*http.Request) task.Repo
	projectsFor func(*http.Request) project.Repo
}

// NewHandler builds the full application handler from the config.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	rp, err := buildRepos(opts.Config)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":      true,
			"service": "task-manager",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	taskHandler := task.NewHandler(nil)
	taskHandler.SetRepoResolver(rp.tasksFor)
	server.Handle(mux, rr, "GET /api/tasks", "List tasks (status/project/priority filters)", taskHandler.List)
	server.Handle(mux, rr, "POST /api/tasks", "Create a task", taskHandler.Create)
	server.Handle(mux, rr, "GET /api/tasks/{id}", "Fetch one task", taskHandler.Get)
	server.Handle(mux, rr, "PATCH /api/tasks/{id}", "Partially update a task", taskHandler.Patch)
	server.Handle(mux, rr, "DELETE /api/tasks/{id}", "Delete a task", taskHandler.Delete)
	server.Handle(mux, rr, "POST /api/tasks/{id}/complete", "Mark a task completed", taskHandler.Complete)
	server.Handle(mux, rr, "POST /api/tasks/{id}/reopen", "Reopen a completed task", taskHandler.Reopen)
	server.Handle(mux, rr, "POST /api/tasks/{id}/subtasks/{index}/toggle", "Toggle a subtask", taskHandler.ToggleSubtask)

	projectHandler := project.NewHandler(nil, nil)
	projectHandler.SetRepoResolver(rp.projectsFor)
	projectHandler.SetTaskRepoResolver(rp.tasksFor)
	server.Handle(mux, rr, "GET /api/projects", "List projects", projectHandler.List)
	server.Handle(mux, rr, "POST /api/projects", "Create a project", projectHandler.Create)
	server.Handle(mux, rr, "GET /api/projects/{id}", "Fetch one project", projectHandler.Get)
	server.Handle(mux, rr, "PATCH /api/projects/{id}", "Rename or recolour a project", projectHandler.Patch)
	server.Handle(mux, rr, "DELETE /api/projects/{id}", "Delete a project, detaching its tasks", projectHandler.Delete)

	listHandler := list.NewHandler(nil, nil)
	listHandler.SetTaskRepoResolver(rp.tasksFor)
	listHandler.SetProjectRepoResolver(rp.projectsFor)
	listHandler.SetPriorities(priorityLevels(opts.Config))
	server.Handle(mux, rr, "GET /api/list", "Grouped, sorted display list (group=project|priority)", listHandler.List)

	statsHandler := stats.NewHandler(nil, nil)
	statsHandler.SetTaskRepoResolver(rp.tasksFor)
	statsHandler.SetProjectRepoResolver(rp.projectsFor)
	server.Handle(mux, rr, "GET /api/stats/summary", "Summary counters over the filtered snapshot", statsHandler.Summary)
	server.Handle(mux, rr, "GET /api/stats/charts/{chart}", "Chart data (priority|subtask-priority|subtasks|projects)", statsHandler.Chart)
	server.Handle(mux, rr, "GET /api/stats/trend", "7-day trend line for a metric", statsHandler.Trend)

	server.RegisterDashboard(mux, rr, server.Repos{
		Tasks:    rp.tasksFor,
		Projects: rp.projectsFor,
	})

	return httpmw.Chain(mux,
		httpmw.WithRequestID,
		httpmw.WithUser,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRecover(opts.Logger),
	), nil
}

// buildRepos wires the configured storage backend into per-request repo
// resolvers. The file and sqlite backends scope by the request's user;
// the memory backend keeps a single shared bucket.
func buildRepos(cfg *config.Config) (repos, error) {
	switch cfg.Storage.Backend {
	case "", "memory":
		tasks := task.NewMemoryRepo()
		projects := project.NewMemoryRepo()
		return repos{
			tasksFor:    func(*http.Request) task.Repo { return tasks },
			projectsFor: func(*http.Request) project.Repo { return projects },
		}, nil

	case "file":
		taskRepo, err := task.NewFileRepo(cfg.Storage.DataDir)
		if err != nil {
			return repos{}, err
		}
		projectRepo, err := project.NewFileRepo(cfg.Storage.DataDir)
		if err != nil {
			return repos{}, err
		}
		return repos{
			tasksFor: func(r *http.Request) task.Repo {
				return taskRepo.ForUser(httpmw.UserFromContext(r.Context()))
			},
			projectsFor: func(r *http.Request) project.Repo {
				return projectRepo.ForUser(httpmw.UserFromContext(r.Context()))
			},
		}, nil

	case "sqlite":
		sqlDB, err := db.Open(cfg.Storage.DBPath)
		if err != nil {
			return repos{}, err
		}
		store := db.NewStore(sqlDB)
		return repos{
			tasksFor: func(r *http.Request) task.Repo {
				return store.ForUser(httpmw.UserFromContext(r.Context())).Tasks()
			},
			projectsFor: func(r *http.Request) project.Repo {
				return store.ForUser(httpmw.UserFromContext(r.Context())).Projects()
			},
		}, nil

	default:
		return repos{}, errors.New("unknown storage backend: " + cfg.Storage.Backend)
	}
}

func priorityLevels(cfg *config.Config) []model.Priority {
	out := make([]model.Priority, 0, len(cfg.Tasks.PriorityLevels))
	for _, lvl := range cfg.Tasks.PriorityLevels {
		out = append(out, model.Priority(lvl))
	}
	return out
}

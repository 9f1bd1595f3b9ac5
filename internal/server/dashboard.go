package server

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/reincoon/task-manager/internal/httpmw"
	"github.com/reincoon/task-manager/internal/project"
	"github.com/reincoon/task-manager/internal/stats"
	"github.com/reincoon/task-manager/internal/task"
)

//go:embed templates/dashboard.html
var dashboardTemplatesFS embed.FS

var dashboardTmpl = template.Must(
	template.New("dashboard.html").ParseFS(dashboardTemplatesFS, "templates/dashboard.html"),
)

type dashboardPageData struct {
	User    string
	Summary stats.Summary
	Routes  []RouteDoc

	PriorityChart template.JS
	SubtaskChart  template.JS
	ProjectChart  template.JS
	TrendChart    template.JS
}

// Repos supplies the per-request repositories the dashboard reads from.
type Repos struct {
	Tasks    func(*http.Request) task.Repo
	Projects func(*http.Request) project.Repo
}

// RegisterDashboard mounts the HTML statistics dashboard and its JSON
// route listing.
func RegisterDashboard(mux *http.ServeMux, rr *RouteRegistry, repos Repos) {
	mux.HandleFunc("GET /_/dashboard/routes.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(rr.List())
	})

	mux.HandleFunc("GET /_/dashboard", func(w http.ResponseWriter, r *http.Request) {
		tasks, err := repos.Tasks(r).List(r.Context(), task.ListFilter{})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		projects, err := repos.Projects(r).List(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		var f stats.Filter
		data := dashboardPageData{
			User:          httpmw.UserFromContext(r.Context()),
			Summary:       stats.Summarize(tasks, projects, f),
			Routes:        rr.List(),
			PriorityChart: chartJSON(stats.ClosedTasksByPriority(tasks, f)),
			SubtaskChart:  chartJSON(stats.SubtaskPie(tasks, f)),
			ProjectChart:  chartJSON(stats.ProjectPie(projects, tasks, f)),
			TrendChart:    chartJSON(stats.TasksCompletedTrend(tasks, f, time.Now())),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := dashboardTmpl.Execute(w, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func chartJSON(c stats.ChartData) template.JS {
	b, err := json.Marshal(c)
	if err != nil {
		return template.JS(`{"labels":[],"data":[]}`)
	}
	return template.JS(b)
}

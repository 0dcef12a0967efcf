package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talentmesh/staffmatch/internal/engine"
	"github.com/talentmesh/staffmatch/internal/events"
	"github.com/talentmesh/staffmatch/internal/store"
)

func NewRouter(s store.Store, ev events.Client, eng *engine.Engine, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	employees := NewEmployeesHandler(s)
	projects := NewProjectsHandler(s)
	runs := NewRunsHandler(s, ev)
	explain := NewExplainHandler(s)
	admin := NewAdminHandler(s, eng)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ClientIDMiddleware)

		r.Post("/employees", employees.Upsert)
		r.Get("/employees", employees.List)
		r.Get("/employees/{id}", employees.Get)
		r.Delete("/employees/{id}", employees.Delete)

		r.Post("/projects", projects.Upsert)
		r.Get("/projects", projects.List)
		r.Get("/projects/{id}", projects.Get)
		r.Delete("/projects/{id}", projects.Delete)

		r.Post("/runs", runs.Create)
		r.Get("/runs", runs.List)
		r.Get("/runs/{id}", runs.Get)
		r.Get("/runs/{id}/results", runs.Results)
		r.Get("/runs/{id}/export", runs.Export)

		r.Get("/matching/explain/{run_id}/{employee_id}", explain.Explain)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Get("/stats", admin.Stats)
			r.Post("/directory/sync", admin.SyncDirectory)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

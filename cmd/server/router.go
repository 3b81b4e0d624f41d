package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/workbenchhq/workbench-api/internal/api"
	apiMiddleware "github.com/workbenchhq/workbench-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware. Everything under /api requires a valid
// session token; /health stays public for load-balancer probes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.LocaleMiddleware(app.config.I18n.DefaultLocale))

	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	workLogHandler := api.NewWorkLogHandler(app.workLogService, app.logger)
	repositoryHandler := api.NewRepositoryHandler(app.config.GitHub, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.config.Auth.SessionSecret, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		// Task endpoints
		r.Get("/tasks", taskHandler.ListTasks)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Put("/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)

		// Work-log endpoints
		r.Post("/work-logs/entry", workLogHandler.AppendEntry)
		r.Get("/work-logs", workLogHandler.GetWorkLogs)

		// GitHub proxy endpoints
		r.Get("/github/repositories", repositoryHandler.ListRepositories)
		r.Get("/github/repositories/search", repositoryHandler.SearchRepositories)
		r.Get("/github/repositories/{owner}/{repo}", repositoryHandler.GetRepository)
		r.Get("/github/user", repositoryHandler.GetCurrentUser)
		r.Get("/github/rate_limit", repositoryHandler.GetRateLimit)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

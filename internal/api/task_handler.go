package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/workbenchhq/workbench-api/internal/api/shared"
	"github.com/workbenchhq/workbench-api/internal/domain"
	"github.com/workbenchhq/workbench-api/internal/platform/logger"
	"github.com/workbenchhq/workbench-api/internal/service"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /api/tasks requests. The repository query
// parameter is an optional filter; without it every repository's tasks
// are returned. refresh=true bypasses the read cache.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	repository := r.URL.Query().Get("repository")
	forceRefresh := r.URL.Query().Get("refresh") == "true"

	var (
		tasks []domain.Task
		err   error
	)
	if repository == "" {
		tasks, err = h.tasks.ListAllTasks(r.Context(), forceRefresh)
	} else {
		tasks, err = h.tasks.ListTasks(r.Context(), repository, forceRefresh)
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("listed tasks",
		slog.String("repository", repository),
		slog.Int("count", len(tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{Tasks: tasks})
}

// CreateTask handles POST /api/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	repository := r.URL.Query().Get("repository")
	if repository == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "repository query parameter is required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	file, err := h.tasks.CreateTask(r.Context(), repository, domain.TaskMetadata{
		Title:       req.Title,
		Status:      req.Status,
		Epic:        req.Epic,
		Branch:      req.Branch,
		GitHubIssue: req.GitHubIssue,
	}, req.Content)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task created",
		slog.String("task_id", file.Metadata.ID),
		slog.String("repository", repository))
	shared.RespondWithJSON(w, r, http.StatusCreated, file)
}

// GetTask handles GET /api/tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	repository := r.URL.Query().Get("repository")
	if repository == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "repository query parameter is required")
		return
	}
	id := chi.URLParam(r, "id")

	file, err := h.tasks.GetTask(r.Context(), repository, id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if file == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, file)
}

// UpdateTask handles PUT /api/tasks/{id} requests.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	repository := r.URL.Query().Get("repository")
	if repository == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "repository query parameter is required")
		return
	}
	id := chi.URLParam(r, "id")

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	file, err := h.tasks.UpdateTask(r.Context(), repository, id, req.TaskUpdates, req.Content)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task updated",
		slog.String("task_id", id),
		slog.String("repository", repository))
	shared.RespondWithJSON(w, r, http.StatusOK, file)
}

// DeleteTask handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	repository := r.URL.Query().Get("repository")
	if repository == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "repository query parameter is required")
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.tasks.DeleteTask(r.Context(), repository, id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task deleted",
		slog.String("task_id", id),
		slog.String("repository", repository))
	w.WriteHeader(http.StatusNoContent)
}

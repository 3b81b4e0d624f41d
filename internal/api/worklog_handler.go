package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/workbenchhq/workbench-api/internal/api/shared"
	"github.com/workbenchhq/workbench-api/internal/domain"
	"github.com/workbenchhq/workbench-api/internal/platform/logger"
	"github.com/workbenchhq/workbench-api/internal/service"
)

// WorkLogHandler handles work-log HTTP requests.
type WorkLogHandler struct {
	workLogs service.WorkLogService
	logger   *slog.Logger
}

// NewWorkLogHandler creates a new WorkLogHandler.
func NewWorkLogHandler(workLogs service.WorkLogService, logger *slog.Logger) *WorkLogHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for WorkLogHandler")
	}
	return &WorkLogHandler{
		workLogs: workLogs,
		logger:   logger.With(slog.String("component", "worklog_handler")),
	}
}

// AppendEntry handles POST /api/work-logs/entry requests. Validation
// failures are 400s; anything else writing the log is a 500.
func (h *WorkLogHandler) AppendEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req WorkLogEntryRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Repository == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "repository is required")
		return
	}

	if err := h.workLogs.Append(r.Context(), req.Repository, &req.Entry); err != nil {
		if errors.Is(err, domain.ErrValidation) ||
			errors.Is(err, domain.ErrInvalidStatus) ||
			errors.Is(err, domain.ErrInvalidRepositoryName) {
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to write work log entry", err)
		return
	}

	log.Debug("work log entry appended",
		slog.String("repository", req.Repository),
		slog.String("task_id", req.Entry.TaskID))
	shared.RespondWithJSON(w, r, http.StatusCreated, map[string]bool{"success": true})
}

// GetWorkLogs handles GET /api/work-logs requests. startDate and
// endDate are optional YYYY-MM-DD bounds.
func (h *WorkLogHandler) GetWorkLogs(w http.ResponseWriter, r *http.Request) {
	repository := r.URL.Query().Get("repository")
	if repository == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "repository query parameter is required")
		return
	}

	days, err := h.workLogs.GetWorkLogs(r.Context(),
		repository,
		r.URL.Query().Get("startDate"),
		r.URL.Query().Get("endDate"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, WorkLogsResponse{WorkLogs: days})
}

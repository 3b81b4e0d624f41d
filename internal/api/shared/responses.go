package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/workbenchhq/workbench-api/internal/i18n"
	"github.com/workbenchhq/workbench-api/internal/redact"
)

// ErrorResponse defines the standard error response structure.
// LocalizedError carries the same condition in the request's resolved
// locale so the dashboard can show it without client-side translation.
type ErrorResponse struct {
	Error          string `json:"error"`
	LocalizedError string `json:"localized_error,omitempty"`
	Code           int    `json:"-"` // Not serialized to JSON, used for logging
	TraceID        string `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error response with the given status code and message.
// It also sets the TraceID from the request context if available.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	errorResponse := ErrorResponse{
		Error:          message,
		LocalizedError: localizedStatusMessage(r.Context(), status),
		Code:           status,
		TraceID:        traceID,
	}

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, errorResponse)
}

// RespondWithErrorAndLog writes a JSON error response and also logs the
// detailed error. The client only ever sees the sanitized userMessage;
// the underlying error is redacted and logged.
//
// 5xx responses log at ERROR level, 429 at WARN, everything else at
// DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	traceID := GetTraceID(r.Context())

	errorResponse := ErrorResponse{
		Error:          userMessage,
		LocalizedError: localizedStatusMessage(r.Context(), status),
		Code:           status,
		TraceID:        traceID,
	}

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	} else if status == http.StatusTooManyRequests {
		logLevel = slog.LevelWarn
	}

	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, errorResponse)
}

// localizedStatusMessage translates the broad error condition behind
// an HTTP status into the locale resolved for the request.
func localizedStatusMessage(ctx context.Context, status int) string {
	var key string
	switch {
	case status == http.StatusBadRequest:
		key = "errors.validationError"
	case status == http.StatusUnauthorized:
		key = "errors.unauthorized"
	case status == http.StatusForbidden:
		key = "errors.forbidden"
	case status == http.StatusNotFound:
		key = "errors.notFound"
	case status >= http.StatusInternalServerError:
		key = "errors.serverError"
	default:
		key = "errors.generic"
	}
	return i18n.Translate(i18n.ForLocale(GetLocale(ctx)), key, nil)
}

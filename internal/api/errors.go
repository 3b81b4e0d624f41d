package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/workbenchhq/workbench-api/internal/domain"
	"github.com/workbenchhq/workbench-api/internal/platform/github"
	"github.com/workbenchhq/workbench-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	// Upstream GitHub failures forward the upstream status so the
	// client can branch on it (auth, rate limiting, missing repo).
	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	switch {
	// Timeouts get a dedicated status so callers can retry.
	case github.IsTimeout(err):
		return http.StatusGatewayTimeout

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidRepositoryName),
		errors.Is(err, domain.ErrEmptyTitle):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		if apiErr.IsRateLimited() {
			return "GitHub API rate limit exceeded"
		}
		return fmt.Sprintf("GitHub API error: %s", apiErr.Message)
	}

	switch {
	case github.IsTimeout(err):
		return "Upstream request timed out"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrTaskExists):
		return "Task already exists"

	case errors.Is(err, domain.ErrEmptyTitle):
		return "Task title is required"

	case errors.Is(err, domain.ErrInvalidRepositoryName):
		return "Invalid repository name"

	case errors.Is(err, domain.ErrInvalidStatus):
		return "Invalid task status"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid task id"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validator
// errors and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'WorkLogEntryRequest.Entry.TaskID' Error:Field
		// validation for 'TaskID' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

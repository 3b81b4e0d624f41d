package api

import (
	"github.com/workbenchhq/workbench-api/internal/domain"
	"github.com/workbenchhq/workbench-api/internal/service"
)

// CreateTaskRequest is the request body for POST /api/tasks.
type CreateTaskRequest struct {
	Title       string        `json:"title"                 validate:"required"`
	Status      domain.Status `json:"status,omitempty"      validate:"omitempty,oneof=pending in_progress completed failed"`
	Epic        string        `json:"epic,omitempty"`
	Branch      string        `json:"branch,omitempty"`
	GitHubIssue int           `json:"githubIssue,omitempty"`
	Content     string        `json:"content,omitempty"`
}

// UpdateTaskRequest is the request body for PUT /api/tasks/{id}.
// Absent fields leave the stored value unchanged.
type UpdateTaskRequest struct {
	service.TaskUpdates
	Content *string `json:"content,omitempty"`
}

// WorkLogEntryRequest is the request body for POST /api/work-logs/entry.
// The entry's own validation runs when it is appended; a missing
// timestamp is filled in server-side.
type WorkLogEntryRequest struct {
	Repository string              `json:"repository" validate:"required"`
	Entry      domain.WorkLogEntry `json:"entry"`
}

// TaskListResponse is the response body for GET /api/tasks.
type TaskListResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

// WorkLogsResponse is the response body for GET /api/work-logs.
type WorkLogsResponse struct {
	WorkLogs []*domain.DailyWorkLog `json:"workLogs"`
}

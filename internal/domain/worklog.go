package domain

import (
	"fmt"
	"time"
)

// WorkLogMetadata carries optional context attached to a work log entry.
type WorkLogMetadata struct {
	Branch      string `json:"branch,omitempty"`
	GitHubIssue int    `json:"githubIssue,omitempty"`
	PRURL       string `json:"prUrl,omitempty"`
	TokensUsed  int    `json:"tokensUsed,omitempty"`
}

// WorkLogEntry is a single append-only record of task activity.
// Entries are never mutated or deleted once written.
type WorkLogEntry struct {
	Timestamp        time.Time        `json:"timestamp"                  validate:"required"`
	TaskID           string           `json:"taskId"                     validate:"required"`
	TaskTitle        string           `json:"taskTitle"                  validate:"required"`
	Repository       string           `json:"repository"                 validate:"required"`
	Status           Status           `json:"status"                     validate:"required,oneof=pending in_progress completed failed"`
	ProgressUpdate   string           `json:"progressUpdate,omitempty"`
	IssuesDiscovered []string         `json:"issuesDiscovered,omitempty"`
	ImprovementsMade []string         `json:"improvementsMade,omitempty"`
	Metadata         *WorkLogMetadata `json:"metadata,omitempty"`
}

// Validate checks the required entry fields. It mirrors the validator
// tags so entries built in-process get the same checks as entries
// decoded from API requests.
func (e *WorkLogEntry) Validate() error {
	if e.TaskID == "" || e.TaskTitle == "" || e.Repository == "" {
		return fmt.Errorf("%w: entry must have taskId, taskTitle, and repository", ErrValidation)
	}
	if !e.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, e.Status)
	}
	return ValidateRepositoryName(e.Repository)
}

// DailyWorkLog describes one per-repository daily log file. Entries is
// empty on reads: the markdown log is write-only and is not parsed back
// into structured entries.
type DailyWorkLog struct {
	Date       string         `json:"date"`
	Repository string         `json:"repository"`
	Entries    []WorkLogEntry `json:"entries"`
}

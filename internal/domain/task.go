package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

// Valid task status values.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsValid reports whether s is one of the known status values.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// CheckStatus represents the outcome of a build or lint check.
type CheckStatus string

// Valid check status values.
const (
	CheckPending CheckStatus = "pending"
	CheckSuccess CheckStatus = "success"
	CheckFailure CheckStatus = "failure"
)

// TaskMetadata is the front-matter portion of a task file. Field order
// here matches the order keys are written to disk.
type TaskMetadata struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Status       Status      `json:"status"`
	Repository   string      `json:"repository"`
	Epic         string      `json:"epic,omitempty"`
	Branch       string      `json:"branch,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	StartedAt    *time.Time  `json:"startedAt,omitempty"`
	CompletedAt  *time.Time  `json:"completedAt,omitempty"`
	TokensUsed   int         `json:"tokensUsed"`
	GitHubIssue  int         `json:"githubIssue,omitempty"`
	PRURL        string      `json:"prUrl,omitempty"`
	BuildStatus  CheckStatus `json:"buildStatus,omitempty"`
	LintStatus   CheckStatus `json:"lintStatus,omitempty"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
}

// TaskFile pairs task metadata with its free-form markdown content.
// It maps 1:1 to a single file on disk named {ID}.md.
type TaskFile struct {
	Metadata TaskMetadata `json:"metadata"`
	Content  string       `json:"content"`
}

// Validate checks that the task file can be persisted safely.
func (f *TaskFile) Validate() error {
	if f.Metadata.ID == "" {
		return fmt.Errorf("%w: task ID cannot be empty", ErrInvalidID)
	}
	if strings.ContainsAny(f.Metadata.ID, "/\\") || strings.Contains(f.Metadata.ID, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidID, f.Metadata.ID)
	}
	if f.Metadata.Title == "" {
		return ErrEmptyTitle
	}
	if !f.Metadata.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, f.Metadata.Status)
	}
	return nil
}

// Task is the dashboard-facing view of a task file. Description is
// derived from the leading content of the file, not stored separately.
type Task struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Status       Status      `json:"status"`
	Repository   string      `json:"repository"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	StartedAt    *time.Time  `json:"started_at,omitempty"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
	Branch       string      `json:"branch_name,omitempty"`
	PRURL        string      `json:"pr_url,omitempty"`
	BuildStatus  CheckStatus `json:"build_status,omitempty"`
	LintStatus   CheckStatus `json:"lint_status,omitempty"`
	TokensUsed   int         `json:"tokens_used"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

// descriptionLimit caps the derived task description length.
const descriptionLimit = 200

// TaskFromFile converts a persisted task file into its dashboard view.
// The description is the first three content lines joined, truncated
// to 200 characters with a trailing ellipsis. Truncation counts runes,
// not bytes: content is largely Korean and a byte cut would split a
// Hangul syllable mid-sequence.
func TaskFromFile(f *TaskFile) Task {
	lines := strings.SplitN(f.Content, "\n", 4)
	if len(lines) > 3 {
		lines = lines[:3]
	}
	desc := strings.TrimSpace(strings.Join(lines, " "))
	if runes := []rune(desc); len(runes) > descriptionLimit {
		desc = string(runes[:descriptionLimit]) + "..."
	}

	return Task{
		ID:           f.Metadata.ID,
		Title:        f.Metadata.Title,
		Description:  desc,
		Status:       f.Metadata.Status,
		Repository:   f.Metadata.Repository,
		CreatedAt:    f.Metadata.CreatedAt,
		UpdatedAt:    f.Metadata.UpdatedAt,
		StartedAt:    f.Metadata.StartedAt,
		CompletedAt:  f.Metadata.CompletedAt,
		Branch:       f.Metadata.Branch,
		PRURL:        f.Metadata.PRURL,
		BuildStatus:  f.Metadata.BuildStatus,
		LintStatus:   f.Metadata.LintStatus,
		TokensUsed:   f.Metadata.TokensUsed,
		ErrorMessage: f.Metadata.ErrorMessage,
	}
}

const taskIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewTaskID generates a unique task identifier of the form
// task-{unix-millis}-{7 base36 chars}. The timestamp prefix keeps ids
// roughly sortable by creation time; the random suffix disambiguates
// ids created within the same millisecond.
func NewTaskID() string {
	suffix := make([]byte, 7)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(taskIDAlphabet))))
		if err != nil {
			// crypto/rand should never fail; fall back to a
			// time-derived index rather than aborting id generation.
			suffix[i] = taskIDAlphabet[time.Now().Nanosecond()%len(taskIDAlphabet)]
			continue
		}
		suffix[i] = taskIDAlphabet[n.Int64()]
	}
	return fmt.Sprintf("task-%d-%s", time.Now().UnixMilli(), suffix)
}

// ValidateRepositoryName rejects names that could escape the storage
// root when used as a path segment.
func ValidateRepositoryName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidRepositoryName)
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: %q contains illegal characters", ErrInvalidRepositoryName, name)
	}
	return nil
}

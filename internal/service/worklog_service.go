package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/workbenchhq/workbench-api/internal/domain"
	"github.com/workbenchhq/workbench-api/internal/platform/logger"
	"github.com/workbenchhq/workbench-api/internal/store"
)

// WorkLogService records task activity into the append-only work log.
//
// All Log* methods are best-effort: a failure to write the log is
// reported at WARN level and swallowed, never propagated, because
// logging must not abort the operation that triggered it.
type WorkLogService interface {
	// LogTaskCreated records that a task was created.
	LogTaskCreated(ctx context.Context, task *domain.TaskFile)

	// LogTaskStatusChange records a status transition with a
	// human-readable message.
	LogTaskStatusChange(ctx context.Context, task *domain.TaskFile, message string)

	// LogProgress records a free-form progress update.
	LogProgress(ctx context.Context, task *domain.TaskFile, progress string)

	// LogIssuesDiscovered records issues found while working on a task.
	LogIssuesDiscovered(ctx context.Context, task *domain.TaskFile, issues []string)

	// LogImprovements records improvements made while working on a task.
	LogImprovements(ctx context.Context, task *domain.TaskFile, improvements []string)

	// Append validates and writes a caller-constructed entry. Unlike
	// the Log* methods this propagates failures; it backs the work-log
	// API endpoint where the caller needs to know the write happened.
	Append(ctx context.Context, repository string, entry *domain.WorkLogEntry) error

	// GetWorkLogs lists daily log descriptors for a repository,
	// optionally bounded by start and end dates (YYYY-MM-DD).
	GetWorkLogs(ctx context.Context, repository, startDate, endDate string) ([]*domain.DailyWorkLog, error)
}

// workLogServiceImpl implements WorkLogService on top of a WorkLogStore.
type workLogServiceImpl struct {
	store  store.WorkLogStore
	logger *slog.Logger
	now    func() time.Time
}

// NewWorkLogService creates a new WorkLogService.
// It returns an error if the store is nil.
func NewWorkLogService(workLogStore store.WorkLogStore, log *slog.Logger) (WorkLogService, error) {
	if workLogStore == nil {
		return nil, fmt.Errorf("%w: workLogStore cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &workLogServiceImpl{
		store:  workLogStore,
		logger: log.With(slog.String("component", "worklog_service")),
		now:    time.Now,
	}, nil
}

func (s *workLogServiceImpl) LogTaskCreated(ctx context.Context, task *domain.TaskFile) {
	entry := s.entryFromTask(task)
	entry.ProgressUpdate = "작업이 생성되었습니다"
	s.append(ctx, entry)
}

func (s *workLogServiceImpl) LogTaskStatusChange(ctx context.Context, task *domain.TaskFile, message string) {
	entry := s.entryFromTask(task)
	entry.ProgressUpdate = message
	s.append(ctx, entry)
}

func (s *workLogServiceImpl) LogProgress(ctx context.Context, task *domain.TaskFile, progress string) {
	entry := s.entryFromTask(task)
	entry.ProgressUpdate = progress
	s.append(ctx, entry)
}

func (s *workLogServiceImpl) LogIssuesDiscovered(ctx context.Context, task *domain.TaskFile, issues []string) {
	entry := s.entryFromTask(task)
	entry.IssuesDiscovered = issues
	s.append(ctx, entry)
}

func (s *workLogServiceImpl) LogImprovements(ctx context.Context, task *domain.TaskFile, improvements []string) {
	entry := s.entryFromTask(task)
	entry.ImprovementsMade = improvements
	s.append(ctx, entry)
}

func (s *workLogServiceImpl) Append(ctx context.Context, repository string, entry *domain.WorkLogEntry) error {
	if err := domain.ValidateRepositoryName(repository); err != nil {
		return err
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	return s.store.Append(ctx, repository, entry)
}

func (s *workLogServiceImpl) GetWorkLogs(ctx context.Context, repository, startDate, endDate string) ([]*domain.DailyWorkLog, error) {
	if err := domain.ValidateRepositoryName(repository); err != nil {
		return nil, err
	}
	return s.store.ListDays(ctx, repository, startDate, endDate)
}

// entryFromTask builds a work log entry from the task's current state.
func (s *workLogServiceImpl) entryFromTask(task *domain.TaskFile) *domain.WorkLogEntry {
	meta := task.Metadata

	entry := &domain.WorkLogEntry{
		Timestamp:  s.now(),
		TaskID:     meta.ID,
		TaskTitle:  meta.Title,
		Repository: meta.Repository,
		Status:     meta.Status,
	}

	if meta.Branch != "" || meta.GitHubIssue != 0 || meta.PRURL != "" || meta.TokensUsed != 0 {
		entry.Metadata = &domain.WorkLogMetadata{
			Branch:      meta.Branch,
			GitHubIssue: meta.GitHubIssue,
			PRURL:       meta.PRURL,
			TokensUsed:  meta.TokensUsed,
		}
	}
	return entry
}

// append writes the entry and swallows any failure.
func (s *workLogServiceImpl) append(ctx context.Context, entry *domain.WorkLogEntry) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("skipping invalid work log entry",
			slog.String("task_id", entry.TaskID),
			slog.String("error", err.Error()))
		return
	}
	if err := s.store.Append(ctx, entry.Repository, entry); err != nil {
		log.Warn("failed to append work log entry",
			slog.String("task_id", entry.TaskID),
			slog.String("repository", entry.Repository),
			slog.String("error", err.Error()))
	}
}

// Package worklog implements store.WorkLogStore as append-only daily
// markdown files, one file per (repository, calendar date).
package worklog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/workbenchhq/workbench-api/internal/domain"
	"github.com/workbenchhq/workbench-api/internal/platform/fslock"
	"github.com/workbenchhq/workbench-api/internal/store"
)

const dateLayout = "2006-01-02"

// Store is a file-backed work log store rooted at a base directory.
// Log files live at {root}/{repository}/{YYYY-MM-DD}.md.
type Store struct {
	root   string
	locks  *fslock.KeyedMutex
	logger *slog.Logger
}

var _ store.WorkLogStore = (*Store)(nil)

// New creates a Store rooted at root. The lock table serializes
// writers per file path and may be shared with other file stores.
func New(root string, locks *fslock.KeyedMutex, logger *slog.Logger) *Store {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for worklog.Store")
	}
	if locks == nil {
		locks = fslock.New()
	}
	return &Store{
		root:   root,
		locks:  locks,
		logger: logger.With(slog.String("component", "worklog_store")),
	}
}

func (s *Store) logsDir(repository string) (string, error) {
	if err := domain.ValidateRepositoryName(repository); err != nil {
		return "", err
	}
	return filepath.Join(s.root, repository), nil
}

// Append implements store.WorkLogStore. The entry's date is taken from
// its timestamp (UTC). The file is opened in append mode under the
// per-path lock, so concurrent writers produce whole, ordered entries.
func (s *Store) Append(ctx context.Context, repository string, entry *domain.WorkLogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	dir, err := s.logsDir(repository)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return store.NewStoreError("worklog", "append", "failed to create log directory", err)
	}

	date := entry.Timestamp.UTC().Format(dateLayout)
	path := filepath.Join(dir, date+".md")

	s.locks.Lock(path)
	defer s.locks.Unlock(path)

	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, fs.ErrNotExist)
	if statErr != nil && !isNew {
		return store.NewStoreError("worklog", "append", "failed to stat log file", statErr)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return store.NewStoreError("worklog", "append", "failed to open log file", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("failed to close log file", slog.String("error", cerr.Error()))
		}
	}()

	var buf strings.Builder
	if isNew {
		buf.WriteString(dailyHeader(repository, date))
	}
	buf.WriteString(FormatEntry(entry))

	if _, err := f.WriteString(buf.String()); err != nil {
		return store.NewStoreError("worklog", "append", "failed to append log entry", err)
	}

	s.logger.Debug("work log entry appended",
		slog.String("repository", repository),
		slog.String("task_id", entry.TaskID),
		slog.String("status", string(entry.Status)))
	return nil
}

// ListDays implements store.WorkLogStore.
func (s *Store) ListDays(ctx context.Context, repository, startDate, endDate string) ([]*domain.DailyWorkLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := s.logsDir(repository)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []*domain.DailyWorkLog{}, nil
	}
	if err != nil {
		return nil, store.NewStoreError("worklog", "list", "failed to read log directory", err)
	}

	logs := make([]*domain.DailyWorkLog, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		date := strings.TrimSuffix(name, ".md")
		if startDate != "" && date < startDate {
			continue
		}
		if endDate != "" && date > endDate {
			continue
		}
		logs = append(logs, &domain.DailyWorkLog{
			Date:       date,
			Repository: repository,
			// The markdown log is write-only; entries are not parsed
			// back out of it.
			Entries: []domain.WorkLogEntry{},
		})
	}

	sort.Slice(logs, func(i, j int) bool { return logs[i].Date < logs[j].Date })
	return logs, nil
}

// FormatEntry renders one work log entry as a markdown subsection:
// a clock-time heading, optional progress/issues/improvements/metadata
// blocks, and a closing horizontal rule.
func FormatEntry(entry *domain.WorkLogEntry) string {
	var b strings.Builder

	clock := entry.Timestamp.UTC().Format("15:04:05")
	fmt.Fprintf(&b, "### %s - %s (%s)\n\n", clock, entry.TaskTitle, entry.Status)

	if entry.ProgressUpdate != "" {
		fmt.Fprintf(&b, "**Progress**: %s\n\n", entry.ProgressUpdate)
	}
	if len(entry.IssuesDiscovered) > 0 {
		b.WriteString("**Issues Discovered**:\n")
		for _, issue := range entry.IssuesDiscovered {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}
	if len(entry.ImprovementsMade) > 0 {
		b.WriteString("**Improvements Made**:\n")
		for _, improvement := range entry.ImprovementsMade {
			fmt.Fprintf(&b, "- %s\n", improvement)
		}
		b.WriteString("\n")
	}
	if m := entry.Metadata; m != nil {
		b.WriteString("**Metadata**:\n")
		if m.Branch != "" {
			fmt.Fprintf(&b, "- Branch: %s\n", m.Branch)
		}
		if m.GitHubIssue != 0 {
			fmt.Fprintf(&b, "- GitHub Issue: #%d\n", m.GitHubIssue)
		}
		if m.PRURL != "" {
			fmt.Fprintf(&b, "- PR URL: %s\n", m.PRURL)
		}
		if m.TokensUsed != 0 {
			fmt.Fprintf(&b, "- Tokens Used: %d\n", m.TokensUsed)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	return b.String()
}

func dailyHeader(repository, date string) string {
	return fmt.Sprintf("# Work Log - %s - %s\n\nGenerated automatically by the workbench workflow system.\n\n---\n\n", repository, date)
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workbenchhq/workbench-api/internal/domain"
)

// fakeWorkLogStore is an in-memory WorkLogStore with injectable failures.
type fakeWorkLogStore struct {
	mu        sync.Mutex
	entries   []*domain.WorkLogEntry
	appendErr error
}

func (f *fakeWorkLogStore) Append(_ context.Context, _ string, entry *domain.WorkLogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeWorkLogStore) ListDays(_ context.Context, repository, _, _ string) ([]*domain.DailyWorkLog, error) {
	return []*domain.DailyWorkLog{{Date: "2026-01-02", Repository: repository}}, nil
}

func testTaskFile() *domain.TaskFile {
	return &domain.TaskFile{
		Metadata: domain.TaskMetadata{
			ID:         "task-1-abcdefg",
			Title:      "Fix bug",
			Status:     domain.StatusInProgress,
			Repository: "octo",
			Branch:     "fix/bug",
			TokensUsed: 1200,
		},
		Content: "body",
	}
}

func newTestWorkLogService(t *testing.T) (WorkLogService, *fakeWorkLogStore) {
	t.Helper()
	st := &fakeWorkLogStore{}
	svc, err := NewWorkLogService(st, nil)
	require.NoError(t, err)
	return svc, st
}

func TestNewWorkLogService_NilStore(t *testing.T) {
	t.Parallel()
	_, err := NewWorkLogService(nil, nil)
	assert.Error(t, err)
}

func TestLogTaskCreated(t *testing.T) {
	t.Parallel()
	svc, st := newTestWorkLogService(t)

	svc.LogTaskCreated(context.Background(), testTaskFile())

	require.Len(t, st.entries, 1)
	entry := st.entries[0]
	assert.Equal(t, "task-1-abcdefg", entry.TaskID)
	assert.Equal(t, "Fix bug", entry.TaskTitle)
	assert.Equal(t, "octo", entry.Repository)
	assert.Equal(t, domain.StatusInProgress, entry.Status)
	assert.False(t, entry.Timestamp.IsZero())
	require.NotNil(t, entry.Metadata)
	assert.Equal(t, "fix/bug", entry.Metadata.Branch)
	assert.Equal(t, 1200, entry.Metadata.TokensUsed)
}

func TestLogMethods_SwallowStoreErrors(t *testing.T) {
	t.Parallel()
	svc, st := newTestWorkLogService(t)
	st.appendErr = errors.New("disk full")

	// None of these may panic or surface the error.
	task := testTaskFile()
	svc.LogTaskCreated(context.Background(), task)
	svc.LogTaskStatusChange(context.Background(), task, "작업이 완료되었습니다")
	svc.LogProgress(context.Background(), task, "halfway there")
	svc.LogIssuesDiscovered(context.Background(), task, []string{"flaky test"})
	svc.LogImprovements(context.Background(), task, []string{"simpler retry"})

	assert.Empty(t, st.entries)
}

func TestLogMethods_SkipInvalidEntries(t *testing.T) {
	t.Parallel()
	svc, st := newTestWorkLogService(t)

	// No repository on the task: entry fails validation and is skipped.
	task := &domain.TaskFile{Metadata: domain.TaskMetadata{ID: "task-1-abcdefg", Title: "t", Status: domain.StatusPending}}
	svc.LogProgress(context.Background(), task, "ignored")

	assert.Empty(t, st.entries)
}

func TestAppend(t *testing.T) {
	t.Parallel()
	svc, st := newTestWorkLogService(t)

	entry := &domain.WorkLogEntry{
		TaskID:     "task-1-abcdefg",
		TaskTitle:  "Fix bug",
		Repository: "octo",
		Status:     domain.StatusCompleted,
	}
	require.NoError(t, svc.Append(context.Background(), "octo", entry))

	require.Len(t, st.entries, 1)
	// A zero timestamp is filled in before writing.
	assert.False(t, st.entries[0].Timestamp.IsZero())
}

func TestAppend_Validation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestWorkLogService(t)
	ctx := context.Background()

	err := svc.Append(ctx, "../etc", &domain.WorkLogEntry{})
	assert.ErrorIs(t, err, domain.ErrInvalidRepositoryName)

	err = svc.Append(ctx, "octo", &domain.WorkLogEntry{
		Timestamp:  time.Now(),
		TaskID:     "task-1-abcdefg",
		TaskTitle:  "t",
		Repository: "octo",
		Status:     "paused",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGetWorkLogs(t *testing.T) {
	t.Parallel()
	svc, _ := newTestWorkLogService(t)

	days, err := svc.GetWorkLogs(context.Background(), "octo", "", "")
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "octo", days[0].Repository)

	_, err = svc.GetWorkLogs(context.Background(), "a/b", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidRepositoryName)
}

package service

import (
	"context"
	"regexp"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workbenchhq/workbench-api/internal/domain"
	"github.com/workbenchhq/workbench-api/internal/store"
)

// fakeTaskStore is an in-memory TaskStore that counts List calls so
// cache behavior can be asserted.
type fakeTaskStore struct {
	mu        sync.Mutex
	files     map[string]map[string]*domain.TaskFile
	listCalls int
	getCalls  int
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{files: make(map[string]map[string]*domain.TaskFile)}
}

func (f *fakeTaskStore) Repositories(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.files))
	for name := range f.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeTaskStore) List(_ context.Context, repository string) ([]*domain.TaskFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	var out []*domain.TaskFile
	for _, file := range f.files[repository] {
		out = append(out, file)
	}
	return out, nil
}

func (f *fakeTaskStore) Create(_ context.Context, repository string, file *domain.TaskFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[repository][file.Metadata.ID]; ok {
		return store.ErrTaskExists
	}
	if f.files[repository] == nil {
		f.files[repository] = make(map[string]*domain.TaskFile)
	}
	copied := *file
	f.files[repository][file.Metadata.ID] = &copied
	return nil
}

func (f *fakeTaskStore) Get(_ context.Context, repository, id string) (*domain.TaskFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	file, ok := f.files[repository][id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *file
	return &copied, nil
}

func (f *fakeTaskStore) Update(_ context.Context, repository string, file *domain.TaskFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[repository][file.Metadata.ID]; !ok {
		return store.ErrTaskNotFound
	}
	copied := *file
	f.files[repository][file.Metadata.ID] = &copied
	return nil
}

func (f *fakeTaskStore) Delete(_ context.Context, repository, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[repository][id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(f.files[repository], id)
	return nil
}

// fakeWorkLogService records which Log* calls were made.
type fakeWorkLogService struct {
	mu            sync.Mutex
	created       []*domain.TaskFile
	statusChanges []string
	progress      []string
}

func (f *fakeWorkLogService) LogTaskCreated(_ context.Context, task *domain.TaskFile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, task)
}

func (f *fakeWorkLogService) LogTaskStatusChange(_ context.Context, _ *domain.TaskFile, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusChanges = append(f.statusChanges, message)
}

func (f *fakeWorkLogService) LogProgress(_ context.Context, _ *domain.TaskFile, progress string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress = append(f.progress, progress)
}

func (f *fakeWorkLogService) LogIssuesDiscovered(context.Context, *domain.TaskFile, []string) {}

func (f *fakeWorkLogService) LogImprovements(context.Context, *domain.TaskFile, []string) {}

func (f *fakeWorkLogService) Append(context.Context, string, *domain.WorkLogEntry) error {
	return nil
}

func (f *fakeWorkLogService) GetWorkLogs(context.Context, string, string, string) ([]*domain.DailyWorkLog, error) {
	return nil, nil
}

func newTestTaskService(t *testing.T) (*taskServiceImpl, *fakeTaskStore, *fakeWorkLogService) {
	t.Helper()
	taskStore := newFakeTaskStore()
	workLogs := &fakeWorkLogService{}
	svc, err := NewTaskService(taskStore, workLogs, time.Second, nil)
	require.NoError(t, err)
	return svc.(*taskServiceImpl), taskStore, workLogs
}

func TestNewTaskService_NilDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewTaskService(nil, &fakeWorkLogService{}, 0, nil)
	assert.Error(t, err)

	_, err = NewTaskService(newFakeTaskStore(), nil, 0, nil)
	assert.Error(t, err)
}

func TestCreateTask(t *testing.T) {
	t.Parallel()
	svc, _, workLogs := newTestTaskService(t)
	ctx := context.Background()

	file, err := svc.CreateTask(ctx, "octo", domain.TaskMetadata{
		Title: "Fix bug",
		Epic:  "e1",
	}, "Repro steps.\n")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^task-\d+-[a-z0-9]{7}$`), file.Metadata.ID)
	assert.Equal(t, "octo", file.Metadata.Repository)
	assert.Equal(t, domain.StatusPending, file.Metadata.Status)
	assert.False(t, file.Metadata.CreatedAt.IsZero())
	assert.Equal(t, file.Metadata.CreatedAt, file.Metadata.UpdatedAt)

	require.Len(t, workLogs.created, 1)
	assert.Equal(t, domain.StatusPending, workLogs.created[0].Metadata.Status)
}

func TestCreateTask_Invalid(t *testing.T) {
	t.Parallel()
	svc, _, workLogs := newTestTaskService(t)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, "octo", domain.TaskMetadata{}, "")
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = svc.CreateTask(ctx, "../escape", domain.TaskMetadata{Title: "x"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidRepositoryName)

	assert.Empty(t, workLogs.created)
}

func TestListTasks_CacheWithinTTL(t *testing.T) {
	t.Parallel()
	svc, taskStore, _ := newTestTaskService(t)
	ctx := context.Background()

	base := time.Now()
	svc.now = func() time.Time { return base }

	_, err := svc.CreateTask(ctx, "octo", domain.TaskMetadata{Title: "a"}, "body")
	require.NoError(t, err)

	first, err := svc.ListTasks(ctx, "octo", false)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, taskStore.listCalls)

	// Second call inside the TTL is served from cache.
	second, err := svc.ListTasks(ctx, "octo", false)
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.Equal(t, 1, taskStore.listCalls)

	// forceRefresh bypasses the cache.
	_, err = svc.ListTasks(ctx, "octo", true)
	require.NoError(t, err)
	assert.Equal(t, 2, taskStore.listCalls)

	// Past the TTL the cache is stale.
	svc.now = func() time.Time { return base.Add(2 * time.Second) }
	_, err = svc.ListTasks(ctx, "octo", false)
	require.NoError(t, err)
	assert.Equal(t, 3, taskStore.listCalls)
}

func TestListTasks_RepositoriesCachedIndependently(t *testing.T) {
	t.Parallel()
	svc, taskStore, _ := newTestTaskService(t)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, "alpha", domain.TaskMetadata{Title: "a"}, "")
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx, "alpha", false)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	// A different repository is a cache miss, not a stale hit.
	tasks, err = svc.ListTasks(ctx, "beta", false)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, 2, taskStore.listCalls)
}

func TestListAllTasks(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestTaskService(t)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, "alpha", domain.TaskMetadata{Title: "a"}, "")
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, "beta", domain.TaskMetadata{Title: "b"}, "")
	require.NoError(t, err)

	all, err := svc.ListAllTasks(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Repository)
	assert.Equal(t, "beta", all[1].Repository)
}

func TestUpdateTask_FetchesWhenNotCached(t *testing.T) {
	t.Parallel()
	svc, taskStore, workLogs := newTestTaskService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "octo", domain.TaskMetadata{Title: "a"}, "body")
	require.NoError(t, err)

	// Fresh service with an empty cache over the same store.
	svc2, err := NewTaskService(taskStore, workLogs, time.Second, nil)
	require.NoError(t, err)

	status := domain.StatusInProgress
	updated, err := svc2.UpdateTask(ctx, "octo", created.Metadata.ID, TaskUpdates{Status: &status}, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusInProgress, updated.Metadata.Status)
	assert.Equal(t, "body", updated.Content)
	assert.GreaterOrEqual(t, taskStore.getCalls, 1)
	require.Len(t, workLogs.statusChanges, 1)
	assert.Equal(t, "작업을 시작했습니다", workLogs.statusChanges[0])
}

func TestUpdateTask_StatusUnchangedNoLog(t *testing.T) {
	t.Parallel()
	svc, _, workLogs := newTestTaskService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "octo", domain.TaskMetadata{Title: "a"}, "")
	require.NoError(t, err)

	title := "renamed"
	_, err = svc.UpdateTask(ctx, "octo", created.Metadata.ID, TaskUpdates{Title: &title}, nil)
	require.NoError(t, err)
	assert.Empty(t, workLogs.statusChanges)
}

func TestUpdateTask_NewPRURLLogsProgress(t *testing.T) {
	t.Parallel()
	svc, _, workLogs := newTestTaskService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "octo", domain.TaskMetadata{Title: "a"}, "")
	require.NoError(t, err)

	prURL := "https://github.com/octo/repo/pull/7"
	_, err = svc.UpdateTask(ctx, "octo", created.Metadata.ID, TaskUpdates{PRURL: &prURL}, nil)
	require.NoError(t, err)

	require.Len(t, workLogs.progress, 1)
	assert.Contains(t, workLogs.progress[0], prURL)

	// Updating an already-set PR URL does not log again.
	other := "https://github.com/octo/repo/pull/8"
	_, err = svc.UpdateTask(ctx, "octo", created.Metadata.ID, TaskUpdates{PRURL: &other}, nil)
	require.NoError(t, err)
	assert.Len(t, workLogs.progress, 1)
}

func TestUpdateTask_NotFound(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestTaskService(t)

	title := "x"
	_, err := svc.UpdateTask(context.Background(), "octo", "task-1-aaaaaaa", TaskUpdates{Title: &title}, nil)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestGetTask(t *testing.T) {
	t.Parallel()
	svc, taskStore, _ := newTestTaskService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "octo", domain.TaskMetadata{Title: "a"}, "body")
	require.NoError(t, err)

	// Cached by CreateTask, so no store read.
	got, err := svc.GetTask(ctx, "octo", created.Metadata.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0, taskStore.getCalls)

	// A missing task is a normal outcome.
	got, err = svc.GetTask(ctx, "octo", "task-1-missing0")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestTaskService(t)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "octo", domain.TaskMetadata{Title: "a"}, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, "octo", created.Metadata.ID))

	// Gone from both store and cache.
	got, err := svc.GetTask(ctx, "octo", created.Metadata.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = svc.DeleteTask(ctx, "octo", created.Metadata.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/workbenchhq/workbench-api/internal/domain"
	"github.com/workbenchhq/workbench-api/internal/platform/logger"
	"github.com/workbenchhq/workbench-api/internal/store"
)

// defaultCacheTTL bounds how long a listed task set is served without
// re-reading the store.
const defaultCacheTTL = 5 * time.Second

// statusMessages are the fixed human-readable work-log messages
// emitted when a task transitions into each status.
var statusMessages = map[domain.Status]string{
	domain.StatusPending:    "작업이 대기 중입니다",
	domain.StatusInProgress: "작업을 시작했습니다",
	domain.StatusCompleted:  "작업이 완료되었습니다",
	domain.StatusFailed:     "작업이 실패했습니다",
}

// TaskServiceError is a custom error type for task service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// TaskUpdates carries a partial task metadata update. Nil fields are
// left unchanged on the stored task.
type TaskUpdates struct {
	Title        *string             `json:"title,omitempty"`
	Status       *domain.Status      `json:"status,omitempty"`
	Epic         *string             `json:"epic,omitempty"`
	Branch       *string             `json:"branch,omitempty"`
	StartedAt    *time.Time          `json:"startedAt,omitempty"`
	CompletedAt  *time.Time          `json:"completedAt,omitempty"`
	TokensUsed   *int                `json:"tokensUsed,omitempty"`
	GitHubIssue  *int                `json:"githubIssue,omitempty"`
	PRURL        *string             `json:"prUrl,omitempty"`
	BuildStatus  *domain.CheckStatus `json:"buildStatus,omitempty"`
	LintStatus   *domain.CheckStatus `json:"lintStatus,omitempty"`
	ErrorMessage *string             `json:"errorMessage,omitempty"`
}

// TaskService provides task CRUD over the file store with a short-TTL
// read cache and best-effort work logging.
type TaskService interface {
	// ListAllTasks returns the dashboard view of every repository's
	// tasks, ordered by repository name.
	ListAllTasks(ctx context.Context, forceRefresh bool) ([]domain.Task, error)

	// ListTasks returns the dashboard view of a repository's tasks.
	// Within the cache TTL the cached set is returned without store
	// I/O unless forceRefresh is set.
	ListTasks(ctx context.Context, repository string, forceRefresh bool) ([]domain.Task, error)

	// CreateTask assigns a new id and timestamps, persists the task,
	// and records a creation work-log entry.
	CreateTask(ctx context.Context, repository string, metadata domain.TaskMetadata, content string) (*domain.TaskFile, error)

	// UpdateTask merges a partial update into the stored task. When
	// the task is not cached it is fetched from the store first, so an
	// update never depends on a prior read. A status change or a newly
	// added PR URL also emits a work-log entry.
	UpdateTask(ctx context.Context, repository, id string, updates TaskUpdates, content *string) (*domain.TaskFile, error)

	// GetTask returns a task by id, cache-first. A missing task is a
	// normal outcome and returns (nil, nil).
	GetTask(ctx context.Context, repository, id string) (*domain.TaskFile, error)

	// DeleteTask removes a task file and evicts it from the cache.
	DeleteTask(ctx context.Context, repository, id string) error
}

// taskServiceImpl implements TaskService.
type taskServiceImpl struct {
	store    store.TaskStore
	workLogs WorkLogService
	logger   *slog.Logger
	ttl      time.Duration
	now      func() time.Time

	// mu guards the cache maps below.
	mu          sync.Mutex
	cache       map[string]*domain.TaskFile // keyed repository + "/" + id
	lastRefresh map[string]time.Time        // keyed repository
}

// NewTaskService creates a new TaskService. A ttl of zero selects the
// default. Returns an error if the store or work-log service is nil.
func NewTaskService(
	taskStore store.TaskStore,
	workLogs WorkLogService,
	ttl time.Duration,
	log *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("%w: taskStore cannot be nil", domain.ErrValidation)
	}
	if workLogs == nil {
		return nil, fmt.Errorf("%w: workLogs cannot be nil", domain.ErrValidation)
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if log == nil {
		log = slog.Default()
	}

	return &taskServiceImpl{
		store:       taskStore,
		workLogs:    workLogs,
		logger:      log.With(slog.String("component", "task_service")),
		ttl:         ttl,
		now:         time.Now,
		cache:       make(map[string]*domain.TaskFile),
		lastRefresh: make(map[string]time.Time),
	}, nil
}

func (s *taskServiceImpl) ListAllTasks(ctx context.Context, forceRefresh bool) ([]domain.Task, error) {
	repos, err := s.store.Repositories(ctx)
	if err != nil {
		return nil, &TaskServiceError{Operation: "list", Message: "enumerating repositories", Err: err}
	}

	all := []domain.Task{}
	for _, repo := range repos {
		tasks, err := s.ListTasks(ctx, repo, forceRefresh)
		if err != nil {
			return nil, err
		}
		all = append(all, tasks...)
	}
	return all, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, repository string, forceRefresh bool) ([]domain.Task, error) {
	if err := domain.ValidateRepositoryName(repository); err != nil {
		return nil, err
	}

	if !forceRefresh {
		if tasks, ok := s.cachedTasks(repository); ok {
			return tasks, nil
		}
	}

	// Two callers past the TTL both reach here and both reload; the
	// reload is idempotent so the stampede is accepted.
	files, err := s.store.List(ctx, repository)
	if err != nil {
		return nil, &TaskServiceError{Operation: "list", Message: "loading tasks", Err: err}
	}

	s.replaceRepository(repository, files)

	tasks := make([]domain.Task, 0, len(files))
	for _, f := range files {
		tasks = append(tasks, domain.TaskFromFile(f))
	}
	return tasks, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, repository string, metadata domain.TaskMetadata, content string) (*domain.TaskFile, error) {
	if err := domain.ValidateRepositoryName(repository); err != nil {
		return nil, err
	}

	now := s.now()
	metadata.ID = domain.NewTaskID()
	metadata.Repository = repository
	metadata.CreatedAt = now
	metadata.UpdatedAt = now
	if metadata.Status == "" {
		metadata.Status = domain.StatusPending
	}

	file := &domain.TaskFile{Metadata: metadata, Content: content}
	if err := file.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, repository, file); err != nil {
		return nil, &TaskServiceError{Operation: "create", Message: "persisting task", Err: err}
	}

	s.cacheSet(repository, file)
	s.workLogs.LogTaskCreated(ctx, file)
	return file, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, repository, id string, updates TaskUpdates, content *string) (*domain.TaskFile, error) {
	if err := domain.ValidateRepositoryName(repository); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing := s.cacheGet(repository, id)
	if existing == nil {
		// Not cached: fetch the base record from the store so that an
		// update to a never-read task still succeeds.
		var err error
		existing, err = s.store.Get(ctx, repository, id)
		if err != nil {
			if errors.Is(err, store.ErrTaskNotFound) {
				return nil, err
			}
			return nil, &TaskServiceError{Operation: "update", Message: "loading task", Err: err}
		}
	}

	merged := *existing
	prevStatus := merged.Metadata.Status
	prevPRURL := merged.Metadata.PRURL

	applyUpdates(&merged.Metadata, updates)
	merged.Metadata.UpdatedAt = s.now()
	if content != nil {
		merged.Content = *content
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, repository, &merged); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, err
		}
		return nil, &TaskServiceError{Operation: "update", Message: "persisting task", Err: err}
	}

	s.cacheSet(repository, &merged)

	if merged.Metadata.Status != prevStatus {
		message, ok := statusMessages[merged.Metadata.Status]
		if !ok {
			message = string(merged.Metadata.Status)
		}
		s.workLogs.LogTaskStatusChange(ctx, &merged, message)
	}
	if prevPRURL == "" && merged.Metadata.PRURL != "" {
		s.workLogs.LogProgress(ctx, &merged, "PR 생성: "+merged.Metadata.PRURL)
	}

	log.Debug("task updated",
		slog.String("task_id", id),
		slog.String("repository", repository),
		slog.String("status", string(merged.Metadata.Status)))
	return &merged, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, repository, id string) (*domain.TaskFile, error) {
	if err := domain.ValidateRepositoryName(repository); err != nil {
		return nil, err
	}

	if cached := s.cacheGet(repository, id); cached != nil {
		return cached, nil
	}

	file, err := s.store.Get(ctx, repository, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, nil
		}
		return nil, &TaskServiceError{Operation: "get", Message: "loading task", Err: err}
	}

	s.cacheSet(repository, file)
	return file, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, repository, id string) error {
	if err := domain.ValidateRepositoryName(repository); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, repository, id); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return err
		}
		return &TaskServiceError{Operation: "delete", Message: "removing task", Err: err}
	}

	s.mu.Lock()
	delete(s.cache, repository+"/"+id)
	s.mu.Unlock()
	return nil
}

// cachedTasks returns the repository's cached dashboard view when the
// cache is still fresh.
func (s *taskServiceImpl) cachedTasks(repository string) ([]domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.lastRefresh[repository]
	if !ok || s.now().Sub(last) >= s.ttl {
		return nil, false
	}

	prefix := repository + "/"
	var tasks []domain.Task
	for key, f := range s.cache {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			tasks = append(tasks, domain.TaskFromFile(f))
		}
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, true
}

// replaceRepository swaps out all cached entries for a repository and
// stamps its refresh time.
func (s *taskServiceImpl) replaceRepository(repository string, files []*domain.TaskFile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := repository + "/"
	for key := range s.cache {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			delete(s.cache, key)
		}
	}
	for _, f := range files {
		s.cache[prefix+f.Metadata.ID] = f
	}
	s.lastRefresh[repository] = s.now()
}

func (s *taskServiceImpl) cacheGet(repository, id string) *domain.TaskFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache[repository+"/"+id]
}

func (s *taskServiceImpl) cacheSet(repository string, file *domain.TaskFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[repository+"/"+file.Metadata.ID] = file
}

// applyUpdates copies the non-nil update fields onto the metadata.
func applyUpdates(meta *domain.TaskMetadata, updates TaskUpdates) {
	if updates.Title != nil {
		meta.Title = *updates.Title
	}
	if updates.Status != nil {
		meta.Status = *updates.Status
	}
	if updates.Epic != nil {
		meta.Epic = *updates.Epic
	}
	if updates.Branch != nil {
		meta.Branch = *updates.Branch
	}
	if updates.StartedAt != nil {
		meta.StartedAt = updates.StartedAt
	}
	if updates.CompletedAt != nil {
		meta.CompletedAt = updates.CompletedAt
	}
	if updates.TokensUsed != nil {
		meta.TokensUsed = *updates.TokensUsed
	}
	if updates.GitHubIssue != nil {
		meta.GitHubIssue = *updates.GitHubIssue
	}
	if updates.PRURL != nil {
		meta.PRURL = *updates.PRURL
	}
	if updates.BuildStatus != nil {
		meta.BuildStatus = *updates.BuildStatus
	}
	if updates.LintStatus != nil {
		meta.LintStatus = *updates.LintStatus
	}
	if updates.ErrorMessage != nil {
		meta.ErrorMessage = *updates.ErrorMessage
	}
}

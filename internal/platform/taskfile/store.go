// Package taskfile implements store.TaskStore on top of a directory of
// markdown files with front-matter metadata, one file per task.
package taskfile

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

// templateFileName is skipped when listing tasks; it holds the blank
// task scaffold, not a real task.
const templateFileName = "task-template.md"

// Store is a file-backed task store rooted at a base directory. Task
// files live at {root}/repositories/{repository}/tasks/{id}.md.
type Store struct {
	root   string
	locks  *fslock.KeyedMutex
	logger *slog.Logger
}

// Compile-time interface check.
var _ store.TaskStore = (*Store)(nil)

// New creates a Store rooted at root. The lock table serializes
// writers per file path and may be shared with other file stores.
func New(root string, locks *fslock.KeyedMutex, logger *slog.Logger) *Store {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for taskfile.Store")
	}
	if locks == nil {
		locks = fslock.New()
	}
	return &Store{
		root:   root,
		locks:  locks,
		logger: logger.With(slog.String("component", "taskfile_store")),
	}
}

// tasksDir returns the task directory for a repository after
// validating the repository name against path traversal.
func (s *Store) tasksDir(repository string) (string, error) {
	if err := domain.ValidateRepositoryName(repository); err != nil {
		return "", err
	}
	return filepath.Join(s.root, "repositories", repository, "tasks"), nil
}

func (s *Store) taskPath(repository, id string) (string, error) {
	dir, err := s.tasksDir(repository)
	if err != nil {
		return "", err
	}
	if id == "" || strings.Contains(id, "..") || strings.ContainsAny(id, "/\\") {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return filepath.Join(dir, id+".md"), nil
}

// Repositories implements store.TaskStore.
func (s *Store) Repositories(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.root, "repositories"))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, store.NewStoreError("task", "repositories", "failed to read repositories directory", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// List implements store.TaskStore.
func (s *Store) List(ctx context.Context, repository string) ([]*domain.TaskFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := s.tasksDir(repository)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []*domain.TaskFile{}, nil
	}
	if err != nil {
		return nil, store.NewStoreError("task", "list", "failed to read task directory", err)
	}

	files := make([]*domain.TaskFile, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") || name == templateFileName {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			s.logger.Warn("failed to read task file, skipping",
				slog.String("file", name),
				slog.String("error", err.Error()))
			continue
		}

		file, err := Decode(data)
		if err != nil {
			// A malformed file must not take down the whole listing.
			s.logger.Warn("failed to parse task file, skipping",
				slog.String("file", name),
				slog.String("error", err.Error()))
			continue
		}

		if file.Metadata.Repository == "" {
			file.Metadata.Repository = repository
		}
		files = append(files, file)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Metadata.UpdatedAt.After(files[j].Metadata.UpdatedAt)
	})
	return files, nil
}

// Create implements store.TaskStore.
func (s *Store) Create(ctx context.Context, repository string, file *domain.TaskFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := file.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	path, err := s.taskPath(repository, file.Metadata.ID)
	if err != nil {
		return err
	}
	if file.Metadata.Repository == "" {
		file.Metadata.Repository = repository
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return store.NewStoreError("task", "create", "failed to create task directory", err)
	}

	s.locks.Lock(path)
	defer s.locks.Unlock(path)

	if _, err := os.Stat(path); err == nil {
		return store.ErrTaskExists
	} else if !errors.Is(err, fs.ErrNotExist) {
		return store.NewStoreError("task", "create", "failed to stat task file", err)
	}

	if err := s.writeFile(path, file); err != nil {
		return store.NewStoreError("task", "create", "failed to write task file", err)
	}

	s.logger.Debug("task file created",
		slog.String("task_id", file.Metadata.ID),
		slog.String("repository", repository))
	return nil
}

// Get implements store.TaskStore.
func (s *Store) Get(ctx context.Context, repository, id string) (*domain.TaskFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.taskPath(repository, id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrTaskNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("task", "get", "failed to read task file", err)
	}

	file, err := Decode(data)
	if err != nil {
		return nil, store.NewStoreError("task", "get", "failed to parse task file", err)
	}
	if file.Metadata.Repository == "" {
		file.Metadata.Repository = repository
	}
	return file, nil
}

// Update implements store.TaskStore.
func (s *Store) Update(ctx context.Context, repository string, file *domain.TaskFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := file.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	path, err := s.taskPath(repository, file.Metadata.ID)
	if err != nil {
		return err
	}

	s.locks.Lock(path)
	defer s.locks.Unlock(path)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return store.ErrTaskNotFound
	} else if err != nil {
		return store.NewStoreError("task", "update", "failed to stat task file", err)
	}

	if err := s.writeFile(path, file); err != nil {
		return store.NewStoreError("task", "update", "failed to write task file", err)
	}

	s.logger.Debug("task file updated",
		slog.String("task_id", file.Metadata.ID),
		slog.String("repository", repository))
	return nil
}

// Delete implements store.TaskStore.
func (s *Store) Delete(ctx context.Context, repository, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.taskPath(repository, id)
	if err != nil {
		return err
	}

	s.locks.Lock(path)
	defer s.locks.Unlock(path)

	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return store.ErrTaskNotFound
	}
	if err != nil {
		return store.NewStoreError("task", "delete", "failed to remove task file", err)
	}
	return nil
}

// writeFile writes the encoded task file atomically: encode to a temp
// file in the same directory, then rename over the target, so readers
// never observe a half-written file.
func (s *Store) writeFile(path string, file *domain.TaskFile) error {
	data, err := Encode(file)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".task-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

package store

import (
	"context"

	"github.com/workbenchhq/workbench-api/internal/domain"
)

// TaskStore defines the interface for task file persistence.
//
// Implementations persist each task as a single markdown file with a
// front-matter metadata block, named by the task id. The repository
// argument selects the per-repository task directory and must be a
// plain name (no path separators); implementations reject anything
// else before touching the filesystem.
type TaskStore interface {
	// Repositories returns the names of repositories that currently
	// have a task directory, sorted. A missing storage root yields an
	// empty slice.
	Repositories(ctx context.Context) ([]string, error)

	// List returns all task files for the given repository, sorted by
	// UpdatedAt descending. A repository with no task directory yields
	// an empty slice, not an error. Template and non-markdown files
	// are skipped.
	List(ctx context.Context, repository string) ([]*domain.TaskFile, error)

	// Create persists a new task file.
	// Returns ErrTaskExists if a file with the same id already exists.
	Create(ctx context.Context, repository string, file *domain.TaskFile) error

	// Get retrieves a single task file by id.
	// Returns ErrTaskNotFound if the file does not exist.
	Get(ctx context.Context, repository, id string) (*domain.TaskFile, error)

	// Update overwrites an existing task file.
	// Returns ErrTaskNotFound if the file does not exist. The task id
	// is immutable: implementations must refuse a metadata id that
	// differs from the id of the file being updated.
	Update(ctx context.Context, repository string, file *domain.TaskFile) error

	// Delete removes a task file by id.
	// Returns ErrTaskNotFound if the file does not exist.
	Delete(ctx context.Context, repository, id string) error
}

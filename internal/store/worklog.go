package store

import (
	"context"

	"github.com/workbenchhq/workbench-api/internal/domain"
)

// WorkLogStore defines the interface for append-only work log persistence.
//
// Work logs are one markdown file per (repository, calendar date).
// Entries are only ever appended; existing file content is never
// rewritten or reordered.
type WorkLogStore interface {
	// Append renders the entry as markdown and appends it to the log
	// file for the entry's date, creating the file with a day header
	// first if needed.
	Append(ctx context.Context, repository string, entry *domain.WorkLogEntry) error

	// ListDays returns descriptors for the daily log files of a
	// repository, filtered to startDate <= date <= endDate when bounds
	// are given (dates compare as YYYY-MM-DD strings). The returned
	// Entries slices are always empty: the markdown log is not parsed
	// back into structured entries.
	ListDays(ctx context.Context, repository, startDate, endDate string) ([]*domain.DailyWorkLog, error)
}

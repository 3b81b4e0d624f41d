package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/workbenchhq/workbench-api/internal/domain"
)

func TestWorkLogEntryValidate(t *testing.T) {
	t.Parallel()

	valid := domain.WorkLogEntry{
		Timestamp:  time.Now(),
		TaskID:     "task-1700000000000-abc1234",
		TaskTitle:  "Fix bug",
		Repository: "octo",
		Status:     domain.StatusInProgress,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*domain.WorkLogEntry)
		wantErr error
	}{
		{
			name:    "missing task id",
			mutate:  func(e *domain.WorkLogEntry) { e.TaskID = "" },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing title",
			mutate:  func(e *domain.WorkLogEntry) { e.TaskTitle = "" },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown status",
			mutate:  func(e *domain.WorkLogEntry) { e.Status = "paused" },
			wantErr: domain.ErrInvalidStatus,
		},
		{
			name:    "traversal repository",
			mutate:  func(e *domain.WorkLogEntry) { e.Repository = "../etc" },
			wantErr: domain.ErrInvalidRepositoryName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entry := valid
			tt.mutate(&entry)
			assert.ErrorIs(t, entry.Validate(), tt.wantErr)
		})
	}
}

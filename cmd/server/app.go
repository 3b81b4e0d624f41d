package main

import (
	"fmt"
	"log/slog"

	"github.com/workbenchhq/workbench-api/internal/config"
	"github.com/workbenchhq/workbench-api/internal/platform/fslock"
	"github.com/workbenchhq/workbench-api/internal/platform/taskfile"
	"github.com/workbenchhq/workbench-api/internal/platform/worklog"
	"github.com/workbenchhq/workbench-api/internal/service"
)

// application holds the shared dependencies the HTTP layer is built
// from. It is assembled once at startup and never mutated afterwards.
type application struct {
	config *config.Config
	logger *slog.Logger

	taskService    service.TaskService
	workLogService service.WorkLogService
}

// newApplication wires the stores and services from the loaded
// configuration. Both stores share one keyed mutex so task writes and
// work-log appends under the same repository path never interleave.
func newApplication(cfg *config.Config, log *slog.Logger) (*application, error) {
	locks := fslock.New()

	taskStore := taskfile.New(cfg.Storage.TasksRoot, locks, log)
	workLogStore := worklog.New(cfg.Storage.LogsRoot, locks, log)

	workLogService, err := service.NewWorkLogService(workLogStore, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create work-log service: %w", err)
	}

	taskService, err := service.NewTaskService(taskStore, workLogService, 0, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	return &application{
		config:         cfg,
		logger:         log,
		taskService:    taskService,
		workLogService: workLogService,
	}, nil
}

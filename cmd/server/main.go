// Package main implements the entry point for the Workbench API
// server, which serves the task dashboard's flat-file task store,
// work logs, and GitHub proxy endpoints.
package main

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/workbenchhq/workbench-api/internal/config"
	"github.com/workbenchhq/workbench-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// run loads configuration, wires the application together, and runs
// the HTTP server until a shutdown signal arrives.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"tasks_root", cfg.Storage.TasksRoot,
		"logs_root", cfg.Storage.LogsRoot)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(app.setupRouter())
}

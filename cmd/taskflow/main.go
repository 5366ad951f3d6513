package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/taskflow-app/taskflow/adapter/cli"
	"github.com/taskflow-app/taskflow/internal/app"
	"github.com/taskflow-app/taskflow/pkg/config"
	"github.com/taskflow-app/taskflow/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{AppEnv: "development"}
	}

	// Setup logger
	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	logCfg.Level = observability.LogLevel(cfg.LogLevel)
	logger := observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	// Wire the application
	container, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		logger.Error("invalid TASKFLOW_USER_ID", "value", cfg.UserID)
		os.Exit(1)
	}

	cli.SetApp(&cli.App{
		PlaceTaskHandler:      container.PlaceTask,
		ToggleTaskHandler:     container.ToggleTask,
		PurgeCompletedHandler: container.PurgeCompleted,
		UpdateScheduleHandler: container.UpdateSchedule,
		WeekViewHandler:       container.WeekView,
		ProgressHandler:       container.Progress,
		CurrentUserID:         userID,
	})

	cli.Execute()
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/vacuum-planner/internal/app"
	"github.com/vancomm/vacuum-planner/internal/cache"
	"github.com/vancomm/vacuum-planner/internal/config"
	"github.com/vancomm/vacuum-planner/internal/database"
	"github.com/vancomm/vacuum-planner/internal/logging"
	"github.com/vancomm/vacuum-planner/internal/planner"
	"github.com/vancomm/vacuum-planner/internal/world"
)

func main() {
	development := config.Development()
	logger := logging.NewSlog(os.Stderr, development)

	level := logrus.InfoLevel
	if development {
		level = logrus.DebugLevel
	}
	err := logging.Setup(
		logging.Options{Level: level, File: os.Getenv("LOG_FILE"), MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28},
		planner.Log, world.Log, cache.Log,
	)
	if err != nil {
		logger.Error("failed to set up logging", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.New(logger, database.Migrations).Start(ctx); err != nil {
		logger.Error("failed to start", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

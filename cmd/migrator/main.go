package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/vancomm/vacuum-planner/internal/config"
	"github.com/vancomm/vacuum-planner/internal/database"
	"github.com/vancomm/vacuum-planner/internal/logging"
)

func main() {
	logger := logging.NewSlog(os.Stderr, config.Development())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	db, migrator, err := database.ConnectAndMigrate(ctx, database.Migrations)
	if err != nil {
		logger.Error("failed to connect to db", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		logger.Error("failed to check migration version", slog.Any("error", err))
		return
	}
	logger.Info("migration successful", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
}

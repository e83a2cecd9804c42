package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cesargomez89/tunedeck/internal/app"
	"github.com/cesargomez89/tunedeck/internal/config"
	"github.com/cesargomez89/tunedeck/internal/constants"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/tui"
)

// The terminal owns stdout, so logs go to a file next to the database.
const logFile = "tunedeck-tui.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tunedeck:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.FilePermissions)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: f,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.NewApp(a.Library, a.Player, a.Downloads, a.Bus, appLogger).Run(ctx)
}

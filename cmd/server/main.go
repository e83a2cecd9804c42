package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cesargomez89/tunedeck/internal/app"
	"github.com/cesargomez89/tunedeck/internal/config"
	httpapp "github.com/cesargomez89/tunedeck/internal/http"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Default().Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		appLogger.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	assets, err := httpapp.LoadAssets(web.Files, "static", appLogger)
	if err != nil {
		appLogger.Error("Failed to load web assets", "error", err)
		os.Exit(1)
	}

	h := httpapp.NewHandler(a.Library, a.Player, a.Downloads, a.Catalog, a.Settings, a.Bus, appLogger)
	h.SuggestLimit = cfg.SuggestionLimit

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapp.NewRouter(h, assets),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}
	appLogger.Info("Server exiting")
}

// Package app assembles the services shared by the server and the
// terminal front end.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cesargomez89/tunedeck/internal/catalog"
	"github.com/cesargomez89/tunedeck/internal/config"
	"github.com/cesargomez89/tunedeck/internal/constants"
	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/downloader"
	"github.com/cesargomez89/tunedeck/internal/events"
	"github.com/cesargomez89/tunedeck/internal/httpclient"
	"github.com/cesargomez89/tunedeck/internal/library"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/media"
	"github.com/cesargomez89/tunedeck/internal/playback"
	"github.com/cesargomez89/tunedeck/internal/store"
)

// App owns every long-lived component. Close releases them in reverse
// order of construction.
type App struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *store.DB
	Settings  *store.SettingsRepo
	Bus       *events.Bus
	Catalog   *catalog.ProviderManager
	Library   *library.Library
	Player    *playback.Controller
	Downloads *downloader.Service
}

// New opens the database, builds the catalog stack and restores the
// persisted session. Startup failures of the catalog are not fatal: the
// library simply starts empty.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if n, err := db.PurgeExpiredCache(); err != nil {
		log.Warn("Failed to purge catalog cache", "error", err)
	} else if n > 0 {
		log.Debug("Purged expired catalog cache", "count", n)
	}

	a := &App{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Settings: store.NewSettingsRepo(db),
		Bus:      events.NewBus(log.WithComponent("events").Logger),
	}

	apiClient := httpclient.NewClient(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.RequestInterval).
		WithRetries(constants.DefaultRetryCount, constants.DefaultRetryBase)

	if cfg.CatalogMock {
		log.Info("Using mock catalog")
		a.Catalog = catalog.NewStaticManager(catalog.NewMockProvider(), log)
	} else {
		a.Catalog = catalog.NewProviderManager(cfg.CatalogURL, apiClient, db, cfg.CacheTTL, log)
		if saved, err := a.Settings.Get(store.SettingActiveCatalog); err == nil && saved != "" && saved != cfg.CatalogURL {
			a.Catalog.SetProvider(saved)
		}
	}

	kv := store.NewStateRepo(db)
	kbps := domain.ParseKbps(cfg.Quality)

	a.Library = library.New(a.Catalog, kv, a.Bus, library.Options{SearchLimit: cfg.SearchLimit}, log)

	handle, err := media.Open(cfg.MediaBackend, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	a.Player = playback.NewController(a.Catalog, handle, kv, a.Bus, playback.Options{
		PreferredKbps:   kbps,
		SuggestionLimit: cfg.SuggestionLimit,
		EndBehavior:     cfg.EndBehavior,
		PollInterval:    cfg.PollInterval,
	}, log)
	a.Player.SetFavorites(a.Library.Favorites())

	downloadClient := httpclient.NewClient(&http.Client{Timeout: constants.DownloadHTTPTimeout}, 0)
	a.Downloads = downloader.NewService(a.Player, db, downloadClient, a.Bus, downloader.Options{
		Dir:           cfg.DownloadsDir,
		Template:      cfg.DownloadTemplate,
		PreferredKbps: kbps,
		Tag:           true,
	}, log)

	a.Player.Start()
	a.Downloads.Start()

	if err := a.Library.Load(ctx); err != nil {
		log.Warn("Initial results unavailable", "error", err)
	}
	a.Player.RestoreLast()
	return a, nil
}

func (a *App) Close() {
	a.Downloads.Close()
	if err := a.Player.Close(); err != nil {
		a.Logger.Warn("Failed to close player", "error", err)
	}
	a.Bus.Close()
	if err := a.DB.Close(); err != nil {
		a.Logger.Warn("Failed to close database", "error", err)
	}
}

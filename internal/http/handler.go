package httpapp

import (
	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/tunedeck/internal/catalog"
	"github.com/cesargomez89/tunedeck/internal/downloader"
	"github.com/cesargomez89/tunedeck/internal/events"
	"github.com/cesargomez89/tunedeck/internal/library"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/playback"
	"github.com/cesargomez89/tunedeck/internal/store"
)

type Handler struct {
	Library         *library.Library
	Player          *playback.Controller
	Downloads       *downloader.Service
	ProviderManager *catalog.ProviderManager
	SettingsRepo    *store.SettingsRepo
	Bus             *events.Bus
	Logger          *logger.Logger
	SuggestLimit    int
}

func NewHandler(lib *library.Library, player *playback.Controller, downloads *downloader.Service, pm *catalog.ProviderManager, sr *store.SettingsRepo, bus *events.Bus, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		Library:         lib,
		Player:          player,
		Downloads:       downloads,
		ProviderManager: pm,
		SettingsRepo:    sr,
		Bus:             bus,
		Logger:          log.WithComponent("http"),
		SuggestLimit:    8,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Get("/suggest", h.Suggest)
		r.Get("/results", h.Results)
		r.Put("/category/{category}", h.SetCategory)
		r.Put("/view/{view}", h.SetView)
		r.Post("/entities/{kind}/{id}", h.OpenEntity)
		r.Get("/browse/trending", h.BrowseTrending)
		r.Get("/browse/artists", h.BrowseArtists)

		r.Get("/player", h.PlayerState)
		r.Post("/player/play", h.Play)
		r.Post("/player/{action:toggle|pause|resume|next|prev|stop}", h.Transport)
		r.Post("/player/seek", h.Seek)

		r.Get("/favorites", h.Favorites)
		r.Post("/favorites/{id}", h.ToggleFavorite)

		r.Post("/downloads", h.StartDownload)
		r.Get("/downloads", h.DownloadHistory)
		r.Get("/downloads/running", h.RunningDownload)
		r.Get("/downloads/{id}/file", h.DownloadFile)

		r.Delete("/state", h.ClearState)

		r.Get("/catalog", h.CatalogSettings)
		r.Put("/catalog", h.SetCatalog)

		r.Get("/events", h.Events)
	})
}

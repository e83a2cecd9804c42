package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/httpclient"
)

type Logger interface {
	With(keyValues ...interface{}) *slog.Logger
	Info(msg string, keyValues ...interface{})
	Error(msg string, keyValues ...interface{})
}

// ProviderManager owns the active provider stack and lets the catalog
// mirror be switched at runtime. It is itself a Provider.
type ProviderManager struct {
	provider   Provider
	logger     Logger
	cached     *CachedProvider
	client     *httpclient.Client
	baseURL    string
	defaultURL string
	mu         sync.RWMutex
}

func NewProviderManager(baseURL string, client *httpclient.Client, cache Cache, cacheTTL time.Duration, logger Logger) *ProviderManager {
	saavn := NewSaavnProvider(baseURL, client)
	m := &ProviderManager{
		baseURL:    baseURL,
		defaultURL: baseURL,
		provider:   saavn,
		client:     client,
		logger:     logger,
	}
	if cache != nil {
		m.cached = NewCachedProvider(saavn, cache, cacheTTL)
	}
	return m
}

// NewStaticManager wraps a fixed provider, e.g. the mock one.
func NewStaticManager(p Provider, logger Logger) *ProviderManager {
	return &ProviderManager{provider: p, logger: logger}
}

func (m *ProviderManager) GetProvider() Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cached != nil {
		return m.cached
	}
	return m.provider
}

// SetProvider points the manager at another catalog mirror. Cached
// responses from the previous mirror are dropped.
func (m *ProviderManager) SetProvider(baseURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.logger != nil {
		m.logger.Info("Setting provider", "url", baseURL)
	}
	saavn := NewSaavnProvider(baseURL, m.client)
	m.provider = saavn
	if m.cached != nil {
		m.cached.provider = saavn
		if err := m.cached.ClearCache(); err != nil && m.logger != nil {
			m.logger.Error("Failed to clear catalog cache", "error", err)
		}
	}
	m.baseURL = baseURL
}

func (m *ProviderManager) GetBaseURL() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.baseURL
}

type ProviderSettings struct {
	ActiveURL  string `json:"active_url"`
	DefaultURL string `json:"default_url"`
	Cached     bool   `json:"cached"`
}

func (m *ProviderManager) Settings() ProviderSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ProviderSettings{
		ActiveURL:  m.baseURL,
		DefaultURL: m.defaultURL,
		Cached:     m.cached != nil,
	}
}

func (m *ProviderManager) SearchAll(ctx context.Context, query string, limit int) domain.Envelope[domain.SearchHit] {
	return m.GetProvider().SearchAll(ctx, query, limit)
}

func (m *ProviderManager) SearchSongs(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Track] {
	return m.GetProvider().SearchSongs(ctx, query, page, limit)
}

func (m *ProviderManager) SearchAlbums(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Album] {
	return m.GetProvider().SearchAlbums(ctx, query, page, limit)
}

func (m *ProviderManager) SearchArtists(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Artist] {
	return m.GetProvider().SearchArtists(ctx, query, page, limit)
}

func (m *ProviderManager) SearchPlaylists(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Playlist] {
	return m.GetProvider().SearchPlaylists(ctx, query, page, limit)
}

func (m *ProviderManager) GetSongs(ctx context.Context, ids ...string) domain.Envelope[domain.Track] {
	return m.GetProvider().GetSongs(ctx, ids...)
}

func (m *ProviderManager) GetAlbum(ctx context.Context, id string) domain.Envelope[domain.Album] {
	return m.GetProvider().GetAlbum(ctx, id)
}

func (m *ProviderManager) GetPlaylist(ctx context.Context, id string) domain.Envelope[domain.Playlist] {
	return m.GetProvider().GetPlaylist(ctx, id)
}

func (m *ProviderManager) GetArtist(ctx context.Context, id string) domain.Envelope[domain.Artist] {
	return m.GetProvider().GetArtist(ctx, id)
}

func (m *ProviderManager) GetArtistSongs(ctx context.Context, id string, page int) domain.Envelope[domain.Track] {
	return m.GetProvider().GetArtistSongs(ctx, id, page)
}

func (m *ProviderManager) GetArtistAlbums(ctx context.Context, id string, page int) domain.Envelope[domain.Album] {
	return m.GetProvider().GetArtistAlbums(ctx, id, page)
}

func (m *ProviderManager) GetSuggestions(ctx context.Context, id string, limit int) domain.Envelope[domain.Track] {
	return m.GetProvider().GetSuggestions(ctx, id, limit)
}

var _ Provider = (*ProviderManager)(nil)

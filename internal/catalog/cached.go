package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/store"
)

type Cache interface {
	GetCache(key string) ([]byte, error)
	SetCache(key string, data []byte, ttl time.Duration) error
	ClearCache() error
}

// CachedProvider memoizes successful, non-empty envelopes. Suggestions are
// never cached since they are expected to vary.
type CachedProvider struct {
	provider Provider
	cache    Cache
	logger   *slog.Logger
	cacheTTL time.Duration
}

func NewCachedProvider(provider Provider, cache Cache, cacheTTL time.Duration) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   slog.Default().WithGroup("catalog_cache"),
	}
}

func cached[T any](c *CachedProvider, key string, fetch func() domain.Envelope[T]) domain.Envelope[T] {
	data, err := c.cache.GetCache(key)
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
	}
	if data != nil {
		var items []T
		if err := json.Unmarshal(data, &items); err == nil {
			return domain.Succeeded(items)
		}
	}

	env := fetch()
	if !env.Successful || len(env.Items) == 0 {
		return env
	}

	if data, err := json.Marshal(env.Items); err == nil {
		if err := c.cache.SetCache(key, data, c.cacheTTL); err != nil {
			c.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return env
}

func searchKey(kind, query string, page, limit int) string {
	return fmt.Sprintf("search:%s:%s:%d:%d", kind, strings.ToLower(strings.TrimSpace(query)), page, limit)
}

func (c *CachedProvider) SearchAll(ctx context.Context, query string, limit int) domain.Envelope[domain.SearchHit] {
	return cached(c, searchKey("all", query, 0, limit), func() domain.Envelope[domain.SearchHit] {
		return c.provider.SearchAll(ctx, query, limit)
	})
}

func (c *CachedProvider) SearchSongs(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Track] {
	return cached(c, searchKey("songs", query, page, limit), func() domain.Envelope[domain.Track] {
		return c.provider.SearchSongs(ctx, query, page, limit)
	})
}

func (c *CachedProvider) SearchAlbums(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Album] {
	return cached(c, searchKey("albums", query, page, limit), func() domain.Envelope[domain.Album] {
		return c.provider.SearchAlbums(ctx, query, page, limit)
	})
}

func (c *CachedProvider) SearchArtists(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Artist] {
	return cached(c, searchKey("artists", query, page, limit), func() domain.Envelope[domain.Artist] {
		return c.provider.SearchArtists(ctx, query, page, limit)
	})
}

func (c *CachedProvider) SearchPlaylists(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Playlist] {
	return cached(c, searchKey("playlists", query, page, limit), func() domain.Envelope[domain.Playlist] {
		return c.provider.SearchPlaylists(ctx, query, page, limit)
	})
}

func (c *CachedProvider) GetSongs(ctx context.Context, ids ...string) domain.Envelope[domain.Track] {
	key := fmt.Sprintf("songs:%s", strings.Join(ids, ","))
	return cached(c, key, func() domain.Envelope[domain.Track] {
		return c.provider.GetSongs(ctx, ids...)
	})
}

func (c *CachedProvider) GetAlbum(ctx context.Context, id string) domain.Envelope[domain.Album] {
	return cached(c, fmt.Sprintf("album:%s", id), func() domain.Envelope[domain.Album] {
		return c.provider.GetAlbum(ctx, id)
	})
}

func (c *CachedProvider) GetPlaylist(ctx context.Context, id string) domain.Envelope[domain.Playlist] {
	return cached(c, fmt.Sprintf("playlist:%s", id), func() domain.Envelope[domain.Playlist] {
		return c.provider.GetPlaylist(ctx, id)
	})
}

func (c *CachedProvider) GetArtist(ctx context.Context, id string) domain.Envelope[domain.Artist] {
	return cached(c, fmt.Sprintf("artist:%s", id), func() domain.Envelope[domain.Artist] {
		return c.provider.GetArtist(ctx, id)
	})
}

func (c *CachedProvider) GetArtistSongs(ctx context.Context, id string, page int) domain.Envelope[domain.Track] {
	return cached(c, fmt.Sprintf("artist_songs:%s:%d", id, page), func() domain.Envelope[domain.Track] {
		return c.provider.GetArtistSongs(ctx, id, page)
	})
}

func (c *CachedProvider) GetArtistAlbums(ctx context.Context, id string, page int) domain.Envelope[domain.Album] {
	return cached(c, fmt.Sprintf("artist_albums:%s:%d", id, page), func() domain.Envelope[domain.Album] {
		return c.provider.GetArtistAlbums(ctx, id, page)
	})
}

func (c *CachedProvider) GetSuggestions(ctx context.Context, id string, limit int) domain.Envelope[domain.Track] {
	return c.provider.GetSuggestions(ctx, id, limit)
}

func (c *CachedProvider) ClearCache() error {
	return c.cache.ClearCache()
}

var (
	_ Provider = (*CachedProvider)(nil)
	_ Cache    = (*store.DB)(nil)
)

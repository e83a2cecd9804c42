package library

import (
	"context"
	"errors"

	"github.com/cesargomez89/tunedeck/internal/catalog"
	"github.com/cesargomez89/tunedeck/internal/constants"
	"github.com/cesargomez89/tunedeck/internal/domain"
)

var ErrBrowseFailed = errors.New("browse request failed")

// Page is the accumulated state of a paginated browse list.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Page    int  `json:"page"`
	HasMore bool `json:"hasMore"`
}

type browse[T any] struct {
	items   []T
	page    int
	hasMore bool
}

func (b browse[T]) snapshot() Page[T] {
	items := make([]T, len(b.items))
	copy(items, b.items)
	return Page[T]{Items: items, Page: b.page, HasMore: b.hasMore}
}

// apply merges a fetched page: page 1 replaces, the next page appends and
// any other page is ignored.
func (b *browse[T]) apply(page, pageSize int, items []T) bool {
	switch {
	case page <= 1:
		b.items = append([]T(nil), items...)
	case page == b.page+1:
		b.items = append(b.items, items...)
	default:
		return false
	}
	b.page = page
	b.hasMore = catalog.HasMore(len(items), pageSize)
	return true
}

// Trending loads a page of trending songs.
func (l *Library) Trending(ctx context.Context, page int) (Page[domain.Track], error) {
	if page < 1 {
		page = 1
	}
	env := l.provider.SearchSongs(ctx, constants.TrendingQuery, page, constants.TrendingPageSize)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !env.Successful {
		l.logger.Warn("Trending fetch failed", "page", page)
		return l.trending.snapshot(), ErrBrowseFailed
	}
	if !l.trending.apply(page, constants.TrendingPageSize, env.Items) {
		l.logger.Debug("Ignoring out of order trending page", "page", page, "loaded", l.trending.page)
	}
	return l.trending.snapshot(), nil
}

// PopularArtists loads a page of artists. The catalog has no listing
// endpoint, so this is a broad artist search.
func (l *Library) PopularArtists(ctx context.Context, page int) (Page[domain.Artist], error) {
	if page < 1 {
		page = 1
	}
	env := l.provider.SearchArtists(ctx, constants.PopularArtistsQuery, page, constants.PopularArtistsPageSize)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !env.Successful {
		l.logger.Warn("Artists fetch failed", "page", page)
		return l.artists.snapshot(), ErrBrowseFailed
	}
	if !l.artists.apply(page, constants.PopularArtistsPageSize, env.Items) {
		l.logger.Debug("Ignoring out of order artists page", "page", page, "loaded", l.artists.page)
	}
	return l.artists.snapshot(), nil
}

// TrendingPage returns the loaded trending songs without fetching.
func (l *Library) TrendingPage() Page[domain.Track] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.trending.snapshot()
}

func (l *Library) ArtistsPage() Page[domain.Artist] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.artists.snapshot()
}

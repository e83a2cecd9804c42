package playback

import (
	"context"

	"github.com/cesargomez89/tunedeck/internal/domain"
)

// TrackSource resolves full track details and related tracks. Any
// catalog.Provider satisfies it.
type TrackSource interface {
	GetSongs(ctx context.Context, ids ...string) domain.Envelope[domain.Track]
	GetSuggestions(ctx context.Context, id string, limit int) domain.Envelope[domain.Track]
}

// Media is the single playback handle. Load prepares a source without
// starting it; Ended fires once per natural end of the loaded source.
type Media interface {
	Load(ctx context.Context, url string, duration float64) error
	Play() error
	Pause() error
	Seek(seconds float64) error
	Stop() error
	Position() (elapsed, duration float64)
	Ended() <-chan struct{}
	Close() error
}

// FavoriteChecker reports whether a track is a favorite.
type FavoriteChecker interface {
	Contains(id string) bool
}

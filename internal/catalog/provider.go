package catalog

import (
	"context"

	"github.com/cesargomez89/tunedeck/internal/domain"
)

// Provider is the catalog surface. Implementations never return errors:
// transport and decoding failures come back as an unsuccessful envelope.
type Provider interface {
	SearchAll(ctx context.Context, query string, limit int) domain.Envelope[domain.SearchHit]
	SearchSongs(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Track]
	SearchAlbums(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Album]
	SearchArtists(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Artist]
	SearchPlaylists(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Playlist]
	GetSongs(ctx context.Context, ids ...string) domain.Envelope[domain.Track]
	GetAlbum(ctx context.Context, id string) domain.Envelope[domain.Album]
	GetPlaylist(ctx context.Context, id string) domain.Envelope[domain.Playlist]
	GetArtist(ctx context.Context, id string) domain.Envelope[domain.Artist]
	GetArtistSongs(ctx context.Context, id string, page int) domain.Envelope[domain.Track]
	GetArtistAlbums(ctx context.Context, id string, page int) domain.Envelope[domain.Album]
	GetSuggestions(ctx context.Context, id string, limit int) domain.Envelope[domain.Track]
}

// HasMore is the pagination heuristic: a full page suggests another one.
func HasMore(itemCount, pageSize int) bool {
	return pageSize > 0 && itemCount == pageSize
}

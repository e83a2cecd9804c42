package playback

import (
	"context"
	"fmt"

	"github.com/cesargomez89/tunedeck/internal/domain"
)

// Enrich turns a partial track into a full one by fetching its details.
// A track that already has sources is returned as is.
func Enrich(ctx context.Context, src TrackSource, t domain.Track) (domain.Track, error) {
	if t.Playable() {
		return t, nil
	}
	env := src.GetSongs(ctx, t.ID)
	if !env.Successful {
		return t, fmt.Errorf("%w: catalog request for %s failed", ErrEnrichment, t.ID)
	}
	for _, full := range env.Items {
		if full.ID == t.ID {
			return t.Merge(full), nil
		}
	}
	return t, fmt.Errorf("%w: %s not found", ErrEnrichment, t.ID)
}

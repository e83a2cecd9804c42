package library

import (
	"context"
	"fmt"
	"sync"

	"github.com/cesargomez89/tunedeck/internal/catalog"
	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/events"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/store"
)

// fakeCatalog answers searches with fixed envelopes. Queries listed in
// gates block in SearchSongs until the channel is closed.
type fakeCatalog struct {
	catalog.Provider

	mu        sync.Mutex
	songs     map[string]domain.Envelope[domain.Track]
	albums    map[string]domain.Envelope[domain.Album]
	artists   map[string]domain.Envelope[domain.Artist]
	playlists map[string]domain.Envelope[domain.Playlist]
	gates     map[string]chan struct{}
	entered   chan string
	pages     []int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		songs:     map[string]domain.Envelope[domain.Track]{},
		albums:    map[string]domain.Envelope[domain.Album]{},
		artists:   map[string]domain.Envelope[domain.Artist]{},
		playlists: map[string]domain.Envelope[domain.Playlist]{},
		gates:     map[string]chan struct{}{},
		entered:   make(chan string, 8),
	}
}

func lookup[T any](f *fakeCatalog, m map[string]domain.Envelope[T], query string) domain.Envelope[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if env, ok := m[query]; ok {
		return env
	}
	return domain.Succeeded([]T{})
}

func (f *fakeCatalog) SearchSongs(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Track] {
	f.mu.Lock()
	gate := f.gates[query]
	f.pages = append(f.pages, page)
	f.mu.Unlock()
	if gate != nil {
		f.entered <- query
		<-gate
	}
	return lookup(f, f.songs, fmt.Sprintf("%s#%d", query, page))
}

func (f *fakeCatalog) SearchAlbums(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Album] {
	return lookup(f, f.albums, query)
}

func (f *fakeCatalog) SearchArtists(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Artist] {
	return lookup(f, f.artists, fmt.Sprintf("%s#%d", query, page))
}

func (f *fakeCatalog) SearchPlaylists(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Playlist] {
	return lookup(f, f.playlists, query)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) results() []events.ResultsChanged {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.ResultsChanged
	for _, e := range r.events {
		if rc, ok := e.Payload.(events.ResultsChanged); ok {
			out = append(out, rc)
		}
	}
	return out
}

func tracks(prefix string, n int) []domain.Track {
	out := make([]domain.Track, n)
	for i := range out {
		out[i] = domain.Track{ID: fmt.Sprintf("%s%d", prefix, i+1), Name: fmt.Sprintf("Track %d", i+1)}
	}
	return out
}

func albums(n int) []domain.Album {
	out := make([]domain.Album, n)
	for i := range out {
		out[i] = domain.Album{ID: fmt.Sprintf("al%d", i+1), Name: fmt.Sprintf("Album %d", i+1)}
	}
	return out
}

func artists(prefix string, n int) []domain.Artist {
	out := make([]domain.Artist, n)
	for i := range out {
		out[i] = domain.Artist{ID: fmt.Sprintf("%s%d", prefix, i+1), Name: fmt.Sprintf("Artist %d", i+1)}
	}
	return out
}

type fixture struct {
	lib *Library
	cat *fakeCatalog
	kv  *store.MemoryKV
	rec *recorder
}

func newFixture(opts Options) *fixture {
	cat := newFakeCatalog()
	kv := store.NewMemoryKV()
	rec := &recorder{}
	return &fixture{
		lib: New(cat, kv, rec, opts, logger.Discard()),
		cat: cat,
		kv:  kv,
		rec: rec,
	}
}

// Package library holds what the user is looking at: the committed search
// results, the selected category and view, browse pages and favorites.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/cesargomez89/tunedeck/internal/catalog"
	"github.com/cesargomez89/tunedeck/internal/constants"
	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/events"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/store"
)

var (
	ErrEmptyQuery = errors.New("search query is empty")
	ErrSuperseded = errors.New("superseded by a newer search")
	ErrNoSongs    = errors.New("entity has no songs")
)

// View is the top-level screen the presentation shows.
type View string

const (
	ViewHome      View = "home"
	ViewSearch    View = "search"
	ViewTrending  View = "trending"
	ViewArtists   View = "artists"
	ViewFavorites View = "favorites"
)

func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewHome, ViewSearch, ViewTrending, ViewArtists, ViewFavorites:
		return v, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

type Options struct {
	SearchLimit int
	Keywords    []string
	// Intn picks the startup keyword; nil means math/rand.
	Intn func(n int) int
}

type Library struct {
	provider  catalog.Provider
	kv        store.KV
	publisher events.Publisher
	logger    *logger.Logger
	opts      Options
	favorites *Favorites

	mu       sync.RWMutex
	results  domain.ResultSet
	category domain.Category
	view     View
	seq      uint64
	trending browse[domain.Track]
	artists  browse[domain.Artist]
}

func New(provider catalog.Provider, kv store.KV, pub events.Publisher, opts Options, log *logger.Logger) *Library {
	if log == nil {
		log = logger.Default()
	}
	if pub == nil {
		pub = events.Nop{}
	}
	if kv == nil {
		kv = store.NewMemoryKV()
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = constants.DefaultSearchLimit
	}
	if len(opts.Keywords) == 0 {
		opts.Keywords = constants.DefaultKeywords
	}
	if opts.Intn == nil {
		opts.Intn = rand.IntN
	}
	log = log.WithComponent("library")
	return &Library{
		provider:  provider,
		kv:        kv,
		publisher: pub,
		logger:    log,
		opts:      opts,
		favorites: NewFavorites(kv, log),
		results:   emptyResults(""),
		category:  domain.CategorySongs,
		view:      ViewHome,
	}
}

func emptyResults(query string) domain.ResultSet {
	return domain.ResultSet{
		Query:     query,
		Songs:     []domain.Track{},
		Albums:    []domain.Album{},
		Artists:   []domain.Artist{},
		Playlists: []domain.Playlist{},
	}
}

func (l *Library) Favorites() *Favorites {
	return l.favorites
}

// Snapshot is a copy of the library state for presentation.
type Snapshot struct {
	View     View             `json:"view"`
	Category domain.Category  `json:"category"`
	Results  domain.ResultSet `json:"results"`
	Counts   domain.Counts    `json:"counts"`
}

func (l *Library) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rs := l.results
	return Snapshot{
		View:     l.view,
		Category: l.category,
		Results:  rs,
		Counts:   rs.Counts(),
	}
}

// Results returns the committed result set. Slices are shared with the
// library and must not be modified.
func (l *Library) Results() domain.ResultSet {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.results
}

func (l *Library) Category() domain.Category {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.category
}

func (l *Library) SetCategory(cat domain.Category) {
	l.mu.Lock()
	l.category = cat
	l.mu.Unlock()
	l.publishResults()
}

func (l *Library) View() View {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.view
}

func (l *Library) SetView(v View) {
	l.mu.Lock()
	l.view = v
	l.mu.Unlock()
	l.publishResults()
}

func (l *Library) publishResults() {
	l.mu.RLock()
	payload := events.ResultsChanged{
		Query:    l.results.Query,
		Category: string(l.category),
		View:     string(l.view),
		Counts:   l.results.Counts(),
	}
	l.mu.RUnlock()
	l.publisher.Publish(events.Event{Type: events.TypeResults, Payload: payload})
}

// Search runs the four category searches concurrently and commits them as
// one result set. A failed category commits as empty. If a newer search
// or click-through started meanwhile, nothing is committed and
// ErrSuperseded is returned. A search whose ctx ended before the fan-out
// settled commits nothing and returns ctx.Err().
func (l *Library) Search(ctx context.Context, query string, keepTab bool) (domain.ResultSet, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return domain.ResultSet{}, ErrEmptyQuery
	}
	log := l.logger.WithQuery(q)

	l.mu.Lock()
	l.seq++
	seq := l.seq
	if !keepTab {
		l.view = ViewSearch
	}
	l.mu.Unlock()

	rs := l.fanOut(ctx, q, log)
	if err := ctx.Err(); err != nil {
		log.Debug("Search abandoned", "error", err)
		return domain.ResultSet{}, err
	}

	l.mu.Lock()
	if l.seq != seq {
		l.mu.Unlock()
		log.Debug("Discarding stale search results")
		return rs, ErrSuperseded
	}
	l.results = rs
	l.persistResults(rs)
	l.mu.Unlock()

	c := rs.Counts()
	log.Info("Search committed", "songs", c.Songs, "albums", c.Albums, "artists", c.Artists, "playlists", c.Playlists)
	l.publishResults()
	return rs, nil
}

func (l *Library) fanOut(ctx context.Context, q string, log *logger.Logger) domain.ResultSet {
	limit := l.opts.SearchLimit
	var (
		songs     domain.Envelope[domain.Track]
		albums    domain.Envelope[domain.Album]
		artists   domain.Envelope[domain.Artist]
		playlists domain.Envelope[domain.Playlist]
	)

	var wg conc.WaitGroup
	wg.Go(func() { songs = l.provider.SearchSongs(ctx, q, 1, limit) })
	wg.Go(func() { albums = l.provider.SearchAlbums(ctx, q, 1, limit) })
	wg.Go(func() { artists = l.provider.SearchArtists(ctx, q, 1, limit) })
	wg.Go(func() { playlists = l.provider.SearchPlaylists(ctx, q, 1, limit) })
	wg.Wait()

	rs := domain.ResultSet{Query: q}
	rs.Songs = settled(songs, limit, domain.CategorySongs, log)
	rs.Albums = settled(albums, limit, domain.CategoryAlbums, log)
	rs.Artists = settled(artists, limit, domain.CategoryArtists, log)
	rs.Playlists = settled(playlists, limit, domain.CategoryPlaylists, log)
	return rs
}

// settled turns an envelope into the committed list: empty on failure,
// capped at limit otherwise.
func settled[T any](env domain.Envelope[T], limit int, cat domain.Category, log *logger.Logger) []T {
	if !env.Successful {
		log.Warn("Category search failed", "category", cat)
		return []T{}
	}
	items := env.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// persistResults must be called with l.mu held so writes land in commit
// order.
func (l *Library) persistResults(rs domain.ResultSet) {
	if len(rs.Songs) == 0 {
		return
	}
	data, err := json.Marshal(rs)
	if err != nil {
		l.logger.Warn("Failed to encode results", "error", err)
		return
	}
	if err := l.kv.Set(constants.KeyLastResults, string(data)); err != nil {
		l.logger.Warn("Failed to persist results", "error", err)
	}
}

// OpenEntity replaces the results with the songs of an album, playlist or
// artist and switches to the songs category.
func (l *Library) OpenEntity(ctx context.Context, kind domain.EntityKind, id string) (domain.ResultSet, error) {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	query := l.results.Query
	l.mu.Unlock()

	title, songs := l.entitySongs(ctx, kind, id)
	if len(songs) == 0 {
		l.logger.Info("Entity has no songs", "kind", kind, "id", id)
		return domain.ResultSet{}, ErrNoSongs
	}

	rs := emptyResults(query)
	rs.Scope = &domain.Scope{Kind: kind, ID: id, Title: title}
	rs.Songs = songs

	l.mu.Lock()
	if l.seq != seq {
		l.mu.Unlock()
		return rs, ErrSuperseded
	}
	l.results = rs
	l.category = domain.CategorySongs
	l.view = ViewSearch
	l.persistResults(rs)
	l.mu.Unlock()

	l.logger.Info("Opened entity", "kind", kind, "id", id, "songs", len(songs))
	l.publishResults()
	return rs, nil
}

func (l *Library) entitySongs(ctx context.Context, kind domain.EntityKind, id string) (string, []domain.Track) {
	switch kind {
	case domain.EntityAlbum:
		if album, ok := l.provider.GetAlbum(ctx, id).First(); ok {
			return album.Name, album.Songs
		}
	case domain.EntityPlaylist:
		if pl, ok := l.provider.GetPlaylist(ctx, id).First(); ok {
			return pl.Name, pl.Songs
		}
	case domain.EntityArtist:
		artist, ok := l.provider.GetArtist(ctx, id).First()
		if !ok {
			return "", nil
		}
		if len(artist.TopSongs) > 0 {
			return artist.Name, artist.TopSongs
		}
		return artist.Name, l.provider.GetArtistSongs(ctx, id, 1).Items
	}
	return "", nil
}

// Lookup finds a track the library already knows about.
func (l *Library) Lookup(id string) (domain.Track, bool) {
	l.mu.RLock()
	if t, ok := l.results.FindSong(id); ok {
		l.mu.RUnlock()
		return t, true
	}
	for _, t := range l.trending.items {
		if t.ID == id {
			l.mu.RUnlock()
			return t, true
		}
	}
	l.mu.RUnlock()
	return l.favorites.Get(id)
}

// Load restores persisted results and favorites. Without restored
// results it runs a default search for a random keyword.
func (l *Library) Load(ctx context.Context) error {
	l.favorites.Load()

	if rs, ok := l.restoreResults(); ok {
		l.mu.Lock()
		l.results = rs
		l.mu.Unlock()
		l.logger.Info("Restored last results", "query", rs.Query, "songs", len(rs.Songs))
		l.publishResults()
		return nil
	}

	keyword := l.opts.Keywords[l.opts.Intn(len(l.opts.Keywords))]
	l.logger.Info("Running default search", "query", keyword)
	_, err := l.Search(ctx, keyword, true)
	return err
}

func (l *Library) restoreResults() (domain.ResultSet, bool) {
	raw, ok, err := l.kv.Get(constants.KeyLastResults)
	if err != nil {
		l.logger.Debug("Failed to read last results", "error", err)
		return domain.ResultSet{}, false
	}
	if !ok {
		return domain.ResultSet{}, false
	}
	var rs domain.ResultSet
	if err := json.Unmarshal([]byte(raw), &rs); err != nil {
		l.logger.Debug("Ignoring unreadable last results", "error", err)
		return domain.ResultSet{}, false
	}
	if rs.Songs == nil {
		rs.Songs = []domain.Track{}
	}
	if rs.Albums == nil {
		rs.Albums = []domain.Album{}
	}
	if rs.Artists == nil {
		rs.Artists = []domain.Artist{}
	}
	if rs.Playlists == nil {
		rs.Playlists = []domain.Playlist{}
	}
	return rs, true
}

// Reset wipes every persisted key and the in-memory state. In-flight
// searches are discarded when they resolve.
func (l *Library) Reset(ctx context.Context) error {
	if err := l.kv.Clear(); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	l.favorites.reset()

	l.mu.Lock()
	l.seq++
	l.results = emptyResults("")
	l.category = domain.CategorySongs
	l.view = ViewHome
	l.trending = browse[domain.Track]{}
	l.artists = browse[domain.Artist]{}
	l.mu.Unlock()

	l.logger.Info("Cleared all persisted state")
	l.publishResults()
	return nil
}

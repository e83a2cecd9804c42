package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cesargomez89/tunedeck/internal/domain"
)

// MockProvider serves an in-memory catalog. Search results are returned
// without sources, like a partial listing; GetSongs returns the full
// tracks. Any method named in Fail returns a failed envelope.
type MockProvider struct {
	Songs       []domain.Track
	Albums      []domain.Album
	Artists     []domain.Artist
	Playlists   []domain.Playlist
	Suggestions map[string][]domain.Track
	Fail        map[string]bool

	mu    sync.Mutex
	calls map[string]int
}

func NewMockProvider() *MockProvider {
	p := &MockProvider{
		Suggestions: map[string][]domain.Track{},
		Fail:        map[string]bool{},
		calls:       map[string]int{},
	}
	p.seed()
	return p
}

func mockImages(kind, id string) domain.Images {
	return domain.Images{
		{Quality: "50x50", URL: fmt.Sprintf("mock://%s/%s/50.jpg", kind, id)},
		{Quality: "500x500", URL: fmt.Sprintf("mock://%s/%s/500.jpg", kind, id)},
	}
}

func mockSources(id string) []domain.Source {
	var sources []domain.Source
	for _, q := range []string{"96kbps", "160kbps", "320kbps"} {
		sources = append(sources, domain.Source{
			Quality: q,
			URL:     fmt.Sprintf("mock://song/%s/%s.mp4", id, q),
			Kbps:    domain.ParseKbps(q),
		})
	}
	return sources
}

func (p *MockProvider) seed() {
	artists := []string{"Mock Artist", "Demo Singer", "Sample Band"}
	for i, name := range artists {
		id := fmt.Sprintf("ar%d", i+1)
		p.Artists = append(p.Artists, domain.Artist{ID: id, Name: name, Role: "singer", Images: mockImages("artist", id)})
	}

	for a := 0; a < 6; a++ {
		artist := p.Artists[a%len(p.Artists)]
		album := domain.Album{
			ID:      fmt.Sprintf("al%d", a+1),
			Name:    fmt.Sprintf("Mock Album %d", a+1),
			Artists: []domain.ArtistRef{{ID: artist.ID, Name: artist.Name}},
			Images:  mockImages("album", fmt.Sprintf("al%d", a+1)),
			Year:    2015 + a,
		}
		for s := 0; s < 5; s++ {
			id := fmt.Sprintf("s%d", a*5+s+1)
			track := domain.Track{
				ID:       id,
				Name:     fmt.Sprintf("Mock Track %d", a*5+s+1),
				Artists:  album.Artists,
				Album:    &domain.AlbumRef{ID: album.ID, Name: album.Name},
				Images:   mockImages("song", id),
				Sources:  mockSources(id),
				Duration: 180 + 7*s,
				Year:     album.Year,
				Language: "hindi",
			}
			album.Songs = append(album.Songs, track)
			p.Songs = append(p.Songs, track)
		}
		album.SongCount = len(album.Songs)
		p.Albums = append(p.Albums, album)
	}

	for i := range p.Artists {
		for _, s := range p.Songs {
			if len(s.Artists) > 0 && s.Artists[0].ID == p.Artists[i].ID && len(p.Artists[i].TopSongs) < 10 {
				p.Artists[i].TopSongs = append(p.Artists[i].TopSongs, s)
			}
		}
	}

	for i := 0; i < 3; i++ {
		pl := domain.Playlist{
			ID:     fmt.Sprintf("pl%d", i+1),
			Name:   fmt.Sprintf("Mock Playlist %d", i+1),
			Images: mockImages("playlist", fmt.Sprintf("pl%d", i+1)),
		}
		for j := i; j < len(p.Songs); j += 4 {
			pl.Songs = append(pl.Songs, p.Songs[j])
		}
		pl.SongCount = len(pl.Songs)
		p.Playlists = append(p.Playlists, pl)
	}
}

func (p *MockProvider) record(method string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.calls == nil {
		p.calls = map[string]int{}
	}
	p.calls[method]++
	return p.Fail[method]
}

// Calls returns how many times method was invoked.
func (p *MockProvider) Calls(method string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[method]
}

func partial(t domain.Track) domain.Track {
	t.Sources = nil
	return t
}

func matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// page slices items for a 1-based page.
func page[T any](items []T, pageNum, limit int) []T {
	if pageNum < 1 {
		pageNum = 1
	}
	if limit <= 0 {
		return items
	}
	start := (pageNum - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// filter keeps matching items; a query matching nothing yields the whole
// catalog so demo queries always show something.
func filter[T any](items []T, query string, fields func(T) []string) []T {
	var out []T
	for _, it := range items {
		if matches(query, fields(it)...) {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return items
	}
	return out
}

func (p *MockProvider) SearchAll(ctx context.Context, query string, limit int) domain.Envelope[domain.SearchHit] {
	if p.record("SearchAll") {
		return domain.Failed[domain.SearchHit]()
	}
	var hits []domain.SearchHit
	for _, s := range page(p.SearchSongs(ctx, query, 1, limit).Items, 1, 3) {
		hits = append(hits, domain.SearchHit{Category: domain.CategorySongs, ID: s.ID, Title: s.Name, Description: s.ArtistNames(), Images: s.Images})
	}
	for _, a := range page(p.SearchAlbums(ctx, query, 1, limit).Items, 1, 3) {
		hits = append(hits, domain.SearchHit{Category: domain.CategoryAlbums, ID: a.ID, Title: a.Name, Images: a.Images})
	}
	return domain.Succeeded(hits)
}

func (p *MockProvider) SearchSongs(ctx context.Context, query string, pageNum, limit int) domain.Envelope[domain.Track] {
	if p.record("SearchSongs") {
		return domain.Failed[domain.Track]()
	}
	found := filter(p.Songs, query, func(t domain.Track) []string { return []string{t.Name, t.ArtistNames(), t.AlbumName()} })
	out := make([]domain.Track, 0, len(found))
	for _, t := range page(found, pageNum, limit) {
		out = append(out, partial(t))
	}
	return domain.Succeeded(out)
}

func (p *MockProvider) SearchAlbums(ctx context.Context, query string, pageNum, limit int) domain.Envelope[domain.Album] {
	if p.record("SearchAlbums") {
		return domain.Failed[domain.Album]()
	}
	found := filter(p.Albums, query, func(a domain.Album) []string {
		names := []string{a.Name}
		for _, ar := range a.Artists {
			names = append(names, ar.Name)
		}
		return names
	})
	out := make([]domain.Album, 0, len(found))
	for _, a := range page(found, pageNum, limit) {
		a.Songs = nil
		out = append(out, a)
	}
	return domain.Succeeded(out)
}

func (p *MockProvider) SearchArtists(ctx context.Context, query string, pageNum, limit int) domain.Envelope[domain.Artist] {
	if p.record("SearchArtists") {
		return domain.Failed[domain.Artist]()
	}
	found := filter(p.Artists, query, func(a domain.Artist) []string { return []string{a.Name} })
	out := make([]domain.Artist, 0, len(found))
	for _, a := range page(found, pageNum, limit) {
		a.TopSongs = nil
		out = append(out, a)
	}
	return domain.Succeeded(out)
}

func (p *MockProvider) SearchPlaylists(ctx context.Context, query string, pageNum, limit int) domain.Envelope[domain.Playlist] {
	if p.record("SearchPlaylists") {
		return domain.Failed[domain.Playlist]()
	}
	found := filter(p.Playlists, query, func(pl domain.Playlist) []string { return []string{pl.Name} })
	out := make([]domain.Playlist, 0, len(found))
	for _, pl := range page(found, pageNum, limit) {
		pl.Songs = nil
		out = append(out, pl)
	}
	return domain.Succeeded(out)
}

func (p *MockProvider) GetSongs(ctx context.Context, ids ...string) domain.Envelope[domain.Track] {
	if p.record("GetSongs") {
		return domain.Failed[domain.Track]()
	}
	var out []domain.Track
	for _, id := range ids {
		for _, s := range p.Songs {
			if s.ID == id {
				out = append(out, s)
			}
		}
	}
	return domain.Succeeded(out)
}

func (p *MockProvider) GetAlbum(ctx context.Context, id string) domain.Envelope[domain.Album] {
	if p.record("GetAlbum") {
		return domain.Failed[domain.Album]()
	}
	for _, a := range p.Albums {
		if a.ID == id {
			return domain.Succeeded([]domain.Album{a})
		}
	}
	return domain.Succeeded([]domain.Album{})
}

func (p *MockProvider) GetPlaylist(ctx context.Context, id string) domain.Envelope[domain.Playlist] {
	if p.record("GetPlaylist") {
		return domain.Failed[domain.Playlist]()
	}
	for _, pl := range p.Playlists {
		if pl.ID == id {
			return domain.Succeeded([]domain.Playlist{pl})
		}
	}
	return domain.Succeeded([]domain.Playlist{})
}

func (p *MockProvider) GetArtist(ctx context.Context, id string) domain.Envelope[domain.Artist] {
	if p.record("GetArtist") {
		return domain.Failed[domain.Artist]()
	}
	for _, a := range p.Artists {
		if a.ID == id {
			return domain.Succeeded([]domain.Artist{a})
		}
	}
	return domain.Succeeded([]domain.Artist{})
}

func (p *MockProvider) GetArtistSongs(ctx context.Context, id string, pageNum int) domain.Envelope[domain.Track] {
	if p.record("GetArtistSongs") {
		return domain.Failed[domain.Track]()
	}
	var out []domain.Track
	for _, s := range p.Songs {
		for _, a := range s.Artists {
			if a.ID == id {
				out = append(out, s)
			}
		}
	}
	return domain.Succeeded(page(out, pageNum, 10))
}

func (p *MockProvider) GetArtistAlbums(ctx context.Context, id string, pageNum int) domain.Envelope[domain.Album] {
	if p.record("GetArtistAlbums") {
		return domain.Failed[domain.Album]()
	}
	var out []domain.Album
	for _, al := range p.Albums {
		for _, a := range al.Artists {
			if a.ID == id {
				out = append(out, al)
			}
		}
	}
	return domain.Succeeded(page(out, pageNum, 10))
}

// GetSuggestions returns the configured suggestions for id, or the next
// few songs of the catalog.
func (p *MockProvider) GetSuggestions(ctx context.Context, id string, limit int) domain.Envelope[domain.Track] {
	if p.record("GetSuggestions") {
		return domain.Failed[domain.Track]()
	}
	if s, ok := p.Suggestions[id]; ok {
		return domain.Succeeded(s)
	}
	var out []domain.Track
	for i, s := range p.Songs {
		if s.ID != id {
			continue
		}
		for j := 1; j <= 5 && len(p.Songs) > 1; j++ {
			out = append(out, p.Songs[(i+j)%len(p.Songs)])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return domain.Succeeded(out)
}

var _ Provider = (*MockProvider)(nil)

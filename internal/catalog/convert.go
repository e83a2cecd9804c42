package catalog

import (
	"strings"

	"github.com/cesargomez89/tunedeck/internal/domain"
)

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (l FlexLinks) toImages() domain.Images {
	if len(l) == 0 {
		return nil
	}
	images := make(domain.Images, 0, len(l))
	for _, link := range l {
		images = append(images, domain.Image{Quality: link.Quality, URL: link.URL})
	}
	return images
}

// toSources orders renditions by bitrate, lowest first.
func (l FlexLinks) toSources() []domain.Source {
	if len(l) == 0 {
		return nil
	}
	sources := make([]domain.Source, 0, len(l))
	for _, link := range l {
		quality := link.Quality
		if quality == "" {
			quality = domain.QualityLabel(link.URL)
		}
		src := domain.Source{Quality: quality, URL: link.URL, Kbps: domain.ParseKbps(quality)}
		i := len(sources)
		for i > 0 && sources[i-1].Kbps > src.Kbps {
			i--
		}
		sources = append(sources, domain.Source{})
		copy(sources[i+1:], sources[i:])
		sources[i] = src
	}
	return sources
}

func (a APIArtistRef) toDomain() domain.ArtistRef {
	return domain.ArtistRef{
		ID:   formatID(a.ID),
		Name: decodeHTML(firstNonEmpty(a.Name, a.Title)),
		Role: a.Role,
	}
}

// primaryArtists prefers the structured list and falls back to the
// comma-separated credit string.
func primaryArtists(artists FlexArtists, credit FlexString) []domain.ArtistRef {
	list := artists.Primary
	if len(list) == 0 {
		list = artists.All
	}
	if len(list) > 0 {
		refs := make([]domain.ArtistRef, 0, len(list))
		for _, a := range list {
			if ref := a.toDomain(); ref.Name != "" {
				refs = append(refs, ref)
			}
		}
		return refs
	}

	var refs []domain.ArtistRef
	for _, name := range splitNames(string(credit)) {
		refs = append(refs, domain.ArtistRef{Name: name})
	}
	return refs
}

func (r APISong) ToDomain() domain.Track {
	track := domain.Track{
		ID:        formatID(r.ID),
		Name:      decodeHTML(firstNonEmpty(r.Name, r.Title)),
		Artists:   primaryArtists(r.Artists, r.PrimaryArtists),
		Images:    r.Image.toImages(),
		Duration:  int(r.Duration),
		Year:      int(r.Year),
		Language:  r.Language,
		Label:     decodeHTML(r.Label),
		Copyright: decodeHTML(r.Copyright),
		URL:       r.URL,
		PlayCount: int(r.PlayCount),
		Explicit:  bool(r.ExplicitContent),
	}

	links := r.DownloadURL
	if len(links) == 0 {
		links = r.DownloadURLAlt
	}
	track.Sources = links.toSources()

	if r.Album.Name != "" || r.Album.ID != "" {
		track.Album = &domain.AlbumRef{
			ID:   formatID(r.Album.ID),
			Name: decodeHTML(r.Album.Name),
			URL:  r.Album.URL,
		}
	}
	return track
}

func songsToDomain(songs []APISong) []domain.Track {
	if len(songs) == 0 {
		return nil
	}
	tracks := make([]domain.Track, 0, len(songs))
	for _, s := range songs {
		tracks = append(tracks, s.ToDomain())
	}
	return tracks
}

func (r APIAlbum) ToDomain() domain.Album {
	album := domain.Album{
		ID:          formatID(r.ID),
		Name:        decodeHTML(firstNonEmpty(r.Name, r.Title)),
		Description: decodeHTML(r.Description),
		Artists:     primaryArtists(r.Artists, r.PrimaryArtists),
		Images:      r.Image.toImages(),
		Songs:       songsToDomain(r.Songs),
		Year:        int(r.Year),
		SongCount:   int(r.SongCount),
		Language:    r.Language,
		URL:         r.URL,
		Explicit:    bool(r.ExplicitContent),
	}
	if album.SongCount == 0 {
		album.SongCount = len(album.Songs)
	}
	return album
}

func (r APIArtist) ToDomain() domain.Artist {
	artist := domain.Artist{
		ID:       formatID(r.ID),
		Name:     decodeHTML(firstNonEmpty(r.Name, r.Title)),
		Role:     r.Role,
		Images:   r.Image.toImages(),
		URL:      r.URL,
		TopSongs: songsToDomain(r.TopSongs),
	}
	for _, a := range r.TopAlbums {
		artist.TopAlbums = append(artist.TopAlbums, a.ToDomain())
	}
	return artist
}

func (r APIPlaylist) ToDomain() domain.Playlist {
	pl := domain.Playlist{
		ID:        formatID(r.ID),
		Name:      decodeHTML(firstNonEmpty(r.Name, r.Title)),
		Images:    r.Image.toImages(),
		Songs:     songsToDomain(r.Songs),
		SongCount: int(r.SongCount),
		Language:  r.Language,
		URL:       r.URL,
		Explicit:  bool(r.ExplicitContent),
	}
	if pl.SongCount == 0 {
		pl.SongCount = len(pl.Songs)
	}
	return pl
}

func (r APISearchHit) ToDomain(cat domain.Category) domain.SearchHit {
	return domain.SearchHit{
		Category:    cat,
		ID:          formatID(r.ID),
		Title:       decodeHTML(firstNonEmpty(r.Title, r.Name)),
		Description: decodeHTML(r.Description),
		Images:      r.Image.toImages(),
	}
}

// ToHits flattens the grouped global search, songs first.
func (r APISearchAll) ToHits() []domain.SearchHit {
	var hits []domain.SearchHit
	groups := []struct {
		cat   domain.Category
		items []APISearchHit
	}{
		{domain.CategorySongs, r.Songs.Results},
		{domain.CategoryAlbums, r.Albums.Results},
		{domain.CategoryArtists, r.Artists.Results},
		{domain.CategoryPlaylists, r.Playlists.Results},
	}
	for _, g := range groups {
		for _, item := range g.items {
			hits = append(hits, item.ToDomain(g.cat))
		}
	}
	return hits
}

package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Category names one of the four result buckets.
type Category string

const (
	CategorySongs     Category = "songs"
	CategoryAlbums    Category = "albums"
	CategoryArtists   Category = "artists"
	CategoryPlaylists Category = "playlists"
)

// Categories in display order.
var Categories = []Category{CategorySongs, CategoryAlbums, CategoryArtists, CategoryPlaylists}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// EntityKind names a container that can be opened into its songs.
type EntityKind string

const (
	EntityAlbum    EntityKind = "album"
	EntityPlaylist EntityKind = "playlist"
	EntityArtist   EntityKind = "artist"
)

func ParseEntityKind(s string) (EntityKind, error) {
	switch k := EntityKind(strings.ToLower(strings.TrimSpace(s))); k {
	case EntityAlbum, EntityPlaylist, EntityArtist:
		return k, nil
	}
	return "", fmt.Errorf("unknown entity kind %q", s)
}

// Image is one rendition of an artwork, ordered smallest first.
type Image struct {
	Quality string `json:"quality,omitempty"`
	URL     string `json:"url"`
}

type Images []Image

// Largest returns the last (highest resolution) rendition.
func (im Images) Largest() string {
	if len(im) == 0 {
		return ""
	}
	return im[len(im)-1].URL
}

// Smallest returns the first rendition.
func (im Images) Smallest() string {
	if len(im) == 0 {
		return ""
	}
	return im[0].URL
}

// Source is a streamable URL at a quality tier.
type Source struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
	Kbps    int    `json:"kbps"`
}

var kbpsPattern = regexp.MustCompile(`(\d+)\s*kbps`)

// ParseKbps reads the bitrate out of a label like "320kbps".
func ParseKbps(label string) int {
	m := kbpsPattern.FindStringSubmatch(strings.ToLower(label))
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// QualityLabel guesses the tier from the URL when no label was given.
func QualityLabel(url string) string {
	switch {
	case strings.Contains(url, "320"):
		return "320kbps"
	case strings.Contains(url, "160"):
		return "160kbps"
	default:
		return "128kbps"
	}
}

type ArtistRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

type AlbumRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Track is a song as returned by the catalog. Search results usually
// carry no Sources; a detail fetch fills them in.
type Track struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Artists   []ArtistRef `json:"artists,omitempty"`
	Album     *AlbumRef   `json:"album,omitempty"`
	Images    Images      `json:"images,omitempty"`
	Sources   []Source    `json:"sources,omitempty"`
	Duration  int         `json:"duration"`
	Year      int         `json:"year,omitempty"`
	Language  string      `json:"language,omitempty"`
	Label     string      `json:"label,omitempty"`
	Copyright string      `json:"copyright,omitempty"`
	URL       string      `json:"url,omitempty"`
	PlayCount int         `json:"playCount,omitempty"`
	Explicit  bool        `json:"explicit,omitempty"`
}

// Playable reports whether the track carries at least one source.
func (t Track) Playable() bool {
	for _, s := range t.Sources {
		if s.URL != "" {
			return true
		}
	}
	return false
}

// ArtistNames joins the primary artists for display.
func (t Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

// AlbumName returns the album title or "".
func (t Track) AlbumName() string {
	if t.Album == nil {
		return ""
	}
	return t.Album.Name
}

// Source picks the highest tier not above preferredKbps, falling back to
// the lowest tier available. A preference of 0 means "best".
func (t Track) Source(preferredKbps int) (Source, bool) {
	var best, lowest Source
	found := false
	for _, s := range t.Sources {
		if s.URL == "" {
			continue
		}
		if lowest.URL == "" || s.Kbps < lowest.Kbps {
			lowest = s
		}
		if preferredKbps > 0 && s.Kbps > preferredKbps {
			continue
		}
		if !found || s.Kbps >= best.Kbps {
			best = s
			found = true
		}
	}
	if found {
		return best, true
	}
	if lowest.URL != "" {
		return lowest, true
	}
	return Source{}, false
}

// Merge overlays a detailed representation of the same track onto t.
// Non-empty fields from full win; t fills the gaps.
func (t Track) Merge(full Track) Track {
	if full.ID != "" && full.ID != t.ID {
		return t
	}
	out := t
	if full.Name != "" {
		out.Name = full.Name
	}
	if len(full.Artists) > 0 {
		out.Artists = full.Artists
	}
	if full.Album != nil {
		out.Album = full.Album
	}
	if len(full.Images) > 0 {
		out.Images = full.Images
	}
	if len(full.Sources) > 0 {
		out.Sources = full.Sources
	}
	if full.Duration > 0 {
		out.Duration = full.Duration
	}
	if full.Year > 0 {
		out.Year = full.Year
	}
	if full.Language != "" {
		out.Language = full.Language
	}
	if full.Label != "" {
		out.Label = full.Label
	}
	if full.Copyright != "" {
		out.Copyright = full.Copyright
	}
	if full.URL != "" {
		out.URL = full.URL
	}
	if full.PlayCount > 0 {
		out.PlayCount = full.PlayCount
	}
	out.Explicit = out.Explicit || full.Explicit
	return out
}

type Album struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Artists     []ArtistRef `json:"artists,omitempty"`
	Images      Images      `json:"images,omitempty"`
	Songs       []Track     `json:"songs,omitempty"`
	Year        int         `json:"year,omitempty"`
	SongCount   int         `json:"songCount,omitempty"`
	Language    string      `json:"language,omitempty"`
	URL         string      `json:"url,omitempty"`
	Explicit    bool        `json:"explicit,omitempty"`
}

type Artist struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Role      string  `json:"role,omitempty"`
	Images    Images  `json:"images,omitempty"`
	URL       string  `json:"url,omitempty"`
	TopSongs  []Track `json:"topSongs,omitempty"`
	TopAlbums []Album `json:"topAlbums,omitempty"`
}

type Playlist struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Images    Images  `json:"images,omitempty"`
	Songs     []Track `json:"songs,omitempty"`
	SongCount int     `json:"songCount,omitempty"`
	Language  string  `json:"language,omitempty"`
	URL       string  `json:"url,omitempty"`
	Explicit  bool    `json:"explicit,omitempty"`
}

// SearchHit is one item of the mixed global search.
type SearchHit struct {
	Category    Category `json:"category"`
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Images      Images   `json:"images,omitempty"`
}

// Envelope is the only shape the catalog layer hands out.
type Envelope[T any] struct {
	Successful bool `json:"successful"`
	Items      []T  `json:"items"`
}

func Succeeded[T any](items []T) Envelope[T] {
	return Envelope[T]{Successful: true, Items: items}
}

func Failed[T any]() Envelope[T] {
	return Envelope[T]{}
}

// First returns the first item when the envelope succeeded with content.
func (e Envelope[T]) First() (T, bool) {
	var zero T
	if !e.Successful || len(e.Items) == 0 {
		return zero, false
	}
	return e.Items[0], true
}

// Scope marks a ResultSet produced by opening an entity.
type Scope struct {
	Kind  EntityKind `json:"kind"`
	ID    string     `json:"id"`
	Title string     `json:"title"`
}

// ResultSet is the committed output of one search or click-through.
type ResultSet struct {
	Query     string     `json:"query"`
	Scope     *Scope     `json:"scope,omitempty"`
	Songs     []Track    `json:"songs"`
	Albums    []Album    `json:"albums"`
	Artists   []Artist   `json:"artists"`
	Playlists []Playlist `json:"playlists"`
}

type Counts struct {
	Songs     int `json:"songs"`
	Albums    int `json:"albums"`
	Artists   int `json:"artists"`
	Playlists int `json:"playlists"`
}

func (r ResultSet) Counts() Counts {
	return Counts{
		Songs:     len(r.Songs),
		Albums:    len(r.Albums),
		Artists:   len(r.Artists),
		Playlists: len(r.Playlists),
	}
}

func (c Counts) Of(cat Category) int {
	switch cat {
	case CategorySongs:
		return c.Songs
	case CategoryAlbums:
		return c.Albums
	case CategoryArtists:
		return c.Artists
	case CategoryPlaylists:
		return c.Playlists
	}
	return 0
}

func (r ResultSet) Empty() bool {
	return len(r.Songs) == 0 && len(r.Albums) == 0 && len(r.Artists) == 0 && len(r.Playlists) == 0
}

// FindSong returns the song with the given ID.
func (r ResultSet) FindSong(id string) (Track, bool) {
	for _, t := range r.Songs {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

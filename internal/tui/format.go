package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/library"
	"github.com/cesargomez89/tunedeck/internal/playback"
)

// FormatDuration renders seconds as M:SS, or H:MM:SS past an hour.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, s%3600/60, s%60)
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// ProgressBar draws a bar of width cells. A nil progress draws an empty
// bar.
func ProgressBar(progress *float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if progress != nil {
		filled = int(*progress * float64(width))
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[lightgreen]" + strings.Repeat("▓", filled) + "[darkgray]" + strings.Repeat("░", width-filled) + "[white]"
}

// Tabs renders the category tabs with their counts, highlighting active.
func Tabs(counts domain.Counts, active domain.Category) string {
	parts := make([]string, 0, len(domain.Categories))
	for i, c := range domain.Categories {
		label := fmt.Sprintf("%d %s (%d)", i+1, c, counts.Of(c))
		if c == active {
			label = "[black:lightgreen] " + label + " [-:-]"
		} else {
			label = "[gray] " + label + " [-]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

var statusLabels = map[playback.Status]string{
	playback.StatusIdle:    "[darkgray]idle",
	playback.StatusLoading: "[yellow]loading",
	playback.StatusPlaying: "[lightgreen]playing",
	playback.StatusPaused:  "[yellow]paused",
	playback.StatusEnded:   "[darkgray]ended",
}

// PlayerBar renders the session in two lines: the track and the clock.
func PlayerBar(s playback.Session, width int) string {
	if s.Track == nil {
		return "[darkgray]Nothing playing\n" + ProgressBar(nil, width)
	}
	fav := ""
	if s.Favorite {
		fav = " [red]♥"
	}
	quality := ""
	if s.Source != nil {
		quality = " [darkgray]" + s.Source.Quality
	}
	return fmt.Sprintf("[white]%s [gray]- %s%s %s%s\n%s [white]%s / %s",
		s.Track.Name, s.Track.ArtistNames(), fav, statusLabels[s.Status], quality,
		ProgressBar(s.Progress, width), FormatDuration(s.Elapsed), FormatDuration(s.Duration))
}

// Row is one line of the results table.
type Row struct {
	Kind  domain.EntityKind
	ID    string
	Cols  []string
	Track *domain.Track
}

func trackRow(t domain.Track) Row {
	t2 := t
	return Row{
		ID:    t.ID,
		Track: &t2,
		Cols:  []string{t.Name, t.ArtistNames(), t.AlbumName(), FormatDuration(float64(t.Duration))},
	}
}

func artistNames(refs []domain.ArtistRef) string {
	names := make([]string, 0, len(refs))
	for _, a := range refs {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func songCount(n int) string {
	if n <= 0 {
		return ""
	}
	return humanize.Comma(int64(n)) + " songs"
}

// Rows lists what the results table shows for a snapshot: the active
// category of the result set, or the favorites in the favorites view.
func Rows(snap library.Snapshot, favorites []domain.Track) []Row {
	if snap.View == library.ViewFavorites {
		rows := make([]Row, 0, len(favorites))
		for _, t := range favorites {
			rows = append(rows, trackRow(t))
		}
		return rows
	}

	rs := snap.Results
	var rows []Row
	switch snap.Category {
	case domain.CategorySongs:
		for _, t := range rs.Songs {
			rows = append(rows, trackRow(t))
		}
	case domain.CategoryAlbums:
		for _, a := range rs.Albums {
			year := ""
			if a.Year > 0 {
				year = fmt.Sprint(a.Year)
			}
			rows = append(rows, Row{Kind: domain.EntityAlbum, ID: a.ID, Cols: []string{a.Name, artistNames(a.Artists), year, songCount(a.SongCount)}})
		}
	case domain.CategoryArtists:
		for _, a := range rs.Artists {
			rows = append(rows, Row{Kind: domain.EntityArtist, ID: a.ID, Cols: []string{a.Name, a.Role, "", ""}})
		}
	case domain.CategoryPlaylists:
		for _, p := range rs.Playlists {
			rows = append(rows, Row{Kind: domain.EntityPlaylist, ID: p.ID, Cols: []string{p.Name, p.Language, "", songCount(p.SongCount)}})
		}
	}
	return rows
}

// Title describes what the results table currently shows.
func Title(snap library.Snapshot) string {
	switch {
	case snap.View == library.ViewFavorites:
		return " Favorites "
	case snap.Results.Scope != nil:
		return fmt.Sprintf(" %s: %s ", snap.Results.Scope.Kind, snap.Results.Scope.Title)
	case snap.Results.Query != "" && snap.Results.Empty():
		return fmt.Sprintf(" No results for %q ", snap.Results.Query)
	case snap.Results.Query != "":
		return fmt.Sprintf(" Results for %q ", snap.Results.Query)
	}
	return " Results "
}

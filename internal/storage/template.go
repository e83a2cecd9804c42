package storage

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/cesargomez89/tunedeck/internal/domain"
)

// PathTemplateData holds the fields available to DOWNLOAD_TEMPLATE.
type PathTemplateData struct {
	Artist  string
	Album   string
	Title   string
	Quality string
	Year    int
}

// BuildPath executes the template and returns the relative path without
// extension.
func BuildPath(templateStr string, data *PathTemplateData) (string, error) {
	tmpl, err := template.New("download").Option("missingkey=error").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// TemplateDataFor builds sanitized template data for a track.
func TemplateDataFor(t domain.Track, src domain.Source) *PathTemplateData {
	artist := t.ArtistNames()
	if artist == "" {
		artist = "Unknown Artist"
	}
	title := t.Name
	if title == "" {
		title = t.ID
	}
	return &PathTemplateData{
		Artist:  Sanitize(artist),
		Album:   Sanitize(t.AlbumName()),
		Title:   Sanitize(title),
		Quality: Sanitize(src.Quality),
		Year:    t.Year,
	}
}

// BuildFullPath renders the template under dir. Each rendered path
// segment is sanitized and the result cannot escape dir.
func BuildFullPath(dir, templateStr string, data *PathTemplateData, ext string) (string, error) {
	rel, err := BuildPath(templateStr, data)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		seg = Sanitize(seg)
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		parts = append(parts, seg)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("template %q rendered an empty path", templateStr)
	}

	full := filepath.Join(append([]string{dir}, parts...)...)
	return filepath.Clean(full + ParseExtension(ext)), nil
}

// ParseExtension ensures a non-empty extension starts with a dot.
func ParseExtension(ext string) string {
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

// ExtensionFromURL returns the file extension of a media URL. The catalog
// serves AAC in MP4 containers, which are saved as .m4a.
func ExtensionFromURL(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	switch ext {
	case "", ".mp4", ".m4a":
		return ".m4a"
	}
	return ext
}

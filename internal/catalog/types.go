package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"
)

// FlexString accepts a JSON string, number or null.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(strings.Trim(string(data), `"`))
	return nil
}

func (f FlexString) String() string { return string(f) }

// FlexInt accepts a JSON number, a numeric string, or null.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var s FlexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		// Non-numeric values like "N/A" count as unknown
		*f = 0
		return nil
	}
	*f = FlexInt(int(n))
	return nil
}

// FlexBool accepts true/false, "true"/"false", 0/1 and null.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	var s FlexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	switch strings.ToLower(string(s)) {
	case "true", "1", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}

// MediaLink is one quality rendition of an image or an audio stream.
type MediaLink struct {
	Quality string
	URL     string
}

// FlexLinks handles the media descriptor shapes the API returns: an array
// of {quality, url|link}, a bare URL string, or a single object.
type FlexLinks []MediaLink

func (f *FlexLinks) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	type item struct {
		Quality string `json:"quality"`
		URL     string `json:"url"`
		Link    string `json:"link"`
	}
	toLink := func(it item) MediaLink {
		u := it.URL
		if u == "" {
			u = it.Link
		}
		return MediaLink{Quality: it.Quality, URL: u}
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "" {
			*f = FlexLinks{{URL: s}}
		}
	case '[':
		var items []item
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		links := make(FlexLinks, 0, len(items))
		for _, it := range items {
			if l := toLink(it); l.URL != "" {
				links = append(links, l)
			}
		}
		*f = links
	case '{':
		var it item
		if err := json.Unmarshal(data, &it); err != nil {
			return err
		}
		if l := toLink(it); l.URL != "" {
			*f = FlexLinks{l}
		}
	}
	return nil
}

// APIArtistRef is an artist entry inside a song or album.
type APIArtistRef struct {
	ID    FlexString `json:"id"`
	Name  string     `json:"name"`
	Title string     `json:"title"`
	Role  string     `json:"role"`
	Type  string     `json:"type"`
	URL   string     `json:"url"`
	Image FlexLinks  `json:"image"`
}

// FlexArtists handles {primary, featured, all} objects as well as plain
// arrays of artists.
type FlexArtists struct {
	Primary  []APIArtistRef `json:"primary"`
	Featured []APIArtistRef `json:"featured"`
	All      []APIArtistRef `json:"all"`
}

func (f *FlexArtists) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '[' {
		var list []APIArtistRef
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		f.Primary = list
		return nil
	}
	type plain FlexArtists
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = FlexArtists(p)
	return nil
}

// formatID converts various ID types to string
func formatID(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case FlexString:
		return string(val)
	case float64:
		return fmt.Sprintf("%.0f", val)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// decodeHTML unescapes entities such as &quot; and &amp; in display text.
func decodeHTML(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return html.UnescapeString(s)
}

// splitNames splits comma-separated credit strings like "A, B".
func splitNames(s string) []string {
	s = decodeHTML(s)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Package tagging writes track metadata and cover art into downloaded
// audio files.
package tagging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/httpclient"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// maxImageBytes bounds cover art downloads.
const maxImageBytes = 10 << 20

// Metadata is the subset of a track written into tags.
type Metadata struct {
	Title     string
	Artists   []string
	Album     string
	Year      int
	Language  string
	Label     string
	Copyright string
	TrackID   string
	URL       string
}

func FromTrack(t domain.Track) Metadata {
	md := Metadata{
		Title:     t.Name,
		Album:     t.AlbumName(),
		Year:      t.Year,
		Language:  t.Language,
		Label:     t.Label,
		Copyright: t.Copyright,
		TrackID:   t.ID,
		URL:       t.URL,
	}
	for _, a := range t.Artists {
		if a.Name != "" {
			md.Artists = append(md.Artists, a.Name)
		}
	}
	return md
}

// TagFile writes md and the optional cover art to the file at path. MP4
// containers are left untouched and report ErrUnsupportedFormat.
func TagFile(path string, md Metadata, art []byte) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		return tagMP3(path, md, art)
	case ".flac":
		return tagFLAC(path, md, art)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func tagMP3(path string, md Metadata, art []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open mp3 file: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if md.Title != "" {
		tag.SetTitle(md.Title)
	}
	if len(md.Artists) > 0 {
		tag.SetArtist(strings.Join(md.Artists, "/"))
	}
	if md.Album != "" {
		tag.SetAlbum(md.Album)
	}
	if md.Year > 0 {
		tag.SetYear(strconv.Itoa(md.Year))
	}
	if md.Language != "" {
		tag.AddTextFrame(tag.CommonID("Language"), tag.DefaultEncoding(), md.Language)
	}
	if md.Label != "" {
		tag.AddTextFrame(tag.CommonID("Publisher"), tag.DefaultEncoding(), md.Label)
	}
	if md.Copyright != "" {
		tag.AddTextFrame(tag.CommonID("Copyright message"), tag.DefaultEncoding(), md.Copyright)
	}
	if md.TrackID != "" {
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: "CATALOG_ID",
			Value:       md.TrackID,
		})
	}
	if len(art) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    imageMIME(art),
			PictureType: id3v2.PTFrontCover,
			Description: "Front Cover",
			Picture:     art,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save mp3 tags: %w", err)
	}
	return nil
}

func tagFLAC(path string, md Metadata, art []byte) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to open flac file: %w", err)
	}

	// Existing comments and pictures are replaced.
	kept := f.Meta[:0]
	for _, block := range f.Meta {
		if block.Type == flac.VorbisComment || block.Type == flac.Picture {
			continue
		}
		kept = append(kept, block)
	}
	f.Meta = kept

	vc, err := vorbisComment(md)
	if err != nil {
		return err
	}
	block := vc.Marshal()
	f.Meta = append(f.Meta, &block)

	if len(art) > 0 {
		pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Front Cover", art, imageMIME(art))
		if err != nil {
			return fmt.Errorf("failed to build picture block: %w", err)
		}
		picBlock := pic.Marshal()
		f.Meta = append(f.Meta, &picBlock)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("failed to save flac tags: %w", err)
	}
	return nil
}

func vorbisComment(md Metadata) (*flacvorbis.MetaDataBlockVorbisComment, error) {
	vc := flacvorbis.New()
	add := func(key, value string) error {
		if value == "" {
			return nil
		}
		if err := vc.Add(key, value); err != nil {
			return fmt.Errorf("failed to add %s: %w", key, err)
		}
		return nil
	}

	fields := [][2]string{
		{flacvorbis.FIELD_TITLE, md.Title},
		{flacvorbis.FIELD_ALBUM, md.Album},
		{flacvorbis.FIELD_ORGANIZATION, md.Label},
		{flacvorbis.FIELD_COPYRIGHT, md.Copyright},
		{"LANGUAGE", md.Language},
		{"CATALOG_ID", md.TrackID},
		{"WEBSITE", md.URL},
	}
	if md.Year > 0 {
		fields = append(fields, [2]string{flacvorbis.FIELD_DATE, strconv.Itoa(md.Year)})
	}
	for _, a := range md.Artists {
		fields = append(fields, [2]string{flacvorbis.FIELD_ARTIST, a})
	}
	for _, kv := range fields {
		if err := add(kv[0], kv[1]); err != nil {
			return nil, err
		}
	}
	return vc, nil
}

func imageMIME(data []byte) string {
	mime := http.DetectContentType(data)
	if idx := strings.Index(mime, ";"); idx != -1 {
		mime = strings.TrimSpace(mime[:idx])
	}
	if !strings.HasPrefix(mime, "image/") {
		return "image/jpeg"
	}
	return mime
}

// DownloadImage fetches cover art through the shared rate-limited client.
func DownloadImage(ctx context.Context, client *httpclient.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, nil
	}
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/httpclient"
)

var saavnLogger = slog.Default().WithGroup("saavn")

// maxBodyBytes bounds how much of a catalog response is read.
const maxBodyBytes = 16 << 20

type SaavnProvider struct {
	BaseURL string
	Client  *httpclient.Client
	Logger  *slog.Logger
}

func NewSaavnProvider(baseURL string, client *httpclient.Client) *SaavnProvider {
	if client == nil {
		client = httpclient.NewClient(nil, 0)
	}
	return &SaavnProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
		Logger:  saavnLogger,
	}
}

func (p *SaavnProvider) endpoint(path string, params url.Values) string {
	u := p.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func searchParams(query string, page, limit int) url.Values {
	v := url.Values{}
	v.Set("query", query)
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	return v
}

// fetch performs a GET and returns the raw body. Any failure is logged and
// reported to the caller so it can produce a failed envelope.
func (p *SaavnProvider) fetch(ctx context.Context, u string) ([]byte, error) {
	p.Logger.Debug("API request", "url", u)

	resp, err := p.Client.Get(ctx, u)
	if err != nil {
		p.Logger.Warn("API request failed", "url", u, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		p.Logger.Warn("API read failed", "url", u, "error", err)
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("API request failed: %s", resp.Status)
		p.Logger.Warn("API request failed", "url", u, "status", resp.StatusCode)
		return nil, err
	}
	return body, nil
}

// getList fetches u and converts each item with conv. It is the single
// place where remote responses become envelopes.
func getList[A any, T any](ctx context.Context, p *SaavnProvider, u string, conv func(A) T, collections ...string) domain.Envelope[T] {
	body, err := p.fetch(ctx, u)
	if err != nil {
		return domain.Failed[T]()
	}

	raw, err := normalize(body, collections...)
	if err != nil {
		p.Logger.Warn("malformed response", "url", u, "error", err)
		return domain.Failed[T]()
	}

	decoded, skipped := decodeItems[A](raw)
	if skipped > 0 {
		p.Logger.Debug("skipped undecodable items", "url", u, "count", skipped)
	}
	items := make([]T, 0, len(decoded))
	for _, d := range decoded {
		items = append(items, conv(d))
	}
	return domain.Succeeded(items)
}

func (p *SaavnProvider) SearchAll(ctx context.Context, query string, limit int) domain.Envelope[domain.SearchHit] {
	u := p.endpoint("/search", searchParams(query, 0, limit))
	body, err := p.fetch(ctx, u)
	if err != nil {
		return domain.Failed[domain.SearchHit]()
	}

	var env rawEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		p.Logger.Warn("malformed response", "url", u, "error", err)
		return domain.Failed[domain.SearchHit]()
	}
	if env.flagged() && !env.ok() {
		return domain.Failed[domain.SearchHit]()
	}

	payload := env.Data
	if !isObject(payload) {
		payload = body
	}
	var all APISearchAll
	if err := json.Unmarshal(payload, &all); err != nil {
		p.Logger.Warn("malformed response", "url", u, "error", err)
		return domain.Failed[domain.SearchHit]()
	}

	hits := all.ToHits()
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	return domain.Succeeded(hits)
}

func (p *SaavnProvider) SearchSongs(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Track] {
	return getList(ctx, p, p.endpoint("/search/songs", searchParams(query, page, limit)), APISong.ToDomain)
}

func (p *SaavnProvider) SearchAlbums(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Album] {
	return getList(ctx, p, p.endpoint("/search/albums", searchParams(query, page, limit)), APIAlbum.ToDomain)
}

func (p *SaavnProvider) SearchArtists(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Artist] {
	return getList(ctx, p, p.endpoint("/search/artists", searchParams(query, page, limit)), APIArtist.ToDomain)
}

func (p *SaavnProvider) SearchPlaylists(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Playlist] {
	return getList(ctx, p, p.endpoint("/search/playlists", searchParams(query, page, limit)), APIPlaylist.ToDomain)
}

func (p *SaavnProvider) GetSongs(ctx context.Context, ids ...string) domain.Envelope[domain.Track] {
	if len(ids) == 0 {
		return domain.Succeeded([]domain.Track{})
	}
	v := url.Values{}
	v.Set("ids", strings.Join(ids, ","))
	return getList(ctx, p, p.endpoint("/songs", v), APISong.ToDomain)
}

func (p *SaavnProvider) GetAlbum(ctx context.Context, id string) domain.Envelope[domain.Album] {
	v := url.Values{}
	v.Set("id", id)
	return getList(ctx, p, p.endpoint("/albums", v), APIAlbum.ToDomain)
}

func (p *SaavnProvider) GetPlaylist(ctx context.Context, id string) domain.Envelope[domain.Playlist] {
	v := url.Values{}
	v.Set("id", id)
	return getList(ctx, p, p.endpoint("/playlists", v), APIPlaylist.ToDomain)
}

func (p *SaavnProvider) GetArtist(ctx context.Context, id string) domain.Envelope[domain.Artist] {
	v := url.Values{}
	v.Set("id", id)
	return getList(ctx, p, p.endpoint("/artists", v), APIArtist.ToDomain)
}

func pageParams(page int) url.Values {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	return v
}

func (p *SaavnProvider) GetArtistSongs(ctx context.Context, id string, page int) domain.Envelope[domain.Track] {
	u := p.endpoint("/artists/"+url.PathEscape(id)+"/songs", pageParams(page))
	return getList(ctx, p, u, APISong.ToDomain, "songs")
}

func (p *SaavnProvider) GetArtistAlbums(ctx context.Context, id string, page int) domain.Envelope[domain.Album] {
	u := p.endpoint("/artists/"+url.PathEscape(id)+"/albums", pageParams(page))
	return getList(ctx, p, u, APIAlbum.ToDomain, "albums")
}

func (p *SaavnProvider) GetSuggestions(ctx context.Context, id string, limit int) domain.Envelope[domain.Track] {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	u := p.endpoint("/songs/"+url.PathEscape(id)+"/suggestions", v)
	return getList(ctx, p, u, APISong.ToDomain)
}

var _ Provider = (*SaavnProvider)(nil)

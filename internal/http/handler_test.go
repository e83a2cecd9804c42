package httpapp

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cesargomez89/tunedeck/internal/catalog"
	"github.com/cesargomez89/tunedeck/internal/downloader"
	"github.com/cesargomez89/tunedeck/internal/events"
	"github.com/cesargomez89/tunedeck/internal/httpclient"
	"github.com/cesargomez89/tunedeck/internal/library"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/media"
	"github.com/cesargomez89/tunedeck/internal/playback"
	"github.com/cesargomez89/tunedeck/internal/store"
)

type testApp struct {
	handler *Handler
	router  http.Handler
	bus     *events.Bus
	player  *playback.Controller
	lib     *library.Library
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := logger.Discard()

	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	bus := events.NewBus(log.Logger)
	t.Cleanup(bus.Close)

	pm := catalog.NewStaticManager(catalog.NewMockProvider(), log)
	kv := store.NewMemoryKV()

	lib := library.New(pm, kv, bus, library.Options{}, log)
	player := playback.NewController(pm, media.NewClock(), kv, bus, playback.Options{PollInterval: time.Hour}, log)
	player.SetFavorites(lib.Favorites())
	t.Cleanup(func() { player.Close() })

	client := httpclient.NewClient(http.DefaultClient, 0)
	dl := downloader.NewService(player, db, client, bus, downloader.Options{Dir: t.TempDir()}, log)
	t.Cleanup(dl.Close)

	h := NewHandler(lib, player, dl, pm, store.NewSettingsRepo(db), bus, log)
	return &testApp{handler: h, router: NewRouter(h, nil), bus: bus, player: player, lib: lib}
}

func (a *testApp) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestSearch(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/search?q=Mock", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	snap := decodeBody[library.Snapshot](t, rec)
	if snap.View != library.ViewSearch {
		t.Errorf("Expected search view, got %s", snap.View)
	}
	if snap.Results.Query != "Mock" || len(snap.Results.Songs) == 0 {
		t.Errorf("Unexpected results: %+v", snap.Results)
	}

	rec = app.do(t, http.MethodGet, "/api/search?q=%20%20", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for blank query, got %d", rec.Code)
	}
}

func TestCategoryAndView(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		target string
		want   int
	}{
		{"/api/category/albums", http.StatusOK},
		{"/api/category/podcasts", http.StatusBadRequest},
		{"/api/view/favorites", http.StatusOK},
		{"/api/view/nowhere", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if rec := app.do(t, http.MethodPut, tt.target, nil); rec.Code != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
	if app.lib.Category() != "albums" || app.lib.View() != library.ViewFavorites {
		t.Errorf("Expected albums/favorites, got %s/%s", app.lib.Category(), app.lib.View())
	}
}

func TestOpenEntity(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/entities/album/al1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if snap := decodeBody[library.Snapshot](t, rec); len(snap.Results.Songs) != 5 {
		t.Errorf("Expected 5 album songs, got %d", len(snap.Results.Songs))
	}

	if rec := app.do(t, http.MethodPost, "/api/entities/album/missing", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown album, got %d", rec.Code)
	}
	if rec := app.do(t, http.MethodPost, "/api/entities/podcast/x", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown kind, got %d", rec.Code)
	}
}

func TestBrowse(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/api/browse/trending?page=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := app.do(t, http.MethodGet, "/api/browse/artists?page=0", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for page 0, got %d", rec.Code)
	}
}

func TestPlayer(t *testing.T) {
	app := newTestApp(t)

	if rec := app.do(t, http.MethodPost, "/api/player/play", map[string]string{"id": "s1"}); rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 before any search, got %d", rec.Code)
	}
	if rec := app.do(t, http.MethodPost, "/api/player/pause", nil); rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 pausing while idle, got %d", rec.Code)
	}
	if rec := app.do(t, http.MethodPost, "/api/player/play", map[string]string{}); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without id, got %d", rec.Code)
	}

	app.do(t, http.MethodGet, "/api/search?q=Mock", nil)

	rec := app.do(t, http.MethodPost, "/api/player/play", map[string]string{"id": "s1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	sess := decodeBody[playback.Session](t, rec)
	if sess.Status != playback.StatusPlaying || sess.Track == nil || sess.Track.ID != "s1" {
		t.Errorf("Unexpected session: %+v", sess)
	}

	rec = app.do(t, http.MethodPost, "/api/player/toggle", nil)
	if got := decodeBody[playback.Session](t, rec); got.Status != playback.StatusPaused {
		t.Errorf("Expected paused after toggle, got %s", got.Status)
	}

	if rec := app.do(t, http.MethodPost, "/api/player/seek", map[string]any{}); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without fraction, got %d", rec.Code)
	}
	rec = app.do(t, http.MethodPost, "/api/player/seek", map[string]float64{"fraction": 1.5})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for seek, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody[playback.Session](t, rec); got.Progress == nil || *got.Progress != 1 {
		t.Errorf("Expected seek clamped to the end, got %+v", got.Progress)
	}

	if rec := app.do(t, http.MethodPost, "/api/player/rewind", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown action, got %d", rec.Code)
	}
}

func TestToggleFavorite(t *testing.T) {
	app := newTestApp(t)

	if rec := app.do(t, http.MethodPost, "/api/favorites/current", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 with nothing playing, got %d", rec.Code)
	}

	app.do(t, http.MethodGet, "/api/search?q=Mock", nil)
	app.do(t, http.MethodPost, "/api/player/play", map[string]string{"id": "s2"})

	rec := app.do(t, http.MethodPost, "/api/favorites/current", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	res := decodeBody[favoriteResponse](t, rec)
	if !res.Favorite || res.ID != "s2" || res.Count != 1 {
		t.Errorf("Unexpected response: %+v", res)
	}
	if !app.player.Session().Favorite {
		t.Error("Expected session to report the favorite")
	}

	rec = app.do(t, http.MethodPost, "/api/favorites/s2", nil)
	if res := decodeBody[favoriteResponse](t, rec); res.Favorite || res.Count != 0 {
		t.Errorf("Expected second toggle to remove, got %+v", res)
	}
}

func TestDownloadNothingPlaying(t *testing.T) {
	app := newTestApp(t)

	if rec := app.do(t, http.MethodPost, "/api/downloads", nil); rec.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", rec.Code)
	}
	rec := app.do(t, http.MethodGet, "/api/downloads", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("Expected empty history, got %d %s", rec.Code, rec.Body.String())
	}
	if rec := app.do(t, http.MethodGet, "/api/downloads/running", nil); rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204 with no running download, got %d", rec.Code)
	}
	if rec := app.do(t, http.MethodGet, "/api/downloads/nope/file", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown download, got %d", rec.Code)
	}
}

func TestClearState(t *testing.T) {
	app := newTestApp(t)
	app.do(t, http.MethodGet, "/api/search?q=Mock", nil)

	if rec := app.do(t, http.MethodDelete, "/api/state", nil); rec.Code != http.StatusPreconditionRequired {
		t.Fatalf("Expected 428 without confirmation, got %d", rec.Code)
	}
	if len(app.lib.Results().Songs) == 0 {
		t.Fatal("Expected results to survive an unconfirmed clear")
	}

	if rec := app.do(t, http.MethodDelete, "/api/state?confirm=true", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}
	if len(app.lib.Results().Songs) != 0 {
		t.Error("Expected results cleared")
	}
}

func TestCatalogSettings(t *testing.T) {
	app := newTestApp(t)

	if rec := app.do(t, http.MethodPut, "/api/catalog", map[string]string{"url": "ftp://x"}); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-http URL, got %d", rec.Code)
	}

	rec := app.do(t, http.MethodPut, "/api/catalog", map[string]string{"url": "https://mirror.example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	res := decodeBody[catalogResponse](t, rec)
	if res.ActiveURL != "https://mirror.example.com" {
		t.Errorf("Expected active mirror switched, got %q", res.ActiveURL)
	}
	if len(res.Mirrors) != 1 || res.Mirrors[0] != "https://mirror.example.com" {
		t.Errorf("Expected mirror remembered, got %v", res.Mirrors)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{library.ErrEmptyQuery, http.StatusBadRequest},
		{library.ErrNoSongs, http.StatusNotFound},
		{downloader.ErrFileMissing, http.StatusNotFound},
		{playback.ErrNotPaused, http.StatusConflict},
		{downloader.ErrDownloadInProgress, http.StatusConflict},
		{playback.ErrNoPlayableSource, http.StatusUnprocessableEntity},
		{ErrConfirmRequired, http.StatusPreconditionRequired},
		{library.ErrBrowseFailed, http.StatusBadGateway},
		{context.Canceled, http.StatusRequestTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestAssets(t *testing.T) {
	fsys := fstest.MapFS{
		"static/index.html": {Data: []byte("<html>  <body>  <p>hi</p>  </body></html>")},
		"static/app.js":     {Data: []byte("function  add ( a, b ) {\n  return a + b;\n}\n")},
	}
	assets, err := LoadAssets(fsys, "static", logger.Discard())
	if err != nil {
		t.Fatalf("LoadAssets failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/app.js", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	assets.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatal("Expected gzip encoding")
	}
	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	body, _ := io.ReadAll(zr)
	if len(body) == 0 || len(body) >= len(fsys["static/app.js"].Data) {
		t.Errorf("Expected minified script, got %q", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/some/client/route", nil)
	rec = httptest.NewRecorder()
	assets.ServeHTTP(rec, req)
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Expected index.html fallback, got %q", rec.Header().Get("Content-Type"))
	}
}

func TestEvents(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first, second events.Event
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if first.Type != events.TypePlayback || second.Type != events.TypeResults {
		t.Fatalf("Expected playback then results, got %s, %s", first.Type, second.Type)
	}

	deadline := time.Now().Add(2 * time.Second)
	for app.bus.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if _, err := app.lib.Search(context.Background(), "Mock", false); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	for {
		var e events.Event
		if err := conn.ReadJSON(&e); err != nil {
			t.Fatalf("ReadJSON failed: %v", err)
		}
		if e.Type == events.TypeResults {
			payload, _ := e.Payload.(map[string]any)
			if payload["query"] != "Mock" {
				t.Errorf("Expected query Mock, got %v", payload["query"])
			}
			return
		}
	}
}

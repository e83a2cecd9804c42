package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cesargomez89/tunedeck/internal/config"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/playback"
)

func testConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.DBPath = filepath.Join(dir, "tunedeck.db")
	cfg.DownloadsDir = filepath.Join(dir, "downloads")
	cfg.CatalogMock = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Invalid test config: %v", err)
	}
	return cfg
}

func TestNew_LoadsInitialResults(t *testing.T) {
	cfg := testConfig(t, t.TempDir())

	a, err := New(context.Background(), cfg, logger.Discard())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	if a.Library.Results().Empty() {
		t.Error("Expected a default search on first start")
	}
	if s := a.Player.Session(); s.Track != nil {
		t.Errorf("Expected no restored track, got %+v", s.Track)
	}
}

func TestNew_RestoresSession(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	ctx := context.Background()

	first, err := New(ctx, cfg, logger.Discard())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := first.Library.Search(ctx, "Mock Track 3", false); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	track, ok := first.Library.Lookup("s3")
	if !ok {
		t.Fatal("Expected s3 in results")
	}
	if err := first.Player.Play(ctx, track); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	first.Library.Favorites().Toggle(track)
	query := first.Library.Results().Query
	first.Close()

	second, err := New(ctx, cfg, logger.Discard())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer second.Close()

	s := second.Player.Session()
	if s.Track == nil || s.Track.ID != "s3" {
		t.Fatalf("Expected s3 restored, got %+v", s.Track)
	}
	if s.Status != playback.StatusIdle {
		t.Errorf("Expected restored session to be idle, got %s", s.Status)
	}
	if !s.Favorite {
		t.Error("Expected restored track to be a favorite")
	}
	if got := second.Library.Results().Query; got != query {
		t.Errorf("Expected last results %q restored, got %q", query, got)
	}
}

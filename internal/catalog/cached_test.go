package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cesargomez89/tunedeck/internal/domain"
)

type mockProvider struct {
	Provider
	searchCalled  int
	suggestCalled int
	fail          bool
}

func (m *mockProvider) SearchArtists(ctx context.Context, query string, page, limit int) domain.Envelope[domain.Artist] {
	m.searchCalled++
	if m.fail {
		return domain.Failed[domain.Artist]()
	}
	return domain.Succeeded([]domain.Artist{{ID: "1", Name: "Result"}})
}

func (m *mockProvider) GetSuggestions(ctx context.Context, id string, limit int) domain.Envelope[domain.Track] {
	m.suggestCalled++
	return domain.Succeeded([]domain.Track{{ID: "next"}})
}

type mockCache struct {
	data map[string][]byte
	err  error
}

func (m *mockCache) GetCache(key string) ([]byte, error) {
	return m.data[key], m.err
}

func (m *mockCache) SetCache(key string, data []byte, ttl time.Duration) error {
	m.data[key] = data
	return m.err
}

func (m *mockCache) ClearCache() error {
	m.data = make(map[string][]byte)
	return m.err
}

func TestCachedProvider_Search(t *testing.T) {
	inner := &mockProvider{}
	cache := &mockCache{data: make(map[string][]byte)}
	cp := NewCachedProvider(inner, cache, time.Hour)

	ctx := context.Background()

	// 1. First call - should call inner provider
	env := cp.SearchArtists(ctx, "query", 1, 5)
	if !env.Successful || env.Items[0].Name != "Result" {
		t.Errorf("Unexpected result: %+v", env)
	}
	if inner.searchCalled != 1 {
		t.Errorf("Expected inner provider to be called once, got %d", inner.searchCalled)
	}

	// 2. Second call - should hit cache, query is normalized
	env = cp.SearchArtists(ctx, "  Query ", 1, 5)
	if !env.Successful || env.Items[0].Name != "Result" {
		t.Errorf("Unexpected cached result: %+v", env)
	}
	if inner.searchCalled != 1 {
		t.Errorf("Expected inner provider to still be called once, got %d", inner.searchCalled)
	}

	// 3. Different page - cache miss
	cp.SearchArtists(ctx, "query", 2, 5)
	if inner.searchCalled != 2 {
		t.Errorf("Expected inner provider to be called twice, got %d", inner.searchCalled)
	}
}

func TestCachedProvider_CacheErrorFallsThrough(t *testing.T) {
	inner := &mockProvider{}
	cache := &mockCache{data: make(map[string][]byte), err: errors.New("cache down")}
	cp := NewCachedProvider(inner, cache, time.Hour)

	env := cp.SearchArtists(context.Background(), "query", 1, 5)
	if !env.Successful || len(env.Items) != 1 {
		t.Errorf("Expected provider result despite cache error, got %+v", env)
	}
}

func TestCachedProvider_FailedNotCached(t *testing.T) {
	inner := &mockProvider{fail: true}
	cache := &mockCache{data: make(map[string][]byte)}
	cp := NewCachedProvider(inner, cache, time.Hour)
	ctx := context.Background()

	if env := cp.SearchArtists(ctx, "query", 1, 5); env.Successful {
		t.Error("Expected failed envelope")
	}
	if len(cache.data) != 0 {
		t.Errorf("Expected nothing cached, got %d entries", len(cache.data))
	}

	inner.fail = false
	if env := cp.SearchArtists(ctx, "query", 1, 5); !env.Successful {
		t.Error("Expected recovery after failure")
	}
	if inner.searchCalled != 2 {
		t.Errorf("Expected two provider calls, got %d", inner.searchCalled)
	}
}

func TestCachedProvider_SuggestionsNotCached(t *testing.T) {
	inner := &mockProvider{}
	cache := &mockCache{data: make(map[string][]byte)}
	cp := NewCachedProvider(inner, cache, time.Hour)
	ctx := context.Background()

	cp.GetSuggestions(ctx, "s1", 10)
	cp.GetSuggestions(ctx, "s1", 10)
	if inner.suggestCalled != 2 {
		t.Errorf("Expected suggestions to bypass cache, got %d calls", inner.suggestCalled)
	}
}

func TestCachedProvider_ClearCache(t *testing.T) {
	inner := &mockProvider{}
	cache := &mockCache{data: make(map[string][]byte)}
	cp := NewCachedProvider(inner, cache, time.Hour)
	ctx := context.Background()

	cp.SearchArtists(ctx, "query", 1, 5)
	if err := cp.ClearCache(); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	cp.SearchArtists(ctx, "query", 1, 5)
	if inner.searchCalled != 2 {
		t.Errorf("Expected cache miss after clear, got %d calls", inner.searchCalled)
	}
}

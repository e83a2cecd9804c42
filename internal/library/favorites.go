package library

import (
	"encoding/json"
	"sync"

	"github.com/cesargomez89/tunedeck/internal/constants"
	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/store"
)

// Favorites is an insertion-ordered set of tracks keyed by ID. Every
// mutation is written through to the store.
type Favorites struct {
	mu     sync.RWMutex
	items  []domain.Track
	kv     store.KV
	logger *logger.Logger
}

func NewFavorites(kv store.KV, log *logger.Logger) *Favorites {
	if log == nil {
		log = logger.Default()
	}
	return &Favorites{kv: kv, logger: log}
}

// Load replaces the set with the persisted one. Missing or unreadable
// data leaves the set empty.
func (f *Favorites) Load() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil

	raw, ok, err := f.kv.Get(constants.KeyFavorites)
	if err != nil {
		f.logger.Debug("Failed to read favorites", "error", err)
		return
	}
	if !ok {
		return
	}
	var items []domain.Track
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		f.logger.Debug("Ignoring unreadable favorites", "error", err)
		return
	}
	seen := make(map[string]bool, len(items))
	for _, t := range items {
		if t.ID == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		f.items = append(f.items, t)
	}
}

// Toggle adds track when absent and removes it when present. It reports
// whether the track is a favorite afterwards.
func (f *Favorites) Toggle(track domain.Track) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	added := true
	for i, t := range f.items {
		if t.ID == track.ID {
			f.items = append(f.items[:i:i], f.items[i+1:]...)
			added = false
			break
		}
	}
	if added {
		f.items = append(f.items, track)
	}
	f.persistLocked()
	return added
}

func (f *Favorites) persistLocked() {
	items := f.items
	if items == nil {
		items = []domain.Track{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		f.logger.Warn("Failed to encode favorites", "error", err)
		return
	}
	if err := f.kv.Set(constants.KeyFavorites, string(data)); err != nil {
		f.logger.Warn("Failed to persist favorites", "error", err)
	}
}

func (f *Favorites) Contains(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.items {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (f *Favorites) Get(id string) (domain.Track, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.items {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Track{}, false
}

func (f *Favorites) List() []domain.Track {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.Track, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Favorites) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}

// reset empties the set without writing; the caller clears the store.
func (f *Favorites) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil
}

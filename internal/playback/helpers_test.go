package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/events"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/store"
)

type fakeMedia struct {
	mu      sync.Mutex
	loaded  string
	loads   int
	playing bool
	pos     float64
	dur     float64
	seeks   []float64
	stops   int
	loadErr error
	ended   chan struct{}

	// loadGate, when set, blocks Load until closed.
	loadGate    chan struct{}
	loadEntered chan struct{}
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{ended: make(chan struct{}, 1)}
}

func (m *fakeMedia) Load(ctx context.Context, url string, duration float64) error {
	m.mu.Lock()
	gate, entered := m.loadGate, m.loadEntered
	m.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return m.loadErr
	}
	m.loaded = url
	m.loads++
	m.pos = 0
	m.dur = duration
	m.playing = false
	return nil
}

func (m *fakeMedia) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = true
	return nil
}

func (m *fakeMedia) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	return nil
}

func (m *fakeMedia) Seek(seconds float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = seconds
	m.seeks = append(m.seeks, seconds)
	return nil
}

func (m *fakeMedia) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	m.loaded = ""
	m.playing = false
	return nil
}

func (m *fakeMedia) Position() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos, m.dur
}

func (m *fakeMedia) Ended() <-chan struct{} { return m.ended }

func (m *fakeMedia) Close() error { return nil }

func (m *fakeMedia) isPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *fakeMedia) loadedURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

func (m *fakeMedia) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

type fakeSource struct {
	mu          sync.Mutex
	songs       map[string]domain.Track
	suggestions map[string][]domain.Track
	failSongs   bool
	failSuggest bool
	songCalls   int
	gate        chan struct{}
	entered     chan struct{}
}

func newFakeSource(tracks ...domain.Track) *fakeSource {
	s := &fakeSource{
		songs:       map[string]domain.Track{},
		suggestions: map[string][]domain.Track{},
	}
	for _, t := range tracks {
		s.songs[t.ID] = t
	}
	return s
}

func (s *fakeSource) GetSongs(ctx context.Context, ids ...string) domain.Envelope[domain.Track] {
	s.mu.Lock()
	s.songCalls++
	gate, entered := s.gate, s.entered
	s.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSongs {
		return domain.Failed[domain.Track]()
	}
	var out []domain.Track
	for _, id := range ids {
		if t, ok := s.songs[id]; ok {
			out = append(out, t)
		}
	}
	return domain.Succeeded(out)
}

func (s *fakeSource) GetSuggestions(ctx context.Context, id string, limit int) domain.Envelope[domain.Track] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSuggest {
		return domain.Failed[domain.Track]()
	}
	return domain.Succeeded(s.suggestions[id])
}

func (s *fakeSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.songCalls
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(t events.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func fullTrack(id string, duration int) domain.Track {
	return domain.Track{
		ID:       id,
		Name:     "Track " + id,
		Duration: duration,
		Sources: []domain.Source{
			{Quality: "160kbps", URL: fmt.Sprintf("https://cdn/%s_160.mp4", id), Kbps: 160},
			{Quality: "320kbps", URL: fmt.Sprintf("https://cdn/%s_320.mp4", id), Kbps: 320},
		},
	}
}

func partialTrack(id string) domain.Track {
	return domain.Track{ID: id, Name: "Track " + id}
}

type fixture struct {
	ctrl  *Controller
	media *fakeMedia
	src   *fakeSource
	rec   *recorder
	kv    *store.MemoryKV
}

func newFixture(opts Options, tracks ...domain.Track) *fixture {
	f := &fixture{
		media: newFakeMedia(),
		src:   newFakeSource(tracks...),
		rec:   &recorder{},
		kv:    store.NewMemoryKV(),
	}
	f.ctrl = NewController(f.src, f.media, f.kv, f.rec, opts, logger.Discard())
	return f
}

// settle waits for background related-track fetches.
func (f *fixture) settle() {
	f.ctrl.wg.Wait()
}

var errBoom = errors.New("boom")

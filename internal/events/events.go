// Package events fans state changes out to the presentation layers.
package events

import (
	"log/slog"
	"sync"
	"time"
)

type Type string

const (
	TypePlayback Type = "playback"
	TypeNotice   Type = "notice"
	TypeResults  Type = "results"
	TypeDownload Type = "download"
)

// Event is what subscribers receive. Payload depends on Type: a
// playback.Session, a Notice, a ResultsChanged or a domain.Download.
type Event struct {
	Type    Type      `json:"type"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// NoticeKind classifies user-visible notices.
type NoticeKind string

const (
	NoticeNoPlayableSource NoticeKind = "no_playable_source"
	NoticeDownloadFailed   NoticeKind = "download_failed"
	NoticeDownloadDone     NoticeKind = "download_done"
)

type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
	TrackID string     `json:"track_id,omitempty"`
}

// ResultsChanged is published after a result set is committed.
type ResultsChanged struct {
	Query    string `json:"query"`
	Category string `json:"category"`
	View     string `json:"view"`
	Counts   any    `json:"counts"`
}

// Publisher is the side of the bus the core depends on.
type Publisher interface {
	Publish(Event)
}

// Bus delivers every published event to every subscriber. Publish never
// blocks: a subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subs:   make(map[int]chan Event),
		logger: logger,
	}
}

func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		b.logger.Warn("attempted to publish to closed event bus", "type", e.Type)
		return
	}

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Warn("event buffer full, dropping event", "type", e.Type, "subscriber", id)
		}
	}
}

// Subscribe registers a subscriber with the given buffer size. The
// returned func unsubscribes and closes the channel; calling it twice is
// safe.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
	b.logger.Debug("event bus closed")
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(Event) {}

var (
	_ Publisher = (*Bus)(nil)
	_ Publisher = Nop{}
)

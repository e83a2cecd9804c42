package media

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeTime struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeTime) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeTime) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestClock() (*Clock, *fakeTime) {
	ft := &fakeTime{now: time.Unix(1700000000, 0)}
	c := NewClock()
	c.now = ft.Now
	return c, ft
}

func TestClock_PlayPausePosition(t *testing.T) {
	c, ft := newTestClock()
	ctx := context.Background()

	if err := c.Play(); !errors.Is(err, ErrNoSource) {
		t.Errorf("Expected ErrNoSource before load, got %v", err)
	}
	if err := c.Load(ctx, "https://cdn/x.mp4", 200); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := c.Play(); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	ft.Advance(10 * time.Second)

	if elapsed, dur := c.Position(); elapsed != 10 || dur != 200 {
		t.Errorf("Position() = %v/%v, want 10/200", elapsed, dur)
	}

	if err := c.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	ft.Advance(30 * time.Second)
	if elapsed, _ := c.Position(); elapsed != 10 {
		t.Errorf("Expected clock frozen while paused, got %v", elapsed)
	}

	if err := c.Seek(100); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	if elapsed, _ := c.Position(); elapsed != 100 {
		t.Errorf("Expected 100 after seek, got %v", elapsed)
	}
	if err := c.Seek(500); err != nil {
		t.Fatal(err)
	}
	if elapsed, _ := c.Position(); elapsed != 200 {
		t.Errorf("Expected seek clamped to duration, got %v", elapsed)
	}
}

func TestClock_LoadValidation(t *testing.T) {
	c := NewClock()
	if err := c.Load(context.Background(), "", 10); !errors.Is(err, ErrNoSource) {
		t.Errorf("Expected ErrNoSource, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Load(ctx, "https://cdn/x.mp4", 10); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context error, got %v", err)
	}
}

func TestClock_Ended(t *testing.T) {
	c := NewClock()
	if err := c.Load(context.Background(), "https://cdn/x.mp4", 0.05); err != nil {
		t.Fatal(err)
	}
	if err := c.Play(); err != nil {
		t.Fatal(err)
	}

	select {
	case <-c.Ended():
	case <-time.After(2 * time.Second):
		t.Fatal("Expected end signal")
	}
	if elapsed, dur := c.Position(); elapsed != dur {
		t.Errorf("Expected clock at end, got %v/%v", elapsed, dur)
	}
}

func TestClock_StopCancelsEnd(t *testing.T) {
	c := NewClock()
	if err := c.Load(context.Background(), "https://cdn/x.mp4", 0.05); err != nil {
		t.Fatal(err)
	}
	if err := c.Play(); err != nil {
		t.Fatal(err)
	}
	if err := c.Stop(); err != nil {
		t.Fatal(err)
	}

	select {
	case <-c.Ended():
		t.Fatal("Expected no end signal after stop")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestOpen(t *testing.T) {
	m, err := Open("clock", nil)
	if err != nil || m == nil {
		t.Fatalf("Open(clock) = %v, %v", m, err)
	}
	if _, err := Open("vlc", nil); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

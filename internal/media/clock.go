// Package media provides playback handles for the controller.
package media

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNoSource = errors.New("no source loaded")

// Clock is a headless media handle. It does not decode audio; it keeps a
// play clock for the loaded source and signals the natural end once the
// duration elapses.
type Clock struct {
	mu        sync.Mutex
	url       string
	duration  float64
	offset    float64
	startedAt time.Time
	playing   bool
	timer     *time.Timer
	ended     chan struct{}
	now       func() time.Time
}

func NewClock() *Clock {
	return &Clock{
		ended: make(chan struct{}, 1),
		now:   time.Now,
	}
}

func (c *Clock) Load(ctx context.Context, url string, duration float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if url == "" {
		return ErrNoSource
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.url = url
	c.duration = duration
	c.offset = 0
	c.playing = false
	return nil
}

func (c *Clock) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.url == "" {
		return ErrNoSource
	}
	if c.playing {
		return nil
	}
	c.playing = true
	c.startedAt = c.now()
	c.armTimerLocked()
	return nil
}

func (c *Clock) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.url == "" {
		return ErrNoSource
	}
	if !c.playing {
		return nil
	}
	c.offset = c.elapsedLocked()
	c.playing = false
	c.stopTimerLocked()
	return nil
}

func (c *Clock) Seek(seconds float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.url == "" {
		return ErrNoSource
	}
	if seconds < 0 {
		seconds = 0
	}
	if c.duration > 0 && seconds > c.duration {
		seconds = c.duration
	}
	c.offset = seconds
	if c.playing {
		c.startedAt = c.now()
		c.armTimerLocked()
	}
	return nil
}

func (c *Clock) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
	c.url = ""
	c.duration = 0
	c.offset = 0
	c.playing = false
	return nil
}

func (c *Clock) Position() (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedLocked(), c.duration
}

func (c *Clock) Ended() <-chan struct{} {
	return c.ended
}

func (c *Clock) Close() error {
	return c.Stop()
}

func (c *Clock) elapsedLocked() float64 {
	elapsed := c.offset
	if c.playing {
		elapsed += c.now().Sub(c.startedAt).Seconds()
	}
	if c.duration > 0 && elapsed > c.duration {
		elapsed = c.duration
	}
	return elapsed
}

func (c *Clock) armTimerLocked() {
	c.stopTimerLocked()
	if c.duration <= 0 {
		return
	}
	remaining := time.Duration((c.duration - c.offset) * float64(time.Second))
	url := c.url
	c.timer = time.AfterFunc(remaining, func() { c.finish(url) })
}

func (c *Clock) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Clock) finish(url string) {
	c.mu.Lock()
	if !c.playing || c.url != url {
		c.mu.Unlock()
		return
	}
	c.offset = c.duration
	c.playing = false
	c.timer = nil
	c.mu.Unlock()

	select {
	case c.ended <- struct{}{}:
	default:
	}
}

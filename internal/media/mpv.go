//go:build mpv

package media

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/wildeyedskies/go-mpv/mpv"

	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/playback"
)

// MPV plays sources through libmpv.
type MPV struct {
	m      *mpv.Mpv
	logger *logger.Logger

	mu      sync.Mutex
	loaded  bool
	pending int

	ended  chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

func NewMPV(log *logger.Logger) (playback.Media, error) {
	if log == nil {
		log = logger.Default()
	}
	m := mpv.Create()
	m.SetOptionString("audio-display", "no")
	m.SetOptionString("video", "no")
	m.SetOptionString("idle", "yes")
	if err := m.Initialize(); err != nil {
		m.TerminateDestroy()
		return nil, fmt.Errorf("failed to initialize mpv: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &MPV{
		m:      m,
		logger: log.WithComponent("mpv"),
		ended:  make(chan struct{}, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go p.listen(ctx)
	return p, nil
}

// listen turns END_FILE events into natural-end signals. Ends caused by
// our own stop or replace commands are counted in pending and skipped.
func (p *MPV) listen(ctx context.Context) {
	defer close(p.done)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		e := p.m.WaitEvent(1)
		if e == nil || e.Event_Id != mpv.EVENT_END_FILE {
			continue
		}

		p.mu.Lock()
		if p.pending > 0 {
			p.pending--
			p.mu.Unlock()
			continue
		}
		p.loaded = false
		p.mu.Unlock()

		select {
		case p.ended <- struct{}{}:
		default:
		}
	}
}

func (p *MPV) Load(ctx context.Context, url string, duration float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		p.pending++
	}
	if err := p.m.SetProperty("pause", mpv.FORMAT_FLAG, true); err != nil {
		return err
	}
	if err := p.m.Command([]string{"loadfile", url, "replace"}); err != nil {
		return err
	}
	p.loaded = true
	return nil
}

func (p *MPV) Play() error {
	return p.m.SetProperty("pause", mpv.FORMAT_FLAG, false)
}

func (p *MPV) Pause() error {
	return p.m.SetProperty("pause", mpv.FORMAT_FLAG, true)
}

func (p *MPV) Seek(seconds float64) error {
	return p.m.Command([]string{"seek", strconv.FormatFloat(seconds, 'f', 2, 64), "absolute"})
}

func (p *MPV) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		return nil
	}
	p.pending++
	p.loaded = false
	return p.m.Command([]string{"stop"})
}

func (p *MPV) Position() (float64, float64) {
	var elapsed, duration float64
	if v, err := p.m.GetProperty("time-pos", mpv.FORMAT_DOUBLE); err == nil {
		elapsed, _ = v.(float64)
	}
	if v, err := p.m.GetProperty("duration", mpv.FORMAT_DOUBLE); err == nil {
		duration, _ = v.(float64)
	}
	return elapsed, duration
}

func (p *MPV) Ended() <-chan struct{} {
	return p.ended
}

func (p *MPV) Close() error {
	p.cancel()
	<-p.done
	if err := p.m.Command([]string{"quit"}); err != nil {
		p.logger.Debug("mpv quit failed", "error", err)
	}
	p.m.TerminateDestroy()
	return nil
}

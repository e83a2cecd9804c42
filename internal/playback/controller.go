// Package playback owns the single playback session: the current track,
// its play state, the related-tracks queue and the media handle.
package playback

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cesargomez89/tunedeck/internal/constants"
	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/events"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/store"
)

type Options struct {
	PreferredKbps   int
	SuggestionLimit int
	EndBehavior     string
	PollInterval    time.Duration
	RelatedTimeout  time.Duration
}

func DefaultOptions() Options {
	return Options{
		PreferredKbps:   constants.QualityMax,
		SuggestionLimit: constants.DefaultSuggestionLimit,
		EndBehavior:     constants.EndBehaviorAdvance,
		PollInterval:    constants.DefaultPollInterval,
		RelatedTimeout:  constants.RelatedFetchTimeout,
	}
}

type Controller struct {
	source    TrackSource
	media     Media
	kv        store.KV
	publisher events.Publisher
	favorites FavoriteChecker
	logger    *logger.Logger
	opts      Options

	loadMu      sync.Mutex
	mu          sync.Mutex
	current     *domain.Track
	selected    *domain.Source
	status      Status
	queue       Queue
	elapsed     float64
	duration    float64
	wantPlaying bool
	seq         uint64
	closed      bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewController(source TrackSource, media Media, kv store.KV, pub events.Publisher, opts Options, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Default()
	}
	if pub == nil {
		pub = events.Nop{}
	}
	if kv == nil {
		kv = store.NewMemoryKV()
	}
	defaults := DefaultOptions()
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaults.PollInterval
	}
	if opts.RelatedTimeout <= 0 {
		opts.RelatedTimeout = defaults.RelatedTimeout
	}
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = defaults.SuggestionLimit
	}
	if opts.EndBehavior == "" {
		opts.EndBehavior = defaults.EndBehavior
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		source:    source,
		media:     media,
		kv:        kv,
		publisher: pub,
		logger:    log.WithComponent("playback"),
		opts:      opts,
		status:    StatusIdle,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SetFavorites wires the favorite flag reported in sessions.
func (c *Controller) SetFavorites(f FavoriteChecker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.favorites = f
}

// Start launches the progress poller and the end-of-track watcher.
func (c *Controller) Start() {
	c.logger.Info("Starting playback controller", "poll_interval", c.opts.PollInterval, "end_behavior", c.opts.EndBehavior)
	c.wg.Add(2)
	go c.poll()
	go c.watchEnded()
}

// Close stops background work and releases the media handle.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	c.logger.Info("Playback controller stopped")
	return c.media.Close()
}

func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionLocked()
}

func (c *Controller) sessionLocked() Session {
	s := Session{
		Status:   c.status,
		Elapsed:  c.elapsed,
		Duration: c.duration,
		Progress: progress(c.elapsed, c.duration),
		Queue:    c.queue.Tracks(),
	}
	if c.current != nil {
		t := *c.current
		s.Track = &t
		if c.favorites != nil {
			s.Favorite = c.favorites.Contains(t.ID)
		}
	}
	if c.selected != nil {
		src := *c.selected
		s.Source = &src
	}
	return s
}

// Refresh republishes the session, e.g. after the favorite set changed.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publishLocked()
}

func (c *Controller) publishLocked() {
	c.publisher.Publish(events.Event{Type: events.TypePlayback, Payload: c.sessionLocked()})
}

// Current returns the current track, loaded or retained.
func (c *Controller) Current() (domain.Track, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return domain.Track{}, false
	}
	return *c.current, true
}

// CurrentSource returns the source selected for the loaded track.
func (c *Controller) CurrentSource() (domain.Source, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return domain.Source{}, false
	}
	return *c.selected, true
}

// Play starts track, or toggles it when it is already the current one.
func (c *Controller) Play(ctx context.Context, track domain.Track) error {
	c.mu.Lock()
	if c.current != nil && c.current.ID == track.ID {
		switch c.status {
		case StatusPlaying:
			defer c.mu.Unlock()
			return c.pauseLocked()
		case StatusPaused:
			defer c.mu.Unlock()
			return c.resumeLocked()
		case StatusLoading:
			c.wantPlaying = !c.wantPlaying
			c.publishLocked()
			c.mu.Unlock()
			return nil
		}
	}

	c.seq++
	seq := c.seq
	requested := track
	c.current = &requested
	c.selected = nil
	c.status = StatusLoading
	c.wantPlaying = true
	c.elapsed = 0
	c.duration = float64(track.Duration)
	c.publishLocked()
	c.mu.Unlock()

	log := c.logger.WithTrack(track.ID, track.Name)

	resolved := track
	if !track.Playable() {
		enriched, err := Enrich(ctx, c.source, track)
		if err != nil {
			log.Warn("Enrichment failed, trying with known sources", "error", err)
		}
		resolved = enriched
	}
	src, ok := resolved.Source(c.opts.PreferredKbps)

	// One media load at a time; c.mu stays free while it runs.
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.mu.Lock()
	if c.seq != seq {
		c.mu.Unlock()
		log.Debug("Discarding stale load")
		return ErrSuperseded
	}
	if !ok {
		defer c.mu.Unlock()
		log.Warn("No playable source")
		c.failLoadLocked(resolved, fmt.Sprintf("%q has no playable source", resolved.Name))
		return ErrNoPlayableSource
	}
	c.mu.Unlock()

	loadErr := c.media.Load(ctx, src.URL, float64(resolved.Duration))

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seq != seq {
		log.Debug("Discarding stale load")
		if loadErr == nil {
			if err := c.media.Stop(); err != nil {
				log.Debug("Media stop failed", "error", err)
			}
		}
		return ErrSuperseded
	}
	if err := loadErr; err != nil {
		log.Error("Media load failed", "quality", src.Quality, "error", err)
		c.failLoadLocked(resolved, fmt.Sprintf("%q could not be loaded", resolved.Name))
		return fmt.Errorf("%w: %v", ErrMediaLoad, err)
	}

	c.current = &resolved
	c.selected = &src
	if resolved.Duration > 0 {
		c.duration = float64(resolved.Duration)
	}
	if c.wantPlaying {
		if err := c.media.Play(); err != nil {
			log.Error("Media refused to start", "error", err)
			c.failLoadLocked(resolved, fmt.Sprintf("%q could not be played", resolved.Name))
			return fmt.Errorf("%w: %v", ErrMediaLoad, err)
		}
		c.status = StatusPlaying
	} else {
		c.status = StatusPaused
	}
	c.publishLocked()
	c.persistLocked(resolved)
	c.fetchRelatedLocked(resolved.ID)

	log.Info("Track loaded", "quality", src.Quality, "status", c.status)
	return nil
}

// failLoadLocked tears the session down after a load that cannot play
// and emits a single notice.
func (c *Controller) failLoadLocked(track domain.Track, message string) {
	if err := c.media.Stop(); err != nil {
		c.logger.Debug("Media stop failed", "error", err)
	}
	c.current = nil
	c.selected = nil
	c.status = StatusIdle
	c.elapsed = 0
	c.duration = 0
	c.publisher.Publish(events.Event{
		Type: events.TypeNotice,
		Payload: events.Notice{
			Kind:    events.NoticeNoPlayableSource,
			Message: message,
			TrackID: track.ID,
		},
	})
	c.publishLocked()
}

func (c *Controller) persistLocked(track domain.Track) {
	data, err := json.Marshal(track)
	if err != nil {
		c.logger.Warn("Failed to encode last song", "error", err)
		return
	}
	if err := c.kv.Set(constants.KeyLastSong, string(data)); err != nil {
		c.logger.Warn("Failed to persist last song", "error", err)
	}
}

// fetchRelatedLocked refreshes the queue in the background. The result is
// dropped if another track became current meanwhile.
func (c *Controller) fetchRelatedLocked(trackID string) {
	if c.closed || c.source == nil {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(c.ctx, c.opts.RelatedTimeout)
		defer cancel()

		env := c.source.GetSuggestions(ctx, trackID, c.opts.SuggestionLimit)
		if !env.Successful {
			c.logger.Warn("Related tracks fetch failed", "track_id", trackID)
			return
		}
		if len(env.Items) == 0 {
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.current == nil || c.current.ID != trackID {
			c.logger.Debug("Discarding stale related tracks", "track_id", trackID)
			return
		}
		c.queue = NewQueue(env.Items)
		c.publishLocked()
	}()
}

func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pauseLocked()
}

func (c *Controller) pauseLocked() error {
	switch c.status {
	case StatusPlaying:
	case StatusPaused:
		return ErrAlreadyPaused
	default:
		return ErrNotPlaying
	}
	if err := c.media.Pause(); err != nil {
		return err
	}
	c.elapsed, _ = c.media.Position()
	c.status = StatusPaused
	c.publishLocked()
	return nil
}

func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resumeLocked()
}

func (c *Controller) resumeLocked() error {
	switch c.status {
	case StatusPaused:
	case StatusPlaying:
		return ErrNotPaused
	default:
		return ErrNotPlaying
	}
	if err := c.media.Play(); err != nil {
		return err
	}
	c.status = StatusPlaying
	c.publishLocked()
	return nil
}

// Toggle pauses or resumes. From Idle it replays the retained track.
func (c *Controller) Toggle(ctx context.Context) error {
	c.mu.Lock()
	switch c.status {
	case StatusPlaying:
		defer c.mu.Unlock()
		return c.pauseLocked()
	case StatusPaused:
		defer c.mu.Unlock()
		return c.resumeLocked()
	case StatusLoading:
		defer c.mu.Unlock()
		c.wantPlaying = !c.wantPlaying
		c.publishLocked()
		return nil
	}
	if c.current == nil {
		c.mu.Unlock()
		return ErrNotPlaying
	}
	track := *c.current
	c.mu.Unlock()
	return c.Play(ctx, track)
}

func (c *Controller) Next(ctx context.Context) error {
	return c.step(ctx, Queue.Next)
}

func (c *Controller) Prev(ctx context.Context) error {
	return c.step(ctx, Queue.Prev)
}

func (c *Controller) step(ctx context.Context, pick func(Queue, string) (domain.Track, bool)) error {
	c.mu.Lock()
	currentID := ""
	if c.current != nil {
		currentID = c.current.ID
	}
	neighbor, ok := pick(c.queue, currentID)
	if !ok {
		c.mu.Unlock()
		return nil
	}
	if neighbor.ID == currentID {
		switch {
		case c.status.Active():
			defer c.mu.Unlock()
			return c.restartLocked()
		case c.status == StatusLoading:
			c.mu.Unlock()
			return nil
		}
	}
	c.mu.Unlock()
	return c.Play(ctx, neighbor)
}

func (c *Controller) restartLocked() error {
	if err := c.media.Seek(0); err != nil {
		return err
	}
	if c.status == StatusPaused {
		if err := c.media.Play(); err != nil {
			return err
		}
	}
	c.elapsed = 0
	c.status = StatusPlaying
	c.publishLocked()
	return nil
}

// Seek moves to fraction of the track, clamped to [0,1], and returns the
// new elapsed time in seconds. Play state is unchanged.
func (c *Controller) Seek(fraction float64) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.status.Active() {
		return 0, ErrNotPlaying
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	duration := c.duration
	if duration <= 0 {
		_, duration = c.media.Position()
	}
	elapsed := fraction * duration
	if err := c.media.Seek(elapsed); err != nil {
		return c.elapsed, err
	}
	c.elapsed = elapsed
	c.publishLocked()
	return elapsed, nil
}

// Stop tears the session down. The queue is kept.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	c.seq++
	if err := c.media.Stop(); err != nil {
		c.logger.Debug("Media stop failed", "error", err)
	}
	c.current = nil
	c.selected = nil
	c.status = StatusIdle
	c.elapsed = 0
	c.duration = 0
	c.publishLocked()
}

// Reset stops playback and forgets the queue.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = Queue{}
	c.stopLocked()
}

// Restore makes track current without loading it.
func (c *Controller) Restore(track domain.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := track
	c.current = &t
	c.selected = nil
	c.status = StatusIdle
	c.elapsed = 0
	c.duration = float64(track.Duration)
	c.publishLocked()
}

// RestoreLast restores the persisted last song. A missing or unreadable
// value is ignored.
func (c *Controller) RestoreLast() bool {
	raw, ok, err := c.kv.Get(constants.KeyLastSong)
	if err != nil {
		c.logger.Debug("Failed to read last song", "error", err)
		return false
	}
	if !ok {
		return false
	}
	var track domain.Track
	if err := json.Unmarshal([]byte(raw), &track); err != nil || track.ID == "" {
		c.logger.Debug("Ignoring unreadable last song", "error", err)
		return false
	}
	c.Restore(track)
	c.logger.Info("Restored last song", "track_id", track.ID)
	return true
}

// handleEnded reacts to a natural end of the loaded source.
func (c *Controller) handleEnded() {
	c.mu.Lock()
	if c.status != StatusPlaying {
		c.mu.Unlock()
		return
	}
	c.status = StatusEnded
	c.elapsed = c.duration
	c.publishLocked()

	if c.opts.EndBehavior == constants.EndBehaviorAdvance && c.queue.Len() > 0 {
		c.mu.Unlock()
		if err := c.Next(c.ctx); err != nil {
			c.logger.Warn("Auto-advance failed", "error", err)
		}
		return
	}
	defer c.mu.Unlock()
	c.status = StatusIdle
	c.elapsed = 0
	c.publishLocked()
}

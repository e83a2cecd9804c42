// Package downloader saves the currently playing track to disk.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/events"
	"github.com/cesargomez89/tunedeck/internal/httpclient"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/storage"
	"github.com/cesargomez89/tunedeck/internal/tagging"
)

var (
	ErrNothingPlaying     = errors.New("nothing is playing")
	ErrDownloadInProgress = errors.New("a download is already in progress")
	ErrNotFound           = errors.New("download not found")
	ErrFileMissing        = errors.New("downloaded file is missing")
)

// Player exposes the track and source the controller has loaded.
type Player interface {
	Current() (domain.Track, bool)
	CurrentSource() (domain.Source, bool)
}

type Repository interface {
	CreateDownload(d *domain.Download) error
	FinishDownload(id string, status domain.DownloadStatus, filePath string, size int64, errMsg *string) error
	GetDownload(id string) (*domain.Download, error)
	ListDownloads(limit int) ([]*domain.Download, error)
	FailRunningDownloads(reason string) (int64, error)
}

type Options struct {
	Dir           string
	Template      string
	PreferredKbps int
	// Tag toggles metadata and artwork writing.
	Tag bool
}

type Service struct {
	player    Player
	repo      Repository
	client    *httpclient.Client
	publisher events.Publisher
	logger    *logger.Logger
	opts      Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	running *domain.Download
}

func NewService(player Player, repo Repository, client *httpclient.Client, pub events.Publisher, opts Options, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Default()
	}
	if pub == nil {
		pub = events.Nop{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		player:    player,
		repo:      repo,
		client:    client,
		publisher: pub,
		logger:    log.WithComponent("downloader"),
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start marks downloads interrupted by a previous run as failed.
func (s *Service) Start() {
	n, err := s.repo.FailRunningDownloads("interrupted")
	if err != nil {
		s.logger.Error("Failed to reset interrupted downloads", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("Marked interrupted downloads as failed", "count", n)
	}
}

// Close cancels a running download and waits for it to finish.
func (s *Service) Close() {
	s.logger.Info("Stopping downloader")
	s.cancel()
	s.wg.Wait()
}

// Wait blocks until the running download, if any, finishes.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Running returns a copy of the in-progress download.
func (s *Service) Running() (domain.Download, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running == nil {
		return domain.Download{}, false
	}
	return *s.running, true
}

// DownloadCurrent starts fetching the current track in the background and
// returns the new record. Only one download runs at a time.
func (s *Service) DownloadCurrent(ctx context.Context) (*domain.Download, error) {
	track, ok := s.player.Current()
	if !ok {
		return nil, ErrNothingPlaying
	}
	src, ok := s.player.CurrentSource()
	if !ok || src.URL == "" {
		// A retained track that was never loaded still has its sources.
		if src, ok = track.Source(s.opts.PreferredKbps); !ok {
			return nil, ErrNothingPlaying
		}
	}

	s.mu.Lock()
	if s.running != nil {
		s.mu.Unlock()
		return nil, ErrDownloadInProgress
	}
	d := &domain.Download{
		ID:        uuid.New().String(),
		TrackID:   track.ID,
		Title:     track.Name,
		Artists:   artistNames(track),
		Quality:   src.Quality,
		Status:    domain.DownloadStatusRunning,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateDownload(d); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to record download: %w", err)
	}
	s.running = d
	snapshot := *d
	s.mu.Unlock()

	s.publish(snapshot)

	s.wg.Add(1)
	go s.run(snapshot, track, src)
	return &snapshot, nil
}

func artistNames(t domain.Track) domain.StringSlice {
	var out domain.StringSlice
	for _, a := range t.Artists {
		if a.Name != "" {
			out = append(out, a.Name)
		}
	}
	return out
}

func (s *Service) run(d domain.Download, track domain.Track, src domain.Source) {
	defer s.wg.Done()
	log := s.logger.WithDownload(d.ID, track.ID)

	var (
		path string
		size int64
		err  error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		path, size, err = s.save(s.ctx, track, src, log)
	}()

	s.finish(d, path, size, err, log)
}

func (s *Service) save(ctx context.Context, track domain.Track, src domain.Source, log *logger.Logger) (string, int64, error) {
	log.Info("Downloading track", "quality", src.Quality)

	tmp, size, err := s.fetch(ctx, src.URL)
	if err != nil {
		return "", 0, err
	}
	defer storage.RemoveFile(tmp)

	data := storage.TemplateDataFor(track, src)
	dest, err := storage.BuildFullPath(s.opts.Dir, s.opts.Template, data, storage.ExtensionFromURL(src.URL))
	if err != nil {
		return "", 0, err
	}
	if err := storage.EnsureDir(filepath.Dir(dest)); err != nil {
		return "", 0, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := storage.MoveFile(tmp, dest); err != nil {
		return "", 0, err
	}

	if s.opts.Tag {
		s.tag(ctx, dest, track, log)
	}
	return dest, size, nil
}

// tag failures never fail the download.
func (s *Service) tag(ctx context.Context, path string, track domain.Track, log *logger.Logger) {
	art, err := tagging.DownloadImage(ctx, s.client, track.Images.Largest())
	if err != nil {
		log.Warn("Failed to fetch artwork", "error", err)
	}
	err = tagging.TagFile(path, tagging.FromTrack(track), art)
	switch {
	case errors.Is(err, tagging.ErrUnsupportedFormat):
		log.Debug("Leaving file untagged", "path", path)
	case err != nil:
		log.Warn("Failed to tag file", "path", path, "error", err)
	}
}

func (s *Service) finish(d domain.Download, path string, size int64, err error, log *logger.Logger) {
	now := time.Now()
	d.CompletedAt = &now
	d.FilePath = path
	d.SizeBytes = size

	notice := events.Notice{TrackID: d.TrackID}
	if err != nil {
		msg := err.Error()
		d.Status = domain.DownloadStatusFailed
		d.Error = &msg
		notice.Kind = events.NoticeDownloadFailed
		notice.Message = fmt.Sprintf("Download of %q failed", d.Title)
		log.Error("Download failed", "error", err)
	} else {
		d.Status = domain.DownloadStatusCompleted
		notice.Kind = events.NoticeDownloadDone
		notice.Message = fmt.Sprintf("Saved %q (%s)", d.Title, humanize.Bytes(uint64(size)))
		log.Info("Download completed", "path", path, "size", humanize.Bytes(uint64(size)))
	}

	if rerr := s.repo.FinishDownload(d.ID, d.Status, d.FilePath, d.SizeBytes, d.Error); rerr != nil {
		log.Error("Failed to record download result", "error", rerr)
	}

	s.mu.Lock()
	s.running = nil
	s.mu.Unlock()

	s.publish(d)
	s.publisher.Publish(events.Event{Type: events.TypeNotice, Payload: notice})
}

func (s *Service) publish(d domain.Download) {
	s.publisher.Publish(events.Event{Type: events.TypeDownload, Payload: d})
}

// History lists recent downloads, newest first.
func (s *Service) History(limit int) ([]*domain.Download, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListDownloads(limit)
}

// Open returns the record and an open handle to a completed download.
func (s *Service) Open(id string) (*domain.Download, *os.File, error) {
	d, err := s.repo.GetDownload(id)
	if err != nil {
		return nil, nil, err
	}
	if d == nil || d.Status != domain.DownloadStatusCompleted {
		return nil, nil, ErrNotFound
	}
	f, err := os.Open(d.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil, ErrFileMissing
		}
		return d, nil, err
	}
	return d, f, nil
}

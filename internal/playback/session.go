package playback

import "github.com/cesargomez89/tunedeck/internal/domain"

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
	StatusEnded   Status = "ended"
)

// Active reports whether a source is loaded and can be paused or seeked.
func (s Status) Active() bool {
	return s == StatusPlaying || s == StatusPaused
}

// Session is a point-in-time copy of the controller state.
type Session struct {
	Track    *domain.Track  `json:"track"`
	Status   Status         `json:"status"`
	Elapsed  float64        `json:"elapsed"`
	Duration float64        `json:"duration"`
	Progress *float64       `json:"progress"`
	Source   *domain.Source `json:"source,omitempty"`
	Queue    []domain.Track `json:"queue"`
	Favorite bool           `json:"favorite"`
}

// progress is elapsed/duration clamped to [0,1]; nil when the duration is
// unknown.
func progress(elapsed, duration float64) *float64 {
	if duration <= 0 {
		return nil
	}
	p := elapsed / duration
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return &p
}

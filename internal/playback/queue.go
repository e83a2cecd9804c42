package playback

import "github.com/cesargomez89/tunedeck/internal/domain"

// Queue is the ordered list of related tracks. The current track need not
// be a member.
type Queue struct {
	tracks []domain.Track
}

func NewQueue(tracks []domain.Track) Queue {
	cp := make([]domain.Track, len(tracks))
	copy(cp, tracks)
	return Queue{tracks: cp}
}

func (q Queue) Len() int { return len(q.tracks) }

func (q Queue) Tracks() []domain.Track {
	out := make([]domain.Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

func (q Queue) indexOf(id string) int {
	for i, t := range q.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Next returns the track after currentID, wrapping to the first. When
// currentID is not queued the first track is returned.
func (q Queue) Next(currentID string) (domain.Track, bool) {
	if len(q.tracks) == 0 {
		return domain.Track{}, false
	}
	i := q.indexOf(currentID)
	if i < 0 {
		return q.tracks[0], true
	}
	return q.tracks[(i+1)%len(q.tracks)], true
}

// Prev returns the track before currentID, wrapping to the last. When
// currentID is not queued the last track is returned.
func (q Queue) Prev(currentID string) (domain.Track, bool) {
	if len(q.tracks) == 0 {
		return domain.Track{}, false
	}
	i := q.indexOf(currentID)
	if i < 0 {
		return q.tracks[len(q.tracks)-1], true
	}
	return q.tracks[(i-1+len(q.tracks))%len(q.tracks)], true
}

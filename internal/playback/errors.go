package playback

import "errors"

var (
	ErrNoPlayableSource = errors.New("no playable source")
	ErrNotPlaying       = errors.New("nothing is playing")
	ErrAlreadyPaused    = errors.New("playback is already paused")
	ErrNotPaused        = errors.New("playback is not paused")
	ErrSuperseded       = errors.New("superseded by a newer request")
	ErrMediaLoad        = errors.New("media could not load source")
	ErrEnrichment       = errors.New("enrichment fetch failed")
)

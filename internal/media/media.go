package media

import (
	"fmt"

	"github.com/cesargomez89/tunedeck/internal/constants"
	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/playback"
)

// Open returns the media handle for backend.
func Open(backend string, log *logger.Logger) (playback.Media, error) {
	switch backend {
	case "", constants.MediaBackendClock:
		return NewClock(), nil
	case constants.MediaBackendMPV:
		return NewMPV(log)
	}
	return nil, fmt.Errorf("unknown media backend %q", backend)
}

var _ playback.Media = (*Clock)(nil)

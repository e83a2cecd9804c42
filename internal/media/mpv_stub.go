//go:build !mpv

package media

import (
	"errors"

	"github.com/cesargomez89/tunedeck/internal/logger"
	"github.com/cesargomez89/tunedeck/internal/playback"
)

var ErrMPVUnavailable = errors.New("mpv backend not compiled in, rebuild with -tags mpv")

func NewMPV(log *logger.Logger) (playback.Media, error) {
	return nil, ErrMPVUnavailable
}

package httpapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cesargomez89/tunedeck/internal/downloader"
	"github.com/cesargomez89/tunedeck/internal/http/dto"
	"github.com/cesargomez89/tunedeck/internal/library"
	"github.com/cesargomez89/tunedeck/internal/playback"
)

var (
	ErrUnknownTrack    = errors.New("track not found")
	ErrConfirmRequired = errors.New("confirmation required")
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, library.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownTrack),
		errors.Is(err, library.ErrNoSongs),
		errors.Is(err, downloader.ErrNotFound),
		errors.Is(err, downloader.ErrFileMissing):
		return http.StatusNotFound
	case errors.Is(err, playback.ErrNotPlaying),
		errors.Is(err, playback.ErrAlreadyPaused),
		errors.Is(err, playback.ErrNotPaused),
		errors.Is(err, playback.ErrSuperseded),
		errors.Is(err, library.ErrSuperseded),
		errors.Is(err, downloader.ErrNothingPlaying),
		errors.Is(err, downloader.ErrDownloadInProgress):
		return http.StatusConflict
	case errors.Is(err, playback.ErrNoPlayableSource),
		errors.Is(err, playback.ErrMediaLoad):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConfirmRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, library.ErrBrowseFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeValidation(w http.ResponseWriter, errs []dto.ValidationError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:  dto.ToResponse(errs),
		Fields: dto.ToMap(errs),
	})
}

func decode(r *http.Request, v any) []dto.ValidationError {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return []dto.ValidationError{{Field: "body", Message: "invalid JSON"}}
	}
	return nil
}

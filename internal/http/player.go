package httpapp

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/http/dto"
)

func (h *Handler) PlayerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Player.Session())
}

// lookup resolves a track id against everything the user can see.
func (h *Handler) lookup(id string) (domain.Track, bool) {
	if t, ok := h.Library.Lookup(id); ok {
		return t, true
	}
	for _, t := range h.Player.Session().Queue {
		if t.ID == id {
			return t, true
		}
	}
	if t, ok := h.Player.Current(); ok && t.ID == id {
		return t, true
	}
	return domain.Track{}, false
}

func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	var req dto.PlayRequest
	if errs := decode(r, &req); errs != nil {
		writeValidation(w, errs)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	track, ok := h.lookup(req.ID)
	if !ok {
		h.writeError(w, r, ErrUnknownTrack)
		return
	}
	// Enrichment outlives a disconnected client.
	if err := h.Player.Play(context.WithoutCancel(r.Context()), track); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Player.Session())
}

func (h *Handler) Transport(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	var err error
	switch chi.URLParam(r, "action") {
	case "toggle":
		err = h.Player.Toggle(ctx)
	case "pause":
		err = h.Player.Pause()
	case "resume":
		err = h.Player.Resume()
	case "next":
		err = h.Player.Next(ctx)
	case "prev":
		err = h.Player.Prev(ctx)
	case "stop":
		h.Player.Stop()
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Player.Session())
}

func (h *Handler) Seek(w http.ResponseWriter, r *http.Request) {
	var req dto.SeekRequest
	if errs := decode(r, &req); errs != nil {
		writeValidation(w, errs)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	if _, err := h.Player.Seek(*req.Fraction); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Player.Session())
}

func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.Favorites().List())
}

type favoriteResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
	Count    int    `json:"count"`
}

// ToggleFavorite flips membership of a track; the id "current" targets
// the track in the player.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var (
		track domain.Track
		ok    bool
	)
	if id == "current" {
		track, ok = h.Player.Current()
	} else {
		track, ok = h.lookup(id)
	}
	if !ok {
		h.writeError(w, r, ErrUnknownTrack)
		return
	}

	favs := h.Library.Favorites()
	added := favs.Toggle(track)
	h.Player.Refresh()
	writeJSON(w, http.StatusOK, favoriteResponse{ID: track.ID, Favorite: added, Count: favs.Len()})
}

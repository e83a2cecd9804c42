package httpapp

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/tunedeck/internal/domain"
)

func (h *Handler) StartDownload(w http.ResponseWriter, r *http.Request) {
	d, err := h.Downloads.DownloadCurrent(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, d)
}

func (h *Handler) DownloadHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.Downloads.History(limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*domain.Download{}
	}
	writeJSON(w, http.StatusOK, list)
}

// RunningDownload answers 204 when no download is in progress.
func (h *Handler) RunningDownload(w http.ResponseWriter, r *http.Request) {
	d, ok := h.Downloads.Running()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DownloadFile serves a finished download as an attachment.
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	d, f, err := h.Downloads.Open(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	name := filepath.Base(d.FilePath)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// ClearState wipes every persisted key. It must be confirmed explicitly.
func (h *Handler) ClearState(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		h.writeError(w, r, ErrConfirmRequired)
		return
	}
	h.Player.Reset()
	if err := h.Library.Reset(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Logger.Info("Cleared persisted state")
	w.WriteHeader(http.StatusNoContent)
}

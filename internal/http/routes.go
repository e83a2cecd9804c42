package httpapp

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/tunedeck/internal/domain"
	"github.com/cesargomez89/tunedeck/internal/http/dto"
	"github.com/cesargomez89/tunedeck/internal/library"
)

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	keepTab := dto.ParseBool(r.URL.Query().Get("keepTab"))

	if _, err := h.Library.Search(r.Context(), q, keepTab); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Library.Snapshot())
}

func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, []domain.SearchHit{})
		return
	}
	env := h.ProviderManager.SearchAll(r.Context(), q, h.SuggestLimit)
	hits := env.Items
	if !env.Successful || hits == nil {
		hits = []domain.SearchHit{}
	}
	writeJSON(w, http.StatusOK, hits)
}

func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.Snapshot())
}

func (h *Handler) SetCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeValidation(w, []dto.ValidationError{{Field: "category", Message: err.Error()}})
		return
	}
	h.Library.SetCategory(cat)
	writeJSON(w, http.StatusOK, h.Library.Snapshot())
}

func (h *Handler) SetView(w http.ResponseWriter, r *http.Request) {
	view, err := library.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		writeValidation(w, []dto.ValidationError{{Field: "view", Message: err.Error()}})
		return
	}
	h.Library.SetView(view)
	writeJSON(w, http.StatusOK, h.Library.Snapshot())
}

func (h *Handler) OpenEntity(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseEntityKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeValidation(w, []dto.ValidationError{{Field: "kind", Message: err.Error()}})
		return
	}
	if _, err := h.Library.OpenEntity(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Library.Snapshot())
}

func (h *Handler) BrowseTrending(w http.ResponseWriter, r *http.Request) {
	page, errs := dto.ParsePage(r.URL.Query().Get("page"))
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	res, err := h.Library.Trending(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) BrowseArtists(w http.ResponseWriter, r *http.Request) {
	page, errs := dto.ParsePage(r.URL.Query().Get("page"))
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	res, err := h.Library.PopularArtists(r.Context(), page)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

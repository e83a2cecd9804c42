package httpapp

import (
	"net/http"

	"github.com/cesargomez89/tunedeck/internal/catalog"
	"github.com/cesargomez89/tunedeck/internal/http/dto"
)

type catalogResponse struct {
	catalog.ProviderSettings
	Mirrors []string `json:"mirrors"`
}

func (h *Handler) catalogState() catalogResponse {
	res := catalogResponse{ProviderSettings: h.ProviderManager.Settings(), Mirrors: []string{}}
	if h.SettingsRepo != nil {
		if mirrors, err := h.SettingsRepo.Mirrors(); err == nil && mirrors != nil {
			res.Mirrors = mirrors
		}
	}
	return res
}

func (h *Handler) CatalogSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalogState())
}

// SetCatalog switches the catalog mirror and remembers it for the next
// start.
func (h *Handler) SetCatalog(w http.ResponseWriter, r *http.Request) {
	var req dto.CatalogRequest
	if errs := decode(r, &req); errs != nil {
		writeValidation(w, errs)
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	h.ProviderManager.SetProvider(req.URL)
	if h.SettingsRepo != nil {
		if err := h.SettingsRepo.RememberMirror(req.URL); err != nil {
			h.Logger.Error("Failed to persist catalog mirror", "url", req.URL, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, h.catalogState())
}

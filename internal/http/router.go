package httpapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the JSON API and, when assets is non-nil, the web
// client.
func NewRouter(h *Handler, assets http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h.RegisterRoutes(r)
	if assets != nil {
		r.Handle("/*", assets)
	}
	return r
}

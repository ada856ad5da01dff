package blockeddate

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the blocked-date router, mounted under /resources/{id}.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Block)
		r.Delete("/{date}", h.Unblock)
	})

	return r
}

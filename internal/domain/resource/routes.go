package resource

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the resource router.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public routes
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	// Protected routes (owner actions)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Deactivate)
	})

	return r
}

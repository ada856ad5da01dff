package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the booking router. All booking operations require an
// authenticated actor.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Propose)
		r.Get("/my", h.ListMine)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/confirm", h.Confirm)
		r.Post("/{id}/reject", h.Reject)
		r.Post("/{id}/cancel", h.Cancel)
	})

	return r
}

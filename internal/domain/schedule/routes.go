package schedule

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts slot and calendar listing under /resources/{id}.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/slots", h.Slots)
	r.Get("/calendar", h.Calendar)
}

package notification

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the WebSocket endpoint (auth required by the caller).
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/ws/bookings", h.WebSocket)
}

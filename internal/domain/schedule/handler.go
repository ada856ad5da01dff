package schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bookwell/bookwell-api/internal/domain/resource"
	"github.com/bookwell/bookwell-api/internal/pkg/response"
	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

type Handler struct {
	availability *Availability
}

func NewHandler(availability *Availability) *Handler {
	return &Handler{availability: availability}
}

// Slots handles GET /resources/{resourceID}/slots?date=YYYY-MM-DD.
// With available_only=true the response omits taken slots.
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	resourceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid resource id")
		return
	}

	date, err := wallclock.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		response.BadRequest(w, "Query parameter date must be YYYY-MM-DD")
		return
	}

	var slots []Slot
	if r.URL.Query().Get("available_only") == "true" {
		slots, err = h.availability.AvailableOnly(r.Context(), resourceID, date)
	} else {
		slots, err = h.availability.Slots(r.Context(), resourceID, date)
	}
	if err != nil {
		switch {
		case errors.Is(err, resource.ErrNotFound):
			response.NotFound(w, "Resource not found")
		case IsInvalidConfig(err):
			response.Conflict(w, "Resource slot configuration is unusable")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]any{
		"resource_id": resourceID,
		"date":        date,
		"slots":       slots,
	})
}

// Calendar handles GET /resources/{id}/calendar?month=YYYY-MM, the month
// overview frontends render a booking calendar from.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	resourceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid resource id")
		return
	}

	month, err := time.Parse("2006-01", r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "Query parameter month must be YYYY-MM")
		return
	}

	overview, err := h.availability.Month(r.Context(), resourceID, month.Year(), month.Month())
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			response.NotFound(w, "Resource not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, overview)
}

package blockeddate

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bookwell/bookwell-api/internal/middleware"
	"github.com/bookwell/bookwell-api/internal/pkg/errorhandler"
	"github.com/bookwell/bookwell-api/internal/pkg/response"
	"github.com/bookwell/bookwell-api/internal/pkg/validator"
	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// Handler handles blocked-date HTTP requests.
type Handler struct {
	registry *Registry
}

// NewHandler creates a new blocked-date handler.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// Block handles POST /resources/{id}/blocked-dates
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetActorID(r.Context())
	if actorID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	resourceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid resource id")
		return
	}

	var req BlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationFailed(w, fieldErrors)
		return
	}

	date, _ := wallclock.ParseDate(req.Date)
	bd, err := h.registry.Block(r.Context(), resourceID, date, req.Reason, actorID)
	if err != nil {
		if errors.Is(err, ErrAlreadyBlocked) {
			response.Conflict(w, "Date is already blocked for this resource")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BLOCK_DATE_FAILED", "Failed to block date", err)
		return
	}

	response.Created(w, ToResponse(bd))
}

// Unblock handles DELETE /resources/{id}/blocked-dates/{date}
func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetActorID(r.Context())
	if actorID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	resourceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid resource id")
		return
	}

	date, err := wallclock.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		response.BadRequest(w, "Invalid date, use YYYY-MM-DD")
		return
	}

	// Unblocking an already-open day is a no-op success.
	if err := h.registry.Unblock(r.Context(), resourceID, date); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "UNBLOCK_DATE_FAILED", "Failed to unblock date", err)
		return
	}
	response.NoContent(w)
}

// List handles GET /resources/{id}/blocked-dates
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	resourceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid resource id")
		return
	}

	blocked, err := h.registry.ListBlocked(r.Context(), resourceID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LIST_BLOCKED_FAILED", "Failed to list blocked dates", err)
		return
	}

	out := make([]BlockedDateResponse, len(blocked))
	for i := range blocked {
		out[i] = ToResponse(&blocked[i])
	}
	response.OK(w, out)
}

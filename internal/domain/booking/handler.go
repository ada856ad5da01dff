package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bookwell/bookwell-api/internal/domain/resource"
	"github.com/bookwell/bookwell-api/internal/middleware"
	"github.com/bookwell/bookwell-api/internal/pkg/errorhandler"
	"github.com/bookwell/bookwell-api/internal/pkg/response"
	"github.com/bookwell/bookwell-api/internal/pkg/validator"
	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// Handler handles booking HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new booking handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func actorFrom(r *http.Request) Actor {
	return Actor{
		ID:   middleware.GetActorID(r.Context()),
		Role: middleware.GetRole(r.Context()),
	}
}

// Propose handles POST /bookings
func (h *Handler) Propose(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor.ID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req ProposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationFailed(w, fieldErrors)
		return
	}

	resourceID, _ := uuid.Parse(req.ResourceID)
	dates := make([]wallclock.Date, len(req.Dates))
	for i, s := range req.Dates {
		dates[i], _ = wallclock.ParseDate(s)
	}
	start, _ := wallclock.ParseTimeOfDay(req.StartTime)
	end, _ := wallclock.ParseTimeOfDay(req.EndTime)
	equipment := make([]uuid.UUID, len(req.EquipmentIDs))
	for i, s := range req.EquipmentIDs {
		equipment[i], _ = uuid.Parse(s)
	}

	b, err := h.service.Propose(r.Context(), ProposeInput{
		ResourceID:   resourceID,
		RequesterID:  actor.ID,
		Dates:        dates,
		StartTime:    start,
		EndTime:      end,
		Notes:        req.Notes,
		EquipmentIDs: equipment,
	})
	if err != nil {
		h.writeProposeError(w, r, err)
		return
	}

	response.Created(w, ToResponse(b))
}

func (h *Handler) writeProposeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *ValidationError
		blockedErr    *DateBlockedError
		takenErr      *SlotTakenError
	)
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(w, validationErr.Error())
	case errors.As(err, &blockedErr):
		response.ErrorWithDetails(w, http.StatusConflict, "DATE_BLOCKED", blockedErr.Error(), map[string]string{
			"date":   blockedErr.Date.String(),
			"reason": blockedErr.Reason,
		})
	case errors.As(err, &takenErr):
		response.ErrorWithDetails(w, http.StatusConflict, "SLOT_TAKEN", "Requested window conflicts with an existing booking", map[string]string{
			"conflicting_booking_id": takenErr.ConflictingID.String(),
		})
	case errors.Is(err, resource.ErrNotFound):
		response.NotFound(w, "Resource not found")
	case errors.Is(err, resource.ErrInactive):
		response.Conflict(w, "Resource is not accepting bookings")
	case errors.Is(err, ErrTimeout):
		response.ServiceUnavailable(w, "Storage temporarily unavailable, retry")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BOOKING_PROPOSE_FAILED", "Failed to create booking", err)
	}
}

// Get handles GET /bookings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor.ID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	b, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		h.writeTransitionError(w, r, err, "BOOKING_GET_FAILED")
		return
	}
	response.OK(w, ToResponse(b))
}

// ListMine handles GET /bookings/my
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor.ID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	bookings, err := h.service.ListByRequester(r.Context(), actor.ID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BOOKING_LIST_FAILED", "Failed to list bookings", err)
		return
	}
	response.OK(w, toResponses(bookings))
}

// ListByResource handles GET /resources/{id}/bookings
func (h *Handler) ListByResource(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor.ID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	resourceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid resource id")
		return
	}

	var statusFilter *Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := ParseStatus(raw)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		statusFilter = &status
	}

	bookings, err := h.service.ListByResource(r.Context(), actor, resourceID, statusFilter)
	if err != nil {
		switch {
		case errors.Is(err, resource.ErrNotFound):
			response.NotFound(w, "Resource not found")
		case errors.Is(err, ErrForbidden):
			response.Forbidden(w, "Only the resource owner can list its bookings")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BOOKING_LIST_FAILED", "Failed to list bookings", err)
		}
		return
	}
	response.OK(w, toResponses(bookings))
}

// Stats handles GET /resources/{id}/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor.ID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	resourceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid resource id")
		return
	}

	stats, err := h.service.StatsByResource(r.Context(), actor, resourceID)
	if err != nil {
		switch {
		case errors.Is(err, resource.ErrNotFound):
			response.NotFound(w, "Resource not found")
		case errors.Is(err, ErrForbidden):
			response.Forbidden(w, "Only the resource owner can view its stats")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BOOKING_STATS_FAILED", "Failed to compute stats", err)
		}
		return
	}
	response.OK(w, stats)
}

// Confirm handles POST /bookings/{id}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusConfirmed, false)
}

// Reject handles POST /bookings/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusRejected, true)
}

// Cancel handles POST /bookings/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, StatusCancelled, true)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, next Status, wantsReason bool) {
	actor := actorFrom(r)
	if actor.ID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	var reason string
	if wantsReason && r.Body != nil {
		var req ReasonRequest
		// Body is optional for transitions; ignore decode errors on empty bodies.
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			if fieldErrors := validator.Validate(req); fieldErrors != nil {
				response.ValidationFailed(w, fieldErrors)
				return
			}
			reason = req.Reason
		}
	}

	b, err := h.service.Transition(r.Context(), actor, id, next, reason)
	if err != nil {
		h.writeTransitionError(w, r, err, "BOOKING_TRANSITION_FAILED")
		return
	}
	response.OK(w, ToResponse(b))
}

func (h *Handler) writeTransitionError(w http.ResponseWriter, r *http.Request, err error, code string) {
	var transitionErr *InvalidTransitionError
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Forbidden(w, "You are not allowed to perform this action")
	case errors.As(err, &transitionErr):
		response.ErrorWithDetails(w, http.StatusConflict, "INVALID_TRANSITION", transitionErr.Error(), map[string]string{
			"from": string(transitionErr.From),
			"to":   string(transitionErr.To),
		})
	case errors.Is(err, ErrConcurrentUpdate):
		response.Conflict(w, "Booking was modified concurrently, retry")
	case errors.Is(err, ErrTimeout):
		response.ServiceUnavailable(w, "Storage temporarily unavailable, retry")
	default:
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, code, "Booking operation failed", err)
	}
}

func toResponses(bookings []Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i := range bookings {
		out[i] = ToResponse(&bookings[i])
	}
	return out
}

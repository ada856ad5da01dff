package resource

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

// Handler handles resource HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new resource handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /resources
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetActorID(r.Context())
	if actorID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationFailed(w, fieldErrors)
		return
	}

	opening, _ := wallclock.ParseTimeOfDay(req.OpeningTime)
	closing, _ := wallclock.ParseTimeOfDay(req.ClosingTime)
	days, err := ParseWeekdays(req.OpenWeekdays)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	res, err := h.service.Create(r.Context(), actorID, CreateInput{
		Name:         req.Name,
		Location:     req.Location,
		Description:  req.Description,
		OpeningTime:  opening,
		ClosingTime:  closing,
		SlotMinutes:  req.SlotMinutes,
		OpenWeekdays: days,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidConfig) {
			response.BadRequest(w, err.Error())
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "RESOURCE_CREATE_FAILED", "Failed to create resource", err)
		return
	}

	response.Created(w, ToResponse(res))
}

// List handles GET /resources
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	resources, err := h.service.List(r.Context())
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "RESOURCE_LIST_FAILED", "Failed to list resources", err)
		return
	}

	out := make([]ResourceResponse, len(resources))
	for i := range resources {
		out[i] = ToResponse(&resources[i])
	}
	response.OK(w, out)
}

// Get handles GET /resources/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid resource id")
		return
	}

	res, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Resource not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "RESOURCE_GET_FAILED", "Failed to get resource", err)
		return
	}
	response.OK(w, ToResponse(res))
}

// Update handles PATCH /resources/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetActorID(r.Context())
	if actorID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid resource id")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationFailed(w, fieldErrors)
		return
	}

	in := UpdateInput{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		SlotMinutes: req.SlotMinutes,
		Active:      req.Active,
	}
	if req.OpeningTime != nil {
		t, _ := wallclock.ParseTimeOfDay(*req.OpeningTime)
		in.OpeningTime = &t
	}
	if req.ClosingTime != nil {
		t, _ := wallclock.ParseTimeOfDay(*req.ClosingTime)
		in.ClosingTime = &t
	}
	if req.OpenWeekdays != nil {
		days, err := ParseWeekdays(*req.OpenWeekdays)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}
		in.OpenWeekdays = &days
	}

	res, err := h.service.Update(r.Context(), actorID, id, in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Resource not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "Only the resource owner can update it")
		case errors.Is(err, ErrInvalidConfig):
			response.BadRequest(w, err.Error())
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "RESOURCE_UPDATE_FAILED", "Failed to update resource", err)
		}
		return
	}
	response.OK(w, ToResponse(res))
}

// Deactivate handles DELETE /resources/{id}
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetActorID(r.Context())
	if actorID == uuid.Nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid resource id")
		return
	}

	if err := h.service.Deactivate(r.Context(), actorID, id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Resource not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "Only the resource owner can deactivate it")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "RESOURCE_DEACTIVATE_FAILED", "Failed to deactivate resource", err)
		}
		return
	}
	response.NoContent(w)
}

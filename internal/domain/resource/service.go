package resource

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// Store is the persistence surface the service needs. Satisfied by
// *Repository; faked in tests.
type Store interface {
	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, id uuid.UUID) (*Resource, error)
	ListActive(ctx context.Context) ([]Resource, error)
	Update(ctx context.Context, res *Resource) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// Service handles resource management business logic.
type Service struct {
	store Store
}

// NewService creates a new resource service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput carries validated resource configuration.
type CreateInput struct {
	Name         string
	Location     string
	Description  string
	OpeningTime  wallclock.TimeOfDay
	ClosingTime  wallclock.TimeOfDay
	SlotMinutes  int
	OpenWeekdays Weekdays
}

// Create registers a new bookable resource owned by the given actor.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, in CreateInput) (*Resource, error) {
	now := time.Now()
	res := &Resource{
		ID:           uuid.New(),
		Name:         in.Name,
		Location:     in.Location,
		Description:  sql.NullString{String: in.Description, Valid: in.Description != ""},
		OwnerID:      ownerID,
		OpeningTime:  in.OpeningTime,
		ClosingTime:  in.ClosingTime,
		SlotMinutes:  in.SlotMinutes,
		OpenWeekdays: in.OpenWeekdays,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := res.ValidateConfig(); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Get returns a resource by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Resource, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

// List returns all active resources.
func (s *Service) List(ctx context.Context) ([]Resource, error) {
	return s.store.ListActive(ctx)
}

// UpdateInput carries optional configuration changes; nil fields are left untouched.
type UpdateInput struct {
	Name         *string
	Location     *string
	Description  *string
	OpeningTime  *wallclock.TimeOfDay
	ClosingTime  *wallclock.TimeOfDay
	SlotMinutes  *int
	OpenWeekdays *Weekdays
	Active       *bool
}

// Update applies configuration changes. Only the owner may update.
func (s *Service) Update(ctx context.Context, actorID, id uuid.UUID, in UpdateInput) (*Resource, error) {
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.OwnerID != actorID {
		return nil, ErrNotOwner
	}

	if in.Name != nil {
		res.Name = *in.Name
	}
	if in.Location != nil {
		res.Location = *in.Location
	}
	if in.Description != nil {
		res.Description = sql.NullString{String: *in.Description, Valid: *in.Description != ""}
	}
	if in.OpeningTime != nil {
		res.OpeningTime = *in.OpeningTime
	}
	if in.ClosingTime != nil {
		res.ClosingTime = *in.ClosingTime
	}
	if in.SlotMinutes != nil {
		res.SlotMinutes = *in.SlotMinutes
	}
	if in.OpenWeekdays != nil {
		res.OpenWeekdays = *in.OpenWeekdays
	}
	if in.Active != nil {
		res.Active = *in.Active
	}
	res.UpdatedAt = time.Now()

	if err := res.ValidateConfig(); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Deactivate marks a resource inactive. Only the owner may deactivate.
func (s *Service) Deactivate(ctx context.Context, actorID, id uuid.UUID) error {
	res, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if res.OwnerID != actorID {
		return ErrNotOwner
	}
	return s.store.Deactivate(ctx, id)
}

package booking

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bookwell/bookwell-api/internal/domain/resource"
	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// Store is the persistence surface of the ledger. Satisfied by
// *Repository; faked in tests.
type Store interface {
	Insert(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListActiveByResource(ctx context.Context, resourceID uuid.UUID) ([]Booking, error)
	ListByResource(ctx context.Context, resourceID uuid.UUID, status *Status) ([]Booking, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]Booking, error)
	UpdateStatus(ctx context.Context, b *Booking, expectedVersion int) error
	ListConfirmedEndedBefore(ctx context.Context, date wallclock.Date) ([]Booking, error)
	CountByStatus(ctx context.Context, resourceID uuid.UUID) (map[Status]int, error)
}

// BlockedDates is the read side of the blocked-date registry.
type BlockedDates interface {
	IsBlocked(ctx context.Context, resourceID uuid.UUID, date wallclock.Date) (bool, string, error)
}

// ResourceGetter supplies resource metadata (read-only).
type ResourceGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
}

// Actor identifies who performs an operation. Identity and role come from
// the external auth layer; the ledger records ids and enforces only the
// transition graph plus basic ownership rules.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// system is the actor used by internal jobs such as the completer.
var system = Actor{ID: uuid.Nil, Role: "system"}

// Service is the booking ledger: the single source of truth for a
// resource's bookings and the owner of the no-overlap invariant.
type Service struct {
	store     Store
	blocked   BlockedDates
	resources ResourceGetter
	events    EventPublisher

	// locks serializes proposal evaluation-and-commit per resource so two
	// concurrent proposals for overlapping windows cannot both succeed.
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

// NewService creates a booking ledger.
func NewService(store Store, blocked BlockedDates, resources ResourceGetter, events EventPublisher) *Service {
	if events == nil {
		events = NopPublisher{}
	}
	return &Service{
		store:     store,
		blocked:   blocked,
		resources: resources,
		events:    events,
	}
}

func (s *Service) resourceLock(resourceID uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(resourceID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// ProposeInput carries a validated booking proposal.
type ProposeInput struct {
	ResourceID   uuid.UUID
	RequesterID  uuid.UUID
	Dates        []wallclock.Date
	StartTime    wallclock.TimeOfDay
	EndTime      wallclock.TimeOfDay
	Notes        string
	EquipmentIDs []uuid.UUID
}

// Propose validates a booking request against blocked dates and every
// active booking of the resource, then appends it with status pending.
// All-or-nothing: a conflict on any date of the batch creates no booking.
func (s *Service) Propose(ctx context.Context, in ProposeInput) (*Booking, error) {
	if len(in.Dates) == 0 {
		return nil, &ValidationError{Reason: "at least one date is required"}
	}
	if !in.StartTime.Before(in.EndTime) {
		return nil, &ValidationError{Reason: "end time must be after start time"}
	}
	for _, d := range in.Dates {
		if !d.IsValid() {
			return nil, &ValidationError{Reason: "invalid calendar date " + d.String()}
		}
	}

	dates := dedupeSorted(in.Dates)

	res, err := s.resources.GetByID(ctx, in.ResourceID)
	if err != nil {
		return nil, wrapStorageErr(err)
	}
	if res == nil {
		return nil, resource.ErrNotFound
	}
	if !res.Active {
		return nil, resource.ErrInactive
	}

	// Serialize evaluate-and-commit per resource. Proposals for other
	// resources proceed in parallel.
	mu := s.resourceLock(in.ResourceID)
	mu.Lock()
	defer mu.Unlock()

	for _, d := range dates {
		isBlocked, reason, err := s.blocked.IsBlocked(ctx, in.ResourceID, d)
		if err != nil {
			return nil, wrapStorageErr(err)
		}
		if isBlocked {
			return nil, &DateBlockedError{Date: d, Reason: reason}
		}
	}

	active, err := s.store.ListActiveByResource(ctx, in.ResourceID)
	if err != nil {
		return nil, wrapStorageErr(err)
	}
	if conflict := FindConflict(active, dates, in.StartTime, in.EndTime); conflict != nil {
		return nil, &SlotTakenError{ConflictingID: conflict.ID}
	}

	now := time.Now()
	b := &Booking{
		ID:           uuid.New(),
		ResourceID:   in.ResourceID,
		RequesterID:  in.RequesterID,
		Dates:        dates,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Status:       StatusPending,
		EquipmentIDs: in.EquipmentIDs,
		Notes:        sql.NullString{String: in.Notes, Valid: in.Notes != ""},
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if b.EquipmentIDs == nil {
		b.EquipmentIDs = UUIDs{}
	}

	if err := s.store.Insert(ctx, b); err != nil {
		return nil, wrapStorageErr(err)
	}

	s.publish(ctx, newEvent(EventProposed, b, ""))
	return b, nil
}

// Get returns a booking visible to the actor: the requester, the resource
// owner, or an admin.
func (s *Service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, wrapStorageErr(err)
	}
	if b == nil {
		return nil, ErrNotFound
	}
	if !s.canView(ctx, actor, b) {
		return nil, ErrForbidden
	}
	return b, nil
}

// Transition moves a booking along the state machine. Illegal moves fail
// with InvalidTransitionError; concurrent updates are detected through the
// version column and surfaced as ErrConcurrentUpdate.
func (s *Service) Transition(ctx context.Context, actor Actor, id uuid.UUID, next Status, reason string) (*Booking, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, wrapStorageErr(err)
	}
	if b == nil {
		return nil, ErrNotFound
	}

	if !b.Status.CanTransitionTo(next) {
		return nil, &InvalidTransitionError{From: b.Status, To: next}
	}
	if err := s.authorize(ctx, actor, b, next); err != nil {
		return nil, err
	}

	expected := b.Version
	prev := b.Status
	b.Status = next
	b.Version++
	b.UpdatedAt = time.Now()

	switch next {
	case StatusConfirmed:
		b.ConfirmedBy = uuid.NullUUID{UUID: actor.ID, Valid: actor.ID != uuid.Nil}
	case StatusCancelled, StatusRejected:
		b.CancelReason = sql.NullString{String: reason, Valid: reason != ""}
	}

	if err := s.store.UpdateStatus(ctx, b, expected); err != nil {
		b.Status = prev
		return nil, wrapStorageErr(err)
	}

	s.publish(ctx, newEvent(eventFor(next), b, reason))
	return b, nil
}

// Confirm moves a pending booking to confirmed.
func (s *Service) Confirm(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error) {
	return s.Transition(ctx, actor, id, StatusConfirmed, "")
}

// Reject moves a pending booking to rejected with a reason.
func (s *Service) Reject(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*Booking, error) {
	return s.Transition(ctx, actor, id, StatusRejected, reason)
}

// Cancel moves a pending or confirmed booking to cancelled with a reason.
func (s *Service) Cancel(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*Booking, error) {
	return s.Transition(ctx, actor, id, StatusCancelled, reason)
}

// ListByResource returns a resource's bookings, earliest date first.
// Only the resource owner or an admin may list them.
func (s *Service) ListByResource(ctx context.Context, actor Actor, resourceID uuid.UUID, status *Status) ([]Booking, error) {
	res, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, wrapStorageErr(err)
	}
	if res == nil {
		return nil, resource.ErrNotFound
	}
	if actor.Role != "admin" && res.OwnerID != actor.ID {
		return nil, ErrForbidden
	}
	out, err := s.store.ListByResource(ctx, resourceID, status)
	return out, wrapStorageErr(err)
}

// Stats aggregates a resource's bookings by lifecycle state.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
	Rejected  int `json:"rejected"`
}

// StatsByResource returns the booking counts of a resource. Owner or admin
// only, same rule as ListByResource.
func (s *Service) StatsByResource(ctx context.Context, actor Actor, resourceID uuid.UUID) (*Stats, error) {
	res, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, wrapStorageErr(err)
	}
	if res == nil {
		return nil, resource.ErrNotFound
	}
	if actor.Role != "admin" && res.OwnerID != actor.ID {
		return nil, ErrForbidden
	}

	counts, err := s.store.CountByStatus(ctx, resourceID)
	if err != nil {
		return nil, wrapStorageErr(err)
	}

	stats := &Stats{}
	for status, n := range counts {
		stats.Total += n
		switch status {
		case StatusPending:
			stats.Pending = n
		case StatusConfirmed:
			stats.Confirmed = n
		case StatusCancelled:
			stats.Cancelled = n
		case StatusCompleted:
			stats.Completed = n
		case StatusRejected:
			stats.Rejected = n
		}
	}
	return stats, nil
}

// ListByRequester returns all bookings made by the requester.
func (s *Service) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]Booking, error) {
	out, err := s.store.ListByRequester(ctx, requesterID)
	return out, wrapStorageErr(err)
}

// authorize applies the ownership rules for a transition. Confirm and
// reject belong to the resource owner (or admin); cancel also belongs to
// the requester; complete belongs to the system job.
func (s *Service) authorize(ctx context.Context, actor Actor, b *Booking, next Status) error {
	if actor.Role == "admin" || actor.Role == "system" {
		return nil
	}
	switch next {
	case StatusCancelled:
		if b.RequesterID == actor.ID {
			return nil
		}
	case StatusCompleted:
		// Only the system job completes bookings.
		return ErrForbidden
	}
	res, err := s.resources.GetByID(ctx, b.ResourceID)
	if err != nil {
		return wrapStorageErr(err)
	}
	if res != nil && res.OwnerID == actor.ID {
		return nil
	}
	return ErrForbidden
}

func (s *Service) canView(ctx context.Context, actor Actor, b *Booking) bool {
	if actor.Role == "admin" || actor.Role == "system" || b.RequesterID == actor.ID {
		return true
	}
	res, err := s.resources.GetByID(ctx, b.ResourceID)
	if err != nil || res == nil {
		return false
	}
	return res.OwnerID == actor.ID
}

// publish sends a domain event. Delivery failure never rolls back the
// state change it describes; it is logged and dropped.
func (s *Service) publish(ctx context.Context, event Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		log.Warn().
			Err(err).
			Str("event_type", string(event.Type)).
			Str("booking_id", event.BookingID.String()).
			Msg("Failed to publish booking event")
	}
}

func eventFor(status Status) EventType {
	switch status {
	case StatusConfirmed:
		return EventConfirmed
	case StatusRejected:
		return EventRejected
	case StatusCancelled:
		return EventCancelled
	case StatusCompleted:
		return EventCompleted
	default:
		return EventProposed
	}
}

// dedupeSorted returns the dates sorted ascending with duplicates removed.
func dedupeSorted(in []wallclock.Date) Dates {
	dates := make(Dates, len(in))
	copy(dates, in)
	wallclock.SortDates(dates)
	out := make(Dates, 0, len(dates))
	for _, d := range dates {
		if len(out) == 0 || !d.Equal(out[len(out)-1]) {
			out = append(out, d)
		}
	}
	return out
}

// wrapStorageErr maps driver deadline errors to the retryable ErrTimeout.
func wrapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

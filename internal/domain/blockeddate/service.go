package blockeddate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// Store is the persistence surface the registry needs. Satisfied by
// *Repository; faked in tests.
type Store interface {
	Insert(ctx context.Context, bd *BlockedDate) error
	Delete(ctx context.Context, resourceID uuid.UUID, date wallclock.Date) error
	Get(ctx context.Context, resourceID uuid.UUID, date wallclock.Date) (*BlockedDate, error)
	ListByResource(ctx context.Context, resourceID uuid.UUID) ([]BlockedDate, error)
}

// Registry is the per-resource blocked-date registry. Writes go through the
// registry only; the availability and booking paths consult it read-only.
type Registry struct {
	store Store
}

// NewRegistry creates a blocked-date registry.
func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

// Block marks a date as blocked with a reason. Blocking an already-blocked
// date fails with ErrAlreadyBlocked.
func (g *Registry) Block(ctx context.Context, resourceID uuid.UUID, date wallclock.Date, reason string, actorID uuid.UUID) (*BlockedDate, error) {
	if reason == "" {
		reason = DefaultReason
	}
	bd := &BlockedDate{
		ResourceID: resourceID,
		Date:       date,
		Reason:     reason,
		CreatedBy:  actorID,
		CreatedAt:  time.Now(),
	}
	if err := g.store.Insert(ctx, bd); err != nil {
		return nil, err
	}
	return bd, nil
}

// Unblock removes a blocked date. Unblocking an already-open day is a
// successful no-op.
func (g *Registry) Unblock(ctx context.Context, resourceID uuid.UUID, date wallclock.Date) error {
	return g.store.Delete(ctx, resourceID, date)
}

// IsBlocked reports whether the date is blocked, with the recorded reason.
func (g *Registry) IsBlocked(ctx context.Context, resourceID uuid.UUID, date wallclock.Date) (bool, string, error) {
	bd, err := g.store.Get(ctx, resourceID, date)
	if err != nil {
		return false, "", err
	}
	if bd == nil {
		return false, "", nil
	}
	return true, bd.Reason, nil
}

// ListBlocked returns the blocked dates of a resource, date ascending.
func (g *Registry) ListBlocked(ctx context.Context, resourceID uuid.UUID) ([]BlockedDate, error) {
	return g.store.ListByResource(ctx, resourceID)
}

package blockeddate

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// Repository handles blocked-date database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new blocked-date repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Insert adds a blocked date; returns ErrAlreadyBlocked when the
// (resource, date) pair already exists.
func (r *Repository) Insert(ctx context.Context, bd *BlockedDate) error {
	query := `
		INSERT INTO blocked_dates (resource_id, date, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		bd.ResourceID,
		bd.Date,
		bd.Reason,
		bd.CreatedBy,
		bd.CreatedAt,
	)
	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
		return ErrAlreadyBlocked
	}
	return err
}

// Delete removes a blocked date. Removing an absent entry is not an error.
func (r *Repository) Delete(ctx context.Context, resourceID uuid.UUID, date wallclock.Date) error {
	query := `DELETE FROM blocked_dates WHERE resource_id = $1 AND date = $2`
	_, err := r.db.ExecContext(ctx, query, resourceID, date)
	return err
}

// Get returns the blocked-date entry for a (resource, date), or nil.
func (r *Repository) Get(ctx context.Context, resourceID uuid.UUID, date wallclock.Date) (*BlockedDate, error) {
	query := `SELECT * FROM blocked_dates WHERE resource_id = $1 AND date = $2`
	var bd BlockedDate
	err := r.db.GetContext(ctx, &bd, query, resourceID, date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bd, nil
}

// ListByResource returns all blocked dates for a resource, date ascending.
func (r *Repository) ListByResource(ctx context.Context, resourceID uuid.UUID) ([]BlockedDate, error) {
	query := `SELECT * FROM blocked_dates WHERE resource_id = $1 ORDER BY date ASC`
	var out []BlockedDate
	err := r.db.SelectContext(ctx, &out, query, resourceID)
	return out, err
}

package booking

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// Repository handles booking database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new booking repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends a new booking to the ledger. The resource row is locked
// for the duration of the transaction and the conflict check is repeated
// under that lock, so proposals racing across API instances that share
// one database cannot both commit.
func (r *Repository) Insert(ctx context.Context, b *Booking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT id FROM resources WHERE id = $1 FOR UPDATE`, b.ResourceID); err != nil {
		return err
	}

	var conflictID uuid.UUID
	err = tx.GetContext(ctx, &conflictID, `
		SELECT id FROM bookings
		WHERE resource_id = $1 AND status IN ('pending', 'confirmed')
		  AND dates && $2 AND start_time < $3 AND end_time > $4
		LIMIT 1
	`, b.ResourceID, b.Dates, b.EndTime, b.StartTime)
	if err == nil {
		return &SlotTakenError{ConflictingID: conflictID}
	}
	if err != sql.ErrNoRows {
		return err
	}

	query := `
		INSERT INTO bookings (id, resource_id, requester_id, dates, start_time, end_time, status,
		                      equipment_ids, notes, cancel_reason, confirmed_by, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = tx.ExecContext(ctx, query,
		b.ID,
		b.ResourceID,
		b.RequesterID,
		b.Dates,
		b.StartTime,
		b.EndTime,
		b.Status,
		b.EquipmentIDs,
		b.Notes,
		b.CancelReason,
		b.ConfirmedBy,
		b.Version,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID returns a booking by ID, or nil when absent
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `SELECT * FROM bookings WHERE id = $1`
	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListActiveByResource returns pending and confirmed bookings of a resource
func (r *Repository) ListActiveByResource(ctx context.Context, resourceID uuid.UUID) ([]Booking, error) {
	query := `
		SELECT * FROM bookings
		WHERE resource_id = $1 AND status IN ('pending', 'confirmed')
		ORDER BY dates[1] ASC, start_time ASC
	`
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, resourceID)
	return bookings, err
}

// ListByResource returns bookings of a resource, earliest date first,
// optionally filtered by status
func (r *Repository) ListByResource(ctx context.Context, resourceID uuid.UUID, status *Status) ([]Booking, error) {
	var bookings []Booking
	if status != nil {
		query := `
			SELECT * FROM bookings
			WHERE resource_id = $1 AND status = $2
			ORDER BY dates[1] ASC, start_time ASC
		`
		err := r.db.SelectContext(ctx, &bookings, query, resourceID, *status)
		return bookings, err
	}
	query := `
		SELECT * FROM bookings
		WHERE resource_id = $1
		ORDER BY dates[1] ASC, start_time ASC
	`
	err := r.db.SelectContext(ctx, &bookings, query, resourceID)
	return bookings, err
}

// ListByRequester returns all bookings made by a requester, newest batch first
func (r *Repository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]Booking, error) {
	query := `
		SELECT * FROM bookings
		WHERE requester_id = $1
		ORDER BY dates[1] DESC, start_time ASC
	`
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, requesterID)
	return bookings, err
}

// UpdateStatus persists a status change guarded by the version column.
// Returns ErrConcurrentUpdate when the row was changed by someone else.
func (r *Repository) UpdateStatus(ctx context.Context, b *Booking, expectedVersion int) error {
	query := `
		UPDATE bookings
		SET status = $2, cancel_reason = $3, confirmed_by = $4, version = $5, updated_at = $6
		WHERE id = $1 AND version = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.Status,
		b.CancelReason,
		b.ConfirmedBy,
		b.Version,
		b.UpdatedAt,
		expectedVersion,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrConcurrentUpdate
	}
	return nil
}

// CountByStatus returns the number of bookings per status for a resource.
func (r *Repository) CountByStatus(ctx context.Context, resourceID uuid.UUID) (map[Status]int, error) {
	query := `SELECT status, COUNT(*) AS count FROM bookings WHERE resource_id = $1 GROUP BY status`
	var rows []struct {
		Status Status `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, resourceID); err != nil {
		return nil, err
	}
	out := make(map[Status]int, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// ListConfirmedEndedBefore returns confirmed bookings whose last date is
// strictly before the given date. Used by the completer job.
func (r *Repository) ListConfirmedEndedBefore(ctx context.Context, date wallclock.Date) ([]Booking, error) {
	query := `
		SELECT * FROM bookings
		WHERE status = 'confirmed' AND dates[array_length(dates, 1)] < $1
	`
	var bookings []Booking
	err := r.db.SelectContext(ctx, &bookings, query, date.String())
	return bookings, err
}

package resource

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository handles resource database operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new resource repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new resource
func (r *Repository) Create(ctx context.Context, res *Resource) error {
	query := `
		INSERT INTO resources (id, name, location, description, owner_id, opening_time, closing_time, slot_minutes, open_weekdays, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		res.ID,
		res.Name,
		res.Location,
		res.Description,
		res.OwnerID,
		res.OpeningTime,
		res.ClosingTime,
		res.SlotMinutes,
		res.OpenWeekdays,
		res.Active,
		res.CreatedAt,
		res.UpdatedAt,
	)
	return err
}

// GetByID returns a resource by ID, or nil when absent
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Resource, error) {
	query := `SELECT * FROM resources WHERE id = $1`
	var res Resource
	err := r.db.GetContext(ctx, &res, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &res, err
}

// ListActive returns all active resources ordered by name
func (r *Repository) ListActive(ctx context.Context) ([]Resource, error) {
	query := `SELECT * FROM resources WHERE active = true ORDER BY name ASC`
	var resources []Resource
	err := r.db.SelectContext(ctx, &resources, query)
	return resources, err
}

// Update persists configuration changes
func (r *Repository) Update(ctx context.Context, res *Resource) error {
	query := `
		UPDATE resources
		SET name = $2, location = $3, description = $4, opening_time = $5, closing_time = $6,
		    slot_minutes = $7, open_weekdays = $8, active = $9, updated_at = $10
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		res.ID,
		res.Name,
		res.Location,
		res.Description,
		res.OpeningTime,
		res.ClosingTime,
		res.SlotMinutes,
		res.OpenWeekdays,
		res.Active,
		res.UpdatedAt,
	)
	return err
}

// Deactivate marks a resource inactive without deleting its history
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE resources SET active = false, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

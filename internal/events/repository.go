package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenvolunteer/backend/internal/models"
)

var (
	// ErrNotFound is returned when the event does not exist.
	ErrNotFound = errors.New("event not found")
	// ErrInvalidTransition is returned for a status change the lifecycle does
	// not allow. Rejected and completed events never leave their state.
	ErrInvalidTransition = errors.New("invalid event status transition")
)

const eventColumns = `id, title, description, start_time, end_time, location, COALESCE(location_coords,''),
	max_volunteers, organization_id, category_id, status, is_hidden, COALESCE(hidden_reason,''), hidden_at,
	COALESCE(image_url,''), created_at, updated_at`

// ListFilter narrows the public event listing.
type ListFilter struct {
	CategoryID *uuid.UUID
	Keyword    string
	Limit      int
	Offset     int
}

// Repository handles event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	const q = `INSERT INTO events (id, title, description, start_time, end_time, location, location_coords,
		max_volunteers, organization_id, category_id, status, image_url)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, NULLIF($6,''), $7, $8, $9, $10, NULLIF($11,''))
		RETURNING id, is_hidden, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, e.Title, e.Description, e.StartTime, e.EndTime, e.Location, e.LocationCoords,
		e.MaxVolunteers, e.OrganizationID, e.CategoryID, e.Status, e.ImageURL).
		Scan(&e.ID, &e.IsHidden, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an event, or nil.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.pool.QueryRow(ctx, q, id))
}

// ListPublic returns approved, unhidden events, newest start first, filtered by
// category and keyword and paginated.
func (r *Repository) ListPublic(ctx context.Context, f ListFilter) ([]models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE status = 'approved' AND NOT is_hidden`
	args := []any{}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		q += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	if f.Keyword != "" {
		args = append(args, "%"+f.Keyword+"%")
		q += fmt.Sprintf(` AND (title ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}
	q += ` ORDER BY start_time DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(` OFFSET $%d`, len(args))
	}
	return r.list(ctx, q, args...)
}

// ListByOrganization returns all of one organization's events, every status.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE organization_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, q, orgID)
}

// ListAll returns every event for the admin screen, optionally by status.
func (r *Repository) ListAll(ctx context.Context, status models.EventStatus) ([]models.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events`
	args := []any{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`
	return r.list(ctx, q, args...)
}

// Update writes the editable event fields.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	const q = `UPDATE events SET title = $1, description = $2, start_time = $3, end_time = $4,
		location = $5, location_coords = NULLIF($6,''), max_volunteers = $7, category_id = $8,
		image_url = NULLIF($9,''), updated_at = NOW()
		WHERE id = $10`
	_, err := r.pool.Exec(ctx, q, e.Title, e.Description, e.StartTime, e.EndTime, e.Location,
		e.LocationCoords, e.MaxVolunteers, e.CategoryID, e.ImageURL, e.ID)
	return err
}

// Delete removes an event and its dependent rows in one transaction. The
// dependents are deleted explicitly rather than left to the cascade so the
// removal order is fixed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	for _, q := range []string{
		`DELETE FROM event_registrations WHERE event_id = $1`,
		`DELETE FROM event_favorites WHERE event_id = $1`,
		`DELETE FROM event_comments WHERE event_id = $1`,
		`DELETE FROM event_reports WHERE event_id = $1`,
	} {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return false, err
		}
	}
	tag, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Transition moves an event to a new lifecycle status. The current status is
// read under a row lock so concurrent transitions serialize; hiding records
// the reason and timestamp, unhiding clears them.
func (r *Repository) Transition(ctx context.Context, id uuid.UUID, target models.EventStatus, hiddenReason string) (*models.Event, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var current models.EventStatus
	err = tx.QueryRow(ctx, `SELECT status FROM events WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !current.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}

	var row pgx.Row
	switch target {
	case models.EventHidden:
		row = tx.QueryRow(ctx, `UPDATE events SET status = $1, is_hidden = TRUE, hidden_reason = NULLIF($2,''),
			hidden_at = NOW(), updated_at = NOW() WHERE id = $3 RETURNING `+eventColumns, target, hiddenReason, id)
	case models.EventApproved:
		row = tx.QueryRow(ctx, `UPDATE events SET status = $1, is_hidden = FALSE, hidden_reason = NULL,
			hidden_at = NULL, updated_at = NOW() WHERE id = $2 RETURNING `+eventColumns, target, id)
	default:
		row = tx.QueryRow(ctx, `UPDATE events SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING `+eventColumns, target, id)
	}
	e, err := scanEvent(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// ConfirmedCount returns how many registrations are confirmed for an event.
func (r *Repository) ConfirmedCount(ctx context.Context, eventID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_registrations WHERE event_id = $1 AND status = 'confirmed'`, eventID).Scan(&n)
	return n, err
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.Location, &e.LocationCoords,
			&e.MaxVolunteers, &e.OrganizationID, &e.CategoryID, &e.Status, &e.IsHidden, &e.HiddenReason, &e.HiddenAt,
			&e.ImageURL, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.Location, &e.LocationCoords,
		&e.MaxVolunteers, &e.OrganizationID, &e.CategoryID, &e.Status, &e.IsHidden, &e.HiddenReason, &e.HiddenAt,
		&e.ImageURL, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

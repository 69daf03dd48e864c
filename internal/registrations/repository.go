package registrations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenvolunteer/backend/internal/models"
)

// Repository is the Postgres-backed Store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// pgTx binds the Tx operations to an open transaction.
type pgTx struct {
	tx pgx.Tx
}

// InTx runs fn inside a transaction; rollback on error, commit otherwise.
func (r *Repository) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// EventForUpdate fetches the event with its row locked for the transaction.
func (t *pgTx) EventForUpdate(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	const q = `SELECT id, title, COALESCE(description,''), start_time, end_time, COALESCE(location,''),
		max_volunteers, organization_id, category_id, status, is_hidden, created_at, updated_at
		FROM events WHERE id = $1 FOR UPDATE`
	var e models.Event
	err := t.tx.QueryRow(ctx, q, eventID).Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime,
		&e.Location, &e.MaxVolunteers, &e.OrganizationID, &e.CategoryID, &e.Status, &e.IsHidden, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// HasRegistration reports whether any registration exists for the pair.
func (t *pgTx) HasRegistration(ctx context.Context, eventID, volunteerID uuid.UUID) (bool, error) {
	const q = `SELECT 1 FROM event_registrations WHERE event_id = $1 AND volunteer_id = $2`
	var one int
	err := t.tx.QueryRow(ctx, q, eventID, volunteerID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CountAdmitted counts pending plus confirmed registrations for the event.
func (t *pgTx) CountAdmitted(ctx context.Context, eventID uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM event_registrations WHERE event_id = $1 AND status IN ('pending','confirmed')`
	var n int
	err := t.tx.QueryRow(ctx, q, eventID).Scan(&n)
	return n, err
}

// Insert persists a new registration.
func (t *pgTx) Insert(ctx context.Context, reg *models.EventRegistration) error {
	const q = `INSERT INTO event_registrations (id, event_id, volunteer_id, full_name, phone, reason, status, registered_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	return t.tx.QueryRow(ctx, q, reg.EventID, reg.VolunteerID, reg.FullName, reg.Phone, reg.Reason, string(reg.Status), reg.RegisteredAt).
		Scan(&reg.ID)
}

// GetByID returns a registration, or nil if missing.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.EventRegistration, error) {
	const q = `SELECT id, event_id, volunteer_id, full_name, phone, reason, status, registered_at
		FROM event_registrations WHERE id = $1`
	var reg models.EventRegistration
	err := r.pool.QueryRow(ctx, q, id).Scan(&reg.ID, &reg.EventID, &reg.VolunteerID, &reg.FullName, &reg.Phone, &reg.Reason, &reg.Status, &reg.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// EventOwner returns the owning organization of the event, or nil.
func (r *Repository) EventOwner(ctx context.Context, eventID uuid.UUID) (*uuid.UUID, error) {
	const q = `SELECT organization_id FROM events WHERE id = $1`
	var orgID *uuid.UUID
	err := r.pool.QueryRow(ctx, q, eventID).Scan(&orgID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return orgID, nil
}

// SetStatusIfPending conditionally moves a registration out of pending.
// The WHERE clause makes concurrent approve/reject mutually exclusive.
func (r *Repository) SetStatusIfPending(ctx context.Context, id uuid.UUID, status models.RegistrationStatus) (bool, error) {
	const q = `UPDATE event_registrations SET status = $1 WHERE id = $2 AND status = 'pending'`
	tag, err := r.pool.Exec(ctx, q, string(status), id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListByEvent returns registrations for an event, newest first.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventRegistration, error) {
	const q = `SELECT id, event_id, volunteer_id, full_name, phone, reason, status, registered_at
		FROM event_registrations WHERE event_id = $1 ORDER BY registered_at DESC`
	return r.list(ctx, q, eventID)
}

// ListByVolunteer returns a volunteer's registrations, newest first.
func (r *Repository) ListByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]models.EventRegistration, error) {
	const q = `SELECT id, event_id, volunteer_id, full_name, phone, reason, status, registered_at
		FROM event_registrations WHERE volunteer_id = $1 ORDER BY registered_at DESC`
	return r.list(ctx, q, volunteerID)
}

func (r *Repository) list(ctx context.Context, q string, arg any) ([]models.EventRegistration, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EventRegistration
	for rows.Next() {
		var reg models.EventRegistration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.VolunteerID, &reg.FullName, &reg.Phone, &reg.Reason, &reg.Status, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}

// ConfirmedCount counts confirmed registrations for the public details page.
func (r *Repository) ConfirmedCount(ctx context.Context, eventID uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM event_registrations WHERE event_id = $1 AND status = 'confirmed'`
	var n int
	err := r.pool.QueryRow(ctx, q, eventID).Scan(&n)
	return n, err
}

// AdmittedCount counts pending plus confirmed registrations (capacity metric).
func (r *Repository) AdmittedCount(ctx context.Context, eventID uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM event_registrations WHERE event_id = $1 AND status IN ('pending','confirmed')`
	var n int
	err := r.pool.QueryRow(ctx, q, eventID).Scan(&n)
	return n, err
}

// VolunteerContact returns the email and name for a volunteer, used when
// sending decision emails.
func (r *Repository) VolunteerContact(ctx context.Context, volunteerID uuid.UUID) (email, name string, err error) {
	const q = `SELECT COALESCE(v.email, u.email), v.full_name
		FROM volunteers v INNER JOIN users u ON u.id = v.user_id
		WHERE v.id = $1`
	err = r.pool.QueryRow(ctx, q, volunteerID).Scan(&email, &name)
	return email, name, err
}

package reports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenvolunteer/backend/internal/models"
)

var (
	// ErrDuplicateReport is returned when a user reports the same event twice,
	// regardless of the earlier report's moderation status.
	ErrDuplicateReport = errors.New("event already reported by this user")
	// ErrEventNotFound is returned when the reported event does not exist.
	ErrEventNotFound = errors.New("event not found")
)

const reportColumns = `id, event_id, reporter_user_id, reason, status, reported_at`

// Repository handles event report persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a reports repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create files a report. The unique index on (event_id, reporter_user_id)
// enforces one report per user per event under concurrent submissions; the
// event foreign key surfaces missing events.
func (r *Repository) Create(ctx context.Context, rep *models.EventReport) error {
	const q = `INSERT INTO event_reports (id, event_id, reporter_user_id, reason)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, status, reported_at`
	err := r.pool.QueryRow(ctx, q, rep.EventID, rep.ReporterUserID, rep.Reason).
		Scan(&rep.ID, &rep.Status, &rep.ReportedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateReport
		case "23503":
			return ErrEventNotFound
		}
	}
	return err
}

// GetByID returns a report, or nil.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.EventReport, error) {
	q := `SELECT ` + reportColumns + ` FROM event_reports WHERE id = $1`
	var rep models.EventReport
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&rep.ID, &rep.EventID, &rep.ReporterUserID, &rep.Reason, &rep.Status, &rep.ReportedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// List returns reports for the admin moderation queue, optionally filtered by
// status, newest first.
func (r *Repository) List(ctx context.Context, status models.ReportStatus) ([]models.EventReport, error) {
	q := `SELECT ` + reportColumns + ` FROM event_reports`
	args := []any{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY reported_at DESC`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EventReport
	for rows.Next() {
		var rep models.EventReport
		if err := rows.Scan(&rep.ID, &rep.EventID, &rep.ReporterUserID, &rep.Reason, &rep.Status, &rep.ReportedAt); err != nil {
			return nil, err
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}

// ListByEvent returns all reports filed against one event.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventReport, error) {
	q := `SELECT ` + reportColumns + ` FROM event_reports WHERE event_id = $1 ORDER BY reported_at DESC`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EventReport
	for rows.Next() {
		var rep models.EventReport
		if err := rows.Scan(&rep.ID, &rep.EventID, &rep.ReporterUserID, &rep.Reason, &rep.Status, &rep.ReportedAt); err != nil {
			return nil, err
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}

// SetStatus updates the moderation status of a report.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status models.ReportStatus) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE event_reports SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes a report.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM event_reports WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

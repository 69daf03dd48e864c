package emaillogs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenvolunteer/backend/internal/models"
)

const emailLogColumns = `id, event_id, registration_id, email_type, recipient, COALESCE(subject,''),
	status, COALESCE(error_message,''), sent_at, created_at`

// Repository handles email delivery log persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email logs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert records a queued email. A caller-set ID is kept so delivery retries
// can find the same row; otherwise one is generated.
func (r *Repository) Insert(ctx context.Context, log *models.EmailLog) error {
	const q = `INSERT INTO email_logs (id, event_id, registration_id, email_type, recipient, subject, status)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6,''), $7)
		RETURNING created_at`
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.Status == "" {
		log.Status = models.EmailQueued
	}
	return r.pool.QueryRow(ctx, q, log.ID, log.EventID, log.RegistrationID, log.EmailType,
		log.Recipient, log.Subject, log.Status).Scan(&log.CreatedAt)
}

// MarkSent records successful delivery.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE email_logs SET status = $1, sent_at = NOW(), error_message = NULL WHERE id = $2`,
		models.EmailSent, id)
	return err
}

// MarkFailed records a delivery failure with the error text.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE email_logs SET status = $1, error_message = $2 WHERE id = $3`,
		models.EmailFailed, errMsg, id)
	return err
}

// GetByID returns an email log, or nil.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.EmailLog, error) {
	q := `SELECT ` + emailLogColumns + ` FROM email_logs WHERE id = $1`
	var l models.EmailLog
	err := r.pool.QueryRow(ctx, q, id).Scan(&l.ID, &l.EventID, &l.RegistrationID, &l.EmailType,
		&l.Recipient, &l.Subject, &l.Status, &l.ErrorMessage, &l.SentAt, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListByEvent returns delivery logs for one event, newest first.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EmailLog, error) {
	q := `SELECT ` + emailLogColumns + ` FROM email_logs WHERE event_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, q, eventID)
}

// ListRecent returns the latest delivery logs for the admin screen.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.EmailLog, error) {
	q := `SELECT ` + emailLogColumns + ` FROM email_logs ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, q, limit)
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]models.EmailLog, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EmailLog
	for rows.Next() {
		var l models.EmailLog
		if err := rows.Scan(&l.ID, &l.EventID, &l.RegistrationID, &l.EmailType, &l.Recipient,
			&l.Subject, &l.Status, &l.ErrorMessage, &l.SentAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

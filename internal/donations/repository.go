package donations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenvolunteer/backend/internal/models"
)

const donationColumns = `id, donor_name, phone, amount_cents, COALESCE(message,''), is_paid, COALESCE(transaction_code,''), created_at`

// Repository handles donation persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a donations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an unpaid donation.
func (r *Repository) Create(ctx context.Context, d *models.Donation) error {
	const q = `INSERT INTO donations (id, donor_name, phone, amount_cents, message)
		VALUES (gen_random_uuid(), $1, $2, $3, NULLIF($4,''))
		RETURNING id, is_paid, created_at`
	return r.pool.QueryRow(ctx, q, d.DonorName, d.Phone, d.AmountCents, d.Message).
		Scan(&d.ID, &d.IsPaid, &d.CreatedAt)
}

// GetByID returns a donation, or nil.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	q := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`
	var d models.Donation
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&d.ID, &d.DonorName, &d.Phone, &d.AmountCents, &d.Message, &d.IsPaid, &d.TransactionCode, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// MarkPaid records a completed payment. The unpaid condition makes repeated
// gateway notifications for the same order a no-op.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, transactionCode string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE donations SET is_paid = TRUE, transaction_code = $1 WHERE id = $2 AND NOT is_paid`,
		transactionCode, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// List returns donations for the admin screen, newest first. Paid-only when
// paidOnly is set.
func (r *Repository) List(ctx context.Context, paidOnly bool) ([]models.Donation, error) {
	q := `SELECT ` + donationColumns + ` FROM donations`
	if paidOnly {
		q += ` WHERE is_paid`
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Donation
	for rows.Next() {
		var d models.Donation
		if err := rows.Scan(&d.ID, &d.DonorName, &d.Phone, &d.AmountCents, &d.Message, &d.IsPaid, &d.TransactionCode, &d.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// TotalPaid returns the sum of paid donation amounts.
func (r *Repository) TotalPaid(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM donations WHERE is_paid`).Scan(&total)
	return total, err
}

package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenvolunteer/backend/internal/models"
)

// ErrAlreadyReviewed is returned when a user reviews the same organization twice.
var ErrAlreadyReviewed = errors.New("organization already reviewed by this user")

// Repository handles review persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a reviews repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a review. The unique index on (organization_id, user_id) makes
// the one-review-per-user rule hold under concurrent submissions.
func (r *Repository) Create(ctx context.Context, rev *models.Review) error {
	const q = `INSERT INTO reviews (id, organization_id, user_id, rating, comment)
		VALUES (gen_random_uuid(), $1, $2, $3, NULLIF($4,''))
		RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q, rev.OrganizationID, rev.UserID, rev.Rating, rev.Comment).
		Scan(&rev.ID, &rev.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyReviewed
	}
	return err
}

// ListByOrganization returns reviews for an organization, newest first.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Review, error) {
	const q = `SELECT id, organization_id, user_id, rating, COALESCE(comment,''), created_at
		FROM reviews WHERE organization_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Review
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(&rev.ID, &rev.OrganizationID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, rev)
	}
	return list, rows.Err()
}

// AverageRating returns the mean rating and review count for an organization.
func (r *Repository) AverageRating(ctx context.Context, orgID uuid.UUID) (float64, int, error) {
	const q = `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE organization_id = $1`
	var avg float64
	var count int
	if err := r.pool.QueryRow(ctx, q, orgID).Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

// Delete removes a review (admin moderation).
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

package comments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenvolunteer/backend/internal/models"
)

// Repository is the PostgreSQL implementation of Store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a comments repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) EventExists(ctx context.Context, eventID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists)
	return exists, err
}

func (r *Repository) EventOrganization(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error) {
	var orgID uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT organization_id FROM events WHERE id = $1`, eventID).Scan(&orgID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, nil
	}
	return orgID, err
}

func (r *Repository) Insert(ctx context.Context, c *models.EventComment) error {
	const q = `INSERT INTO event_comments (event_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, is_visible, is_deleted, created_at`
	return r.pool.QueryRow(ctx, q, c.EventID, c.UserID, c.Content).
		Scan(&c.ID, &c.IsVisible, &c.IsDeleted, &c.CreatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.EventComment, error) {
	const q = `SELECT id, event_id, user_id, content, is_visible, is_deleted, created_at
		FROM event_comments WHERE id = $1`
	var c models.EventComment
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&c.ID, &c.EventID, &c.UserID, &c.Content, &c.IsVisible, &c.IsDeleted, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListVisible(ctx context.Context, eventID uuid.UUID) ([]models.EventComment, error) {
	const q = `SELECT c.id, c.event_id, c.user_id, u.full_name, c.content,
			c.is_visible, c.is_deleted, c.created_at
		FROM event_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.event_id = $1 AND c.is_visible AND NOT c.is_deleted
		ORDER BY c.created_at DESC`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EventComment
	for rows.Next() {
		var c models.EventComment
		if err := rows.Scan(&c.ID, &c.EventID, &c.UserID, &c.AuthorName, &c.Content,
			&c.IsVisible, &c.IsDeleted, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE event_comments SET is_deleted = TRUE, is_visible = FALSE
		WHERE id = $1 AND NOT is_deleted`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

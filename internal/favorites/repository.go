package favorites

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenvolunteer/backend/internal/models"
)

// Repository is the PostgreSQL implementation of Store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a favorites repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) EventExists(ctx context.Context, eventID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists)
	return exists, err
}

func (r *Repository) Remove(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM event_favorites WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) Add(ctx context.Context, eventID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO event_favorites (event_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		eventID, userID)
	return err
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.EventFavorite, error) {
	const q = `SELECT event_id, user_id, favorited_at FROM event_favorites
		WHERE user_id = $1 ORDER BY favorited_at DESC`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EventFavorite
	for rows.Next() {
		var f models.EventFavorite
		if err := rows.Scan(&f.EventID, &f.UserID, &f.FavoritedAt); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

func (r *Repository) Count(ctx context.Context, eventID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM event_favorites WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}

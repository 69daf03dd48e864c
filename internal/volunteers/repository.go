package volunteers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenvolunteer/backend/internal/models"
)

// Repository handles volunteer profile persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a volunteers repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const volunteerColumns = `id, user_id, full_name, COALESCE(email,''), COALESCE(phone,''), COALESCE(address,''),
	COALESCE(skills,''), COALESCE(bio,''), COALESCE(avatar_url,''), availability, joined_at`

// GetByUserID returns the volunteer profile for a user, or nil.
func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Volunteer, error) {
	q := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE user_id = $1`
	v, err := r.scanOne(r.pool.QueryRow(ctx, q, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

// GetByID returns a volunteer by ID, or nil.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error) {
	q := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE id = $1`
	v, err := r.scanOne(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

// GetOrCreate returns the volunteer profile for a user, creating it lazily on
// first interaction with event features. The conflict clause makes racing
// first interactions converge on one row.
func (r *Repository) GetOrCreate(ctx context.Context, userID uuid.UUID, fullName, email string) (*models.Volunteer, error) {
	q := `INSERT INTO volunteers (id, user_id, full_name, email)
		VALUES (gen_random_uuid(), $1, $2, NULLIF($3,''))
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING ` + volunteerColumns
	return r.scanOne(r.pool.QueryRow(ctx, q, userID, fullName, email))
}

// Update writes the editable profile fields.
func (r *Repository) Update(ctx context.Context, v *models.Volunteer) error {
	const q = `UPDATE volunteers SET full_name = $1, email = NULLIF($2,''), phone = NULLIF($3,''),
		address = NULLIF($4,''), skills = NULLIF($5,''), bio = NULLIF($6,''),
		avatar_url = NULLIF($7,''), availability = $8
		WHERE id = $9`
	_, err := r.pool.Exec(ctx, q, v.FullName, v.Email, v.Phone, v.Address, v.Skills, v.Bio, v.AvatarURL, v.Availability, v.ID)
	return err
}

func (r *Repository) scanOne(row pgx.Row) (*models.Volunteer, error) {
	var v models.Volunteer
	err := row.Scan(&v.ID, &v.UserID, &v.FullName, &v.Email, &v.Phone, &v.Address,
		&v.Skills, &v.Bio, &v.AvatarURL, &v.Availability, &v.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

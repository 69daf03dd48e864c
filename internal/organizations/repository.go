package organizations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/greenvolunteer/backend/internal/models"
)

// Repository handles organization persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an organizations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const orgColumns = `id, user_id, name, org_type, description, COALESCE(avatar_url,''), COALESCE(focus_areas,''),
	contact_email, phone, COALESCE(website,''), address, COALESCE(verification_docs_url,''),
	verified, is_approved, is_active, joined_at, updated_at`

// Create inserts an organization profile. New organizations start neither
// approved nor verified.
func (r *Repository) Create(ctx context.Context, org *models.Organization) error {
	const q = `INSERT INTO organizations (id, user_id, name, org_type, description, avatar_url, focus_areas,
		contact_email, phone, website, address, verification_docs_url)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, NULLIF($5,''), NULLIF($6,''), $7, $8, NULLIF($9,''), $10, NULLIF($11,''))
		RETURNING id, verified, is_approved, is_active, joined_at, updated_at`
	return r.pool.QueryRow(ctx, q, org.UserID, org.Name, org.OrgType, org.Description, org.AvatarURL,
		org.FocusAreas, org.ContactEmail, org.Phone, org.Website, org.Address, org.VerificationDocsURL).
		Scan(&org.ID, &org.Verified, &org.IsApproved, &org.IsActive, &org.JoinedAt, &org.UpdatedAt)
}

// GetByID returns an organization, or nil.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	q := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, q, id))
}

// GetByUserID returns the organization owned by a user, or nil.
func (r *Repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Organization, error) {
	q := `SELECT ` + orgColumns + ` FROM organizations WHERE user_id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, q, userID))
}

// ListVerified returns the public organization directory: verified and active only.
func (r *Repository) ListVerified(ctx context.Context) ([]models.Organization, error) {
	q := `SELECT ` + orgColumns + ` FROM organizations WHERE verified AND is_active ORDER BY name`
	return r.list(ctx, q)
}

// ListAll returns every organization for the admin screen.
func (r *Repository) ListAll(ctx context.Context) ([]models.Organization, error) {
	q := `SELECT ` + orgColumns + ` FROM organizations ORDER BY joined_at DESC`
	return r.list(ctx, q)
}

// Update writes the editable profile fields.
func (r *Repository) Update(ctx context.Context, org *models.Organization) error {
	const q = `UPDATE organizations SET name = $1, org_type = $2, description = $3,
		avatar_url = NULLIF($4,''), focus_areas = NULLIF($5,''), contact_email = $6, phone = $7,
		website = NULLIF($8,''), address = $9, verification_docs_url = NULLIF($10,''), updated_at = NOW()
		WHERE id = $11`
	_, err := r.pool.Exec(ctx, q, org.Name, org.OrgType, org.Description, org.AvatarURL, org.FocusAreas,
		org.ContactEmail, org.Phone, org.Website, org.Address, org.VerificationDocsURL, org.ID)
	return err
}

// SetApproved flips the organizer-capability gate.
func (r *Repository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE organizations SET is_approved = $1, updated_at = NOW() WHERE id = $2`, approved, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SetVerified flips the public-visibility gate, independent of approval.
func (r *Repository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE organizations SET verified = $1, updated_at = NOW() WHERE id = $2`, verified, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SetActive activates or deactivates an organization.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE organizations SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) scanOne(row pgx.Row) (*models.Organization, error) {
	var o models.Organization
	err := row.Scan(&o.ID, &o.UserID, &o.Name, &o.OrgType, &o.Description, &o.AvatarURL, &o.FocusAreas,
		&o.ContactEmail, &o.Phone, &o.Website, &o.Address, &o.VerificationDocsURL,
		&o.Verified, &o.IsApproved, &o.IsActive, &o.JoinedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Repository) list(ctx context.Context, q string, args ...any) ([]models.Organization, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Organization
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(&o.ID, &o.UserID, &o.Name, &o.OrgType, &o.Description, &o.AvatarURL, &o.FocusAreas,
			&o.ContactEmail, &o.Phone, &o.Website, &o.Address, &o.VerificationDocsURL,
			&o.Verified, &o.IsApproved, &o.IsActive, &o.JoinedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

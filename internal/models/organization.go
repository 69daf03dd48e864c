package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant entity that owns events.
// IsApproved gates organizer capabilities; Verified gates public visibility.
// The two flags are independent.
type Organization struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"user_id"`
	Name                string    `json:"name"`
	OrgType             string    `json:"org_type"`
	Description         string    `json:"description"`
	AvatarURL           string    `json:"avatar_url,omitempty"`
	FocusAreas          string    `json:"focus_areas,omitempty"` // comma-separated
	ContactEmail        string    `json:"contact_email"`
	Phone               string    `json:"phone"`
	Website             string    `json:"website,omitempty"`
	Address             string    `json:"address"`
	VerificationDocsURL string    `json:"verification_docs_url,omitempty"`
	Verified            bool      `json:"verified"`
	IsApproved          bool      `json:"is_approved"`
	IsActive            bool      `json:"is_active"`
	JoinedAt            time.Time `json:"joined_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Review is a user's rating of an organization, one per (organization, user).
type Review struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	UserID         uuid.UUID `json:"user_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

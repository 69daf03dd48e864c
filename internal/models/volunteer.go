package models

import (
	"time"

	"github.com/google/uuid"
)

// Volunteer availability states.
const (
	VolunteerAvailable = "available"
	VolunteerBusy      = "busy"
	VolunteerInactive  = "inactive"
)

// Volunteer is the participant profile, one-to-one with a user.
// Created lazily on the user's first interaction with event features.
type Volunteer struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Skills       string    `json:"skills,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Availability string    `json:"availability"`
	JoinedAt     time.Time `json:"joined_at"`
}

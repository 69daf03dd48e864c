package models

import (
	"time"

	"github.com/google/uuid"
)

// Email log statuses.
const (
	EmailQueued = "queued"
	EmailSent   = "sent"
	EmailFailed = "failed"
)

// EmailLog records an outbound notification email and its delivery outcome.
type EmailLog struct {
	ID             uuid.UUID  `json:"id"`
	EventID        *uuid.UUID `json:"event_id,omitempty"`
	RegistrationID *uuid.UUID `json:"registration_id,omitempty"`
	EmailType      string     `json:"email_type"`
	Recipient      string     `json:"recipient"`
	Subject        string     `json:"subject"`
	Status         string     `json:"status"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

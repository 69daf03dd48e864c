package models

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationStatus is the workflow state of an event registration.
// Pending is the initial state; confirmed and rejected are terminal.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationRejected  RegistrationStatus = "rejected"
)

// EventRegistration is a volunteer's request to join an event.
// At most one registration exists per (event, volunteer) pair, whatever its status.
type EventRegistration struct {
	ID           uuid.UUID          `json:"id"`
	EventID      uuid.UUID          `json:"event_id"`
	VolunteerID  uuid.UUID          `json:"volunteer_id"`
	FullName     string             `json:"full_name"`
	Phone        string             `json:"phone"`
	Reason       string             `json:"reason"`
	Status       RegistrationStatus `json:"status"`
	RegisteredAt time.Time          `json:"registered_at"`
}

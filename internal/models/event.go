package models

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPending   EventStatus = "pending"
	EventApproved  EventStatus = "approved"
	EventHidden    EventStatus = "hidden"
	EventRejected  EventStatus = "rejected"
	EventCompleted EventStatus = "completed"
)

// eventTransitions is the closed transition table. Rejected and completed are terminal.
var eventTransitions = map[EventStatus][]EventStatus{
	EventDraft:    {EventPending},
	EventPending:  {EventApproved, EventRejected},
	EventApproved: {EventHidden, EventCompleted},
	EventHidden:   {EventApproved},
}

// CanTransitionTo reports whether moving from s to target is allowed.
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	for _, t := range eventTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool {
	switch s {
	case EventDraft, EventPending, EventApproved, EventHidden, EventRejected, EventCompleted:
		return true
	}
	return false
}

// Event is a volunteer event owned by an organization.
type Event struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	StartTime      time.Time   `json:"start_time"`
	EndTime        time.Time   `json:"end_time"`
	Location       string      `json:"location"`
	LocationCoords string      `json:"location_coords,omitempty"`
	MaxVolunteers  int         `json:"max_volunteers"`
	OrganizationID *uuid.UUID  `json:"organization_id,omitempty"`
	CategoryID     *uuid.UUID  `json:"category_id,omitempty"`
	Status         EventStatus `json:"status"`
	IsHidden       bool        `json:"is_hidden"`
	HiddenReason   string      `json:"hidden_reason,omitempty"`
	HiddenAt       *time.Time  `json:"hidden_at,omitempty"`
	ImageURL       string      `json:"image_url,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// EventCategory groups events for browsing and filtering.
type EventCategory struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

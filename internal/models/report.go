package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportStatus is the moderation state of an event report.
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportReviewed  ReportStatus = "reviewed"
	ReportDismissed ReportStatus = "dismissed"
)

// EventReport is a user-filed moderation flag against an event.
// A user may file at most one report per event.
type EventReport struct {
	ID             uuid.UUID    `json:"id"`
	EventID        uuid.UUID    `json:"event_id"`
	ReporterUserID uuid.UUID    `json:"reporter_user_id"`
	Reason         string       `json:"reason"`
	Status         ReportStatus `json:"status"`
	ReportedAt     time.Time    `json:"reported_at"`
}

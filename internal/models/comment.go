package models

import (
	"time"

	"github.com/google/uuid"
)

// EventComment is a user comment on an event page. Moderation is a soft
// delete: removed comments keep their row with is_deleted set and is_visible
// cleared, so the public listing only ever shows visible, non-deleted rows.
type EventComment struct {
	ID         uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"event_id"`
	UserID     uuid.UUID `json:"user_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	IsVisible  bool      `json:"is_visible"`
	IsDeleted  bool      `json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
}

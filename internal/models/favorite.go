package models

import (
	"time"

	"github.com/google/uuid"
)

// EventFavorite is a user bookmark on an event. Existence is the state;
// the (event, user) pair is the composite key.
type EventFavorite struct {
	EventID     uuid.UUID `json:"event_id"`
	UserID      uuid.UUID `json:"user_id"`
	FavoritedAt time.Time `json:"favorited_at"`
}

package favorites

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/greenvolunteer/backend/internal/models"
)

// ErrEventNotFound is returned when the target event does not exist.
var ErrEventNotFound = errors.New("event not found")

// Store abstracts favorite persistence.
type Store interface {
	// EventExists reports whether the event is visible to volunteers.
	EventExists(ctx context.Context, eventID uuid.UUID) (bool, error)
	// Remove deletes the favorite if present and reports whether it was.
	Remove(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	// Add inserts the favorite; adding an existing favorite is a no-op.
	Add(ctx context.Context, eventID, userID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.EventFavorite, error)
	Count(ctx context.Context, eventID uuid.UUID) (int, error)
}

// Service implements the favorite toggle. A toggle is its own inverse: two
// toggles by the same user always restore the original state.
type Service struct {
	store Store
}

// NewService creates a favorites service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Toggle flips the favorite state and returns true when the event is now
// favorited. Removal is attempted first so the concurrent worst case is an
// extra no-op insert, never a duplicate row.
func (s *Service) Toggle(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	exists, err := s.store.EventExists(ctx, eventID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ErrEventNotFound
	}
	removed, err := s.store.Remove(ctx, eventID, userID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}
	if err := s.store.Add(ctx, eventID, userID); err != nil {
		return false, err
	}
	return true, nil
}

// ListMine returns the caller's favorites.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]models.EventFavorite, error) {
	return s.store.ListByUser(ctx, userID)
}

// Count returns how many users favorited an event.
func (s *Service) Count(ctx context.Context, eventID uuid.UUID) (int, error) {
	return s.store.Count(ctx, eventID)
}

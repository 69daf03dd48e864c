package comments

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/greenvolunteer/backend/internal/models"
)

const maxContentLength = 1000

var (
	// ErrEventNotFound is returned when the target event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrCommentNotFound is returned when the comment does not exist or was
	// already removed.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrInvalidContent is returned when the comment body is empty or too long.
	ErrInvalidContent = errors.New("comment content required (max 1000 chars)")
	// ErrForbidden is returned when the actor may not moderate the comment.
	ErrForbidden = errors.New("not allowed to remove this comment")
)

// Store is the persistence surface the comment service needs. The production
// implementation is Repository; tests substitute an in-memory one.
type Store interface {
	EventExists(ctx context.Context, eventID uuid.UUID) (bool, error)
	EventOrganization(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error)
	Insert(ctx context.Context, c *models.EventComment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.EventComment, error)
	ListVisible(ctx context.Context, eventID uuid.UUID) ([]models.EventComment, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (bool, error)
}

// Actor identifies who is asking to moderate a comment. OrganizationID is
// uuid.Nil when the caller has no organization.
type Actor struct {
	UserID         uuid.UUID
	Role           models.Role
	OrganizationID uuid.UUID
}

// Service implements the comment workflow: post, list visible, soft-delete.
type Service struct {
	store Store
}

// NewService creates a comment service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Post records a comment on an existing event. Content is trimmed and capped
// at 1000 characters, counted in runes.
func (s *Service) Post(ctx context.Context, eventID, userID uuid.UUID, content string) (*models.EventComment, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > maxContentLength {
		return nil, ErrInvalidContent
	}
	exists, err := s.store.EventExists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrEventNotFound
	}
	c := &models.EventComment{
		EventID:   eventID,
		UserID:    userID,
		Content:   content,
		IsVisible: true,
	}
	if err := s.store.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListVisible returns the visible, non-deleted comments of an event, newest
// first.
func (s *Service) ListVisible(ctx context.Context, eventID uuid.UUID) ([]models.EventComment, error) {
	exists, err := s.store.EventExists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrEventNotFound
	}
	return s.store.ListVisible(ctx, eventID)
}

// Delete soft-deletes a comment. Allowed for admins, the comment author, and
// the organizer whose organization owns the event.
func (s *Service) Delete(ctx context.Context, commentID uuid.UUID, actor Actor) error {
	c, err := s.store.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c == nil || c.IsDeleted {
		return ErrCommentNotFound
	}
	if !s.mayModerate(ctx, c, actor) {
		return ErrForbidden
	}
	ok, err := s.store.SoftDelete(ctx, commentID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCommentNotFound
	}
	return nil
}

func (s *Service) mayModerate(ctx context.Context, c *models.EventComment, actor Actor) bool {
	if actor.Role == models.RoleAdmin || c.UserID == actor.UserID {
		return true
	}
	if actor.OrganizationID == uuid.Nil {
		return false
	}
	owner, err := s.store.EventOrganization(ctx, c.EventID)
	if err != nil {
		return false
	}
	return owner == actor.OrganizationID
}

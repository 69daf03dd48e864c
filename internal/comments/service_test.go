package comments

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenvolunteer/backend/internal/models"
)

type memStore struct {
	mu       sync.Mutex
	events   map[uuid.UUID]uuid.UUID
	comments map[uuid.UUID]*models.EventComment
}

func newMemStore() *memStore {
	return &memStore{
		events:   make(map[uuid.UUID]uuid.UUID),
		comments: make(map[uuid.UUID]*models.EventComment),
	}
}

func (m *memStore) addEvent(orgID uuid.UUID) uuid.UUID {
	id := uuid.New()
	m.events[id] = orgID
	return id
}

func (m *memStore) EventExists(_ context.Context, eventID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.events[eventID]
	return ok, nil
}

func (m *memStore) EventOrganization(_ context.Context, eventID uuid.UUID) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[eventID], nil
}

func (m *memStore) Insert(_ context.Context, c *models.EventComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	cp := *c
	m.comments[c.ID] = &cp
	return nil
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.EventComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) ListVisible(_ context.Context, eventID uuid.UUID) ([]models.EventComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.EventComment
	for _, c := range m.comments {
		if c.EventID == eventID && c.IsVisible && !c.IsDeleted {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) SoftDelete(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok || c.IsDeleted {
		return false, nil
	}
	c.IsDeleted = true
	c.IsVisible = false
	return true, nil
}

func TestPostTrimsAndValidatesContent(t *testing.T) {
	store := newMemStore()
	eventID := store.addEvent(uuid.New())
	svc := NewService(store)
	userID := uuid.New()

	c, err := svc.Post(context.Background(), eventID, userID, "  great initiative  ")
	require.NoError(t, err)
	assert.Equal(t, "great initiative", c.Content)
	assert.True(t, c.IsVisible)
	assert.NotEqual(t, uuid.Nil, c.ID)

	_, err = svc.Post(context.Background(), eventID, userID, "   ")
	assert.ErrorIs(t, err, ErrInvalidContent)

	_, err = svc.Post(context.Background(), eventID, userID, strings.Repeat("a", 1001))
	assert.ErrorIs(t, err, ErrInvalidContent)

	// The cap counts runes, not bytes.
	_, err = svc.Post(context.Background(), eventID, userID, strings.Repeat("ễ", 1000))
	assert.NoError(t, err)

	_, err = svc.Post(context.Background(), uuid.New(), userID, "hello")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeletedCommentsLeaveTheListing(t *testing.T) {
	store := newMemStore()
	eventID := store.addEvent(uuid.New())
	svc := NewService(store)
	author := uuid.New()

	c, err := svc.Post(context.Background(), eventID, author, "first")
	require.NoError(t, err)
	_, err = svc.Post(context.Background(), eventID, author, "second")
	require.NoError(t, err)

	list, err := svc.ListVisible(context.Background(), eventID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	err = svc.Delete(context.Background(), c.ID, Actor{UserID: author, Role: models.RoleVolunteer})
	require.NoError(t, err)

	list, err = svc.ListVisible(context.Background(), eventID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Content)

	// Soft delete: the row is retained with the flags flipped.
	stored, err := store.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.IsDeleted)
	assert.False(t, stored.IsVisible)

	// Deleting again reports not found.
	err = svc.Delete(context.Background(), c.ID, Actor{UserID: author, Role: models.RoleVolunteer})
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestDeletePermissions(t *testing.T) {
	store := newMemStore()
	orgID := uuid.New()
	eventID := store.addEvent(orgID)
	svc := NewService(store)
	author := uuid.New()

	post := func(t *testing.T) uuid.UUID {
		t.Helper()
		c, err := svc.Post(context.Background(), eventID, author, "hello")
		require.NoError(t, err)
		return c.ID
	}

	// A stranger may not moderate.
	id := post(t)
	err := svc.Delete(context.Background(), id, Actor{UserID: uuid.New(), Role: models.RoleVolunteer})
	assert.ErrorIs(t, err, ErrForbidden)

	// An organizer from another organization may not either.
	err = svc.Delete(context.Background(), id, Actor{
		UserID: uuid.New(), Role: models.RoleOrganizer, OrganizationID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrForbidden)

	// The author may.
	assert.NoError(t, svc.Delete(context.Background(), id,
		Actor{UserID: author, Role: models.RoleVolunteer}))

	// The owning organizer may.
	id = post(t)
	assert.NoError(t, svc.Delete(context.Background(), id, Actor{
		UserID: uuid.New(), Role: models.RoleOrganizer, OrganizationID: orgID,
	}))

	// An admin may.
	id = post(t)
	assert.NoError(t, svc.Delete(context.Background(), id,
		Actor{UserID: uuid.New(), Role: models.RoleAdmin}))

	err = svc.Delete(context.Background(), uuid.New(), Actor{UserID: author})
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

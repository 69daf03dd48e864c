package favorites

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenvolunteer/backend/internal/models"
)

type pair struct{ event, user uuid.UUID }

// memStore is an in-memory Store; Add on an existing favorite is a no-op like
// the SQL ON CONFLICT clause.
type memStore struct {
	mu     sync.Mutex
	events map[uuid.UUID]bool
	favs   map[pair]time.Time
}

func newMemStore() *memStore {
	return &memStore{events: make(map[uuid.UUID]bool), favs: make(map[pair]time.Time)}
}

func (m *memStore) addEvent() uuid.UUID {
	id := uuid.New()
	m.events[id] = true
	return id
}

func (m *memStore) EventExists(_ context.Context, eventID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[eventID], nil
}

func (m *memStore) Remove(_ context.Context, eventID, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := pair{eventID, userID}
	if _, ok := m.favs[k]; !ok {
		return false, nil
	}
	delete(m.favs, k)
	return true, nil
}

func (m *memStore) Add(_ context.Context, eventID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := pair{eventID, userID}
	if _, ok := m.favs[k]; !ok {
		m.favs[k] = time.Now()
	}
	return nil
}

func (m *memStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.EventFavorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.EventFavorite
	for k, at := range m.favs {
		if k.user == userID {
			out = append(out, models.EventFavorite{EventID: k.event, UserID: k.user, FavoritedAt: at})
		}
	}
	return out, nil
}

func (m *memStore) Count(_ context.Context, eventID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.favs {
		if k.event == eventID {
			n++
		}
	}
	return n, nil
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	store := newMemStore()
	eventID := store.addEvent()
	svc := NewService(store)
	userID := uuid.New()

	on, err := svc.Toggle(context.Background(), eventID, userID)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := svc.Toggle(context.Background(), eventID, userID)
	require.NoError(t, err)
	assert.False(t, off)

	n, err := svc.Count(context.Background(), eventID)
	require.NoError(t, err)
	assert.Zero(t, n, "two toggles restore the original state")

	// And an even number of further toggles keeps it that way.
	for i := 0; i < 4; i++ {
		_, err := svc.Toggle(context.Background(), eventID, userID)
		require.NoError(t, err)
	}
	n, err = svc.Count(context.Background(), eventID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestToggleUnknownEvent(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.Toggle(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestToggleIsPerUser(t *testing.T) {
	store := newMemStore()
	eventID := store.addEvent()
	svc := NewService(store)
	alice, bob := uuid.New(), uuid.New()

	_, err := svc.Toggle(context.Background(), eventID, alice)
	require.NoError(t, err)
	_, err = svc.Toggle(context.Background(), eventID, bob)
	require.NoError(t, err)

	n, err := svc.Count(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Alice unfavoriting does not touch Bob's favorite.
	off, err := svc.Toggle(context.Background(), eventID, alice)
	require.NoError(t, err)
	assert.False(t, off)

	mine, err := svc.ListMine(context.Background(), bob)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, eventID, mine[0].EventID)
}

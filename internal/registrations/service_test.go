package registrations

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenvolunteer/backend/internal/models"
)

// memStore is an in-memory Store whose InTx serializes on a mutex, matching
// the row-lock semantics of the SQL implementation.
type memStore struct {
	mu     sync.Mutex
	events map[uuid.UUID]*models.Event
	regs   map[uuid.UUID]*models.EventRegistration
	owners map[uuid.UUID]uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{
		events: make(map[uuid.UUID]*models.Event),
		regs:   make(map[uuid.UUID]*models.EventRegistration),
		owners: make(map[uuid.UUID]uuid.UUID),
	}
}

func (m *memStore) addEvent(status models.EventStatus, capacity int, orgID uuid.UUID) uuid.UUID {
	id := uuid.New()
	m.events[id] = &models.Event{ID: id, Status: status, MaxVolunteers: capacity}
	m.owners[id] = orgID
	return id
}

type memTx struct{ s *memStore }

func (t memTx) EventForUpdate(_ context.Context, eventID uuid.UUID) (*models.Event, error) {
	return t.s.events[eventID], nil
}

func (t memTx) HasRegistration(_ context.Context, eventID, volunteerID uuid.UUID) (bool, error) {
	for _, r := range t.s.regs {
		if r.EventID == eventID && r.VolunteerID == volunteerID {
			return true, nil
		}
	}
	return false, nil
}

func (t memTx) CountAdmitted(_ context.Context, eventID uuid.UUID) (int, error) {
	n := 0
	for _, r := range t.s.regs {
		if r.EventID == eventID && r.Status != models.RegistrationRejected {
			n++
		}
	}
	return n, nil
}

func (t memTx) Insert(_ context.Context, reg *models.EventRegistration) error {
	reg.ID = uuid.New()
	t.s.regs[reg.ID] = reg
	return nil
}

func (m *memStore) InTx(_ context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(memTx{s: m})
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.EventRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.regs[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) EventOwner(_ context.Context, eventID uuid.UUID) (*uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if owner, ok := m.owners[eventID]; ok {
		return &owner, nil
	}
	return nil, nil
}

func (m *memStore) SetStatusIfPending(_ context.Context, id uuid.UUID, status models.RegistrationStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.regs[id]
	if !ok || r.Status != models.RegistrationPending {
		return false, nil
	}
	r.Status = status
	return true, nil
}

func (m *memStore) ListByEvent(_ context.Context, eventID uuid.UUID) ([]models.EventRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.EventRegistration
	for _, r := range m.regs {
		if r.EventID == eventID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) ListByVolunteer(_ context.Context, volunteerID uuid.UUID) ([]models.EventRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.EventRegistration
	for _, r := range m.regs {
		if r.VolunteerID == volunteerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) ConfirmedCount(_ context.Context, eventID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.regs {
		if r.EventID == eventID && r.Status == models.RegistrationConfirmed {
			n++
		}
	}
	return n, nil
}

func (m *memStore) AdmittedCount(_ context.Context, eventID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.regs {
		if r.EventID == eventID && r.Status != models.RegistrationRejected {
			n++
		}
	}
	return n, nil
}

// memResolver hands out one volunteer ID per user ID.
type memResolver struct {
	mu   sync.Mutex
	byID map[uuid.UUID]uuid.UUID
}

func newMemResolver() *memResolver {
	return &memResolver{byID: make(map[uuid.UUID]uuid.UUID)}
}

func (m *memResolver) GetOrCreate(_ context.Context, userID uuid.UUID, fullName, _ string) (*models.Volunteer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byID[userID]
	if !ok {
		id = uuid.New()
		m.byID[userID] = id
	}
	return &models.Volunteer{ID: id, UserID: userID, FullName: fullName}, nil
}

func validContact() ContactInfo {
	return ContactInfo{FullName: "Alex Tran", Phone: "0900000000", Reason: "I want to help"}
}

func newTestService(store *memStore) *Service {
	return NewService(store, newMemResolver(), nil)
}

func TestRegisterSingleSlotRace(t *testing.T) {
	store := newMemStore()
	eventID := store.addEvent(models.EventApproved, 1, uuid.New())
	svc := newTestService(store)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), eventID, uuid.New(), validContact())
		}(i)
	}
	wg.Wait()

	succeeded, capacityHit := 0, 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrCapacityExceeded)
		capacityHit++
	}
	assert.Equal(t, 1, succeeded, "exactly one attempt should win the last slot")
	assert.Equal(t, attempts-1, capacityHit)

	_, admitted, err := svc.Counts(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, 1, admitted)
}

func TestRegisterDuplicateBlockedRegardlessOfStatus(t *testing.T) {
	store := newMemStore()
	orgID := uuid.New()
	eventID := store.addEvent(models.EventApproved, 10, orgID)
	svc := newTestService(store)
	userID := uuid.New()

	reg, err := svc.Register(context.Background(), eventID, userID, validContact())
	require.NoError(t, err)

	// A second attempt while pending is blocked.
	_, err = svc.Register(context.Background(), eventID, userID, validContact())
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	// Rejection does not reopen the door.
	require.NoError(t, svc.Reject(context.Background(), reg.ID, orgID))
	_, err = svc.Register(context.Background(), eventID, userID, validContact())
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegisterEventGate(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	_, err := svc.Register(context.Background(), uuid.New(), uuid.New(), validContact())
	assert.ErrorIs(t, err, ErrEventNotFound)

	pendingEvent := store.addEvent(models.EventPending, 10, uuid.New())
	_, err = svc.Register(context.Background(), pendingEvent, uuid.New(), validContact())
	assert.ErrorIs(t, err, ErrEventNotApproved)

	hiddenEvent := store.addEvent(models.EventHidden, 10, uuid.New())
	_, err = svc.Register(context.Background(), hiddenEvent, uuid.New(), validContact())
	assert.ErrorIs(t, err, ErrEventNotApproved)
}

func TestRejectedRegistrationFreesSlot(t *testing.T) {
	store := newMemStore()
	orgID := uuid.New()
	eventID := store.addEvent(models.EventApproved, 1, orgID)
	svc := newTestService(store)

	reg, err := svc.Register(context.Background(), eventID, uuid.New(), validContact())
	require.NoError(t, err)
	require.NoError(t, svc.Reject(context.Background(), reg.ID, orgID))

	// The slot opens up for a different volunteer.
	_, err = svc.Register(context.Background(), eventID, uuid.New(), validContact())
	assert.NoError(t, err)
}

func TestDecideRaceExactlyOneWins(t *testing.T) {
	store := newMemStore()
	orgID := uuid.New()
	eventID := store.addEvent(models.EventApproved, 5, orgID)
	svc := newTestService(store)

	reg, err := svc.Register(context.Background(), eventID, uuid.New(), validContact())
	require.NoError(t, err)

	var wg sync.WaitGroup
	var approveErr, rejectErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		approveErr = svc.Approve(context.Background(), reg.ID, orgID)
	}()
	go func() {
		defer wg.Done()
		rejectErr = svc.Reject(context.Background(), reg.ID, orgID)
	}()
	wg.Wait()

	if approveErr == nil {
		assert.ErrorIs(t, rejectErr, ErrNotPending)
	} else {
		assert.ErrorIs(t, approveErr, ErrNotPending)
		assert.NoError(t, rejectErr)
	}

	final, err := store.GetByID(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.NotEqual(t, models.RegistrationPending, final.Status)
}

func TestDecideOwnershipAndExistence(t *testing.T) {
	store := newMemStore()
	orgID := uuid.New()
	eventID := store.addEvent(models.EventApproved, 5, orgID)
	svc := newTestService(store)

	reg, err := svc.Register(context.Background(), eventID, uuid.New(), validContact())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Approve(context.Background(), uuid.New(), orgID), ErrRegistrationNotFound)
	assert.ErrorIs(t, svc.Approve(context.Background(), reg.ID, uuid.New()), ErrForbidden)

	// The failed attempts left the registration untouched.
	require.NoError(t, svc.Approve(context.Background(), reg.ID, orgID))
}

func TestCountsDistinguishConfirmedFromAdmitted(t *testing.T) {
	store := newMemStore()
	orgID := uuid.New()
	eventID := store.addEvent(models.EventApproved, 10, orgID)
	svc := newTestService(store)

	first, err := svc.Register(context.Background(), eventID, uuid.New(), validContact())
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), eventID, uuid.New(), validContact())
	require.NoError(t, err)

	require.NoError(t, svc.Approve(context.Background(), first.ID, orgID))

	confirmed, admitted, err := svc.Counts(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed, "only confirmed registrations count publicly")
	assert.Equal(t, 2, admitted, "pending registrations still hold capacity")
}

func TestDecisionNotifierInvoked(t *testing.T) {
	store := newMemStore()
	orgID := uuid.New()
	eventID := store.addEvent(models.EventApproved, 5, orgID)
	svc := newTestService(store)

	var notified []*models.EventRegistration
	svc.SetDecisionNotifier(func(reg *models.EventRegistration) {
		notified = append(notified, reg)
	})

	reg, err := svc.Register(context.Background(), eventID, uuid.New(), validContact())
	require.NoError(t, err)
	require.NoError(t, svc.Approve(context.Background(), reg.ID, orgID))

	require.Len(t, notified, 1)
	assert.Equal(t, models.RegistrationConfirmed, notified[0].Status)

	// A repeated decision does not notify again.
	assert.ErrorIs(t, svc.Approve(context.Background(), reg.ID, orgID), ErrNotPending)
	assert.Len(t, notified, 1)
}

func TestValidateContact(t *testing.T) {
	store := newMemStore()
	eventID := store.addEvent(models.EventApproved, 5, uuid.New())
	svc := newTestService(store)

	cases := []struct {
		name    string
		contact ContactInfo
	}{
		{"missing name", ContactInfo{Phone: "0900000000", Reason: "helping"}},
		{"missing phone", ContactInfo{FullName: "Alex", Reason: "helping"}},
		{"missing reason", ContactInfo{FullName: "Alex", Phone: "0900000000"}},
		{"blank reason", ContactInfo{FullName: "Alex", Phone: "0900000000", Reason: "   "}},
		{"name over 100 runes", ContactInfo{FullName: strings.Repeat("ễ", 101), Phone: "0900000000", Reason: "helping"}},
		{"reason over 500 runes", ContactInfo{FullName: "Alex", Phone: "0900000000", Reason: strings.Repeat("ậ", 501)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), eventID, uuid.New(), tc.contact)
			assert.ErrorIs(t, err, ErrInvalidContact)
		})
	}

	// Caps count runes, so multibyte names at the limit are accepted.
	_, err := svc.Register(context.Background(), eventID, uuid.New(), ContactInfo{
		FullName: strings.Repeat("ễ", 100), Phone: "0900000000", Reason: "helping",
	})
	assert.NoError(t, err)
}

package registrations

import (
	"context"

	"github.com/google/uuid"

	"github.com/greenvolunteer/backend/internal/models"
)

// ContactInfo is the contact data submitted with a registration.
type ContactInfo struct {
	FullName string
	Phone    string
	Reason   string
}

// Tx is the set of operations available inside an admission transaction.
// Implementations must hold a lock on the event row for the duration of the
// transaction so concurrent attempts against the same event serialize.
type Tx interface {
	// EventForUpdate returns the event with its row locked, or nil if missing.
	EventForUpdate(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
	// HasRegistration reports whether any registration exists for the pair,
	// regardless of status.
	HasRegistration(ctx context.Context, eventID, volunteerID uuid.UUID) (bool, error)
	// CountAdmitted returns the number of pending plus confirmed registrations.
	CountAdmitted(ctx context.Context, eventID uuid.UUID) (int, error)
	// Insert persists a new registration, filling ID and RegisteredAt.
	Insert(ctx context.Context, reg *models.EventRegistration) error
}

// Store is the persistence boundary for the registration workflow.
type Store interface {
	// InTx runs fn inside a single transaction.
	InTx(ctx context.Context, fn func(tx Tx) error) error
	// GetByID returns a registration, or nil if missing.
	GetByID(ctx context.Context, id uuid.UUID) (*models.EventRegistration, error)
	// EventOwner returns the owning organization of an event, nil when the
	// event has no organization or does not exist.
	EventOwner(ctx context.Context, eventID uuid.UUID) (*uuid.UUID, error)
	// SetStatusIfPending atomically moves a registration out of pending.
	// Returns false when the registration was already decided.
	SetStatusIfPending(ctx context.Context, id uuid.UUID, status models.RegistrationStatus) (bool, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventRegistration, error)
	ListByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]models.EventRegistration, error)
	// ConfirmedCount is the public "registered" metric: confirmed only.
	ConfirmedCount(ctx context.Context, eventID uuid.UUID) (int, error)
	// AdmittedCount is the capacity metric: pending plus confirmed.
	AdmittedCount(ctx context.Context, eventID uuid.UUID) (int, error)
}

// VolunteerResolver resolves the volunteer profile for a user, creating it
// lazily on first interaction.
type VolunteerResolver interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID, fullName, email string) (*models.Volunteer, error)
}

package registrations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenvolunteer/backend/internal/models"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventNotApproved     = errors.New("event is not open for registration")
	ErrAlreadyRegistered    = errors.New("volunteer already registered for this event")
	ErrCapacityExceeded     = errors.New("event has no remaining volunteer slots")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrForbidden            = errors.New("registration does not belong to this organization")
	ErrNotPending           = errors.New("registration already decided")
	ErrInvalidContact       = errors.New("invalid contact info")
)

// DecisionNotifier is invoked after a registration is confirmed or rejected.
// Failures are the notifier's problem; the transition has already happened.
type DecisionNotifier func(reg *models.EventRegistration)

// Service implements registration admission control and the
// pending -> confirmed/rejected workflow.
type Service struct {
	store      Store
	volunteers VolunteerResolver
	notify     DecisionNotifier
	logger     *zap.Logger
}

// NewService creates a registration service.
func NewService(store Store, volunteers VolunteerResolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, volunteers: volunteers, logger: logger}
}

// SetDecisionNotifier installs the post-decision side effect (email enqueue).
func (s *Service) SetDecisionNotifier(fn DecisionNotifier) {
	s.notify = fn
}

// Register admits a volunteer to an event. The capacity check and the insert
// run in one transaction with the event row locked, so two attempts racing
// for the last slot cannot both land.
func (s *Service) Register(ctx context.Context, eventID, userID uuid.UUID, contact ContactInfo) (*models.EventRegistration, error) {
	if err := validateContact(contact); err != nil {
		return nil, err
	}

	vol, err := s.volunteers.GetOrCreate(ctx, userID, contact.FullName, "")
	if err != nil {
		return nil, fmt.Errorf("resolve volunteer: %w", err)
	}

	reg := &models.EventRegistration{
		EventID:      eventID,
		VolunteerID:  vol.ID,
		FullName:     contact.FullName,
		Phone:        contact.Phone,
		Reason:       contact.Reason,
		Status:       models.RegistrationPending,
		RegisteredAt: time.Now().UTC(),
	}

	err = s.store.InTx(ctx, func(tx Tx) error {
		evt, err := tx.EventForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if evt == nil {
			return ErrEventNotFound
		}
		if evt.Status != models.EventApproved {
			return ErrEventNotApproved
		}
		exists, err := tx.HasRegistration(ctx, eventID, vol.ID)
		if err != nil {
			return err
		}
		if exists {
			// Any prior registration blocks, rejected ones included.
			return ErrAlreadyRegistered
		}
		admitted, err := tx.CountAdmitted(ctx, eventID)
		if err != nil {
			return err
		}
		if admitted >= evt.MaxVolunteers {
			return ErrCapacityExceeded
		}
		return tx.Insert(ctx, reg)
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Approve moves a pending registration to confirmed. Only the organization
// owning the registration's event may decide it.
func (s *Service) Approve(ctx context.Context, registrationID, actingOrgID uuid.UUID) error {
	return s.decide(ctx, registrationID, actingOrgID, models.RegistrationConfirmed)
}

// Reject moves a pending registration to rejected.
func (s *Service) Reject(ctx context.Context, registrationID, actingOrgID uuid.UUID) error {
	return s.decide(ctx, registrationID, actingOrgID, models.RegistrationRejected)
}

func (s *Service) decide(ctx context.Context, registrationID, actingOrgID uuid.UUID, status models.RegistrationStatus) error {
	reg, err := s.store.GetByID(ctx, registrationID)
	if err != nil {
		return err
	}
	if reg == nil {
		return ErrRegistrationNotFound
	}
	owner, err := s.store.EventOwner(ctx, reg.EventID)
	if err != nil {
		return err
	}
	if owner == nil || *owner != actingOrgID {
		return ErrForbidden
	}
	ok, err := s.store.SetStatusIfPending(ctx, registrationID, status)
	if err != nil {
		return err
	}
	if !ok {
		// Lost the race or already decided; either way the state is terminal.
		return ErrNotPending
	}
	reg.Status = status
	if s.notify != nil {
		s.notify(reg)
	}
	return nil
}

// ListByEvent returns registrations for an event owned by actingOrgID.
func (s *Service) ListByEvent(ctx context.Context, eventID, actingOrgID uuid.UUID) ([]models.EventRegistration, error) {
	owner, err := s.store.EventOwner(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if owner == nil || *owner != actingOrgID {
		return nil, ErrForbidden
	}
	return s.store.ListByEvent(ctx, eventID)
}

// ListByVolunteer returns a volunteer's own registrations, newest first.
func (s *Service) ListByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]models.EventRegistration, error) {
	return s.store.ListByVolunteer(ctx, volunteerID)
}

// Counts returns both registration metrics for an event: confirmed (public
// details page) and admitted (pending+confirmed, the capacity metric).
func (s *Service) Counts(ctx context.Context, eventID uuid.UUID) (confirmed, admitted int, err error) {
	confirmed, err = s.store.ConfirmedCount(ctx, eventID)
	if err != nil {
		return 0, 0, err
	}
	admitted, err = s.store.AdmittedCount(ctx, eventID)
	if err != nil {
		return 0, 0, err
	}
	return confirmed, admitted, nil
}

func validateContact(c ContactInfo) error {
	name := strings.TrimSpace(c.FullName)
	if name == "" || utf8.RuneCountInString(name) > 100 {
		return fmt.Errorf("%w: full name required (max 100 chars)", ErrInvalidContact)
	}
	if strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("%w: phone required", ErrInvalidContact)
	}
	reason := strings.TrimSpace(c.Reason)
	if reason == "" || utf8.RuneCountInString(reason) > 500 {
		return fmt.Errorf("%w: reason required (max 500 chars)", ErrInvalidContact)
	}
	return nil
}

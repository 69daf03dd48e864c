package notifications

import (
	"context"
	"fmt"
	"html"
	"time"

	"go.uber.org/zap"

	"github.com/greenvolunteer/backend/internal/events"
	"github.com/greenvolunteer/backend/internal/models"
	"github.com/greenvolunteer/backend/internal/registrations"
	"github.com/greenvolunteer/backend/pkg/queue"
)

const enqueueTimeout = 5 * time.Second

// NewDecisionNotifier builds the side effect run after a registration is
// confirmed or rejected: look up the volunteer and event, compose the email,
// enqueue it. Failures are logged, never propagated; the decision stands.
func NewDecisionNotifier(regs *registrations.Repository, evts *events.Repository, q *queue.Queue, logger *zap.Logger) registrations.DecisionNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(reg *models.EventRegistration) {
		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		defer cancel()

		email, name, err := regs.VolunteerContact(ctx, reg.VolunteerID)
		if err != nil || email == "" {
			logger.Warn("decision email skipped, no volunteer contact",
				zap.String("registration_id", reg.ID.String()), zap.Error(err))
			return
		}
		event, err := evts.GetByID(ctx, reg.EventID)
		if err != nil || event == nil {
			logger.Warn("decision email skipped, event missing",
				zap.String("event_id", reg.EventID.String()), zap.Error(err))
			return
		}

		payload := decisionEmail(reg, event, email, name)
		if err := q.EnqueueEmail(ctx, payload); err != nil {
			logger.Error("enqueue decision email failed",
				zap.String("registration_id", reg.ID.String()), zap.Error(err))
		}
	}
}

func decisionEmail(reg *models.EventRegistration, event *models.Event, email, name string) queue.EmailPayload {
	safeName := html.EscapeString(name)
	safeTitle := html.EscapeString(event.Title)
	start := event.StartTime.Format("Mon, 02 Jan 2006 15:04 MST")

	p := queue.EmailPayload{
		EventID:        &reg.EventID,
		RegistrationID: &reg.ID,
		Recipient:      email,
	}
	if reg.Status == models.RegistrationConfirmed {
		p.EmailType = queue.EmailTypeRegistrationConfirmed
		p.Subject = fmt.Sprintf("You're confirmed for %s", event.Title)
		p.BodyHTML = fmt.Sprintf(
			"<p>Hi %s,</p><p>Your registration for <strong>%s</strong> has been confirmed.</p><p>The event starts %s at %s. See you there!</p>",
			safeName, safeTitle, start, html.EscapeString(event.Location))
	} else {
		p.EmailType = queue.EmailTypeRegistrationRejected
		p.Subject = fmt.Sprintf("Update on your registration for %s", event.Title)
		p.BodyHTML = fmt.Sprintf(
			"<p>Hi %s,</p><p>Unfortunately your registration for <strong>%s</strong> was not accepted this time.</p><p>We hope to see you at another event soon.</p>",
			safeName, safeTitle)
	}
	return p
}

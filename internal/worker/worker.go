package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenvolunteer/backend/internal/emaillogs"
	"github.com/greenvolunteer/backend/internal/mailer"
	"github.com/greenvolunteer/backend/internal/models"
	"github.com/greenvolunteer/backend/pkg/queue"
)

// EmailProcessor drains the email queue: record the attempt, deliver over
// SMTP, mark the outcome.
type EmailProcessor struct {
	logs   *emaillogs.Repository
	mailer *mailer.Mailer
	queue  *queue.Queue
	logger *zap.Logger
}

// NewEmailProcessor creates an email delivery processor.
func NewEmailProcessor(logs *emaillogs.Repository, m *mailer.Mailer, q *queue.Queue, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{logs: logs, mailer: m, queue: q, logger: logger}
}

// Process executes one email job.
func (p *EmailProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeEmail {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	// One log row per delivery attempt chain: first attempt creates it,
	// retries reuse it via the job ID embedded at enqueue time.
	logID, err := p.ensureLog(ctx, job, payload)
	if err != nil {
		return fmt.Errorf("email log: %w", err)
	}

	if err := p.mailer.Send(mailer.Message{
		To:           payload.Recipient,
		Subject:      payload.Subject,
		BodyHTML:     payload.BodyHTML,
		ReplyToEmail: payload.ReplyToEmail,
		ReplyToName:  payload.ReplyToName,
	}); err != nil {
		if logErr := p.logs.MarkFailed(ctx, logID, err.Error()); logErr != nil {
			p.logger.Error("mark email failed errored", zap.Error(logErr))
		}
		return fmt.Errorf("send email: %w", err)
	}

	if err := p.logs.MarkSent(ctx, logID); err != nil {
		p.logger.Error("mark email sent errored", zap.Error(err))
	}
	p.logger.Info("email delivered",
		zap.String("type", payload.EmailType), zap.String("recipient", payload.Recipient))
	return nil
}

// ensureLog finds the log row for a retried job or creates one on the first
// attempt. The job ID doubles as the log ID so retries do not duplicate rows.
func (p *EmailProcessor) ensureLog(ctx context.Context, job *queue.Job, payload queue.EmailPayload) (uuid.UUID, error) {
	jobID, parseErr := uuid.Parse(job.ID)
	if parseErr == nil {
		if existing, err := p.logs.GetByID(ctx, jobID); err == nil && existing != nil {
			return existing.ID, nil
		}
	}
	log := &models.EmailLog{
		EventID:        payload.EventID,
		RegistrationID: payload.RegistrationID,
		EmailType:      payload.EmailType,
		Recipient:      payload.Recipient,
		Subject:        payload.Subject,
		Status:         models.EmailQueued,
	}
	if parseErr == nil {
		log.ID = jobID
	}
	if err := p.logs.Insert(ctx, log); err != nil {
		return uuid.Nil, err
	}
	return log.ID, nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *EmailProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}

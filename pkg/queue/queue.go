package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// QueueEmails is the Redis list key for email jobs.
	QueueEmails = "worker:emails"
	// QueueDLQ is the dead-letter queue for failed jobs after retries.
	QueueDLQ = "worker:dlq"
	// MaxRetries is the number of times to retry a job before moving to DLQ.
	MaxRetries = 3
	// RetryBackoff is the delay between retries.
	RetryBackoff = 10 * time.Second
)

// JobType identifies the job kind.
type JobType string

const (
	JobTypeEmail JobType = "email"
)

// Email types carried in EmailPayload.
const (
	EmailTypeRegistrationConfirmed = "registration_confirmed"
	EmailTypeRegistrationRejected  = "registration_rejected"
	EmailTypeContactForm           = "contact_form"
)

// EmailPayload is the payload for email jobs.
type EmailPayload struct {
	EmailType      string     `json:"email_type"`
	EventID        *uuid.UUID `json:"event_id,omitempty"`
	RegistrationID *uuid.UUID `json:"registration_id,omitempty"`
	Recipient      string     `json:"recipient"`
	Subject        string     `json:"subject"`
	BodyHTML       string     `json:"body_html"`
	ReplyToEmail   string     `json:"reply_to_email,omitempty"`
	ReplyToName    string     `json:"reply_to_name,omitempty"`
}

// Job is a generic job envelope.
type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Attempt   int             `json:"attempt"`
	CreatedAt time.Time       `json:"created_at"`
}

// Queue enqueues and dequeues jobs via Redis.
type Queue struct {
	client *redis.Client
	logger *zap.Logger
}

// NewQueue creates a new Redis-backed job queue.
func NewQueue(client *redis.Client, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{client: client, logger: logger}
}

// EnqueueEmail enqueues an email job.
func (q *Queue) EnqueueEmail(ctx context.Context, payload EmailPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	job := Job{
		ID:        uuid.New().String(),
		Type:      JobTypeEmail,
		Payload:   body,
		Attempt:   0,
		CreatedAt: time.Now().UTC(),
	}
	return q.push(ctx, QueueEmails, &job)
}

// Dequeue blocks up to five seconds waiting for the next email job.
// Returns nil job on timeout.
func (q *Queue) Dequeue(ctx context.Context) (*Job, error) {
	res, err := q.client.BRPop(ctx, 5*time.Second, QueueEmails).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("brpop: %w", err)
	}
	if len(res) != 2 {
		return nil, nil
	}
	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		q.logger.Error("malformed job discarded", zap.Error(err))
		return nil, nil
	}
	return &job, nil
}

// Retry re-enqueues a failed job, or moves it to the DLQ after MaxRetries.
func (q *Queue) Retry(ctx context.Context, job *Job) error {
	job.Attempt++
	if job.Attempt >= MaxRetries {
		q.logger.Warn("job moved to DLQ", zap.String("job_id", job.ID), zap.Int("attempts", job.Attempt))
		return q.push(ctx, QueueDLQ, job)
	}
	return q.push(ctx, QueueEmails, job)
}

func (q *Queue) push(ctx context.Context, key string, job *Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, key, body).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", key, err)
	}
	return nil
}

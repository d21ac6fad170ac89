package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aeroclub/backend/internal/mailer"
	"github.com/aeroclub/backend/pkg/queue"
)

// EmailProcessor delivers queued emails via SMTP and records each attempt in
// the email log.
type EmailProcessor struct {
	sender *mailer.Sender
	logs   *mailer.Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewEmailProcessor creates an email job processor.
func NewEmailProcessor(sender *mailer.Sender, logs *mailer.Repository, q *queue.Queue, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{sender: sender, logs: logs, queue: q, logger: logger}
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

	logID, err := p.logs.CreatePending(ctx, payload.ClubID, payload.InvitationID,
		payload.EmailType, payload.RecipientEmail, payload.Subject)
	if err != nil {
		// The log row is audit, not correctness; still try to deliver.
		p.logger.Warn("create email log failed", zap.Error(err))
		logID = uuid.Nil
	}

	if err := p.sender.Send(ctx, payload.RecipientEmail, payload.Subject, payload.BodyHTML); err != nil {
		if logID != uuid.Nil {
			if lerr := p.logs.MarkFailed(ctx, logID, err.Error()); lerr != nil {
				p.logger.Warn("mark email failed errored", zap.Error(lerr))
			}
		}
		return fmt.Errorf("send email: %w", err)
	}

	if logID != uuid.Nil {
		if err := p.logs.MarkSent(ctx, logID); err != nil {
			p.logger.Warn("mark email sent errored", zap.Error(err))
		}
	}
	p.logger.Info("email delivered",
		zap.String("email_type", payload.EmailType),
		zap.String("recipient", payload.RecipientEmail))
	return nil
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
			if ctx.Err() != nil {
				p.logger.Info("email worker stopping")
				return
			}
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

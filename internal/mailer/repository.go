package mailer

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeroclub/backend/internal/models"
)

// Repository handles email log persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an email log repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreatePending inserts a pending email log row and returns its id.
func (r *Repository) CreatePending(ctx context.Context, clubID, invitationID *uuid.UUID, emailType, recipient, subject string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `INSERT INTO email_logs (club_id, invitacion_id, email_type, recipient_email, subject, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		clubID, invitationID, emailType, recipient, subject, models.EmailLogStatusPending).Scan(&id)
	return id, err
}

// MarkSent records successful delivery.
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE email_logs SET status = $2, sent_at = NOW() WHERE id = $1`,
		id, models.EmailLogStatusSent)
	return err
}

// MarkFailed records a delivery failure with the error message.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := r.pool.Exec(ctx, `UPDATE email_logs SET status = $2, error_message = $3 WHERE id = $1`,
		id, models.EmailLogStatusFailed, errMsg)
	return err
}

// ListForClub returns a club's email log rows, newest first.
func (r *Repository) ListForClub(ctx context.Context, clubID uuid.UUID, limit int) ([]models.EmailLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `SELECT id, club_id, invitacion_id, email_type, recipient_email,
		COALESCE(subject,''), status, sent_at, COALESCE(error_message,''), created_at
		FROM email_logs WHERE club_id = $1 ORDER BY created_at DESC LIMIT $2`, clubID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.EmailLog
	for rows.Next() {
		var l models.EmailLog
		if err := rows.Scan(&l.ID, &l.ClubID, &l.InvitationID, &l.EmailType, &l.RecipientEmail,
			&l.Subject, &l.Status, &l.SentAt, &l.ErrorMessage, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

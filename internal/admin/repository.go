package admin

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeroclub/backend/internal/models"
)

// Repository handles the runtime system configuration record.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an admin repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const configColumns = `id, smtp_server, smtp_port, smtp_username, smtp_password,
	smtp_from_email, smtp_use_tls, smtp_use_ssl, frontend_url`

// GetSystemConfig returns the stored configuration record, or nil when none
// exists. Implements mailer.ConfigProvider.
func (r *Repository) GetSystemConfig(ctx context.Context) (*models.SystemConfig, error) {
	var cfg models.SystemConfig
	err := r.pool.QueryRow(ctx, `SELECT `+configColumns+` FROM system_config LIMIT 1`).
		Scan(&cfg.ID, &cfg.SMTPServer, &cfg.SMTPPort, &cfg.SMTPUser, &cfg.SMTPPass,
			&cfg.SMTPFrom, &cfg.SMTPUseTLS, &cfg.SMTPUseSSL, &cfg.FrontendURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// UpdateParams holds the editable configuration fields. Nil leaves a field
// untouched; an empty SMTPPass keeps the stored password.
type UpdateParams struct {
	SMTPServer  *string
	SMTPPort    *int
	SMTPUser    *string
	SMTPPass    *string
	SMTPFrom    *string
	SMTPUseTLS  *bool
	SMTPUseSSL  *bool
	FrontendURL *string
}

// UpsertSystemConfig creates or updates the single configuration record.
func (r *Repository) UpsertSystemConfig(ctx context.Context, p UpdateParams) (*models.SystemConfig, error) {
	existing, err := r.GetSystemConfig(ctx)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		port := 587
		if p.SMTPPort != nil {
			port = *p.SMTPPort
		}
		useTLS, useSSL := true, false
		if p.SMTPUseTLS != nil {
			useTLS = *p.SMTPUseTLS
		}
		if p.SMTPUseSSL != nil {
			useSSL = *p.SMTPUseSSL
		}
		var cfg models.SystemConfig
		err := r.pool.QueryRow(ctx, `INSERT INTO system_config
			(smtp_server, smtp_port, smtp_username, smtp_password, smtp_from_email, smtp_use_tls, smtp_use_ssl, frontend_url)
			VALUES ($1, $2, $3, NULLIF($4,''), $5, $6, $7, $8)
			RETURNING `+configColumns,
			p.SMTPServer, port, p.SMTPUser, deref(p.SMTPPass), p.SMTPFrom, useTLS, useSSL, p.FrontendURL).
			Scan(&cfg.ID, &cfg.SMTPServer, &cfg.SMTPPort, &cfg.SMTPUser, &cfg.SMTPPass,
				&cfg.SMTPFrom, &cfg.SMTPUseTLS, &cfg.SMTPUseSSL, &cfg.FrontendURL)
		if err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	var cfg models.SystemConfig
	err = r.pool.QueryRow(ctx, `UPDATE system_config SET
		smtp_server = COALESCE($2, smtp_server),
		smtp_port = COALESCE($3, smtp_port),
		smtp_username = COALESCE($4, smtp_username),
		smtp_password = COALESCE(NULLIF($5,''), smtp_password),
		smtp_from_email = COALESCE($6, smtp_from_email),
		smtp_use_tls = COALESCE($7, smtp_use_tls),
		smtp_use_ssl = COALESCE($8, smtp_use_ssl),
		frontend_url = COALESCE($9, frontend_url)
		WHERE id = $1
		RETURNING `+configColumns,
		existing.ID, p.SMTPServer, p.SMTPPort, p.SMTPUser, deref(p.SMTPPass),
		p.SMTPFrom, p.SMTPUseTLS, p.SMTPUseSSL, p.FrontendURL).
		Scan(&cfg.ID, &cfg.SMTPServer, &cfg.SMTPPort, &cfg.SMTPUser, &cfg.SMTPPass,
			&cfg.SMTPFrom, &cfg.SMTPUseTLS, &cfg.SMTPUseSSL, &cfg.FrontendURL)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

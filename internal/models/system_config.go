package models

import "github.com/google/uuid"

// SystemConfig is the admin-editable runtime SMTP configuration. When a row
// exists it overrides the environment SMTP settings at send time.
type SystemConfig struct {
	ID          uuid.UUID `json:"id"`
	SMTPServer  *string   `json:"smtp_server,omitempty"`
	SMTPPort    int       `json:"smtp_port"`
	SMTPUser    *string   `json:"smtp_username,omitempty"`
	SMTPPass    *string   `json:"smtp_password,omitempty"`
	SMTPFrom    *string   `json:"smtp_from_email,omitempty"`
	SMTPUseTLS  bool      `json:"smtp_use_tls"`
	SMTPUseSSL  bool      `json:"smtp_use_ssl"`
	FrontendURL *string   `json:"frontend_url,omitempty"`
}

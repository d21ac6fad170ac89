package mailer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/aeroclub/backend/config"
	"github.com/aeroclub/backend/internal/models"
)

// sendTimeout bounds one SMTP conversation.
const sendTimeout = 10 * time.Second

// ConfigProvider returns the runtime SMTP configuration record, or nil when
// none is stored. A stored record overrides the environment settings.
type ConfigProvider interface {
	GetSystemConfig(ctx context.Context) (*models.SystemConfig, error)
}

// Sender delivers emails over SMTP.
type Sender struct {
	env      config.EmailConfig
	provider ConfigProvider
	logger   *zap.Logger
}

// NewSender creates an SMTP sender. provider may be nil; then only the
// environment settings apply.
func NewSender(env config.EmailConfig, provider ConfigProvider, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{env: env, provider: provider, logger: logger}
}

type smtpSettings struct {
	host string
	port int
	user string
	pass string
	from string
	ssl  bool
}

func (s *Sender) resolve(ctx context.Context) smtpSettings {
	set := smtpSettings{
		host: s.env.SMTPHost,
		port: s.env.SMTPPort,
		user: s.env.SMTPUser,
		pass: s.env.SMTPPass,
		from: s.env.FromEmail,
	}
	if s.provider == nil {
		return set
	}
	cfg, err := s.provider.GetSystemConfig(ctx)
	if err != nil || cfg == nil {
		return set
	}
	if cfg.SMTPServer != nil && *cfg.SMTPServer != "" {
		set.host = *cfg.SMTPServer
	}
	if cfg.SMTPPort > 0 {
		set.port = cfg.SMTPPort
	}
	if cfg.SMTPUser != nil && *cfg.SMTPUser != "" {
		set.user = *cfg.SMTPUser
	}
	if cfg.SMTPPass != nil && *cfg.SMTPPass != "" {
		set.pass = *cfg.SMTPPass
	}
	if cfg.SMTPFrom != nil && *cfg.SMTPFrom != "" {
		set.from = *cfg.SMTPFrom
	}
	set.ssl = cfg.SMTPUseSSL
	return set
}

// Send delivers one HTML email. The SMTP conversation is bounded; a hung
// server fails the send rather than the caller's goroutine forever.
func (s *Sender) Send(ctx context.Context, to, subject, htmlBody string) error {
	set := s.resolve(ctx)
	if set.host == "" {
		return fmt.Errorf("smtp not configured")
	}

	m := gomail.NewMessage()
	from := set.from
	if from == "" {
		from = set.user
	}
	if s.env.FromName != "" {
		m.SetHeader("From", m.FormatAddress(from, s.env.FromName))
	} else {
		m.SetHeader("From", from)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(set.host, set.port, set.user, set.pass)
	d.SSL = set.ssl

	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-time.After(sendTimeout):
		return fmt.Errorf("smtp send: timeout after %s", sendTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

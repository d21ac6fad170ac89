package admin

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aeroclub/backend/internal/mailer"
	"github.com/aeroclub/backend/pkg/response"
)

// UpdateConfigRequest is the body for PUT /admin/configuracion.
type UpdateConfigRequest struct {
	SMTPServer  *string `json:"smtp_server"`
	SMTPPort    *int    `json:"smtp_port"`
	SMTPUser    *string `json:"smtp_username"`
	SMTPPass    *string `json:"smtp_password"`
	SMTPFrom    *string `json:"smtp_from_email"`
	SMTPUseTLS  *bool   `json:"smtp_use_tls"`
	SMTPUseSSL  *bool   `json:"smtp_use_ssl"`
	FrontendURL *string `json:"frontend_url"`
}

// TestEmailRequest is the body for POST /admin/configuracion/probar-email.
type TestEmailRequest struct {
	Recipient string `json:"destinatario" binding:"required,email"`
}

const passwordMask = "********"

// Handler handles superadmin configuration endpoints. All routes are
// superadmin-gated in the router.
type Handler struct {
	repo   *Repository
	sender *mailer.Sender
	logger *zap.Logger
}

// NewHandler creates an admin handler.
func NewHandler(repo *Repository, sender *mailer.Sender, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, sender: sender, logger: logger}
}

// GetConfig handles GET /admin/configuracion. The SMTP password is masked;
// it can be set but never read back.
func (h *Handler) GetConfig(c *gin.Context) {
	cfg, err := h.repo.GetSystemConfig(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to read configuration")
		return
	}
	if cfg == nil {
		response.OK(c, gin.H{})
		return
	}
	if cfg.SMTPPass != nil && *cfg.SMTPPass != "" {
		masked := passwordMask
		cfg.SMTPPass = &masked
	}
	response.OK(c, cfg)
}

// UpdateConfig handles PUT /admin/configuracion.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	// A masked password echoed back by the frontend means "unchanged".
	if req.SMTPPass != nil && *req.SMTPPass == passwordMask {
		req.SMTPPass = nil
	}
	cfg, err := h.repo.UpsertSystemConfig(c.Request.Context(), UpdateParams{
		SMTPServer:  req.SMTPServer,
		SMTPPort:    req.SMTPPort,
		SMTPUser:    req.SMTPUser,
		SMTPPass:    req.SMTPPass,
		SMTPFrom:    req.SMTPFrom,
		SMTPUseTLS:  req.SMTPUseTLS,
		SMTPUseSSL:  req.SMTPUseSSL,
		FrontendURL: req.FrontendURL,
	})
	if err != nil {
		h.logger.Error("update system config failed", zap.Error(err))
		response.Internal(c, "failed to update configuration")
		return
	}
	if cfg.SMTPPass != nil && *cfg.SMTPPass != "" {
		masked := passwordMask
		cfg.SMTPPass = &masked
	}
	response.OK(c, cfg)
}

// TestEmail handles POST /admin/configuracion/probar-email: sends a test
// message synchronously so the admin sees the SMTP error, if any.
func (h *Handler) TestEmail(c *gin.Context) {
	var req TestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.sender.Send(c.Request.Context(), req.Recipient, mailer.TestSubject, mailer.TestBody()); err != nil {
		h.logger.Warn("test email failed", zap.Error(err))
		response.BadRequest(c, "test email failed: "+err.Error())
		return
	}
	response.OK(c, gin.H{"message": "test email sent"})
}

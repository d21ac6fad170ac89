package mailer

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aeroclub/backend/internal/clubs"
	"github.com/aeroclub/backend/pkg/response"
)

// Handler exposes the email delivery audit log.
type Handler struct {
	repo     *Repository
	clubRepo *clubs.Repository
	logger   *zap.Logger
}

// NewHandler creates an email log handler.
func NewHandler(repo *Repository, clubRepo *clubs.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, clubRepo: clubRepo, logger: logger}
}

// ListForClub handles GET /clubes/:club_id/emails?limit= (club admin):
// delivery outcomes for the club's invitation emails, newest first.
func (h *Handler) ListForClub(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("club_id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	userID := c.MustGet("user_id").(uuid.UUID)
	isAdmin, err := h.clubRepo.IsAdmin(c.Request.Context(), clubID, userID)
	if err != nil {
		response.Internal(c, "authorization check failed")
		return
	}
	if !isAdmin {
		response.Forbidden(c, "club admin required")
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	list, err := h.repo.ListForClub(c.Request.Context(), clubID, limit)
	if err != nil {
		response.Internal(c, "failed to list email logs")
		return
	}
	response.OK(c, list)
}

package facilities

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aeroclub/backend/internal/clubs"
	"github.com/aeroclub/backend/pkg/response"
)

// SetRequest is the body for POST /clubes/:club_id/instalacion/password.
type SetRequest struct {
	Code        string `json:"codigo" binding:"required"`
	Description string `json:"descripcion"`
}

// Handler handles facility access code endpoints.
type Handler struct {
	repo     *Repository
	clubRepo *clubs.Repository
	logger   *zap.Logger
}

// NewHandler creates a facilities handler.
func NewHandler(repo *Repository, clubRepo *clubs.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, clubRepo: clubRepo, logger: logger}
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("user_id").(uuid.UUID)
}

func clubIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("club_id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// Current handles GET /clubes/:club_id/instalacion/password (active member).
func (h *Handler) Current(c *gin.Context) {
	clubID, ok := clubIDParam(c)
	if !ok {
		return
	}
	isActive, err := h.clubRepo.IsActiveMember(c.Request.Context(), clubID, currentUserID(c))
	if err != nil {
		response.Internal(c, "membership check failed")
		return
	}
	if !isActive {
		response.Forbidden(c, "active membership required")
		return
	}
	code, err := h.repo.Current(c.Request.Context(), clubID)
	if err != nil {
		if errors.Is(err, ErrNoCode) {
			response.NotFound(c, "no facility code set")
			return
		}
		response.Internal(c, "failed to read facility code")
		return
	}
	response.OK(c, code)
}

// Set handles POST /clubes/:club_id/instalacion/password (club admin). The
// previous code is deactivated, not deleted.
func (h *Handler) Set(c *gin.Context) {
	clubID, ok := clubIDParam(c)
	if !ok {
		return
	}
	isAdmin, err := h.clubRepo.IsAdmin(c.Request.Context(), clubID, currentUserID(c))
	if err != nil {
		response.Internal(c, "authorization check failed")
		return
	}
	if !isAdmin {
		response.Forbidden(c, "club admin required")
		return
	}
	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	code, err := h.repo.Set(c.Request.Context(), clubID, currentUserID(c), req.Code, req.Description)
	if err != nil {
		h.logger.Error("set facility code failed", zap.Error(err))
		response.Internal(c, "failed to set facility code")
		return
	}
	response.Created(c, code)
}

// History handles GET /clubes/:club_id/instalacion/password/historial (club
// admin).
func (h *Handler) History(c *gin.Context) {
	clubID, ok := clubIDParam(c)
	if !ok {
		return
	}
	isAdmin, err := h.clubRepo.IsAdmin(c.Request.Context(), clubID, currentUserID(c))
	if err != nil {
		response.Internal(c, "authorization check failed")
		return
	}
	if !isAdmin {
		response.Forbidden(c, "club admin required")
		return
	}
	history, err := h.repo.History(c.Request.Context(), clubID)
	if err != nil {
		response.Internal(c, "failed to read history")
		return
	}
	response.OK(c, history)
}

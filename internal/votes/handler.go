package votes

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aeroclub/backend/internal/clubs"
	"github.com/aeroclub/backend/internal/models"
	"github.com/aeroclub/backend/pkg/response"
)

// CreateRequest is the body for POST /clubes/:club_id/votaciones.
type CreateRequest struct {
	Title       string  `json:"titulo" binding:"required"`
	Description *string `json:"descripcion"`
	Type        string  `json:"tipo"`
	StartsAt    string  `json:"fecha_inicio" binding:"required"`
	EndsAt      string  `json:"fecha_fin" binding:"required"`
	Anonymous   bool    `json:"anonima"`
}

// CastRequest is the body for POST .../votar.
type CastRequest struct {
	Choice string `json:"opcion" binding:"required"`
}

// Handler handles vote HTTP endpoints.
type Handler struct {
	repo     *Repository
	clubRepo *clubs.Repository
	logger   *zap.Logger
}

// NewHandler creates a votes handler.
func NewHandler(repo *Repository, clubRepo *clubs.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, clubRepo: clubRepo, logger: logger}
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("user_id").(uuid.UUID)
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) requireAdmin(c *gin.Context, clubID uuid.UUID) bool {
	isAdmin, err := h.clubRepo.IsAdmin(c.Request.Context(), clubID, currentUserID(c))
	if err != nil {
		response.Internal(c, "authorization check failed")
		return false
	}
	if !isAdmin {
		response.Forbidden(c, "club admin required")
		return false
	}
	return true
}

func (h *Handler) requireActiveMember(c *gin.Context, clubID uuid.UUID) bool {
	isActive, err := h.clubRepo.IsActiveMember(c.Request.Context(), clubID, currentUserID(c))
	if err != nil {
		response.Internal(c, "membership check failed")
		return false
	}
	if !isActive {
		response.Forbidden(c, "active membership required")
		return false
	}
	return true
}

// Create handles POST /clubes/:club_id/votaciones (club admin).
func (h *Handler) Create(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	if !h.requireAdmin(c, clubID) {
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	voteType := req.Type
	if voteType == "" {
		voteType = models.VoteTypeSimple
	}
	if voteType != models.VoteTypeSimple && voteType != models.VoteTypeMultiple {
		response.BadRequest(c, "invalid vote type")
		return
	}
	vote, err := h.repo.Create(c.Request.Context(), clubID, currentUserID(c), CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Type:        voteType,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Anonymous:   req.Anonymous,
	})
	if err != nil {
		h.logger.Error("create vote failed", zap.Error(err))
		response.Internal(c, "failed to create vote")
		return
	}
	response.Created(c, vote)
}

// List handles GET /clubes/:club_id/votaciones (active member).
func (h *Handler) List(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	if !h.requireActiveMember(c, clubID) {
		return
	}
	list, err := h.repo.List(c.Request.Context(), clubID)
	if err != nil {
		response.Internal(c, "failed to list votes")
		return
	}
	response.OK(c, list)
}

// Get handles GET /clubes/:club_id/votaciones/:votacion_id (active member).
func (h *Handler) Get(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	voteID, ok := pathID(c, "votacion_id")
	if !ok {
		return
	}
	if !h.requireActiveMember(c, clubID) {
		return
	}
	vote, err := h.repo.GetByID(c.Request.Context(), clubID, voteID)
	if err != nil {
		response.NotFound(c, "vote not found")
		return
	}
	response.OK(c, vote)
}

// Close handles POST .../cerrar (club admin).
func (h *Handler) Close(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	voteID, ok := pathID(c, "votacion_id")
	if !ok {
		return
	}
	if !h.requireAdmin(c, clubID) {
		return
	}
	vote, err := h.repo.Close(c.Request.Context(), clubID, voteID)
	if err != nil {
		response.NotFound(c, "vote not found")
		return
	}
	response.OK(c, vote)
}

// Delete handles DELETE /clubes/:club_id/votaciones/:votacion_id (club admin).
func (h *Handler) Delete(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	voteID, ok := pathID(c, "votacion_id")
	if !ok {
		return
	}
	if !h.requireAdmin(c, clubID) {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), clubID, voteID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "vote not found")
			return
		}
		response.Internal(c, "failed to delete vote")
		return
	}
	response.OK(c, gin.H{"message": "vote deleted"})
}

// Cast handles POST .../votar (active member).
func (h *Handler) Cast(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	voteID, ok := pathID(c, "votacion_id")
	if !ok {
		return
	}
	if !h.requireActiveMember(c, clubID) {
		return
	}
	var req CastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ballot, err := h.repo.Cast(c.Request.Context(), clubID, voteID, currentUserID(c), req.Choice)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "vote not found")
			return
		}
		if errors.Is(err, ErrClosed) {
			response.BadRequest(c, "vote is not open")
			return
		}
		response.Internal(c, "failed to cast ballot")
		return
	}
	response.OK(c, ballot)
}

// MyBallot handles GET .../mi-voto (active member): 404 when the caller has
// not voted.
func (h *Handler) MyBallot(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	voteID, ok := pathID(c, "votacion_id")
	if !ok {
		return
	}
	if !h.requireActiveMember(c, clubID) {
		return
	}
	ballot, err := h.repo.MyBallot(c.Request.Context(), voteID, currentUserID(c))
	if err != nil {
		response.NotFound(c, "no ballot")
		return
	}
	response.OK(c, ballot)
}

// Results handles GET .../resultados (active member).
func (h *Handler) Results(c *gin.Context) {
	clubID, ok := pathID(c, "club_id")
	if !ok {
		return
	}
	voteID, ok := pathID(c, "votacion_id")
	if !ok {
		return
	}
	if !h.requireActiveMember(c, clubID) {
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), clubID, voteID); err != nil {
		response.NotFound(c, "vote not found")
		return
	}
	results, err := h.repo.Results(c.Request.Context(), voteID)
	if err != nil {
		response.Internal(c, "failed to aggregate results")
		return
	}
	response.OK(c, results)
}

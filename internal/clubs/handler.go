package clubs

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aeroclub/backend/internal/auth"
	"github.com/aeroclub/backend/internal/models"
	"github.com/aeroclub/backend/pkg/database"
	"github.com/aeroclub/backend/pkg/response"
)

// CreateRequest is the body for POST /clubes (superadmin only).
type CreateRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"nombre" binding:"required"`
	Description string `json:"descripcion"`
	Country     string `json:"pais"`
	Region      string `json:"region"`
}

// UpdateRequest is the body for PUT /clubes/:club_id. Only whitelisted
// fields; slug, status and creator are not editable here.
type UpdateRequest struct {
	Name           *string `json:"nombre"`
	Description    *string `json:"descripcion"`
	LogoURL        *string `json:"logo_url"`
	PrimaryColor   *string `json:"color_primario"`
	SecondaryColor *string `json:"color_secundario"`
	AccentColor    *string `json:"color_acento"`
	Country        *string `json:"pais"`
	Region         *string `json:"region"`
	ContactEmail   *string `json:"email_contacto"`
	Phone          *string `json:"telefono"`
	Website        *string `json:"sitio_web"`
	Timezone       *string `json:"zona_horaria"`
	DefaultLocale  *string `json:"idioma_por_defecto"`
}

// MemberRoleRequest is the body for PUT /clubes/:club_id/miembros/:user_id.
type MemberRoleRequest struct {
	Role string `json:"rol" binding:"required"`
}

// Handler handles club HTTP endpoints.
type Handler struct {
	repo     *Repository
	authRepo *auth.Repository
	logger   *zap.Logger
}

// NewHandler creates a clubs handler.
func NewHandler(repo *Repository, authRepo *auth.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, authRepo: authRepo, logger: logger}
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("user_id").(uuid.UUID)
}

func clubIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// requireAdmin resolves the caller's admin capability in the club, writing
// the error response when absent.
func (h *Handler) requireAdmin(c *gin.Context, clubID uuid.UUID) bool {
	isAdmin, err := h.repo.IsAdmin(c.Request.Context(), clubID, currentUserID(c))
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

// Create handles POST /clubes. Route is superadmin-gated; the creator
// becomes an administrator member atomically.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	club, err := h.repo.Create(c.Request.Context(), currentUserID(c), CreateParams{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		Country:     req.Country,
		Region:      req.Region,
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			response.BadRequest(c, "slug already in use")
			return
		}
		h.logger.Error("create club failed", zap.Error(err))
		response.Internal(c, "failed to create club")
		return
	}
	response.Created(c, club)
}

// ListMine handles GET /clubes/mis-clubes.
func (h *Handler) ListMine(c *gin.Context) {
	list, err := h.repo.ListForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Internal(c, "failed to list clubs")
		return
	}
	response.OK(c, list)
}

// Get handles GET /clubes/:club_id. Any membership row (any status) grants
// read access; superadmins always read.
func (h *Handler) Get(c *gin.Context) {
	clubID, ok := clubIDParam(c, "club_id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	isMember, err := h.repo.IsMember(c.Request.Context(), clubID, userID)
	if err != nil {
		response.Internal(c, "membership check failed")
		return
	}
	if !isMember {
		isSuper, err := h.authRepo.IsSuperadmin(c.Request.Context(), userID)
		if err != nil || !isSuper {
			response.Forbidden(c, "not a club member")
			return
		}
	}

	club, err := h.repo.GetByID(c.Request.Context(), clubID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "club not found")
			return
		}
		response.Internal(c, "failed to read club")
		return
	}
	response.OK(c, club)
}

// Update handles PUT /clubes/:club_id (club admin).
func (h *Handler) Update(c *gin.Context) {
	clubID, ok := clubIDParam(c, "club_id")
	if !ok {
		return
	}
	if !h.requireAdmin(c, clubID) {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	club, err := h.repo.Update(c.Request.Context(), clubID, UpdateParams{
		Name:           req.Name,
		Description:    req.Description,
		LogoURL:        req.LogoURL,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		AccentColor:    req.AccentColor,
		Country:        req.Country,
		Region:         req.Region,
		ContactEmail:   req.ContactEmail,
		Phone:          req.Phone,
		Website:        req.Website,
		Timezone:       req.Timezone,
		DefaultLocale:  req.DefaultLocale,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "club not found")
			return
		}
		h.logger.Error("update club failed", zap.Error(err))
		response.Internal(c, "failed to update club")
		return
	}
	response.OK(c, club)
}

// MyRole handles GET /clubes/mi-rol/:club_id. Superadmins report as
// administrador without needing a membership row.
func (h *Handler) MyRole(c *gin.Context) {
	clubID, ok := clubIDParam(c, "club_id")
	if !ok {
		return
	}
	userID := currentUserID(c)

	isSuper, err := h.authRepo.IsSuperadmin(c.Request.Context(), userID)
	if err == nil && isSuper {
		response.OK(c, gin.H{"rol": models.RoleAdmin, "es_superadmin": true})
		return
	}

	m, err := h.repo.GetMembership(c.Request.Context(), clubID, userID)
	if err != nil {
		response.NotFound(c, "no membership in this club")
		return
	}
	if m.Status != models.MembershipActive {
		response.NotFound(c, "no membership in this club")
		return
	}
	response.OK(c, gin.H{"rol": m.Role, "es_superadmin": false})
}

// ListMembers handles GET /clubes/:club_id/miembros (active members only).
func (h *Handler) ListMembers(c *gin.Context) {
	clubID, ok := clubIDParam(c, "club_id")
	if !ok {
		return
	}
	isActive, err := h.repo.IsActiveMember(c.Request.Context(), clubID, currentUserID(c))
	if err != nil {
		response.Internal(c, "membership check failed")
		return
	}
	if !isActive {
		response.Forbidden(c, "not a club member")
		return
	}
	list, err := h.repo.ListMembers(c.Request.Context(), clubID)
	if err != nil {
		response.Internal(c, "failed to list members")
		return
	}
	response.OK(c, list)
}

// UpdateMemberRole handles PUT /clubes/:club_id/miembros/:user_id (admin).
// Self role changes are rejected so a club cannot demote its last admin by
// accident.
func (h *Handler) UpdateMemberRole(c *gin.Context) {
	clubID, ok := clubIDParam(c, "club_id")
	if !ok {
		return
	}
	targetID, ok := clubIDParam(c, "user_id")
	if !ok {
		return
	}
	if !h.requireAdmin(c, clubID) {
		return
	}
	if targetID == currentUserID(c) {
		response.BadRequest(c, "cannot change your own role")
		return
	}
	var req MemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	role, ok := models.NormalizeRole(req.Role)
	if !ok {
		response.BadRequest(c, "invalid role")
		return
	}
	if err := h.repo.UpdateMemberRole(c.Request.Context(), clubID, targetID, role); err != nil {
		if err == ErrNotMember {
			response.NotFound(c, "member not found")
			return
		}
		response.Internal(c, "failed to update role")
		return
	}
	response.OK(c, gin.H{"message": "role updated", "rol": role})
}

// RemoveMember handles DELETE /clubes/:club_id/miembros/:user_id (admin).
// Removal is soft: the membership flips to inactive.
func (h *Handler) RemoveMember(c *gin.Context) {
	clubID, ok := clubIDParam(c, "club_id")
	if !ok {
		return
	}
	targetID, ok := clubIDParam(c, "user_id")
	if !ok {
		return
	}
	if !h.requireAdmin(c, clubID) {
		return
	}
	if targetID == currentUserID(c) {
		response.BadRequest(c, "cannot remove yourself")
		return
	}
	if err := h.repo.DeactivateMember(c.Request.Context(), clubID, targetID); err != nil {
		if err == ErrNotMember {
			response.NotFound(c, "member not found")
			return
		}
		response.Internal(c, "failed to remove member")
		return
	}
	response.OK(c, gin.H{"message": "member removed"})
}

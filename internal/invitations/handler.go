package invitations

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aeroclub/backend/internal/auth"
	"github.com/aeroclub/backend/internal/clubs"
	"github.com/aeroclub/backend/internal/mailer"
	"github.com/aeroclub/backend/internal/models"
	"github.com/aeroclub/backend/pkg/database"
	"github.com/aeroclub/backend/pkg/queue"
	"github.com/aeroclub/backend/pkg/response"
	"github.com/aeroclub/backend/pkg/utils"
)

// CreateRequest is the body for POST /clubes/:club_id/invitaciones.
type CreateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"rol"`
	FullName string `json:"nombre_completo"`
}

// TokenRequest carries an invitation token in the body.
type TokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// RegisterRequest is the body for POST /auth/registrarse-desde-invitacion.
// The email comes from the invitation, never from the client.
type RegisterRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"nombre_completo" binding:"required"`
}

// Handler handles invitation HTTP endpoints.
type Handler struct {
	repo        *Repository
	clubRepo    *clubs.Repository
	authRepo    *auth.Repository
	jwt         *auth.JWTService
	queue       *queue.Queue
	frontendURL string
	logger      *zap.Logger
}

// NewHandler creates an invitations handler. queue may be nil in tests;
// emails are then skipped.
func NewHandler(repo *Repository, clubRepo *clubs.Repository, authRepo *auth.Repository,
	jwt *auth.JWTService, q *queue.Queue, frontendURL string, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, clubRepo: clubRepo, authRepo: authRepo,
		jwt: jwt, queue: q, frontendURL: frontendURL, logger: logger}
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("user_id").(uuid.UUID)
}

func (h *Handler) invitationLink(token string) string {
	return strings.TrimRight(h.frontendURL, "/") + "/invitacion/" + token
}

// enqueueInvitationEmail pushes the invitation email job. Best-effort: the
// invitation is already committed, a queue failure only logs.
func (h *Handler) enqueueInvitationEmail(c *gin.Context, inv *models.Invitation, clubName, inviterName string) {
	if h.queue == nil {
		return
	}
	payload := queue.EmailPayload{
		EmailType:      models.EmailTypeInvitation,
		ClubID:         &inv.ClubID,
		InvitationID:   &inv.ID,
		RecipientEmail: inv.Email,
		Subject:        mailer.InvitationSubject(clubName),
		BodyHTML:       mailer.InvitationBody(clubName, inviterName, h.invitationLink(inv.Token), inv.UserID != nil),
	}
	if err := h.queue.EnqueueEmail(c.Request.Context(), payload); err != nil {
		h.logger.Warn("enqueue invitation email failed", zap.Error(err), zap.String("invitation_id", inv.ID.String()))
	}
}

// Create handles POST /clubes/:club_id/invitaciones (club admin).
func (h *Handler) Create(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("club_id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
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

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	role := models.RoleMember
	if req.Role != "" {
		var ok bool
		role, ok = models.NormalizeRole(req.Role)
		if !ok {
			response.BadRequest(c, "invalid role")
			return
		}
	}

	inv, err := h.repo.Create(c.Request.Context(), clubID, currentUserID(c), req.Email, role, req.FullName)
	if err != nil {
		h.logger.Error("create invitation failed", zap.Error(err))
		response.Internal(c, "failed to create invitation")
		return
	}

	club, err := h.clubRepo.GetByID(c.Request.Context(), clubID)
	inviterName := ""
	if u, uerr := h.authRepo.GetByID(c.Request.Context(), currentUserID(c)); uerr == nil {
		inviterName = u.FullName
	}
	if err == nil {
		h.enqueueInvitationEmail(c, inv, club.Name, inviterName)
	}

	response.Created(c, inv)
}

// ListForClub handles GET /clubes/:club_id/invitaciones (club admin),
// optionally filtered by ?estado=.
func (h *Handler) ListForClub(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("club_id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
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
	list, err := h.repo.ListForClub(c.Request.Context(), clubID, c.Query("estado"))
	if err != nil {
		response.Internal(c, "failed to list invitations")
		return
	}
	response.OK(c, list)
}

// PendingForMe handles GET /auth/invitaciones/pendientes: pending invitations
// addressed to the authenticated user's email.
func (h *Handler) PendingForMe(c *gin.Context) {
	user, err := h.authRepo.GetByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	list, err := h.repo.ListPendingForEmail(c.Request.Context(), user.Email)
	if err != nil {
		response.Internal(c, "failed to list invitations")
		return
	}
	response.OK(c, list)
}

// Accept handles POST /auth/invitaciones/aceptar. The token must be addressed to
// the authenticated user's email.
func (h *Handler) Accept(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := currentUserID(c)

	inv, err := h.repo.GetByToken(c.Request.Context(), req.Token)
	if err != nil {
		response.NotFound(c, "invitation not found")
		return
	}
	user, err := h.authRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	if !strings.EqualFold(inv.Email, user.Email) {
		response.Forbidden(c, "invitation addressed to another email")
		return
	}

	membership, err := h.repo.Accept(c.Request.Context(), req.Token, userID)
	if err != nil {
		if errors.Is(err, ErrNotRedeemable) {
			response.BadRequest(c, "invitation no longer valid")
			return
		}
		h.logger.Error("accept invitation failed", zap.Error(err))
		response.Internal(c, "failed to accept invitation")
		return
	}
	response.OK(c, membership)
}

// Reject handles POST /auth/invitaciones/rechazar.
func (h *Handler) Reject(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.repo.Reject(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "invitation not found")
			return
		}
		if errors.Is(err, ErrNotRedeemable) {
			response.BadRequest(c, "invitation no longer valid")
			return
		}
		response.Internal(c, "failed to reject invitation")
		return
	}
	response.OK(c, gin.H{"message": "invitation rejected"})
}

// Resend handles POST /clubes/:club_id/invitaciones/:id/reenviar (club
// admin). Only rejected or expired invitations can be reissued; the old
// token is replaced, never revived.
func (h *Handler) Resend(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("club_id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return
	}
	invID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
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

	existing, err := h.repo.GetByID(c.Request.Context(), invID)
	if err != nil || existing.ClubID != clubID {
		response.NotFound(c, "invitation not found")
		return
	}

	inv, err := h.repo.Resend(c.Request.Context(), invID)
	if err != nil {
		if errors.Is(err, ErrNotResendable) {
			response.BadRequest(c, "only rejected or expired invitations can be resent")
			return
		}
		response.Internal(c, "failed to resend invitation")
		return
	}

	club, cerr := h.clubRepo.GetByID(c.Request.Context(), clubID)
	inviterName := ""
	if u, uerr := h.authRepo.GetByID(c.Request.Context(), currentUserID(c)); uerr == nil {
		inviterName = u.FullName
	}
	if cerr == nil {
		h.enqueueInvitationEmail(c, inv, club.Name, inviterName)
	}
	response.OK(c, inv)
}

// PublicLookup handles GET /auth/invitaciones/publica/:token (no auth). Invalid,
// used and expired tokens all return 404 with no detail.
func (h *Handler) PublicLookup(c *gin.Context) {
	p, err := h.repo.PublicLookup(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.NotFound(c, "invitation not found")
		return
	}
	response.OK(c, p)
}

// RegisterFromInvitation handles POST /auth/registrarse-desde-invitacion
// (no auth): creates the account with the invitation's email, redeems the
// token and returns a token pair, all in one call.
func (h *Handler) RegisterFromInvitation(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	ctx := c.Request.Context()

	inv, err := h.repo.GetByToken(ctx, req.Token)
	if err != nil {
		response.NotFound(c, "invitation not found")
		return
	}
	if _, err := h.authRepo.GetByEmail(ctx, inv.Email); err == nil {
		response.BadRequest(c, "email already registered, log in and accept the invitation")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	user, err := h.authRepo.Create(ctx, inv.Email, hash, req.FullName, true)
	if err != nil {
		if database.IsUniqueViolation(err) {
			response.BadRequest(c, "email already registered, log in and accept the invitation")
			return
		}
		h.logger.Error("create user from invitation failed", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	membership, err := h.repo.Accept(ctx, req.Token, user.ID)
	if err != nil {
		if errors.Is(err, ErrNotRedeemable) {
			response.BadRequest(c, "invitation no longer valid")
			return
		}
		h.logger.Error("accept invitation failed", zap.Error(err))
		response.Internal(c, "failed to accept invitation")
		return
	}

	pair, err := h.jwt.GeneratePair(user.ID, user.Email)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	if h.queue != nil {
		if club, cerr := h.clubRepo.GetByID(ctx, inv.ClubID); cerr == nil {
			payload := queue.EmailPayload{
				EmailType:      models.EmailTypeWelcomeRegister,
				ClubID:         &inv.ClubID,
				InvitationID:   &inv.ID,
				RecipientEmail: user.Email,
				Subject:        mailer.WelcomeSubject(club.Name),
				BodyHTML:       mailer.WelcomeBody(user.FullName, club.Name, h.frontendURL),
			}
			if err := h.queue.EnqueueEmail(ctx, payload); err != nil {
				h.logger.Warn("enqueue welcome email failed", zap.Error(err))
			}
		}
	}

	response.Created(c, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    pair.TokenType,
		"usuario":       user.ToPublic(),
		"membresia":     membership,
	})
}

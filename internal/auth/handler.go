package auth

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aeroclub/backend/internal/models"
	"github.com/aeroclub/backend/pkg/database"
	"github.com/aeroclub/backend/pkg/response"
	"github.com/aeroclub/backend/pkg/utils"
)

// RegisterRequest is the body for POST /auth/registro.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"nombre_completo" binding:"required"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body for POST /auth/refresh-token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// GoogleLoginRequest is the body for POST /auth/google-oauth.
type GoogleLoginRequest struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// UpdateMeRequest is the body for PUT /auth/usuarios/me.
type UpdateMeRequest struct {
	FullName string `json:"nombre_completo" binding:"required"`
}

// ChangePasswordRequest is the body for POST /auth/usuarios/cambiar-contrasena.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"password_actual" binding:"required"`
	NewPassword     string `json:"password_nueva" binding:"required,min=8"`
}

// TokenResponse is the auth response: token pair plus the public user view.
type TokenResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	TokenType    string            `json:"token_type"`
	User         models.UserPublic `json:"usuario"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo   *Repository
	jwt    *JWTService
	google *GoogleClient
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, google *GoogleClient, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, jwt: jwt, google: google, logger: logger}
}

func (h *Handler) tokenResponse(user *models.User) (*TokenResponse, error) {
	pair, err := h.jwt.GeneratePair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		User:         user.ToPublic(),
	}, nil
}

// Register handles POST /auth/registro.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if _, err := h.repo.GetByEmail(c.Request.Context(), req.Email); err == nil {
		response.BadRequest(c, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.repo.Create(c.Request.Context(), req.Email, hash, req.FullName, true)
	if err != nil {
		// Concurrent registrations can slip past the pre-check; the unique
		// index on LOWER(email) is the authoritative answer.
		if database.IsUniqueViolation(err) {
			response.BadRequest(c, "email already registered")
			return
		}
		h.logger.Error("create user failed", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	resp, err := h.tokenResponse(user)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.Created(c, resp)
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}
	if !user.Active {
		response.Unauthorized(c, "account disabled")
		return
	}
	if user.PasswordHash == nil || !utils.CheckPassword(req.Password, *user.PasswordHash) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	if err := h.repo.TouchLastLogin(c.Request.Context(), user.ID); err != nil {
		h.logger.Warn("touch last login failed", zap.Error(err))
	}

	resp, err := h.tokenResponse(user)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.OK(c, resp)
}

// Refresh handles POST /auth/refresh-token. Only tokens carrying the refresh
// marker are accepted; an access token here is a 401.
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	claims, err := h.jwt.ValidateRefresh(req.RefreshToken)
	if err != nil {
		response.Unauthorized(c, "invalid refresh token")
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Unauthorized(c, "user not found")
		return
	}
	if !user.Active {
		response.Unauthorized(c, "account disabled")
		return
	}

	resp, err := h.tokenResponse(user)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.OK(c, resp)
}

// GoogleLogin handles POST /auth/google-oauth. The frontend completes the
// OAuth dance and posts the provider access token; we validate it against
// Google, merge with an existing account by email when one exists, and
// replace the stored provider token record.
func (h *Handler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	info, err := h.google.FetchUserInfo(c.Request.Context(), req.AccessToken)
	if err != nil {
		h.logger.Warn("google userinfo failed", zap.Error(err))
		response.Unauthorized(c, "invalid google token")
		return
	}

	ctx := c.Request.Context()
	user, err := h.repo.GetByGoogleID(ctx, info.ID)
	if err != nil {
		// No linked account: merge with an existing user by email, or create.
		user, err = h.repo.GetByEmail(ctx, info.Email)
		if err == nil {
			if err := h.repo.LinkGoogle(ctx, user.ID, info.ID, info.Picture); err != nil {
				h.logger.Error("link google account failed", zap.Error(err))
				response.Internal(c, "failed to link google account")
				return
			}
		} else {
			user, err = h.repo.CreateFromGoogle(ctx, info.Email, info.Name, info.ID, info.Picture)
			if err != nil {
				h.logger.Error("create google user failed", zap.Error(err))
				response.Internal(c, "failed to create user")
				return
			}
		}
	}
	if !user.Active {
		response.Unauthorized(c, "account disabled")
		return
	}

	expiresAt := time.Now().Add(time.Duration(req.ExpiresIn) * time.Second)
	if req.ExpiresIn <= 0 {
		expiresAt = time.Now().Add(time.Hour)
	}
	if err := h.repo.ReplaceGoogleToken(ctx, user.ID, req.AccessToken, req.RefreshToken, expiresAt); err != nil {
		h.logger.Warn("store google token failed", zap.Error(err), zap.String("user_id", user.ID.String()))
	}
	if err := h.repo.TouchLastLogin(ctx, user.ID); err != nil {
		h.logger.Warn("touch last login failed", zap.Error(err))
	}

	resp, err := h.tokenResponse(user)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.OK(c, resp)
}

// Me handles GET /auth/usuarios/me.
func (h *Handler) Me(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, user.ToPublic())
}

// UpdateMe handles PUT /auth/usuarios/me.
func (h *Handler) UpdateMe(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	user, err := h.repo.UpdateProfile(c.Request.Context(), userID, req.FullName)
	if err != nil {
		response.Internal(c, "failed to update profile")
		return
	}
	response.OK(c, user.ToPublic())
}

// ChangePassword handles POST /auth/usuarios/cambiar-contrasena.
func (h *Handler) ChangePassword(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	if user.PasswordHash == nil || !utils.CheckPassword(req.CurrentPassword, *user.PasswordHash) {
		response.BadRequest(c, "current password incorrect")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}
	if err := h.repo.UpdatePassword(c.Request.Context(), userID, hash); err != nil {
		response.Internal(c, "failed to update password")
		return
	}
	response.OK(c, gin.H{"message": "password updated"})
}

// Logout handles POST /auth/logout. Tokens are stateless; the client drops
// them. The endpoint exists so clients have a uniform logout call.
func (h *Handler) Logout(c *gin.Context) {
	response.OK(c, gin.H{"message": "logged out"})
}

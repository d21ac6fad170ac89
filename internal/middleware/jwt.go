package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aeroclub/backend/internal/auth"
	"github.com/aeroclub/backend/internal/models"
	"github.com/aeroclub/backend/pkg/response"
)

const (
	// ContextUserID is the key for user ID in gin context.
	ContextUserID = "user_id"
	// ContextUserEmail is the key for user email in gin context.
	ContextUserEmail = "user_email"
)

// UserResolver loads the user record behind a token subject. Implemented by
// auth.Repository.
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// JWT returns a middleware that validates an access token and resolves its
// subject to a live user row before setting claims in context. Refresh
// tokens are rejected here; they are only good for the refresh endpoint.
// A token whose user no longer exists is a 401, same as an invalid token.
func JWT(jwtService *auth.JWTService, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.ValidateAccess(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		if _, err := users.GetByID(c.Request.Context(), claims.UserID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				response.Unauthorized(c, "user not found")
			} else {
				response.Internal(c, "user lookup failed")
			}
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// UserID extracts the authenticated user id from the gin context.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

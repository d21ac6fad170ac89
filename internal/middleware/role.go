package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aeroclub/backend/pkg/response"
)

// SuperadminChecker reports whether a user holds the platform superadmin flag.
type SuperadminChecker interface {
	IsSuperadmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// RequireSuperadmin returns a middleware that allows only platform
// superadmins. The flag lives on the user row, not in the token, so a
// revocation takes effect immediately.
func RequireSuperadmin(checker SuperadminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		isSuper, err := checker.IsSuperadmin(c.Request.Context(), userID)
		if err != nil {
			response.Internal(c, "authorization check failed")
			c.Abort()
			return
		}
		if !isSuper {
			response.Forbidden(c, "superadmin required")
			c.Abort()
			return
		}
		c.Next()
	}
}

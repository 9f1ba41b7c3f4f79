package security

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/insighthire/insighthire-backend/internal/database"
	apperrors "github.com/insighthire/insighthire-backend/internal/errors"
)

// AuthRequired validates the Bearer token on protected routes and stores the
// authenticated user's ID and email in the request context.
func AuthRequired(users *database.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, "malformed authorization header")
			return
		}

		claims, err := users.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	appErr := apperrors.NewAuthError(msg)
	apperrors.LogError(c, appErr)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
}

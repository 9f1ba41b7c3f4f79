package ratelimit

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/insighthire/insighthire-backend/internal/errors"
)

// Middleware enforces the per-IP rate limit on every request.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		result := rl.AllowIP(c.Request.Context(), c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		if result.Remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		}

		if !result.Allowed {
			rl.metrics.IncrementRateLimitIPBlock()
			c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))

			appErr := apperrors.NewRateLimitError(result.RetryAfter.String())
			apperrors.LogError(c, appErr)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
			return
		}

		c.Next()
	}
}

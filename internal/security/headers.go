package security

import "github.com/gin-gonic/gin"

// SecurityHeadersMiddleware sets the response headers every endpoint carries.
// The Permissions-Policy denies browser capture features outright: candidate
// telemetry arrives pre-analyzed over the API, never as raw media through
// this origin. HSTS is opt-in via config because local deployments run
// behind plain HTTP.
func SecurityHeadersMiddleware(enableHSTS bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		if enableHSTS {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}

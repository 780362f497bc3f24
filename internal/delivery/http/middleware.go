package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIKeyMiddleware gates the API behind a shared-secret query parameter.
// The core resolver only ever runs post-authentication.
func APIKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "API key not configured",
				"message": "Set KASPIWATCH_AUTH_API_KEY in the environment",
			})
			return
		}

		if c.Query("key") != apiKey {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "Invalid or missing API key. Use: /api/check?key=YOUR_API_KEY",
			})
			return
		}

		c.Next()
	}
}

// LoggerMiddleware logs requests (simple version for now)
func LoggerMiddleware() gin.HandlerFunc {
	return gin.Logger()
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.Recovery()
}

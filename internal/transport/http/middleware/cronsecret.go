package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CronSecret gates the external one-shot trigger endpoint behind a static
// shared secret sent as X-Cron-Secret. An unconfigured secret disables the
// endpoint entirely (503) rather than accepting requests unauthenticated.
func CronSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"detail": "cron trigger is not configured"})
			return
		}

		got := c.GetHeader("X-Cron-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "missing or invalid cron secret"})
			return
		}

		c.Next()
	}
}

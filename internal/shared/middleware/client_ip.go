package middleware

import (
	"github.com/gin-gonic/gin"

	"library-catalog/internal/shared/utils"
)

// ClientIPMiddleware resolves the caller's address once and stores it as
// "client_ip" for the logger and the rate limiter.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("client_ip", utils.ExtractClientIP(c))
		c.Next()
	}
}

// ClientIP returns the address stored by ClientIPMiddleware, falling back to
// extracting it directly.
func ClientIP(c *gin.Context) string {
	if ip := c.GetString("client_ip"); ip != "" {
		return ip
	}
	return utils.ExtractClientIP(c)
}

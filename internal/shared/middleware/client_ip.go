package middleware

import (
	"github.com/gin-gonic/gin"

	"booka-backend/internal/shared/utils"
)

const ContextKeyClientIP = "client_ip"

// ClientIPMiddleware resolves the caller address once for the rest of the chain
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyClientIP, utils.ExtractClientIP(c))
		c.Next()
	}
}

// ClientIP returns the resolved address, computing it when the middleware did not run
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextKeyClientIP); ip != "" {
		return ip
	}
	return utils.ExtractClientIP(c)
}

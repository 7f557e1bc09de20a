package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"booka-backend/internal/shared"
)

// RequestID keeps a client supplied X-Request-ID or generates a time ordered one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(shared.HeaderRequestID)
		if requestID == "" || len(requestID) > 128 {
			id, err := uuid.NewV7()
			if err != nil {
				id = uuid.New()
			}
			requestID = id.String()
		}

		c.Set(shared.ContextKeyRequestID, requestID)
		c.Header(shared.HeaderRequestID, requestID)
		c.Next()
	}
}

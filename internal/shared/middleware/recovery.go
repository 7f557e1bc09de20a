package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"booka-backend/internal/shared"
	"booka-backend/internal/shared/response"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString(shared.ContextKeyRequestID)).
					Interface("error", err).
					Bytes("stack", debug.Stack()).
					Msg("Panic recovered")

				response.Abort(c, http.StatusInternalServerError, response.CodeUnknown, response.MessageUnknown)
			}
		}()

		c.Next()
	}
}

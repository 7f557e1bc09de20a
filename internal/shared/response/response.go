package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeSuccess = 0
	CodeUnknown = 1

	MessageSuccess = "success"
	MessageUnknown = "unknown error"
)

// Envelope is the body of every API response.
// Code 0 means success; other codes are scoped to the endpoint that produced them.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Code:    CodeSuccess,
		Message: MessageSuccess,
		Data:    data,
	})
}

// Fail writes a coded envelope; the HTTP status stays 200
func Fail(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Envelope{
		Code:    code,
		Message: message,
	})
}

// Abort is for middleware that stops the chain outside an endpoint
func Abort(c *gin.Context, status int, code int, message string) {
	c.AbortWithStatusJSON(status, Envelope{
		Code:    code,
		Message: message,
	})
}

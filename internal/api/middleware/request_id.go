package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader  = "X-Request-ID"
	RequestIDContext = "request_id"
)

// RequestID reuses the caller's request id or assigns a new one, echoing it in the response
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDContext, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

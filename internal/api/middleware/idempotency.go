package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	IdempotencyKeyHeader  = "Idempotency-Key"
	IdempotencyKeyContext = "idempotency_key"
)

func IdempotencyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(IdempotencyKeyContext, c.GetHeader(IdempotencyKeyHeader))
		c.Next()
	}
}

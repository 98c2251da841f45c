package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const IdempotencyHeader = "Idempotency-Key"

type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Idempotency rejects a repeated Idempotency-Key on POST from the same
// caller with 409. Keys of failed requests are released so the client can retry. Store
// errors let the request through.
func Idempotency(store IdempotencyStore, ttl time.Duration, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(IdempotencyHeader)
		if header == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := UserID(c) + ":" + header
		acquired, err := store.Reserve(ctx, key, ttl)
		if err != nil {
			log.Warnw("idempotency store unavailable", "error", err)
			c.Next()
			return
		}
		if !acquired {
			c.Header("X-Idempotency-Hit", "true")
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "request already processed"})
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(ctx, key); err != nil {
				log.Warnw("failed to release idempotency key", "key", key, "error", err)
			}
		}
	}
}

package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saadjs/nutri/internal/log"
)

// requestLogger logs one line per request. Client errors log at warn and
// server errors at error.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			log.FieldMethod, c.Request.Method,
			log.FieldPath, c.Request.URL.Path,
			log.FieldQuery, c.Request.URL.RawQuery,
			log.FieldStatusCode, status,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, c.ClientIP(),
		}
		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.ErrorContext(ctx, "request completed", args...)
		case status >= 400:
			logger.WarnContext(ctx, "request completed", args...)
		default:
			logger.InfoContext(ctx, "request completed", args...)
		}
	}
}

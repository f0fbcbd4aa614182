package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// requestID reuses a well-formed incoming X-Request-ID or mints a new one,
// and echoes it on the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// accessLog writes one structured line per request.
func accessLog(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			l.Warn(c.Request.Context(), "request", args...)
			return
		}
		l.Info(c.Request.Context(), "request", args...)
	}
}

// recovery turns a handler panic into a plain 500.
func recovery(l logging.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		l.Error(c.Request.Context(), "panic recovered", "request_id", c.GetString(requestIDKey), "error", err)
		c.String(http.StatusInternalServerError, msgInternal)
		c.Abort()
	})
}

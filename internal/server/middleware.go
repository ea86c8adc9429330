package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
)

// requestLogger logs one line per request through hclog.
func requestLogger(logger hclog.Logger) gin.HandlerFunc {
	logger = logger.Named("http")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request", args...)
		} else {
			logger.Info("request", args...)
		}
	}
}

// requestSizeLimiter rejects bodies larger than maxBytes.
// Declared lengths are checked up front; chunked bodies are capped while reading.
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:   http.StatusText(http.StatusRequestEntityTooLarge),
				Message: fmt.Sprintf("request body of %d bytes exceeds limit of %d", c.Request.ContentLength, maxBytes),
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// recoverWithJSON turns a handler panic into a 500 JSON response.
func recoverWithJSON(logger hclog.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		logger.Error("panic while handling request", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: http.StatusText(http.StatusInternalServerError),
		})
	}
}

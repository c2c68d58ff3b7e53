package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

// requestLogger logs one line per request after it has been served.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}

	kv := []interface{}{
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"latency_ms", time.Since(start).Milliseconds(),
		"client", c.ClientIP(),
	}
	if len(c.Errors) > 0 {
		kv = append(kv, "errors", c.Errors.String())
	}
	switch {
	case c.Writer.Status() >= 500:
		h.log.Errorw("http_request", kv...)
	case c.Writer.Status() >= 400:
		h.log.Warnw("http_request", kv...)
	default:
		h.log.Debugw("http_request", kv...)
	}
}

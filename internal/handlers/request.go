package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
)

// requestLogger tags each request with an id, logs it and records metrics.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()

	reqID := c.GetHeader(requestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	c.Set(requestIDKey, reqID)
	c.Header(requestIDHeader, reqID)

	c.Next()

	route := c.FullPath()
	status := c.Writer.Status()
	elapsed := time.Since(start)
	h.metrics.ObserveRequest(c.Request.Method, route, strconv.Itoa(status), elapsed)

	fields := []interface{}{
		"request_id", reqID,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
	}
	if len(c.Errors) > 0 {
		fields = append(fields, "errors", c.Errors.String())
	}
	if status >= 500 {
		h.log.Errorw("http_request", fields...)
		return
	}
	h.log.Debugw("http_request", fields...)
}

// requestID returns the id assigned by requestLogger, if any.
func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

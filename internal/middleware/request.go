package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderRequestID  = "X-Request-ID"
	ContextRequestID = "requestID"
	ContextLogger    = "logger"
)

// RequestLogger tags each request with an id and a child logger, then logs
// the outcome once the handler returns.
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}
		c.Header(HeaderRequestID, reqID)

		log := base.With().Str("request_id", reqID).Logger()
		c.Set(ContextRequestID, reqID)
		c.Set(ContextLogger, log)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		if orgID, ok := c.Get(ContextOrganizationID); ok {
			ev = ev.Interface("organization_id", orgID)
		}

		ev.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}

// Logger returns the request's logger, or a no-op one outside a request.
func Logger(c *gin.Context) zerolog.Logger {
	if v, ok := c.Get(ContextLogger); ok {
		if l, ok := v.(zerolog.Logger); ok {
			return l
		}
	}
	return zerolog.Nop()
}

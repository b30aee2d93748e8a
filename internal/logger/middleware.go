package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paperprep/paperprep-backend/internal/response"
	"github.com/rs/zerolog"
)

// skipPaths are too noisy to log on every hit.
var skipPaths = map[string]struct{}{
	"/health": {},
}

// RequestLogger logs one line per request with its latency and status.
// Handler errors attached with c.Error are logged with the request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "http").Logger()

	return func(c *gin.Context) {
		if _, skip := skipPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		default:
			ev = log.Info()
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		ev = ev.
			Str("request_id", response.RequestID(c)).
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Int("bytes", c.Writer.Size())

		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			ev = ev.Str("errors", errs.String())
		}

		ev.Msg("Request")
	}
}

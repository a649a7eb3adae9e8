// Request correlation and panic containment.
//
// RequestID tags every request with a correlation id, Recovery turns panics
// into the standard JSON error envelope, and LoggerFrom hands the
// request-scoped logger to code deeper in the stack. The access log itself
// lives in redact_logger.go; the pieces here exist so every line it emits
// can be tied back to one request.
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// requestIDKey is the Gin context key holding the correlation id.
	requestIDKey = "requestID"
	// requestIDHeader propagates the correlation id to and from clients.
	requestIDHeader = "X-Request-ID"
	// loggerKey is the Gin context key holding the request-scoped logger.
	loggerKey = "logger"
	// maxQueryLogLength caps how much of a query string one log line carries.
	maxQueryLogLength = 2048
)

// RequestID reuses the caller's X-Request-ID when present and generates a
// UUID otherwise. The id is stored in the Gin context and echoed on the
// response so clients can quote it when reporting a failed analysis.
// Install first; everything downstream assumes the id exists.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Recovery keeps a panicking handler from taking the process down. The panic
// value and stack are logged under the request's correlation id, and the
// client receives the standard internal_error envelope unless part of a
// response already went out, in which case only the status is forced.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			rid, _ := c.Get(requestIDKey)
			log.Error().
				Interface("panic", p).
				Bytes("stack", debug.Stack()).
				Str("request_id", asString(rid)).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header("Content-Type", "application/json")
			c.Header(requestIDHeader, asString(rid))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": asString(rid),
				"code":       "internal_error",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger attached by RedactingLogger.
// When none is attached (bare test routers, handlers mounted without the
// full chain) it falls back to the global logger. Never nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// asString narrows a context value to string, with "" for anything else.
func asString(v any) string {
	s, _ := v.(string)
	return s
}

// truncate caps s at max bytes, marking the cut with an ellipsis. A max <= 0
// disables the cap. Byte truncation can split a rune; fine for log output.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// Package handlers exposes the public nutrition API over HTTP.
//
// Response helpers live here. Every failure, whether a rejected upload, a
// missing history record, or a generation error, leaves the server as the
// same envelope:
//
//	HTTP/1.1 422 Unprocessable Entity
//	{
//	  "request_id": "9f2c1d3e-4b5a-6c7d-8e9f-0a1b2c3d4e5f",
//	  "code": "no_text_recovered",
//	  "message": "no text could be recovered from the images"
//	}
//
// The code field is one of the constants in errors.go and is the only part
// clients should branch on; messages are for people.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutrismart/go-nutrition-backend/internal/http/middleware"
)

// ErrorResponse is the error envelope shared by all endpoints. RequestID
// echoes the X-Request-ID header so a client report can be matched to the
// access log line.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// fail writes the error envelope and aborts the handler chain. Statuses of
// 500 and up are also logged through the request-scoped logger; client
// errors are visible in the access log already.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is fail for callers outside the package, such as the router's
// not-found and method-not-allowed fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes body as JSON with the given status.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// noContent answers 204, used by the delete endpoints.
func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

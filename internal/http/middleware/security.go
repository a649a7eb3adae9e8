// HTTP hardening headers.
//
// The responses of this API describe a person's diet and body measurements,
// so the cache posture matters as much as the usual browser hardening:
// PrivateCache keeps shared proxies from ever storing a history or profile
// payload while still letting the caller's own client revalidate with
// If-None-Match, which is what makes the history ETag useful.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures SecurityHeaders.
type SecurityOptions struct {
	// EnableHSTS emits Strict-Transport-Security on HTTPS requests. Leave
	// off unless traffic is HTTPS end to end, proxy hop included.
	EnableHSTS bool
	// HSTSMaxAge is the HSTS lifetime; zero or negative falls back to 180
	// days.
	HSTSMaxAge time.Duration
	// PrivateCache marks responses "private, no-cache": only the caller's
	// own client may store them, and it must revalidate before reuse.
	PrivateCache bool
	// EnablePolicy adds browser feature policies. Inert for API clients.
	EnablePolicy bool
}

// SecurityHeaders returns a middleware that stamps a fixed hardening set on
// every response: nosniff, frame denial, and no referrer leakage always;
// feature policies, the private cache directive, and HSTS per the options.
// It also appends X-Request-ID to Access-Control-Expose-Headers so browser
// clients can read the correlation id.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	hstsValue := "max-age=" + strconv.Itoa(hstsSeconds(opt.HSTSMaxAge)) +
		"; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if opt.PrivateCache {
			h.Set("Cache-Control", "private, no-cache")
		}

		// Never on plain HTTP: a misconfigured proxy would lock clients out.
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hstsValue)
		}

		exposeRequestID(h)

		c.Next()
	}
}

// hstsSeconds converts the configured lifetime to whole seconds, defaulting
// to 180 days.
func hstsSeconds(d time.Duration) int {
	if s := int(d.Seconds()); s > 0 {
		return s
	}
	return int((180 * 24 * time.Hour).Seconds())
}

// exposeRequestID appends X-Request-ID to Access-Control-Expose-Headers
// without clobbering or duplicating entries set by the CORS layer.
func exposeRequestID(h http.Header) {
	if h.Get(requestIDHeader) == "" {
		return
	}
	const expose = "Access-Control-Expose-Headers"
	switch cur := h.Get(expose); {
	case cur == "":
		h.Set(expose, requestIDHeader)
	case !strings.Contains(cur, requestIDHeader):
		h.Set(expose, cur+", "+requestIDHeader)
	}
}

// isHTTPS reports whether the request arrived over TLS, directly or behind
// a proxy that set X-Forwarded-Proto.
func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

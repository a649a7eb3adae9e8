// Access logging for an API that carries health data.
//
// Analyze requests describe the caller's body (sex, age, activity level,
// weight, height) and every response can quote label text the caller
// photographed. None of that belongs in the log stream: the access log here
// records routing metadata only, masks credential headers outright, blanks
// profile parameters out of query strings, and pattern-redacts identifiers
// that show up in free-form values. Bodies are never logged.
package middleware

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// scrubbed replaces any value that must not reach the logs.
const scrubbed = "[scrubbed]"

// profileParams are query keys that describe the caller's body. They mirror
// the JSON field names of the public profile payload and are blanked
// wholesale rather than pattern-matched: a bare "92.5" is meaningless to a
// regex but very meaningful next to "weight_kg".
var profileParams = map[string]struct{}{
	"sex":            {},
	"age":            {},
	"activity_level": {},
	"weight_kg":      {},
	"height_cm":      {},
}

// Identifier patterns for free-form values. UUIDs are replaced first so the
// phone pattern cannot latch onto their digit groups.
var (
	uuidPattern  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`)
	emailPattern = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// redactText substitutes identifier-shaped substrings in s.
func redactText(s string) string {
	if s == "" {
		return s
	}
	s = uuidPattern.ReplaceAllString(s, "[scrubbed:id]")
	s = emailPattern.ReplaceAllString(s, "[scrubbed:email]")
	return phonePattern.ReplaceAllString(s, "[scrubbed:phone]")
}

// scrubQuery rewrites a raw query string for logging: profile parameters are
// blanked entirely, everything else gets a pattern pass. The result is a log
// artifact, not a URL, so values are neither re-encoded nor kept in their
// original order (keys are sorted for stable output). A query that fails to
// parse falls back to a pattern pass over the raw string.
func scrubQuery(raw string) string {
	if raw == "" {
		return ""
	}
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return redactText(raw)
	}
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range vals[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(k)
			b.WriteByte('=')
			if _, hide := profileParams[k]; hide {
				b.WriteString(scrubbed)
			} else {
				b.WriteString(redactText(v))
			}
		}
	}
	return b.String()
}

// RedactOptions extends the scrub behavior of RedactingLogger.
//
// MaskHeaders lists additional header names whose values are replaced with
// "[scrubbed]" wholesale. Matching is case-insensitive; Authorization,
// Cookie, and Set-Cookie are always masked.
type RedactOptions struct {
	MaskHeaders []string
}

// RedactingLogger returns the access-log middleware. Each request produces
// one structured line (info for 2xx/3xx, warn for 4xx, error for 5xx) with
// method, route, scrubbed query, status, bytes written, latency, and the
// scrubbed request headers. It also attaches the request-scoped logger that
// LoggerFrom hands to handlers, so enriched log lines share the request's
// correlation id. Install after RequestID.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	masked := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			masked[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		query := truncate(scrubQuery(c.Request.URL.RawQuery), maxQueryLogLength)

		headers := make(map[string]string, len(c.Request.Header))
		for name, vv := range c.Request.Header {
			if _, hide := masked[strings.ToLower(name)]; hide {
				headers[name] = scrubbed
				continue
			}
			headers[name] = redactText(strings.Join(vv, ", "))
		}

		// RequestID has already stamped the response header when installed
		// upstream; fall back to the request header otherwise.
		rid := c.Writer.Header().Get(requestIDHeader)
		if rid == "" {
			rid = c.GetHeader(requestIDHeader)
		}

		scoped := log.With().
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("route", route).
			Logger()
		c.Set(loggerKey, &scoped)

		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("route", route).
			Str("query", query).
			Int("status", status).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("access")
	}
}

// Per-caller token-bucket rate limiting.
//
// Every analyze request ends in a paid generation call, so the limiter is
// cost protection as much as abuse control. Buckets are keyed by user id
// when one is known and by client IP otherwise, live in process memory, and
// are swept opportunistically so an idle crowd does not pin the map forever.
// Idempotent replays never consume tokens: a client retrying a completed
// analysis gets its stored result back even while throttled.
//
// The limiter is process local. Running several replicas multiplies the
// effective limit by the replica count, which is acceptable for edge
// protection but not for hard quotas.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyFunc maps a request to its bucket identity.
type keyFunc func(*gin.Context) string

// KeyByUserOrIP keys buckets by the authenticated user when upstream
// middleware stored one, and by client IP otherwise. The prefixes keep the
// two namespaces from colliding.
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if v, ok := c.Get("userID"); ok {
			if s, ok := v.(string); ok && s != "" {
				return "user:" + s
			}
		}
		return "ip:" + c.ClientIP()
	}
}

// bucket pairs a limiter with its last use, the input for idle eviction.
type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// sweepEvery is the number of lookups between idle-bucket sweeps.
const sweepEvery = 4096

// RateLimiter hands out tokens per bucket key. Safe for concurrent use.
type RateLimiter struct {
	rps     rate.Limit
	burst   int
	keyFn   keyFunc
	idleTTL time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	lookups int
}

// NewRateLimiter builds a limiter replenishing rps tokens per second with
// the given burst capacity (coerced to at least 1) per key.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		idleTTL: 15 * time.Minute,
		buckets: make(map[string]*bucket),
	}
}

// take reports whether the key may proceed, creating its bucket on first
// sight. The idle sweep runs before the lookup so a stale bucket is evicted
// even when it is the one being fetched.
func (rl *RateLimiter) take(key string) bool {
	now := time.Now()

	rl.mu.Lock()
	rl.lookups++
	if rl.lookups >= sweepEvery {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.idleTTL {
				delete(rl.buckets, k)
			}
		}
		rl.lookups = 0
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.rps, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	lim := b.lim
	rl.mu.Unlock()

	return lim.Allow()
}

// IsRateBypass reports whether IdempotencyValidator flagged this request as
// a replay of an already completed call. Replays skip the limiter entirely.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler returns the limiting middleware. A denied request is answered
// with 429, Retry-After, and the standard error envelope:
//
//	{ "request_id": "<uuid>", "code": "rate_limited", "message": "rate limit exceeded" }
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}
		if rl.take(rl.keyFn(c)) {
			c.Next()
			return
		}

		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}

// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/nutrismart/go-nutrition-backend/internal/config"
	"github.com/nutrismart/go-nutrition-backend/internal/domain"
	"github.com/nutrismart/go-nutrition-backend/internal/http/handlers"
	"github.com/nutrismart/go-nutrition-backend/internal/http/middleware"
	"github.com/nutrismart/go-nutrition-backend/internal/repo"
	"github.com/nutrismart/go-nutrition-backend/internal/services"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"
)

// repoShim adapts the repository free functions to the narrow interfaces the
// services expect. This keeps services decoupled from the concrete repo
// package while reusing existing functions.
type repoShim struct{}

// GetUser proxies repo.GetUser.
func (repoShim) GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	return repo.GetUser(ctx, db, id)
}

// UpdateProfile proxies repo.UpdateProfile.
func (repoShim) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, p domain.Profile) error {
	return repo.UpdateProfile(ctx, db, userID, p)
}

// DeleteUser proxies repo.DeleteUser.
func (repoShim) DeleteUser(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteUser(ctx, db, id)
}

// CreateAnalysis proxies repo.CreateAnalysis.
func (repoShim) CreateAnalysis(ctx context.Context, db *gorm.DB, userID string, score int, analysisText, productText, summary string) (*domain.AnalysisRecord, error) {
	return repo.CreateAnalysis(ctx, db, userID, score, analysisText, productText, summary)
}

// ListAnalysesSince proxies repo.ListAnalysesSince.
func (repoShim) ListAnalysesSince(ctx context.Context, db *gorm.DB, userID string, since time.Time) ([]domain.AnalysisRecord, error) {
	return repo.ListAnalysesSince(ctx, db, userID, since)
}

// ListAnalysesSincePage proxies repo.ListAnalysesSincePage (pagination support).
func (repoShim) ListAnalysesSincePage(ctx context.Context, db *gorm.DB, userID string, since time.Time, offset, limit int) ([]domain.AnalysisRecord, error) {
	return repo.ListAnalysesSincePage(ctx, db, userID, since, offset, limit)
}

// CountAnalysesSince proxies repo.CountAnalysesSince (pagination support).
func (repoShim) CountAnalysesSince(ctx context.Context, db *gorm.DB, userID string, since time.Time) (int64, error) {
	return repo.CountAnalysesSince(ctx, db, userID, since)
}

// AnalysesStats proxies repo.AnalysesStats (history ETag inputs).
func (repoShim) AnalysesStats(ctx context.Context, db *gorm.DB, userID string, since time.Time) (int64, *time.Time, error) {
	return repo.AnalysesStats(ctx, db, userID, since)
}

// DeleteAnalysis proxies repo.DeleteAnalysis.
func (repoShim) DeleteAnalysis(ctx context.Context, db *gorm.DB, id, userID string) error {
	return repo.DeleteAnalysis(ctx, db, id, userID)
}

// DeleteAnalysesForUser proxies repo.DeleteAnalysesForUser.
func (repoShim) DeleteAnalysesForUser(ctx context.Context, db *gorm.DB, userID string) error {
	return repo.DeleteAnalysesForUser(ctx, db, userID)
}

// GetAnalysis proxies repo.GetAnalysis.
func (repoShim) GetAnalysis(ctx context.Context, db *gorm.DB, id, userID string) (*domain.AnalysisRecord, error) {
	return repo.GetAnalysis(ctx, db, id, userID)
}

// GetIdempotency proxies repo.GetIdempotency.
func (repoShim) GetIdempotency(ctx context.Context, db *gorm.DB, userID, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, db, userID, key, now)
}

// CreateIdempotency proxies repo.CreateIdempotency.
func (repoShim) CreateIdempotency(ctx context.Context, db *gorm.DB, userID, key, recordID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return repo.CreateIdempotency(ctx, db, userID, key, recordID, status, ttl)
}

// Clients groups the external AI clients the services need. They are injected
// so tests can substitute fakes without touching the network.
type Clients struct {
	Generator  services.Generator
	Recognizer services.Recognizer
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression (analysis texts compress well)
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, clients Clients, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key", // project-specific sensitive header example
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (16 MiB; two label photos plus form overhead)
	r.Use(limitBody(16 << 20))

	// 6) Compress responses (analysis texts and history pages compress well)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers. History and profile payloads are personal, so
	// responses are private-cache only; clients revalidate via the ETag.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		PrivateCache: true,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db/clients
	analysisSvc := services.NewAnalysisService(db, repoShim{}, repoShim{}, clients.Generator)
	analysisSvc.GenTimeout = cfg.Gemini.GenTimeout

	scanSvc := services.NewScanService(clients.Recognizer)
	scanSvc.OCRTimeout = cfg.Gemini.OCRTimeout

	historySvc := services.NewHistoryService(db, repoShim{})
	historySvc.WindowDays = cfg.RetentionDays

	profileSvc := services.NewProfileService(db, repoShim{})

	idemSvc := services.NewIdempotencyService(db, repoShim{})
	idemSvc.TTL = cfg.IdempotencyTTL

	h := handlers.New(analysisSvc, scanSvc, historySvc, profileSvc).WithIdempotency(idemSvc)
	stats := &handlers.StatsHandler{DB: db}

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Analysis pipeline
		api.POST("/ocr", h.Scan)
		api.POST("/analyze", h.Analyze)

		// History
		api.GET("/history", h.ListHistory)
		api.DELETE("/history/:id", h.DeleteHistory)

		// Profile
		api.GET("/profile", h.GetProfile)
		api.PUT("/profile", h.UpdateProfile)
		api.DELETE("/profile", h.DeleteProfile)

		// Service counters
		api.GET("/stats", stats.Stats)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

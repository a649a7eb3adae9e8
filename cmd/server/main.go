// Command server runs the nutrition analysis HTTP API: it loads configuration,
// opens the SQLite store, connects the Gemini client used for generation and
// label transcription, wires the router, and serves until SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/nutrismart/go-nutrition-backend/internal/config"
	"github.com/nutrismart/go-nutrition-backend/internal/domain"
	httpapi "github.com/nutrismart/go-nutrition-backend/internal/http"
	"github.com/nutrismart/go-nutrition-backend/internal/llm"
	"github.com/nutrismart/go-nutrition-backend/internal/observability"
	"github.com/nutrismart/go-nutrition-backend/internal/ocr"
	"github.com/nutrismart/go-nutrition-backend/internal/repo"
	"github.com/nutrismart/go-nutrition-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Observability (no-op unless OTEL_ENABLED)
	otelShutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	// Storage
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database failed")
	}

	// No identity layer ships with this service; requests without an upstream
	// identity fall back to a fixed development user, which must exist for
	// analyses to persist.
	if _, err := repo.GetUser(ctx, db, "demo-user"); errors.Is(err, repo.ErrNotFound) {
		if err := repo.CreateUser(ctx, db, &domain.User{ID: "demo-user", Name: "Demo"}); err != nil {
			log.Warn().Err(err).Msg("seed demo user")
		}
	}

	// One genai client serves both the analysis and the transcription models.
	if cfg.Gemini.APIKey == "" {
		log.Fatal().Msg("GEMINI_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		log.Fatal().Err(err).Msg("gemini client failed")
	}
	defer func() { _ = client.Close() }()

	clients := httpapi.Clients{
		Generator:  llm.NewGemini(client, cfg.Gemini.Model, float32(cfg.Gemini.Temperature)),
		Recognizer: ocr.NewGemini(client, cfg.Gemini.OCRModel),
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, clients, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// Package services – AnalysisService
//
// This file implements the AnalysisService, the application-level component
// that drives one product analysis end to end: validate the input, render
// the instruction prompt, invoke the external generation call, sanitize the
// raw response, parse the score line back out, and persist the record for
// the owning user.
//
// The whole pipeline is a pure function of its inputs plus one external
// call, so there is no retry logic here: a generation failure surfaces once
// as ErrGenerationFailed and the caller decides whether to resubmit (the
// HTTP layer offers Idempotency-Key for that).
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// the user id and the scored/persisted outcome flags.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
	"github.com/nutrismart/go-nutrition-backend/internal/nutrition"
	"github.com/nutrismart/go-nutrition-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// defaultSummary labels history entries whose product text had no usable line.
const defaultSummary = "Producto sin etiqueta"

// Generator is the external text-generation contract the orchestrator
// depends on. Implementations must honor the context deadline.
type Generator interface {
	// Generate produces free text for the given system instruction and prompt.
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// UserResolver resolves the owning user of an analysis.
type UserResolver interface {
	// GetUser fetches a user by id, returning repo.ErrNotFound when absent.
	GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error)
}

// AnalysisWriter persists completed analyses.
type AnalysisWriter interface {
	// CreateAnalysis inserts a new record with a server-assigned id and timestamp.
	CreateAnalysis(ctx context.Context, db *gorm.DB, userID string, score int, analysisText, productText, summary string) (*domain.AnalysisRecord, error)
}

// AnalysisResult is what an analyze call returns to the caller. Record is nil
// when the result could not be attributed to a durable user; the computed
// score and text are still valid in that case.
type AnalysisResult struct {
	Score        int    `json:"score"`
	AnalysisText string `json:"analysis"`
	// Scored is false when the response carried no score line, including the
	// deliberate non-food rejection. That is a valid terminal outcome, not
	// an error.
	Scored bool `json:"scored"`

	Record *domain.AnalysisRecord `json:"-"`
}

// ResultFromRecord rebuilds the analyze response payload from a persisted
// record, used when a retried request is served its original outcome.
func ResultFromRecord(rec *domain.AnalysisRecord) *AnalysisResult {
	return &AnalysisResult{
		Score:        rec.Score,
		AnalysisText: rec.AnalysisText,
		Scored:       rec.Score > 0,
		Record:       rec,
	}
}

// AnalysisService coordinates the analyze pipeline. All dependencies are
// injected at construction time; the service holds no mutable state and is
// safe for concurrent use.
type AnalysisService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Users resolves the owning user before persisting.
	Users UserResolver
	// Analyses persists completed records.
	Analyses AnalysisWriter
	// Generator is the external generation client.
	Generator Generator

	// GenTimeout bounds the single blocking external call. Zero disables it.
	GenTimeout time.Duration
	// SummaryMaxRunes caps the derived history label length.
	SummaryMaxRunes int
}

// NewAnalysisService constructs an AnalysisService with sane defaults.
func NewAnalysisService(db *gorm.DB, users UserResolver, analyses AnalysisWriter, gen Generator) *AnalysisService {
	return &AnalysisService{
		DB:              db,
		Users:           users,
		Analyses:        analyses,
		Generator:       gen,
		GenTimeout:      60 * time.Second,
		SummaryMaxRunes: 60,
	}
}

// Analyze runs the full pipeline for one product. Steps, each abortable by
// the previous step's failure:
//
//  1. validate presence of the profile and the product text (ErrBadInput),
//  2. render the deterministic prompt,
//  3. invoke generation with the plain-text system instruction,
//  4. sanitize the raw response,
//  5. extract the score (absence is the unscored branch, not an error),
//  6. resolve the owning user; when unresolved the computed result is
//     returned without persisting (documented edge case),
//  7. persist the record and return the result.
func (s *AnalysisService) Analyze(ctx context.Context, userID string, profile domain.Profile, productText string) (*AnalysisResult, error) {
	tr := otel.Tracer("services/AnalysisService")
	ctx, span := tr.Start(ctx, "Analyze",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if profile.Zero() || strings.TrimSpace(productText) == "" {
		return nil, ErrBadInput
	}
	if !profile.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrBadInput, ErrInvalidProfile)
	}

	prompt := nutrition.BuildPrompt(profile, productText)

	gctx := ctx
	if s.GenTimeout > 0 {
		var cancel context.CancelFunc
		gctx, cancel = context.WithTimeout(ctx, s.GenTimeout)
		defer cancel()
	}
	raw, err := s.Generator.Generate(gctx, nutrition.SystemInstruction, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	text := nutrition.Sanitize(raw)
	score, scored := nutrition.ExtractScore(text)
	span.SetAttributes(
		attribute.Int("analysis.score", score),
		attribute.Bool("analysis.scored", scored),
	)

	result := &AnalysisResult{Score: score, AnalysisText: text, Scored: scored}

	user, err := s.Users.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			// The computed result is still returned to the caller, it just
			// never becomes durable history. No orphan records are created.
			span.SetAttributes(attribute.Bool("analysis.persisted", false))
			return result, nil
		}
		return nil, err
	}

	summary := nutrition.Summarize(productText, s.SummaryMaxRunes)
	if summary == "" {
		summary = defaultSummary
	}
	rec, err := s.Analyses.CreateAnalysis(ctx, s.DB, user.ID, score, text, productText, summary)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("analysis.persisted", true))
	result.Record = rec
	return result, nil
}

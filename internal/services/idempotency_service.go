// Package services – IdempotencyService
//
// This file implements safe-retry support for the analyze endpoint. A
// completed analyze call can be recorded under the caller's Idempotency-Key;
// a later request with the same key is served the original record instead of
// re-running the external generation call.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
	"github.com/nutrismart/go-nutrition-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// IdemRepo is the persistence contract for idempotency records and the
// analyses they point at.
type IdemRepo interface {
	// GetIdempotency returns a non-expired record or repo.ErrNotFound.
	GetIdempotency(ctx context.Context, db *gorm.DB, userID, key string, now time.Time) (*domain.Idempotency, error)
	// CreateIdempotency inserts a record, returning repo.ErrDuplicate on conflict.
	CreateIdempotency(ctx context.Context, db *gorm.DB, userID, key, recordID string, status int, ttl time.Duration) (*domain.Idempotency, error)
	// GetAnalysis fetches one analysis by id, enforcing ownership.
	GetAnalysis(ctx context.Context, db *gorm.DB, id, userID string) (*domain.AnalysisRecord, error)
}

// IdempotencyService records completed analyze calls and replays them on
// retry. Safe for concurrent use.
type IdempotencyService struct {
	DB   *gorm.DB
	Repo IdemRepo

	// TTL is how long a recorded key remains replayable.
	TTL time.Duration
}

// NewIdempotencyService constructs an IdempotencyService with a 24h TTL.
func NewIdempotencyService(db *gorm.DB, r IdemRepo) *IdempotencyService {
	return &IdempotencyService{DB: db, Repo: r, TTL: 24 * time.Hour}
}

// Replay returns the analysis a previously recorded (user, key) points at.
// It returns (nil, nil) when no valid record exists or when the pointed-at
// analysis has since been deleted; the caller should recompute in that case.
func (s *IdempotencyService) Replay(ctx context.Context, userID, key string) (*domain.AnalysisRecord, error) {
	tr := otel.Tracer("services/IdempotencyService")
	ctx, span := tr.Start(ctx, "Replay",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	idem, err := s.Repo.GetIdempotency(ctx, s.DB, userID, key, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	rec, err := s.Repo.GetAnalysis(ctx, s.DB, idem.RecordID, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			// Stale pointer: the analysis was deleted after being recorded.
			span.SetAttributes(attribute.Bool("idempotency.stale", true))
			return nil, nil
		}
		return nil, err
	}
	span.SetAttributes(attribute.Bool("idempotency.replayed", true))
	return rec, nil
}

// Record stores the produced analysis id under (user, key). A concurrent
// duplicate insert is not an error: the first writer wins and both requests
// already hold the same outcome.
func (s *IdempotencyService) Record(ctx context.Context, userID, key, recordID string, status int) error {
	tr := otel.Tracer("services/IdempotencyService")
	ctx, span := tr.Start(ctx, "Record",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	_, err := s.Repo.CreateIdempotency(ctx, s.DB, userID, key, recordID, status, s.TTL)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

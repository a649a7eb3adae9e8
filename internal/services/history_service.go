// Package services – HistoryService
//
// HistoryService exposes the recent analyses of a user. The retention window
// is enforced at read time: listings only consider records created within
// the last WindowDays, nothing is deleted on the user's behalf. Deletion is
// always explicit, immediate, and scoped to the owning user.
package services

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
	"github.com/nutrismart/go-nutrition-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultWindowDays is the read-time retention window for history listings.
const DefaultWindowDays = 30

// HistoryRepo abstracts the persistence operations HistoryService needs.
type HistoryRepo interface {
	ListAnalysesSince(ctx context.Context, db *gorm.DB, userID string, since time.Time) ([]domain.AnalysisRecord, error)
	ListAnalysesSincePage(ctx context.Context, db *gorm.DB, userID string, since time.Time, offset, limit int) ([]domain.AnalysisRecord, error)
	CountAnalysesSince(ctx context.Context, db *gorm.DB, userID string, since time.Time) (int64, error)
	AnalysesStats(ctx context.Context, db *gorm.DB, userID string, since time.Time) (int64, *time.Time, error)
	DeleteAnalysis(ctx context.Context, db *gorm.DB, id, userID string) error
	DeleteAnalysesForUser(ctx context.Context, db *gorm.DB, userID string) error
}

// HistoryService serves per-user analysis history. Safe for concurrent use.
type HistoryService struct {
	DB   *gorm.DB
	Repo HistoryRepo
	// WindowDays is the listing horizon in days; older records stay stored
	// but are never returned.
	WindowDays int
}

// NewHistoryService constructs a HistoryService with the default window.
func NewHistoryService(db *gorm.DB, r HistoryRepo) *HistoryService {
	return &HistoryService{DB: db, Repo: r, WindowDays: DefaultWindowDays}
}

// WindowStart returns the inclusive lower bound of the listing window,
// evaluated against the supplied clock reading.
func (s *HistoryService) WindowStart(now time.Time) time.Time {
	days := s.WindowDays
	if days <= 0 {
		days = DefaultWindowDays
	}
	return now.UTC().AddDate(0, 0, -days)
}

// ListRecent returns the user's analyses within the window, newest first.
// An empty history is a valid result, not an error.
func (s *HistoryService) ListRecent(ctx context.Context, userID string) ([]domain.AnalysisRecord, error) {
	tr := otel.Tracer("services/HistoryService")
	ctx, span := tr.Start(ctx, "ListRecent",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	items, err := s.Repo.ListAnalysesSince(ctx, s.DB, userID, s.WindowStart(time.Now()))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("history.count", len(items)))
	return items, nil
}

// ListRecentPage returns one page of the windowed listing plus the total
// number of in-window records. page is 1-based; pageSize is clamped to a
// sane range.
func (s *HistoryService) ListRecentPage(ctx context.Context, userID string, page, pageSize int) ([]domain.AnalysisRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	since := s.WindowStart(time.Now())

	total, err := s.Repo.CountAnalysesSince(ctx, s.DB, userID, since)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.Repo.ListAnalysesSincePage(ctx, s.DB, userID, since, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// WindowStats returns the number of in-window records and the creation time
// of the newest one (nil when the window is empty). Handlers derive the
// history ETag from this pair, so it must be cheap relative to a full listing.
func (s *HistoryService) WindowStats(ctx context.Context, userID string) (int64, *time.Time, error) {
	return s.Repo.AnalysesStats(ctx, s.DB, userID, s.WindowStart(time.Now()))
}

// AverageScore is the rounded arithmetic mean of the records' scores. The
// mean of an empty slice is defined as zero.
func AverageScore(items []domain.AnalysisRecord) int {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, it := range items {
		sum += it.Score
	}
	return int(math.Round(float64(sum) / float64(len(items))))
}

// Delete removes one record owned by the user. The removal is a hard delete;
// repeating it reports ErrRecordNotFound.
func (s *HistoryService) Delete(ctx context.Context, userID, id string) error {
	err := s.Repo.DeleteAnalysis(ctx, s.DB, id, userID)
	if errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return err
}

// DeleteAllForUser removes every record the user owns, windowed or not.
func (s *HistoryService) DeleteAllForUser(ctx context.Context, userID string) error {
	return s.Repo.DeleteAnalysesForUser(ctx, s.DB, userID)
}

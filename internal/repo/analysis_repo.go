// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// AnalysisRecord model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Records are insert-only: there is no update function on purpose, and all
// deletes are hard deletes (the model has no soft-delete marker).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateAnalysis inserts a new analysis row owned by userID. The id is a
// randomly generated UUID (string), and CreatedAt is set to UTC. The score is
// expected to already be inside [0,100]; the schema enforces it again.
//
// On success, it returns the persisted record. On failure, a DB error.
func CreateAnalysis(ctx context.Context, db *gorm.DB, userID string, score int, analysisText, productText, summary string) (*domain.AnalysisRecord, error) {
	rec := &domain.AnalysisRecord{
		ID:           uuid.NewString(),
		UserID:       userID,
		Score:        score,
		AnalysisText: analysisText,
		ProductText:  productText,
		Summary:      summary,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// ListAnalysesSince returns all analyses belonging to userID created at or
// after the cutoff, ordered by creation time descending (most recent first).
// It returns an empty slice when nothing matches. Each call runs a fresh
// query; there is no cursor state to restart.
func ListAnalysesSince(ctx context.Context, db *gorm.DB, userID string, since time.Time) ([]domain.AnalysisRecord, error) {
	var out []domain.AnalysisRecord
	err := db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListAnalysesSincePage returns a paginated slice of the same window, ordered
// by creation time descending. Use CountAnalysesSince for the total.
func ListAnalysesSincePage(ctx context.Context, db *gorm.DB, userID string, since time.Time, offset, limit int) ([]domain.AnalysisRecord, error) {
	var out []domain.AnalysisRecord
	err := db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountAnalysesSince returns the number of analyses for userID inside the
// retention window starting at since.
func CountAnalysesSince(ctx context.Context, db *gorm.DB, userID string, since time.Time) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.AnalysisRecord{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&total).Error
	return total, err
}

// GetAnalysis fetches a single analysis by its ID and owner (userID). If the
// record does not exist, it returns ErrNotFound.
func GetAnalysis(ctx context.Context, db *gorm.DB, id, userID string) (*domain.AnalysisRecord, error) {
	var rec domain.AnalysisRecord
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteAnalysis hard-deletes a record by id, enforcing user ownership.
// If no rows are affected (record missing or not owned by userID), it
// returns ErrNotFound so callers can tell "already gone" from "failed".
func DeleteAnalysis(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.AnalysisRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAnalysesForUser hard-deletes every record owned by userID. Used when
// the owning account is removed. Deleting zero rows is not an error.
func DeleteAnalysesForUser(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.AnalysisRecord{}).Error
}

// DeleteOlderThan hard-deletes every record, regardless of owner, created
// before the cutoff. The retention window itself is a read-time filter; this
// helper exists so an operator job can reclaim storage if it ever needs to.
func DeleteOlderThan(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.AnalysisRecord{})
	return res.RowsAffected, res.Error
}

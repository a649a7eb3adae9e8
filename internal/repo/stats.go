// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) on the history endpoint and for
// the reporting screen. Each function is context-aware and safe to call
// from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
)

// AnalysesStats returns aggregate metadata for a user's analyses inside the
// retention window: the total number of rows and the maximum CreatedAt among
// them. Records never change after insertion, so (count, latest CreatedAt)
// fully identifies the state of a user's history for caching purposes.
//
// Return values:
//   - count:        total analyses for userID since the cutoff
//   - maxCreatedAt: pointer to the greatest CreatedAt, or nil if no rows
//   - err:          database error, if any
func AnalysesStats(ctx context.Context, db *gorm.DB, userID string, since time.Time) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).
		Model(&domain.AnalysisRecord{}).
		Where("user_id = ? AND created_at >= ?", userID, since)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}

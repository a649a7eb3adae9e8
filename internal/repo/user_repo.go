// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
)

// GetUser fetches a user by id, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user row. The id may be supplied by the identity
// layer; when empty a UUID is generated.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	return db.WithContext(ctx).Create(u).Error
}

// UpdateProfile overwrites the nutritional profile columns of a user.
// Returns ErrNotFound when the user does not exist. Profile validation is a
// service concern; this function persists whatever it is given.
func UpdateProfile(ctx context.Context, db *gorm.DB, id string, p domain.Profile) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"sex":            p.Sex,
			"age":            p.Age,
			"activity_level": p.ActivityLevel,
			"weight_kg":      p.WeightKg,
			"height_cm":      p.HeightCm,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUser hard-deletes a user row. Analyses cascade at the schema level,
// but callers should still run DeleteAnalysesForUser in the same transaction
// for drivers that skip FK enforcement. Returns ErrNotFound on zero rows.
func DeleteUser(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountUsers returns the total number of users.
func CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error
	return total, err
}

// CountUsersSince returns the number of users created at or after the cutoff.
func CountUsersSince(ctx context.Context, db *gorm.DB, since time.Time) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("created_at >= ?", since).
		Count(&total).Error
	return total, err
}

// CountAnalysesCreatedSince returns the number of analyses, across all users,
// created at or after the cutoff. Feeds the reporting endpoint.
func CountAnalysesCreatedSince(ctx context.Context, db *gorm.DB, since time.Time) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.AnalysisRecord{}).
		Where("created_at >= ?", since).
		Count(&total).Error
	return total, err
}

// Package services – ProfileService
//
// ProfileService reads and updates the nutritional profile attached to a
// user, and removes accounts. Account removal is transactional: the user's
// analyses go first, then the user row, so a failure never leaves orphans.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
	"github.com/nutrismart/go-nutrition-backend/internal/repo"
)

// ProfileRepo abstracts the persistence operations ProfileService needs.
type ProfileRepo interface {
	GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, p domain.Profile) error
	DeleteUser(ctx context.Context, db *gorm.DB, id string) error
	DeleteAnalysesForUser(ctx context.Context, db *gorm.DB, userID string) error
}

// ProfileService manages user profiles. Safe for concurrent use.
type ProfileService struct {
	DB   *gorm.DB
	Repo ProfileRepo
}

// NewProfileService constructs a ProfileService.
func NewProfileService(db *gorm.DB, r ProfileRepo) *ProfileService {
	return &ProfileService{DB: db, Repo: r}
}

// Get returns the stored profile of the user, or ErrUserNotFound.
func (s *ProfileService) Get(ctx context.Context, userID string) (domain.Profile, error) {
	u, err := s.Repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Profile{}, ErrUserNotFound
		}
		return domain.Profile{}, err
	}
	return domain.ProfileOf(u), nil
}

// Update validates and stores a new profile for the user. Rejects values
// outside the allowed domains with ErrInvalidProfile.
func (s *ProfileService) Update(ctx context.Context, userID string, p domain.Profile) error {
	if !p.Valid() {
		return ErrInvalidProfile
	}
	err := s.Repo.UpdateProfile(ctx, s.DB, userID, p)
	if errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

// DeleteAccount removes the user and all of their analyses atomically.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.DeleteAnalysesForUser(ctx, tx, userID); err != nil {
			return err
		}
		return s.Repo.DeleteUser(ctx, tx, userID)
	})
	if errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
)

func TestCreateUser_GeneratesIDWhenEmpty(t *testing.T) {
	db := newRepoDB(t, &domain.User{})

	u := &domain.User{Email: "ana@example.com", Name: "Ana"}
	if err := CreateUser(context.Background(), db, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected generated id")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", u)
	}

	got, err := GetUser(context.Background(), db, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "ana@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreateUser_KeepsSuppliedID(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	u := &domain.User{ID: "ext-id-1", Email: "x@example.com"}
	if err := CreateUser(context.Background(), db, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID != "ext-id-1" {
		t.Fatalf("supplied id overwritten: %q", u.ID)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	if _, err := GetUser(context.Background(), db, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	seedUser(t, db, "u1")

	p := domain.Profile{Sex: domain.SexFemale, Age: 34, ActivityLevel: domain.ActivityModerate, WeightKg: 62, HeightCm: 165}
	if err := UpdateProfile(context.Background(), db, "u1", p); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	got, err := GetUser(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if domain.ProfileOf(got) != p {
		t.Fatalf("profile not persisted: %+v", got)
	}

	if err := UpdateProfile(context.Background(), db, "ghost", p); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing user, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	seedUser(t, db, "u1")

	if err := DeleteUser(context.Background(), db, "u1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if err := DeleteUser(context.Background(), db, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestUserCounters(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.AnalysisRecord{})
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")

	// Push u1's creation into the past.
	old := time.Now().UTC().AddDate(0, 0, -2)
	if err := db.Model(&domain.User{}).Where("id = ?", "u1").Update("created_at", old).Error; err != nil {
		t.Fatalf("backdate u1: %v", err)
	}

	total, err := CountUsers(context.Background(), db)
	if err != nil || total != 2 {
		t.Fatalf("CountUsers = %d, err = %v", total, err)
	}

	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	recent, err := CountUsersSince(context.Background(), db, midnight)
	if err != nil || recent != 1 {
		t.Fatalf("CountUsersSince = %d, err = %v", recent, err)
	}

	seedAnalysisAt(t, db, "a1", "u2", 50, time.Now().UTC())
	seedAnalysisAt(t, db, "a0", "u2", 50, old)
	today, err := CountAnalysesCreatedSince(context.Background(), db, midnight)
	if err != nil || today != 1 {
		t.Fatalf("CountAnalysesCreatedSince = %d, err = %v", today, err)
	}
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
	"github.com/nutrismart/go-nutrition-backend/internal/repo"
)

type fakeIdemRepo struct {
	get         func(ctx context.Context, db *gorm.DB, userID, key string, now time.Time) (*domain.Idempotency, error)
	create      func(ctx context.Context, db *gorm.DB, userID, key, recordID string, status int, ttl time.Duration) (*domain.Idempotency, error)
	getAnalysis func(ctx context.Context, db *gorm.DB, id, userID string) (*domain.AnalysisRecord, error)
}

func (f fakeIdemRepo) GetIdempotency(ctx context.Context, db *gorm.DB, userID, key string, now time.Time) (*domain.Idempotency, error) {
	return f.get(ctx, db, userID, key, now)
}

func (f fakeIdemRepo) CreateIdempotency(ctx context.Context, db *gorm.DB, userID, key, recordID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return f.create(ctx, db, userID, key, recordID, status, ttl)
}

func (f fakeIdemRepo) GetAnalysis(ctx context.Context, db *gorm.DB, id, userID string) (*domain.AnalysisRecord, error) {
	return f.getAnalysis(ctx, db, id, userID)
}

func TestReplay_NotRecorded(t *testing.T) {
	svc := NewIdempotencyService(nil, fakeIdemRepo{
		get: func(context.Context, *gorm.DB, string, string, time.Time) (*domain.Idempotency, error) {
			return nil, repo.ErrNotFound
		},
	})

	rec, err := svc.Replay(context.Background(), "u1", "k1")
	if err != nil || rec != nil {
		t.Fatalf("Replay = (%v, %v); want (nil, nil)", rec, err)
	}
}

func TestReplay_ReturnsPointedAtRecord(t *testing.T) {
	want := &domain.AnalysisRecord{ID: "a1", UserID: "u1", Score: 70}
	svc := NewIdempotencyService(nil, fakeIdemRepo{
		get: func(_ context.Context, _ *gorm.DB, userID, key string, _ time.Time) (*domain.Idempotency, error) {
			if userID != "u1" || key != "k1" {
				t.Fatalf("lookup got (%q, %q)", userID, key)
			}
			return &domain.Idempotency{UserID: "u1", Key: "k1", RecordID: "a1"}, nil
		},
		getAnalysis: func(_ context.Context, _ *gorm.DB, id, userID string) (*domain.AnalysisRecord, error) {
			if id != "a1" || userID != "u1" {
				t.Fatalf("GetAnalysis got (%q, %q)", id, userID)
			}
			return want, nil
		},
	})

	rec, err := svc.Replay(context.Background(), "u1", "k1")
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if rec != want {
		t.Fatalf("Replay returned %+v", rec)
	}
}

func TestReplay_StalePointerRecomputes(t *testing.T) {
	svc := NewIdempotencyService(nil, fakeIdemRepo{
		get: func(context.Context, *gorm.DB, string, string, time.Time) (*domain.Idempotency, error) {
			return &domain.Idempotency{RecordID: "gone"}, nil
		},
		getAnalysis: func(context.Context, *gorm.DB, string, string) (*domain.AnalysisRecord, error) {
			return nil, gorm.ErrRecordNotFound
		},
	})

	rec, err := svc.Replay(context.Background(), "u1", "k1")
	if err != nil || rec != nil {
		t.Fatalf("stale pointer should yield (nil, nil); got (%v, %v)", rec, err)
	}
}

func TestReplay_LookupErrorBubbles(t *testing.T) {
	boom := errors.New("db down")
	svc := NewIdempotencyService(nil, fakeIdemRepo{
		get: func(context.Context, *gorm.DB, string, string, time.Time) (*domain.Idempotency, error) {
			return nil, boom
		},
	})

	if _, err := svc.Replay(context.Background(), "u1", "k1"); !errors.Is(err, boom) {
		t.Fatalf("err = %v; want %v", err, boom)
	}
}

func TestRecord_DuplicateIsNotAnError(t *testing.T) {
	svc := NewIdempotencyService(nil, fakeIdemRepo{
		create: func(context.Context, *gorm.DB, string, string, string, int, time.Duration) (*domain.Idempotency, error) {
			return nil, repo.ErrDuplicate
		},
	})

	if err := svc.Record(context.Background(), "u1", "k1", "a1", 200); err != nil {
		t.Fatalf("duplicate insert should be swallowed: %v", err)
	}
}

func TestRecord_PassesTTLAndBubblesErrors(t *testing.T) {
	boom := errors.New("insert failed")
	var gotTTL time.Duration
	svc := NewIdempotencyService(nil, fakeIdemRepo{
		create: func(_ context.Context, _ *gorm.DB, _, _, _ string, _ int, ttl time.Duration) (*domain.Idempotency, error) {
			gotTTL = ttl
			return nil, boom
		},
	})
	svc.TTL = 2 * time.Hour

	if err := svc.Record(context.Background(), "u1", "k1", "a1", 200); !errors.Is(err, boom) {
		t.Fatalf("err = %v; want %v", err, boom)
	}
	if gotTTL != 2*time.Hour {
		t.Fatalf("ttl = %v", gotTTL)
	}
}

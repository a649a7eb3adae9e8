package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
)

func TestIdempotency_CreateAndGet(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	rec, err := CreateIdempotency(ctx, db, "u1", "key-1", "rec-1", 200, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.ID == "" || rec.RecordID != "rec-1" || rec.Status != 200 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "key-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GetIdempotency: %v", err)
	}
	if got.RecordID != "rec-1" {
		t.Fatalf("unexpected replay pointer: %+v", got)
	}
}

func TestIdempotency_DuplicateKey(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "key-1", "rec-1", 200, time.Hour); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "key-1", "rec-2", 200, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// Same key is fine for a different user.
	if _, err := CreateIdempotency(ctx, db, "u2", "key-1", "rec-3", 200, time.Hour); err != nil {
		t.Fatalf("other user create: %v", err)
	}
}

func TestIdempotency_ExpiredAndBlankKey(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "key-exp", "rec-1", 200, time.Millisecond); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "key-exp", time.Now().UTC().Add(time.Second)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired record, got %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "   ", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank key, got %v", err)
	}
}

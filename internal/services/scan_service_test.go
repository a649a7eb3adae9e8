package services

import (
	"context"
	"errors"
	"testing"
)

type fakeRecognizer struct {
	// texts maps the first byte of the image payload to the transcription,
	// so one fake can answer differently per image.
	texts map[byte]string
	err   error
	calls int
}

func (r *fakeRecognizer) RecognizeText(ctx context.Context, image []byte, format string) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.texts[image[0]], nil
}

func TestScan_RejectsMissingImage(t *testing.T) {
	svc := NewScanService(&fakeRecognizer{})

	if _, err := svc.Recognize(context.Background(), Image{}, Image{Data: []byte{1}, Format: "jpeg"}); !errors.Is(err, ErrBadInput) {
		t.Fatalf("expected ErrBadInput for missing table image, got %v", err)
	}
	if _, err := svc.Recognize(context.Background(), Image{Data: []byte{1}, Format: "jpeg"}, Image{}); !errors.Is(err, ErrBadInput) {
		t.Fatalf("expected ErrBadInput for missing ingredients image, got %v", err)
	}
}

func TestScan_RecognizerFailure(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("quota")}
	svc := NewScanService(rec)

	_, err := svc.Recognize(context.Background(), Image{Data: []byte{1}, Format: "jpeg"}, Image{Data: []byte{2}, Format: "jpeg"})
	if !errors.Is(err, ErrRecognitionFailed) {
		t.Fatalf("expected ErrRecognitionFailed, got %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("second image must not be sent after a failure; calls = %d", rec.calls)
	}
}

func TestScan_BothEmpty(t *testing.T) {
	rec := &fakeRecognizer{texts: map[byte]string{1: "  ", 2: "\n"}}
	svc := NewScanService(rec)

	_, err := svc.Recognize(context.Background(), Image{Data: []byte{1}, Format: "jpeg"}, Image{Data: []byte{2}, Format: "png"})
	if !errors.Is(err, ErrNoTextRecovered) {
		t.Fatalf("expected ErrNoTextRecovered, got %v", err)
	}
}

func TestScan_CombinesTableFirst(t *testing.T) {
	rec := &fakeRecognizer{texts: map[byte]string{1: "CALORÍAS 100", 2: "agua, sal"}}
	svc := NewScanService(rec)

	got, err := svc.Recognize(context.Background(), Image{Data: []byte{1}, Format: "jpeg"}, Image{Data: []byte{2}, Format: "png"})
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if got != "CALORÍAS 100\n\nagua, sal" {
		t.Fatalf("combined = %q", got)
	}
}

func TestScan_SingleEmptySideIsFine(t *testing.T) {
	rec := &fakeRecognizer{texts: map[byte]string{1: "", 2: "agua"}}
	svc := NewScanService(rec)

	got, err := svc.Recognize(context.Background(), Image{Data: []byte{1}, Format: "jpeg"}, Image{Data: []byte{2}, Format: "jpeg"})
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if got != "\n\nagua" {
		t.Fatalf("combined = %q", got)
	}
}

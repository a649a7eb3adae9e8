// Package services – ScanService
//
// ScanService turns the two label photographs (nutrition table and
// ingredients list) into one combined text block ready for analysis. Each
// image goes through the external recognizer independently; a single photo
// may legitimately come back empty, only both empty is an error.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nutrismart/go-nutrition-backend/internal/nutrition"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Recognizer is the external text-recognition contract.
type Recognizer interface {
	// RecognizeText transcribes visible text from one image. format is the
	// image subtype without the "image/" prefix, e.g. "jpeg" or "png".
	RecognizeText(ctx context.Context, image []byte, format string) (string, error)
}

// Image is one uploaded photograph.
type Image struct {
	Data   []byte
	Format string
}

// ScanService recognizes label photographs. Safe for concurrent use.
type ScanService struct {
	// Recognizer is the external recognition client.
	Recognizer Recognizer
	// OCRTimeout bounds each recognition call. Zero disables it.
	OCRTimeout time.Duration
}

// NewScanService constructs a ScanService with a default per-call timeout.
func NewScanService(rec Recognizer) *ScanService {
	return &ScanService{Recognizer: rec, OCRTimeout: 60 * time.Second}
}

// Recognize transcribes both images and combines them, table text first.
// Returns ErrBadInput when either image is missing, ErrRecognitionFailed
// when the external call fails, and ErrNoTextRecovered when neither image
// yielded any text.
func (s *ScanService) Recognize(ctx context.Context, table, ingredients Image) (string, error) {
	tr := otel.Tracer("services/ScanService")
	ctx, span := tr.Start(ctx, "Recognize")
	defer span.End()

	if len(table.Data) == 0 || len(ingredients.Data) == 0 {
		return "", ErrBadInput
	}

	tableText, err := s.recognizeOne(ctx, table)
	if err != nil {
		return "", err
	}
	ingredientsText, err := s.recognizeOne(ctx, ingredients)
	if err != nil {
		return "", err
	}

	combined, err := nutrition.CombineOCR(tableText, ingredientsText)
	if err != nil {
		return "", err
	}
	span.SetAttributes(attribute.Int("scan.text_len", len(combined)))
	return combined, nil
}

func (s *ScanService) recognizeOne(ctx context.Context, img Image) (string, error) {
	if s.OCRTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.OCRTimeout)
		defer cancel()
	}
	text, err := s.Recognizer.RecognizeText(ctx, img.Data, img.Format)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRecognitionFailed, err)
	}
	return text, nil
}

// Analysis HTTP handlers.
//
// This file exposes the two entry points of the analysis pipeline:
//   - POST /ocr      (multipart: tabla + ingredientes images → combined text)
//   - POST /analyze  (JSON: profile + product text → scored analysis)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
	"github.com/nutrismart/go-nutrition-backend/internal/http/middleware"
	"github.com/nutrismart/go-nutrition-backend/internal/services"
	"github.com/nutrismart/go-nutrition-backend/internal/sysutil"
	"github.com/nutrismart/go-nutrition-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// AnalysisService defines the analyze pipeline operation consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AnalysisService interface {
	// Analyze scores one product for the given profile and product text.
	Analyze(ctx context.Context, userID string, profile domain.Profile, productText string) (*services.AnalysisResult, error)
}

// ScanService defines the label-photo recognition operation.
type ScanService interface {
	// Recognize transcribes both label images and combines them, table first.
	Recognize(ctx context.Context, table, ingredients services.Image) (string, error)
}

// HistoryService defines the per-user history operations.
type HistoryService interface {
	// ListRecentPage returns one page of the windowed listing plus the total.
	ListRecentPage(ctx context.Context, userID string, page, pageSize int) ([]domain.AnalysisRecord, int64, error)
	// ListRecent returns all windowed records, newest first.
	ListRecent(ctx context.Context, userID string) ([]domain.AnalysisRecord, error)
	// WindowStats returns the in-window record count and newest creation
	// time, the inputs of the history ETag.
	WindowStats(ctx context.Context, userID string) (int64, *time.Time, error)
	// Delete removes one record owned by the user.
	Delete(ctx context.Context, userID, id string) error
}

// ProfileService defines profile read/update and account removal.
type ProfileService interface {
	Get(ctx context.Context, userID string) (domain.Profile, error)
	Update(ctx context.Context, userID string, p domain.Profile) error
	DeleteAccount(ctx context.Context, userID string) error
}

// IdempotencyService records completed analyze calls and replays them on
// retried requests carrying the same Idempotency-Key.
type IdempotencyService interface {
	// Replay returns the original record for (user, key), or nil when the
	// key was never recorded (or the record is gone) and a recompute is due.
	Replay(ctx context.Context, userID, key string) (*domain.AnalysisRecord, error)
	// Record stores the produced analysis id under (user, key).
	Record(ctx context.Context, userID, key, recordID string, status int) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for analysis, scanning, history, and profiles.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	analysisSvc AnalysisService
	scanSvc     ScanService
	historySvc  HistoryService
	profileSvc  ProfileService
	idemSvc     IdempotencyService // optional; nil disables replay
}

// New constructs and returns a Handlers instance bound to the given services.
func New(analysisSvc AnalysisService, scanSvc ScanService, historySvc HistoryService, profileSvc ProfileService) *Handlers {
	return &Handlers{
		analysisSvc: analysisSvc,
		scanSvc:     scanSvc,
		historySvc:  historySvc,
		profileSvc:  profileSvc,
	}
}

// WithIdempotency enables replay/record of analyze calls and returns h.
func (h *Handlers) WithIdempotency(svc IdempotencyService) *Handlers {
	h.idemSvc = svc
	return h
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	var header string
	if c != nil && c.Request != nil {
		header = strings.TrimSpace(c.GetHeader("X-User-ID"))
	}
	return sysutil.FirstNonEmpty(header, "demo-user")
}

//
// DTOs
//

// AnalyzeRequest is the JSON payload for scoring a product.
type AnalyzeRequest struct {
	// UserData is the consumer's nutritional profile at analysis time.
	UserData domain.Profile `json:"user_data" binding:"required"`
	// ProductText is the label text, usually produced by POST /ocr.
	ProductText string `json:"product_text" binding:"required"`
}

// ScanResponse carries the combined label text recovered from the images.
type ScanResponse struct {
	Text string `json:"text"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

// maxImageBytes caps a single uploaded label photo.
const maxImageBytes = 8 << 20

// readImage loads one multipart image field into memory and derives the
// format ("jpeg", "png", ...) from the part's declared content type.
func readImage(fh *multipart.FileHeader) (services.Image, error) {
	f, err := fh.Open()
	if err != nil {
		return services.Image{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return services.Image{}, err
	}
	if len(data) > maxImageBytes {
		return services.Image{}, errors.New("image too large")
	}

	ct := fh.Header.Get("Content-Type")
	format, found := strings.CutPrefix(ct, "image/")
	if !found || format == "" {
		return services.Image{}, errors.New("unsupported content type " + ct)
	}
	return services.Image{Data: data, Format: format}, nil
}

//
// Handlers
//

// Scan handles POST /ocr. It expects a multipart form with two image fields,
// "tabla" (the nutrition facts table) and "ingredientes" (the ingredients
// list), and responds with the combined transcription.
func (h *Handlers) Scan(c *gin.Context) {
	tablaFH, err := c.FormFile("tabla")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "image field 'tabla' is required")
		return
	}
	ingrFH, err := c.FormFile("ingredientes")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "image field 'ingredientes' is required")
		return
	}

	tabla, err := readImage(tablaFH)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "tabla: "+err.Error())
		return
	}
	ingr, err := readImage(ingrFH)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ingredientes: "+err.Error())
		return
	}

	text, err := h.scanSvc.Recognize(c.Request.Context(), tabla, ingr)
	switch {
	case err == nil:
		scanOutcomes.WithLabelValues(outcomeOK).Inc()
		ok(c, http.StatusOK, ScanResponse{Text: text})
	case errors.Is(err, services.ErrBadInput):
		scanOutcomes.WithLabelValues(outcomeRejected).Inc()
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "both label images are required")
	case errors.Is(err, services.ErrNoTextRecovered):
		scanOutcomes.WithLabelValues(outcomeNoText).Inc()
		fail(c, http.StatusUnprocessableEntity, ErrCodeNoTextRecovered, "no text could be recovered from the images")
	default:
		scanOutcomes.WithLabelValues(outcomeFailed).Inc()
		fail(c, http.StatusInternalServerError, ErrCodeRecognitionFailed, err.Error())
	}
}

// Analyze handles POST /analyze. It scores the product for the caller's
// profile; the response always carries the sanitized analysis text and the
// extracted score (0 when the response was unscored).
//
// When the request carries a previously recorded Idempotency-Key, the
// original persisted outcome is returned and the generation call is skipped.
func (h *Handlers) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_data and product_text are required")
		return
	}

	uid := userID(c)
	key, hasKey := middleware.GetIdempotencyKey(c)

	if hasKey && h.idemSvc != nil && middleware.IsReplay(c) {
		rec, err := h.idemSvc.Replay(c.Request.Context(), uid, key)
		if err == nil && rec != nil {
			analysisOutcomes.WithLabelValues(outcomeReplayed).Inc()
			c.Header("Idempotency-Replayed", "true")
			ok(c, http.StatusOK, services.ResultFromRecord(rec))
			return
		}
		// Stale pointer or lookup failure: recompute below.
	}

	res, err := h.analysisSvc.Analyze(c.Request.Context(), uid, req.UserData, req.ProductText)
	switch {
	case err == nil:
		if res != nil && res.Scored {
			analysisOutcomes.WithLabelValues(outcomeScored).Inc()
		} else {
			analysisOutcomes.WithLabelValues(outcomeUnscored).Inc()
		}
		if hasKey && h.idemSvc != nil && res != nil && res.Record != nil {
			// Best effort; a failed insert only costs a future recompute.
			_ = h.idemSvc.Record(c.Request.Context(), uid, key, res.Record.ID, http.StatusOK)
		}
		ok(c, http.StatusOK, res)
	case errors.Is(err, services.ErrBadInput):
		analysisOutcomes.WithLabelValues(outcomeRejected).Inc()
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		analysisOutcomes.WithLabelValues(outcomeFailed).Inc()
		fail(c, http.StatusInternalServerError, ErrCodeAnalysisFailed, err.Error())
	}
}

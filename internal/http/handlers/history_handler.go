// History HTTP handlers.
//
// This file exposes REST endpoints for the analysis history:
//   - GET    /history        (list, paginated, windowed, ETag support)
//   - DELETE /history/{id}   (hard delete of one record)
//
// Listings only cover the retention window; the average score is computed
// over the returned window, not the page.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
	"github.com/nutrismart/go-nutrition-backend/internal/services"
)

// HistoryResponse wraps a page of analyses, their windowed average score,
// and pagination information.
type HistoryResponse struct {
	Analyses     []domain.AnalysisRecord `json:"analyses"`
	AverageScore int                     `json:"average_score"`
	Pagination   Pagination              `json:"pagination"`
}

// ListHistory handles GET /history. It returns a page of the caller's recent
// analyses (newest first) plus the average score over the whole window.
// Supports weak ETag via If-None-Match and may return 304.
func (h *Handlers) ListHistory(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort; a stats failure just skips the header).
	if count, latest, err := h.historySvc.WindowStats(ctx, uid); err == nil {
		var ts int64
		if latest != nil {
			ts = latest.Unix()
		}
		etag := fmt.Sprintf(`W/"history:%s:%d:%d"`, uid, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	// The average covers the whole window, so fetch it independently of the
	// requested page.
	all, err := h.historySvc.ListRecent(ctx, uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	items, total, err := h.historySvc.ListRecentPage(ctx, uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := HistoryResponse{
		Analyses:     items,
		AverageScore: services.AverageScore(all),
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// DeleteHistory handles DELETE /history/{id}. Removal is immediate and
// permanent; deleting an already removed record reports 404.
func (h *Handlers) DeleteHistory(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "analysis id must be a UUID")
		return
	}

	err := h.historySvc.Delete(c.Request.Context(), userID(c), id)
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrRecordNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "analysis not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// Stats HTTP handler.
//
// GET /stats reports coarse service-level counters. It queries the
// repository directly: the numbers are global, not per-user, and need no
// business logic in between.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nutrismart/go-nutrition-backend/internal/repo"
)

// StatsResponse aggregates service-level counters.
type StatsResponse struct {
	TotalUsers    int64 `json:"total_users"`
	NewUsersToday int64 `json:"new_users_today"`
	AnalysesToday int64 `json:"analyses_today"`
}

// StatsHandler serves the counters endpoint. It is wired separately from
// Handlers because it talks to the database directly.
type StatsHandler struct {
	DB *gorm.DB
}

// Stats handles GET /stats. "Today" starts at midnight UTC.
func (h *StatsHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	midnight := time.Now().UTC().Truncate(24 * time.Hour)

	total, err := repo.CountUsers(ctx, h.DB)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	newToday, err := repo.CountUsersSince(ctx, h.DB, midnight)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	analysesToday, err := repo.CountAnalysesCreatedSince(ctx, h.DB, midnight)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusOK, StatsResponse{
		TotalUsers:    total,
		NewUsersToday: newToday,
		AnalysesToday: analysesToday,
	})
}

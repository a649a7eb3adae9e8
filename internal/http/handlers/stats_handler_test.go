package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
)

func TestStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	now := time.Now().UTC()
	old := now.AddDate(0, 0, -3)
	users := []domain.User{
		{ID: "u1", CreatedAt: old, UpdatedAt: old},
		{ID: "u2", CreatedAt: now, UpdatedAt: now},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	records := []domain.AnalysisRecord{
		{ID: uuid.NewString(), UserID: "u2", Score: 40, CreatedAt: now},
		{ID: uuid.NewString(), UserID: "u2", Score: 60, CreatedAt: old},
	}
	for i := range records {
		if err := db.Create(&records[i]).Error; err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	h := &StatsHandler{DB: db}
	r := gin.New()
	r.GET("/stats", h.Stats)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rec.Code, rec.Body.String())
	}
	var resp StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalUsers != 2 || resp.NewUsersToday != 1 || resp.AnalysesToday != 1 {
		t.Fatalf("stats = %+v", resp)
	}
}

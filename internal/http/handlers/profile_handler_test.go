package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
	"github.com/nutrismart/go-nutrition-backend/internal/services"
)

func TestGetProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	want := domain.Profile{Sex: domain.SexMale, Age: 41, ActivityLevel: domain.ActivityNone, WeightKg: 92, HeightCm: 178}
	prof := stubProfileSvc{
		get:    func(ctx context.Context, uid string) (domain.Profile, error) { return want, nil },
		update: func(context.Context, string, domain.Profile) error { return nil },
		delAcc: func(context.Context, string) error { return nil },
	}
	h := newTestHandlers(nil, nil, nil, prof)

	r := gin.New()
	r.GET("/profile", h.GetProfile)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got domain.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("profile = %+v; want %+v", got, want)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	prof := stubProfileSvc{
		get:    func(context.Context, string) (domain.Profile, error) { return domain.Profile{}, services.ErrUserNotFound },
		update: func(context.Context, string, domain.Profile) error { return nil },
		delAcc: func(context.Context, string) error { return nil },
	}
	h := newTestHandlers(nil, nil, nil, prof)

	r := gin.New()
	r.GET("/profile", h.GetProfile)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", rec.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := map[string]struct {
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		"missing fields": {`{"sex":"male"}`, nil, http.StatusBadRequest, ErrCodeBadRequest},
		"invalid values": {`{"sex":"robot","age":30,"activity_level":"none","weight_kg":70,"height_cm":175}`, services.ErrInvalidProfile, http.StatusUnprocessableEntity, ErrCodeInvalidProfile},
		"unknown user":   {`{"sex":"male","age":30,"activity_level":"none","weight_kg":70,"height_cm":175}`, services.ErrUserNotFound, http.StatusNotFound, ErrCodeNotFound},
		"stored":         {`{"sex":"male","age":30,"activity_level":"none","weight_kg":70,"height_cm":175}`, nil, http.StatusNoContent, ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			prof := stubProfileSvc{
				get:    func(context.Context, string) (domain.Profile, error) { return domain.Profile{}, nil },
				update: func(context.Context, string, domain.Profile) error { return tc.svcErr },
				delAcc: func(context.Context, string) error { return nil },
			}
			h := newTestHandlers(nil, nil, nil, prof)
			r := gin.New()
			r.PUT("/profile", h.UpdateProfile)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/profile", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantCode != "" {
				var er ErrorResponse
				_ = json.Unmarshal(rec.Body.Bytes(), &er)
				if er.Code != tc.wantCode {
					t.Fatalf("code = %q; want %q", er.Code, tc.wantCode)
				}
			}
		})
	}
}

func TestDeleteProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var deleted string
	prof := stubProfileSvc{
		get:    func(context.Context, string) (domain.Profile, error) { return domain.Profile{}, nil },
		update: func(context.Context, string, domain.Profile) error { return nil },
		delAcc: func(ctx context.Context, uid string) error { deleted = uid; return nil },
	}
	h := newTestHandlers(nil, nil, nil, prof)
	r := gin.New()
	r.DELETE("/profile", h.DeleteProfile)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/profile", nil)
	req.Header.Set("X-User-ID", "u-9")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d; want 204", rec.Code)
	}
	if deleted != "u-9" {
		t.Fatalf("deleted user = %q", deleted)
	}
}

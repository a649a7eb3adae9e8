package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/nutrismart/go-nutrition-backend/internal/domain"
	"github.com/nutrismart/go-nutrition-backend/internal/services"
)

func postAnalyze(r *gin.Engine) *httptest.ResponseRecorder {
	body, _ := json.Marshal(AnalyzeRequest{
		UserData: domain.Profile{
			Sex: domain.SexFemale, Age: 28, ActivityLevel: domain.ActivityIntense,
			WeightKg: 61, HeightCm: 165,
		},
		ProductText: "Galletitas de avena",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyze_CountsOutcomes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := map[string]struct {
		result  *services.AnalysisResult
		err     error
		outcome string
	}{
		"scored":   {&services.AnalysisResult{Score: 70, Scored: true}, nil, outcomeScored},
		"unscored": {&services.AnalysisResult{Score: 0, Scored: false}, nil, outcomeUnscored},
		"failed":   {nil, errors.New("generation timed out"), outcomeFailed},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := stubAnalysisSvc{analyze: func(context.Context, string, domain.Profile, string) (*services.AnalysisResult, error) {
				return tc.result, tc.err
			}}
			h := newTestHandlers(svc, nil, nil, nil)
			r := gin.New()
			r.POST("/analyze", h.Analyze)

			before := testutil.ToFloat64(analysisOutcomes.WithLabelValues(tc.outcome))
			postAnalyze(r)
			after := testutil.ToFloat64(analysisOutcomes.WithLabelValues(tc.outcome))
			if after != before+1 {
				t.Fatalf("outcome %q counter = %v; want %v", tc.outcome, after, before+1)
			}
		})
	}
}

func TestScan_CountsNoTextOutcome(t *testing.T) {
	gin.SetMode(gin.TestMode)

	scan := stubScanSvc{recognize: func(context.Context, services.Image, services.Image) (string, error) {
		return "", services.ErrNoTextRecovered
	}}
	h := newTestHandlers(nil, scan, nil, nil)
	r := gin.New()
	r.POST("/ocr", h.Scan)

	before := testutil.ToFloat64(scanOutcomes.WithLabelValues(outcomeNoText))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, scanRequest(t, map[string][]byte{
		"tabla":        []byte("img-a"),
		"ingredientes": []byte("img-b"),
	}))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d; want 422", w.Code)
	}
	after := testutil.ToFloat64(scanOutcomes.WithLabelValues(outcomeNoText))
	if after != before+1 {
		t.Fatalf("no_text counter = %v; want %v", after, before+1)
	}
}

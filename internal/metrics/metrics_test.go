package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/clauseguard/internal/apperr"
	"github.com/sprite-ai/clauseguard/internal/model"
	"github.com/sprite-ai/clauseguard/internal/review"
)

func TestObserveAnalysis(t *testing.T) {
	c := New()

	c.ObserveAnalysis(&model.AnalysisResult{
		Jurisdiction:    "CA",
		TotalRiskScore:  64,
		RiskAssessments: []model.RiskAssessment{{RiskLevel: model.RiskHigh}},
	}, nil, 3*time.Millisecond)
	c.ObserveAnalysis(nil, errors.New("boom"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.analyses.WithLabelValues("success", "CA", "HIGH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.analyses.WithLabelValues("failure", "", "")))
}

func TestRecordReviewEvents(t *testing.T) {
	c := New()
	ctx := context.Background()

	c.Record(ctx, review.Event{Action: "toggle"})
	c.Record(ctx, review.Event{Action: "reject", Err: apperr.New(apperr.KindInvalidTransition, "review.Reject", review.ErrCannotRejectMandatory.Message)})
	c.Record(ctx, review.Event{Action: "toggle", Err: apperr.New(apperr.KindLookupMiss, "review.toggle", "gone")})
	c.Record(ctx, review.Event{Action: "finalize"})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.reviewActions.WithLabelValues("toggle", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reviewActions.WithLabelValues("reject", "mandatory")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reviewActions.WithLabelValues("toggle", "lookup_miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.finalized))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.SessionOpened()
	c.ObserveRequest("GET", 200)
	c.RateLimited()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "clauseguard_review_active_sessions 1")
	assert.Contains(t, string(body), `clauseguard_http_requests_total{code="200",method="GET"} 1`)
	assert.Contains(t, string(body), "clauseguard_http_rate_limited_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}

package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/clauseguard/internal/logging"
	"github.com/sprite-ai/clauseguard/internal/model"
	"github.com/sprite-ai/clauseguard/internal/review"
)

func openTest(t *testing.T) *Auditor {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "audit.db"), logging.Discard())
	require.NoError(t, err)
	a.now = func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { a.Close() })
	return a
}

func TestRecordsSessionActions(t *testing.T) {
	ctx := context.Background()
	a := openTest(t)

	result := &model.AnalysisResult{
		ID:           "ar_1",
		Jurisdiction: "CA",
		RecommendedClauses: []model.DefenseClause{
			{ID: "opt", Category: string(model.CategoryScope), Clause: "x"},
			{ID: "req", Category: string(model.CategoryCompliance), Clause: "y", Applicability: model.Applicability{Mandatory: true}},
		},
	}
	s := review.New(result, review.WithRecorder(a), review.WithID("sess-1"))

	require.NoError(t, s.Toggle(ctx, "opt"))
	require.Error(t, s.Reject(ctx, "req"))
	_, err := s.Finalize(ctx)
	require.NoError(t, err)

	entries, err := a.Session(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "toggle", entries[0].Action)
	assert.Equal(t, "opt", entries[0].ClauseID)
	assert.Equal(t, "pending", entries[0].From)
	assert.Equal(t, "approved", entries[0].To)
	assert.Empty(t, entries[0].Error)
	assert.True(t, entries[0].Timestamp.Equal(time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)))

	assert.Equal(t, "reject", entries[1].Action)
	assert.Contains(t, entries[1].Error, "cannot reject mandatory clause")

	assert.Equal(t, "finalize", entries[2].Action)
	assert.Empty(t, entries[2].ClauseID)

	recent, err := a.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "finalize", recent[0].Action)
}

func TestRecordAnalysis(t *testing.T) {
	ctx := context.Background()
	a := openTest(t)

	a.RecordAnalysis(ctx, &model.AnalysisResult{ID: "ar_2", Jurisdiction: "TX", TotalRiskScore: 61})

	var n int
	require.NoError(t, a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analysis_log WHERE result_id = 'ar_2' AND risk_score = 61").Scan(&n))
	assert.Equal(t, 1, n)
}

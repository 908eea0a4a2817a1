package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/clauseguard/internal/apperr"
	"github.com/sprite-ai/clauseguard/internal/catalog"
	"github.com/sprite-ai/clauseguard/internal/model"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func amount(v float64) *float64 { return &v }

func yes() *bool { b := true; return &b }

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return New(c, WithClock(fixedClock))
}

func scenarioA() model.ProjectInput {
	return model.ProjectInput{
		Contractor:      model.Party{Name: "Dana Ortiz", Company: "Ortiz Builders"},
		Client:          model.Party{Name: "Sam Lee", Email: "sam@example.com"},
		ProjectCategory: "General Construction",
		Location:        "1200 Harbor Dr, San Diego, CA 92101",
		TotalAmount:     amount(50_000),
	}
}

func TestAnalyzeScenarioA(t *testing.T) {
	a := newTestAnalyzer(t)

	res, err := a.Analyze(context.Background(), scenarioA())
	require.NoError(t, err)

	assert.Equal(t, "CA", res.Jurisdiction)
	assert.True(t, res.JurisdictionResolved)

	var reqIDs []string
	for _, r := range res.MandatoryRequirements {
		reqIDs = append(reqIDs, r.ID)
	}
	assert.Contains(t, reqIDs, "ca-written-contract")

	cl, ok := res.Clause("ca-written-contract")
	require.True(t, ok)
	assert.True(t, cl.Applicability.Mandatory)

	mandatory := res.MandatoryClauses()
	require.Len(t, mandatory, 1)
	assert.Equal(t, "ca-written-contract", mandatory[0].ID)
	assert.Greater(t, len(res.RecommendedClauses), 1)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx := context.Background()

	first, err := a.Analyze(ctx, scenarioA())
	require.NoError(t, err)
	second, err := a.Analyze(ctx, scenarioA())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first.ID, "ar_"))
}

func TestResultIDDependsOnDay(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	ctx := context.Background()

	today, err := New(c, WithClock(fixedClock)).Analyze(ctx, scenarioA())
	require.NoError(t, err)
	tomorrow, err := New(c, WithClock(func() time.Time { return fixedClock().Add(24 * time.Hour) })).Analyze(ctx, scenarioA())
	require.NoError(t, err)

	assert.NotEqual(t, today.ID, tomorrow.ID)
	assert.Equal(t, today.RecommendedClauses, tomorrow.RecommendedClauses)
}

func TestNonFiniteAmountsCountAsMissing(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx := context.Background()

	missing := scenarioA()
	missing.TotalAmount = nil
	want, err := a.Analyze(ctx, missing)
	require.NoError(t, err)

	nan := scenarioA()
	nan.TotalAmount = amount(math.NaN())
	nan.DepositAmount = amount(math.Inf(1))
	got, err := a.Analyze(ctx, nan)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	other := nan
	other.Client.Name = "Pat Kim"
	third, err := a.Analyze(ctx, other)
	require.NoError(t, err)
	assert.NotEqual(t, got.ID, third.ID, "distinct projects must not share an id")
}

func TestCompelledClausesAlwaysRecommended(t *testing.T) {
	inputs := map[string]model.ProjectInput{
		"ca general":     scenarioA(),
		"ca home":        {ProjectCategory: "Home Improvement", Location: "Fresno, California", TotalAmount: amount(18_000)},
		"fl residential": {ProjectCategory: "Residential", Location: "Miami, FL", TotalAmount: amount(9_000)},
		"ny no amount":   {ProjectCategory: "Remodel", Location: "Albany, NY 12207"},
		"tx":             {ProjectType: "New Construction", Location: "Austin, TX"},
		"unresolved":     {Location: "somewhere"},
		"empty":          {},
	}
	a := newTestAnalyzer(t)

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			res, err := a.Analyze(context.Background(), in)
			require.NoError(t, err)

			compelled := make(map[string]bool)
			for _, r := range res.MandatoryRequirements {
				if r.ClauseID == "" {
					continue
				}
				compelled[r.ClauseID] = true
				cl, ok := res.Clause(r.ClauseID)
				if assert.True(t, ok, "requirement %s clause %s not recommended", r.ID, r.ClauseID) {
					assert.True(t, cl.Applicability.Mandatory)
				}
			}
			for _, cl := range res.RecommendedClauses {
				assert.Equal(t, compelled[cl.ID], cl.Applicability.Mandatory, "clause %s", cl.ID)
			}
		})
	}
}

func TestUnresolvedJurisdictionUsesGenericRules(t *testing.T) {
	a := newTestAnalyzer(t)

	res, err := a.Analyze(context.Background(), model.ProjectInput{Location: "the old mill by the river", TotalAmount: amount(12_000)})
	require.NoError(t, err)

	assert.Equal(t, "GENERIC", res.Jurisdiction)
	assert.False(t, res.JurisdictionResolved)
	require.Len(t, res.MandatoryRequirements, 1)
	assert.Equal(t, "generic-written-agreement", res.MandatoryRequirements[0].ID)

	var found bool
	for _, w := range res.CriticalWarnings {
		if strings.Contains(w.Message, "Jurisdiction could not be determined") {
			found = true
		}
	}
	assert.True(t, found, "expected jurisdiction warning in %v", res.CriticalWarnings)
	_, ok := res.Clause("ca-written-contract")
	assert.False(t, ok)
}

func TestMissingInputIsNeverLowRisk(t *testing.T) {
	a := newTestAnalyzer(t)

	res, err := a.Analyze(context.Background(), model.ProjectInput{})
	require.NoError(t, err)

	require.Len(t, res.RiskAssessments, len(model.Categories()))
	for _, ra := range res.RiskAssessments {
		assert.GreaterOrEqual(t, ra.RiskLevel, model.RiskMedium, "%s", ra.Category)
	}
	assert.NotEmpty(t, res.CriticalWarnings)
}

func TestRiskScoreMonotonicInAmount(t *testing.T) {
	a := newTestAnalyzer(t)
	prev := -1
	for _, v := range []float64{1_000, 10_000, 50_000, 200_000, 1_000_000} {
		in := scenarioA()
		in.TotalAmount = amount(v)
		res, err := a.Analyze(context.Background(), in)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.TotalRiskScore, prev, "amount %v", v)
		prev = res.TotalRiskScore
	}
}

func TestScoresWithinBounds(t *testing.T) {
	a := newTestAnalyzer(t)
	inputs := []model.ProjectInput{
		{},
		scenarioA(),
		{
			ProjectCategory: "Home Improvement",
			Location:        "Oakland, CA",
			Description:     "Roof replacement with asbestos abatement, demolition and structural repair, phase 2 TBD, financed by HELOC",
			TotalAmount:     amount(2_000_000),
			DepositAmount:   amount(500_000),
		},
	}
	for _, in := range inputs {
		res, err := a.Analyze(context.Background(), in)
		require.NoError(t, err)
		for _, v := range []int{res.TotalRiskScore, res.ComplianceScore, res.DefenseStrength} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 100)
		}
		for _, ra := range res.RiskAssessments {
			assert.GreaterOrEqual(t, ra.Likelihood, 0)
			assert.LessOrEqual(t, ra.Likelihood, 100)
			assert.GreaterOrEqual(t, ra.Impact, 0)
			assert.LessOrEqual(t, ra.Impact, 100)
			assert.LessOrEqual(t, ra.CostImplication.Min, ra.CostImplication.Max)
		}
	}
}

func TestComplianceScoreTracksChecks(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx := context.Background()

	res, err := a.Analyze(ctx, scenarioA())
	require.NoError(t, err)
	assert.Equal(t, 0, res.ComplianceScore)
	assert.NotEmpty(t, res.CriticalGaps)

	confirmed := scenarioA()
	confirmed.Confirmations.WrittenContract = yes()
	res, err = a.Analyze(ctx, confirmed)
	require.NoError(t, err)
	assert.Equal(t, 100, res.ComplianceScore)
}

func TestDepositLimitWarning(t *testing.T) {
	a := newTestAnalyzer(t)

	in := model.ProjectInput{
		ProjectCategory: "Home Improvement",
		Location:        "Sacramento, CA 95814",
		TotalAmount:     amount(40_000),
		DepositAmount:   amount(8_000),
		Confirmations:   model.Confirmations{WrittenContract: yes()},
	}
	res, err := a.Analyze(context.Background(), in)
	require.NoError(t, err)

	var msgs []string
	for _, w := range res.CriticalWarnings {
		msgs = append(msgs, w.Message)
	}
	assert.Contains(t, strings.Join(msgs, "\n"), "Down payment limit requirement not met (CA): deposit exceeds $1,000")

	cl, ok := res.Clause("ca-deposit-limit")
	require.True(t, ok)
	assert.True(t, cl.Applicability.Mandatory)
}

func TestFutureRequirementsAreIgnored(t *testing.T) {
	c, err := catalog.New("test",
		[]model.DefenseClause{{
			ID:            "or-new-law",
			Category:      string(model.CategoryCompliance),
			Clause:        "New Oregon notice.",
			Applicability: model.Applicability{Mandatory: true, RiskLevel: model.RiskCritical},
		}},
		[]model.ComplianceRequirement{{
			ID:            "or-new",
			Requirement:   "New notice",
			Jurisdiction:  "OR",
			ClauseID:      "or-new-law",
			EffectiveDate: "2027-01-01",
		}},
	)
	require.NoError(t, err)
	ctx := context.Background()
	in := model.ProjectInput{Location: "Portland, OR", TotalAmount: amount(10_000)}

	before, err := New(c, WithClock(fixedClock)).Analyze(ctx, in)
	require.NoError(t, err)
	assert.Empty(t, before.MandatoryRequirements)
	assert.Empty(t, before.MandatoryClauses())

	after, err := New(c, WithClock(func() time.Time { return time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC) })).Analyze(ctx, in)
	require.NoError(t, err)
	require.Len(t, after.MandatoryClauses(), 1)
	assert.Equal(t, "or-new-law", after.MandatoryClauses()[0].ID)
}

type failingSource struct{ err error }

func (f failingSource) Clauses(context.Context) ([]model.DefenseClause, error) {
	return nil, f.err
}

func (f failingSource) Requirements(context.Context, string) ([]model.ComplianceRequirement, error) {
	return nil, f.err
}

func TestSourceFailureIsAnalysisFailure(t *testing.T) {
	cause := errors.New("knowledge base unavailable")
	a := New(failingSource{err: cause}, WithClock(fixedClock))

	res, err := a.Analyze(context.Background(), scenarioA())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, apperr.ErrAnalysisFailure)
	assert.ErrorIs(t, err, cause)
	assert.True(t, apperr.IsRetryable(err))
}

func TestAnalyzeHonorsCancelledContext(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Analyze(ctx, scenarioA())
	assert.ErrorIs(t, err, apperr.ErrAnalysisFailure)
	assert.ErrorIs(t, err, context.Canceled)
}

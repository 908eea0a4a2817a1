package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sprite-ai/clauseguard/internal/model"
)

func clause(id string, cat model.RiskCategory, level model.RiskLevel, mandatory bool, jurisdictions ...string) model.DefenseClause {
	return model.DefenseClause{
		ID:       id,
		Category: string(cat),
		Clause:   id + " text",
		Applicability: model.Applicability{
			Mandatory:     mandatory,
			RiskLevel:     level,
			Jurisdictions: jurisdictions,
		},
	}
}

func ids(clauses []model.DefenseClause) []string {
	out := make([]string, len(clauses))
	for i, c := range clauses {
		out[i] = c.ID
	}
	return out
}

func TestSelectOrdering(t *testing.T) {
	clauses := []model.DefenseClause{
		clause("term-a", model.CategoryTermination, model.RiskMedium, false),
		clause("scope-low", model.CategoryScope, model.RiskLow, false),
		clause("pay-b", model.CategoryPayment, model.RiskMedium, false),
		clause("pay-a", model.CategoryPayment, model.RiskMedium, false),
		clause("pay-high", model.CategoryPayment, model.RiskHigh, false),
		clause("ca-law", model.CategoryPayment, model.RiskLow, true, "CA"),
		clause("warranty", "Warranty Protection", model.RiskHigh, false),
		clause("scope-crit", model.CategoryScope, model.RiskCritical, false),
	}
	assessments := []model.RiskAssessment{
		{Category: model.CategoryPayment, RiskLevel: model.RiskHigh},
		{Category: model.CategoryScope, RiskLevel: model.RiskMedium},
		{Category: model.CategoryTermination, RiskLevel: model.RiskMedium},
		{Category: "Warranty Protection", RiskLevel: model.RiskMedium},
	}
	reqs := []model.ComplianceRequirement{{ID: "r", Jurisdiction: "CA", ClauseID: "ca-law"}}

	got := Select(clauses, assessments, reqs, "CA")

	assert.Equal(t, []string{
		"ca-law", "pay-high", "pay-a", "pay-b",
		"scope-crit", "scope-low",
		"term-a",
		"warranty",
	}, ids(got))
	assert.True(t, got[0].Applicability.Mandatory)
	for _, c := range got[1:] {
		assert.False(t, c.Applicability.Mandatory, c.ID)
	}
}

func TestSelectSkipsLowRiskCategoriesAndOtherJurisdictions(t *testing.T) {
	clauses := []model.DefenseClause{
		clause("liab", model.CategoryLiability, model.RiskHigh, false),
		clause("pay-tx", model.CategoryPayment, model.RiskHigh, false, "TX"),
		clause("pay", model.CategoryPayment, model.RiskHigh, false),
		clause("ca-law", model.CategoryCompliance, model.RiskCritical, true, "CA"),
	}
	assessments := []model.RiskAssessment{
		{Category: model.CategoryPayment, RiskLevel: model.RiskCritical},
		{Category: model.CategoryLiability, RiskLevel: model.RiskLow},
		{Category: model.CategoryCompliance, RiskLevel: model.RiskHigh},
	}

	got := Select(clauses, assessments, nil, "CA")

	assert.Equal(t, []string{"pay"}, ids(got))
}

func TestSelectIsIdempotentAndPure(t *testing.T) {
	clauses := []model.DefenseClause{
		clause("b", model.CategoryScope, model.RiskMedium, false),
		clause("a", model.CategoryScope, model.RiskMedium, false),
		clause("law", model.CategoryCompliance, model.RiskHigh, true),
	}
	assessments := []model.RiskAssessment{{Category: model.CategoryScope, RiskLevel: model.RiskHigh}}
	reqs := []model.ComplianceRequirement{{ID: "r", ClauseID: "law"}}

	first := Select(clauses, assessments, reqs, "NV")
	second := Select(clauses, assessments, reqs, "NV")

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b", "law"}, ids(first))
	assert.Equal(t, "b", clauses[0].ID, "input order must not change")

	first[0].Clause = "changed"
	assert.Equal(t, "a text", clauses[1].Clause)
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  model.RiskLevel
	}{
		{0, model.RiskLow},
		{29, model.RiskLow},
		{30, model.RiskMedium},
		{54, model.RiskMedium},
		{55, model.RiskHigh},
		{74, model.RiskHigh},
		{75, model.RiskCritical},
		{100, model.RiskCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.score), "score %d", tt.score)
	}
}

func TestDefenseStrength(t *testing.T) {
	assessments := []model.RiskAssessment{
		{Category: model.CategoryPayment, RiskLevel: model.RiskHigh},
		{Category: model.CategoryScope, RiskLevel: model.RiskLow},
	}
	none := defenseStrength(assessments, nil)
	assert.Equal(t, 0, none)

	full := defenseStrength(assessments, []model.DefenseClause{
		clause("p1", model.CategoryPayment, model.RiskCritical, false),
		clause("p2", model.CategoryPayment, model.RiskMedium, false),
	})
	assert.Equal(t, 100, full)

	allLow := defenseStrength([]model.RiskAssessment{{Category: model.CategoryScope, RiskLevel: model.RiskLow}}, nil)
	assert.Equal(t, 100, allLow)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0", money(0))
	assert.Equal(t, "$999", money(999))
	assert.Equal(t, "$1,000", money(1000))
	assert.Equal(t, "$1,234,567", money(1234567.4))
}

package analysis

import (
	"fmt"
	"math"

	"github.com/sprite-ai/clauseguard/internal/model"
)

// Level thresholds on the 0-100 category score.
const (
	mediumThreshold   = 30
	highThreshold     = 55
	criticalThreshold = 75
)

// referenceAmount prices cost implications when the contract value is unknown.
const referenceAmount = 25_000

// costBands is the fraction of contract value at stake per risk level.
var costBands = map[model.RiskLevel][2]float64{
	model.RiskLow:      {0, 0.02},
	model.RiskMedium:   {0.02, 0.08},
	model.RiskHigh:     {0.08, 0.20},
	model.RiskCritical: {0.20, 0.50},
}

// coverageNeeded is the clause weight that fully covers a category at a level.
var coverageNeeded = map[model.RiskLevel]int{
	model.RiskMedium:   3,
	model.RiskHigh:     5,
	model.RiskCritical: 7,
}

func clamp(v int) int {
	return max(0, min(100, v))
}

// LevelFor maps a 0-100 score to a risk level.
func LevelFor(score int) model.RiskLevel {
	switch {
	case score < mediumThreshold:
		return model.RiskLow
	case score < highThreshold:
		return model.RiskMedium
	case score < criticalThreshold:
		return model.RiskHigh
	default:
		return model.RiskCritical
	}
}

func categoryScore(likelihood, impact int) int {
	return int(math.Round(float64(likelihood+impact) / 2))
}

func costImplication(level model.RiskLevel, amount float64, known bool) model.CostRange {
	base := amount
	if !known {
		base = referenceAmount
	}
	band := costBands[level]
	lo, hi := math.Round(base*band[0]), math.Round(base*band[1])
	desc := fmt.Sprintf("%.0f-%.0f%% of contract value (%s-%s)", band[0]*100, band[1]*100, money(lo), money(hi))
	if !known {
		desc += ", estimated on a $25,000 reference contract"
	}
	return model.CostRange{Min: lo, Max: hi, Description: desc}
}

// money formats whole dollars with thousands separators.
func money(v float64) string {
	n := int64(math.Round(v))
	s := fmt.Sprintf("%d", n)
	var out []byte
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return "$" + string(out)
}

func totalRiskScore(assessments []model.RiskAssessment) int {
	var total float64
	for _, a := range assessments {
		total += Weight(a.Category) * float64(a.Score)
	}
	return clamp(int(math.Round(total)))
}

func complianceScore(satisfied, applicable int) int {
	if applicable == 0 {
		return 100
	}
	return clamp(int(math.Round(float64(satisfied) / float64(applicable) * 100)))
}

func clauseWeight(level model.RiskLevel) int {
	return int(level) + 1
}

// defenseStrength measures the protection available, not applied: for every
// category above LOW, how much of the needed clause weight the selected
// clauses provide, averaged by category weight.
func defenseStrength(assessments []model.RiskAssessment, clauses []model.DefenseClause) int {
	weightByCategory := make(map[string]int)
	for _, c := range clauses {
		weightByCategory[c.Category] += clauseWeight(c.Applicability.RiskLevel)
	}

	var covered, total float64
	for _, a := range assessments {
		need, ok := coverageNeeded[a.RiskLevel]
		if !ok {
			continue
		}
		w := Weight(a.Category)
		total += w
		covered += w * math.Min(1, float64(weightByCategory[string(a.Category)])/float64(need))
	}
	if total == 0 {
		return 100
	}
	return clamp(int(math.Round(covered / total * 100)))
}

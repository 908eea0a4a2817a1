package analysis

import (
	"sort"

	"github.com/sprite-ai/clauseguard/internal/model"
)

// Select picks the clauses to recommend for a jurisdiction. A clause is
// selected when it applies in the jurisdiction and its category carries more
// than LOW risk, or when one of reqs compels it. Clauses the catalog marks
// mandatory are only selected when compelled, and the output marks a clause
// mandatory exactly when it is compelled.
//
// Output is grouped by category (fixed category order, then unknown
// categories alphabetically); within a category mandatory clauses come first,
// then higher risk, then id. The input slices are not modified.
func Select(clauses []model.DefenseClause, assessments []model.RiskAssessment, reqs []model.ComplianceRequirement, jurisdiction string) []model.DefenseClause {
	compelled := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		if r.ClauseID != "" {
			compelled[r.ClauseID] = true
		}
	}
	atRisk := make(map[string]bool, len(assessments))
	for _, a := range assessments {
		if a.RiskLevel > model.RiskLow {
			atRisk[string(a.Category)] = true
		}
	}

	seen := make(map[string]bool)
	out := []model.DefenseClause{}
	for _, c := range clauses {
		if seen[c.ID] {
			continue
		}
		var pick bool
		switch {
		case compelled[c.ID]:
			pick = true
		case c.Applicability.Mandatory:
			pick = false
		default:
			pick = atRisk[c.Category] && c.Applicability.AppliesIn(jurisdiction)
		}
		if !pick {
			continue
		}
		seen[c.ID] = true
		cp := c.Clone()
		cp.Applicability.Mandatory = compelled[c.ID]
		out = append(out, cp)
	}

	SortClauses(out)
	return out
}

// SortClauses orders clauses by category, then mandatory first, then
// descending risk level, then id.
func SortClauses(clauses []model.DefenseClause) {
	sort.SliceStable(clauses, func(i, j int) bool {
		a, b := clauses[i], clauses[j]
		if a.Category != b.Category {
			ra, oka := model.CategoryRank(a.Category)
			rb, okb := model.CategoryRank(b.Category)
			if oka != okb {
				return oka
			}
			if oka && ra != rb {
				return ra < rb
			}
			return a.Category < b.Category
		}
		if a.Applicability.Mandatory != b.Applicability.Mandatory {
			return a.Applicability.Mandatory
		}
		if a.Applicability.RiskLevel != b.Applicability.RiskLevel {
			return a.Applicability.RiskLevel > b.Applicability.RiskLevel
		}
		return a.ID < b.ID
	})
}

package model

// CostRange estimates the financial exposure of a risk.
type CostRange struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Description string  `json:"description"`
}

// RiskAssessment is the analyzer's verdict for one risk category.
type RiskAssessment struct {
	Category          RiskCategory `json:"category"`
	RiskLevel         RiskLevel    `json:"riskLevel"`
	Description       string       `json:"description"`
	Likelihood        int          `json:"likelihood"` // 0-100
	Impact            int          `json:"impact"`     // 0-100
	Score             int          `json:"score"`      // 0-100
	CostImplication   CostRange    `json:"costImplication"`
	MitigationClauses []string     `json:"mitigationClauses"`
}

// Warning is a critical condition the user must see before signing.
type Warning struct {
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

// StrategicRecommendations are follow-up actions grouped by urgency.
type StrategicRecommendations struct {
	Immediate []string `json:"immediate"`
	ShortTerm []string `json:"shortTerm"`
	LongTerm  []string `json:"longTerm"`
}

// AnalysisResult is the full, immutable output of one analysis run.
type AnalysisResult struct {
	ID                       string                   `json:"id"`
	Jurisdiction             string                   `json:"jurisdiction"`
	JurisdictionResolved     bool                     `json:"jurisdictionResolved"`
	RecommendedClauses       []DefenseClause          `json:"recommendedClauses"`
	RiskAssessments          []RiskAssessment         `json:"riskAssessments"`
	MandatoryRequirements    []ComplianceRequirement  `json:"mandatoryRequirements"`
	CriticalWarnings         []Warning                `json:"criticalWarnings"`
	CriticalGaps             []string                 `json:"criticalGaps"`
	TotalRiskScore           int                      `json:"totalRiskScore"`
	ComplianceScore          int                      `json:"complianceScore"`
	DefenseStrength          int                      `json:"defenseStrength"`
	StrategicRecommendations StrategicRecommendations `json:"strategicRecommendations"`
}

// MandatoryClauses returns the recommended clauses a requirement compels.
func (r *AnalysisResult) MandatoryClauses() []DefenseClause {
	var out []DefenseClause
	for _, c := range r.RecommendedClauses {
		if c.Applicability.Mandatory {
			out = append(out, c)
		}
	}
	return out
}

// MaxRisk returns the highest risk level among all assessments.
func (r *AnalysisResult) MaxRisk() RiskLevel {
	max := RiskLow
	for _, a := range r.RiskAssessments {
		if a.RiskLevel > max {
			max = a.RiskLevel
		}
	}
	return max
}

// Clause looks up a recommended clause by id.
func (r *AnalysisResult) Clause(id string) (DefenseClause, bool) {
	for _, c := range r.RecommendedClauses {
		if c.ID == id {
			return c, true
		}
	}
	return DefenseClause{}, false
}

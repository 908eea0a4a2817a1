package analysis

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/clauseguard/internal/jurisdiction"
	"github.com/sprite-ai/clauseguard/internal/model"
)

func warnings(f *facts, j jurisdiction.Jurisdiction, assessments []model.RiskAssessment, statuses []RequirementStatus) []model.Warning {
	out := []model.Warning{}
	if !j.Resolved {
		out = append(out, model.Warning{
			Message:        fmt.Sprintf("Jurisdiction could not be determined from location %q; generic rules applied", f.project.Location),
			Recommendation: "Enter the full project address including the state so state law can be checked.",
		})
	}
	if !f.hasAmount {
		out = append(out, model.Warning{
			Message:        "Contract amount is missing; financial risk was estimated conservatively",
			Recommendation: "Enter the total contract amount to get legal thresholds and cost estimates right.",
		})
	}
	for _, a := range assessments {
		if a.RiskLevel == model.RiskCritical {
			out = append(out, model.Warning{
				Message:        fmt.Sprintf("%s risk is CRITICAL (score %d)", a.Category, a.Score),
				Recommendation: fmt.Sprintf("Include every recommended %s clause before signing.", a.Category),
			})
		}
	}
	for _, s := range statuses {
		if s.Satisfied {
			continue
		}
		r := s.Requirement
		rec := "Resolve before signing"
		if r.VerificationMethod != "" {
			rec += ": " + strings.TrimSuffix(r.VerificationMethod, ".")
		}
		if r.Penalty != "" {
			rec += ". Penalty: " + r.Penalty
		}
		out = append(out, model.Warning{
			Message:        fmt.Sprintf("%s requirement not met (%s): %s", r.Requirement, r.Jurisdiction, s.Reason),
			Recommendation: rec,
		})
	}
	return out
}

func gaps(f *facts, assessments []model.RiskAssessment, statuses []RequirementStatus) []string {
	out := []string{}
	for _, s := range statuses {
		if !s.Satisfied {
			out = append(out, fmt.Sprintf("%s: %s", s.Requirement.Requirement, s.Reason))
		}
	}
	for _, a := range assessments {
		if a.RiskLevel >= model.RiskHigh && len(a.MitigationClauses) == 0 {
			out = append(out, fmt.Sprintf("No %s clauses available for %s risk", a.Category, a.RiskLevel))
		}
	}
	if strings.TrimSpace(f.project.Contractor.License) == "" {
		out = append(out, "Contractor license number not provided")
	}
	return out
}

func strategy(j jurisdiction.Jurisdiction, assessments []model.RiskAssessment, statuses []RequirementStatus, selected []model.DefenseClause) model.StrategicRecommendations {
	rec := model.StrategicRecommendations{
		Immediate: []string{},
		ShortTerm: []string{},
		LongTerm:  []string{},
	}

	for _, s := range statuses {
		if !s.Satisfied {
			rec.Immediate = append(rec.Immediate, fmt.Sprintf("Satisfy %s (%s)", s.Requirement.Requirement, s.Requirement.Source))
		}
	}
	mandatory := 0
	for _, c := range selected {
		if c.Applicability.Mandatory {
			mandatory++
		}
	}
	if mandatory > 0 {
		rec.Immediate = append(rec.Immediate, fmt.Sprintf("Keep all %d legally required clauses in the contract", mandatory))
	}

	for _, a := range assessments {
		switch a.RiskLevel {
		case model.RiskCritical:
			rec.Immediate = append(rec.Immediate, fmt.Sprintf("Address %s before signing: %s", a.Category, a.Description))
		case model.RiskHigh:
			if len(a.MitigationClauses) > 0 {
				rec.ShortTerm = append(rec.ShortTerm, fmt.Sprintf("Strengthen %s with %s", a.Category, strings.Join(a.MitigationClauses, ", ")))
			} else {
				rec.ShortTerm = append(rec.ShortTerm, fmt.Sprintf("Strengthen %s", a.Category))
			}
		}
	}

	if j.Resolved {
		rec.LongTerm = append(rec.LongTerm, fmt.Sprintf("Maintain a reviewed contract template for %s", j.Name))
	} else {
		rec.LongTerm = append(rec.LongTerm, "Record full project addresses so state law can be applied")
	}
	rec.LongTerm = append(rec.LongTerm, "Re-run the analysis whenever scope, amount or schedule changes")
	return rec
}

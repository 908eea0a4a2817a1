package analysis

import (
	"strings"

	"github.com/sprite-ai/clauseguard/internal/catalog"
	"github.com/sprite-ai/clauseguard/internal/model"
)

// depositCap is the largest deposit the deposit_limit check accepts, together
// with depositShare of the contract value, whichever is less.
const (
	depositCap   = 1_000
	depositShare = 0.10
)

// RequirementStatus is the outcome of checking one requirement against the
// project data.
type RequirementStatus struct {
	Requirement model.ComplianceRequirement
	Satisfied   bool
	Reason      string
}

// effective reports whether the requirement is in force on day (YYYY-MM-DD).
func effective(r model.ComplianceRequirement, day string) bool {
	return r.EffectiveDate == "" || r.EffectiveDate <= day
}

// applies reports whether a requirement's conditions hold for the project.
// Unknown amounts and categories count as matching.
func applies(r model.ComplianceRequirement, f *facts) bool {
	if r.Conditions.MinAmount > 0 && f.hasAmount && f.amount <= r.Conditions.MinAmount {
		return false
	}
	cats := r.Conditions.ProjectCategories
	if len(cats) == 0 {
		return true
	}
	p := f.project
	if strings.TrimSpace(p.ProjectCategory) == "" && strings.TrimSpace(p.ProjectType) == "" {
		return true
	}
	for _, c := range cats {
		if strings.EqualFold(c, strings.TrimSpace(p.ProjectCategory)) || strings.EqualFold(c, strings.TrimSpace(p.ProjectType)) {
			return true
		}
	}
	return false
}

// applicableRequirements filters reqs to the ones in force and applicable to
// the project, keeping catalog order.
func applicableRequirements(reqs []model.ComplianceRequirement, f *facts, day string) []model.ComplianceRequirement {
	out := []model.ComplianceRequirement{}
	for _, r := range reqs {
		if effective(r, day) && applies(r, f) {
			out = append(out, r)
		}
	}
	return out
}

// evaluate runs each requirement's check. Requirements with no check are
// satisfied by including their clause.
func evaluate(reqs []model.ComplianceRequirement, f *facts, selected []model.DefenseClause) []RequirementStatus {
	included := make(map[string]bool, len(selected))
	for _, c := range selected {
		included[c.ID] = true
	}

	out := make([]RequirementStatus, 0, len(reqs))
	for _, r := range reqs {
		ok, reason := runCheck(r, f, included)
		out = append(out, RequirementStatus{Requirement: r, Satisfied: ok, Reason: reason})
	}
	return out
}

func runCheck(r model.ComplianceRequirement, f *facts, included map[string]bool) (bool, string) {
	p := f.project
	switch r.Check {
	case catalog.CheckWrittenContract:
		if c := p.Confirmations.WrittenContract; c != nil && *c {
			return true, ""
		}
		return false, "written contract not confirmed"
	case catalog.CheckLicensePresent:
		if strings.TrimSpace(p.Contractor.License) != "" {
			return true, ""
		}
		return false, "contractor license number missing"
	case catalog.CheckDepositLimit:
		if p.DepositAmount == nil || *p.DepositAmount <= 0 {
			return true, ""
		}
		limit := float64(depositCap)
		if f.hasAmount {
			limit = min(limit, depositShare*f.amount)
		}
		if *p.DepositAmount <= limit {
			return true, ""
		}
		return false, "deposit exceeds " + money(limit)
	case catalog.CheckInsuranceConfirmed:
		if c := p.Confirmations.Insurance; c != nil && *c {
			return true, ""
		}
		return false, "insurance not confirmed"
	case catalog.CheckTimelinePresent:
		tl := p.Timeline
		if tl.StartDate != "" && (tl.CompletionDate != "" || tl.DurationDays > 0) {
			return true, ""
		}
		return false, "start and completion dates missing"
	case catalog.CheckClientIdentified:
		c := p.Client
		if strings.TrimSpace(c.Name) != "" && (c.Address != "" || c.Email != "" || c.Phone != "") {
			return true, ""
		}
		return false, "client name or contact missing"
	default:
		if r.ClauseID == "" || included[r.ClauseID] {
			return true, ""
		}
		return false, "required clause " + r.ClauseID + " unavailable"
	}
}

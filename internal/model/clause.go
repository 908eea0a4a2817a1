package model

import (
	"maps"
	"slices"
)

// LegalSource is a statute or regulation a clause or requirement rests on.
type LegalSource struct {
	Citation      string `json:"citation" yaml:"citation"`
	Title         string `json:"title" yaml:"title"`
	EffectiveDate string `json:"effectiveDate,omitempty" yaml:"effectiveDate,omitempty"` // YYYY-MM-DD
}

// Consequences describes what happens with and without a clause.
type Consequences struct {
	IfOmitted  []string `json:"ifOmitted" yaml:"ifOmitted"`
	IfIncluded []string `json:"ifIncluded" yaml:"ifIncluded"`
}

// CustomizationOptions lists the template variables a clause exposes.
type CustomizationOptions struct {
	VariableFields []string `json:"variableFields" yaml:"variableFields"`
}

// Applicability says where and how strongly a clause applies.
type Applicability struct {
	Mandatory bool      `json:"mandatory" yaml:"mandatory"`
	RiskLevel RiskLevel `json:"riskLevel" yaml:"riskLevel"`
	// Jurisdictions the clause is valid in. Empty means everywhere.
	Jurisdictions []string `json:"jurisdictions,omitempty" yaml:"jurisdictions,omitempty"`
}

// AppliesIn reports whether the clause is valid in the given jurisdiction code.
func (a Applicability) AppliesIn(jurisdiction string) bool {
	if len(a.Jurisdictions) == 0 {
		return true
	}
	return slices.Contains(a.Jurisdictions, jurisdiction)
}

// DefenseClause is a protective contract clause from the knowledge base.
type DefenseClause struct {
	ID                   string               `json:"id" yaml:"id"`
	Category             string               `json:"category" yaml:"category"`
	Subcategory          string               `json:"subcategory" yaml:"subcategory"`
	Rationale            string               `json:"rationale" yaml:"rationale"`
	Clause               string               `json:"clause" yaml:"clause"`
	RiskMitigation       []string             `json:"riskMitigation" yaml:"riskMitigation"`
	LegalSources         []LegalSource        `json:"legalSources" yaml:"legalSources"`
	Consequences         Consequences         `json:"consequences" yaml:"consequences"`
	AlternativeVersions  map[string]string    `json:"alternativeVersions" yaml:"alternativeVersions"`
	CustomizationOptions CustomizationOptions `json:"customizationOptions" yaml:"customizationOptions"`
	Applicability        Applicability        `json:"applicability" yaml:"applicability"`
}

// Clone returns a deep copy so callers can never alias catalog state.
func (c DefenseClause) Clone() DefenseClause {
	out := c
	out.RiskMitigation = slices.Clone(c.RiskMitigation)
	out.LegalSources = slices.Clone(c.LegalSources)
	out.Consequences.IfOmitted = slices.Clone(c.Consequences.IfOmitted)
	out.Consequences.IfIncluded = slices.Clone(c.Consequences.IfIncluded)
	out.AlternativeVersions = maps.Clone(c.AlternativeVersions)
	out.CustomizationOptions.VariableFields = slices.Clone(c.CustomizationOptions.VariableFields)
	out.Applicability.Jurisdictions = slices.Clone(c.Applicability.Jurisdictions)
	return out
}

// TextFor returns the clause text for a version, falling back to the canonical
// text when the knowledge base has no alternative phrasing for it.
func (c DefenseClause) TextFor(v Version) string {
	if v == VersionModerate || v == VersionCustom {
		return c.Clause
	}
	if alt, ok := c.AlternativeVersions[v.String()]; ok && alt != "" {
		return alt
	}
	return c.Clause
}

// Conditions narrow when a compliance requirement applies to a project.
type Conditions struct {
	// MinAmount is the contract amount above which the requirement applies.
	MinAmount float64 `json:"minAmount,omitempty" yaml:"minAmount,omitempty"`
	// ProjectCategories restricts the requirement to these project categories
	// (case-insensitive). Empty means all.
	ProjectCategories []string `json:"projectCategories,omitempty" yaml:"projectCategories,omitempty"`
}

// ComplianceRequirement is a jurisdiction-mandated obligation.
type ComplianceRequirement struct {
	ID                 string     `json:"id" yaml:"id"`
	Requirement        string     `json:"requirement" yaml:"requirement"`
	Jurisdiction       string     `json:"jurisdiction" yaml:"jurisdiction"`
	Description        string     `json:"description" yaml:"description"`
	MandatoryClause    string     `json:"mandatoryClause" yaml:"mandatoryClause"`
	ClauseID           string     `json:"clauseId" yaml:"clauseId"`
	Penalty            string     `json:"penalty" yaml:"penalty"`
	Source             string     `json:"source" yaml:"source"`
	VerificationMethod string     `json:"verificationMethod" yaml:"verificationMethod"`
	Deadlines          []string   `json:"deadlines,omitempty" yaml:"deadlines,omitempty"`
	EffectiveDate      string     `json:"effectiveDate,omitempty" yaml:"effectiveDate,omitempty"`
	Check              string     `json:"check" yaml:"check"`
	Conditions         Conditions `json:"conditions" yaml:"conditions"`
}

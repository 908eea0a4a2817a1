package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestRiskLevelString(t *testing.T) {
	tests := []struct {
		level RiskLevel
		want  string
	}{
		{RiskLow, "LOW"},
		{RiskMedium, "MEDIUM"},
		{RiskHigh, "HIGH"},
		{RiskCritical, "CRITICAL"},
		{RiskLevel(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("RiskLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseRiskLevelCaseInsensitive(t *testing.T) {
	lvl, err := ParseRiskLevel(" high ")
	if err != nil {
		t.Fatal(err)
	}
	if lvl != RiskHigh {
		t.Errorf("expected HIGH, got %s", lvl)
	}
	if _, err := ParseRiskLevel("severe"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestApplicabilityJSON(t *testing.T) {
	var a Applicability
	if err := json.Unmarshal([]byte(`{"mandatory":true,"riskLevel":"critical"}`), &a); err != nil {
		t.Fatal(err)
	}
	if !a.Mandatory || a.RiskLevel != RiskCritical {
		t.Errorf("unexpected applicability %+v", a)
	}
	if !a.AppliesIn("CA") {
		t.Error("clause without jurisdictions should apply everywhere")
	}
}

func TestReviewStatusIncluded(t *testing.T) {
	tests := []struct {
		status ReviewStatus
		want   bool
	}{
		{StatusPending, false},
		{StatusApproved, true},
		{StatusRejected, false},
		{StatusModified, true},
	}
	for _, tt := range tests {
		if got := tt.status.Included(); got != tt.want {
			t.Errorf("%s.Included() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestTextForFallsBackToCanonical(t *testing.T) {
	c := DefenseClause{
		Clause:              "moderate text",
		AlternativeVersions: map[string]string{"aggressive": "aggressive text"},
	}
	if got := c.TextFor(VersionAggressive); got != "aggressive text" {
		t.Errorf("aggressive: got %q", got)
	}
	if got := c.TextFor(VersionMinimal); got != "moderate text" {
		t.Errorf("minimal fallback: got %q", got)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	c := DefenseClause{
		ID:                   "x",
		AlternativeVersions:  map[string]string{"minimal": "a"},
		CustomizationOptions: CustomizationOptions{VariableFields: []string{"amount"}},
	}
	cp := c.Clone()
	cp.AlternativeVersions["minimal"] = "b"
	cp.CustomizationOptions.VariableFields[0] = "other"

	if c.AlternativeVersions["minimal"] != "a" {
		t.Error("clone aliased alternative versions")
	}
	if c.CustomizationOptions.VariableFields[0] != "amount" {
		t.Error("clone aliased variable fields")
	}
}

func TestCategoryRank(t *testing.T) {
	if r, ok := CategoryRank("Payment Protection"); !ok || r != 0 {
		t.Errorf("payment rank = %d, %v", r, ok)
	}
	if _, ok := CategoryRank("Warranty"); ok {
		t.Error("unknown category should not be ranked")
	}
}

func TestAmountRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0, -5} {
		p := ProjectInput{TotalAmount: &v}
		if _, ok := p.Amount(); ok {
			t.Errorf("Amount() with %v reported a known amount", v)
		}
	}

	v := 1500.0
	if got, ok := (ProjectInput{TotalAmount: &v}).Amount(); !ok || got != 1500 {
		t.Errorf("Amount() = %v, %v; want 1500, true", got, ok)
	}

	nan, inf := math.NaN(), math.Inf(1)
	n := ProjectInput{TotalAmount: &nan, DepositAmount: &inf}.Normalized()
	if n.TotalAmount != nil || n.DepositAmount != nil {
		t.Error("Normalized kept a non-finite amount")
	}
	if _, err := json.Marshal(n); err != nil {
		t.Errorf("normalized project does not encode: %v", err)
	}
}

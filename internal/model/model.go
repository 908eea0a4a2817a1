// Package model defines the core data types shared across clauseguard.
package model

import (
	"fmt"
	"strings"
)

// RiskLevel categorizes the risk of a project exposure or the strength of a clause.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	case RiskCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseRiskLevel accepts the level names in any case.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return RiskLow, nil
	case "MEDIUM":
		return RiskMedium, nil
	case "HIGH":
		return RiskHigh, nil
	case "CRITICAL":
		return RiskCritical, nil
	}
	return RiskLow, fmt.Errorf("unknown risk level %q", s)
}

func (r RiskLevel) MarshalText() ([]byte, error) {
	if r < RiskLow || r > RiskCritical {
		return nil, fmt.Errorf("invalid risk level %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *RiskLevel) UnmarshalText(b []byte) error {
	lvl, err := ParseRiskLevel(string(b))
	if err != nil {
		return err
	}
	*r = lvl
	return nil
}

// ReviewStatus records the reviewer's decision for a clause.
type ReviewStatus int

const (
	StatusPending ReviewStatus = iota
	StatusApproved
	StatusRejected
	StatusModified
)

func (s ReviewStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	case StatusModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Included reports whether a clause in this status goes into the final contract.
func (s ReviewStatus) Included() bool {
	return s == StatusApproved || s == StatusModified
}

func (s ReviewStatus) MarshalText() ([]byte, error) {
	if s < StatusPending || s > StatusModified {
		return nil, fmt.Errorf("invalid review status %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *ReviewStatus) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "pending":
		*s = StatusPending
	case "approved":
		*s = StatusApproved
	case "rejected":
		*s = StatusRejected
	case "modified":
		*s = StatusModified
	default:
		return fmt.Errorf("unknown review status %q", string(b))
	}
	return nil
}

// Version selects which phrasing of a clause goes into the contract.
type Version int

const (
	VersionModerate Version = iota
	VersionAggressive
	VersionMinimal
	VersionCustom
)

func (v Version) String() string {
	switch v {
	case VersionModerate:
		return "moderate"
	case VersionAggressive:
		return "aggressive"
	case VersionMinimal:
		return "minimal"
	case VersionCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseVersion accepts the version names in any case.
func ParseVersion(s string) (Version, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "moderate":
		return VersionModerate, nil
	case "aggressive":
		return VersionAggressive, nil
	case "minimal":
		return VersionMinimal, nil
	case "custom":
		return VersionCustom, nil
	}
	return VersionModerate, fmt.Errorf("unknown clause version %q", s)
}

func (v Version) MarshalText() ([]byte, error) {
	if v < VersionModerate || v > VersionCustom {
		return nil, fmt.Errorf("invalid clause version %d", int(v))
	}
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(b []byte) error {
	parsed, err := ParseVersion(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// RiskCategory is one of the fixed exposure areas the analyzer scores. The string
// value doubles as the clause category that mitigates it.
type RiskCategory string

const (
	CategoryPayment     RiskCategory = "Payment Protection"
	CategoryScope       RiskCategory = "Scope Protection"
	CategoryCompliance  RiskCategory = "Legal Compliance"
	CategoryLiability   RiskCategory = "Liability Protection"
	CategoryTermination RiskCategory = "Termination Protection"
)

// Categories returns the risk categories in report order.
func Categories() []RiskCategory {
	return []RiskCategory{
		CategoryPayment,
		CategoryScope,
		CategoryCompliance,
		CategoryLiability,
		CategoryTermination,
	}
}

// CategoryRank orders clause categories: the fixed risk categories first, in
// report order, then everything else. ok is false for unknown categories.
func CategoryRank(category string) (rank int, ok bool) {
	for i, c := range Categories() {
		if string(c) == category {
			return i, true
		}
	}
	return len(Categories()), false
}

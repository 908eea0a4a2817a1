package model

import "math"

// Party identifies the contractor or the client.
type Party struct {
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	License string `json:"license,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Timeline is the planned schedule of the project.
type Timeline struct {
	StartDate      string `json:"startDate,omitempty"`      // YYYY-MM-DD
	CompletionDate string `json:"completionDate,omitempty"` // YYYY-MM-DD
	DurationDays   int    `json:"durationDays,omitempty"`
}

// Confirmations are facts the contractor has affirmed in the survey wizard.
// A nil value means the question was not answered.
type Confirmations struct {
	WrittenContract *bool `json:"writtenContract,omitempty"`
	Insurance       *bool `json:"insurance,omitempty"`
}

// ProjectInput is the project data supplied by the upstream survey wizard.
// Unknown JSON fields are ignored.
type ProjectInput struct {
	Contractor      Party         `json:"contractor"`
	Client          Party         `json:"client"`
	ProjectType     string        `json:"projectType,omitempty"`
	ProjectCategory string        `json:"projectCategory,omitempty"`
	Location        string        `json:"location,omitempty"`
	Description     string        `json:"description,omitempty"`
	TotalAmount     *float64      `json:"totalAmount,omitempty"`
	DepositAmount   *float64      `json:"depositAmount,omitempty"`
	Timeline        Timeline      `json:"timeline"`
	Confirmations   Confirmations `json:"confirmations"`
}

// Amount returns the total amount and whether it is known and positive.
func (p ProjectInput) Amount() (float64, bool) {
	if !finite(p.TotalAmount) || *p.TotalAmount <= 0 {
		return 0, false
	}
	return *p.TotalAmount, true
}

// Normalized returns a copy with NaN and infinite amounts treated as missing.
func (p ProjectInput) Normalized() ProjectInput {
	if p.TotalAmount != nil && !finite(p.TotalAmount) {
		p.TotalAmount = nil
	}
	if p.DepositAmount != nil && !finite(p.DepositAmount) {
		p.DepositAmount = nil
	}
	return p
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

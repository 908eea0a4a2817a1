package review

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/clauseguard/internal/model"
)

// FinalClause is one clause of the finished contract, with customizations
// already merged.
type FinalClause struct {
	model.DefenseClause
	Status     model.ReviewStatus `json:"status"`
	Version    model.Version      `json:"version"`
	Text       string             `json:"text"`
	Notes      string             `json:"notes,omitempty"`
	Unresolved []string           `json:"unresolved,omitempty"`
}

// Contract is the outcome of a finalized review, handed to document
// generation.
type Contract struct {
	SessionID      string                       `json:"sessionId"`
	ResultID       string                       `json:"resultId"`
	Jurisdiction   string                       `json:"jurisdiction"`
	Clauses        []FinalClause                `json:"clauses"`
	Customizations map[string]map[string]string `json:"customizations"`
}

// Mandatory returns the legally required clauses of the contract.
func (c *Contract) Mandatory() []FinalClause {
	var out []FinalClause
	for _, fc := range c.Clauses {
		if fc.Applicability.Mandatory {
			out = append(out, fc)
		}
	}
	return out
}

// Incomplete returns the ids of clauses that still contain unfilled fields.
func (c *Contract) Incomplete() []string {
	var out []string
	for _, fc := range c.Clauses {
		if len(fc.Unresolved) > 0 {
			out = append(out, fc.ID)
		}
	}
	return out
}

// Summary returns a short human-readable description of the contract.
func (c *Contract) Summary() string {
	var b strings.Builder
	mandatory := len(c.Mandatory())
	fmt.Fprintf(&b, "%d clause(s) for %s", len(c.Clauses), c.Jurisdiction)
	if mandatory > 0 {
		fmt.Fprintf(&b, ", %d legally required", mandatory)
	}
	if n := len(c.Customizations); n > 0 {
		fmt.Fprintf(&b, ", %d customized", n)
	}
	if inc := c.Incomplete(); len(inc) > 0 {
		fmt.Fprintf(&b, "\n\nFields still to fill in:\n")
		for _, id := range inc {
			for _, fc := range c.Clauses {
				if fc.ID == id {
					fmt.Fprintf(&b, "  - %s: %s\n", id, strings.Join(fc.Unresolved, ", "))
				}
			}
		}
	}
	return b.String()
}

// Markdown renders the clause set grouped by category.
func (c *Contract) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Contract Clauses (%s)\n\n", c.Jurisdiction)

	category := ""
	for i, fc := range c.Clauses {
		if fc.Category != category {
			category = fc.Category
			fmt.Fprintf(&b, "## %s\n\n", category)
		}
		title := fc.Subcategory
		if title == "" {
			title = fc.ID
		}
		fmt.Fprintf(&b, "### %d. %s", i+1, title)
		if fc.Applicability.Mandatory {
			b.WriteString(" (required by law)")
		}
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(fc.Text))
		b.WriteString("\n\n")
		if len(fc.LegalSources) > 0 {
			var cites []string
			for _, ls := range fc.LegalSources {
				cites = append(cites, ls.Citation)
			}
			fmt.Fprintf(&b, "_Sources: %s_\n\n", strings.Join(cites, "; "))
		}
		if fc.Notes != "" {
			fmt.Fprintf(&b, "> Note: %s\n\n", fc.Notes)
		}
	}
	return b.String()
}

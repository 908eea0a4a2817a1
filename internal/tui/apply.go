package tui

import (
	"fmt"
	"strings"

	"github.com/sprite-ai/clauseguard/internal/model"
	"github.com/sprite-ai/clauseguard/internal/review"
)

// ReviewResult holds the outcome of an interactive review session. Contract is
// nil when the user quit without finalizing.
type ReviewResult struct {
	Session  *review.Session
	Contract *review.Contract
}

// Finalized reports whether the review produced a contract.
func (r *ReviewResult) Finalized() bool {
	return r.Contract != nil
}

func (r *ReviewResult) withStatus(keep func(model.ReviewStatus) bool) []review.ClauseState {
	var out []review.ClauseState
	for _, st := range r.Session.States() {
		if keep(st.Status) {
			out = append(out, st)
		}
	}
	return out
}

// IncludedClauses returns clauses that were approved or modified.
func (r *ReviewResult) IncludedClauses() []review.ClauseState {
	return r.withStatus(model.ReviewStatus.Included)
}

// RejectedClauses returns clauses that were rejected.
func (r *ReviewResult) RejectedClauses() []review.ClauseState {
	return r.withStatus(func(s model.ReviewStatus) bool { return s == model.StatusRejected })
}

// PendingClauses returns clauses with no decision.
func (r *ReviewResult) PendingClauses() []review.ClauseState {
	return r.withStatus(func(s model.ReviewStatus) bool { return s == model.StatusPending })
}

// Report creates a short plain-text summary of the review for the terminal.
func (r *ReviewResult) Report() string {
	var b strings.Builder

	if r.Finalized() {
		b.WriteString("Review finalized: ")
		b.WriteString(r.Contract.Summary())
		b.WriteString("\n")
	} else {
		p := r.Session.Progress()
		fmt.Fprintf(&b, "Review not finalized (%d/%d approved)\n", p.Approved, p.Total)
		if blocking := r.Session.Blocking(); len(blocking) > 0 {
			fmt.Fprintf(&b, "Required clauses still pending: %s\n", strings.Join(blocking, ", "))
		}
	}

	list := func(title string, states []review.ClauseState) {
		if len(states) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n%s:\n", title)
		for _, st := range states {
			fmt.Fprintf(&b, "  - %s", st.ClauseID)
			if st.Status == model.StatusModified {
				b.WriteString(" (customized)")
			}
			b.WriteString("\n")
		}
	}
	list("Included clauses", r.IncludedClauses())
	list("Rejected clauses", r.RejectedClauses())
	list("Undecided clauses", r.PendingClauses())

	return b.String()
}

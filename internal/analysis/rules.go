package analysis

import (
	"regexp"
	"strings"

	"github.com/sprite-ai/clauseguard/internal/model"
)

// Neutral is the value used for any input the rules cannot read. Missing data
// is scored as medium risk, never as zero.
const Neutral = 50

// Category weights for the total risk score. They sum to 1.
var categoryWeights = map[model.RiskCategory]float64{
	model.CategoryPayment:     0.30,
	model.CategoryScope:       0.20,
	model.CategoryCompliance:  0.20,
	model.CategoryLiability:   0.20,
	model.CategoryTermination: 0.10,
}

// Weight returns the fixed weight of a category in the total risk score.
func Weight(c model.RiskCategory) float64 {
	return categoryWeights[c]
}

// keywordFactor raises a category's likelihood when the project text matches.
type keywordFactor struct {
	label    string
	patterns []*regexp.Regexp
	weight   int
}

var paymentKeywords = []keywordFactor{
	{
		label:    "third-party financing",
		patterns: compilePatterns(`(?i)\b(financ\w*|loan|heloc|insurance claim|grant)\b`),
		weight:   15,
	},
	{
		label:    "owner is not the occupant",
		patterns: compilePatterns(`(?i)\b(rental|tenant|landlord|investor|flip)\b`),
		weight:   10,
	},
}

var scopeKeywords = []keywordFactor{
	{
		label:    "renovation of existing structure",
		patterns: compilePatterns(`(?i)\b(remodel\w*|renovat\w*|restor\w*|repair\w*|historic)\b`),
		weight:   10,
	},
	{
		label:    "design still open",
		patterns: compilePatterns(`(?i)\b(custom|design[- ]build|tbd|to be determined|as needed|allowance)\b`, `(?i)\betc\.?`),
		weight:   15,
	},
	{
		label:    "structural change",
		patterns: compilePatterns(`(?i)\b(addition|extension|adu|second stor(y|ey)|load[- ]bearing)\b`),
		weight:   10,
	},
}

var liabilityKeywords = []keywordFactor{
	{
		label:    "hazardous trade work",
		patterns: compilePatterns(`(?i)\b(roof\w*|electrical|wiring|gas line|demolition|excavat\w*|crane|scaffold\w*)\b`),
		weight:   15,
	},
	{
		label:    "hazardous materials",
		patterns: compilePatterns(`(?i)\b(asbestos|lead paint|mold|radon)\b`),
		weight:   20,
	},
	{
		label:    "structural work",
		patterns: compilePatterns(`(?i)\b(foundation|structural|load[- ]bearing|retaining wall|pool)\b`),
		weight:   10,
	},
}

var terminationKeywords = []keywordFactor{
	{
		label:    "phased or seasonal work",
		patterns: compilePatterns(`(?i)\b(phase[sd]?|multi[- ]phase|seasonal|weather|winter)\b`),
		weight:   10,
	},
	{
		label:    "long lead materials",
		patterns: compilePatterns(`(?i)\b(special order|back ?order\w*|lead time|import\w*)\b`),
		weight:   10,
	},
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	var compiled []*regexp.Regexp
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// matchKeywords sums the weights of every factor matching text, one hit per
// factor, capped at limit.
func matchKeywords(text string, factors []keywordFactor, limit int) (int, []string) {
	total := 0
	var labels []string
	for _, kf := range factors {
		for _, re := range kf.patterns {
			if re.MatchString(text) {
				total += kf.weight
				labels = append(labels, kf.label)
				break
			}
		}
	}
	return min(total, limit), labels
}

// facts is the project data the rules read, normalized once per run.
type facts struct {
	project    model.ProjectInput
	amount     float64
	hasAmount  bool
	text       string
	resolved   bool
	applicable int
	unmet      int
}

func newFacts(p model.ProjectInput, resolved bool) *facts {
	amount, ok := p.Amount()
	return &facts{
		project:   p,
		amount:    amount,
		hasAmount: ok,
		text:      strings.Join([]string{p.ProjectType, p.ProjectCategory, p.Description}, " "),
		resolved:  resolved,
	}
}

// Factor is the raw output of one risk rule before levels are assigned.
type Factor struct {
	Category   model.RiskCategory
	Likelihood int
	Impact     int
	Reasons    []string
}

// Rule evaluates one risk category.
type Rule func(f *facts) Factor

// Rules returns the rule for every category, in category order.
func Rules() []Rule {
	return []Rule{
		PaymentRule,
		ScopeRule,
		ComplianceRule,
		LiabilityRule,
		TerminationRule,
	}
}

// amountImpact maps the contract value to an impact score.
func amountImpact(f *facts) int {
	if !f.hasAmount {
		return Neutral
	}
	switch {
	case f.amount < 5_000:
		return 20
	case f.amount < 25_000:
		return 40
	case f.amount < 100_000:
		return 60
	case f.amount < 500_000:
		return 80
	default:
		return 95
	}
}

// PaymentRule scores the risk of not being paid.
func PaymentRule(f *facts) Factor {
	out := Factor{Category: model.CategoryPayment, Likelihood: 40, Impact: amountImpact(f)}
	if !f.hasAmount {
		out.Likelihood = Neutral
		out.Reasons = append(out.Reasons, "contract amount unknown")
	} else if f.amount >= 100_000 {
		out.Likelihood += 10
		out.Reasons = append(out.Reasons, "large contract value")
	}

	switch dep := f.project.DepositAmount; {
	case dep == nil || *dep <= 0:
		out.Likelihood += 10
		out.Reasons = append(out.Reasons, "no deposit")
	case f.hasAmount && *dep < 0.1*f.amount:
		out.Likelihood += 5
		out.Reasons = append(out.Reasons, "deposit below 10% of contract value")
	}

	if strings.TrimSpace(f.project.Client.Name) == "" {
		out.Likelihood += 10
		out.Reasons = append(out.Reasons, "client not identified")
	}

	bump, labels := matchKeywords(f.text, paymentKeywords, 25)
	out.Likelihood += bump
	out.Reasons = append(out.Reasons, labels...)
	return out
}

// ScopeRule scores the risk of scope creep and change disputes.
func ScopeRule(f *facts) Factor {
	out := Factor{Category: model.CategoryScope, Likelihood: 35, Impact: amountImpact(f)}
	desc := strings.TrimSpace(f.project.Description)
	switch {
	case desc == "":
		out.Likelihood = 55
		out.Reasons = append(out.Reasons, "no project description")
	case len(desc) < 60:
		out.Likelihood += 15
		out.Reasons = append(out.Reasons, "brief project description")
	}

	bump, labels := matchKeywords(f.text, scopeKeywords, 30)
	out.Likelihood += bump
	out.Reasons = append(out.Reasons, labels...)
	return out
}

// ComplianceRule scores regulatory and licensing exposure.
func ComplianceRule(f *facts) Factor {
	out := Factor{Category: model.CategoryCompliance, Likelihood: 30, Impact: 35}
	if !f.resolved {
		out.Likelihood = 60
		out.Reasons = append(out.Reasons, "jurisdiction unresolved")
	}
	if strings.TrimSpace(f.project.Contractor.License) == "" {
		out.Likelihood += 20
		out.Reasons = append(out.Reasons, "contractor license not provided")
	}
	if f.unmet > 0 {
		out.Likelihood += min(15*f.unmet, 45)
		out.Reasons = append(out.Reasons, "legal requirements not yet satisfied")
	}
	if f.applicable > 0 {
		out.Impact = min(40+15*f.applicable, 95)
	}
	return out
}

// LiabilityRule scores exposure to property damage and injury claims.
func LiabilityRule(f *facts) Factor {
	out := Factor{Category: model.CategoryLiability, Likelihood: 30, Impact: amountImpact(f)}
	switch ins := f.project.Confirmations.Insurance; {
	case ins == nil:
		out.Likelihood += 10
		out.Reasons = append(out.Reasons, "insurance not confirmed")
	case !*ins:
		out.Likelihood += 20
		out.Reasons = append(out.Reasons, "contractor uninsured")
	}

	bump, labels := matchKeywords(f.text, liabilityKeywords, 40)
	out.Likelihood += bump
	out.Reasons = append(out.Reasons, labels...)
	if bump > 0 {
		out.Impact += 10
	}
	return out
}

// TerminationRule scores the risk of the project ending early.
func TerminationRule(f *facts) Factor {
	out := Factor{Category: model.CategoryTermination, Likelihood: 25, Impact: max(amountImpact(f)-10, 10)}
	if !f.hasAmount {
		out.Impact = Neutral
	}
	tl := f.project.Timeline
	switch {
	case tl.DurationDays == 0 && tl.StartDate == "" && tl.CompletionDate == "":
		out.Likelihood += 15
		out.Reasons = append(out.Reasons, "no timeline")
	case tl.DurationDays > 180:
		out.Likelihood += 25
		out.Reasons = append(out.Reasons, "project longer than six months")
	case tl.DurationDays > 90:
		out.Likelihood += 15
		out.Reasons = append(out.Reasons, "project longer than three months")
	}

	bump, labels := matchKeywords(f.text, terminationKeywords, 20)
	out.Likelihood += bump
	out.Reasons = append(out.Reasons, labels...)
	return out
}

// Package analysis implements the risk and compliance analyzer and the clause
// recommendation selector.
package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/sprite-ai/clauseguard/internal/apperr"
	"github.com/sprite-ai/clauseguard/internal/catalog"
	"github.com/sprite-ai/clauseguard/internal/jurisdiction"
	"github.com/sprite-ai/clauseguard/internal/model"
)

// Analyzer turns project data into an AnalysisResult. It holds no per-run
// state and may be shared between goroutines.
type Analyzer struct {
	source catalog.Source
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock sets the clock used for requirement effective dates and result ids.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithLogger sets the analyzer's logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// New creates an Analyzer reading clauses and requirements from source.
func New(source catalog.Source, opts ...Option) *Analyzer {
	a := &Analyzer{
		source: source,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores the project, selects clauses and evaluates the requirements of
// its jurisdiction. Identical input on the same day yields an identical result.
// Incomplete input never fails the run (NaN or infinite amounts count as
// missing); the only error is an AnalysisFailure when the clause source cannot
// be read, and then no result is returned.
func (a *Analyzer) Analyze(ctx context.Context, p model.ProjectInput) (*model.AnalysisResult, error) {
	const op = "analysis.Analyze"

	p = p.Normalized()
	day := a.now().UTC().Format(time.DateOnly)
	id, err := resultID(p, day)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, op, "encoding project", err)
	}
	j := jurisdiction.Resolve(p.Location)
	f := newFacts(p, j.Resolved)

	clauses, err := a.source.Clauses(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAnalysisFailure, op, "loading clauses", err)
	}
	reqs, err := a.source.Requirements(ctx, j.Code)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAnalysisFailure, op, "loading requirements for "+j.Code, err)
	}

	applicable := applicableRequirements(reqs, f, day)
	f.applicable = len(applicable)

	// Compelled clauses are selected regardless of risk, so checks that only
	// need clause inclusion can be evaluated before risk levels are known.
	statuses := evaluate(applicable, f, Select(clauses, nil, applicable, j.Code))
	satisfied := 0
	for _, s := range statuses {
		if s.Satisfied {
			satisfied++
		} else {
			f.unmet++
		}
	}

	assessments := assess(f)
	selected := Select(clauses, assessments, applicable, j.Code)
	for i := range assessments {
		assessments[i].MitigationClauses = mitigations(selected, assessments[i].Category)
	}

	result := &model.AnalysisResult{
		ID:                    id,
		Jurisdiction:          j.Code,
		JurisdictionResolved:  j.Resolved,
		RecommendedClauses:    selected,
		RiskAssessments:       assessments,
		MandatoryRequirements: applicable,
		TotalRiskScore:        totalRiskScore(assessments),
		ComplianceScore:       complianceScore(satisfied, len(applicable)),
		DefenseStrength:       defenseStrength(assessments, selected),
	}
	result.CriticalWarnings = warnings(f, j, assessments, statuses)
	result.CriticalGaps = gaps(f, assessments, statuses)
	result.StrategicRecommendations = strategy(j, assessments, statuses, selected)

	a.logger.LogAttrs(ctx, slog.LevelInfo, "analysis complete",
		slog.String("result_id", result.ID),
		slog.String("jurisdiction", j.Code),
		slog.Int("clauses", len(selected)),
		slog.Int("requirements", len(applicable)),
		slog.Int("risk_score", result.TotalRiskScore),
		slog.String("max_risk", result.MaxRisk().String()),
	)
	return result, nil
}

func assess(f *facts) []model.RiskAssessment {
	out := make([]model.RiskAssessment, 0, len(Rules()))
	for _, rule := range Rules() {
		factor := rule(f)
		l, i := clamp(factor.Likelihood), clamp(factor.Impact)
		score := categoryScore(l, i)
		level := LevelFor(score)
		out = append(out, model.RiskAssessment{
			Category:          factor.Category,
			RiskLevel:         level,
			Description:       describe(factor, level),
			Likelihood:        l,
			Impact:            i,
			Score:             score,
			CostImplication:   costImplication(level, f.amount, f.hasAmount),
			MitigationClauses: []string{},
		})
	}
	return out
}

func describe(f Factor, level model.RiskLevel) string {
	s := level.String() + " " + strings.ToLower(strings.TrimSuffix(string(f.Category), " Protection")) + " risk"
	if len(f.Reasons) == 0 {
		return s + ": no aggravating factors"
	}
	return s + ": " + strings.Join(f.Reasons, ", ")
}

func mitigations(clauses []model.DefenseClause, category model.RiskCategory) []string {
	out := []string{}
	for _, c := range clauses {
		if c.Category == string(category) {
			out = append(out, c.ID)
		}
	}
	return out
}

// resultID derives a stable id from the project data and the analysis day.
func resultID(p model.ProjectInput, day string) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(day))
	return "ar_" + hex.EncodeToString(h.Sum(nil))[:24], nil
}

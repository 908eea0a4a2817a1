package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/clauseguard/internal/analysis"
	"github.com/sprite-ai/clauseguard/internal/highlight"
	"github.com/sprite-ai/clauseguard/internal/jurisdiction"
	"github.com/sprite-ai/clauseguard/internal/model"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [project.json|-]",
	Short: "Analyze a project and output a risk report (non-interactive)",
	Long: `Score a project's contract risk, check compliance requirements and list
the recommended defense clauses. The project is read as JSON from a file, from
stdin ("-"), or assembled from flags. Flags override file values.

Exit codes:
  0 — no high risks
  1 — at least one HIGH risk category
  2 — a CRITICAL risk category or an unmet compliance requirement`,
	Example: `  clauseguard analyze project.json
  clauseguard analyze --location "Los Angeles, CA" --amount 50000 -f json
  cat project.json | clauseguard analyze - -f markdown`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	addProjectFlags(analyzeCmd)
	analyzeCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown, html")
	analyzeCmd.Flags().Bool("color", false, "colorize json output")
}

func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().String("location", "", "project location, e.g. \"Los Angeles, CA\"")
	cmd.Flags().Float64("amount", 0, "total contract amount in dollars")
	cmd.Flags().Float64("deposit", 0, "deposit amount in dollars")
	cmd.Flags().String("category", "", "project category, e.g. \"Home Improvement\"")
	cmd.Flags().String("type", "", "project type")
	cmd.Flags().String("description", "", "scope of work description")
	cmd.Flags().String("client", "", "client name")
	cmd.Flags().String("license", "", "contractor license number")
}

// readProject loads project input from a file or stdin and applies flag
// overrides.
func readProject(cmd *cobra.Command, args []string) (model.ProjectInput, error) {
	var p model.ProjectInput

	if len(args) == 1 {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return p, fmt.Errorf("reading project: %w", err)
		}
		if err := json.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("parsing project: %w", err)
		}
	}

	f := cmd.Flags()
	strFlags := []struct {
		name string
		dst  *string
	}{
		{"location", &p.Location},
		{"category", &p.ProjectCategory},
		{"type", &p.ProjectType},
		{"description", &p.Description},
		{"client", &p.Client.Name},
		{"license", &p.Contractor.License},
	}
	for _, sf := range strFlags {
		if f.Changed(sf.name) {
			*sf.dst, _ = f.GetString(sf.name)
		}
	}
	if f.Changed("amount") {
		v, _ := f.GetFloat64("amount")
		p.TotalAmount = &v
	}
	if f.Changed("deposit") {
		v, _ := f.GetFloat64("deposit")
		p.DepositAmount = &v
	}
	return p, nil
}

// analyzeProject runs the analyzer with the configured catalog and records the
// result in the audit log when enabled.
func analyzeProject(ctx context.Context, p model.ProjectInput) (*model.AnalysisResult, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	result, err := analysis.New(cat, analysis.WithLogger(logger)).Analyze(ctx, p)
	if err != nil {
		return nil, err
	}

	aud, err := openAuditor()
	if err != nil {
		logger.Warn("audit log unavailable", "error", err)
	} else if aud != nil {
		aud.RecordAnalysis(ctx, result)
		aud.Close()
	}
	return result, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	p, err := readProject(cmd, args)
	if err != nil {
		return err
	}

	result, err := analyzeProject(cmd.Context(), p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		color, _ := cmd.Flags().GetBool("color")
		err = outputJSON(out, result, color)
	case "markdown":
		err = outputMarkdown(out, result)
	case "html":
		err = outputHTML(out, result)
	case "text":
		err = outputText(out, result)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}

	if code := exitCode(result); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// exitCode grades a result for scripts and CI.
func exitCode(r *model.AnalysisResult) int {
	switch {
	case r.MaxRisk() >= model.RiskCritical, r.ComplianceScore < 100:
		return 2
	case r.MaxRisk() >= model.RiskHigh:
		return 1
	default:
		return 0
	}
}

func outputText(w io.Writer, r *model.AnalysisResult) error {
	fmt.Fprintf(w, "Jurisdiction: %s (%s)\n", jurisdiction.Name(r.Jurisdiction), r.Jurisdiction)
	fmt.Fprintf(w, "Total risk: %d/100  Compliance: %d%%  Defense strength: %d%%\n\n",
		r.TotalRiskScore, r.ComplianceScore, r.DefenseStrength)

	fmt.Fprintln(w, "Risk by category:")
	for _, a := range r.RiskAssessments {
		fmt.Fprintf(w, "  %s %-24s %-8s %3d  %s\n", riskIcon(a.RiskLevel), a.Category, a.RiskLevel, a.Score, a.CostImplication.Description)
	}
	fmt.Fprintln(w)

	if len(r.CriticalWarnings) > 0 {
		fmt.Fprintln(w, "Critical warnings:")
		for _, cw := range r.CriticalWarnings {
			fmt.Fprintf(w, "  - %s\n", cw.Message)
			if cw.Recommendation != "" {
				fmt.Fprintf(w, "    → %s\n", cw.Recommendation)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Recommended clauses (%d, %d required):\n", len(r.RecommendedClauses), len(r.MandatoryClauses()))
	for _, c := range r.RecommendedClauses {
		tag := "          "
		if c.Applicability.Mandatory {
			tag = "[required]"
		}
		fmt.Fprintf(w, "  %s %-28s %s / %s\n", tag, c.ID, c.Category, c.Subcategory)
	}

	steps := []struct {
		title string
		items []string
	}{
		{"Immediate", r.StrategicRecommendations.Immediate},
		{"Short term", r.StrategicRecommendations.ShortTerm},
		{"Long term", r.StrategicRecommendations.LongTerm},
	}
	for _, s := range steps {
		if len(s.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", s.title)
		for _, it := range s.items {
			fmt.Fprintf(w, "  - %s\n", it)
		}
	}
	return nil
}

func outputJSON(w io.Writer, r *model.AnalysisResult, color bool) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return err
	}
	if color {
		return highlight.Write(w, buf.String(), "json")
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func outputMarkdown(w io.Writer, r *model.AnalysisResult) error {
	fmt.Fprintf(w, "## Contract Risk Report\n\n")
	fmt.Fprintf(w, "**Jurisdiction:** %s | **Risk:** %s (%d/100) | **Compliance:** %d%% | **Defense strength:** %d%%\n\n",
		jurisdiction.Name(r.Jurisdiction), r.MaxRisk(), r.TotalRiskScore, r.ComplianceScore, r.DefenseStrength)

	fmt.Fprintln(w, "| Category | Risk | Score | Exposure |")
	fmt.Fprintln(w, "|----------|------|-------|----------|")
	for _, a := range r.RiskAssessments {
		fmt.Fprintf(w, "| %s | %s | %d | %s |\n", a.Category, a.RiskLevel, a.Score, a.CostImplication.Description)
	}
	fmt.Fprintln(w)

	if len(r.CriticalWarnings) > 0 {
		fmt.Fprintf(w, "### Critical warnings\n\n")
		for _, cw := range r.CriticalWarnings {
			fmt.Fprintf(w, "- **%s** %s\n", cw.Message, cw.Recommendation)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "### Recommended clauses\n\n")
	for _, c := range r.RecommendedClauses {
		req := ""
		if c.Applicability.Mandatory {
			req = " _(required by law)_"
		}
		fmt.Fprintf(w, "- `%s` %s / %s%s\n", c.ID, c.Category, c.Subcategory, req)
	}
	return nil
}

func outputHTML(w io.Writer, r *model.AnalysisResult) error {
	fmt.Fprint(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>clauseguard Risk Report</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; background: #282a36; color: #f8f8f2; }
  h1 { color: #bd93f9; }
  .summary { background: #343746; padding: 16px; border-radius: 8px; margin-bottom: 24px; }
  .summary span { margin-right: 24px; }
  .risk-CRITICAL { color: #ff5555; font-weight: bold; }
  .risk-HIGH { color: #ffb86c; font-weight: bold; }
  .risk-MEDIUM { color: #f1fa8c; }
  .risk-LOW { color: #50fa7b; }
  table { width: 100%; border-collapse: collapse; }
  th { text-align: left; padding: 8px 12px; background: #44475a; color: #f8f8f2; }
  td { padding: 8px 12px; border-bottom: 1px solid #44475a; }
  tr:hover { background: #343746; }
  .warning { color: #ff5555; }
  code { background: #343746; padding: 2px 6px; border-radius: 4px; font-size: 0.9em; }
  footer { margin-top: 32px; color: #6272a4; font-size: 0.85em; }
</style>
</head>
<body>
<h1>clauseguard Risk Report</h1>
`)

	fmt.Fprintf(w, `<div class="summary">
  <span>Jurisdiction: <strong>%s</strong></span>
  <span>Risk: <span class="risk-%s">%s</span> (%d/100)</span>
  <span>Compliance: <strong>%d%%</strong></span>
  <span>Defense strength: <strong>%d%%</strong></span>
</div>
`, html.EscapeString(jurisdiction.Name(r.Jurisdiction)), r.MaxRisk(), r.MaxRisk(), r.TotalRiskScore, r.ComplianceScore, r.DefenseStrength)

	fmt.Fprintln(w, `<table>
<thead><tr><th>Category</th><th>Risk</th><th>Score</th><th>Exposure</th></tr></thead>
<tbody>`)
	for _, a := range r.RiskAssessments {
		fmt.Fprintf(w, `<tr><td>%s</td><td class="risk-%s">%s</td><td>%d</td><td>%s</td></tr>
`, html.EscapeString(string(a.Category)), a.RiskLevel, a.RiskLevel, a.Score, html.EscapeString(a.CostImplication.Description))
	}
	fmt.Fprintln(w, `</tbody></table>`)

	if len(r.CriticalWarnings) > 0 {
		fmt.Fprintln(w, `<h2>Critical warnings</h2><ul>`)
		for _, cw := range r.CriticalWarnings {
			fmt.Fprintf(w, `<li class="warning">%s <em>%s</em></li>
`, html.EscapeString(cw.Message), html.EscapeString(cw.Recommendation))
		}
		fmt.Fprintln(w, `</ul>`)
	}

	fmt.Fprintln(w, `<h2>Recommended clauses</h2><ul>`)
	for _, c := range r.RecommendedClauses {
		req := ""
		if c.Applicability.Mandatory {
			req = " <strong>(required by law)</strong>"
		}
		fmt.Fprintf(w, "<li><code>%s</code> %s%s</li>\n", html.EscapeString(c.ID), html.EscapeString(c.Subcategory), req)
	}
	fmt.Fprintln(w, `</ul>`)

	fmt.Fprintf(w, "<footer>Generated by <strong>clauseguard</strong> on %s</footer>\n</body>\n</html>\n", time.Now().Format("2006-01-02"))
	return nil
}

func riskIcon(r model.RiskLevel) string {
	switch r {
	case model.RiskCritical:
		return "!!"
	case model.RiskHigh:
		return "! "
	case model.RiskMedium:
		return "* "
	case model.RiskLow:
		return "- "
	default:
		return "  "
	}
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

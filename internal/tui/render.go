package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/clauseguard/internal/customize"
	"github.com/sprite-ai/clauseguard/internal/highlight"
	"github.com/sprite-ai/clauseguard/internal/model"
	"github.com/sprite-ai/clauseguard/internal/review"
)

type lineKind int

const (
	lineText lineKind = iota
	lineSection
	lineMeta
	lineClause
)

// renderedLine is a single line of the detail pane ready for display.
type renderedLine struct {
	Kind    lineKind
	Content string

	// Syntax highlighting tokens for clause text (nil = no highlighting)
	Tokens []highlight.Token
}

// renderClause produces the detail pane lines for one clause in its current
// review state.
func renderClause(c model.DefenseClause, st review.ClauseState) []renderedLine {
	var lines []renderedLine
	section := func(title string) {
		if len(lines) > 0 {
			lines = append(lines, renderedLine{})
		}
		lines = append(lines, renderedLine{Kind: lineSection, Content: title})
	}
	text := func(s string) {
		for _, l := range strings.Split(s, "\n") {
			lines = append(lines, renderedLine{Content: l})
		}
	}
	bullets := func(items []string) {
		for _, it := range items {
			lines = append(lines, renderedLine{Content: "• " + it})
		}
	}

	meta := fmt.Sprintf("%s / %s  risk %s", c.Category, c.Subcategory, c.Applicability.RiskLevel)
	if st.Mandatory {
		meta += "  required by law"
	}
	lines = append(lines, renderedLine{Kind: lineMeta, Content: meta})

	section("Why")
	text(c.Rationale)

	section(fmt.Sprintf("Clause (%s)", st.SelectedVersion))
	for _, hl := range highlight.Clause(c.TextFor(st.SelectedVersion)) {
		lines = append(lines, renderedLine{Kind: lineClause, Content: hl.Plain(), Tokens: hl.Tokens})
	}
	if missing := customize.UnresolvedFor(c, st.SelectedVersion); len(missing) > 0 {
		lines = append(lines, renderedLine{Kind: lineMeta, Content: "Fields to fill: " + strings.Join(missing, ", ")})
	}

	if len(st.Customizations) > 0 {
		section("Customizations")
		for _, f := range c.CustomizationOptions.VariableFields {
			if v, ok := st.Customizations[f]; ok {
				lines = append(lines, renderedLine{Content: f + " = " + v})
			}
		}
	}

	if len(c.Consequences.IfIncluded) > 0 {
		section("If included")
		bullets(c.Consequences.IfIncluded)
	}
	if len(c.Consequences.IfOmitted) > 0 {
		section("If omitted")
		bullets(c.Consequences.IfOmitted)
	}

	if len(c.LegalSources) > 0 {
		section("Sources")
		for _, ls := range c.LegalSources {
			lines = append(lines, renderedLine{Kind: lineMeta, Content: ls.Citation + "  " + ls.Title})
		}
	}

	if st.UserNotes != "" {
		section("Notes")
		text(st.UserNotes)
	}
	return lines
}

// renderHighlightedContent renders clause text with placeholder and amount
// coloring.
func renderHighlightedContent(rl renderedLine) string {
	if len(rl.Tokens) == 0 {
		return textStyle.Render(rl.Content)
	}

	var b strings.Builder
	for _, tok := range rl.Tokens {
		switch {
		case tok.Field:
			b.WriteString(fieldStyle.Render(tok.Text))
		case tok.Color != "":
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
		default:
			b.WriteString(textStyle.Render(tok.Text))
		}
	}
	return b.String()
}

// styleLine applies styling to a rendered detail line.
func styleLine(rl renderedLine, width int) string {
	switch rl.Kind {
	case lineSection:
		return sectionStyle.Render(rl.Content)
	case lineMeta:
		return metaStyle.Render(truncate(rl.Content, width))
	case lineClause:
		return lipgloss.NewStyle().Width(width).Render(renderHighlightedContent(rl))
	default:
		return textStyle.Width(width).Render(rl.Content)
	}
}

// pulseColor interpolates between a dim and bright version of a color based on phase.
// Returns an animated lipgloss.Color that breathes between dim and full brightness.
func pulseColor(dimRGB, brightRGB [3]int, phase float64) lipgloss.Color {
	t := (math.Sin(phase) + 1) / 2 // 0.0 to 1.0
	r := dimRGB[0] + int(t*float64(brightRGB[0]-dimRGB[0]))
	g := dimRGB[1] + int(t*float64(brightRGB[1]-dimRGB[1]))
	b := dimRGB[2] + int(t*float64(brightRGB[2]-dimRGB[2]))
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

// Blocking mandatory clauses pulse between these.
var (
	blockingDim    = [3]int{0x8a, 0x2e, 0x2e} // muted red
	blockingBright = [3]int{0xff, 0x55, 0x55} // bright red
)

// statusBadge renders the short status marker shown in the clause list.
func statusBadge(st review.ClauseState, phase float64) string {
	switch st.Status {
	case model.StatusApproved:
		return approvedStyle.Render("✓")
	case model.StatusModified:
		return modifiedStyle.Render("✎")
	case model.StatusRejected:
		return rejectedStyle.Render("✗")
	default:
		if st.Mandatory {
			return lipgloss.NewStyle().Foreground(pulseColor(blockingDim, blockingBright, phase)).Bold(true).Render("!")
		}
		return pendingStyle.Render("·")
	}
}

func riskStyle(level model.RiskLevel) lipgloss.Style {
	if s, ok := riskStyles[level.String()]; ok {
		return s
	}
	return metaStyle
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}

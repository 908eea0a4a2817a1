package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorBgLight   = lipgloss.Color("#343746")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorOrange    = lipgloss.Color("#ffb86c")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	// Clause list styles
	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	itemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorHighlight).
				Bold(true)

	categoryStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	// Status badges
	approvedStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	modifiedStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	rejectedStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	// Detail pane styles
	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true).
			Padding(0, 0, 1, 0)

	sectionStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	textStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	metaStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	fieldStyle = lipgloss.NewStyle().
			Foreground(colorOrange).
			Underline(true)

	riskStyles = map[string]lipgloss.Style{
		"LOW":      lipgloss.NewStyle().Foreground(colorGreen),
		"MEDIUM":   lipgloss.NewStyle().Foreground(colorYellow),
		"HIGH":     lipgloss.NewStyle().Foreground(colorOrange).Bold(true),
		"CRITICAL": lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	}

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Background(colorBgLight).
				Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	// Help bar
	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

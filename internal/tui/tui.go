// Package tui implements the Bubble Tea clause review interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/clauseguard/internal/customize"
	"github.com/sprite-ai/clauseguard/internal/model"
	"github.com/sprite-ai/clauseguard/internal/review"
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeCustomize
	modeNotes
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the top-level Bubble Tea model for a review session.
type Model struct {
	ctx     context.Context
	session *review.Session
	ids     []string

	// UI state
	width  int
	height int

	// Clause list
	index int // currently selected clause

	// Detail pane
	scrollOffset int
	lines        []renderedLine

	// Prompt for customize and notes
	mode  inputMode
	input textinput.Model

	status    string
	statusErr bool
	phase     float64

	contract *review.Contract
	showHelp bool
}

// New creates a new TUI model over a review session.
func New(ctx context.Context, s *review.Session) Model {
	ti := textinput.New()
	ti.CharLimit = 500
	m := Model{
		ctx:     ctx,
		session: s,
		ids:     s.ClauseIDs(),
		input:   ti,
	}
	m.updateLines()
	return m
}

func (m *Model) current() string {
	if len(m.ids) == 0 {
		return ""
	}
	return m.ids[m.index]
}

func (m *Model) updateLines() {
	id := m.current()
	if id == "" {
		m.lines = nil
		return
	}
	c, err := m.session.Clause(id)
	if err != nil {
		m.lines = nil
		return
	}
	st, _ := m.session.State(id)
	m.lines = renderClause(c, st)
	if m.scrollOffset >= len(m.lines) {
		m.scrollOffset = 0
	}
}

func (m *Model) setResult(err error, ok string) {
	if err != nil {
		m.status, m.statusErr = err.Error(), true
		return
	}
	m.status, m.statusErr = ok, false
	m.updateLines()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.width - 20
		return m, nil

	case tickMsg:
		m.phase += 0.35
		return m, tick()

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.current()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, keys.Down):
		if m.index < len(m.ids)-1 {
			m.index++
			m.scrollOffset = 0
			m.updateLines()
		}

	case key.Matches(msg, keys.Up):
		if m.index > 0 {
			m.index--
			m.scrollOffset = 0
			m.updateLines()
		}

	case key.Matches(msg, keys.ScrollDown):
		if m.scrollOffset < len(m.lines)-1 {
			m.scrollOffset++
		}

	case key.Matches(msg, keys.ScrollUp):
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}

	case id == "":
		// Nothing to act on.

	case key.Matches(msg, keys.Toggle):
		m.setResult(m.session.Toggle(m.ctx, id), id+" toggled")

	case key.Matches(msg, keys.Reject):
		m.setResult(m.session.Reject(m.ctx, id), id+" rejected")

	case key.Matches(msg, keys.Reset):
		m.setResult(m.session.Reset(m.ctx, id), id+" reset")

	case key.Matches(msg, keys.Version):
		st, _ := m.session.State(id)
		next := nextVersion(st.SelectedVersion)
		m.setResult(m.session.SelectVersion(m.ctx, id, next), fmt.Sprintf("%s now uses the %s version", id, next))

	case key.Matches(msg, keys.Customize):
		c, _ := m.session.Clause(id)
		if len(c.CustomizationOptions.VariableFields) == 0 {
			m.status, m.statusErr = id+" has no customizable fields", true
			return m, nil
		}
		m.mode = modeCustomize
		m.input.Prompt = "customize> "
		m.input.Placeholder = strings.Join(c.CustomizationOptions.VariableFields, "=…; ") + "=…"
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, keys.Notes):
		st, _ := m.session.State(id)
		m.mode = modeNotes
		m.input.Prompt = "notes> "
		m.input.Placeholder = ""
		m.input.SetValue(st.UserNotes)
		return m, m.input.Focus()

	case key.Matches(msg, keys.Finalize):
		contract, err := m.session.Finalize(m.ctx)
		if err != nil {
			m.status, m.statusErr = err.Error(), true
			return m, nil
		}
		m.contract = contract
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		m.status, m.statusErr = "", false
		return m, nil

	case tea.KeyEnter:
		id := m.current()
		value := m.input.Value()
		mode := m.mode
		m.mode = modeBrowse
		m.input.Blur()

		if mode == modeNotes {
			m.setResult(m.session.SetNotes(m.ctx, id, value), "notes saved")
			return m, nil
		}
		fields := customize.ParseAssignments(value)
		if len(fields) == 0 {
			m.status, m.statusErr = "expected field=value[; field=value]", true
			return m, nil
		}
		m.setResult(m.session.Customize(m.ctx, id, fields), id+" customized")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func nextVersion(v model.Version) model.Version {
	switch v {
	case model.VersionModerate:
		return model.VersionAggressive
	case model.VersionAggressive:
		return model.VersionMinimal
	default:
		return model.VersionModerate
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	// Layout: clause list on left, detail on right
	listWidth := m.listWidth()
	detailWidth := m.width - listWidth - 1 // -1 for gap

	bodyHeight := m.height - 2
	if m.mode != modeBrowse {
		bodyHeight--
	}

	list := m.renderList(listWidth, bodyHeight)
	detail := m.renderDetail(detailWidth, bodyHeight)

	main := lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail)

	parts := []string{main}
	if m.mode != modeBrowse {
		parts = append(parts, promptStyle.Render(m.input.View()))
	}
	parts = append(parts, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) listWidth() int {
	maxLen := 20
	for _, id := range m.ids {
		if len(id) > maxLen {
			maxLen = len(id)
		}
	}
	w := maxLen + 8 // padding + badge
	if w > m.width/3 {
		w = m.width / 3
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) renderList(width, height int) string {
	var rows []string
	selectedRow := 0
	category := ""
	maxName := width - 8

	for i, id := range m.ids {
		c, _ := m.session.Clause(id)
		if c.Category != category {
			category = c.Category
			rows = append(rows, categoryStyle.Render(truncate(category, width-4)))
		}
		st, _ := m.session.State(id)

		style := itemStyle
		if i == m.index {
			style = itemSelectedStyle
			selectedRow = len(rows)
		}
		line := statusBadge(st, m.phase) + " " + style.Width(width-6).Render(truncate(id, maxName))
		rows = append(rows, line)
	}

	innerHeight := height - 2 // borders
	start := 0
	if innerHeight > 0 && selectedRow >= innerHeight {
		start = selectedRow - innerHeight + 1
	}
	end := start + innerHeight
	if end > len(rows) {
		end = len(rows)
	}
	if start > end {
		start = end
	}

	return listStyle.Width(width).Height(innerHeight).Render(strings.Join(rows[start:end], "\n"))
}

func (m Model) renderDetail(width, height int) string {
	innerWidth := width - 4 // borders + padding
	innerHeight := height - 2

	id := m.current()
	if id == "" {
		return detailStyle.Width(width).Height(innerHeight).Render("No clauses to review")
	}

	c, _ := m.session.Clause(id)
	title := c.Subcategory
	if title == "" {
		title = id
	}
	header := headerStyle.Render(title) + "  " + riskStyle(c.Applicability.RiskLevel).Render(c.Applicability.RiskLevel.String())

	visibleLines := innerHeight - 2 // header takes some space
	if visibleLines < 1 {
		visibleLines = 1
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')

	end := m.scrollOffset + visibleLines
	if end > len(m.lines) {
		end = len(m.lines)
	}
	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(styleLine(m.lines[i], innerWidth))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return detailStyle.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) renderStatusBar() string {
	p := m.session.Progress()
	left := fmt.Sprintf(" Clause %d/%d  %d%% approved", m.index+1, len(m.ids), p.Percentage)
	if len(m.ids) == 0 {
		left = " No clauses"
	}
	if blocking := m.session.Blocking(); len(blocking) > 0 {
		left += fmt.Sprintf("  %d required pending", len(blocking))
	}

	right := m.session.Result().Jurisdiction + "  ? help "

	style := statusBarStyle
	if m.status != "" {
		left += "  " + m.status
		if m.statusErr {
			style = statusErrorStyle
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	return style.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("clauseguard: Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, k := range []key.Binding{
		keys.Up, keys.Down, keys.ScrollUp, keys.ScrollDown,
		keys.Toggle, keys.Reject, keys.Customize, keys.Reset,
		keys.Version, keys.Notes, keys.Finalize, keys.Help, keys.Quit,
	} {
		h := k.Help()
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(h.Key),
			h.Desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Customize with field=value pairs, e.g. amount=$5,000; licenseNumber=123456"))
	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}

// Run starts the TUI over a session and returns the review outcome.
func Run(ctx context.Context, s *review.Session) (*ReviewResult, error) {
	m := New(ctx, s)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	fm := final.(Model)
	return &ReviewResult{Session: s, Contract: fm.contract}, nil
}

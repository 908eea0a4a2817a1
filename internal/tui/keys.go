package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Toggle     key.Binding
	Reject     key.Binding
	Customize  key.Binding
	Reset      key.Binding
	Version    key.Binding
	Notes      key.Binding
	Finalize   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "prev clause"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next clause"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup", "K"),
		key.WithHelp("pgup/K", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("pgdown", "J"),
		key.WithHelp("pgdn/J", "scroll down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "approve/unapprove"),
	),
	Reject: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reject"),
	),
	Customize: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "customize"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Version: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "cycle version"),
	),
	Notes: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "notes"),
	),
	Finalize: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "finalize"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

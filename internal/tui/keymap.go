package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard key bindings.
type KeyMap struct {
	Filter     key.Binding
	Sort       key.Binding
	Order      key.Binding
	Reload     key.Binding
	Called     key.Binding
	Interested key.Binding
	Refused    key.Binding
	Callback   key.Binding
	Recruited  key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		Order: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort order"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Called: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "log call"),
		),
		Interested: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "log interested"),
		),
		Refused: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "log refused"),
		),
		Callback: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "log callback"),
		),
		Recruited: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "log recruited"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

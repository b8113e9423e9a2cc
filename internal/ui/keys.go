package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Refresh    key.Binding

	// View switching
	ViewBrowse   key.Binding
	ViewMyQueues key.Binding
	ViewRoster   key.Binding

	// Navigation
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	NextTab key.Binding

	// Browse actions
	Search   key.Binding
	Favorite key.Binding

	// Queue actions
	CancelTicket key.Binding
	EditTicket   key.Binding

	// Roster actions
	CallNext key.Binding
	Finish   key.Binding
}

// defaultKeyMap returns the default key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Refresh now"),
		),

		ViewBrowse: key.NewBinding(
			key.WithKeys("1", "b"),
			key.WithHelp("1/b", "Browse establishments"),
		),
		ViewMyQueues: key.NewBinding(
			key.WithKeys("2", "m"),
			key.WithHelp("2/m", "My queues"),
		),
		ViewRoster: key.NewBinding(
			key.WithKeys("3", "r"),
			key.WithHelp("3/r", "Queue roster (merchant)"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "Up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "Down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Select"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Switch tab"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle favorite"),
		),

		CancelTicket: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Cancel ticket"),
		),
		EditTicket: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit party size / notes"),
		),

		CallNext: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Call next"),
		),
		Finish: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Finish ticket"),
		),
	}
}

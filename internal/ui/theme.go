package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string

	Text   string
	Muted  string
	Accent string

	Success string
	Warning string
	Danger  string
	Info    string

	SelectionBg   string
	SelectionText string
	Border        string

	// StatusColors keys ticket statuses to their display color.
	StatusColors map[string]string
}

// Styles precomputes Lipgloss styles for a theme.
type Styles struct {
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Danger    lipgloss.Style
	Info      lipgloss.Style
	Selection lipgloss.Style
	Header    lipgloss.Style
	Footer    lipgloss.Style
	Panel     lipgloss.Style
	Title     lipgloss.Style
	TabActive lipgloss.Style
	TabIdle   lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		Accent: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),

		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Selection: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Background(lipgloss.Color(t.Surface)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		TabActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true).
			Underline(true),

		TabIdle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
	}
}

// StatusStyle returns the style for a ticket status badge.
func (t Theme) StatusStyle(status string) lipgloss.Style {
	if color, ok := t.StatusColors[status]; ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted))
}

var themes = []Theme{
	{
		Name:          "Dracula",
		Background:    "#282a36",
		Surface:       "#44475a",
		Text:          "#f8f8f2",
		Muted:         "#6272a4",
		Accent:        "#bd93f9",
		Success:       "#50fa7b",
		Warning:       "#f1fa8c",
		Danger:        "#ff5555",
		Info:          "#8be9fd",
		SelectionBg:   "#44475a",
		SelectionText: "#f8f8f2",
		Border:        "#6272a4",
		StatusColors: map[string]string{
			"WAITING":   "#f1fa8c",
			"CALLED":    "#50fa7b",
			"FINISHED":  "#8be9fd",
			"CANCELLED": "#ff5555",
		},
	},
	{
		Name:          "Nord",
		Background:    "#2e3440",
		Surface:       "#3b4252",
		Text:          "#eceff4",
		Muted:         "#616e88",
		Accent:        "#88c0d0",
		Success:       "#a3be8c",
		Warning:       "#ebcb8b",
		Danger:        "#bf616a",
		Info:          "#81a1c1",
		SelectionBg:   "#434c5e",
		SelectionText: "#eceff4",
		Border:        "#4c566a",
		StatusColors: map[string]string{
			"WAITING":   "#ebcb8b",
			"CALLED":    "#a3be8c",
			"FINISHED":  "#81a1c1",
			"CANCELLED": "#bf616a",
		},
	},
	{
		Name:          "Solarized",
		Background:    "#002b36",
		Surface:       "#073642",
		Text:          "#839496",
		Muted:         "#586e75",
		Accent:        "#268bd2",
		Success:       "#859900",
		Warning:       "#b58900",
		Danger:        "#dc322f",
		Info:          "#2aa198",
		SelectionBg:   "#073642",
		SelectionText: "#93a1a1",
		Border:        "#586e75",
		StatusColors: map[string]string{
			"WAITING":   "#b58900",
			"CALLED":    "#859900",
			"FINISHED":  "#2aa198",
			"CANCELLED": "#dc322f",
		},
	},
}

// GetTheme returns the named theme, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the name of the theme after the given one.
func NextTheme(name string) string {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Holds the console palette plus tab, panel, and record table styles

package styles

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	Primary   = lipgloss.Color("#7C3AED") // brand purple, active tab and selection
	Secondary = lipgloss.Color("#10B981") // success
	Warning   = lipgloss.Color("#F59E0B") // expiring licenses
	Danger    = lipgloss.Color("#EF4444") // expired, failures
	Info      = lipgloss.Color("#3B82F6")
	Muted     = lipgloss.Color("#6B7280")
	Text      = lipgloss.Color("#F9FAFB")
	Accent    = lipgloss.Color("#8B5CF6")
)

var (
	// Panel frames the record table; ActivePanel is the focused one.
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(0, 1)

	ActivePanel = Panel.BorderForeground(Primary)

	TabActive = lipgloss.NewStyle().
			Foreground(Text).
			Background(Primary).
			Bold(true).
			Padding(0, 2)

	TabInactive = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 2)

	// LabelStyle aligns the field names in the details pane
	LabelStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Width(12)
)

// Table returns the record table styles
func Table() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Muted).
		BorderBottom(true).
		Foreground(Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(Text).
		Background(Primary).
		Bold(false)
	return s
}

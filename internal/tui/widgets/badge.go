// ABOUTME: Status badge widgets for instance status and license expiry
// ABOUTME: Provides colored inline badges and status indicators

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/centerops/cms-console/internal/client"
	"github.com/centerops/cms-console/internal/console"
	"github.com/centerops/cms-console/internal/tui/icons"
	"github.com/centerops/cms-console/internal/tui/styles"
)

// StatusLevel represents the severity of a status
type StatusLevel int

const (
	StatusOK StatusLevel = iota
	StatusWarning
	StatusCritical
	StatusInfo
	StatusNeutral
)

var (
	onColor   = lipgloss.Color("#FFFFFF")
	onWarning = lipgloss.Color("#000000")
)

func colors(level StatusLevel) (bg, fg lipgloss.Color) {
	switch level {
	case StatusOK:
		return styles.Secondary, onColor
	case StatusWarning:
		return styles.Warning, onWarning
	case StatusCritical:
		return styles.Danger, onColor
	case StatusInfo:
		return styles.Info, onColor
	default:
		return styles.Muted, onColor
	}
}

// Badge renders a colored status badge
func Badge(text string, level StatusLevel) string {
	bg, fg := colors(level)
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// LevelForStatus maps an instance status to a severity
func LevelForStatus(status string) StatusLevel {
	switch status {
	case client.StatusActive:
		return StatusOK
	case client.StatusSuspended:
		return StatusWarning
	case client.StatusExpired:
		return StatusCritical
	default:
		return StatusNeutral
	}
}

// InstanceStatusBadge renders an instance status such as "active"
func InstanceStatusBadge(status string) string {
	if status == "" {
		return Badge("--", StatusNeutral)
	}
	return Badge(strings.ToUpper(status), LevelForStatus(status))
}

// LevelForExpiry maps a license expiry state to a severity
func LevelForExpiry(state console.ExpiryState) StatusLevel {
	switch state {
	case console.ExpiryOK:
		return StatusOK
	case console.ExpiryExpiring:
		return StatusWarning
	case console.ExpiryExpired:
		return StatusCritical
	default:
		return StatusNeutral
	}
}

// ExpiryBadge renders the license expiry warning, or "" for a healthy or
// unknown licence
func ExpiryBadge(state console.ExpiryState, days int) string {
	note := console.ExpiryNote(state, days)
	if note == "" {
		return ""
	}
	return Badge(note, LevelForExpiry(state))
}

// StatusIcon returns the appropriate icon for a status level
func StatusIcon(level StatusLevel) string {
	bg, _ := colors(level)
	style := lipgloss.NewStyle().Foreground(bg)
	switch level {
	case StatusOK:
		return style.Render(icons.CheckOK.String())
	case StatusWarning:
		return style.Render(icons.Warning.String())
	case StatusCritical:
		return style.Render(icons.Critical.String())
	case StatusInfo:
		return style.Render(icons.Info.String())
	default:
		return style.Render("•")
	}
}

// StatusText returns styled status text with icon
func StatusText(text string, level StatusLevel) string {
	bg, _ := colors(level)
	return fmt.Sprintf("%s %s", StatusIcon(level), lipgloss.NewStyle().Foreground(bg).Render(text))
}

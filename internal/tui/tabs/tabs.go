// ABOUTME: Record tab bar for the list screen
// ABOUTME: Switches between companies, programs, and program instances

package tabs

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/centerops/cms-console/internal/tui/icons"
	"github.com/centerops/cms-console/internal/tui/styles"
)

// Tab identifies a record type shown on the list screen
type Tab int

const (
	Instances Tab = iota
	Companies
	Programs
)

// All lists the tabs in display order
var All = []Tab{Instances, Companies, Programs}

// String returns the tab label
func (t Tab) String() string {
	switch t {
	case Instances:
		return "Instances"
	case Companies:
		return "Companies"
	case Programs:
		return "Programs"
	default:
		return "unknown"
	}
}

// Noun is the singular record name used in prompts
func (t Tab) Noun() string {
	switch t {
	case Instances:
		return "instance"
	case Companies:
		return "company"
	case Programs:
		return "program"
	default:
		return "record"
	}
}

// Icon returns the tab's icon
func (t Tab) Icon() icons.Icon {
	switch t {
	case Companies:
		return icons.Company
	case Programs:
		return icons.Program
	default:
		return icons.Instance
	}
}

// Tabs tracks the active tab
type Tabs struct {
	active Tab
}

// New starts on the instances tab
func New() *Tabs {
	return &Tabs{active: Instances}
}

// Active returns the selected tab
func (t *Tabs) Active() Tab {
	return t.active
}

// Select jumps to tab
func (t *Tabs) Select(tab Tab) {
	t.active = tab
}

// Next moves right, wrapping around
func (t *Tabs) Next() {
	t.active = All[(int(t.active)+1)%len(All)]
}

// Prev moves left, wrapping around
func (t *Tabs) Prev() {
	t.active = All[(int(t.active)+len(All)-1)%len(All)]
}

// View renders the tab bar with a count next to each label
func (t *Tabs) View(counts map[Tab]int) string {
	var rendered []string
	for _, tab := range All {
		label := tab.Icon().String() + " " + tab.String()
		if n, ok := counts[tab]; ok {
			label += " (" + strconv.Itoa(n) + ")"
		}
		if tab == t.active {
			rendered = append(rendered, styles.TabActive.Render(label))
		} else {
			rendered = append(rendered, styles.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, rendered...)
}

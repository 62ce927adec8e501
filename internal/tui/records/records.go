// ABOUTME: Scrollable record tables for the list screen
// ABOUTME: Wraps bubbles/table with column layouts for each record type

package records

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/centerops/cms-console/internal/client"
	"github.com/centerops/cms-console/internal/console"
	"github.com/centerops/cms-console/internal/tui/styles"
	"github.com/centerops/cms-console/internal/tui/tabs"
)

const minWidth = 60

// column is a header and its share of the available width
type column struct {
	title  string
	weight int
}

var layouts = map[tabs.Tab][]column{
	tabs.Companies: {
		{"Company Name", 3},
		{"Email", 3},
		{"Country", 2},
	},
	tabs.Programs: {
		{"Name", 3},
		{"Code", 2},
		{"Category", 2},
		{"Version", 1},
	},
	tabs.Instances: {
		{"Company", 3},
		{"Program", 3},
		{"License", 4},
		{"Expiry", 3},
		{"Status", 2},
	},
}

// Table is one tab's record list. Row i always corresponds to record i of
// the slice last passed to a Set method.
type Table struct {
	tab   tabs.Tab
	model table.Model
	ids   []string
}

// New creates an empty table for tab
func New(tab tabs.Tab, width, height int) *Table {
	t := &Table{tab: tab}
	t.model = table.New(
		table.WithColumns(Columns(tab, width)),
		table.WithFocused(true),
		table.WithHeight(max(height, 3)),
	)
	t.model.SetStyles(styles.Table())
	return t
}

// Columns splits width between the tab's columns by weight
func Columns(tab tabs.Tab, width int) []table.Column {
	layout := layouts[tab]
	width = max(width, minWidth)

	total := 0
	for _, c := range layout {
		total += c.weight
	}
	// each cell carries one column of padding on both sides
	usable := width - 2*len(layout)

	cols := make([]table.Column, 0, len(layout))
	for _, c := range layout {
		cols = append(cols, table.Column{Title: c.title, Width: usable * c.weight / total})
	}
	return cols
}

// SetSize fits the table into width x height
func (t *Table) SetSize(width, height int) {
	t.model.SetColumns(Columns(t.tab, width))
	t.model.SetWidth(max(width, minWidth))
	t.model.SetHeight(max(height, 3))
}

// SetCompanies replaces the rows with companies
func (t *Table) SetCompanies(companies []client.Company) {
	rows := make([]table.Row, 0, len(companies))
	ids := make([]string, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, table.Row{c.CompanyName, c.CompanyEmail, c.Country})
		ids = append(ids, c.ID)
	}
	t.setRows(rows, ids)
}

// SetPrograms replaces the rows with programs
func (t *Table) SetPrograms(programs []client.Program) {
	rows := make([]table.Row, 0, len(programs))
	ids := make([]string, 0, len(programs))
	for _, p := range programs {
		rows = append(rows, table.Row{p.Name, p.Code, p.Category, p.CurrentVersion})
		ids = append(ids, p.ID)
	}
	t.setRows(rows, ids)
}

// SetInstances replaces the rows with instances, computing expiry at now
func (t *Table) SetInstances(instances []client.ProgramInstance, now time.Time) {
	rows := make([]table.Row, 0, len(instances))
	ids := make([]string, 0, len(instances))
	for _, inst := range instances {
		rows = append(rows, table.Row{
			orID(inst.Company.CompanyName, inst.Company.ID),
			orID(inst.Program.Name, inst.Program.ID),
			console.LicenseRange(inst.LicenseStart, inst.LicenseExpire),
			expiryCell(inst.LicenseExpire, now),
			inst.Status,
		})
		ids = append(ids, inst.ID)
	}
	t.setRows(rows, ids)
}

func (t *Table) setRows(rows []table.Row, ids []string) {
	t.ids = ids
	t.model.SetRows(rows)
	if t.model.Cursor() >= len(rows) {
		t.model.SetCursor(max(len(rows)-1, 0))
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.ids)
}

// Selected returns the index of the highlighted row
func (t *Table) Selected() (int, bool) {
	if len(t.ids) == 0 {
		return 0, false
	}
	return t.model.Cursor(), true
}

// SelectedID returns the record id of the highlighted row, or ""
func (t *Table) SelectedID() string {
	i, ok := t.Selected()
	if !ok || i >= len(t.ids) {
		return ""
	}
	return t.ids[i]
}

// Update forwards navigation keys to the table
func (t *Table) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return cmd
}

// View renders the table, or an empty-state line when there are no rows
func (t *Table) View() string {
	if len(t.ids) == 0 {
		return lipgloss.NewStyle().Foreground(styles.Muted).Render("No " + t.tab.String() + " Found")
	}
	return t.model.View()
}

func expiryCell(expire string, now time.Time) string {
	state, days := console.Expiry(expire, now)
	note := console.ExpiryNote(state, days)
	if state == console.ExpiryExpiring {
		return "⚠ " + note
	}
	return note
}

func orID(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

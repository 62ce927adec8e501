// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/centerops/cms-console/internal/client"
	"github.com/centerops/cms-console/internal/console"
	"github.com/centerops/cms-console/internal/session"
	"github.com/centerops/cms-console/internal/tui/forms"
	"github.com/centerops/cms-console/internal/tui/icons"
	"github.com/centerops/cms-console/internal/tui/records"
	"github.com/centerops/cms-console/internal/tui/styles"
	"github.com/centerops/cms-console/internal/tui/tabs"
	"github.com/centerops/cms-console/internal/tui/widgets"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenList
	ScreenForm
	ScreenConfirm
)

// Layout constants
const (
	minTerminalWidth = 80 // Narrowest frame we draw
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
	chromeHeight     = 16 // Frame, tab bar, flash line, panel borders, and detail pane
)

// dataLoadedMsg is sent when the three record lists are loaded
type dataLoadedMsg struct {
	data *console.Data
	err  error
}

// loggedInMsg is sent when a login attempt finishes
type loggedInMsg struct {
	email string
	resp  *client.LoginResponse
	err   error
}

// loggedOutMsg is sent when logout finishes
type loggedOutMsg struct {
	err error
}

// savedMsg is sent when a record form has been submitted to the API
type savedMsg struct {
	form *forms.Form
	msg  string
	err  error
}

// deletedMsg is sent when a delete finishes
type deletedMsg struct {
	msg      string
	fallback string
	err      error
}

// qrSavedMsg is sent when a QR image has been written
type qrSavedMsg struct {
	path string
	err  error
}

// confirmAction is what a confirmation prompt guards
type confirmAction int

const (
	confirmDelete confirmAction = iota
	confirmLogout
)

type pendingConfirm struct {
	action confirmAction
	tab    tabs.Tab
	id     string
}

// flash is the one-line notice under the tab bar
type flash struct {
	text  string
	level widgets.StatusLevel
}

// App is the root model for the TUI
type App struct {
	service *console.Service
	gateway *session.Gateway
	router  *Router
	qrDir   string

	screen     Screen
	width      int
	height     int
	tabs       *tabs.Tabs
	tables     map[tabs.Tab]*records.Table
	data       *console.Data
	form       *forms.Form
	pending    pendingConfirm
	loading    bool
	spinner    spinner.Model
	flash      flash
	user       string
	lastUpdate time.Time
}

// New creates the TUI. The router's current view picks the first screen:
// Home opens the record lists, anything else opens the login form.
func New(service *console.Service, gateway *session.Gateway, router *Router, qrDir string) *App {
	a := &App{
		service: service,
		gateway: gateway,
		router:  router,
		qrDir:   qrDir,
		tabs:    tabs.New(),
		tables:  make(map[tabs.Tab]*records.Table, len(tabs.All)),
		data:    &console.Data{},
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
	}
	for _, tab := range tabs.All {
		a.tables[tab] = records.New(tab, minTerminalWidth-panelPadding, 10)
	}

	if router.Current() == session.ViewHome {
		a.screen = ScreenList
	} else {
		a.screen = ScreenLogin
		a.form = forms.NewLogin("")
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenLogin {
		return a.form.Init()
	}
	return a.startLoading(a.loadData())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for _, t := range a.tables {
			t.SetSize(a.panelWidth(), a.tableHeight())
		}
		if a.form != nil {
			a.form.SetWidth(a.formWidth())
			return a.updateForm(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.screen {
		case ScreenList:
			return a.updateList(msg)
		default:
			return a.updateForm(msg)
		}

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case navigateMsg:
		if msg.view == session.ViewLogin {
			return a, a.showLogin(console.FailSessionEnded, widgets.StatusWarning)
		}
		return a, a.showList()

	case forms.SubmittedMsg:
		return a.handleSubmitted(msg)

	case forms.CancelledMsg:
		if msg.Kind == forms.KindLogin {
			return a, tea.Quit
		}
		a.form = nil
		a.screen = ScreenList
		return a, nil

	case dataLoadedMsg:
		a.loading = false
		if msg.err != nil {
			a.fail(msg.err, console.FailLoadData)
			return a, nil
		}
		a.setData(msg.data)
		return a, nil

	case loggedInMsg:
		a.loading = false
		if msg.err != nil {
			text := msg.err.Error()
			var loginErr *session.LoginError
			if errors.As(msg.err, &loginErr) {
				text = loginErr.Message
			}
			a.setFlash(text, widgets.StatusCritical)
			a.form = forms.NewLogin(msg.email)
			a.form.SetWidth(a.formWidth())
			return a, a.form.Init()
		}
		a.router.Set(session.ViewHome)
		a.user = msg.resp.DisplayName()
		if a.user == "" {
			a.user = msg.email
		}
		a.form = nil
		a.screen = ScreenList
		a.setFlash(console.MsgSignedIn, widgets.StatusOK)
		return a, a.startLoading(a.loadData())

	case loggedOutMsg:
		a.loading = false
		a.router.Set(session.ViewLogin)
		a.user = ""
		a.data = &console.Data{}
		a.setData(a.data)
		switch {
		case msg.err == nil:
			return a, a.showLogin(console.MsgLoggedOut, widgets.StatusInfo)
		case errors.Is(msg.err, session.ErrRemoteLogout):
			return a, a.showLogin(console.MsgLoggedOut+" (server did not confirm)", widgets.StatusWarning)
		default:
			return a, a.showLogin(msg.err.Error(), widgets.StatusCritical)
		}

	case savedMsg:
		a.loading = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				a.fail(msg.err, "")
				return a, nil
			}
			a.setFlash(client.Message(msg.err, saveFallback(msg.form.Kind())), widgets.StatusCritical)
			return a, a.reopen(msg.form)
		}
		a.form = nil
		a.screen = ScreenList
		a.setFlash(msg.msg, widgets.StatusOK)
		return a, a.startLoading(a.loadData())

	case deletedMsg:
		a.loading = false
		if msg.err != nil {
			a.fail(msg.err, msg.fallback)
			return a, nil
		}
		a.setFlash(msg.msg, widgets.StatusOK)
		return a, a.startLoading(a.loadData())

	case qrSavedMsg:
		a.loading = false
		if msg.err != nil {
			a.setFlash(console.FailGenerateQR, widgets.StatusCritical)
			return a, nil
		}
		a.setFlash(fmt.Sprintf("%s: %s", console.MsgQRDownloaded, msg.path), widgets.StatusOK)
		return a, nil

	default:
		// huh needs its internal messages while a form is open
		if a.form != nil && a.screen != ScreenList {
			return a.updateForm(msg)
		}
	}

	return a, nil
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.form == nil || a.loading {
		return a, nil
	}
	model, cmd := a.form.Update(msg)
	a.form = model.(*forms.Form)
	return a, cmd
}

func (a *App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return a, tea.Quit
	}
	if a.loading {
		return a, nil
	}

	switch msg.String() {
	case "tab", "right":
		a.tabs.Next()
		return a, nil
	case "shift+tab", "left":
		a.tabs.Prev()
		return a, nil
	case "r":
		return a, a.startLoading(a.loadData())
	case "n":
		return a, a.openForm(false)
	case "e", "enter":
		return a, a.openForm(true)
	case "d":
		return a, a.confirmDelete()
	case "g":
		return a, a.downloadQR()
	case "L":
		a.pending = pendingConfirm{action: confirmLogout}
		return a, a.openConfirm("Confirm Logout", "Are you sure you want to logout?")
	}

	return a, a.tables[a.tabs.Active()].Update(msg)
}

func (a *App) handleSubmitted(msg forms.SubmittedMsg) (tea.Model, tea.Cmd) {
	f := a.form
	if f == nil {
		return a, nil
	}

	switch msg.Kind {
	case forms.KindLogin:
		email, password := f.Credentials()
		return a, a.startLoading(a.login(email, password))

	case forms.KindInstance:
		if _, err := f.Instance().Input(); err != nil {
			a.setFlash(err.Error(), widgets.StatusCritical)
			return a, a.reopen(f)
		}
		return a, a.startLoading(a.save(f))

	case forms.KindCompany, forms.KindProgram:
		return a, a.startLoading(a.save(f))

	case forms.KindConfirm:
		a.form = nil
		a.screen = ScreenList
		if !f.Confirmed() {
			return a, nil
		}
		switch a.pending.action {
		case confirmLogout:
			return a, a.startLoading(a.logout())
		default:
			return a, a.startLoading(a.remove(a.pending.tab, a.pending.id))
		}
	}
	return a, nil
}

// openForm shows the create form for the active tab, or the edit form for
// the highlighted record when edit is set
func (a *App) openForm(edit bool) tea.Cmd {
	tab := a.tabs.Active()
	idx, ok := a.tables[tab].Selected()
	if edit && !ok {
		return nil
	}

	switch tab {
	case tabs.Companies:
		if edit {
			c := a.data.Companies[idx]
			a.form = forms.NewCompany(c.ID, c.Input())
		} else {
			a.form = forms.NewCompany("", client.CompanyInput{})
		}
	case tabs.Programs:
		if edit {
			p := a.data.Programs[idx]
			a.form = forms.NewProgram(p.ID, p.Input())
		} else {
			a.form = forms.NewProgram("", client.ProgramInput{})
		}
	case tabs.Instances:
		if edit {
			inst := a.data.Instances[idx]
			a.form = forms.NewInstance(inst.ID, console.InstanceFormFrom(inst), a.data.Companies, a.data.Programs)
		} else {
			a.form = forms.NewInstance("", console.NewInstanceForm(), a.data.Companies, a.data.Programs)
		}
	}

	a.screen = ScreenForm
	a.form.SetWidth(a.formWidth())
	return a.form.Init()
}

// reopen shows a record form again with the values the user submitted
func (a *App) reopen(f *forms.Form) tea.Cmd {
	switch f.Kind() {
	case forms.KindCompany:
		a.form = forms.NewCompany(f.ID(), f.Company())
	case forms.KindProgram:
		a.form = forms.NewProgram(f.ID(), f.Program())
	case forms.KindInstance:
		a.form = forms.NewInstance(f.ID(), f.Instance(), a.data.Companies, a.data.Programs)
	default:
		return nil
	}
	a.screen = ScreenForm
	a.form.SetWidth(a.formWidth())
	return a.form.Init()
}

func (a *App) confirmDelete() tea.Cmd {
	tab := a.tabs.Active()
	id := a.tables[tab].SelectedID()
	if id == "" {
		return nil
	}
	a.pending = pendingConfirm{action: confirmDelete, tab: tab, id: id}
	return a.openConfirm("Confirm Delete", fmt.Sprintf("Are you sure you want to delete this %s?", tab.Noun()))
}

func (a *App) openConfirm(title, message string) tea.Cmd {
	a.form = forms.NewConfirm(title, message)
	a.screen = ScreenConfirm
	a.form.SetWidth(a.formWidth())
	return a.form.Init()
}

// showLogin replaces the current screen with an empty login form. It does
// nothing when the login form is already showing.
func (a *App) showLogin(text string, level widgets.StatusLevel) tea.Cmd {
	a.loading = false
	if text != "" {
		a.setFlash(text, level)
	}
	if a.screen == ScreenLogin && a.form != nil {
		return nil
	}
	a.screen = ScreenLogin
	a.form = forms.NewLogin("")
	a.form.SetWidth(a.formWidth())
	return a.form.Init()
}

func (a *App) showList() tea.Cmd {
	a.form = nil
	a.screen = ScreenList
	return a.startLoading(a.loadData())
}

// fail flashes err. A rejected session only gets the notice: the gateway
// has already sent the router to login and the navigateMsg switches screens.
func (a *App) fail(err error, fallback string) {
	if client.IsUnauthorized(err) {
		a.setFlash(console.FailSessionEnded, widgets.StatusWarning)
		return
	}
	a.setFlash(client.Message(err, fallback), widgets.StatusCritical)
}

func (a *App) setFlash(text string, level widgets.StatusLevel) {
	a.flash = flash{text: text, level: level}
}

func (a *App) setData(data *console.Data) {
	a.data = data
	a.tables[tabs.Companies].SetCompanies(data.Companies)
	a.tables[tabs.Programs].SetPrograms(data.Programs)
	a.tables[tabs.Instances].SetInstances(data.Instances, a.service.Now())
	a.lastUpdate = time.Now()
}

func (a *App) startLoading(cmd tea.Cmd) tea.Cmd {
	a.loading = true
	return tea.Batch(a.spinner.Tick, cmd)
}

// loadData fetches every record list
func (a *App) loadData() tea.Cmd {
	return func() tea.Msg {
		data, err := a.service.LoadAll(context.Background())
		return dataLoadedMsg{data: data, err: err}
	}
}

func (a *App) login(email, password string) tea.Cmd {
	return func() tea.Msg {
		resp, err := a.gateway.Login(context.Background(), email, password)
		return loggedInMsg{email: email, resp: resp, err: err}
	}
}

func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: a.gateway.Logout(context.Background())}
	}
}

func (a *App) save(f *forms.Form) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var msg string
		var err error
		switch f.Kind() {
		case forms.KindCompany:
			_, msg, err = a.service.SaveCompany(ctx, f.ID(), f.Company())
		case forms.KindProgram:
			_, msg, err = a.service.SaveProgram(ctx, f.ID(), f.Program())
		case forms.KindInstance:
			_, msg, err = a.service.SaveInstance(ctx, f.ID(), f.Instance())
		}
		return savedMsg{form: f, msg: msg, err: err}
	}
}

func (a *App) remove(tab tabs.Tab, id string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var msg string
		var err error
		var fallback string
		switch tab {
		case tabs.Companies:
			msg, err = a.service.DeleteCompany(ctx, id)
			fallback = console.FailDeleteCompany
		case tabs.Programs:
			msg, err = a.service.DeleteProgram(ctx, id)
			fallback = console.FailDeleteProgram
		default:
			msg, err = a.service.DeleteInstance(ctx, id)
			fallback = console.FailDeleteInstance
		}
		return deletedMsg{msg: msg, fallback: fallback, err: err}
	}
}

// downloadQR writes the highlighted instance's QR code
func (a *App) downloadQR() tea.Cmd {
	if a.tabs.Active() != tabs.Instances {
		return nil
	}
	idx, ok := a.tables[tabs.Instances].Selected()
	if !ok {
		return nil
	}
	inst := a.data.Instances[idx]
	return a.startLoading(func() tea.Msg {
		path, err := a.service.DownloadQR(inst, a.qrDir)
		return qrSavedMsg{path: path, err: err}
	})
}

func saveFallback(kind forms.Kind) string {
	switch kind {
	case forms.KindCompany:
		return console.FailSaveCompany
	case forms.KindProgram:
		return console.FailSaveProgram
	default:
		return console.FailSaveInstance
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenList:
		content = a.viewList()
	default:
		content = a.viewForm()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewLogin() string {
	var sb strings.Builder
	if a.flash.text != "" {
		sb.WriteString(widgets.StatusText(a.flash.text, a.flash.level))
		sb.WriteString("\n\n")
	}
	if a.loading {
		sb.WriteString(a.spinner.View() + " Signing in...")
	} else if a.form != nil {
		sb.WriteString(a.form.View())
	}
	return styles.ActivePanel.Width(a.formWidth()).Render(sb.String())
}

func (a *App) viewList() string {
	counts := map[tabs.Tab]int{
		tabs.Companies: len(a.data.Companies),
		tabs.Programs:  len(a.data.Programs),
		tabs.Instances: len(a.data.Instances),
	}

	var sb strings.Builder
	sb.WriteString(a.tabs.View(counts))
	sb.WriteString("\n")
	sb.WriteString(a.flashLine())
	sb.WriteString("\n")

	table := a.tables[a.tabs.Active()]
	sb.WriteString(styles.ActivePanel.Width(a.panelWidth()).Render(table.View()))
	sb.WriteString("\n")
	sb.WriteString(a.viewDetails())
	return sb.String()
}

func (a *App) flashLine() string {
	if a.loading {
		return a.spinner.View() + " Loading..."
	}
	if a.flash.text == "" {
		return ""
	}
	return widgets.StatusText(a.flash.text, a.flash.level)
}

// viewDetails renders the highlighted record's remaining fields
func (a *App) viewDetails() string {
	tab := a.tabs.Active()
	idx, ok := a.tables[tab].Selected()
	if !ok {
		return ""
	}

	var rows [][2]string
	switch tab {
	case tabs.Companies:
		c := a.data.Companies[idx]
		rows = [][2]string{
			{"Contact", c.ContactPerson},
			{"Email", c.CompanyEmail},
			{"About", c.About},
		}
	case tabs.Programs:
		p := a.data.Programs[idx]
		rows = [][2]string{
			{"Code", p.Code},
			{"Version", p.CurrentVersion},
			{"Description", p.Description},
		}
	case tabs.Instances:
		inst := a.data.Instances[idx]
		license := console.LicenseRange(inst.LicenseStart, inst.LicenseExpire)
		if badge := widgets.ExpiryBadge(console.Expiry(inst.LicenseExpire, a.service.Now())); badge != "" {
			license += " " + badge
		}
		rows = [][2]string{
			{"License", license},
			{"Status", widgets.InstanceStatusBadge(inst.Status)},
			{"API URL", inst.APIURL},
			{"Username", inst.APIUsername},
		}
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, styles.LabelStyle.Render(r[0])+r[1])
	}
	return styles.Panel.Width(a.panelWidth()).Render(strings.Join(lines, "\n"))
}

func (a *App) viewForm() string {
	if a.loading {
		return styles.ActivePanel.Width(a.formWidth()).Render(a.spinner.View() + " Saving...")
	}
	var sb strings.Builder
	if a.flash.text != "" && a.flash.level == widgets.StatusCritical {
		sb.WriteString(widgets.StatusText(a.flash.text, a.flash.level))
		sb.WriteString("\n\n")
	}
	if a.form != nil {
		sb.WriteString(a.form.View())
	}
	return styles.ActivePanel.Width(a.formWidth()).Render(sb.String())
}

// frameWidth guards against zero/small width before WindowSizeMsg is received
func (a *App) frameWidth() int {
	if a.width < minTerminalWidth {
		return minTerminalWidth
	}
	return a.width
}

// panelWidth is the inner width of a full-width panel
func (a *App) panelWidth() int {
	return a.frameWidth() - panelPadding
}

// formWidth caps forms at a readable width
func (a *App) formWidth() int {
	return min(a.panelWidth(), 72)
}

// tableHeight is what is left for table rows after the surrounding chrome
func (a *App) tableHeight() int {
	return max(a.height-chromeHeight, 3)
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("CMS Console"))

	rightText := ""
	if a.user != "" && a.screen != ScreenLogin {
		rightText = " " + contextStyle.Render(icons.User.String()+" "+a.user) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Enter Submit", "Esc Quit"}
	case ScreenList:
		shortcuts = []string{"Tab Switch", "n New", "e Edit", "d Delete"}
		if a.tabs.Active() == tabs.Instances {
			shortcuts = append(shortcuts, "g QR")
		}
		shortcuts = append(shortcuts, "r Refresh", "L Logout", "q Quit")
	case ScreenForm:
		shortcuts = []string{"Enter Next", "Esc Cancel"}
	case ScreenConfirm:
		shortcuts = []string{"←→ Choose", "Enter Confirm", "Esc Cancel"}
	}

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ") + " "
	leftPlain := " " + strings.Join(shortcuts, "  ") + " "

	rightText := ""
	rightPlain := ""
	if !a.lastUpdate.IsZero() && a.screen == ScreenList {
		elapsed := formatTimeSince(a.lastUpdate)
		rightText = " " + statusStyle.Render("Updated "+elapsed) + " "
		rightPlain = " Updated " + elapsed + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftPlain) - lipgloss.Width(rightPlain) // -4 for ╰─ and ─╯
	if fillWidth < 0 && rightPlain != "" {
		// status is dropped before shortcuts on narrow terminals
		fillWidth += lipgloss.Width(rightPlain)
		rightText = ""
	}
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until the user quits
func Run(service *console.Service, gateway *session.Gateway, router *Router, qrDir string) error {
	app := New(service, gateway, router, qrDir)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	router.Attach(p.Send)
	defer router.Close()
	_, err := p.Run()
	return err
}

// ABOUTME: Record, login, and confirmation forms as a bubbletea model
// ABOUTME: Wraps huh forms and reports submit or cancel back to the app

package forms

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/centerops/cms-console/internal/client"
	"github.com/centerops/cms-console/internal/console"
	"github.com/centerops/cms-console/internal/tui/styles"
)

// Kind identifies what a form collects
type Kind int

const (
	KindLogin Kind = iota
	KindCompany
	KindProgram
	KindInstance
	KindConfirm
)

// SubmittedMsg is sent when the user completes the form
type SubmittedMsg struct {
	Kind Kind
}

// CancelledMsg is sent when the user presses esc
type CancelledMsg struct {
	Kind Kind
}

// Form is one open form. Values are read back through the typed accessors
// after SubmittedMsg arrives.
type Form struct {
	kind  Kind
	id    string
	title string
	form  *huh.Form
	width int

	email     string
	password  string
	company   client.CompanyInput
	program   client.ProgramInput
	instance  console.InstanceForm
	confirmed bool
}

// NewLogin builds the sign-in form, prefilled with email
func NewLogin(email string) *Form {
	f := &Form{kind: KindLogin, title: "Sign in", email: email}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&f.email).
				Validate(Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(Required("Password")),
		).Title("Login to Your Account").
			Description("Center Management System"),
	).WithTheme(Theme()).WithShowHelp(false)
	return f
}

// NewCompany builds the company form. An empty id creates a company.
func NewCompany(id string, values client.CompanyInput) *Form {
	f := &Form{kind: KindCompany, id: id, company: values, title: editTitle(id, "Company")}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Company Name").Value(&f.company.CompanyName),
			huh.NewInput().Title("Company Email").Value(&f.company.CompanyEmail),
			huh.NewInput().Title("Contact Person").Value(&f.company.ContactPerson),
			huh.NewInput().Title("Country").Value(&f.company.Country),
			huh.NewText().Title("About").Lines(3).Value(&f.company.About),
		).Title(f.title),
	).WithTheme(Theme()).WithShowHelp(false)
	return f
}

// NewProgram builds the program form. An empty id creates a program.
func NewProgram(id string, values client.ProgramInput) *Form {
	f := &Form{kind: KindProgram, id: id, program: values, title: editTitle(id, "Program")}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Program Name").Value(&f.program.Name),
			huh.NewInput().Title("Program Code").Value(&f.program.Code),
			huh.NewInput().Title("Category").Value(&f.program.Category),
			huh.NewInput().Title("Version").Value(&f.program.CurrentVersion),
			huh.NewText().Title("Description").Lines(3).Value(&f.program.Description),
		).Title(f.title),
	).WithTheme(Theme()).WithShowHelp(false)
	return f
}

// NewInstance builds the program instance form. Company and program are
// picked from the loaded lists. An empty id creates an instance.
func NewInstance(id string, values console.InstanceForm, companies []client.Company, programs []client.Program) *Form {
	if values.Status == "" {
		values.Status = client.StatusActive
	}
	f := &Form{kind: KindInstance, id: id, instance: values, title: editTitle(id, "Program Instance")}

	passwordHint := "Leave blank to keep the current password"
	if id == "" {
		passwordHint = ""
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Company").
				Options(CompanyOptions(companies)...).
				Value(&f.instance.Company).
				Validate(Required("Company")),
			huh.NewSelect[string]().
				Title("Program").
				Options(ProgramOptions(programs)...).
				Value(&f.instance.Program).
				Validate(Required("Program")),
			huh.NewInput().
				Title("License Start").
				Placeholder(console.DateLayout).
				Value(&f.instance.LicenseStart).
				Validate(Date),
			huh.NewInput().
				Title("License Expire").
				Placeholder(console.DateLayout).
				Value(&f.instance.LicenseExpire).
				Validate(Date),
		).Title(f.title),
		huh.NewGroup(
			huh.NewInput().Title("API URL").Value(&f.instance.APIURL),
			huh.NewInput().Title("API Username").Value(&f.instance.APIUsername),
			huh.NewInput().
				Title("API Password").
				Description(passwordHint).
				EchoMode(huh.EchoModePassword).
				Value(&f.instance.APIPassword),
			huh.NewSelect[string]().
				Title("Status").
				Options(StatusOptions()...).
				Value(&f.instance.Status),
		).Title("Connection"),
	).WithTheme(Theme()).WithShowHelp(false)
	return f
}

// NewConfirm builds a yes/no prompt
func NewConfirm(title, message string) *Form {
	f := &Form{kind: KindConfirm, title: title}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(message).
				Affirmative("Confirm").
				Negative("Cancel").
				Value(&f.confirmed),
		),
	).WithTheme(Theme()).WithShowHelp(false)
	return f
}

// CompanyOptions lists companies by name with a leading blank choice
func CompanyOptions(companies []client.Company) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("Select Company", "")}
	for _, c := range companies {
		opts = append(opts, huh.NewOption(c.CompanyName, c.ID))
	}
	return opts
}

// ProgramOptions lists programs by name with a leading blank choice
func ProgramOptions(programs []client.Program) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("Select Program", "")}
	for _, p := range programs {
		opts = append(opts, huh.NewOption(p.Name, p.ID))
	}
	return opts
}

// StatusOptions lists the instance statuses
func StatusOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(console.Statuses))
	for _, s := range console.Statuses {
		opts = append(opts, huh.NewOption(strings.ToUpper(s[:1])+s[1:], s))
	}
	return opts
}

func editTitle(id, noun string) string {
	if id == "" {
		return "Create " + noun
	}
	return "Edit " + noun
}

// Kind returns what the form collects
func (f *Form) Kind() Kind { return f.kind }

// ID returns the record being edited, or "" when creating
func (f *Form) ID() string { return f.id }

// Title returns the form heading
func (f *Form) Title() string { return f.title }

// Credentials returns the login form values
func (f *Form) Credentials() (email, password string) {
	return strings.TrimSpace(f.email), f.password
}

// Company returns the company form values
func (f *Form) Company() client.CompanyInput { return f.company }

// Program returns the program form values
func (f *Form) Program() client.ProgramInput { return f.program }

// Instance returns the instance form values
func (f *Form) Instance() console.InstanceForm { return f.instance }

// Confirmed reports whether the user accepted the confirmation
func (f *Form) Confirmed() bool { return f.confirmed }

// SetWidth sets the form width for proper rendering
func (f *Form) SetWidth(width int) {
	f.width = width
	f.form = f.form.WithWidth(width)
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, f.cancel()
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	switch f.form.State {
	case huh.StateCompleted:
		return f, f.submit()
	case huh.StateAborted:
		return f, f.cancel()
	}
	return f, cmd
}

func (f *Form) submit() tea.Cmd {
	kind := f.kind
	return func() tea.Msg { return SubmittedMsg{Kind: kind} }
}

func (f *Form) cancel() tea.Cmd {
	kind := f.kind
	return func() tea.Msg { return CancelledMsg{Kind: kind} }
}

// View implements tea.Model
func (f *Form) View() string {
	help := lipgloss.NewStyle().Foreground(styles.Muted).Render("enter next • shift+tab back • esc cancel")
	return f.form.View() + "\n" + help
}

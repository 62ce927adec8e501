// ABOUTME: Company commands for the cms CLI
// ABOUTME: Lists, shows, creates, updates, and deletes customer companies

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/centerops/cms-console/internal/client"
	"github.com/centerops/cms-console/internal/console"
	"github.com/centerops/cms-console/internal/session"
)

var companyInput client.CompanyInput

var companiesCmd = &cobra.Command{
	Use:     "companies",
	Aliases: []string{"company"},
	Short:   "Manage companies",
}

var companiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runCompaniesList(ctx, os.Stdout))
	},
}

var companiesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one company",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runCompaniesGet(ctx, os.Stdout, args[0]))
	},
}

var companiesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a company",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runCompaniesSave(ctx, os.Stdout, "", cmd.Flags()))
	},
}

var companiesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a company; only the given flags change",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runCompaniesSave(ctx, os.Stdout, args[0], cmd.Flags()))
	},
}

var companiesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a company",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runCompaniesDelete(ctx, os.Stdout, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(companiesCmd)
	companiesCmd.AddCommand(companiesListCmd, companiesGetCmd, companiesCreateCmd, companiesUpdateCmd, companiesDeleteCmd)

	for _, c := range []*cobra.Command{companiesCreateCmd, companiesUpdateCmd} {
		c.Flags().StringVar(&companyInput.CompanyName, "name", "", "Company name")
		c.Flags().StringVar(&companyInput.CompanyEmail, "email", "", "Company email")
		c.Flags().StringVar(&companyInput.ContactPerson, "contact", "", "Contact person")
		c.Flags().StringVar(&companyInput.Country, "country", "", "Country")
		c.Flags().StringVar(&companyInput.About, "about", "", "About the company")
	}
}

// runCompaniesList prints all companies and returns exit code
func runCompaniesList(ctx context.Context, w io.Writer) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		companies, err := rt.service.Companies(ctx)
		if err != nil {
			return reportError(w, err, console.FailLoadCompanies)
		}

		if IsJSONOutput() {
			printJSON(w, companies)
			return exitOK
		}
		fmt.Fprintln(w, formatCompaniesTable(companies))
		return exitOK
	})
}

// runCompaniesGet prints one company and returns exit code
func runCompaniesGet(ctx context.Context, w io.Writer, id string) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		company, err := rt.service.Company(ctx, id)
		if err != nil {
			return reportError(w, err, console.FailLoadCompanies)
		}

		if IsJSONOutput() {
			printJSON(w, company)
			return exitOK
		}
		printDetails(w, companyDetails(company))
		return exitOK
	})
}

// runCompaniesSave creates (empty id) or updates a company from flags
func runCompaniesSave(ctx context.Context, w io.Writer, id string, flags *pflag.FlagSet) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		input := companyInput
		if id != "" {
			current, err := rt.service.Company(ctx, id)
			if err != nil {
				return reportError(w, err, console.FailSaveCompany)
			}
			input = mergeCompanyInput(current.Input(), companyInput, flags)
		}

		saved, msg, err := rt.service.SaveCompany(ctx, id, input)
		if err != nil {
			return reportError(w, err, console.FailSaveCompany)
		}

		if IsJSONOutput() {
			printJSON(w, saved)
			return exitOK
		}
		fmt.Fprintln(w, msg)
		return exitOK
	})
}

// runCompaniesDelete deletes a company and returns exit code
func runCompaniesDelete(ctx context.Context, w io.Writer, id string) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		msg, err := rt.service.DeleteCompany(ctx, id)
		if err != nil {
			return reportError(w, err, console.FailDeleteCompany)
		}
		fmt.Fprintln(w, msg)
		return exitOK
	})
}

// mergeCompanyInput overlays the flags the user set onto the current values
func mergeCompanyInput(current, given client.CompanyInput, flags *pflag.FlagSet) client.CompanyInput {
	if flags == nil {
		return given
	}
	if flags.Changed("name") {
		current.CompanyName = given.CompanyName
	}
	if flags.Changed("email") {
		current.CompanyEmail = given.CompanyEmail
	}
	if flags.Changed("contact") {
		current.ContactPerson = given.ContactPerson
	}
	if flags.Changed("country") {
		current.Country = given.Country
	}
	if flags.Changed("about") {
		current.About = given.About
	}
	return current
}

func formatCompaniesTable(companies []client.Company) string {
	if len(companies) == 0 {
		return "No companies found"
	}
	rows := make([][]string, 0, len(companies))
	for _, c := range companies {
		rows = append(rows, []string{c.ID, c.CompanyName, c.CompanyEmail, c.ContactPerson, c.Country})
	}
	return renderTable([]string{"ID", "Company", "Email", "Contact", "Country"}, rows)
}

func companyDetails(c *client.Company) [][2]string {
	return [][2]string{
		{"ID", c.ID},
		{"Company", c.CompanyName},
		{"Email", c.CompanyEmail},
		{"Contact", c.ContactPerson},
		{"Country", c.Country},
		{"About", c.About},
	}
}

// ABOUTME: Program instance commands for the cms CLI
// ABOUTME: Manages licensed deployments and writes encrypted QR codes for them

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/centerops/cms-console/internal/client"
	"github.com/centerops/cms-console/internal/console"
	"github.com/centerops/cms-console/internal/session"
)

var (
	instanceForm  console.InstanceForm
	qrOutDir      string
	instancesList = instancesListOptions{}
)

type instancesListOptions struct {
	expiringOnly bool
}

var instancesCmd = &cobra.Command{
	Use:     "instances",
	Aliases: []string{"instance"},
	Short:   "Manage program instances",
}

var instancesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List program instances with license status",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runInstancesList(ctx, os.Stdout, time.Now()))
	},
}

var instancesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one program instance",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runInstancesGet(ctx, os.Stdout, args[0], time.Now()))
	},
}

var instancesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a program instance",
	Long: `Create a program instance. --company and --program accept an id, a
company name, or a program code or name. License dates use YYYY-MM-DD.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runInstancesSave(ctx, os.Stdout, "", cmd.Flags()))
	},
}

var instancesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a program instance; only the given flags change",
	Long: `Update a program instance. Fields not given keep their current values,
including the API password.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runInstancesSave(ctx, os.Stdout, args[0], cmd.Flags()))
	},
}

var instancesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a program instance",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runInstancesDelete(ctx, os.Stdout, args[0]))
	},
}

var instancesQRCmd = &cobra.Command{
	Use:   "qr <id>",
	Short: "Write the encrypted connection QR code for an instance",
	Long: `Write <program name>_QR.png containing the instance's program, code, API
URL, and username, encrypted with CMS_QR_SECRET.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runInstancesQR(ctx, os.Stdout, args[0], qrOutDir))
	},
}

func init() {
	rootCmd.AddCommand(instancesCmd)
	instancesCmd.AddCommand(instancesListCmd, instancesGetCmd, instancesCreateCmd, instancesUpdateCmd, instancesDeleteCmd, instancesQRCmd)

	instancesListCmd.Flags().BoolVar(&instancesList.expiringOnly, "expiring", false, "Only show expired or expiring licenses")
	instancesQRCmd.Flags().StringVar(&qrOutDir, "out", ".", "Directory to write the PNG into")

	for _, c := range []*cobra.Command{instancesCreateCmd, instancesUpdateCmd} {
		c.Flags().StringVar(&instanceForm.Company, "company", "", "Company id or name")
		c.Flags().StringVar(&instanceForm.Program, "program", "", "Program id, code, or name")
		c.Flags().StringVar(&instanceForm.LicenseStart, "start", "", "License start date (YYYY-MM-DD)")
		c.Flags().StringVar(&instanceForm.LicenseExpire, "expire", "", "License expiry date (YYYY-MM-DD)")
		c.Flags().StringVar(&instanceForm.APIURL, "endpoint", "", "Instance API URL")
		c.Flags().StringVar(&instanceForm.APIUsername, "username", "", "Instance API username")
		c.Flags().StringVar(&instanceForm.APIPassword, "password", "", "Instance API password (omit to keep current)")
		c.Flags().StringVar(&instanceForm.Status, "status", client.StatusActive, "Status: active, suspended, expired")
	}
}

// runInstancesList prints instances with license warnings and returns exit code
func runInstancesList(ctx context.Context, w io.Writer, now time.Time) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		instances, err := rt.service.Instances(ctx)
		if err != nil {
			return reportError(w, err, console.FailLoadData)
		}

		if instancesList.expiringOnly {
			instances = filterExpiring(instances, now)
		}

		if IsJSONOutput() {
			printJSON(w, instanceViews(instances, now))
			return exitOK
		}
		fmt.Fprintln(w, formatInstancesTable(instances, now))
		return exitOK
	})
}

// runInstancesGet prints one instance and returns exit code
func runInstancesGet(ctx context.Context, w io.Writer, id string, now time.Time) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		inst, err := rt.service.Instance(ctx, id)
		if err != nil {
			return reportError(w, err, console.FailLoadInstance)
		}

		view := newInstanceView(*inst, now)
		if IsJSONOutput() {
			printJSON(w, view)
			return exitOK
		}
		printDetails(w, [][2]string{
			{"ID", inst.ID},
			{"Company", refName(inst.Company.CompanyName, inst.Company.ID)},
			{"Program", refName(inst.Program.Name, inst.Program.ID)},
			{"Code", inst.Program.Code},
			{"License", licenseText(*inst, now)},
			{"API URL", inst.APIURL},
			{"Username", inst.APIUsername},
			{"Status", inst.Status},
		})
		return exitOK
	})
}

// runInstancesSave creates (empty id) or updates an instance from flags
func runInstancesSave(ctx context.Context, w io.Writer, id string, flags *pflag.FlagSet) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		form := instanceForm
		if id != "" {
			current, err := rt.service.Instance(ctx, id)
			if err != nil {
				return reportError(w, err, console.FailSaveInstance)
			}
			form = mergeInstanceForm(console.InstanceFormFrom(*current), instanceForm, flags)
		}

		if _, err := form.Input(); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}

		var err error
		if form.Company, err = rt.service.ResolveCompany(ctx, form.Company); err != nil {
			return reportError(w, err, console.FailSaveInstance)
		}
		if form.Program, err = rt.service.ResolveProgram(ctx, form.Program); err != nil {
			return reportError(w, err, console.FailSaveInstance)
		}

		saved, msg, err := rt.service.SaveInstance(ctx, id, form)
		if err != nil {
			return reportError(w, err, console.FailSaveInstance)
		}

		if IsJSONOutput() {
			printJSON(w, saved)
			return exitOK
		}
		fmt.Fprintln(w, msg)
		return exitOK
	})
}

// runInstancesDelete deletes an instance and returns exit code
func runInstancesDelete(ctx context.Context, w io.Writer, id string) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		msg, err := rt.service.DeleteInstance(ctx, id)
		if err != nil {
			return reportError(w, err, console.FailDeleteInstance)
		}
		fmt.Fprintln(w, msg)
		return exitOK
	})
}

// runInstancesQR writes the encrypted QR PNG and returns exit code
func runInstancesQR(ctx context.Context, w io.Writer, id, dir string) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		inst, err := rt.service.Instance(ctx, id)
		if err != nil {
			return reportError(w, err, console.FailLoadInstance)
		}

		path, err := rt.service.DownloadQR(*inst, dir)
		if err != nil {
			fmt.Fprintf(w, "Error: %s: %v\n", console.FailGenerateQR, err)
			return exitFailed
		}

		if rt.qr.UsesDefaultSecret() {
			fmt.Fprintln(w, "Warning: CMS_QR_SECRET is not set, using the built-in default secret")
		}
		if IsJSONOutput() {
			printJSON(w, map[string]string{"path": path})
			return exitOK
		}
		fmt.Fprintf(w, "%s: %s\n", console.MsgQRDownloaded, path)
		return exitOK
	})
}

// mergeInstanceForm overlays the flags the user set onto the current values
func mergeInstanceForm(current, given console.InstanceForm, flags *pflag.FlagSet) console.InstanceForm {
	if flags == nil {
		return given
	}
	if flags.Changed("company") {
		current.Company = given.Company
	}
	if flags.Changed("program") {
		current.Program = given.Program
	}
	if flags.Changed("start") {
		current.LicenseStart = given.LicenseStart
	}
	if flags.Changed("expire") {
		current.LicenseExpire = given.LicenseExpire
	}
	if flags.Changed("endpoint") {
		current.APIURL = given.APIURL
	}
	if flags.Changed("username") {
		current.APIUsername = given.APIUsername
	}
	if flags.Changed("password") {
		current.APIPassword = given.APIPassword
	}
	if flags.Changed("status") {
		current.Status = given.Status
	}
	return current
}

// instanceView is the JSON shape of an instance with computed expiry
type instanceView struct {
	client.ProgramInstance
	DaysLeft *int                `json:"daysLeft,omitempty"`
	Expiry   console.ExpiryState `json:"expiry,omitempty"`
}

func newInstanceView(inst client.ProgramInstance, now time.Time) instanceView {
	v := instanceView{ProgramInstance: inst}
	if days, ok := console.DaysLeft(inst.LicenseExpire, now); ok {
		v.DaysLeft = &days
		v.Expiry = console.StateFor(days)
	}
	return v
}

func instanceViews(instances []client.ProgramInstance, now time.Time) []instanceView {
	views := make([]instanceView, 0, len(instances))
	for _, inst := range instances {
		views = append(views, newInstanceView(inst, now))
	}
	return views
}

func filterExpiring(instances []client.ProgramInstance, now time.Time) []client.ProgramInstance {
	var out []client.ProgramInstance
	for _, inst := range instances {
		state, _ := console.Expiry(inst.LicenseExpire, now)
		if state == console.ExpiryExpiring || state == console.ExpiryExpired {
			out = append(out, inst)
		}
	}
	return out
}

// licenseText is the license range followed by any expiry warning
func licenseText(inst client.ProgramInstance, now time.Time) string {
	text := console.LicenseRange(inst.LicenseStart, inst.LicenseExpire)
	state, days := console.Expiry(inst.LicenseExpire, now)
	if note := console.ExpiryNote(state, days); note != "" {
		if state == console.ExpiryExpiring {
			note = "⚠ " + note
		}
		text += "  " + note
	}
	return text
}

func refName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

func formatInstancesTable(instances []client.ProgramInstance, now time.Time) string {
	if len(instances) == 0 {
		return "No Instances Found"
	}
	rows := make([][]string, 0, len(instances))
	for _, inst := range instances {
		rows = append(rows, []string{
			inst.ID,
			refName(inst.Company.CompanyName, inst.Company.ID),
			refName(inst.Program.Name, inst.Program.ID),
			licenseText(inst, now),
			inst.Status,
		})
	}
	return renderTable([]string{"ID", "Company", "Program", "License", "Status"}, rows)
}

// ABOUTME: Program commands for the cms CLI
// ABOUTME: Lists, shows, creates, updates, and deletes software programs

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

var programInput client.ProgramInput

var programsCmd = &cobra.Command{
	Use:     "programs",
	Aliases: []string{"program"},
	Short:   "Manage programs",
}

var programsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List programs",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runProgramsList(ctx, os.Stdout))
	},
}

var programsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one program",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runProgramsGet(ctx, os.Stdout, args[0]))
	},
}

var programsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a program",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runProgramsSave(ctx, os.Stdout, "", cmd.Flags()))
	},
}

var programsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a program; only the given flags change",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runProgramsSave(ctx, os.Stdout, args[0], cmd.Flags()))
	},
}

var programsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a program",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()
		exitWith(runProgramsDelete(ctx, os.Stdout, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(programsCmd)
	programsCmd.AddCommand(programsListCmd, programsGetCmd, programsCreateCmd, programsUpdateCmd, programsDeleteCmd)

	for _, c := range []*cobra.Command{programsCreateCmd, programsUpdateCmd} {
		c.Flags().StringVar(&programInput.Name, "name", "", "Program name")
		c.Flags().StringVar(&programInput.Code, "code", "", "Program code")
		c.Flags().StringVar(&programInput.Category, "category", "", "Category")
		c.Flags().StringVar(&programInput.CurrentVersion, "version", "", "Current version")
		c.Flags().StringVar(&programInput.Description, "description", "", "Description")
	}
}

// runProgramsList prints all programs and returns exit code
func runProgramsList(ctx context.Context, w io.Writer) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		programs, err := rt.service.Programs(ctx)
		if err != nil {
			return reportError(w, err, console.FailLoadPrograms)
		}

		if IsJSONOutput() {
			printJSON(w, programs)
			return exitOK
		}
		fmt.Fprintln(w, formatProgramsTable(programs))
		return exitOK
	})
}

// runProgramsGet prints one program and returns exit code
func runProgramsGet(ctx context.Context, w io.Writer, id string) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		program, err := rt.service.Program(ctx, id)
		if err != nil {
			return reportError(w, err, console.FailLoadPrograms)
		}

		if IsJSONOutput() {
			printJSON(w, program)
			return exitOK
		}
		printDetails(w, [][2]string{
			{"ID", program.ID},
			{"Name", program.Name},
			{"Code", program.Code},
			{"Category", program.Category},
			{"Version", program.CurrentVersion},
			{"Description", program.Description},
		})
		return exitOK
	})
}

// runProgramsSave creates (empty id) or updates a program from flags
func runProgramsSave(ctx context.Context, w io.Writer, id string, flags *pflag.FlagSet) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		input := programInput
		if id != "" {
			current, err := rt.service.Program(ctx, id)
			if err != nil {
				return reportError(w, err, console.FailSaveProgram)
			}
			input = mergeProgramInput(current.Input(), programInput, flags)
		}

		saved, msg, err := rt.service.SaveProgram(ctx, id, input)
		if err != nil {
			return reportError(w, err, console.FailSaveProgram)
		}

		if IsJSONOutput() {
			printJSON(w, saved)
			return exitOK
		}
		fmt.Fprintln(w, msg)
		return exitOK
	})
}

// runProgramsDelete deletes a program and returns exit code
func runProgramsDelete(ctx context.Context, w io.Writer, id string) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		msg, err := rt.service.DeleteProgram(ctx, id)
		if err != nil {
			return reportError(w, err, console.FailDeleteProgram)
		}
		fmt.Fprintln(w, msg)
		return exitOK
	})
}

// mergeProgramInput overlays the flags the user set onto the current values
func mergeProgramInput(current, given client.ProgramInput, flags *pflag.FlagSet) client.ProgramInput {
	if flags == nil {
		return given
	}
	if flags.Changed("name") {
		current.Name = given.Name
	}
	if flags.Changed("code") {
		current.Code = given.Code
	}
	if flags.Changed("category") {
		current.Category = given.Category
	}
	if flags.Changed("version") {
		current.CurrentVersion = given.CurrentVersion
	}
	if flags.Changed("description") {
		current.Description = given.Description
	}
	return current
}

func formatProgramsTable(programs []client.Program) string {
	if len(programs) == 0 {
		return "No programs found"
	}
	rows := make([][]string, 0, len(programs))
	for _, p := range programs {
		rows = append(rows, []string{p.ID, p.Name, p.Code, p.Category, p.CurrentVersion})
	}
	return renderTable([]string{"ID", "Name", "Code", "Category", "Version"}, rows)
}

// ABOUTME: Login and logout commands for the cms CLI
// ABOUTME: Exchanges credentials for tokens and ends the stored session

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/centerops/cms-console/internal/console"
	"github.com/centerops/cms-console/internal/session"
	"github.com/centerops/cms-console/internal/tui/forms"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the CMS API",
	Long: `Sign in with your staff email and password. Tokens are stored in the
config directory and attached to every later request.

Missing credentials are prompted for interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		email, password := loginEmail, loginPassword
		if email == "" || password == "" {
			if err := promptCredentials(&email, &password); err != nil {
				fmt.Fprintf(os.Stdout, "Error: %v\n", err)
				exitWith(exitError)
			}
		}
		exitWith(runLogin(ctx, os.Stdout, email, password))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear stored credentials",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		exitWith(runLogout(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
}

// promptCredentials asks for whichever credential is missing
func promptCredentials(email, password *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(email).
				Validate(forms.Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(forms.Required("Password")),
		).Title("Sign in").
			Description("Center Management System"),
	).WithTheme(forms.Theme()).Run()
}

// runLogin signs in and returns exit code
func runLogin(ctx context.Context, w io.Writer, email, password string) int {
	return withRuntime(w, session.ViewLogin, func(rt *runtime) int {
		resp, err := rt.gateway.Login(ctx, email, password)
		if err != nil {
			var loginErr *session.LoginError
			if errors.As(err, &loginErr) {
				fmt.Fprintf(w, "Error: %s\n", loginErr.Message)
			} else {
				fmt.Fprintf(w, "Error: %v\n", err)
			}
			return exitError
		}

		if IsJSONOutput() {
			data, _ := json.MarshalIndent(map[string]interface{}{
				"signedIn": true,
				"user":     resp.DisplayName(),
				"api":      rt.cfg.APIURL,
			}, "", "  ")
			fmt.Fprintln(w, string(data))
			return exitOK
		}

		if name := resp.DisplayName(); name != "" {
			fmt.Fprintf(w, "Signed in as %s (%s)\n", name, rt.cfg.APIURL)
		} else {
			fmt.Fprintf(w, "Signed in (%s)\n", rt.cfg.APIURL)
		}
		return exitOK
	})
}

// runLogout ends the session and returns exit code. A failed server call
// still clears local credentials and only produces a warning.
func runLogout(ctx context.Context, w io.Writer) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		err := rt.gateway.Logout(ctx)
		switch {
		case err == nil:
			fmt.Fprintln(w, console.MsgLoggedOut)
			return exitOK
		case errors.Is(err, session.ErrRemoteLogout):
			fmt.Fprintf(w, "Warning: %v\n", err)
			fmt.Fprintln(w, console.MsgLoggedOut)
			return exitOK
		default:
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
	})
}

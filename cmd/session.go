// ABOUTME: Session command for the cms CLI
// ABOUTME: Shows whether a session is stored and what its token claims say

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/centerops/cms-console/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the current session",
	Long: `Show whether credentials are stored and, when the access token is a JWT,
its subject and expiry. Claims are decoded without verification.

Exit codes:
  0 - Signed in
  1 - Not signed in, or the access token has expired
  2 - Error`,
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runSession(os.Stdout, time.Now()))
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

// runSession reports the session state and returns exit code
func runSession(w io.Writer, now time.Time) int {
	return withRuntime(w, session.ViewHome, func(rt *runtime) int {
		st, err := rt.gateway.Status(now)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}

		if IsJSONOutput() {
			fmt.Fprintln(w, formatSessionJSON(rt.cfg.APIURL, st))
		} else {
			fmt.Fprintln(w, formatSessionHuman(rt.cfg.APIURL, st, now))
		}

		if !st.SignedIn || st.Expired {
			return exitFailed
		}
		return exitOK
	})
}

// formatSessionHuman formats session status for human readability
func formatSessionHuman(api string, st session.Status, now time.Time) string {
	if !st.SignedIn {
		return fmt.Sprintf("API:     %s\nSession: not signed in (run 'cms login')", api)
	}

	out := fmt.Sprintf("API:     %s\nSession: signed in", api)
	if st.Email != "" {
		out += fmt.Sprintf("\nEmail:   %s", st.Email)
	}
	if st.Subject != "" {
		out += fmt.Sprintf("\nSubject: %s", st.Subject)
	}
	if !st.ExpiresAt.IsZero() {
		if st.Expired {
			out += fmt.Sprintf("\nExpires: %s (expired)", st.ExpiresAt.Local().Format(time.RFC1123))
		} else {
			out += fmt.Sprintf("\nExpires: %s (in %s)", st.ExpiresAt.Local().Format(time.RFC1123), st.ExpiresAt.Sub(now).Round(time.Second))
		}
	}
	if !st.HasRefresh {
		out += "\nRefresh: none stored"
	}
	return out
}

// formatSessionJSON formats session status as JSON
func formatSessionJSON(api string, st session.Status) string {
	output := struct {
		API string `json:"api"`
		session.Status
	}{API: api, Status: st}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}

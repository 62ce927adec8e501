// ABOUTME: Console command for the cms CLI
// ABOUTME: Launches the interactive TUI with logging redirected to a file

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/centerops/cms-console/internal/logger"
	"github.com/centerops/cms-console/internal/session"
	"github.com/centerops/cms-console/internal/tui"
)

var consoleQRDir string

var consoleCmd = &cobra.Command{
	Use:     "console",
	Aliases: []string{"ui"},
	Short:   "Open the interactive console",
	Long: `Open the full-screen console for browsing and editing instances,
companies, and programs. Starts on the login form unless a session is stored.

Logs go to debug.log in the config directory while the console is open.`,
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runConsole(os.Stdout, consoleQRDir))
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().StringVar(&consoleQRDir, "qr-dir", ".", "Directory for downloaded QR images")
}

// runConsole runs the TUI until the user quits and returns exit code
func runConsole(w io.Writer, qrDir string) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	// stderr would tear the alt screen
	if err := logger.InitFile(cfg.ConfigDir, cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(w, "Warning: %v\n", err)
	}
	defer logger.Close()

	rt, err := buildRuntime(cfg, nil, session.ViewLogin)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer rt.Close()

	router := tui.NewRouter(startView(rt.store))
	rt.gateway.SetNavigator(router)

	if err := tui.Run(rt.service, rt.gateway, router, qrDir); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

// startView opens the record lists when an access token is stored
func startView(store session.Store) session.View {
	creds, err := store.Get()
	if err != nil || creds.AccessToken == "" {
		return session.ViewLogin
	}
	return session.ViewHome
}

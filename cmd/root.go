// ABOUTME: Root command for the cms CLI
// ABOUTME: Handles global flags and wires config, logging, session, and API client

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/centerops/cms-console/internal/cache"
	"github.com/centerops/cms-console/internal/client"
	"github.com/centerops/cms-console/internal/config"
	"github.com/centerops/cms-console/internal/console"
	"github.com/centerops/cms-console/internal/logger"
	"github.com/centerops/cms-console/internal/qrcrypt"
	"github.com/centerops/cms-console/internal/session"
)

var (
	apiURL           string
	jsonOutput       bool
	configDir        string
	ephemeralSession bool
	envFile          string
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1 // the API rejected the operation
	exitError  = 2 // usage, connectivity, or authentication problem
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "cms",
	Short: "Admin console for the Center Management System",
	Long: `cms manages companies, programs, and licensed program instances in the
Center Management System, and generates encrypted QR codes for instances.

Run 'cms login' first, then use the resource commands or 'cms console' for
the interactive UI.

Environment Variables:
  CMS_API_URL          Backend API URL (default: ` + config.DefaultAPIURL + `)
  CMS_QR_SECRET        Secret used to encrypt QR payloads
  CMS_CONFIG_DIR       Directory for session.json and debug.log
  CMS_REQUEST_TIMEOUT  Request timeout in seconds (default: 30)
  CMS_ALL_PROXY        ssh+socks5://user@host:port?private-key=/path
  CMS_CACHE_TTL        Lifetime of cached lookup lists in seconds (default: 300)
  CMS_LOG_LEVEL        debug, info, warn, error (default: warn)
  CMS_LOG_FORMAT       text or json (default: text)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides CMS_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding the session file (overrides CMS_CONFIG_DIR)")
	rootCmd.PersistentFlags().BoolVar(&ephemeralSession, "ephemeral-session", false, "Keep credentials in memory only")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Load environment variables from this file if it exists")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// exitWith terminates the process when code is non-zero
func exitWith(code int) {
	if code != exitOK {
		os.Exit(code)
	}
}

// loadConfig reads .env and the environment, then applies flag overrides
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}
	if configDir != "" {
		cfg.ConfigDir = configDir
	}
	return cfg, nil
}

// runtime holds the objects shared by every command
type runtime struct {
	cfg       *config.Config
	store     session.Store
	scratch   *cache.Cache
	navigator *session.StaticNavigator
	gateway   *session.Gateway
	client    *client.Client
	service   *console.Service
	qr        qrcrypt.Obfuscator
}

// newRuntime builds the session gateway and API client. w receives the
// session-expired notice if the API rejects the stored token.
func newRuntime(w io.Writer, start session.View) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	return buildRuntime(cfg, w, start)
}

func buildRuntime(cfg *config.Config, w io.Writer, start session.View) (*runtime, error) {
	rt := &runtime{
		cfg:     cfg,
		scratch: cache.New(cfg.CacheDuration()),
		qr:      qrcrypt.New(cfg.QRSecret),
	}

	if ephemeralSession {
		rt.store = session.NewMemoryStore()
	} else {
		rt.store = session.NewFileStore(cfg.ConfigDir)
	}

	rt.navigator = session.NewStaticNavigator(start, func(v session.View) {
		if v == session.ViewLogin && w != nil {
			fmt.Fprintln(w, console.FailSessionExpired)
		}
	})

	rt.gateway = session.NewGateway(rt.store,
		session.WithEphemeral(rt.scratch),
		session.WithNavigator(rt.navigator),
		session.WithLogger(slog.Default().With("component", "session")),
	)

	opts := []client.Option{
		client.WithTimeout(cfg.Timeout()),
		client.WithMiddleware(rt.gateway.Middleware()),
	}
	if cfg.AllProxy != "" {
		transport, err := client.ProxyTransport(cfg.AllProxy)
		if err != nil {
			rt.scratch.Close()
			return nil, fmt.Errorf("configure proxy: %w", err)
		}
		opts = append(opts, client.WithTransport(transport))
	}

	rt.client = client.New(cfg.APIURL, opts...)
	rt.gateway.SetAuthAPI(rt.client)
	rt.service = console.NewService(rt.client, rt.scratch, rt.qr)
	return rt, nil
}

// Close releases background resources
func (rt *runtime) Close() {
	rt.scratch.Close()
}

// withRuntime builds a runtime for the duration of fn and maps setup
// failures to exitError
func withRuntime(w io.Writer, start session.View, fn func(rt *runtime) int) int {
	rt, err := newRuntime(w, start)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer rt.Close()
	return fn(rt)
}

// reportError prints the best message for err and returns the exit code.
// API rejections exit 1; authentication and transport problems exit 2.
func reportError(w io.Writer, err error, fallback string) int {
	fmt.Fprintf(w, "Error: %s\n", errorText(err, fallback))
	return exitCodeFor(err)
}

func errorText(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message == "" && client.IsNotFound(err) {
			return fallback + ": record not found"
		}
		return client.Message(err, fallback)
	}
	return err.Error()
}

func exitCodeFor(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && !client.IsUnauthorized(err) {
		return exitFailed
	}
	return exitError
}

// ABOUTME: Session gateway that authenticates outgoing API requests
// ABOUTME: Attaches bearer tokens, clears the session on 401, and handles login/logout

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/centerops/cms-console/internal/client"
)

// DefaultLoginError is shown when the server gives no reason for a failed login
const DefaultLoginError = "Login failed. Please try again."

// ErrRemoteLogout wraps a failed server-side logout. Local credentials have
// already been cleared when it is returned.
var ErrRemoteLogout = errors.New("server logout failed")

// AuthAPI is the subset of the API client the gateway needs
type AuthAPI interface {
	Login(ctx context.Context, req client.LoginRequest) (*client.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// LoginError is a failed login with a message suitable for display
type LoginError struct {
	Message string
	Err     error
}

func (e *LoginError) Error() string {
	return e.Message
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// Gateway owns the session lifecycle for one console process
type Gateway struct {
	store     Store
	ephemeral Ephemeral
	navigator Navigator
	auth      AuthAPI
	logger    *slog.Logger

	// resetMu serialises the clear-and-redirect sequence
	resetMu sync.Mutex
}

// Option configures a Gateway
type Option func(*Gateway)

// WithEphemeral sets the scratch storage flushed with the session
func WithEphemeral(e Ephemeral) Option {
	return func(g *Gateway) {
		g.ephemeral = e
	}
}

// WithNavigator sets the navigator used to redirect to login
func WithNavigator(n Navigator) Option {
	return func(g *Gateway) {
		g.navigator = n
	}
}

// WithLogger sets the gateway logger (defaults to slog.Default())
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = l
	}
}

// NewGateway creates a gateway over store
func NewGateway(store Store, opts ...Option) *Gateway {
	g := &Gateway{store: store}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// SetAuthAPI attaches the auth backend after construction. The API client
// needs the gateway's middleware, so the two are built in sequence.
func (g *Gateway) SetAuthAPI(a AuthAPI) {
	g.auth = a
}

// SetNavigator replaces the navigator, for surfaces created after the gateway
func (g *Gateway) SetNavigator(n Navigator) {
	g.resetMu.Lock()
	defer g.resetMu.Unlock()
	g.navigator = n
}

// Authorize attaches the stored access token to req. The store is read on
// every call so a token written by another process is picked up.
func (g *Gateway) Authorize(req *http.Request) error {
	creds, err := g.store.Get()
	if err != nil {
		g.logger.Warn("Failed to read session, sending request unauthenticated", "error", err)
		return nil
	}
	if creds.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	}
	return nil
}

// Observe inspects a completed round trip. A 401 ends the session; the
// response is passed through untouched either way.
func (g *Gateway) Observe(req *http.Request, resp *http.Response, err error) (*http.Response, error) {
	if err == nil && resp != nil && resp.StatusCode == http.StatusUnauthorized {
		g.logger.Info("Session rejected by API, signing out", "path", req.URL.Path)
		g.reset()
	}
	return resp, err
}

// Middleware returns the transport middleware combining Authorize and Observe
func (g *Gateway) Middleware() client.Middleware {
	authorize := client.OnRequest(g.Authorize)
	observe := client.OnResponse(g.Observe)
	return func(next http.RoundTripper) http.RoundTripper {
		return authorize(observe(next))
	}
}

// reset clears credentials and scratch data and returns to the login view.
// Safe to run concurrently; repeated runs leave the same end state.
func (g *Gateway) reset() {
	g.resetMu.Lock()
	defer g.resetMu.Unlock()

	if err := g.store.Clear(); err != nil {
		g.logger.Error("Failed to clear session", "error", err)
	}
	if g.ephemeral != nil {
		g.ephemeral.Flush()
	}
	if g.navigator != nil && g.navigator.Current() != ViewLogin {
		g.navigator.Navigate(ViewLogin)
	}
}

// Login exchanges credentials for tokens and persists them
func (g *Gateway) Login(ctx context.Context, email, password string) (*client.LoginResponse, error) {
	if g.auth == nil {
		return nil, fmt.Errorf("session gateway has no auth API")
	}

	resp, err := g.auth.Login(ctx, client.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, &LoginError{Message: client.Message(err, DefaultLoginError), Err: err}
	}
	if resp.AccessToken == "" {
		return nil, &LoginError{Message: DefaultLoginError, Err: errors.New("login response carried no access token")}
	}

	if err := g.store.Set(Credentials{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	g.logger.Info("Signed in", "user", resp.DisplayName())
	return resp, nil
}

// Logout ends the session locally and, when possible, on the server. Local
// state is always cleared; a server failure is returned wrapped in
// ErrRemoteLogout afterwards.
func (g *Gateway) Logout(ctx context.Context) error {
	creds, err := g.store.Get()
	if err != nil {
		g.logger.Warn("Failed to read session before logout", "error", err)
	}

	var remoteErr error
	if creds.RefreshToken != "" && g.auth != nil {
		remoteErr = g.auth.Logout(ctx, creds.RefreshToken)
	}

	g.resetMu.Lock()
	clearErr := g.store.Clear()
	if g.ephemeral != nil {
		g.ephemeral.Flush()
	}
	g.resetMu.Unlock()

	if clearErr != nil {
		return fmt.Errorf("failed to clear session: %w", clearErr)
	}
	if remoteErr != nil {
		g.logger.Warn("Server logout failed, local session cleared", "error", remoteErr)
		return fmt.Errorf("%w: %w", ErrRemoteLogout, remoteErr)
	}
	return nil
}

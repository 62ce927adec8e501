// ABOUTME: Tests for the session gateway
// ABOUTME: Exercises bearer injection, 401 handling, login, and logout against httptest servers

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centerops/cms-console/internal/cache"
	"github.com/centerops/cms-console/internal/client"
)

type countingNavigator struct {
	mu        sync.Mutex
	current   View
	redirects int
}

func (n *countingNavigator) Current() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *countingNavigator) Navigate(v View) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != v {
		n.current = v
		n.redirects++
	}
}

type failingStore struct{ MemoryStore }

func (s *failingStore) Get() (Credentials, error) {
	return Credentials{}, errors.New("disk on fire")
}

type harness struct {
	store   *MemoryStore
	scratch *cache.Cache
	nav     *countingNavigator
	gateway *Gateway
	api     *client.Client
}

func newHarness(t *testing.T, baseURL string) *harness {
	t.Helper()
	h := &harness{
		store:   NewMemoryStore(),
		scratch: cache.New(time.Minute),
		nav:     &countingNavigator{current: ViewHome},
	}
	t.Cleanup(h.scratch.Close)

	h.gateway = NewGateway(h.store, WithEphemeral(h.scratch), WithNavigator(h.nav))
	h.api = client.New(baseURL, client.WithMiddleware(h.gateway.Middleware()))
	h.gateway.SetAuthAPI(h.api)
	return h
}

func TestAuthorize_AttachesBearerFromStore(t *testing.T) {
	var seen []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		io.WriteString(w, `{"data":[]}`)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	ctx := context.Background()

	_, err := h.api.ListCompanies(ctx)
	require.NoError(t, err)

	require.NoError(t, h.store.Set(Credentials{AccessToken: "AT1", RefreshToken: "RT1"}))
	_, err = h.api.ListCompanies(ctx)
	require.NoError(t, err)

	// Token rotated behind the gateway's back must be picked up immediately
	require.NoError(t, h.store.Set(Credentials{AccessToken: "AT2", RefreshToken: "RT1"}))
	_, err = h.api.ListCompanies(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer AT1", "Bearer AT2"}, seen)
}

func TestAuthorize_StoreErrorSendsUnauthenticated(t *testing.T) {
	g := NewGateway(&failingStore{})
	req := httptest.NewRequest(http.MethodGet, "http://example.test/companies", nil)

	require.NoError(t, g.Authorize(req))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestObserve_UnauthorizedClearsAndRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"jwt expired"}`)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	require.NoError(t, h.store.Set(Credentials{AccessToken: "AT1", RefreshToken: "RT1"}))
	h.scratch.Set("companies", []client.Company{{ID: "c1"}})

	_, err := h.api.ListCompanies(context.Background())
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err), "caller still sees the 401")
	assert.Equal(t, "jwt expired", client.Message(err, ""))

	creds, _ := h.store.Get()
	assert.True(t, creds.Empty())
	assert.Equal(t, 0, h.scratch.Len())
	assert.Equal(t, ViewLogin, h.nav.Current())
	assert.Equal(t, 1, h.nav.redirects)
}

func TestObserve_ConcurrentUnauthorizedRedirectsOnce(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	require.NoError(t, h.store.Set(Credentials{AccessToken: "AT1", RefreshToken: "RT1"}))

	const n = 3
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.api.ListInstances(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return hits.Load() == n }, 2*time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.True(t, client.IsUnauthorized(err))
	}
	creds, _ := h.store.Get()
	assert.True(t, creds.Empty())
	assert.Equal(t, ViewLogin, h.nav.Current())
	assert.Equal(t, 1, h.nav.redirects)
}

func TestObserve_AlreadyOnLoginDoesNotNavigate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	h.nav.current = ViewLogin

	_, err := h.api.ListPrograms(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, h.nav.redirects)
}

func TestObserve_OtherErrorsKeepSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	require.NoError(t, h.store.Set(Credentials{AccessToken: "AT1", RefreshToken: "RT1"}))

	_, err := h.api.ListPrograms(context.Background())
	require.Error(t, err)

	creds, _ := h.store.Get()
	assert.Equal(t, "AT1", creds.AccessToken)
	assert.Equal(t, ViewHome, h.nav.Current())
}

func TestLogin_PersistsTokensForLaterRequests(t *testing.T) {
	var listAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"accessToken":  "AT1",
				"refreshToken": "RT1",
				"user":         map[string]string{"name": "Admin"},
			})
		case "/companies":
			listAuth = r.Header.Get("Authorization")
			io.WriteString(w, `{"data":[]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	resp, err := h.gateway.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Admin", resp.DisplayName())

	creds, _ := h.store.Get()
	assert.Equal(t, Credentials{AccessToken: "AT1", RefreshToken: "RT1"}, creds)

	_, err = h.api.ListCompanies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer AT1", listAuth)
}

func TestLogin_ServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"Invalid credentials"}`)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	h.nav.current = ViewLogin

	_, err := h.gateway.Login(context.Background(), "a@x.com", "wrong")
	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	assert.Equal(t, "Invalid credentials", loginErr.Error())

	creds, _ := h.store.Get()
	assert.True(t, creds.Empty())
}

func TestLogin_FallbackMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	_, err := h.gateway.Login(context.Background(), "a@x.com", "secret")
	require.Error(t, err)
	assert.Equal(t, DefaultLoginError, err.Error())
}

func TestLogin_MissingTokenIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"ok"}`)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	_, err := h.gateway.Login(context.Background(), "a@x.com", "secret")
	require.Error(t, err)
	assert.Equal(t, DefaultLoginError, err.Error())
}

func TestLogout_SendsRefreshTokenAndClears(t *testing.T) {
	var body map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	require.NoError(t, h.store.Set(Credentials{AccessToken: "AT1", RefreshToken: "RT1"}))
	h.scratch.Set("programs", []client.Program{})

	require.NoError(t, h.gateway.Logout(context.Background()))
	assert.Equal(t, "RT1", body["refreshToken"])

	creds, _ := h.store.Get()
	assert.True(t, creds.Empty())
	assert.Equal(t, 0, h.scratch.Len())
}

func TestLogout_ServerDownStillClears(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	h := newHarness(t, baseURL)
	require.NoError(t, h.store.Set(Credentials{AccessToken: "AT1", RefreshToken: "RT1"}))

	err := h.gateway.Logout(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteLogout)

	creds, _ := h.store.Get()
	assert.True(t, creds.Empty())
}

func TestLogout_NoRefreshTokenSkipsServer(t *testing.T) {
	var called atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
	}))
	defer server.Close()

	h := newHarness(t, server.URL)
	require.NoError(t, h.store.Set(Credentials{AccessToken: "AT1"}))

	require.NoError(t, h.gateway.Logout(context.Background()))
	assert.False(t, called.Load())

	creds, _ := h.store.Get()
	assert.True(t, creds.Empty())
}

func TestWithLogger_ReceivesGatewayEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"accessToken":"AT1","refreshToken":"RT1","user":{"name":"Ada"}}`)
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g := NewGateway(NewMemoryStore(), WithLogger(logger))
	g.SetAuthAPI(client.New(server.URL, client.WithMiddleware(g.Middleware())))

	_, err := g.Login(t.Context(), "a@x.com", "secret")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Signed in")
	assert.Contains(t, buf.String(), "user=Ada")
}

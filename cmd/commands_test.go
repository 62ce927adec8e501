// ABOUTME: Tests for the resource, session, and QR commands
// ABOUTME: Runs each command against an httptest API with a temp config dir

package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/centerops/cms-console/internal/client"
	"github.com/centerops/cms-console/internal/console"
	"github.com/centerops/cms-console/internal/qrcrypt"
	"github.com/centerops/cms-console/internal/session"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type apiStub struct {
	*httptest.Server
	mu       sync.Mutex
	requests []string
	bodies   map[string][]byte
	reject   bool
}

func (s *apiStub) saw(req string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r == req {
			return true
		}
	}
	return false
}

func (s *apiStub) rejectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reject = true
}

func (s *apiStub) body(req string) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out map[string]interface{}
	json.Unmarshal(s.bodies[req], &out)
	return out
}

// setupCLI points the commands at a stub API with an isolated config dir
func setupCLI(t *testing.T) *apiStub {
	t.Helper()
	resetGlobals(t)
	configDir = t.TempDir()
	t.Setenv("CMS_QR_SECRET", "k1")

	s := &apiStub{bodies: make(map[string][]byte)}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req client.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		io.WriteString(w, `{"accessToken":"AT1","refreshToken":"RT1","user":{"name":"Ada"}}`)
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"ok"}`)
	})
	mux.HandleFunc("GET /companies", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[{"_id":"c1","companyName":"Acme","country":"TH"}]}`)
	})
	mux.HandleFunc("POST /companies", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"message":"Company already exists"}`)
	})
	mux.HandleFunc("GET /programs", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[{"_id":"p1","name":"POS","code":"POS01"}]}`)
	})
	mux.HandleFunc("GET /program-instances", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[`+instanceJSON("i1", "2026-03-13")+`,`+instanceJSON("i2", "2027-01-01")+`]}`)
	})
	mux.HandleFunc("GET /program-instances/{id}", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":`+instanceJSON(r.PathValue("id"), "2026-03-13")+`}`)
	})
	mux.HandleFunc("POST /program-instances", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":`+instanceJSON("i9", "2027-01-01")+`}`)
	})
	mux.HandleFunc("DELETE /program-instances/{id}", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"message":"deleted"}`)
	})

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		data, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, key)
		s.bodies[key] = data
		reject := s.reject
		s.mu.Unlock()

		if reject && !strings.HasPrefix(r.URL.Path, "/auth/") {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"message":"Unauthorized"}`)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(data))
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)

	apiURL = s.URL
	return s
}

func instanceJSON(id, expire string) string {
	return `{"_id":"` + id + `","company":{"_id":"c1","companyName":"Acme"},"program":{"_id":"p1","name":"POS","code":"POS01"},` +
		`"licenseStart":"2026-01-01T00:00:00.000Z","licenseExpire":"` + expire + `T00:00:00.000Z",` +
		`"apiUrl":"https://pos.example.com","apiUsername":"admin","status":"active"}`
}

// signIn stores a session the way 'cms login' would
func signIn(t *testing.T) {
	t.Helper()
	if err := session.NewFileStore(configDir).Set(session.Credentials{AccessToken: "AT0", RefreshToken: "RT0"}); err != nil {
		t.Fatal(err)
	}
}

func storedCredentials(t *testing.T) session.Credentials {
	t.Helper()
	creds, err := session.NewFileStore(configDir).Get()
	if err != nil {
		t.Fatal(err)
	}
	return creds
}

func TestRunLogin_Success(t *testing.T) {
	setupCLI(t)
	var out bytes.Buffer

	code := runLogin(t.Context(), &out, "ada@example.com", "secret")

	if code != exitOK {
		t.Fatalf("expected exit %d, got %d: %s", exitOK, code, out.String())
	}
	if !strings.Contains(out.String(), "Signed in as Ada") {
		t.Errorf("expected greeting, got %q", out.String())
	}
	if creds := storedCredentials(t); creds.AccessToken != "AT1" || creds.RefreshToken != "RT1" {
		t.Errorf("expected tokens persisted, got %+v", creds)
	}
}

func TestRunLogin_WrongPassword(t *testing.T) {
	setupCLI(t)
	var out bytes.Buffer

	code := runLogin(t.Context(), &out, "ada@example.com", "nope")

	if code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(out.String(), "Error: Invalid credentials") {
		t.Errorf("expected server message, got %q", out.String())
	}
	if !storedCredentials(t).Empty() {
		t.Error("expected no credentials stored")
	}
}

func TestRunLogout(t *testing.T) {
	api := setupCLI(t)
	signIn(t)
	var out bytes.Buffer

	code := runLogout(t.Context(), &out)

	if code != exitOK {
		t.Fatalf("expected exit %d, got %d: %s", exitOK, code, out.String())
	}
	if !api.saw("POST /auth/logout") {
		t.Error("expected logout call")
	}
	if api.body("POST /auth/logout")["refreshToken"] != "RT0" {
		t.Error("expected refresh token in logout body")
	}
	if !storedCredentials(t).Empty() {
		t.Error("expected credentials cleared")
	}
}

func TestRunSession_NotSignedIn(t *testing.T) {
	setupCLI(t)
	var out bytes.Buffer

	code := runSession(&out, testNow)

	if code != exitFailed {
		t.Errorf("expected exit %d, got %d", exitFailed, code)
	}
	if !strings.Contains(out.String(), "not signed in") {
		t.Errorf("expected not signed in, got %q", out.String())
	}
}

func TestRunSession_SignedIn(t *testing.T) {
	setupCLI(t)
	signIn(t)
	var out bytes.Buffer

	if code := runSession(&out, testNow); code != exitOK {
		t.Errorf("expected exit %d, got %d: %s", exitOK, code, out.String())
	}
}

func TestRunCompaniesList(t *testing.T) {
	api := setupCLI(t)
	signIn(t)
	var out bytes.Buffer

	code := runCompaniesList(t.Context(), &out)

	if code != exitOK {
		t.Fatalf("expected exit %d, got %d: %s", exitOK, code, out.String())
	}
	if !strings.Contains(out.String(), "Acme") {
		t.Errorf("expected company in table, got %q", out.String())
	}
	if !api.saw("GET /companies") {
		t.Error("expected GET /companies")
	}
}

func TestRunCompaniesList_JSON(t *testing.T) {
	setupCLI(t)
	signIn(t)
	jsonOutput = true
	var out bytes.Buffer

	runCompaniesList(t.Context(), &out)

	var companies []client.Company
	if err := json.Unmarshal(out.Bytes(), &companies); err != nil {
		t.Fatalf("expected JSON output: %v\n%s", err, out.String())
	}
	if len(companies) != 1 || companies[0].ID != "c1" {
		t.Errorf("unexpected companies: %+v", companies)
	}
}

func TestRunCompaniesList_SessionRejected(t *testing.T) {
	api := setupCLI(t)
	signIn(t)
	api.rejectAll()
	var out bytes.Buffer

	code := runCompaniesList(t.Context(), &out)

	if code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(out.String(), console.FailSessionExpired) {
		t.Errorf("expected session expired notice, got %q", out.String())
	}
	if !storedCredentials(t).Empty() {
		t.Error("expected stored credentials cleared after 401")
	}
}

func TestRunCompaniesSave_ServerRejects(t *testing.T) {
	setupCLI(t)
	signIn(t)
	companyInput = client.CompanyInput{CompanyName: "Acme"}
	t.Cleanup(func() { companyInput = client.CompanyInput{} })
	var out bytes.Buffer

	code := runCompaniesSave(t.Context(), &out, "", nil)

	if code != exitFailed {
		t.Errorf("expected exit %d, got %d", exitFailed, code)
	}
	if !strings.Contains(out.String(), "Error: Company already exists") {
		t.Errorf("expected server message, got %q", out.String())
	}
}

func TestRunInstancesList_Expiring(t *testing.T) {
	setupCLI(t)
	signIn(t)
	instancesList.expiringOnly = true
	t.Cleanup(func() { instancesList.expiringOnly = false })
	var out bytes.Buffer

	code := runInstancesList(t.Context(), &out, testNow)

	if code != exitOK {
		t.Fatalf("expected exit %d, got %d: %s", exitOK, code, out.String())
	}
	text := out.String()
	if !strings.Contains(text, "i1") || strings.Contains(text, "i2") {
		t.Errorf("expected only the expiring instance, got %q", text)
	}
	if !strings.Contains(text, "Expiring Soon (3 days)") {
		t.Errorf("expected expiry warning, got %q", text)
	}
}

func TestRunInstancesGet_JSONIncludesExpiry(t *testing.T) {
	setupCLI(t)
	signIn(t)
	jsonOutput = true
	var out bytes.Buffer

	runInstancesGet(t.Context(), &out, "i1", testNow)

	var view struct {
		DaysLeft int    `json:"daysLeft"`
		Expiry   string `json:"expiry"`
	}
	if err := json.Unmarshal(out.Bytes(), &view); err != nil {
		t.Fatalf("expected JSON output: %v\n%s", err, out.String())
	}
	if view.DaysLeft != 3 || view.Expiry != string(console.ExpiryExpiring) {
		t.Errorf("unexpected expiry fields: %+v", view)
	}
}

func TestRunInstancesSave_RequiresDates(t *testing.T) {
	api := setupCLI(t)
	signIn(t)
	instanceForm = console.InstanceForm{Company: "Acme", Program: "POS01", Status: client.StatusActive}
	t.Cleanup(func() { instanceForm = console.InstanceForm{} })
	var out bytes.Buffer

	code := runInstancesSave(t.Context(), &out, "", nil)

	if code != exitError {
		t.Errorf("expected exit %d, got %d", exitError, code)
	}
	if !strings.Contains(out.String(), console.FailLicenseRequired) {
		t.Errorf("expected license dates error, got %q", out.String())
	}
	if api.saw("POST /program-instances") {
		t.Error("expected no create request")
	}
}

func TestRunInstancesSave_ResolvesNames(t *testing.T) {
	api := setupCLI(t)
	signIn(t)
	instanceForm = console.InstanceForm{
		Company:       "acme",
		Program:       "POS01",
		LicenseStart:  "2026-01-01",
		LicenseExpire: "2027-01-01",
		Status:        client.StatusActive,
	}
	t.Cleanup(func() { instanceForm = console.InstanceForm{} })
	var out bytes.Buffer

	code := runInstancesSave(t.Context(), &out, "", nil)

	if code != exitOK {
		t.Fatalf("expected exit %d, got %d: %s", exitOK, code, out.String())
	}
	body := api.body("POST /program-instances")
	if body["company"] != "c1" || body["program"] != "p1" {
		t.Errorf("expected resolved ids in body, got %v", body)
	}
	if !strings.Contains(out.String(), console.MsgInstanceCreated) {
		t.Errorf("expected created message, got %q", out.String())
	}
}

func TestMergeInstanceForm_OnlyChangedFlags(t *testing.T) {
	flags := pflag.NewFlagSet("update", pflag.ContinueOnError)
	var given console.InstanceForm
	flags.StringVar(&given.Status, "status", client.StatusActive, "")
	flags.StringVar(&given.APIURL, "endpoint", "", "")
	if err := flags.Parse([]string{"--status", "suspended"}); err != nil {
		t.Fatal(err)
	}

	current := console.InstanceForm{Company: "c1", APIURL: "https://pos.example.com", Status: client.StatusActive}
	merged := mergeInstanceForm(current, given, flags)

	if merged.Status != client.StatusSuspended {
		t.Errorf("expected status changed, got %q", merged.Status)
	}
	if merged.APIURL != "https://pos.example.com" || merged.Company != "c1" {
		t.Errorf("expected unchanged fields kept, got %+v", merged)
	}
}

func TestRunInstancesDelete(t *testing.T) {
	api := setupCLI(t)
	signIn(t)
	var out bytes.Buffer

	if code := runInstancesDelete(t.Context(), &out, "i1"); code != exitOK {
		t.Fatalf("expected exit %d, got %d: %s", exitOK, code, out.String())
	}
	if !api.saw("DELETE /program-instances/i1") {
		t.Error("expected DELETE request")
	}
	if !strings.Contains(out.String(), console.MsgInstanceDeleted) {
		t.Errorf("expected deleted message, got %q", out.String())
	}
}

func TestRunInstancesQR(t *testing.T) {
	setupCLI(t)
	signIn(t)
	dir := t.TempDir()
	var out bytes.Buffer

	code := runInstancesQR(t.Context(), &out, "i1", dir)

	if code != exitOK {
		t.Fatalf("expected exit %d, got %d: %s", exitOK, code, out.String())
	}
	path := filepath.Join(dir, "POS_QR.png")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected PNG at %s: %v", path, err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("expected PNG signature")
	}
	if strings.Contains(out.String(), "Warning") {
		t.Errorf("expected no default secret warning, got %q", out.String())
	}
}

func TestRunQR_RoundTrip(t *testing.T) {
	setupCLI(t)
	var enc bytes.Buffer

	if code := runQREncode(&enc, `{"program":"X"}`); code != exitOK {
		t.Fatalf("expected exit %d, got %d", exitOK, code)
	}
	ciphertext := strings.TrimSpace(enc.String())
	if qrcrypt.Decode(ciphertext, "k1") != `{"program":"X"}` {
		t.Error("expected ciphertext sealed with CMS_QR_SECRET")
	}

	var dec bytes.Buffer
	if code := runQRDecode(&dec, ciphertext+"\n"); code != exitOK {
		t.Fatalf("expected exit %d, got %d", exitOK, code)
	}
	if strings.TrimSpace(dec.String()) != `{"program":"X"}` {
		t.Errorf("expected plaintext back, got %q", dec.String())
	}
}

func TestRunQRDecode_WrongSecret(t *testing.T) {
	setupCLI(t)
	sealed := qrcrypt.Encode(`{"program":"X"}`, "other")
	var out bytes.Buffer

	code := runQRDecode(&out, sealed)

	if code != exitFailed {
		t.Errorf("expected exit %d, got %d", exitFailed, code)
	}
	if !strings.Contains(out.String(), "could not be decrypted") {
		t.Errorf("expected decrypt error, got %q", out.String())
	}
}

func TestStartView(t *testing.T) {
	store := session.NewMemoryStore()
	if got := startView(store); got != session.ViewLogin {
		t.Errorf("expected login without a session, got %s", got)
	}

	store.Set(session.Credentials{AccessToken: "AT1"})
	if got := startView(store); got != session.ViewHome {
		t.Errorf("expected home with a session, got %s", got)
	}
}

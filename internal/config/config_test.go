package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"XDG_CONFIG_HOME": "/tmp/xdg"})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected default API URL %s, got %s", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.RequestTimeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", cfg.RequestTimeout)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Expected Timeout() 30s, got %v", cfg.Timeout())
	}
	if cfg.CacheTTL != 300 {
		t.Errorf("Expected default cache TTL 300, got %d", cfg.CacheTTL)
	}
	if cfg.ConfigDir != filepath.Join("/tmp/xdg", "cms-console") {
		t.Errorf("Expected XDG config dir, got %s", cfg.ConfigDir)
	}
	if cfg.QRSecret != "" {
		t.Errorf("Expected empty QR secret, got %q", cfg.QRSecret)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected default log level warn, got %s", cfg.LogLevel)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	setEnv(t, map[string]string{
		"CMS_API_URL":         "localhost:4000/api/",
		"CMS_REQUEST_TIMEOUT": "5",
		"CMS_CONFIG_DIR":      "/var/lib/cms",
		"CMS_QR_SECRET":       "k1",
		"CMS_CACHE_TTL":       "60",
		"CMS_LOG_FORMAT":      "json",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != "https://localhost:4000/api" {
		t.Errorf("Expected scheme added and trailing slash trimmed, got %s", cfg.APIURL)
	}
	if cfg.RequestTimeout != 5 {
		t.Errorf("Expected timeout 5, got %d", cfg.RequestTimeout)
	}
	if cfg.ConfigDir != "/var/lib/cms" {
		t.Errorf("Expected config dir /var/lib/cms, got %s", cfg.ConfigDir)
	}
	if cfg.QRSecret != "k1" {
		t.Errorf("Expected QR secret k1, got %s", cfg.QRSecret)
	}
	if cfg.CacheDuration() != time.Minute {
		t.Errorf("Expected cache duration 1m, got %v", cfg.CacheDuration())
	}
	if cfg.LogFormat != "json" {
		t.Errorf("Expected log format json, got %s", cfg.LogFormat)
	}
}

func TestLoadConfig_InvalidTimeout(t *testing.T) {
	for _, value := range []string{"0", "601", "-3"} {
		t.Run(value, func(t *testing.T) {
			setEnv(t, map[string]string{"CMS_REQUEST_TIMEOUT": value})

			if _, err := Load(); err == nil {
				t.Errorf("Expected error for CMS_REQUEST_TIMEOUT=%s", value)
			}
		})
	}
}

func TestLoadConfig_NonNumericFallsBack(t *testing.T) {
	setEnv(t, map[string]string{"CMS_REQUEST_TIMEOUT": "soon"})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.RequestTimeout != 30 {
		t.Errorf("Expected fallback timeout 30, got %d", cfg.RequestTimeout)
	}
}

func TestLoadConfig_InvalidProxyScheme(t *testing.T) {
	setEnv(t, map[string]string{"CMS_ALL_PROXY": "http://proxy:3128"})

	if _, err := Load(); err == nil {
		t.Error("Expected error for non-socks proxy scheme")
	}
}

func TestLoadDotEnv(t *testing.T) {
	setEnv(t, map[string]string{"CMS_API_URL": "https://from-env.example.com"})

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "CMS_QR_SECRET=from-file\nCMS_API_URL=https://from-file.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}

	if got := os.Getenv("CMS_QR_SECRET"); got != "from-file" {
		t.Errorf("Expected CMS_QR_SECRET from file, got %q", got)
	}
	// Existing environment wins over the file
	if got := os.Getenv("CMS_API_URL"); got != "https://from-env.example.com" {
		t.Errorf("Expected environment to take precedence, got %q", got)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Expected missing .env to be ignored, got %v", err)
	}
	if err := LoadDotEnv(""); err != nil {
		t.Errorf("Expected empty path to be ignored, got %v", err)
	}
}

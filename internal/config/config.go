// ABOUTME: Configuration loader for the CMS console
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the hosted Center Management System API.
const DefaultAPIURL = "https://cms-api-jn1c.onrender.com/api"

type Config struct {
	// API
	APIURL         string
	RequestTimeout int    // seconds (default 30)
	AllProxy       string // optional ssh+socks5://user@host:port?private-key=/path

	// Session
	ConfigDir string // holds session.json and debug.log
	CacheTTL  int    // seconds, lifetime of session-scoped lookup data (default 300)

	// QR payload secret, read once at startup. Empty means the obfuscator
	// falls back to its built-in literal.
	QRSecret string

	// Logging
	LogLevel  string
	LogFormat string
}

// Timeout returns RequestTimeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// CacheDuration returns CacheTTL as a duration
func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// LoadDotEnv reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load() (*Config, error) {
	cfg := &Config{
		APIURL:         ensureScheme(strings.TrimRight(getEnv("CMS_API_URL", DefaultAPIURL), "/")),
		RequestTimeout: getEnvInt("CMS_REQUEST_TIMEOUT", 30),
		AllProxy:       os.Getenv("CMS_ALL_PROXY"),

		ConfigDir: getEnv("CMS_CONFIG_DIR", DefaultConfigDir()),
		CacheTTL:  getEnvInt("CMS_CACHE_TTL", 300),

		QRSecret: os.Getenv("CMS_QR_SECRET"),

		LogLevel:  getEnv("CMS_LOG_LEVEL", "warn"),
		LogFormat: getEnv("CMS_LOG_FORMAT", "text"),
	}

	if cfg.RequestTimeout < 1 || cfg.RequestTimeout > 600 {
		return nil, fmt.Errorf("CMS_REQUEST_TIMEOUT must be between 1 and 600, got %d", cfg.RequestTimeout)
	}
	if cfg.CacheTTL < 1 {
		return nil, fmt.Errorf("CMS_CACHE_TTL must be positive, got %d", cfg.CacheTTL)
	}
	if cfg.AllProxy != "" && !strings.HasPrefix(cfg.AllProxy, "ssh+socks5://") && !strings.HasPrefix(cfg.AllProxy, "socks5://") {
		return nil, fmt.Errorf("CMS_ALL_PROXY must use ssh+socks5:// or socks5:// scheme")
	}

	return cfg, nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cms-console")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cms-console")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}

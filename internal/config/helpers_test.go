// ABOUTME: Test helpers for config tests
// ABOUTME: Isolates the CMS_* environment for each test

package config

import (
	"os"
	"testing"
)

// envKeys are the variables Load reads
var envKeys = []string{
	"CMS_API_URL",
	"CMS_REQUEST_TIMEOUT",
	"CMS_ALL_PROXY",
	"CMS_CONFIG_DIR",
	"CMS_CACHE_TTL",
	"CMS_QR_SECRET",
	"CMS_LOG_LEVEL",
	"CMS_LOG_FORMAT",
	"XDG_CONFIG_HOME",
}

// setEnv unsets every variable Load reads, then applies vars. Previous
// values come back when the test ends.
func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	for key, value := range vars {
		t.Setenv(key, value)
	}
}

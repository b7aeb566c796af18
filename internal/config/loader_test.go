package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

var portalKeys = []string{
	"PORTAL_ENV_FILE",
	"PORTAL_HTTP_PORT",
	"PORTAL_API_URL",
	"PORTAL_APP_URL",
	"PORTAL_MAIN_APP_URL",
	"PORTAL_MODULE_NAME",
	"PORTAL_MODULE_DISPLAY_NAME",
	"PORTAL_MODULE_VERSION",
	"PORTAL_API_TIMEOUT",
	"PORTAL_SQLITE_DSN",
	"PORTAL_SESSION_COOKIE",
	"PORTAL_PROTECTED_PATHS",
	"PORTAL_PUBLIC_PATHS",
	"PORTAL_PUBLIC_DETAIL_PATTERNS",
	"PORTAL_JWT_HMAC_SECRET",
	"PORTAL_RATE_LIMIT_RPS",
	"PORTAL_RATE_LIMIT_BURST",
	"PORTAL_LOG_LEVEL",
	"PORTAL_ENVIRONMENT",
	"OTEL_EXPORTER_OTLP_ENDPOINT",
	"KEYCLOAK_BASE_URL",
	"KEYCLOAK_REALM",
	"KEYCLOAK_CLIENT_ID",
	"KEYCLOAK_REDIRECT_URI",
}

// clearEnv unsets every portal variable for the duration of the test and
// points the dotenv loader at a file that does not exist.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range portalKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
	t.Setenv("PORTAL_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PORTAL_API_URL", "https://api.example.com")
	t.Setenv("PORTAL_APP_URL", "https://it.example.com")
	t.Setenv("PORTAL_MAIN_APP_URL", "https://main.example.com/")
}

func TestLoader_ParseEnvironment(t *testing.T) {
	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)
		setRequired(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 3100 {
			t.Fatalf("expected default HTTP port 3100, got %d", cfg.HTTPPort)
		}
		if cfg.APITimeout != 30*time.Second {
			t.Fatalf("expected default API timeout 30s, got %s", cfg.APITimeout)
		}
		if cfg.ModuleName != "it-module" || cfg.ModuleDisplayName != "IT Operations" || cfg.ModuleVersion != "0.1.0" {
			t.Fatalf("unexpected module defaults: %+v", cfg)
		}
		if cfg.SessionCookie != "auth_session" {
			t.Fatalf("unexpected session cookie %q", cfg.SessionCookie)
		}
		if want := []string{"/", "/meeting", "/meeting/*"}; !reflect.DeepEqual(cfg.ProtectedPaths, want) {
			t.Fatalf("expected protected paths %v, got %v", want, cfg.ProtectedPaths)
		}
		if len(cfg.PublicPaths) != 5 || cfg.PublicPaths[0] != "/api/*" {
			t.Fatalf("unexpected public paths %v", cfg.PublicPaths)
		}
		if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
			t.Fatalf("unexpected rate limit defaults %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
		}
		if cfg.LoginURL() != "https://main.example.com/auth/login" {
			t.Fatalf("unexpected login url %q", cfg.LoginURL())
		}
		if cfg.LogoutURL() != "https://main.example.com/auth/logout" {
			t.Fatalf("unexpected logout url %q", cfg.LogoutURL())
		}
		if cfg.KeycloakEnabled() {
			t.Fatalf("keycloak must be disabled without configuration")
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORTAL_APP_URL", "https://it.example.com")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		expected := "missing required environment variables: PORTAL_API_URL, PORTAL_MAIN_APP_URL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("reports invalid values together", func(t *testing.T) {
		clearEnv(t)
		setRequired(t)
		t.Setenv("PORTAL_APP_URL", "it.example.com")
		t.Setenv("PORTAL_LOG_LEVEL", "chatty")
		t.Setenv("PORTAL_RATE_LIMIT_BURST", "0")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "invalid environment variable values: PORTAL_APP_URL, PORTAL_RATE_LIMIT_BURST, PORTAL_LOG_LEVEL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("reports undecodable values", func(t *testing.T) {
		clearEnv(t)
		setRequired(t)
		t.Setenv("PORTAL_API_TIMEOUT", "soon")

		_, err := Load()
		if err == nil || err.Error() != "invalid environment variable values: PORTAL_API_TIMEOUT" {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("parses overrides and keycloak block", func(t *testing.T) {
		clearEnv(t)
		setRequired(t)
		t.Setenv("PORTAL_HTTP_PORT", "9090")
		t.Setenv("PORTAL_API_TIMEOUT", "5s")
		t.Setenv("PORTAL_PUBLIC_DETAIL_PATTERNS", " /meeting/share/:id , ")
		t.Setenv("KEYCLOAK_BASE_URL", "https://sso.example.com")
		t.Setenv("KEYCLOAK_REALM", "sar")
		t.Setenv("KEYCLOAK_CLIENT_ID", "it-module")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 9090 || cfg.APITimeout != 5*time.Second {
			t.Fatalf("unexpected overrides: port=%d timeout=%s", cfg.HTTPPort, cfg.APITimeout)
		}
		if want := []string{"/meeting/share/:id"}; !reflect.DeepEqual(cfg.PublicDetailPatterns, want) {
			t.Fatalf("expected %v, got %v", want, cfg.PublicDetailPatterns)
		}
		if !cfg.KeycloakEnabled() {
			t.Fatalf("expected keycloak to be enabled")
		}
		if cfg.KeycloakRedirect() != "https://api.example.com/auth/callback" {
			t.Fatalf("unexpected default redirect %q", cfg.KeycloakRedirect())
		}
	})

	t.Run("reads dotenv file without overriding the environment", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "portal.env")
		content := strings.Join([]string{
			"PORTAL_API_URL=https://api.from-file.example.com",
			"PORTAL_APP_URL=https://it.from-file.example.com",
			"PORTAL_MAIN_APP_URL=https://main.from-file.example.com",
			"PORTAL_MODULE_VERSION=9.9.9",
		}, "\n")
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write env file: %v", err)
		}
		t.Setenv("PORTAL_ENV_FILE", path)
		t.Setenv("PORTAL_API_URL", "https://api.example.com")
		// Values written by godotenv are restored by these registrations.
		for _, key := range []string{"PORTAL_APP_URL", "PORTAL_MAIN_APP_URL", "PORTAL_MODULE_VERSION"} {
			t.Setenv(key, "")
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.APIURL != "https://api.example.com" {
			t.Fatalf("environment must win over dotenv, got %q", cfg.APIURL)
		}
		if cfg.AppURL != "https://it.from-file.example.com" || cfg.ModuleVersion != "9.9.9" {
			t.Fatalf("expected dotenv values, got app=%q version=%q", cfg.AppURL, cfg.ModuleVersion)
		}
	})
}

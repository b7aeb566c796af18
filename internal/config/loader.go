package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/SAR-DEVELOPER/IT/internal/logging"
)

// Config captures environment driven configuration values for the portal.
type Config struct {
	HTTPPort   int    `envconfig:"PORTAL_HTTP_PORT" default:"3100"`
	APIURL     string `envconfig:"PORTAL_API_URL"`
	AppURL     string `envconfig:"PORTAL_APP_URL"`
	MainAppURL string `envconfig:"PORTAL_MAIN_APP_URL"`

	ModuleName        string `envconfig:"PORTAL_MODULE_NAME" default:"it-module"`
	ModuleDisplayName string `envconfig:"PORTAL_MODULE_DISPLAY_NAME" default:"IT Operations"`
	ModuleVersion     string `envconfig:"PORTAL_MODULE_VERSION" default:"0.1.0"`

	APITimeout time.Duration `envconfig:"PORTAL_API_TIMEOUT" default:"30s"`
	SQLiteDSN  string        `envconfig:"PORTAL_SQLITE_DSN" default:"file:portal.db?_pragma=foreign_keys(1)"`

	SessionCookie        string   `envconfig:"PORTAL_SESSION_COOKIE" default:"auth_session"`
	ProtectedPaths       []string `envconfig:"PORTAL_PROTECTED_PATHS" default:"/,/meeting,/meeting/*"`
	PublicPaths          []string `envconfig:"PORTAL_PUBLIC_PATHS" default:"/api/*,/healthz,/favicon.ico,/robots.txt,/sitemap.xml"`
	PublicDetailPatterns []string `envconfig:"PORTAL_PUBLIC_DETAIL_PATTERNS"`
	JWTSecret            string   `envconfig:"PORTAL_JWT_HMAC_SECRET"`

	RateLimitRPS   float64 `envconfig:"PORTAL_RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int     `envconfig:"PORTAL_RATE_LIMIT_BURST" default:"40"`

	LogLevel     string `envconfig:"PORTAL_LOG_LEVEL" default:"info"`
	Environment  string `envconfig:"PORTAL_ENVIRONMENT" default:"development"`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	KeycloakBaseURL     string `envconfig:"KEYCLOAK_BASE_URL"`
	KeycloakRealm       string `envconfig:"KEYCLOAK_REALM"`
	KeycloakClientID    string `envconfig:"KEYCLOAK_CLIENT_ID"`
	KeycloakRedirectURI string `envconfig:"KEYCLOAK_REDIRECT_URI"`
}

// LoginURL is the central login page on the main application.
func (c Config) LoginURL() string {
	return strings.TrimRight(c.MainAppURL, "/") + "/auth/login"
}

// LogoutURL is the central logout page on the main application.
func (c Config) LogoutURL() string {
	return strings.TrimRight(c.MainAppURL, "/") + "/auth/logout"
}

// KeycloakEnabled reports whether the direct Keycloak login block is usable.
func (c Config) KeycloakEnabled() bool {
	return c.KeycloakBaseURL != "" && c.KeycloakRealm != "" && c.KeycloakClientID != ""
}

// KeycloakRedirect returns the configured redirect or <api>/auth/callback.
func (c Config) KeycloakRedirect() string {
	if c.KeycloakRedirectURI != "" {
		return c.KeycloakRedirectURI
	}
	return strings.TrimRight(c.APIURL, "/") + "/auth/callback"
}

// Load parses configuration values from the current process environment.
//
// A dotenv file named by PORTAL_ENV_FILE (default ".env") is read first when
// present; variables already set in the environment take precedence. Missing
// required values and invalid values are each reported in a single error.
func Load() (Config, error) {
	if err := loadDotenv(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		// envconfig stops at the first undecodable value, so later fields are unset.
		var parseErr *envconfig.ParseError
		if errors.As(err, &parseErr) {
			return Config{}, fmt.Errorf("invalid environment variable values: %s", parseErr.KeyName)
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	trimAll(&cfg)

	missing := make([]string, 0, 3)
	invalid := make([]string, 0, 2)

	for _, req := range []struct {
		key   string
		value string
	}{
		{"PORTAL_API_URL", cfg.APIURL},
		{"PORTAL_APP_URL", cfg.AppURL},
		{"PORTAL_MAIN_APP_URL", cfg.MainAppURL},
	} {
		switch {
		case req.value == "":
			missing = append(missing, req.key)
		case !isAbsoluteURL(req.value):
			invalid = append(invalid, req.key)
		}
	}

	if cfg.HTTPPort <= 0 {
		invalid = append(invalid, "PORTAL_HTTP_PORT")
	}
	if cfg.APITimeout <= 0 {
		invalid = append(invalid, "PORTAL_API_TIMEOUT")
	}
	if cfg.RateLimitRPS <= 0 {
		invalid = append(invalid, "PORTAL_RATE_LIMIT_RPS")
	}
	if cfg.RateLimitBurst <= 0 {
		invalid = append(invalid, "PORTAL_RATE_LIMIT_BURST")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		invalid = append(invalid, "PORTAL_LOG_LEVEL")
	}
	if cfg.SQLiteDSN == "" {
		missing = append(missing, "PORTAL_SQLITE_DSN")
	}
	if cfg.SessionCookie == "" {
		missing = append(missing, "PORTAL_SESSION_COOKIE")
	}
	if cfg.KeycloakBaseURL != "" && !isAbsoluteURL(cfg.KeycloakBaseURL) {
		invalid = append(invalid, "KEYCLOAK_BASE_URL")
	}
	if cfg.KeycloakRedirectURI != "" && !isAbsoluteURL(cfg.KeycloakRedirectURI) {
		invalid = append(invalid, "KEYCLOAK_REDIRECT_URI")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func loadDotenv() error {
	path := strings.TrimSpace(os.Getenv("PORTAL_ENV_FILE"))
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return nil
}

func trimAll(cfg *Config) {
	for _, s := range []*string{
		&cfg.APIURL, &cfg.AppURL, &cfg.MainAppURL,
		&cfg.ModuleName, &cfg.ModuleDisplayName, &cfg.ModuleVersion,
		&cfg.SQLiteDSN, &cfg.SessionCookie, &cfg.JWTSecret,
		&cfg.LogLevel, &cfg.Environment, &cfg.OTLPEndpoint,
		&cfg.KeycloakBaseURL, &cfg.KeycloakRealm, &cfg.KeycloakClientID, &cfg.KeycloakRedirectURI,
	} {
		*s = strings.TrimSpace(*s)
	}
	cfg.ProtectedPaths = trimList(cfg.ProtectedPaths)
	cfg.PublicPaths = trimList(cfg.PublicPaths)
	cfg.PublicDetailPatterns = trimList(cfg.PublicDetailPatterns)
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

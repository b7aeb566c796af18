package auth

import (
	"fmt"
	"net/url"
	"strings"
)

// GateConfig lists the path rules and the URLs used to build redirects.
type GateConfig struct {
	Protected            []string
	Public               []string
	PublicDetailPatterns []string
	// LoginURL is the central login page, e.g. https://main.example/auth/login.
	LoginURL string
	// AppURL is this portal's public origin, used as the callback prefix.
	AppURL string
}

// Gate classifies requests as public, protected or neither.
type Gate struct {
	protected []Pattern
	public    []Pattern
	login     *url.URL
	appURL    string
}

// Decision is the outcome of Gate.Decide.
type Decision struct {
	Allow bool
	// Location is set when Allow is false.
	Location string
}

// NewGate validates the login URL and compiles the patterns.
func NewGate(cfg GateConfig) (*Gate, error) {
	login, err := url.Parse(strings.TrimSpace(cfg.LoginURL))
	if err != nil || login.Scheme == "" || login.Host == "" {
		return nil, fmt.Errorf("auth: invalid login url %q", cfg.LoginURL)
	}
	public := append(ParsePatterns(cfg.Public), ParsePatterns(cfg.PublicDetailPatterns)...)
	return &Gate{
		protected: ParsePatterns(cfg.Protected),
		public:    public,
		login:     login,
		appURL:    strings.TrimRight(strings.TrimSpace(cfg.AppURL), "/"),
	}, nil
}

// Decide applies the rules in order: public paths always pass, protected
// paths without a session redirect, everything else passes.
func (g *Gate) Decide(path, rawQuery string, hasSession bool) Decision {
	if MatchAny(g.public, path) {
		return Decision{Allow: true}
	}
	if MatchAny(g.protected, path) && !hasSession {
		return Decision{Location: g.LoginRedirect(path, rawQuery)}
	}
	return Decision{Allow: true}
}

// IsPublic reports whether path is on the public list.
func (g *Gate) IsPublic(path string) bool {
	return MatchAny(g.public, path)
}

// LoginRedirect builds the login URL carrying callbackUrl=<app><path>[?query].
func (g *Gate) LoginRedirect(path, rawQuery string) string {
	callback := g.appURL + path
	if rawQuery != "" {
		callback += "?" + rawQuery
	}
	return g.LoginURLWithCallback(callback)
}

// LoginURLWithCallback returns the login URL with an explicit callback.
func (g *Gate) LoginURLWithCallback(callback string) string {
	target := *g.login
	q := target.Query()
	if callback != "" {
		q.Set("callbackUrl", callback)
	}
	target.RawQuery = q.Encode()
	return target.String()
}

// SameOrigin reports whether callback points back into this portal.
func (g *Gate) SameOrigin(callback string) bool {
	if g.appURL == "" {
		return false
	}
	return callback == g.appURL || strings.HasPrefix(callback, g.appURL+"/") || strings.HasPrefix(callback, g.appURL+"?")
}

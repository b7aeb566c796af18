package auth

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Keycloak describes the optional direct-login realm.
type Keycloak struct {
	BaseURL     string
	Realm       string
	ClientID    string
	RedirectURI string
}

// Enabled reports whether enough is configured to build a login URL.
func (k Keycloak) Enabled() bool {
	return strings.TrimSpace(k.BaseURL) != "" && strings.TrimSpace(k.Realm) != "" && strings.TrimSpace(k.ClientID) != ""
}

func (k Keycloak) oauthConfig() oauth2.Config {
	issuer := strings.TrimRight(k.BaseURL, "/") + "/realms/" + url.PathEscape(k.Realm) + "/protocol/openid-connect"
	return oauth2.Config{
		ClientID:    k.ClientID,
		RedirectURL: k.RedirectURI,
		Scopes:      []string{"openid", "profile", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  issuer + "/auth",
			TokenURL: issuer + "/token",
		},
	}
}

// LoginURL returns the authorization-code URL and the state it embeds.
// It returns empty strings when Keycloak is not configured.
func (k Keycloak) LoginURL() (loginURL, state string) {
	if !k.Enabled() {
		return "", ""
	}
	cfg := k.oauthConfig()
	state = uuid.NewString()
	return cfg.AuthCodeURL(state), state
}

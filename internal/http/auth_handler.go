package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SAR-DEVELOPER/IT/internal/auth"
)

// AuthHandler tells the client where to send the user to sign in.
type AuthHandler struct {
	gate      *auth.Gate
	keycloak  auth.Keycloak
	logoutURL string
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(gate *auth.Gate, keycloak auth.Keycloak, logoutURL string, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{gate: gate, keycloak: keycloak, logoutURL: logoutURL, responder: newResponder(base), logger: base}
}

// LoginURL answers GET /api/auth/login-url?callbackUrl=. Callbacks that leave
// the portal are replaced by the portal root.
func (h *AuthHandler) LoginURL(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.gate == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	callback := strings.TrimSpace(r.URL.Query().Get("callbackUrl"))
	resp := loginURLResponse{LogoutURL: h.logoutURL}
	if callback != "" && h.gate.SameOrigin(callback) {
		resp.LoginURL = h.gate.LoginURLWithCallback(callback)
	} else {
		if callback != "" {
			handlerLogger(r.Context(), h.logger, "AuthHandler", "LoginURL").WarnContext(r.Context(), "ignoring foreign callback", "callback", callback)
		}
		resp.LoginURL = h.gate.LoginRedirect("/", "")
	}

	if h.keycloak.Enabled() {
		resp.KeycloakURL, resp.State = h.keycloak.LoginURL()
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

type loginURLResponse struct {
	LoginURL    string `json:"login_url"`
	LogoutURL   string `json:"logout_url,omitempty"`
	KeycloakURL string `json:"keycloak_url,omitempty"`
	State       string `json:"state,omitempty"`
}

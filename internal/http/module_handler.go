package http

import (
	"context"
	"log/slog"
	"net/http"
)

// ModuleInfo describes this portal module to the main application.
type ModuleInfo struct {
	Name        string
	DisplayName string
	Version     string
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ModuleHandler serves the module descriptor and the health probe.
type ModuleHandler struct {
	info      ModuleInfo
	journal   Pinger
	responder responder
	logger    *slog.Logger
}

func NewModuleHandler(info ModuleInfo, journal Pinger, logger *slog.Logger) *ModuleHandler {
	base := defaultLogger(logger)
	return &ModuleHandler{info: info, journal: journal, responder: newResponder(base), logger: base}
}

// Describe answers GET /.
func (h *ModuleHandler) Describe(w http.ResponseWriter, r *http.Request) {
	resp := moduleResponse{
		Name:        h.info.Name,
		DisplayName: h.info.DisplayName,
		Version:     h.info.Version,
	}
	if principal, ok := PrincipalFromContext(r.Context()); ok {
		resp.Principal = &principalDTO{
			UserID:      principal.UserID,
			DisplayName: principal.DisplayName,
			Email:       principal.Email,
		}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

// Health answers GET /healthz after pinging the journal.
func (h *ModuleHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.journal != nil {
		if err := h.journal.Ping(r.Context()); err != nil {
			handlerLogger(r.Context(), h.logger, "ModuleHandler", "Health").ErrorContext(r.Context(), "journal ping failed", "error", err)
			h.responder.writeJSON(r.Context(), w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
}

type principalDTO struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
}

type moduleResponse struct {
	Name        string        `json:"name"`
	DisplayName string        `json:"display_name"`
	Version     string        `json:"version"`
	Principal   *principalDTO `json:"principal,omitempty"`
}

type healthResponse struct {
	Status string `json:"status"`
}

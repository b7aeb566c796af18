package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/SAR-DEVELOPER/IT/internal/backend"
)

// maxProxyBody caps request bodies forwarded to the backend.
const maxProxyBody = 1 << 20

type backendForwarder interface {
	Forward(ctx context.Context, call backend.Call, cookies string, body []byte) (json.RawMessage, error)
}

// ProxyHandler passes the /api/meeting* routes through to the backend with
// the caller's cookies. Payloads are relayed untouched.
type ProxyHandler struct {
	backend   backendForwarder
	responder responder
	logger    *slog.Logger
}

func NewProxyHandler(forwarder backendForwarder, logger *slog.Logger) *ProxyHandler {
	base := defaultLogger(logger)
	return &ProxyHandler{backend: forwarder, responder: newResponder(base), logger: base}
}

// ListMeetings answers GET /api/meeting.
func (h *ProxyHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, backend.CallListMeetings, nil, http.StatusOK)
}

// RejectCreate answers POST /api/meeting.
func (h *ProxyHandler) RejectCreate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	h.responder.writeJSON(r.Context(), w, http.StatusMethodNotAllowed, proxyErrorResponse{
		Error: "Method not allowed. Use specific endpoints like /api/meeting/zoom/create",
	})
}

// ListAccounts answers GET /api/meeting/accounts.
func (h *ProxyHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, backend.CallListAccounts, nil, http.StatusOK)
}

// HostKey answers GET /api/meeting/host-key.
func (h *ProxyHandler) HostKey(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, backend.CallHostKey, nil, http.StatusOK)
}

// CreateZoomMeeting answers POST /api/meeting/zoom/create.
func (h *ProxyHandler) CreateZoomMeeting(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxProxyBody))
	if err != nil || !json.Valid(body) {
		handlerLogger(r.Context(), h.logger, "ProxyHandler", backend.CallCreate.Action).WarnContext(r.Context(), "rejected zoom create body", "error", err)
		h.responder.writeJSON(r.Context(), w, http.StatusInternalServerError, proxyErrorResponse{Error: errBadRequestBody.Error()})
		return
	}
	h.forward(w, r, backend.CallCreate, body, http.StatusCreated)
}

func (h *ProxyHandler) forward(w http.ResponseWriter, r *http.Request, call backend.Call, body []byte, status int) {
	if h == nil || h.backend == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	payload, err := h.backend.Forward(r.Context(), call, r.Header.Get("Cookie"), body)
	if err != nil {
		h.responder.writeProxyError(r.Context(), w, err)
		return
	}
	handlerLogger(r.Context(), h.logger, "ProxyHandler", call.Action).DebugContext(r.Context(), "proxied backend call", "status", status)
	h.responder.writeRaw(r.Context(), w, status, payload)
}

package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Module     *ModuleHandler
	Auth       *AuthHandler
	Meetings   *MeetingHandler
	Proxy      *ProxyHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Module != nil {
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Module.Describe(w, r)
		})
		mux.HandleFunc("/healthz", getOnly(cfg.Module.Health))
	}

	if cfg.Auth != nil {
		mux.HandleFunc("/api/auth/login-url", getOnly(cfg.Auth.LoginURL))
	}

	if cfg.Proxy != nil {
		mux.HandleFunc("/api/meeting", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Proxy.ListMeetings(w, r)
			case http.MethodPost:
				cfg.Proxy.RejectCreate(w, r)
			default:
				methodNotAllowed(w, http.MethodGet)
			}
		})
		mux.HandleFunc("/api/meeting/accounts", getOnly(cfg.Proxy.ListAccounts))
		mux.HandleFunc("/api/meeting/host-key", getOnly(cfg.Proxy.HostKey))
		mux.HandleFunc("/api/meeting/zoom/create", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Proxy.CreateZoomMeeting(w, r)
		})
	}

	if cfg.Meetings != nil {
		mux.HandleFunc("/api/meeting/catalog", getOnly(cfg.Meetings.Catalog))
		mux.HandleFunc("/api/meeting/availability", getOnly(cfg.Meetings.Availability))
		mux.HandleFunc("/api/meeting/options", getOnly(cfg.Meetings.Options))
		mux.HandleFunc("/api/meeting/schedule", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Meetings.Schedule(w, r)
		})
		mux.HandleFunc("/api/meeting/submissions", getOnly(cfg.Meetings.ListSubmissions))
		mux.HandleFunc("/api/meeting/submissions/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/api/meeting/submissions/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Meetings.GetSubmission(w, r.WithContext(ContextWithSubmissionID(r.Context(), id)))
		})
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		next(w, r)
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

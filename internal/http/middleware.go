package http

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/SAR-DEVELOPER/IT/internal/application"
	"github.com/SAR-DEVELOPER/IT/internal/auth"
	"github.com/SAR-DEVELOPER/IT/internal/backend"
	"github.com/SAR-DEVELOPER/IT/internal/logging"
)

const tracerName = "github.com/SAR-DEVELOPER/IT/internal/http"

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

// RequestLogger assigns every request an id, opens a server span continuing
// any inbound trace context and logs start and completion.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	base = defaultLogger(base)
	tracer := otel.Tracer(tracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := requestID(r.Header.Get(backend.RequestIDHeader))
			w.Header().Set(backend.RequestIDHeader, id)

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("url.path", r.URL.Path),
					attribute.String("request.id", id),
				),
			)
			defer span.End()

			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)
			if sc := span.SpanContext(); sc.HasTraceID() {
				logger = logger.With("trace_id", sc.TraceID().String())
			}

			ctx = logging.ContextWithRequestID(ctx, id)
			ctx = ContextWithLogger(ctx, logger)

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			logger.DebugContext(ctx, "request started")
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			span.SetAttributes(attribute.Int("http.response.status_code", status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
			logger.InfoContext(ctx, "request completed", "status", status, "duration", time.Since(start))
		})
	}
}

// requestID keeps a sane inbound id and mints a uuid otherwise.
func requestID(inbound string) string {
	inbound = strings.TrimSpace(inbound)
	if inbound != "" && len(inbound) <= 128 && !strings.ContainsAny(inbound, " \t\r\n") {
		return inbound
	}
	return uuid.NewString()
}

// SessionDecoder turns a session token into the identity it carries.
type SessionDecoder interface {
	Decode(token string) (auth.Identity, error)
}

// Session reads the session cookie and stores the caller's session in the
// request context. A token that fails to decode still identifies the session
// but yields no principal.
func Session(cookieName string, decoder SessionDecoder, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = defaultLogger(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := application.Session{Cookies: r.Header.Get("Cookie")}
			if token := sessionToken(r, cookieName); token != "" {
				session.Key = auth.Fingerprint(token)
				if decoder != nil {
					identity, err := decoder.Decode(token)
					if err != nil {
						handlerLogger(r.Context(), logger, "Session", "Decode").DebugContext(r.Context(), "session token not usable", "error", err)
					} else {
						session.Principal = &application.Principal{
							UserID:      identity.Subject,
							DisplayName: identity.DisplayName(),
							Email:       identity.Email,
							Verified:    identity.Verified,
						}
					}
				}
			}
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), session)))
		})
	}
}

// AuthGate redirects unauthenticated requests for protected paths to the
// central login page. Presence of the session cookie counts as a session.
func AuthGate(gate *auth.Gate, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if gate == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := gate.Decide(r.URL.Path, r.URL.RawQuery, sessionToken(r, cookieName) != "")
			if !decision.Allow {
				http.Redirect(w, r, decision.Location, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit applies a token bucket per client IP to paths under prefix.
func RateLimit(prefix string, rps float64, burst int, logger *slog.Logger) func(http.Handler) http.Handler {
	store := newLimiterStore(rate.Limit(rps), burst)
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
			ip := clientIP(r)
			if !store.get(ip, time.Now()).Allow() {
				responder.loggerFor(r.Context()).WarnContext(r.Context(), "rate limit exceeded", "ip", ip)
				responder.writeJSON(r.Context(), w, http.StatusTooManyRequests, proxyErrorResponse{Error: statusMessage(http.StatusTooManyRequests)})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterSweepAbove = 4096
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore holds one limiter per client IP.
type limiterStore struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*limiterEntry
}

func newLimiterStore(limit rate.Limit, burst int) *limiterStore {
	return &limiterStore{limit: limit, burst: burst, limiters: make(map[string]*limiterEntry)}
}

func (s *limiterStore) get(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.limiters[ip]
	if !ok {
		if len(s.limiters) >= limiterSweepAbove {
			for key, e := range s.limiters {
				if now.Sub(e.lastSeen) > limiterIdleTTL {
					delete(s.limiters, key)
				}
			}
		}
		entry = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func sessionToken(r *http.Request, cookieName string) string {
	if r == nil || cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/SAR-DEVELOPER/IT/internal/application"
	"github.com/SAR-DEVELOPER/IT/internal/auth"
	"github.com/SAR-DEVELOPER/IT/internal/logging"
	"github.com/SAR-DEVELOPER/IT/internal/testfixtures"
)

const (
	testCookie     = "auth_session"
	testSigningKey = "identity-service-key"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sessionTokenFor(t *testing.T, subject, name string, expires time.Time) string {
	t.Helper()
	return signedSessionToken(t, testSigningKey, subject, name, expires)
}

func signedSessionToken(t *testing.T, key, subject, name string, expires time.Time) string {
	t.Helper()
	claims := auth.Claims{
		Name:  name,
		Email: subject + "@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var seen string
	handler := RequestLogger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestIDFromContext(r.Context())
		if LoggerFromContext(r.Context()) == nil {
			t.Errorf("expected request scoped logger")
		}
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("honours inbound id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/meeting", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if seen != "req-123" || rec.Header().Get("X-Request-ID") != "req-123" {
			t.Fatalf("expected inbound id to be kept, got ctx=%q header=%q", seen, rec.Header().Get("X-Request-ID"))
		}
		if rec.Code != http.StatusTeapot {
			t.Fatalf("expected handler status to pass through, got %d", rec.Code)
		}
	})

	t.Run("mints an id when missing or malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "has spaces")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if _, err := uuid.Parse(seen); err != nil {
			t.Fatalf("expected generated uuid, got %q", seen)
		}
		if rec.Header().Get("X-Request-ID") != seen {
			t.Fatalf("expected response header to echo the id")
		}
	})
}

func TestSessionMiddleware(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(time.Time{})
	decoder := auth.NewClaimsDecoder("", clock.NowFunc())
	mw := Session(testCookie, decoder, discardLogger())

	capture := func(t *testing.T, req *http.Request) application.Session {
		t.Helper()
		var got application.Session
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = SessionFromContext(r.Context())
		})).ServeHTTP(httptest.NewRecorder(), req)
		return got
	}

	t.Run("decodes the principal and fingerprints the token", func(t *testing.T) {
		t.Parallel()
		token := sessionTokenFor(t, "user-1", "Ayu Lestari", clock.Now().Add(time.Hour))
		req := httptest.NewRequest(http.MethodGet, "/api/meeting/catalog", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
		req.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})

		session := capture(t, req)
		if session.Principal == nil || session.Principal.UserID != "user-1" || session.Principal.DisplayName != "Ayu Lestari" {
			t.Fatalf("unexpected principal: %#v", session.Principal)
		}
		if session.Principal.Verified {
			t.Fatalf("expected claims read without a secret to be unverified")
		}
		if session.Key != auth.Fingerprint(token) {
			t.Fatalf("expected fingerprint key, got %q", session.Key)
		}
		if session.Cookies != req.Header.Get("Cookie") {
			t.Fatalf("expected the full cookie header to be kept, got %q", session.Cookies)
		}
	})

	t.Run("expired token keeps the session but no principal", func(t *testing.T) {
		t.Parallel()
		token := sessionTokenFor(t, "user-1", "Ayu", clock.Now().Add(-time.Minute))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})

		session := capture(t, req)
		if session.Principal != nil {
			t.Fatalf("expected no principal for expired token")
		}
		if session.Key == "" {
			t.Fatalf("expected the session key to be set")
		}
	})

	t.Run("verifying decoder marks the principal verified", func(t *testing.T) {
		t.Parallel()
		verifying := Session(testCookie, auth.NewClaimsDecoder(testSigningKey, clock.NowFunc()), discardLogger())
		token := sessionTokenFor(t, "user-1", "Ayu", clock.Now().Add(time.Hour))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})

		var got application.Session
		verifying(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = SessionFromContext(r.Context())
		})).ServeHTTP(httptest.NewRecorder(), req)
		if got.Principal == nil || !got.Principal.Verified {
			t.Fatalf("expected a verified principal, got %#v", got.Principal)
		}
	})

	t.Run("no cookie yields the zero session", func(t *testing.T) {
		t.Parallel()
		session := capture(t, httptest.NewRequest(http.MethodGet, "/", nil))
		if session.Key != "" || session.Principal != nil {
			t.Fatalf("expected empty session, got %#v", session)
		}
	})
}

func TestAuthGateMiddleware(t *testing.T) {
	t.Parallel()

	gate, err := auth.NewGate(auth.GateConfig{
		Protected: []string{"/", "/meeting", "/meeting/*"},
		Public:    []string{"/api/*", "/healthz"},
		LoginURL:  "https://main.example.com/auth/login",
		AppURL:    "https://it.example.com",
	})
	if err != nil {
		t.Fatalf("NewGate returned error: %v", err)
	}
	handler := AuthGate(gate, testCookie)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		target     string
		withCookie bool
		wantStatus int
		callback   string
	}{
		{name: "protected without session", target: "/meeting/zoom?date=2025-11-12", wantStatus: http.StatusFound, callback: "https://it.example.com/meeting/zoom?date=2025-11-12"},
		{name: "protected with session", target: "/meeting", withCookie: true, wantStatus: http.StatusNoContent},
		{name: "public api", target: "/api/meeting", wantStatus: http.StatusNoContent},
		{name: "unlisted", target: "/robots.txt", wantStatus: http.StatusNoContent},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.withCookie {
				req.AddCookie(&http.Cookie{Name: testCookie, Value: "anything"})
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if tc.callback == "" {
				return
			}
			loc, err := url.Parse(rec.Header().Get("Location"))
			if err != nil {
				t.Fatalf("invalid location: %v", err)
			}
			if got := loc.Query().Get("callbackUrl"); got != tc.callback {
				t.Fatalf("callbackUrl = %q, want %q", got, tc.callback)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	handler := RateLimit("/api/", 0.001, 1, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(path, ip string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = ip + ":41000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := call("/api/meeting", "10.0.0.1"); got != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", got)
	}
	if got := call("/api/meeting", "10.0.0.1"); got != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be limited, got %d", got)
	}
	if got := call("/api/meeting", "10.0.0.2"); got != http.StatusOK {
		t.Fatalf("expected another client to pass, got %d", got)
	}
	if got := call("/healthz", "10.0.0.1"); got != http.StatusOK {
		t.Fatalf("expected paths outside the prefix to pass, got %d", got)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	if got := clientIP(req); got != "192.0.2.10" {
		t.Fatalf("expected remote address host, got %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := clientIP(req); got != "203.0.113.7" {
		t.Fatalf("expected first forwarded address, got %q", got)
	}
}

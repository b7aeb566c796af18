// Package backend talks to the meeting API that owns accounts, meetings and
// host keys. Every call forwards the caller's cookies unchanged.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/SAR-DEVELOPER/IT/internal/logging"
)

const (
	maxResponseBytes = 4 << 20

	// RequestIDHeader carries the portal's request id to the backend.
	RequestIDHeader = "X-Request-ID"

	tracerName = "github.com/SAR-DEVELOPER/IT/internal/backend"
)

// Call identifies one backend endpoint.
type Call struct {
	Method string
	Path   string
	Action string
}

var (
	CallListMeetings = Call{Method: http.MethodGet, Path: "/meeting", Action: "fetch meetings"}
	CallListAccounts = Call{Method: http.MethodGet, Path: "/meeting/accounts", Action: "fetch accounts"}
	CallHostKey      = Call{Method: http.MethodGet, Path: "/meeting/host-key", Action: "fetch host key"}
	CallCreate       = Call{Method: http.MethodPost, Path: "/meeting", Action: "create meeting"}
)

// Client is a cookie-forwarding JSON client for the meeting API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a client rooted at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("backend: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("backend: base url %q must be absolute", baseURL)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL: parsed,
		http:    &http.Client{Timeout: timeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListAccounts fetches every meeting account.
func (c *Client) ListAccounts(ctx context.Context, cookies string) ([]Account, error) {
	var out []Account
	if err := c.call(ctx, CallListAccounts, cookies, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMeetings fetches all meetings grouped by host account.
func (c *Client) ListMeetings(ctx context.Context, cookies string) ([]MeetingGroup, error) {
	var out []MeetingGroup
	if err := c.call(ctx, CallListMeetings, cookies, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HostKey fetches the active host key.
func (c *Client) HostKey(ctx context.Context, cookies string) (HostKey, error) {
	var out HostKey
	if err := c.call(ctx, CallHostKey, cookies, nil, &out); err != nil {
		return HostKey{}, err
	}
	return out, nil
}

// CreateMeeting submits a scheduling request and returns the created meeting.
func (c *Client) CreateMeeting(ctx context.Context, cookies string, req CreateMeetingRequest) (Meeting, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Meeting{}, fmt.Errorf("backend: encode create request: %w", err)
	}
	var out Meeting
	if err := c.call(ctx, CallCreate, cookies, body, &out); err != nil {
		return Meeting{}, err
	}
	return out, nil
}

// Forward performs call with an optional raw JSON body and returns the raw
// success payload untouched.
func (c *Client) Forward(ctx context.Context, call Call, cookies string, body []byte) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.call(ctx, call, cookies, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, call Call, cookies string, body []byte, out any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, call.Method+" "+call.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", call.Method),
			attribute.String("url.path", call.Path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	logger := c.loggerFor(ctx).With(
		slog.String("backend_method", call.Method),
		slog.String("backend_path", call.Path),
	)

	endpoint := c.baseURL.JoinPath(call.Path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, call.Method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookies != "" {
		req.Header.Set("Cookie", cookies)
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		logger.Warn("backend request failed", slog.Any("error", err))
		return transportError(call.Action, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		logger.Warn("backend response read failed", slog.Any("error", err))
		return transportError(call.Action, err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	logger.Debug("backend request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := normalizeError(resp.StatusCode, payload, call.Action)
		logger.Warn("backend rejected request",
			slog.Int("status", resp.StatusCode),
			slog.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		if len(bytes.TrimSpace(payload)) == 0 {
			*raw = json.RawMessage("null")
			return nil
		}
		if !json.Valid(payload) {
			return &APIError{Status: resp.StatusCode, Message: "Failed to " + call.Action}
		}
		*raw = append((*raw)[:0], payload...)
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		logger.Warn("backend response decode failed", slog.Any("error", err))
		return &APIError{Status: resp.StatusCode, Message: "Failed to " + call.Action, Err: err}
	}
	return nil
}

func (c *Client) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return c.logger
}

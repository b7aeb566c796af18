package http

import (
	"context"
	"log/slog"

	"github.com/SAR-DEVELOPER/IT/internal/application"
	"github.com/SAR-DEVELOPER/IT/internal/logging"
)

type contextKey string

const (
	sessionContextKey      contextKey = "session"
	submissionIDContextKey contextKey = "submission_id"
)

// ContextWithSession returns a derived context containing the caller's session.
func ContextWithSession(ctx context.Context, session application.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext extracts the caller's session. Requests that passed no
// session middleware get the zero session.
func SessionFromContext(ctx context.Context) application.Session {
	session, _ := ctx.Value(sessionContextKey).(application.Session)
	return session
}

// PrincipalFromContext extracts the signed-in principal if one was decoded.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	session := SessionFromContext(ctx)
	if session.Principal == nil {
		return application.Principal{}, false
	}
	return *session.Principal, true
}

// ContextWithSubmissionID injects the submission identifier resolved from the request path.
func ContextWithSubmissionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, submissionIDContextKey, id)
}

// SubmissionIDFromContext extracts a submission identifier previously associated with the context.
func SubmissionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(submissionIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches the request scoped logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request scoped logger, or nil.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

// handlerLogger derives a logger tagged with the handler, operation and the
// caller's principal, preferring the request scoped logger over fallback.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = fallback
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"handler", handlerName, "operation", operation}
	if principal, ok := PrincipalFromContext(ctx); ok {
		pairs = append(pairs, "principal_id", principal.UserID)
	}
	return logger.With(append(pairs, attrs...)...)
}

package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SAR-DEVELOPER/IT/internal/backend"
	"github.com/SAR-DEVELOPER/IT/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// serviceLogger tags a logger with the service and operation. The request
// scoped logger wins over base; when base is used, the request id is copied
// from ctx so detached work such as journaling stays correlated.
func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	pairs := make([]any, 0, 4+len(attrs))
	pairs = append(pairs, "service", serviceName)
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}

	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = defaultLogger(base)
		if id := logging.RequestIDFromContext(ctx); id != "" {
			pairs = append(pairs, "request_id", id)
		}
	}
	return logger.With(append(pairs, attrs...)...)
}

// ErrorKind labels an error for the error_kind log attribute.
func ErrorKind(err error) string {
	var (
		vErr   *ValidationError
		apiErr *backend.APIError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &vErr):
		return "validation"
	case errors.Is(err, ErrAccountUnavailable):
		return "account_unavailable"
	case errors.Is(err, ErrSuperseded):
		return "superseded"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &apiErr):
		return "upstream"
	default:
		return "unexpected"
	}
}

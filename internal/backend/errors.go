package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a backend failure reduced to one user-facing message.
type APIError struct {
	Status  int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap exposes the transport error, if any.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// normalizeError picks the payload's message, then its error field. Bodies
// that are not JSON are never surfaced; the action fallback is used instead.
func normalizeError(status int, body []byte, action string) *APIError {
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return &APIError{Status: status, Message: fmt.Sprintf("Failed to %s: %d", action, status)}
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return &APIError{Status: status, Message: msg}
	}
	if msg := strings.TrimSpace(payload.Error); msg != "" {
		return &APIError{Status: status, Message: msg}
	}
	return &APIError{Status: status, Message: "Failed to " + action}
}

func transportError(action string, err error) *APIError {
	return &APIError{Message: "Failed to " + action, Err: err}
}

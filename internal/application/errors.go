package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized means neither a principal nor a session identifies the caller.
	ErrUnauthorized = errors.New("application: unauthorized")
	ErrNotFound     = errors.New("application: not found")
	// ErrAccountUnavailable means the chosen account is inactive or already
	// hosts a meeting overlapping the window.
	ErrAccountUnavailable = errors.New("application: account unavailable for the requested window")
	// ErrSuperseded is returned to a load that a newer load with the same key replaced.
	ErrSuperseded = errors.New("application: superseded by a newer request")
)

// ValidationError maps form fields to the message shown next to them.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error lists the offending fields in a stable order.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	fields := v.Fields()
	if len(fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// Fields returns the names of the invalid fields, sorted.
func (v *ValidationError) Fields() []string {
	if v == nil {
		return nil
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add keeps the first message recorded for a field.
func (v *ValidationError) add(field, message string) {
	if _, taken := v.FieldErrors[field]; taken {
		return
	}
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string, 4)
	}
	v.FieldErrors[field] = message
}

// merge folds other into v; fields v already reports keep their message.
func (v *ValidationError) merge(other *ValidationError) {
	for _, field := range other.Fields() {
		v.add(field, other.FieldErrors[field])
	}
}

func (v *ValidationError) orNil() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

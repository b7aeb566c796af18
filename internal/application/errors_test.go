package application

import "testing"

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var err *ValidationError
	if err.Error() != "" {
		t.Fatalf("expected empty string for nil error, got %q", err.Error())
	}

	empty := &ValidationError{}
	if got := empty.Error(); got != "validation failed" {
		t.Fatalf("expected generic message for empty error, got %q", got)
	}

	withFields := &ValidationError{FieldErrors: map[string]string{"title": "missing", "accountId": "missing"}}
	if got := withFields.Error(); got != "validation failed: accountId, title" {
		t.Fatalf("expected sorted field list, got %q", got)
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	t.Parallel()

	if err := (&ValidationError{}).HasErrors(); err {
		t.Fatalf("expected HasErrors to report false for empty error")
	}

	if err := (&ValidationError{FieldErrors: map[string]string{"field": "bad"}}).HasErrors(); !err {
		t.Fatalf("expected HasErrors to report true when fields are present")
	}
}

func TestValidationError_AddAndMerge(t *testing.T) {
	t.Parallel()

	base := &ValidationError{}
	base.add("first", "value")
	if got := base.FieldErrors["first"]; got != "value" {
		t.Fatalf("expected add to populate map, got %q", got)
	}

	other := &ValidationError{FieldErrors: map[string]string{"second": "another"}}
	base.merge(other)
	if got := base.FieldErrors["second"]; got != "another" {
		t.Fatalf("expected merge to copy field, got %q", got)
	}

	base.merge(nil)
	base.merge(&ValidationError{FieldErrors: map[string]string{"first": "later"}})
	if len(base.FieldErrors) != 2 || base.FieldErrors["first"] != "value" {
		t.Fatalf("expected merge to keep existing messages, got %v", base.FieldErrors)
	}
}

func TestValidationError_FirstMessageWins(t *testing.T) {
	t.Parallel()

	vErr := &ValidationError{}
	vErr.add("date", "Please select a date")
	vErr.add("date", "Please select both date and time")
	if got := vErr.FieldErrors["date"]; got != "Please select a date" {
		t.Fatalf("expected first message to be kept, got %q", got)
	}

	if err := (&ValidationError{}).orNil(); err != nil {
		t.Fatalf("expected orNil to return nil for empty error, got %v", err)
	}
	if err := vErr.orNil(); err == nil {
		t.Fatalf("expected orNil to return the populated error")
	}
}

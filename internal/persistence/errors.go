package persistence

import "errors"

// ErrNotFound reports that no journal entry has the requested id.
var ErrNotFound = errors.New("persistence: submission not found")

// ErrConstraintViolation reports a write rejected by the schema, such as a
// reused submission id or an unknown status.
var ErrConstraintViolation = errors.New("persistence: constraint violation")

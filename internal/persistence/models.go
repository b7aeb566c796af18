package persistence

import "time"

// SubmissionStatus records how the backend answered a scheduling attempt.
type SubmissionStatus string

const (
	// SubmissionCreated marks an attempt the backend accepted.
	SubmissionCreated SubmissionStatus = "created"
	// SubmissionFailed marks an attempt the backend rejected or never answered.
	SubmissionFailed SubmissionStatus = "failed"
)

// Submission is one journaled scheduling attempt that reached the backend.
type Submission struct {
	ID                 string
	RequestID          string
	RequesterID        string
	SessionFingerprint string
	AccountID          string
	Title              string
	Description        string
	TimeStart          string
	TimeEnd            string
	AllDay             bool
	DurationMinutes    int
	InternalAttendants []string
	EmailAttendants    []string
	Status             SubmissionStatus
	MeetingID          string
	ErrorMessage       string
	CreatedAt          time.Time
}

package persistence

import "context"

// SubmissionFilter narrows journal queries. Zero values match everything.
type SubmissionFilter struct {
	RequesterID        string
	SessionFingerprint string
	Limit              int
}

// SubmissionRepository stores the scheduling journal.
type SubmissionRepository interface {
	RecordSubmission(ctx context.Context, submission Submission) error
	GetSubmission(ctx context.Context, id string) (Submission, error)
	ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]Submission, error)
}

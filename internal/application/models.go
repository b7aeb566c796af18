package application

import (
	"time"

	"github.com/SAR-DEVELOPER/IT/internal/backend"
	"github.com/SAR-DEVELOPER/IT/internal/meeting"
	"github.com/SAR-DEVELOPER/IT/internal/persistence"
)

// Principal represents the signed-in user invoking a service method.
type Principal struct {
	UserID      string
	DisplayName string
	Email       string
	// Verified is set when the identity came from a signature-checked token.
	// Only verified principals own journal entries.
	Verified    bool
}

// Session carries what a request knows about its caller. Cookies are
// forwarded verbatim to the backend; Key identifies the session without
// exposing the token.
type Session struct {
	Cookies   string
	Key       string
	Principal *Principal
}

func (s Session) principalID() string {
	if s.Principal == nil {
		return ""
	}
	return s.Principal.UserID
}

// verifiedPrincipalID is principalID when the principal's token was verified.
func (s Session) verifiedPrincipalID() string {
	if s.Principal == nil || !s.Principal.Verified {
		return ""
	}
	return s.Principal.UserID
}

// Catalog is the account snapshot for one canonical date.
type Catalog struct {
	Date     meeting.Date
	Accounts []meeting.Account
	LoadedAt time.Time
}

// WindowParams are the raw form values that describe a proposed window.
// Duration may be empty (30 minutes), "all-day", "-1" or a minute count.
type WindowParams struct {
	Date     string
	Time     string
	Duration string
}

// Availability is the result of filtering a catalog against a window.
type Availability struct {
	Window   meeting.Window
	Complete bool
	// Start and End are the serialized window bounds; empty when incomplete.
	Start    string
	End      string
	Accounts []meeting.Account
	Catalog  Catalog
}

// ScheduleParams captures caller provided scheduling fields.
type ScheduleParams struct {
	Title              string
	Description        string
	Window             WindowParams
	AccountID          string
	RequestedByID      string
	InternalAttendants []string
	EmailAttendants    []string
}

// ScheduleResult is returned after the backend accepted a meeting.
type ScheduleResult struct {
	Meeting      backend.Meeting
	SubmissionID string
	Start        string
	End          string
}

// ListSubmissionsParams narrows the journal listing.
type ListSubmissionsParams struct {
	Limit int
}

// Submission is the journal entry exposed to callers.
type Submission = persistence.Submission

package backend

// Account is a meeting account as served by GET /meeting/accounts.
type Account struct {
	ID              string `json:"id"`
	AccountName     string `json:"accountName"`
	AccountEmail    string `json:"accountEmail"`
	AccountStatus   string `json:"accountStatus"`
	AccountPlanType string `json:"accountPlanType"`
}

// Person is the requester attribution attached to a meeting.
type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Meeting is a meeting record as served by the backend.
type Meeting struct {
	ID                   string   `json:"id"`
	MeetingTitle         string   `json:"meetingTitle"`
	MeetingDescription   string   `json:"meetingDescription,omitempty"`
	TimeStart            string   `json:"timeStart"`
	TimeEnd              string   `json:"timeEnd"`
	HostClaimKey         *string  `json:"hostClaimKey"`
	Status               string   `json:"status"`
	StartURL             *string  `json:"startUrl"`
	JoinURL              *string  `json:"joinUrl"`
	RequestedByID        *string  `json:"requestedById"`
	ZoomID               *string  `json:"zoomId"`
	HostID               *string  `json:"hostId"`
	InternalAttendantIDs []string `json:"internalAttendantIds"`
	EmailAttendants      []string `json:"emailAttendants"`
	CreatedAt            string   `json:"createdAt"`
	UpdatedAt            string   `json:"updatedAt"`
	RequestedBy          *Person  `json:"requestedBy,omitempty"`
}

// MeetingGroup is one entry of GET /meeting: the meetings hosted by one
// account. ID is nil for meetings without a host.
type MeetingGroup struct {
	ID       *string   `json:"id"`
	Meetings []Meeting `json:"meetings"`
}

// HostKey is the active host key served by GET /meeting/host-key.
type HostKey struct {
	ID        int    `json:"id"`
	HostKey   string `json:"hostKey"`
	SetTime   string `json:"setTime"`
	ExpiresAt string `json:"expiresAt"`
	IsActive  bool   `json:"isActive"`
}

// CreateMeetingRequest is the body of POST /meeting.
type CreateMeetingRequest struct {
	MeetingTitle       string   `json:"meetingTitle"`
	MeetingDescription string   `json:"meetingDescription,omitempty"`
	TimeStart          string   `json:"timeStart"`
	TimeEnd            string   `json:"timeEnd"`
	RequestedByID      *string  `json:"requestedById"`
	AccountID          *string  `json:"accountId"`
	HostID             *string  `json:"hostId,omitempty"`
	InternalAttendants []string `json:"internalAttendants"`
	EmailAttendants    []string `json:"emailAttendants"`
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

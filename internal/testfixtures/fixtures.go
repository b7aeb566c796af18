package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/SAR-DEVELOPER/IT/internal/backend"
	"github.com/SAR-DEVELOPER/IT/internal/meeting"
)

var (
	accountCounter uint64
	meetingCounter uint64
)

// ReferenceDate is the canonical date of ReferenceTime.
const ReferenceDate = "2025-11-12"

var referenceTime = time.Date(2025, time.November, 12, 9, 0, 0, 0, meeting.Canonical)

// ReferenceTime returns the baseline instant used by fixtures: 09:00 +07:00
// on ReferenceDate.
func ReferenceTime() time.Time {
	return referenceTime
}

// At returns hh:mm on ReferenceDate in the canonical zone.
func At(hour, minute int) time.Time {
	return time.Date(2025, time.November, 12, hour, minute, 0, 0, meeting.Canonical)
}

// ---------------------------- Account fixtures ----------------------------

// AccountFixture is a deterministic meeting account as the backend reports it.
type AccountFixture struct {
	ID       string
	Name     string
	Email    string
	Status   string
	PlanType string
}

// AccountOption configures the generated account fixture.
type AccountOption func(*AccountFixture)

// NewAccountFixture returns an active account with optional overrides.
func NewAccountFixture(opts ...AccountOption) AccountFixture {
	idx := atomic.AddUint64(&accountCounter, 1)
	fixture := AccountFixture{
		ID:       fmt.Sprintf("acc-%03d", idx),
		Name:     fmt.Sprintf("Zoom %03d", idx),
		Email:    fmt.Sprintf("zoom%03d@example.com", idx),
		Status:   "active",
		PlanType: "Pro",
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAccountID overrides the generated account ID.
func WithAccountID(id string) AccountOption {
	return func(f *AccountFixture) { f.ID = id }
}

// WithAccountName overrides the generated account name.
func WithAccountName(name string) AccountOption {
	return func(f *AccountFixture) { f.Name = name }
}

// WithAccountStatus overrides the account status label.
func WithAccountStatus(status string) AccountOption {
	return func(f *AccountFixture) { f.Status = status }
}

// Backend converts the fixture into the backend wire type.
func (f AccountFixture) Backend() backend.Account {
	return backend.Account{
		ID:              f.ID,
		AccountName:     f.Name,
		AccountEmail:    f.Email,
		AccountStatus:   f.Status,
		AccountPlanType: f.PlanType,
	}
}

// Accounts converts fixtures into backend accounts in order.
func Accounts(fixtures ...AccountFixture) []backend.Account {
	out := make([]backend.Account, 0, len(fixtures))
	for _, f := range fixtures {
		out = append(out, f.Backend())
	}
	return out
}

// ---------------------------- Meeting fixtures ----------------------------

// MeetingFixture is a deterministic existing meeting hosted by an account.
type MeetingFixture struct {
	ID                   string
	Title                string
	HostID               string
	Start                time.Time
	Duration             time.Duration
	JoinURL              string
	ZoomID               string
	RequestedByID        string
	RequestedByName      string
	InternalAttendantIDs []string
}

// MeetingOption configures the generated meeting fixture.
type MeetingOption func(*MeetingFixture)

// NewMeetingFixture returns a 30 minute meeting at 10:00 on ReferenceDate.
func NewMeetingFixture(opts ...MeetingOption) MeetingFixture {
	idx := atomic.AddUint64(&meetingCounter, 1)
	fixture := MeetingFixture{
		ID:              fmt.Sprintf("mtg-%03d", idx),
		Title:           fmt.Sprintf("Meeting %03d", idx),
		Start:           At(10, 0),
		Duration:        30 * time.Minute,
		JoinURL:         fmt.Sprintf("https://zoom.example.com/j/%03d", idx),
		ZoomID:          fmt.Sprintf("%09d", idx),
		RequestedByID:   "user-001",
		RequestedByName: "User 001",
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithMeetingID overrides the generated meeting ID.
func WithMeetingID(id string) MeetingOption {
	return func(f *MeetingFixture) { f.ID = id }
}

// WithMeetingHost assigns the hosting account.
func WithMeetingHost(accountID string) MeetingOption {
	return func(f *MeetingFixture) { f.HostID = accountID }
}

// WithMeetingWindow sets the start and length of the meeting.
func WithMeetingWindow(start time.Time, duration time.Duration) MeetingOption {
	return func(f *MeetingFixture) {
		f.Start = start
		f.Duration = duration
	}
}

// WithMeetingRequester sets the requester attribution.
func WithMeetingRequester(id, name string) MeetingOption {
	return func(f *MeetingFixture) {
		f.RequestedByID = id
		f.RequestedByName = name
	}
}

// WithMeetingAttendants sets the internal attendant IDs.
func WithMeetingAttendants(ids ...string) MeetingOption {
	return func(f *MeetingFixture) { f.InternalAttendantIDs = append([]string(nil), ids...) }
}

// Backend converts the fixture into the backend wire type.
func (f MeetingFixture) Backend() backend.Meeting {
	m := backend.Meeting{
		ID:                   f.ID,
		MeetingTitle:         f.Title,
		TimeStart:            f.Start.UTC().Format(time.RFC3339),
		TimeEnd:              f.Start.Add(f.Duration).UTC().Format(time.RFC3339),
		Status:               "scheduled",
		InternalAttendantIDs: append([]string{}, f.InternalAttendantIDs...),
		EmailAttendants:      []string{},
		CreatedAt:            referenceTime.UTC().Format(time.RFC3339),
		UpdatedAt:            referenceTime.UTC().Format(time.RFC3339),
	}
	m.JoinURL = stringPtr(f.JoinURL)
	m.ZoomID = stringPtr(f.ZoomID)
	m.HostID = stringPtr(f.HostID)
	m.RequestedByID = stringPtr(f.RequestedByID)
	if f.RequestedByID != "" || f.RequestedByName != "" {
		m.RequestedBy = &backend.Person{ID: f.RequestedByID, Name: f.RequestedByName}
	}
	return m
}

// GroupByHost arranges meetings the way GET /meeting reports them: one group
// per host in first-seen order, with a nil ID for unhosted meetings.
func GroupByHost(fixtures ...MeetingFixture) []backend.MeetingGroup {
	var (
		order  []string
		byHost = make(map[string][]backend.Meeting)
	)
	for _, f := range fixtures {
		if _, seen := byHost[f.HostID]; !seen {
			order = append(order, f.HostID)
		}
		byHost[f.HostID] = append(byHost[f.HostID], f.Backend())
	}

	groups := make([]backend.MeetingGroup, 0, len(order))
	for _, host := range order {
		groups = append(groups, backend.MeetingGroup{ID: stringPtr(host), Meetings: byHost[host]})
	}
	return groups
}

func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

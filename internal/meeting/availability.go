// Package meeting holds the scheduling rules for shared meeting accounts:
// how a requested window resolves to instants in the canonical +07:00 zone,
// and which accounts are free to host it.
package meeting

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a meeting account.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// ParseStatus normalizes a backend status label. Unknown labels are kept
// lower-cased so they can be shown, but they never count as active.
func ParseStatus(value string) Status {
	return Status(strings.ToLower(strings.TrimSpace(value)))
}

// Account is one bookable meeting identity together with the meetings it
// already hosts on the catalog date.
type Account struct {
	ID       string
	Name     string
	Email    string
	Status   Status
	PlanType string
	Meetings []ScheduledMeeting
}

// ScheduledMeeting is an existing reservation on an account.
type ScheduledMeeting struct {
	ID                   string
	Title                string
	Start                time.Time
	DurationMinutes      int
	JoinURL              string
	MeetingNumber        string
	HostName             string
	RequestedByID        string
	InternalAttendantIDs []string
}

// End returns the exclusive end of the meeting.
func (m ScheduledMeeting) End() time.Time {
	minutes := m.DurationMinutes
	if minutes < 0 {
		minutes = 0
	}
	return m.Start.Add(time.Duration(minutes) * time.Minute)
}

// Overlaps reports whether [start, end) intersects the meeting's window.
// Touching endpoints do not overlap.
func (m ScheduledMeeting) Overlaps(start, end time.Time) bool {
	return start.Before(m.End()) && end.After(m.Start)
}

// IsAvailable reports whether the account can host a meeting starting at
// start for the given duration. Inactive and suspended accounts are never
// available. An all-day request is blocked by any meeting starting on the
// same canonical date as start.
func IsAvailable(account Account, start time.Time, duration Duration) bool {
	if account.Status != StatusActive {
		return false
	}

	if duration.IsAllDay() {
		day := DateOf(start)
		for _, m := range account.Meetings {
			if DateOf(m.Start) == day {
				return false
			}
		}
		return true
	}

	end := start.Add(duration.Minutes())
	for _, m := range account.Meetings {
		if m.Overlaps(start, end) {
			return false
		}
	}
	return true
}

// AvailableAccounts returns the accounts free for the window, in catalog
// order. An incomplete window yields an empty result.
func AvailableAccounts(accounts []Account, window Window) []Account {
	start, err := window.Start()
	if err != nil {
		return nil
	}

	available := make([]Account, 0, len(accounts))
	for _, account := range accounts {
		if IsAvailable(account, start, window.Duration) {
			available = append(available, account)
		}
	}
	if len(available) == 0 {
		return nil
	}
	return available
}

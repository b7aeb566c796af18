package meeting

import (
	"math"
	"sort"
	"time"
)

// AccountRecord is an account as reported by the backend.
type AccountRecord struct {
	ID       string
	Name     string
	Email    string
	Status   string
	PlanType string
}

// MeetingRecord is a meeting as reported by the backend, with separate
// start and end instants.
type MeetingRecord struct {
	ID                   string
	Title                string
	TimeStart            time.Time
	TimeEnd              time.Time
	JoinURL              string
	ZoomID               string
	RequestedByID        string
	RequestedByName      string
	InternalAttendantIDs []string
}

// HostGroup is the backend's grouping of meetings by hosting account. An
// empty HostID stands for meetings with no host.
type HostGroup struct {
	HostID   string
	Meetings []MeetingRecord
}

// FromRecord converts a backend meeting into start+duration form. The
// duration is the start-to-end span rounded to whole minutes.
func FromRecord(record MeetingRecord) ScheduledMeeting {
	minutes := int(math.Round(record.TimeEnd.Sub(record.TimeStart).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	hostName := record.RequestedByName
	if hostName == "" {
		hostName = "Unknown"
	}
	return ScheduledMeeting{
		ID:                   record.ID,
		Title:                record.Title,
		Start:                record.TimeStart,
		DurationMinutes:      minutes,
		JoinURL:              record.JoinURL,
		MeetingNumber:        record.ZoomID,
		HostName:             hostName,
		RequestedByID:        record.RequestedByID,
		InternalAttendantIDs: append([]string(nil), record.InternalAttendantIDs...),
	}
}

// BuildCatalog joins accounts with the meetings they host that start on
// date. Account order follows the backend; each account's meetings are
// ordered by start.
func BuildCatalog(accounts []AccountRecord, groups []HostGroup, date Date) []Account {
	byHost := make(map[string][]ScheduledMeeting, len(groups))
	for _, group := range groups {
		for _, record := range group.Meetings {
			if DateOf(record.TimeStart) != date {
				continue
			}
			byHost[group.HostID] = append(byHost[group.HostID], FromRecord(record))
		}
	}

	catalog := make([]Account, 0, len(accounts))
	for _, record := range accounts {
		meetings := byHost[record.ID]
		sort.SliceStable(meetings, func(i, j int) bool {
			return meetings[i].Start.Before(meetings[j].Start)
		})
		catalog = append(catalog, Account{
			ID:       record.ID,
			Name:     record.Name,
			Email:    record.Email,
			Status:   ParseStatus(record.Status),
			PlanType: record.PlanType,
			Meetings: meetings,
		})
	}
	return catalog
}

// FindAccount returns the account with the given id.
func FindAccount(accounts []Account, id string) (Account, bool) {
	for _, account := range accounts {
		if account.ID == id {
			return account, true
		}
	}
	return Account{}, false
}

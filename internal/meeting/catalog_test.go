package meeting

import (
	"testing"
	"time"
)

func TestBuildCatalog(t *testing.T) {
	t.Parallel()

	accounts := []AccountRecord{
		{ID: "acc-2", Name: "Zoom Two", Email: "two@example.com", Status: "ACTIVE", PlanType: "Pro"},
		{ID: "acc-1", Name: "Zoom One", Email: "one@example.com", Status: "Suspended", PlanType: "Basic"},
		{ID: "acc-3", Name: "Zoom Three", Email: "three@example.com", Status: "inactive"},
	}
	groups := []HostGroup{
		{
			HostID: "acc-2",
			Meetings: []MeetingRecord{
				{ID: "late", Title: "Retro", TimeStart: at(12, 15, 0), TimeEnd: at(12, 16, 0), RequestedByName: "Dewi"},
				{ID: "early", Title: "Standup", TimeStart: at(12, 9, 0), TimeEnd: at(12, 9, 15)},
				{ID: "tomorrow", Title: "Planning", TimeStart: at(13, 9, 0), TimeEnd: at(13, 10, 0)},
			},
		},
		{
			HostID: "",
			Meetings: []MeetingRecord{
				{ID: "orphan", Title: "No host", TimeStart: at(12, 11, 0), TimeEnd: at(12, 12, 0)},
			},
		},
	}

	catalog := BuildCatalog(accounts, groups, mustDate(t, "2025-11-12"))

	if got := ids(catalog); len(got) != 3 || got[0] != "acc-2" || got[1] != "acc-1" || got[2] != "acc-3" {
		t.Fatalf("expected backend account order, got %v", got)
	}

	two := catalog[0]
	if two.Status != StatusActive {
		t.Fatalf("expected status to be lower-cased, got %q", two.Status)
	}
	if len(two.Meetings) != 2 {
		t.Fatalf("expected two meetings on the selected date, got %d", len(two.Meetings))
	}
	if two.Meetings[0].ID != "early" || two.Meetings[1].ID != "late" {
		t.Fatalf("expected meetings ordered by start, got %s then %s", two.Meetings[0].ID, two.Meetings[1].ID)
	}
	if two.Meetings[0].DurationMinutes != 15 || two.Meetings[1].DurationMinutes != 60 {
		t.Fatalf("unexpected durations: %d, %d", two.Meetings[0].DurationMinutes, two.Meetings[1].DurationMinutes)
	}
	if two.Meetings[0].HostName != "Unknown" || two.Meetings[1].HostName != "Dewi" {
		t.Fatalf("unexpected host names: %q, %q", two.Meetings[0].HostName, two.Meetings[1].HostName)
	}

	if catalog[1].Status != StatusSuspended || len(catalog[1].Meetings) != 0 {
		t.Fatalf("expected suspended account without meetings, got %+v", catalog[1])
	}
}

func TestFromRecordRoundsDuration(t *testing.T) {
	t.Parallel()

	start := at(12, 10, 0)
	m := FromRecord(MeetingRecord{ID: "m", TimeStart: start, TimeEnd: start.Add(29*time.Minute + 40*time.Second)})
	if m.DurationMinutes != 30 {
		t.Fatalf("expected rounded duration 30, got %d", m.DurationMinutes)
	}

	inverted := FromRecord(MeetingRecord{ID: "bad", TimeStart: start, TimeEnd: start.Add(-time.Hour)})
	if inverted.DurationMinutes != 0 {
		t.Fatalf("expected negative spans to clamp to zero, got %d", inverted.DurationMinutes)
	}
}

func TestClassifyMeetings(t *testing.T) {
	t.Parallel()

	meetings := []ScheduledMeeting{
		meetingAt("past", at(12, 8, 0), 30),
		meetingAt("now", at(12, 9, 30), 60),
		meetingAt("ending", at(12, 9, 0), 60),
		meetingAt("later", at(12, 13, 0), 30),
	}
	now := at(12, 10, 0)

	ongoing := Ongoing(meetings, now)
	if len(ongoing) != 2 || ongoing[0].ID != "now" || ongoing[1].ID != "ending" {
		t.Fatalf("unexpected ongoing meetings: %+v", ongoing)
	}

	upcoming := Upcoming(meetings, now)
	if len(upcoming) != 1 || upcoming[0].ID != "later" {
		t.Fatalf("unexpected upcoming meetings: %+v", upcoming)
	}
}

func TestFindAccount(t *testing.T) {
	t.Parallel()

	catalog := []Account{{ID: "a"}, {ID: "b", Name: "Bee"}}
	got, ok := FindAccount(catalog, "b")
	if !ok || got.Name != "Bee" {
		t.Fatalf("expected to find account b, got %+v %v", got, ok)
	}
	if _, ok := FindAccount(catalog, "missing"); ok {
		t.Fatalf("expected missing account lookup to fail")
	}
}

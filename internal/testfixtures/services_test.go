package testfixtures

import (
	"context"
	"testing"

	"github.com/SAR-DEVELOPER/IT/internal/application"
	"github.com/SAR-DEVELOPER/IT/internal/persistence"
)

func TestServiceFactoryNewMeetingService(t *testing.T) {
	factory := NewServiceFactory()
	harness := NewSQLiteHarness(t)

	host := NewAccountFixture(WithAccountID("acc-a"))
	fake := &FakeBackend{
		Accounts: Accounts(host),
		Groups:   GroupByHost(NewMeetingFixture(WithMeetingHost("acc-a"), WithMeetingWindow(At(10, 0), 0))),
	}
	svc := factory.NewMeetingService(MeetingServiceDeps{Backend: fake, Journal: harness.Submissions})

	session := application.Session{Key: "fp-1", Principal: &application.Principal{UserID: "user-7"}}
	result, err := svc.ScheduleMeeting(context.Background(), session, application.ScheduleParams{
		Title:     "Ops sync",
		Window:    application.WindowParams{Date: ReferenceDate, Time: "14:00", Duration: "30"},
		AccountID: "acc-a",
	})
	if err != nil {
		t.Fatalf("ScheduleMeeting returned error: %v", err)
	}
	if result.SubmissionID != "sub-1" {
		t.Fatalf("expected generated ID sub-1, got %q", result.SubmissionID)
	}

	stored, err := harness.Submissions.GetSubmission(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("GetSubmission returned error: %v", err)
	}
	if stored.Status != persistence.SubmissionCreated || stored.RequesterID != "user-7" {
		t.Fatalf("unexpected journal entry: %#v", stored)
	}
	if !stored.CreatedAt.Equal(factory.Clock.Now()) {
		t.Fatalf("expected timestamp %v, got %v", factory.Clock.Now(), stored.CreatedAt)
	}
	if got := harness.List(t, persistence.SubmissionFilter{RequesterID: "user-7"}); len(got) != 1 || got[0].ID != "sub-1" {
		t.Fatalf("expected one entry for user-7, got %#v", got)
	}
	if issued := factory.IDGenerator.Issued(); len(issued) != 1 || issued[0] != "sub-1" {
		t.Fatalf("expected exactly one id to be issued, got %v", issued)
	}
}

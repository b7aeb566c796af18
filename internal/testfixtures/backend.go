package testfixtures

import (
	"context"
	"fmt"
	"sync"

	"github.com/SAR-DEVELOPER/IT/internal/backend"
)

// FakeBackend is an in-memory stand-in for the meeting backend.
type FakeBackend struct {
	mu sync.Mutex

	Accounts []backend.Account
	Groups   []backend.MeetingGroup

	AccountsErr error
	MeetingsErr error
	CreateErr   error

	// MeetingsHook runs inside ListMeetings before it answers. Tests use it
	// to hold a load in flight.
	MeetingsHook func(ctx context.Context) error

	created []backend.CreateMeetingRequest
	cookies []string
}

// ListAccounts returns the configured accounts.
func (b *FakeBackend) ListAccounts(ctx context.Context, cookies string) ([]backend.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cookies = append(b.cookies, cookies)
	if b.AccountsErr != nil {
		return nil, b.AccountsErr
	}
	return append([]backend.Account(nil), b.Accounts...), nil
}

// ListMeetings returns the configured meeting groups.
func (b *FakeBackend) ListMeetings(ctx context.Context, cookies string) ([]backend.MeetingGroup, error) {
	b.mu.Lock()
	hook := b.MeetingsHook
	b.mu.Unlock()
	if hook != nil {
		if err := hook(ctx); err != nil {
			return nil, err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.MeetingsErr != nil {
		return nil, b.MeetingsErr
	}
	return append([]backend.MeetingGroup(nil), b.Groups...), nil
}

// CreateMeeting records the request and answers with a scheduled meeting.
func (b *FakeBackend) CreateMeeting(ctx context.Context, cookies string, req backend.CreateMeetingRequest) (backend.Meeting, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, req)
	if b.CreateErr != nil {
		return backend.Meeting{}, b.CreateErr
	}
	id := fmt.Sprintf("created-%d", len(b.created))
	return backend.Meeting{
		ID:                   id,
		MeetingTitle:         req.MeetingTitle,
		MeetingDescription:   req.MeetingDescription,
		TimeStart:            req.TimeStart,
		TimeEnd:              req.TimeEnd,
		Status:               "scheduled",
		HostID:               req.AccountID,
		RequestedByID:        req.RequestedByID,
		InternalAttendantIDs: append([]string{}, req.InternalAttendants...),
		EmailAttendants:      append([]string{}, req.EmailAttendants...),
	}, nil
}

// Created returns the create requests received so far.
func (b *FakeBackend) Created() []backend.CreateMeetingRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]backend.CreateMeetingRequest(nil), b.created...)
}

// Cookies returns the cookie headers forwarded to ListAccounts.
func (b *FakeBackend) Cookies() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.cookies...)
}

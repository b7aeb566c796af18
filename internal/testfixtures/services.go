package testfixtures

import (
	"log/slog"
	"time"

	"github.com/SAR-DEVELOPER/IT/internal/application"
)

// ServiceFactory builds meeting services on a shared fake clock and a "sub-N"
// id sequence, so journal ids and timestamps are predictable.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

func NewServiceFactory() *ServiceFactory {
	return &ServiceFactory{Clock: NewClock(time.Time{}), IDGenerator: NewIDGenerator("sub")}
}

// MeetingServiceDeps lists what a MeetingService needs. Nil seams fall back
// to the factory's clock and ids.
type MeetingServiceDeps struct {
	Backend     application.MeetingBackend
	Journal     application.SubmissionJournal
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

func (f *ServiceFactory) NewMeetingService(deps MeetingServiceDeps) *application.MeetingService {
	if deps.IDGenerator == nil {
		deps.IDGenerator = f.IDGenerator.NextFunc()
	}
	if deps.Now == nil {
		deps.Now = f.Clock.NowFunc()
	}
	return application.NewMeetingServiceWithLogger(deps.Backend, deps.Journal, deps.IDGenerator, deps.Now, deps.Logger)
}

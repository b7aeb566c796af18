package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SAR-DEVELOPER/IT/internal/backend"
	"github.com/SAR-DEVELOPER/IT/internal/logging"
	"github.com/SAR-DEVELOPER/IT/internal/meeting"
	"github.com/SAR-DEVELOPER/IT/internal/persistence"
)

// MeetingBackend captures the backend calls the service depends on.
type MeetingBackend interface {
	ListAccounts(ctx context.Context, cookies string) ([]backend.Account, error)
	ListMeetings(ctx context.Context, cookies string) ([]backend.MeetingGroup, error)
	CreateMeeting(ctx context.Context, cookies string, req backend.CreateMeetingRequest) (backend.Meeting, error)
}

// SubmissionJournal records scheduling attempts.
type SubmissionJournal interface {
	RecordSubmission(ctx context.Context, submission persistence.Submission) error
	GetSubmission(ctx context.Context, id string) (persistence.Submission, error)
	ListSubmissions(ctx context.Context, filter persistence.SubmissionFilter) ([]persistence.Submission, error)
}

const (
	catalogGateKey      = "catalog|"
	availabilityGateKey = "availability|"
)

// MeetingService loads account catalogs, answers availability questions and
// submits new meetings to the backend.
type MeetingService struct {
	backend     MeetingBackend
	journal     SubmissionJournal
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
	latest      *latestGate
}

// NewMeetingService constructs a meeting service with the provided dependencies.
func NewMeetingService(api MeetingBackend, journal SubmissionJournal, idGenerator func() string, now func() time.Time) *MeetingService {
	return NewMeetingServiceWithLogger(api, journal, idGenerator, now, nil)
}

// NewMeetingServiceWithLogger constructs a meeting service with a specified logger.
func NewMeetingServiceWithLogger(api MeetingBackend, journal SubmissionJournal, idGenerator func() string, now func() time.Time, logger *slog.Logger) *MeetingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &MeetingService{
		backend:     api,
		journal:     journal,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
		latest:      newLatestGate(0),
	}
}

func (s *MeetingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "MeetingService", operation, attrs...)
}

// Now returns the service clock reading.
func (s *MeetingService) Now() time.Time {
	return s.now()
}

// LoadCatalog fetches accounts and meetings and joins them for date. A zero
// date means today in the canonical zone. When a newer load for the same
// session starts, this one is canceled and returns ErrSuperseded.
func (s *MeetingService) LoadCatalog(ctx context.Context, session Session, date meeting.Date) (catalog Catalog, err error) {
	if s == nil {
		err = fmt.Errorf("MeetingService is nil")
		return
	}
	if date.IsZero() {
		date = meeting.Today(s.now())
	}

	logger := s.loggerWith(ctx, "LoadCatalog", "date", date.String())
	defer func() {
		if err != nil {
			level := slog.LevelError
			if errors.Is(err, ErrSuperseded) {
				level = slog.LevelDebug
			}
			logger.Log(ctx, level, "failed to load catalog", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.DebugContext(ctx, "catalog loaded", "accounts", len(catalog.Accounts))
	}()

	catalog, err = s.loadLatest(ctx, catalogGateKey, session, date)
	return
}

// Availability resolves the window and lists the accounts free to host it.
// An incomplete window is not an error: Complete is false and no accounts
// are returned.
func (s *MeetingService) Availability(ctx context.Context, session Session, params WindowParams) (result Availability, err error) {
	if s == nil {
		err = fmt.Errorf("MeetingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Availability",
		"date", params.Date,
		"time", params.Time,
		"duration", params.Duration,
	)
	defer func() {
		if err != nil {
			level := slog.LevelWarn
			if errors.Is(err, ErrSuperseded) {
				level = slog.LevelDebug
			}
			logger.Log(ctx, level, "failed to compute availability", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.DebugContext(ctx, "availability computed", "complete", result.Complete, "available", len(result.Accounts))
	}()

	window, vErr := parseWindow(params)
	if vErr != nil {
		err = vErr
		return
	}

	date := window.Date
	if date.IsZero() {
		date = meeting.Today(s.now())
	}
	catalog, err := s.loadLatest(ctx, availabilityGateKey, session, date)
	if err != nil {
		return Availability{}, err
	}

	result = Availability{
		Window:   window,
		Complete: window.Complete(),
		Catalog:  catalog,
		Accounts: []meeting.Account{},
	}
	if !result.Complete {
		return result, nil
	}
	result.Start, _ = window.SerializedStart()
	result.End, _ = window.SerializedEnd()
	if available := meeting.AvailableAccounts(catalog.Accounts, window); available != nil {
		result.Accounts = available
	}
	return result, nil
}

// ScheduleMeeting validates the submission, re-checks the chosen account
// against a fresh catalog and asks the backend to create the meeting. Every
// attempt that reaches the backend is journaled.
func (s *MeetingService) ScheduleMeeting(ctx context.Context, session Session, params ScheduleParams) (result ScheduleResult, err error) {
	if s == nil {
		err = fmt.Errorf("MeetingService is nil")
		return
	}

	logger := s.loggerWith(ctx, "ScheduleMeeting",
		"principal_id", session.principalID(),
		"account_id", params.AccountID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to schedule meeting", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("meeting_id", result.Meeting.ID).InfoContext(ctx, "meeting scheduled")
	}()

	window, err := validateSchedule(params)
	if err != nil {
		return ScheduleResult{}, err
	}
	if s.backend == nil {
		return ScheduleResult{}, fmt.Errorf("meeting backend not configured")
	}

	accountID := strings.TrimSpace(params.AccountID)
	catalog, err := s.fetchCatalog(ctx, session, window.Date)
	if err != nil {
		return ScheduleResult{}, err
	}
	account, ok := meeting.FindAccount(catalog.Accounts, accountID)
	if !ok {
		vErr := &ValidationError{}
		vErr.add("accountId", "Please select an account")
		return ScheduleResult{}, vErr
	}

	start, err := window.Start()
	if err != nil {
		return ScheduleResult{}, err
	}
	if !meeting.IsAvailable(account, start, window.Duration) {
		return ScheduleResult{}, ErrAccountUnavailable
	}

	timeStart, _ := window.SerializedStart()
	timeEnd, _ := window.SerializedEnd()

	requesterID := strings.TrimSpace(params.RequestedByID)
	if requesterID == "" {
		requesterID = session.principalID()
	}

	req := backend.CreateMeetingRequest{
		MeetingTitle:       strings.TrimSpace(params.Title),
		MeetingDescription: strings.TrimSpace(params.Description),
		TimeStart:          timeStart,
		TimeEnd:            timeEnd,
		RequestedByID:      optionalString(requesterID),
		AccountID:          &accountID,
		HostID:             &accountID,
		InternalAttendants: cleanList(params.InternalAttendants),
		EmailAttendants:    cleanList(params.EmailAttendants),
	}

	created, createErr := s.backend.CreateMeeting(ctx, session.Cookies, req)

	entry := persistence.Submission{
		ID:                 s.idGenerator(),
		RequestID:          logging.RequestIDFromContext(ctx),
		RequesterID:        requesterID,
		SessionFingerprint: session.Key,
		AccountID:          accountID,
		Title:              req.MeetingTitle,
		Description:        req.MeetingDescription,
		TimeStart:          timeStart,
		TimeEnd:            timeEnd,
		AllDay:             window.Duration.IsAllDay(),
		DurationMinutes:    int(window.Duration),
		InternalAttendants: req.InternalAttendants,
		EmailAttendants:    req.EmailAttendants,
		Status:             persistence.SubmissionCreated,
		MeetingID:          created.ID,
		CreatedAt:          s.now(),
	}
	if createErr != nil {
		entry.Status = persistence.SubmissionFailed
		entry.MeetingID = ""
		entry.ErrorMessage = upstreamMessage(createErr)
	}
	s.record(ctx, logger, entry)

	if createErr != nil {
		return ScheduleResult{}, createErr
	}
	return ScheduleResult{
		Meeting:      created,
		SubmissionID: entry.ID,
		Start:        timeStart,
		End:          timeEnd,
	}, nil
}

// ListSubmissions returns the caller's journal entries, newest first. The
// caller is identified by principal, or by session when no principal is known.
func (s *MeetingService) ListSubmissions(ctx context.Context, session Session, params ListSubmissionsParams) (submissions []Submission, err error) {
	if s == nil {
		err = fmt.Errorf("MeetingService is nil")
		return
	}

	filter, err := submissionFilter(session)
	if err != nil {
		return nil, err
	}
	filter.Limit = params.Limit

	if s.journal == nil {
		return []Submission{}, nil
	}
	submissions, err = s.journal.ListSubmissions(ctx, filter)
	if err != nil {
		s.loggerWith(ctx, "ListSubmissions").ErrorContext(ctx, "failed to list submissions", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return submissions, nil
}

// GetSubmission returns one of the caller's journal entries. Entries owned by
// someone else are reported as not found.
func (s *MeetingService) GetSubmission(ctx context.Context, session Session, id string) (Submission, error) {
	if s == nil {
		return Submission{}, fmt.Errorf("MeetingService is nil")
	}
	filter, err := submissionFilter(session)
	if err != nil {
		return Submission{}, err
	}
	if s.journal == nil {
		return Submission{}, ErrNotFound
	}

	sub, err := s.journal.GetSubmission(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	if filter.RequesterID != "" && sub.RequesterID != filter.RequesterID {
		return Submission{}, ErrNotFound
	}
	if filter.RequesterID == "" && sub.SessionFingerprint != filter.SessionFingerprint {
		return Submission{}, ErrNotFound
	}
	return sub, nil
}

// CanJoin reports whether principal may see the join link of m: the requester
// and internal attendants can, everyone else cannot.
func CanJoin(principal *Principal, m meeting.ScheduledMeeting) bool {
	if principal == nil || principal.UserID == "" {
		return false
	}
	if m.RequestedByID == principal.UserID {
		return true
	}
	for _, id := range m.InternalAttendantIDs {
		if id == principal.UserID {
			return true
		}
	}
	return false
}

// submissionFilter scopes journal reads to the verified principal, else to
// the session fingerprint. Unverified claims never widen access.
func submissionFilter(session Session) (persistence.SubmissionFilter, error) {
	if id := session.verifiedPrincipalID(); id != "" {
		return persistence.SubmissionFilter{RequesterID: id}, nil
	}
	if session.Key != "" {
		return persistence.SubmissionFilter{SessionFingerprint: session.Key}, nil
	}
	return persistence.SubmissionFilter{}, ErrUnauthorized
}

// loadLatest runs fetchCatalog under the latest-wins gate for prefix+session.
func (s *MeetingService) loadLatest(ctx context.Context, prefix string, session Session, date meeting.Date) (Catalog, error) {
	key := ""
	if session.Key != "" {
		key = prefix + session.Key
	}

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ticket := s.latest.begin(key, cancel)
	defer s.latest.done(ticket)

	catalog, err := s.fetchCatalog(loadCtx, session, date)
	if !s.latest.current(ticket) {
		return Catalog{}, ErrSuperseded
	}
	if err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

// fetchCatalog retrieves accounts and meetings in parallel and joins them.
func (s *MeetingService) fetchCatalog(ctx context.Context, session Session, date meeting.Date) (Catalog, error) {
	if s.backend == nil {
		return Catalog{}, fmt.Errorf("meeting backend not configured")
	}

	var (
		accounts []backend.Account
		groups   []backend.MeetingGroup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.backend.ListAccounts(gctx, session.Cookies)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = s.backend.ListMeetings(gctx, session.Cookies)
		return err
	})
	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}

	logger := s.loggerWith(ctx, "fetchCatalog")
	return Catalog{
		Date:     date,
		Accounts: meeting.BuildCatalog(accountRecords(accounts), hostGroups(ctx, logger, groups), date),
		LoadedAt: s.now(),
	}, nil
}

func (s *MeetingService) record(ctx context.Context, logger *slog.Logger, entry persistence.Submission) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordSubmission(context.WithoutCancel(ctx), entry); err != nil {
		logger.WarnContext(ctx, "failed to journal submission", "submission_id", entry.ID, "error", err)
	}
}

func accountRecords(accounts []backend.Account) []meeting.AccountRecord {
	out := make([]meeting.AccountRecord, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, meeting.AccountRecord{
			ID:       a.ID,
			Name:     a.AccountName,
			Email:    a.AccountEmail,
			Status:   a.AccountStatus,
			PlanType: a.AccountPlanType,
		})
	}
	return out
}

// hostGroups converts backend groups, skipping meetings whose times cannot be
// parsed.
func hostGroups(ctx context.Context, logger *slog.Logger, groups []backend.MeetingGroup) []meeting.HostGroup {
	out := make([]meeting.HostGroup, 0, len(groups))
	for _, group := range groups {
		hg := meeting.HostGroup{HostID: backend.Deref(group.ID)}
		for _, m := range group.Meetings {
			start, errStart := time.Parse(time.RFC3339, m.TimeStart)
			end, errEnd := time.Parse(time.RFC3339, m.TimeEnd)
			if errStart != nil || errEnd != nil {
				logger.WarnContext(ctx, "skipping meeting with unparseable time",
					"meeting_id", m.ID,
					"time_start", m.TimeStart,
					"time_end", m.TimeEnd,
				)
				continue
			}
			record := meeting.MeetingRecord{
				ID:                   m.ID,
				Title:                m.MeetingTitle,
				TimeStart:            start,
				TimeEnd:              end,
				JoinURL:              backend.Deref(m.JoinURL),
				ZoomID:               backend.Deref(m.ZoomID),
				RequestedByID:        backend.Deref(m.RequestedByID),
				InternalAttendantIDs: m.InternalAttendantIDs,
			}
			if m.RequestedBy != nil {
				record.RequestedByName = m.RequestedBy.Name
				if record.RequestedByID == "" {
					record.RequestedByID = m.RequestedBy.ID
				}
			}
			hg.Meetings = append(hg.Meetings, record)
		}
		out = append(out, hg)
	}
	return out
}

func upstreamMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SAR-DEVELOPER/IT/internal/application"
	"github.com/SAR-DEVELOPER/IT/internal/backend"
	"github.com/SAR-DEVELOPER/IT/internal/meeting"
)

type meetingService interface {
	LoadCatalog(ctx context.Context, session application.Session, date meeting.Date) (application.Catalog, error)
	Availability(ctx context.Context, session application.Session, params application.WindowParams) (application.Availability, error)
	ScheduleMeeting(ctx context.Context, session application.Session, params application.ScheduleParams) (application.ScheduleResult, error)
	ListSubmissions(ctx context.Context, session application.Session, params application.ListSubmissionsParams) ([]application.Submission, error)
	GetSubmission(ctx context.Context, session application.Session, id string) (application.Submission, error)
}

// MeetingHandler serves the scheduling form endpoints.
type MeetingHandler struct {
	service   meetingService
	responder responder
	logger    *slog.Logger
}

func NewMeetingHandler(service meetingService, logger *slog.Logger) *MeetingHandler {
	return &MeetingHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

// Catalog answers GET /api/meeting/catalog?date=YYYY-MM-DD.
func (h *MeetingHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	date, err := meeting.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCatalogDate)
		return
	}

	session := SessionFromContext(r.Context())
	catalog, err := h.service.LoadCatalog(r.Context(), session, date)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := catalogResponse{
		Date:     catalog.Date.String(),
		LoadedAt: meeting.FormatWire(catalog.LoadedAt),
		Accounts: make([]accountDTO, 0, len(catalog.Accounts)),
	}
	for _, account := range catalog.Accounts {
		resp.Accounts = append(resp.Accounts, toAccountDTO(account, session.Principal, catalog.LoadedAt))
	}
	handlerLogger(r.Context(), h.logger, "MeetingHandler", "Catalog").DebugContext(r.Context(), "catalog served", "accounts", len(resp.Accounts))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

// Availability answers GET /api/meeting/availability?date=&time=&duration=.
func (h *MeetingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	params := application.WindowParams{
		Date:     query.Get("date"),
		Time:     query.Get("time"),
		Duration: query.Get("duration"),
	}

	result, err := h.service.Availability(r.Context(), SessionFromContext(r.Context()), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := availabilityResponse{
		Date:            result.Catalog.Date.String(),
		Time:            result.Window.TimeOfDay.String(),
		Duration:        durationValue(result.Window.Duration),
		Complete:        result.Complete,
		Start:           result.Start,
		End:             result.End,
		Accounts:        make([]accountSummaryDTO, 0, len(result.Accounts)),
		CatalogLoadedAt: meeting.FormatWire(result.Catalog.LoadedAt),
	}
	for _, account := range result.Accounts {
		resp.Accounts = append(resp.Accounts, toAccountSummary(account))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

// Options answers GET /api/meeting/options.
func (h *MeetingHandler) Options(w http.ResponseWriter, r *http.Request) {
	resp := optionsResponse{
		TimeOptions:     meeting.TimeOptions(),
		DefaultDuration: 30,
	}
	for _, d := range meeting.Durations {
		resp.Durations = append(resp.Durations, durationOptionDTO{Value: durationValue(d), Minutes: int(d), Label: d.Label()})
	}
	resp.Durations = append(resp.Durations, durationOptionDTO{
		Value:   durationValue(meeting.AllDay),
		Minutes: int(meeting.AllDay),
		Label:   meeting.AllDay.Label(),
	})
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

// Schedule answers POST /api/meeting/schedule.
func (h *MeetingHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.service.ScheduleMeeting(r.Context(), SessionFromContext(r.Context()), req.toParams())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, scheduleResponse{
		SubmissionID: result.SubmissionID,
		Start:        result.Start,
		End:          result.End,
		Meeting:      result.Meeting,
	})
}

// ListSubmissions answers GET /api/meeting/submissions?limit=N.
func (h *MeetingHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var params application.ListSubmissionsParams
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidLimit)
			return
		}
		params.Limit = limit
	}

	subs, err := h.service.ListSubmissions(r.Context(), SessionFromContext(r.Context()), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := submissionListResponse{Submissions: make([]submissionDTO, 0, len(subs))}
	for _, sub := range subs {
		resp.Submissions = append(resp.Submissions, toSubmissionDTO(sub))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

// GetSubmission answers GET /api/meeting/submissions/{id}.
func (h *MeetingHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id, ok := SubmissionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" || strings.Contains(id, "/") {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSubmission)
		return
	}

	sub, err := h.service.GetSubmission(r.Context(), SessionFromContext(r.Context()), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSubmissionDTO(sub))
}

// durationValue renders a duration the way query strings carry it.
func durationValue(d meeting.Duration) string {
	if d.IsAllDay() {
		return "all-day"
	}
	return strconv.Itoa(int(d))
}

func toAccountDTO(account meeting.Account, principal *application.Principal, now time.Time) accountDTO {
	return accountDTO{
		accountSummaryDTO: toAccountSummary(account),
		Meetings:          toMeetingDTOs(account.Meetings, principal),
		Ongoing:           toMeetingDTOs(meeting.Ongoing(account.Meetings, now), principal),
		Upcoming:          toMeetingDTOs(meeting.Upcoming(account.Meetings, now), principal),
	}
}

func toAccountSummary(account meeting.Account) accountSummaryDTO {
	return accountSummaryDTO{
		ID:       account.ID,
		Name:     account.Name,
		Email:    account.Email,
		Status:   string(account.Status),
		PlanType: account.PlanType,
	}
}

func toMeetingDTOs(meetings []meeting.ScheduledMeeting, principal *application.Principal) []meetingDTO {
	out := make([]meetingDTO, 0, len(meetings))
	for _, m := range meetings {
		dto := meetingDTO{
			ID:              m.ID,
			Title:           m.Title,
			Start:           meeting.FormatWire(m.Start),
			End:             meeting.FormatWire(m.End()),
			DurationMinutes: m.DurationMinutes,
			HostName:        m.HostName,
			MeetingNumber:   m.MeetingNumber,
			CanJoin:         application.CanJoin(principal, m),
		}
		if dto.CanJoin {
			dto.JoinURL = m.JoinURL
		}
		out = append(out, dto)
	}
	return out
}

func toSubmissionDTO(sub application.Submission) submissionDTO {
	return submissionDTO{
		ID:                 sub.ID,
		RequestID:          sub.RequestID,
		RequesterID:        sub.RequesterID,
		AccountID:          sub.AccountID,
		Title:              sub.Title,
		Description:        sub.Description,
		TimeStart:          sub.TimeStart,
		TimeEnd:            sub.TimeEnd,
		AllDay:             sub.AllDay,
		DurationMinutes:    sub.DurationMinutes,
		InternalAttendants: sub.InternalAttendants,
		EmailAttendants:    sub.EmailAttendants,
		Status:             string(sub.Status),
		MeetingID:          sub.MeetingID,
		ErrorMessage:       sub.ErrorMessage,
		CreatedAt:          sub.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// flexibleString accepts a JSON string or number.
type flexibleString string

func (f *flexibleString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleString(n.String())
	return nil
}

type scheduleRequest struct {
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Date               string         `json:"date"`
	Time               string         `json:"time"`
	Duration           flexibleString `json:"duration"`
	AccountID          string         `json:"accountId"`
	RequestedByID      string         `json:"requestedById"`
	InternalAttendants []string       `json:"internalAttendants"`
	EmailAttendants    []string       `json:"emailAttendants"`
}

func (r scheduleRequest) toParams() application.ScheduleParams {
	return application.ScheduleParams{
		Title:       r.Title,
		Description: r.Description,
		Window: application.WindowParams{
			Date:     r.Date,
			Time:     r.Time,
			Duration: string(r.Duration),
		},
		AccountID:          r.AccountID,
		RequestedByID:      r.RequestedByID,
		InternalAttendants: r.InternalAttendants,
		EmailAttendants:    r.EmailAttendants,
	}
}

type accountSummaryDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Status   string `json:"status"`
	PlanType string `json:"plan_type"`
}

type accountDTO struct {
	accountSummaryDTO
	Meetings []meetingDTO `json:"meetings"`
	Ongoing  []meetingDTO `json:"ongoing"`
	Upcoming []meetingDTO `json:"upcoming"`
}

type meetingDTO struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"duration_minutes"`
	HostName        string `json:"host_name"`
	MeetingNumber   string `json:"meeting_number,omitempty"`
	JoinURL         string `json:"join_url,omitempty"`
	CanJoin         bool   `json:"can_join"`
}

type catalogResponse struct {
	Date     string       `json:"date"`
	LoadedAt string       `json:"loaded_at"`
	Accounts []accountDTO `json:"accounts"`
}

type availabilityResponse struct {
	Date            string              `json:"date"`
	Time            string              `json:"time"`
	Duration        string              `json:"duration"`
	Complete        bool                `json:"complete"`
	Start           string              `json:"start,omitempty"`
	End             string              `json:"end,omitempty"`
	Accounts        []accountSummaryDTO `json:"accounts"`
	CatalogLoadedAt string              `json:"catalog_loaded_at"`
}

type durationOptionDTO struct {
	Value   string `json:"value"`
	Minutes int    `json:"minutes"`
	Label   string `json:"label"`
}

type optionsResponse struct {
	TimeOptions     []string            `json:"time_options"`
	Durations       []durationOptionDTO `json:"durations"`
	DefaultDuration int                 `json:"default_duration"`
}

type scheduleResponse struct {
	SubmissionID string          `json:"submission_id"`
	Start        string          `json:"start"`
	End          string          `json:"end"`
	Meeting      backend.Meeting `json:"meeting"`
}

type submissionDTO struct {
	ID                 string   `json:"id"`
	RequestID          string   `json:"request_id,omitempty"`
	RequesterID        string   `json:"requester_id,omitempty"`
	AccountID          string   `json:"account_id"`
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	TimeStart          string   `json:"time_start"`
	TimeEnd            string   `json:"time_end"`
	AllDay             bool     `json:"all_day"`
	DurationMinutes    int      `json:"duration_minutes"`
	InternalAttendants []string `json:"internal_attendants"`
	EmailAttendants    []string `json:"email_attendants"`
	Status             string   `json:"status"`
	MeetingID          string   `json:"meeting_id,omitempty"`
	ErrorMessage       string   `json:"error_message,omitempty"`
	CreatedAt          string   `json:"created_at"`
}

type submissionListResponse struct {
	Submissions []submissionDTO `json:"submissions"`
}

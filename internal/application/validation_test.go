package application

import (
	"errors"
	"reflect"
	"testing"

	"github.com/SAR-DEVELOPER/IT/internal/meeting"
)

func TestParseWindow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		params   WindowParams
		wantErrs map[string]string
		wantDur  meeting.Duration
		complete bool
	}{
		{
			name:     "defaults duration to thirty minutes",
			params:   WindowParams{Date: "2025-11-12", Time: "14:00"},
			wantDur:  30,
			complete: true,
		},
		{
			name:     "all day needs no time",
			params:   WindowParams{Date: "2025-11-12", Duration: "all-day"},
			wantDur:  meeting.AllDay,
			complete: true,
		},
		{
			name:     "missing values are not errors",
			params:   WindowParams{},
			wantDur:  30,
			complete: false,
		},
		{
			name:     "malformed date",
			params:   WindowParams{Date: "12/11/2025", Time: "14:00"},
			wantErrs: map[string]string{"date": "Please select a date"},
		},
		{
			name:     "malformed time",
			params:   WindowParams{Date: "2025-11-12", Time: "2pm"},
			wantErrs: map[string]string{"time": "Please select a time"},
		},
		{
			name:     "off grid time",
			params:   WindowParams{Date: "2025-11-12", Time: "14:10"},
			wantErrs: map[string]string{"time": "Please select a time in 15-minute steps"},
		},
		{
			name:     "unknown duration",
			params:   WindowParams{Date: "2025-11-12", Time: "14:00", Duration: "25"},
			wantErrs: map[string]string{"duration": "Please select a valid duration"},
		},
		{
			name:     "unparseable duration",
			params:   WindowParams{Date: "2025-11-12", Time: "14:00", Duration: "long"},
			wantErrs: map[string]string{"duration": "Please select a valid duration"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w, vErr := parseWindow(tc.params)
			if tc.wantErrs != nil {
				if vErr == nil {
					t.Fatalf("expected validation errors %v", tc.wantErrs)
				}
				if !reflect.DeepEqual(vErr.FieldErrors, tc.wantErrs) {
					t.Fatalf("unexpected field errors: %v", vErr.FieldErrors)
				}
				return
			}
			if vErr != nil {
				t.Fatalf("unexpected validation error: %v", vErr.FieldErrors)
			}
			if w.Duration != tc.wantDur {
				t.Fatalf("expected duration %d, got %d", tc.wantDur, w.Duration)
			}
			if w.Complete() != tc.complete {
				t.Fatalf("expected complete=%v", tc.complete)
			}
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	t.Parallel()

	valid := ScheduleParams{
		Title:           "Ops sync",
		Window:          WindowParams{Date: "2025-11-12", Time: "14:00", Duration: "30"},
		AccountID:       "acc-1",
		EmailAttendants: []string{"guest@example.com"},
	}

	cases := []struct {
		name   string
		mutate func(p *ScheduleParams)
		want   map[string]string
	}{
		{name: "valid", mutate: func(p *ScheduleParams) {}},
		{
			name:   "blank title",
			mutate: func(p *ScheduleParams) { p.Title = "   " },
			want:   map[string]string{"title": "Please enter a meeting topic"},
		},
		{
			name:   "all day without date",
			mutate: func(p *ScheduleParams) { p.Window = WindowParams{Duration: "all-day"} },
			want:   map[string]string{"date": "Please select a date"},
		},
		{
			name:   "timed without date",
			mutate: func(p *ScheduleParams) { p.Window.Date = "" },
			want:   map[string]string{"date": "Please select both date and time"},
		},
		{
			name:   "timed without time",
			mutate: func(p *ScheduleParams) { p.Window.Time = "" },
			want:   map[string]string{"time": "Please select both date and time"},
		},
		{
			name:   "no account",
			mutate: func(p *ScheduleParams) { p.AccountID = "" },
			want:   map[string]string{"accountId": "Please select an account"},
		},
		{
			name:   "bad invitee",
			mutate: func(p *ScheduleParams) { p.EmailAttendants = []string{"guest@example.com", "not-an-email"} },
			want:   map[string]string{"emailAttendants": "Invalid email attendant: not-an-email"},
		},
		{
			name:   "blank invitee rows are ignored",
			mutate: func(p *ScheduleParams) { p.EmailAttendants = []string{"", "guest@example.com", "   "} },
		},
		{
			name: "several fields at once",
			mutate: func(p *ScheduleParams) {
				p.Title = ""
				p.AccountID = ""
			},
			want: map[string]string{
				"title":     "Please enter a meeting topic",
				"accountId": "Please select an account",
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			params := valid
			params.EmailAttendants = append([]string(nil), valid.EmailAttendants...)
			tc.mutate(&params)

			w, err := validateSchedule(params)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !w.Complete() {
					t.Fatalf("expected a complete window")
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !reflect.DeepEqual(vErr.FieldErrors, tc.want) {
				t.Fatalf("unexpected field errors: %v", vErr.FieldErrors)
			}
		})
	}
}

func TestCleanList(t *testing.T) {
	t.Parallel()

	got := cleanList([]string{" user-1 ", "", "user-2", "user-1"})
	if !reflect.DeepEqual(got, []string{"user-1", "user-2"}) {
		t.Fatalf("unexpected list: %v", got)
	}
	if got := cleanList(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

package application

import (
	"net/mail"
	"strings"

	"github.com/SAR-DEVELOPER/IT/internal/meeting"
)

const defaultDuration meeting.Duration = 30

// parseWindow turns raw form values into a window. Missing values are not
// errors here; malformed ones are.
func parseWindow(p WindowParams) (meeting.Window, *ValidationError) {
	vErr := &ValidationError{}
	var w meeting.Window

	date, err := meeting.ParseDate(p.Date)
	if err != nil {
		vErr.add("date", "Please select a date")
	}
	w.Date = date

	tod, err := meeting.ParseTimeOfDay(p.Time)
	switch {
	case err != nil:
		vErr.add("time", "Please select a time")
	case tod.IsSet() && !tod.OnQuarterHour():
		vErr.add("time", "Please select a time in 15-minute steps")
	}
	w.TimeOfDay = tod

	duration, err := meeting.ParseDuration(p.Duration)
	switch {
	case err != nil:
		vErr.add("duration", "Please select a valid duration")
	case strings.TrimSpace(p.Duration) == "":
		duration = defaultDuration
	case !duration.Valid():
		vErr.add("duration", "Please select a valid duration")
	}
	w.Duration = duration

	if vErr.HasErrors() {
		return meeting.Window{}, vErr
	}
	return w, nil
}

// validateSchedule checks a submission before any network call.
func validateSchedule(params ScheduleParams) (meeting.Window, error) {
	vErr := &ValidationError{}

	if strings.TrimSpace(params.Title) == "" {
		vErr.add("title", "Please enter a meeting topic")
	}

	w, wErr := parseWindow(params.Window)
	vErr.merge(wErr)
	if wErr == nil && !w.Complete() {
		switch {
		case w.Duration.IsAllDay():
			vErr.add("date", "Please select a date")
		case w.Date.IsZero():
			vErr.add("date", "Please select both date and time")
		default:
			vErr.add("time", "Please select both date and time")
		}
	}

	if strings.TrimSpace(params.AccountID) == "" {
		vErr.add("accountId", "Please select an account")
	}

	for _, email := range params.EmailAttendants {
		if strings.TrimSpace(email) == "" {
			continue
		}
		if !validEmail(email) {
			vErr.add("emailAttendants", "Invalid email attendant: "+email)
			break
		}
	}

	if err := vErr.orNil(); err != nil {
		return meeting.Window{}, err
	}
	return w, nil
}

func validEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

// cleanList trims entries, drops blanks and removes duplicates in order.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

package meeting

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrIncomplete reports a window that cannot be resolved to instants yet.
// Callers treat it as "not computable", not as a failure.
var ErrIncomplete = errors.New("meeting: incomplete window")

// Duration is a meeting length in minutes. AllDay is the sentinel for a
// whole-day reservation.
type Duration int

// AllDay marks a window that spans the whole canonical calendar date.
const AllDay Duration = -1

// Durations lists the selectable timed lengths, in minutes.
var Durations = []Duration{15, 30, 45, 60, 90, 120, 180, 240}

// QuarterHour is the granularity of selectable start times.
const QuarterHour = 15 * time.Minute

// IsAllDay reports whether d is the all-day sentinel.
func (d Duration) IsAllDay() bool {
	return d == AllDay
}

// Valid reports whether d is the all-day sentinel or one of Durations.
func (d Duration) Valid() bool {
	if d.IsAllDay() {
		return true
	}
	for _, allowed := range Durations {
		if d == allowed {
			return true
		}
	}
	return false
}

// Minutes returns the length as a time.Duration. The all-day sentinel has no
// timed length and yields zero.
func (d Duration) Minutes() time.Duration {
	if d.IsAllDay() || d < 0 {
		return 0
	}
	return time.Duration(d) * time.Minute
}

// Label renders the duration the way the scheduling form presents it.
func (d Duration) Label() string {
	if d.IsAllDay() {
		return "All Day (00:00 - 23:59)"
	}
	return fmt.Sprintf("%d minutes", int(d))
}

// ParseDuration accepts a minute count, "-1", or "all-day".
func ParseDuration(value string) (Duration, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	switch value {
	case "":
		return 0, nil
	case "all-day", "allday", "all_day":
		return AllDay, nil
	}
	minutes, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("meeting: invalid duration %q", value)
	}
	return Duration(minutes), nil
}

// TimeOfDay is an HH:mm wall-clock time in the canonical zone.
type TimeOfDay struct {
	Hour   int
	Minute int
	set    bool
}

// ParseTimeOfDay parses an HH:mm string. An empty value yields an unset time.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return TimeOfDay{}, nil
	}
	t, err := time.Parse(timeOfDayLayout, value)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("meeting: invalid time of day %q", value)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), set: true}, nil
}

// MustTimeOfDay is ParseTimeOfDay for literals; it panics on malformed input.
func MustTimeOfDay(value string) TimeOfDay {
	tod, err := ParseTimeOfDay(value)
	if err != nil {
		panic(err)
	}
	return tod
}

// IsSet reports whether a time was supplied.
func (t TimeOfDay) IsSet() bool {
	return t.set
}

// OnQuarterHour reports whether the time sits on the 15-minute grid.
func (t TimeOfDay) OnQuarterHour() bool {
	return t.set && t.Minute%15 == 0
}

// String formats the time as HH:mm, or "" when unset.
func (t TimeOfDay) String() string {
	if !t.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// TimeOptions returns every selectable start time from 00:00 to 23:45.
func TimeOptions() []string {
	options := make([]string, 0, 24*4)
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute += 15 {
			options = append(options, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return options
}

// Window is the slot a user asks for when scheduling a new meeting.
type Window struct {
	Date      Date
	TimeOfDay TimeOfDay
	Duration  Duration
}

// Complete reports whether the window can be resolved to instants.
func (w Window) Complete() bool {
	if w.Date.IsZero() {
		return false
	}
	return w.Duration.IsAllDay() || w.TimeOfDay.IsSet()
}

// Start resolves the window's start instant. All-day windows start at
// midnight; timed windows require a time of day.
func (w Window) Start() (time.Time, error) {
	if w.Date.IsZero() {
		return time.Time{}, ErrIncomplete
	}
	if w.Duration.IsAllDay() {
		return w.Date.Midnight(), nil
	}
	if !w.TimeOfDay.IsSet() {
		return time.Time{}, ErrIncomplete
	}
	return time.Date(w.Date.Year, w.Date.Month, w.Date.Day, w.TimeOfDay.Hour, w.TimeOfDay.Minute, 0, 0, Canonical), nil
}

// End resolves the exclusive end instant used for conflict checks. All-day
// windows end at the following midnight.
func (w Window) End() (time.Time, error) {
	start, err := w.Start()
	if err != nil {
		return time.Time{}, err
	}
	if w.Duration.IsAllDay() {
		return w.Date.AddDays(1).Midnight(), nil
	}
	return start.Add(w.Duration.Minutes()), nil
}

// SerializedStart renders the start as YYYY-MM-DDTHH:mm:ss+07:00.
func (w Window) SerializedStart() (string, error) {
	start, err := w.Start()
	if err != nil {
		return "", err
	}
	return FormatWire(start), nil
}

// SerializedEnd renders the end for submission. All-day windows close at
// 23:59:59 of the same date rather than the next midnight.
func (w Window) SerializedEnd() (string, error) {
	start, err := w.Start()
	if err != nil {
		return "", err
	}
	if w.Duration.IsAllDay() {
		return FormatWire(time.Date(w.Date.Year, w.Date.Month, w.Date.Day, 23, 59, 59, 0, Canonical)), nil
	}
	return FormatWire(start.Add(w.Duration.Minutes())), nil
}

package meeting

import (
	"fmt"
	"strings"
	"time"
)

// CanonicalOffset is the fixed UTC offset every window is built and
// serialized in. It is business policy and never derived from the host zone.
const CanonicalOffset = 7 * time.Hour

// Canonical is the fixed zone backing CanonicalOffset.
var Canonical = time.FixedZone("UTC+07:00", int(CanonicalOffset/time.Second))

const (
	dateLayout      = "2006-01-02"
	timeOfDayLayout = "15:04"
	wireLayout      = "2006-01-02T15:04:05-07:00"
)

// Date is a calendar date in the canonical zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, Canonical)
	if err != nil {
		return Date{}, fmt.Errorf("meeting: invalid date %q: %w", value, err)
	}
	return DateOf(t), nil
}

// DateOf returns the canonical calendar date the instant falls on.
func DateOf(t time.Time) Date {
	y, m, d := t.In(Canonical).Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the canonical calendar date for now.
func Today(now time.Time) Date {
	return DateOf(now)
}

// IsZero reports whether the date has not been set.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Midnight returns 00:00:00 of the date in the canonical zone.
func (d Date) Midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, Canonical)
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Midnight().AddDate(0, 0, n))
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// FormatWire renders an instant as YYYY-MM-DDTHH:mm:ss+07:00.
func FormatWire(t time.Time) string {
	return t.In(Canonical).Format(wireLayout)
}

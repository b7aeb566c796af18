package meeting

import "time"

// Ongoing returns the meetings in progress at now. Both ends are inclusive.
func Ongoing(meetings []ScheduledMeeting, now time.Time) []ScheduledMeeting {
	var out []ScheduledMeeting
	for _, m := range meetings {
		if !now.Before(m.Start) && !now.After(m.End()) {
			out = append(out, m)
		}
	}
	return out
}

// Upcoming returns the meetings that start after now.
func Upcoming(meetings []ScheduledMeeting, now time.Time) []ScheduledMeeting {
	var out []ScheduledMeeting
	for _, m := range meetings {
		if m.Start.After(now) {
			out = append(out, m)
		}
	}
	return out
}

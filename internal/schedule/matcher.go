// Package schedule holds the pure firing decision: no clocks, no state,
// every input arrives as an argument so the matcher is trivially testable.
package schedule

import (
	"time"

	"github.com/aquatrack/reminderd/internal/model"
)

const secondsPerDay = 24 * 60 * 60

// SecondsOfDay returns the UTC wall-clock position of an instant in seconds.
func SecondsOfDay(t time.Time) int {
	h, m, s := t.UTC().Clock()
	return h*3600 + m*60 + s
}

// DayKey formats an instant's UTC calendar date for de-duplication markers.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ShouldFire decides whether a reminder is due at now.
//
// A reminder fires when now's weekday is in its weekday set and its time of
// day lies within [now, now+window). The distance wraps at midnight so a
// target just past 00:00:00 is still reachable from a tick just before it.
// The matcher is stateless and answers yes for every tick inside the window;
// once-per-day delivery is the scheduler's de-duplication marker's job.
func ShouldFire(now time.Time, r model.Reminder, window time.Duration) bool {
	if !r.Days.Contains(model.WeekdayOf(now)) {
		return false
	}
	return distance(now, r) < int(window/time.Second)
}

// TargetDate returns the day key of the scheduled instant the current
// window belongs to. For ticks just before midnight aiming at a target just
// past it, that is tomorrow's date; de-duplication markers key on it so both
// sides of the boundary contend for the same marker.
func TargetDate(now time.Time, r model.Reminder) string {
	return DayKey(now.Add(time.Duration(distance(now, r)) * time.Second))
}

// distance is the number of seconds from now's clock position forward to
// the reminder's time of day, wrapping at midnight.
func distance(now time.Time, r model.Reminder) int {
	delta := r.TimeOfDay.Seconds() - SecondsOfDay(now)
	if delta < 0 {
		delta += secondsPerDay
	}
	return delta
}

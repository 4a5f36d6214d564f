package booking

import "time"

// SurroundingHalfHour computes the fixed one-hour admission window around t,
// anchored to the half-hour grid. Seconds and finer precision are truncated,
// the minute snaps down to :00 or :30, and the upper bound is one hour later.
// A reservation at 12:10 and one at 12:40 therefore share [12:00, 13:00),
// while 12:35 lands in [12:30, 13:30).
func SurroundingHalfHour(t time.Time) (lower, upper time.Time) {
	lower = t.Truncate(time.Minute)
	if lower.Minute() < 30 {
		lower = lower.Add(-time.Duration(lower.Minute()) * time.Minute)
	} else {
		lower = lower.Add(-time.Duration(lower.Minute()-30) * time.Minute)
	}
	return lower, lower.Add(time.Hour)
}

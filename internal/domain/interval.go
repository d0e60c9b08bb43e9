package domain

import "time"

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// share any instant. Touching intervals (e1 == s2) do not overlap.
// Callers are expected to pass well-formed intervals (start before end).
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// OverlapsBooking reports whether [start, end) collides with the dates of
// an existing booking, regardless of that booking's status.
func OverlapsBooking(start, end time.Time, b Booking) bool {
	return Overlaps(start, end, b.StartDate, b.EndDate)
}

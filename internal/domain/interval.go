package domain

import "time"

// Interval is a half-open [Start, End) slot on a single calendar date.
// Trips never cross midnight, so an interval is fully described by its date
// and two times of day.
type Interval struct {
	Date  time.Time
	Start TimeOfDay
	End   TimeOfDay
}

// Overlaps reports whether a and b share any instant. Intervals on different
// dates never overlap, and back-to-back intervals (a ends when b starts) do
// not overlap either.
func (a Interval) Overlaps(b Interval) bool {
	if !DateOf(a.Date).Equal(DateOf(b.Date)) {
		return false
	}
	return a.Start < b.End && b.Start < a.End
}

// Contains reports whether instant t falls inside the closed interval
// [Start, End] on the interval's date, with the date and times read in t's
// location. The bounds are exact instants: 09:00:01 is past an 09:00 end.
func (a Interval) Contains(t time.Time) bool {
	y, m, d := a.Date.Date()
	at := func(tod TimeOfDay) time.Time {
		return time.Date(y, m, d, tod.Hour(), tod.Minute(), 0, 0, t.Location())
	}
	return !t.Before(at(a.Start)) && !t.After(at(a.End))
}

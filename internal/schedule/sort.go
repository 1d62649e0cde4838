package schedule

import (
	"slices"

	"github.com/travilink/trip-scheduler/internal/domain"
)

// SortByDateTime returns a copy of trips ordered by date, then start time.
// Ties keep their input order.
func SortByDateTime(trips []domain.Trip, desc bool) []domain.Trip {
	out := slices.Clone(trips)
	slices.SortStableFunc(out, func(a, b domain.Trip) int {
		c := a.Date.Compare(b.Date)
		if c == 0 {
			c = int(a.StartTime) - int(b.StartTime)
		}
		if desc {
			return -c
		}
		return c
	})
	return out
}

// Paginate slices one page out of trips. A page past the end is empty, not
// an error.
func Paginate(trips []domain.Trip, p domain.PaginationParams) domain.TripPage {
	page := domain.TripPage{Page: p.Page, Limit: p.Limit, Total: len(trips), Trips: []domain.Trip{}}
	start := p.Offset()
	if start >= len(trips) || start < 0 {
		return page
	}
	end := min(start+p.Limit, len(trips))
	page.Trips = trips[start:end]
	return page
}

package schedule

import (
	"strings"

	"github.com/travilink/trip-scheduler/internal/domain"
)

// Filter returns the trips matching every active predicate of f, in input
// order. Search is a case-insensitive substring match over the trip id,
// title, origin, destination and the driver's roster name; drivers is used
// only to resolve those names and may be nil.
func Filter(trips []domain.Trip, f domain.TripFilter, drivers []domain.Driver) []domain.Trip {
	q := strings.ToLower(strings.TrimSpace(f.Search))

	var names map[string]string
	if q != "" {
		names = make(map[string]string, len(drivers))
		for _, d := range drivers {
			names[d.ID] = strings.ToLower(d.Name)
		}
	}

	out := make([]domain.Trip, 0, len(trips))
	for _, t := range trips {
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.DriverID != "" && t.DriverID != f.DriverID {
			continue
		}
		if f.VehicleID != "" && t.VehicleID != f.VehicleID {
			continue
		}
		if f.From != nil && t.Date.Before(domain.DateOf(*f.From)) {
			continue
		}
		if f.To != nil && t.Date.After(domain.DateOf(*f.To)) {
			continue
		}
		if q != "" && !matches(q, t, names[t.DriverID]) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matches(q string, t domain.Trip, driverName string) bool {
	for _, s := range []string{t.TripID, t.Title, t.Origin, t.Destination} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return driverName != "" && strings.Contains(driverName, q)
}

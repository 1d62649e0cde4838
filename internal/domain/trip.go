// Package domain contains the core data types for the trip scheduler.
// Apart from google/uuid this package has no external dependencies and is
// imported by every other internal package (repo, schedule, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a single scheduled driver + vehicle assignment over a bounded
// time interval on one calendar date.
type Trip struct {
	ID          uuid.UUID  `json:"id"`
	TripID      string     `json:"trip_id"` // immutable once allocated
	RequestID   *string    `json:"request_id,omitempty"`
	Title       string     `json:"title"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	Date        time.Time  `json:"date"` // UTC midnight, see DateOf
	StartTime   TimeOfDay  `json:"start_time"`
	EndTime     TimeOfDay  `json:"end_time"`
	DriverID    string     `json:"driver_id"`
	VehicleID   string     `json:"vehicle_id"`
	Status      TripStatus `json:"status"`
	Notes       string     `json:"notes,omitempty"`

	OriginPlace      *Place `json:"origin_place,omitempty"`
	DestinationPlace *Place `json:"destination_place,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Interval returns the date-bounded time slot the trip occupies.
func (t Trip) Interval() Interval {
	return Interval{Date: t.Date, Start: t.StartTime, End: t.EndTime}
}

// Place is a geocoded address picked on the map. It is stored as-is and never
// interpreted by the scheduler.
type Place struct {
	Address string  `json:"address"`
	PlaceID *string `json:"place_id,omitempty"`
	Coords  *LatLng `json:"coords,omitempty"`
}

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TripInput carries every field a caller may supply when creating a trip.
// ID, TripID, CreatedAt and UpdatedAt are assigned by the service.
// A zero Status means PLANNED.
type TripInput struct {
	RequestID        *string
	Title            string
	Origin           string
	Destination      string
	Date             time.Time
	StartTime        TimeOfDay
	EndTime          TimeOfDay
	DriverID         string
	VehicleID        string
	Status           TripStatus
	Notes            string
	OriginPlace      *Place
	DestinationPlace *Place
}

// TripPatch is a partial update. A nil field leaves the stored value
// unchanged; a non-nil pointer to the zero value sets the field to empty.
//
// There is no TripID or Status field: the trip identifier is
// immutable and status changes go through ScheduleService.SetStatus.
type TripPatch struct {
	RequestID      *string
	ClearRequestID bool
	Title          *string
	Origin         *string
	Destination    *string
	Date           *time.Time
	StartTime      *TimeOfDay
	EndTime        *TimeOfDay
	DriverID       *string
	VehicleID      *string
	Notes          *string

	OriginPlace      *Place
	DestinationPlace *Place
}

// Apply returns a copy of t with every present patch field merged in.
func (p TripPatch) Apply(t Trip) Trip {
	if p.ClearRequestID {
		t.RequestID = nil
	} else if p.RequestID != nil {
		id := *p.RequestID
		t.RequestID = &id
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Origin != nil {
		t.Origin = *p.Origin
	}
	if p.Destination != nil {
		t.Destination = *p.Destination
	}
	if p.Date != nil {
		t.Date = DateOf(*p.Date)
	}
	if p.StartTime != nil {
		t.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		t.EndTime = *p.EndTime
	}
	if p.DriverID != nil {
		t.DriverID = *p.DriverID
	}
	if p.VehicleID != nil {
		t.VehicleID = *p.VehicleID
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.OriginPlace != nil {
		t.OriginPlace = p.OriginPlace
	}
	if p.DestinationPlace != nil {
		t.DestinationPlace = p.DestinationPlace
	}
	return t
}

// ChangesAssignment reports whether applying p to prev moves the trip to a
// different slot, driver or vehicle. Only such patches need conflict checks.
func (p TripPatch) ChangesAssignment(prev Trip) bool {
	switch {
	case p.Date != nil && !DateOf(*p.Date).Equal(prev.Date):
		return true
	case p.StartTime != nil && *p.StartTime != prev.StartTime:
		return true
	case p.EndTime != nil && *p.EndTime != prev.EndTime:
		return true
	case p.DriverID != nil && *p.DriverID != prev.DriverID:
		return true
	case p.VehicleID != nil && *p.VehicleID != prev.VehicleID:
		return true
	}
	return false
}

// DateLayout is the wire and storage format of a calendar date.
const DateLayout = "2006-01-02"

// DateOf strips the clock from t, keeping t's calendar date in its own
// location, and returns it as UTC midnight so dates compare with Equal.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a "2006-01-02" string into a UTC-midnight date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

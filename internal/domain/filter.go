package domain

import "time"

// TripFilter is the state of the schedule filter bar. Zero values mean
// "no constraint": nil Status is "all statuses", empty DriverID is "all
// drivers", and so on. From and To are inclusive calendar dates.
type TripFilter struct {
	Status    *TripStatus
	DriverID  string
	VehicleID string
	From      *time.Time
	To        *time.Time
	Search    string
}

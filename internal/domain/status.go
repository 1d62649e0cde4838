package domain

import "fmt"

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	StatusPlanned   TripStatus = "PLANNED"
	StatusOngoing   TripStatus = "ONGOING"
	StatusCompleted TripStatus = "COMPLETED"
	StatusCancelled TripStatus = "CANCELLED"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []TripStatus{StatusPlanned, StatusOngoing, StatusCompleted, StatusCancelled}

// ParseTripStatus converts s into a TripStatus.
// Returns ErrValidation for anything outside the closed set.
func ParseTripStatus(s string) (TripStatus, error) {
	st := TripStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
	}
	return st, nil
}

// Valid reports whether s is one of the four lifecycle states.
func (s TripStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether a trip in this state occupies its driver and vehicle.
// Only cancelled trips free their slot.
func (s TripStatus) Active() bool {
	return s != StatusCancelled
}

// CanStart reports whether a trip may move to ONGOING.
func (s TripStatus) CanStart() bool { return s == StatusPlanned }

// CanComplete reports whether a trip may move to COMPLETED.
func (s TripStatus) CanComplete() bool { return s == StatusOngoing }

// CanCancel reports whether a trip may move to CANCELLED.
func (s TripStatus) CanCancel() bool {
	switch s {
	case StatusPlanned, StatusOngoing:
		return true
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// CanReopen reports whether a finished trip may go back to PLANNED.
func (s TripStatus) CanReopen() bool {
	switch s {
	case StatusCompleted, StatusCancelled:
		return true
	case StatusPlanned, StatusOngoing:
		return false
	}
	return false
}

// CanTransitionTo reports whether moving from s to target is permitted.
//
//	PLANNED -> ONGOING -> COMPLETED
//	PLANNED | ONGOING -> CANCELLED
//	COMPLETED | CANCELLED -> PLANNED
func (s TripStatus) CanTransitionTo(target TripStatus) bool {
	switch target {
	case StatusOngoing:
		return s.CanStart()
	case StatusCompleted:
		return s.CanComplete()
	case StatusCancelled:
		return s.CanCancel()
	case StatusPlanned:
		return s.CanReopen()
	}
	return false
}

func (s TripStatus) String() string {
	return string(s)
}

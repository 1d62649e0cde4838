package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing driver, end time not after start time).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would double-book a driver or vehicle.
// Services return it as a *ConflictError carrying the colliding trips; repos
// return the bare sentinel when the database rejects the write.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("schedule conflict")

// ErrInvalidTransition is returned by SetStatus when the lifecycle does not
// allow moving from the current status to the requested one.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrStale is returned by TripRepo.Update when the stored trip was written
// after the caller read it. Services re-read and retry; it never reaches
// handlers.
var ErrStale = errors.New("trip modified concurrently")

// ConflictError lists the existing trips that collide with a candidate,
// split by which resource is double-booked.
type ConflictError struct {
	Driver  []Trip
	Vehicle []Trip
}

// Error renders e.g.
// "Driver busy with Faculty Meeting (2025-01-01 08:00-09:00) • Vehicle busy with ...".
func (e *ConflictError) Error() string {
	var parts []string
	if len(e.Driver) > 0 {
		parts = append(parts, "Driver busy with "+describeTrip(e.Driver[0]))
	}
	if len(e.Vehicle) > 0 {
		parts = append(parts, "Vehicle busy with "+describeTrip(e.Vehicle[0]))
	}
	if len(parts) == 0 {
		return ErrConflict.Error()
	}
	return strings.Join(parts, " • ")
}

// Is makes errors.Is(err, ErrConflict) true for every *ConflictError.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func describeTrip(t Trip) string {
	title := t.Title
	if title == "" {
		title = "another schedule"
	}
	return fmt.Sprintf("%s (%s %s-%s)", title, t.Date.Format(DateLayout), t.StartTime, t.EndTime)
}

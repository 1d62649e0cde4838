// Package schedule holds the pure scheduling algorithms: conflict detection,
// filtering, ordering and KPI aggregation over an in-memory trip collection.
// Nothing here performs I/O or reads the clock.
package schedule

import (
	"github.com/google/uuid"

	"github.com/travilink/trip-scheduler/internal/domain"
)

// Conflicts groups the trips colliding with a candidate by resource.
type Conflicts struct {
	Driver  []domain.Trip
	Vehicle []domain.Trip
}

// Empty reports whether neither resource is double-booked.
func (c Conflicts) Empty() bool {
	return len(c.Driver) == 0 && len(c.Vehicle) == 0
}

// Err returns a *domain.ConflictError, or nil when there is no conflict.
func (c Conflicts) Err() error {
	if c.Empty() {
		return nil
	}
	return &domain.ConflictError{Driver: c.Driver, Vehicle: c.Vehicle}
}

// ConflictsForDriver returns every active trip assigned to driverID whose
// slot overlaps the candidate's. excludeID (uuid.Nil for none) skips the
// candidate itself when it is already stored.
func ConflictsForDriver(trips []domain.Trip, driverID string, candidate domain.Interval, excludeID uuid.UUID) []domain.Trip {
	return collide(trips, candidate, excludeID, func(t domain.Trip) bool {
		return t.DriverID == driverID
	})
}

// ConflictsForVehicle is ConflictsForDriver scoped by vehicle.
func ConflictsForVehicle(trips []domain.Trip, vehicleID string, candidate domain.Interval, excludeID uuid.UUID) []domain.Trip {
	return collide(trips, candidate, excludeID, func(t domain.Trip) bool {
		return t.VehicleID == vehicleID
	})
}

// IsDriverAvailable reports whether driverID is free for the candidate slot.
func IsDriverAvailable(trips []domain.Trip, driverID string, candidate domain.Interval, excludeID uuid.UUID) bool {
	return len(ConflictsForDriver(trips, driverID, candidate, excludeID)) == 0
}

// IsVehicleAvailable reports whether vehicleID is free for the candidate slot.
func IsVehicleAvailable(trips []domain.Trip, vehicleID string, candidate domain.Interval, excludeID uuid.UUID) bool {
	return len(ConflictsForVehicle(trips, vehicleID, candidate, excludeID)) == 0
}

// FindConflicts checks the candidate trip's driver and vehicle at once.
// The candidate's own ID is excluded, so it is safe to pass a stored trip
// that is being edited.
func FindConflicts(trips []domain.Trip, candidate domain.Trip) Conflicts {
	slot := candidate.Interval()
	return Conflicts{
		Driver:  ConflictsForDriver(trips, candidate.DriverID, slot, candidate.ID),
		Vehicle: ConflictsForVehicle(trips, candidate.VehicleID, slot, candidate.ID),
	}
}

func collide(trips []domain.Trip, candidate domain.Interval, excludeID uuid.UUID, sameResource func(domain.Trip) bool) []domain.Trip {
	var out []domain.Trip
	for _, t := range trips {
		if excludeID != uuid.Nil && t.ID == excludeID {
			continue
		}
		if !t.Status.Active() || !sameResource(t) {
			continue
		}
		if t.Interval().Overlaps(candidate) {
			out = append(out, t)
		}
	}
	return out
}

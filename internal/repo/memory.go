package repo

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/travilink/trip-scheduler/internal/domain"
	"github.com/travilink/trip-scheduler/internal/schedule"
)

// MemoryTripRepo is an in-process TripRepo. It enforces the same no-overlap
// rule as the Postgres exclusion constraints so both stores reject a double
// booking the same way. Data is lost on restart.
type MemoryTripRepo struct {
	mu    sync.RWMutex
	trips map[uuid.UUID]domain.Trip
}

// NewMemoryTripRepo returns an empty in-memory trip store.
func NewMemoryTripRepo() *MemoryTripRepo {
	return &MemoryTripRepo{trips: make(map[uuid.UUID]domain.Trip)}
}

var _ TripRepo = (*MemoryTripRepo)(nil)

func (r *MemoryTripRepo) Create(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[trip.ID]; ok {
		return domain.Trip{}, fmt.Errorf("repo.MemoryTripRepo.Create: %w: duplicate id %s", domain.ErrValidation, trip.ID)
	}
	if err := r.checkOverlap(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.MemoryTripRepo.Create: %w", err)
	}
	trip.Date = domain.DateOf(trip.Date)
	r.trips[trip.ID] = trip
	return trip, nil
}

func (r *MemoryTripRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.MemoryTripRepo.GetByID: %w", domain.ErrNotFound)
	}
	return t, nil
}

func (r *MemoryTripRepo) List(_ context.Context) ([]domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trips := make([]domain.Trip, 0, len(r.trips))
	for _, t := range r.trips {
		trips = append(trips, t)
	}
	return schedule.SortByDateTime(trips, true), nil
}

func (r *MemoryTripRepo) ListByDate(_ context.Context, date time.Time) ([]domain.Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := domain.DateOf(date)
	trips := []domain.Trip{}
	for _, t := range r.trips {
		if t.Date.Equal(day) {
			trips = append(trips, t)
		}
	}
	return schedule.SortByDateTime(trips, false), nil
}

func (r *MemoryTripRepo) Update(_ context.Context, trip domain.Trip, seen time.Time) (domain.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.trips[trip.ID]
	if !ok {
		return domain.Trip{}, fmt.Errorf("repo.MemoryTripRepo.Update: %w", domain.ErrNotFound)
	}
	if !prev.UpdatedAt.Equal(seen) {
		return domain.Trip{}, fmt.Errorf("repo.MemoryTripRepo.Update: %w", domain.ErrStale)
	}
	if err := r.checkOverlap(trip); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.MemoryTripRepo.Update: %w", err)
	}
	trip.TripID = prev.TripID
	trip.CreatedAt = prev.CreatedAt
	trip.Date = domain.DateOf(trip.Date)
	r.trips[trip.ID] = trip
	return trip, nil
}

func (r *MemoryTripRepo) DeleteMany(_ context.Context, ids []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, ok := r.trips[id]; ok {
			delete(r.trips, id)
			n++
		}
	}
	return n, nil
}

// checkOverlap mirrors trips_driver_no_overlap and trips_vehicle_no_overlap.
// Callers must hold r.mu.
func (r *MemoryTripRepo) checkOverlap(trip domain.Trip) error {
	if !trip.Status.Active() {
		return nil
	}
	day := domain.DateOf(trip.Date)
	sameDay := make([]domain.Trip, 0)
	for _, t := range r.trips {
		if t.Date.Equal(day) {
			sameDay = append(sameDay, t)
		}
	}
	if schedule.FindConflicts(sameDay, trip).Empty() {
		return nil
	}
	return domain.ErrConflict
}

// MemorySequenceRepo is an in-process SequenceRepo keyed by calendar date.
type MemorySequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewMemorySequenceRepo returns a SequenceRepo with every counter at zero.
func NewMemorySequenceRepo() *MemorySequenceRepo {
	return &MemorySequenceRepo{counters: make(map[string]int)}
}

var _ SequenceRepo = (*MemorySequenceRepo)(nil)

func (r *MemorySequenceRepo) Current(_ context.Context, date time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[sequenceKey(date)], nil
}

func (r *MemorySequenceRepo) Increment(_ context.Context, date time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := sequenceKey(date)
	r.counters[k]++
	return r.counters[k], nil
}

// MemoryRosterRepo serves a fixed roster.
type MemoryRosterRepo struct {
	drivers  []domain.Driver
	vehicles []domain.Vehicle
}

// NewMemoryRosterRepo returns a roster holding the given entries, sorted by ID.
// Nil slices fall back to domain.DefaultDrivers and domain.DefaultVehicles.
func NewMemoryRosterRepo(drivers []domain.Driver, vehicles []domain.Vehicle) *MemoryRosterRepo {
	if drivers == nil {
		drivers = domain.DefaultDrivers
	}
	if vehicles == nil {
		vehicles = domain.DefaultVehicles
	}
	drivers = slices.Clone(drivers)
	vehicles = slices.Clone(vehicles)
	slices.SortFunc(drivers, func(a, b domain.Driver) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(vehicles, func(a, b domain.Vehicle) int { return cmp.Compare(a.ID, b.ID) })
	return &MemoryRosterRepo{drivers: drivers, vehicles: vehicles}
}

var _ RosterRepo = (*MemoryRosterRepo)(nil)

func (r *MemoryRosterRepo) ListDrivers(_ context.Context) ([]domain.Driver, error) {
	return slices.Clone(r.drivers), nil
}

func (r *MemoryRosterRepo) ListVehicles(_ context.Context) ([]domain.Vehicle, error) {
	return slices.Clone(r.vehicles), nil
}

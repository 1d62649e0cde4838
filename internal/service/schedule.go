// Package service contains the business logic of the trip scheduler.
// Services validate inputs, enforce scheduling rules, and orchestrate repo
// calls. No SQL lives here; services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/travilink/trip-scheduler/internal/domain"
	"github.com/travilink/trip-scheduler/internal/repo"
	"github.com/travilink/trip-scheduler/internal/schedule"
)

// maxUpdateAttempts bounds how often Update re-reads a trip whose slot moved
// underneath it while it was waiting for the lock.
const maxUpdateAttempts = 3

// ScheduleService is the write side of the scheduler: every create, update,
// status change and delete goes through it, so the no-double-booking rule
// holds for anything stored.
type ScheduleService struct {
	trips  repo.TripRepo
	roster repo.RosterRepo
	ids    *TripIDAllocator
	locks  *keyedLocker
	now    func() time.Time
	log    *slog.Logger
}

// ScheduleOption customises a ScheduleService.
type ScheduleOption func(*ScheduleService)

// WithClock replaces time.Now for CreatedAt/UpdatedAt stamps.
func WithClock(now func() time.Time) ScheduleOption {
	return func(s *ScheduleService) { s.now = now }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) ScheduleOption {
	return func(s *ScheduleService) { s.log = l }
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(trips repo.TripRepo, roster repo.RosterRepo, ids *TripIDAllocator, opts ...ScheduleOption) *ScheduleService {
	s := &ScheduleService{
		trips:  trips,
		roster: roster,
		ids:    ids,
		locks:  newKeyedLocker(),
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TripQuery is a filtered, sorted, paginated list request.
type TripQuery struct {
	Filter     domain.TripFilter
	Descending bool
	Page       domain.PaginationParams
}

// AvailabilityQuery asks who is free for a slot. ExcludeID skips the trip
// being edited, or is uuid.Nil.
type AvailabilityQuery struct {
	Date      time.Time
	Start     domain.TimeOfDay
	End       domain.TimeOfDay
	ExcludeID uuid.UUID
}

// DriverAvailability is one roster driver and what, if anything, keeps them busy.
type DriverAvailability struct {
	Driver    domain.Driver
	Conflicts []domain.Trip
}

// Busy reports whether the driver has a colliding trip.
func (a DriverAvailability) Busy() bool { return len(a.Conflicts) > 0 }

// VehicleAvailability is DriverAvailability for vehicles.
type VehicleAvailability struct {
	Vehicle   domain.Vehicle
	Conflicts []domain.Trip
}

// Busy reports whether the vehicle has a colliding trip.
func (a VehicleAvailability) Busy() bool { return len(a.Conflicts) > 0 }

// Availability is the advisory roster view for one slot.
type Availability struct {
	Drivers  []DriverAvailability
	Vehicles []VehicleAvailability
}

// Create validates in, checks the slot for conflicts, allocates a trip id and
// persists the trip.
// Returns domain.ErrValidation for bad input and a *domain.ConflictError when
// the driver or vehicle is already booked.
func (s *ScheduleService) Create(ctx context.Context, in domain.TripInput) (domain.Trip, error) {
	trip := domain.Trip{
		RequestID:        trimmedPtr(in.RequestID),
		Title:            strings.TrimSpace(in.Title),
		Origin:           strings.TrimSpace(in.Origin),
		Destination:      strings.TrimSpace(in.Destination),
		Date:             domain.DateOf(in.Date),
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		DriverID:         strings.TrimSpace(in.DriverID),
		VehicleID:        strings.TrimSpace(in.VehicleID),
		Status:           in.Status,
		Notes:            strings.TrimSpace(in.Notes),
		OriginPlace:      in.OriginPlace,
		DestinationPlace: in.DestinationPlace,
	}
	if trip.Status == "" {
		trip.Status = domain.StatusPlanned
	}
	if in.Date.IsZero() {
		return domain.Trip{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if err := s.validateTrip(ctx, trip); err != nil {
		return domain.Trip{}, err
	}

	unlock := s.locks.Lock(slotKeys(trip.Date, trip.DriverID, trip.VehicleID)...)
	defer unlock()

	if err := s.checkConflicts(ctx, trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.ScheduleService.Create: %w", err)
	}

	tripID, err := s.ids.Allocate(ctx, trip.Date)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ScheduleService.Create: %w", err)
	}
	now := s.now().UTC().Truncate(time.Microsecond)
	trip.ID = uuid.New()
	trip.TripID = tripID
	trip.CreatedAt = now
	trip.UpdatedAt = now

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ScheduleService.Create: %w", s.explainConflict(ctx, trip, err))
	}

	s.log.InfoContext(ctx, "trip created",
		slog.String("trip_id", created.TripID),
		slog.String("id", created.ID.String()),
		slog.String("driver_id", created.DriverID),
		slog.String("vehicle_id", created.VehicleID),
		slog.String("date", created.Date.Format(domain.DateLayout)),
	)
	return created, nil
}

// GetByID returns a single trip.
// Returns domain.ErrNotFound if it does not exist.
func (s *ScheduleService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ScheduleService.GetByID: %w", err)
	}
	return t, nil
}

// List returns every stored trip, newest slot first.
func (s *ScheduleService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.List: %w", err)
	}
	return trips, nil
}

// Query filters, sorts and paginates the trip list.
func (s *ScheduleService) Query(ctx context.Context, q TripQuery) (domain.TripPage, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return domain.TripPage{}, fmt.Errorf("service.ScheduleService.Query: %w", err)
	}
	var drivers []domain.Driver
	if strings.TrimSpace(q.Filter.Search) != "" {
		if drivers, err = s.roster.ListDrivers(ctx); err != nil {
			return domain.TripPage{}, fmt.Errorf("service.ScheduleService.Query: %w", err)
		}
	}

	matched := schedule.Filter(trips, q.Filter, drivers)
	sorted := schedule.SortByDateTime(matched, q.Descending)
	return schedule.Paginate(sorted, q.Page), nil
}

// Update merges patch into the stored trip. Conflicts are re-checked only
// when the patch moves the trip to another date, time, driver or vehicle.
// The trip id is never changed. Every write is conditional on the trip not
// having changed since it was read; a concurrent writer causes a re-read.
func (s *ScheduleService) Update(ctx context.Context, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error) {
	if patch.Date != nil && patch.Date.IsZero() {
		return domain.Trip{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	for range maxUpdateAttempts {
		prev, err := s.trips.GetByID(ctx, id)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.ScheduleService.Update: %w", err)
		}

		var updated domain.Trip
		if patch.ChangesAssignment(prev) {
			if err := s.validateTrip(ctx, patch.Apply(prev)); err != nil {
				return domain.Trip{}, err
			}
			updated, err = s.moveLocked(ctx, prev, patch)
		} else {
			updated, err = s.save(ctx, prev, patch)
		}
		if errors.Is(err, domain.ErrStale) {
			continue
		}
		return updated, err
	}
	return domain.Trip{}, fmt.Errorf("service.ScheduleService.Update: %w: trip %s keeps changing, try again", domain.ErrConflict, id)
}

// moveLocked applies an assignment-changing patch under the lock of the
// slot it moves into. It returns domain.ErrStale if prev is no longer current.
func (s *ScheduleService) moveLocked(ctx context.Context, prev domain.Trip, patch domain.TripPatch) (domain.Trip, error) {
	next := patch.Apply(prev)
	unlock := s.locks.Lock(slotKeys(next.Date, next.DriverID, next.VehicleID)...)
	defer unlock()

	if err := s.checkConflicts(ctx, next); err != nil {
		return domain.Trip{}, fmt.Errorf("service.ScheduleService.Update: %w", err)
	}
	return s.save(ctx, prev, patch)
}

// save persists patch applied to prev without any conflict check. The write
// only lands if the stored trip is still prev.
func (s *ScheduleService) save(ctx context.Context, prev domain.Trip, patch domain.TripPatch) (domain.Trip, error) {
	next := patch.Apply(prev)
	next.TripID = prev.TripID
	next.CreatedAt = prev.CreatedAt
	next.UpdatedAt = s.stamp(prev.UpdatedAt)

	updated, err := s.trips.Update(ctx, next, prev.UpdatedAt)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.ScheduleService.Update: %w", s.explainConflict(ctx, next, err))
	}
	s.log.InfoContext(ctx, "trip updated", slog.String("trip_id", updated.TripID))
	return updated, nil
}

// SetStatus moves a trip along its lifecycle.
// Returns domain.ErrInvalidTransition when the lifecycle forbids the move.
// Reopening a cancelled trip puts it back into conflict consideration, so
// that one transition is checked against the current schedule.
func (s *ScheduleService) SetStatus(ctx context.Context, id uuid.UUID, status domain.TripStatus) (domain.Trip, error) {
	if !status.Valid() {
		return domain.Trip{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	for range maxUpdateAttempts {
		prev, err := s.trips.GetByID(ctx, id)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.ScheduleService.SetStatus: %w", err)
		}
		if !prev.Status.CanTransitionTo(status) {
			return domain.Trip{}, fmt.Errorf("service.ScheduleService.SetStatus: %w: %s to %s",
				domain.ErrInvalidTransition, prev.Status, status)
		}

		updated, err := s.transition(ctx, prev, status)
		if errors.Is(err, domain.ErrStale) {
			continue
		}
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.ScheduleService.SetStatus: %w", err)
		}
		s.log.InfoContext(ctx, "trip status changed",
			slog.String("trip_id", updated.TripID),
			slog.String("from", string(prev.Status)),
			slog.String("to", string(updated.Status)),
		)
		return updated, nil
	}
	return domain.Trip{}, fmt.Errorf("service.ScheduleService.SetStatus: %w: trip %s keeps changing, try again", domain.ErrConflict, id)
}

// transition writes prev with its status replaced, conditional on prev
// still being the stored trip.
func (s *ScheduleService) transition(ctx context.Context, prev domain.Trip, status domain.TripStatus) (domain.Trip, error) {
	next := prev
	next.Status = status
	next.UpdatedAt = s.stamp(prev.UpdatedAt)

	if !prev.Status.Active() && status.Active() {
		unlock := s.locks.Lock(slotKeys(next.Date, next.DriverID, next.VehicleID)...)
		defer unlock()
		if err := s.checkConflicts(ctx, next); err != nil {
			return domain.Trip{}, err
		}
	}

	updated, err := s.trips.Update(ctx, next, prev.UpdatedAt)
	if err != nil {
		return domain.Trip{}, s.explainConflict(ctx, next, err)
	}
	return updated, nil
}

// DeleteMany removes the given trips and returns how many existed. Deleted
// trip ids are never handed out again.
func (s *ScheduleService) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.trips.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("service.ScheduleService.DeleteMany: %w", err)
	}
	s.log.InfoContext(ctx, "trips deleted", slog.Int("requested", len(ids)), slog.Int64("deleted", n))
	return n, nil
}

// PeekTripID previews the next trip id for date without reserving it.
func (s *ScheduleService) PeekTripID(ctx context.Context, date time.Time) (string, error) {
	if date.IsZero() {
		return "", fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	id, err := s.ids.Peek(ctx, domain.DateOf(date))
	if err != nil {
		return "", fmt.Errorf("service.ScheduleService.PeekTripID: %w", err)
	}
	return id, nil
}

// Availability reports, for every roster driver and vehicle, the trips that
// would collide with the slot. It never blocks or reserves anything.
func (s *ScheduleService) Availability(ctx context.Context, q AvailabilityQuery) (Availability, error) {
	if q.Date.IsZero() {
		return Availability{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	if err := validateSlot(q.Start, q.End); err != nil {
		return Availability{}, err
	}

	trips, err := s.trips.ListByDate(ctx, q.Date)
	if err != nil {
		return Availability{}, fmt.Errorf("service.ScheduleService.Availability: %w", err)
	}
	drivers, err := s.roster.ListDrivers(ctx)
	if err != nil {
		return Availability{}, fmt.Errorf("service.ScheduleService.Availability: %w", err)
	}
	vehicles, err := s.roster.ListVehicles(ctx)
	if err != nil {
		return Availability{}, fmt.Errorf("service.ScheduleService.Availability: %w", err)
	}

	slot := domain.Interval{Date: domain.DateOf(q.Date), Start: q.Start, End: q.End}
	out := Availability{
		Drivers:  make([]DriverAvailability, 0, len(drivers)),
		Vehicles: make([]VehicleAvailability, 0, len(vehicles)),
	}
	for _, d := range drivers {
		out.Drivers = append(out.Drivers, DriverAvailability{
			Driver:    d,
			Conflicts: schedule.ConflictsForDriver(trips, d.ID, slot, q.ExcludeID),
		})
	}
	for _, v := range vehicles {
		out.Vehicles = append(out.Vehicles, VehicleAvailability{
			Vehicle:   v,
			Conflicts: schedule.ConflictsForVehicle(trips, v.ID, slot, q.ExcludeID),
		})
	}
	return out, nil
}

// stamp returns the UpdatedAt for a write over a trip last written at prev.
// It has the store's microsecond precision and always moves forward, so the
// conditional write in TripRepo.Update tells every version apart.
func (s *ScheduleService) stamp(prev time.Time) time.Time {
	now := s.now().UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

// checkConflicts loads the candidate's date and returns a *domain.ConflictError
// if an active trip already holds its driver or vehicle.
func (s *ScheduleService) checkConflicts(ctx context.Context, candidate domain.Trip) error {
	if !candidate.Status.Active() {
		return nil
	}
	sameDay, err := s.trips.ListByDate(ctx, candidate.Date)
	if err != nil {
		return err
	}
	return schedule.FindConflicts(sameDay, candidate).Err()
}

// explainConflict turns a bare domain.ErrConflict from the store, raised when
// another process won the race, into a *domain.ConflictError listing the
// trips that now hold the slot. Other errors pass through unchanged.
func (s *ScheduleService) explainConflict(ctx context.Context, candidate domain.Trip, err error) error {
	var ce *domain.ConflictError
	if !errors.Is(err, domain.ErrConflict) || errors.As(err, &ce) {
		return err
	}
	if detailed := s.checkConflicts(ctx, candidate); detailed != nil && errors.As(detailed, &ce) {
		return ce
	}
	return err
}

// validateTrip checks the fields every stored trip must satisfy.
func (s *ScheduleService) validateTrip(ctx context.Context, t domain.Trip) error {
	if t.DriverID == "" {
		return fmt.Errorf("%w: driver is required", domain.ErrValidation)
	}
	if t.VehicleID == "" {
		return fmt.Errorf("%w: vehicle is required", domain.ErrValidation)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, t.Status)
	}
	if err := validateSlot(t.StartTime, t.EndTime); err != nil {
		return err
	}
	return s.validateRoster(ctx, t.DriverID, t.VehicleID)
}

// validateRoster returns domain.ErrValidation for ids the roster does not know.
func (s *ScheduleService) validateRoster(ctx context.Context, driverID, vehicleID string) error {
	drivers, err := s.roster.ListDrivers(ctx)
	if err != nil {
		return fmt.Errorf("service.ScheduleService: roster: %w", err)
	}
	if !slices.ContainsFunc(drivers, func(d domain.Driver) bool { return d.ID == driverID }) {
		return fmt.Errorf("%w: unknown driver %q", domain.ErrValidation, driverID)
	}
	vehicles, err := s.roster.ListVehicles(ctx)
	if err != nil {
		return fmt.Errorf("service.ScheduleService: roster: %w", err)
	}
	if !slices.ContainsFunc(vehicles, func(v domain.Vehicle) bool { return v.ID == vehicleID }) {
		return fmt.Errorf("%w: unknown vehicle %q", domain.ErrValidation, vehicleID)
	}
	return nil
}

func validateSlot(start, end domain.TimeOfDay) error {
	if !start.Valid() || !end.Valid() {
		return fmt.Errorf("%w: times must be between 00:00 and 23:59", domain.ErrValidation)
	}
	if start >= end {
		return fmt.Errorf("%w: end time %s must be after start time %s", domain.ErrValidation, end, start)
	}
	return nil
}

// trimmedPtr trims *p and maps blank to nil.
func trimmedPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

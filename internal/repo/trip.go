package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/travilink/trip-scheduler/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not on a concrete store, so
// the scheduler can run on Postgres in production and on memory in tests.
type TripRepo interface {
	// Create inserts a trip whose ID, TripID and timestamps are already set.
	// Returns domain.ErrConflict if the store itself detects a double booking.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its internal ID.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns every trip ordered by date and start time, newest first.
	List(ctx context.Context) ([]domain.Trip, error)

	// ListByDate returns every trip on the given calendar date, cancelled
	// ones included. Conflict checks only ever need one day.
	ListByDate(ctx context.Context, date time.Time) ([]domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip, but only while
	// its stored UpdatedAt still equals seen, the value the caller read.
	// TripID and CreatedAt are never written. Returns domain.ErrNotFound if
	// the trip does not exist, domain.ErrStale if it changed since seen and
	// domain.ErrConflict on a store-detected double booking.
	Update(ctx context.Context, trip domain.Trip, seen time.Time) (domain.Trip, error)

	// DeleteMany removes the given trips and reports how many existed.
	// Unknown IDs are ignored.
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, trip_id, request_id, title, origin, destination, trip_date,
		start_time, end_time, driver_id, vehicle_id, status, notes,
		origin_place, destination_place, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (id, trip_id, request_id, title, origin, destination, trip_date,
			start_time, end_time, driver_id, vehicle_id, status, notes,
			origin_place, destination_place, created_at, updated_at)
		VALUES (@id, @trip_id, @request_id, @title, @origin, @destination, @trip_date,
			@start_time, @end_time, @driver_id, @vehicle_id, @status, @notes,
			@origin_place, @destination_place, @created_at, @updated_at)
		RETURNING ` + tripColumns

	args := tripArgs(trip)
	args["trip_id"] = trip.TripID
	args["created_at"] = trip.CreatedAt

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all trips, most recent slot first.
func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips ORDER BY trip_date DESC, start_time DESC`

	trips, err := r.query(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	return trips, nil
}

// ListByDate returns all trips on date ordered by start time.
func (r *pgTripRepo) ListByDate(ctx context.Context, date time.Time) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE trip_date = @trip_date ORDER BY start_time`

	trips, err := r.query(ctx, q, pgx.NamedArgs{"trip_date": pgDate(date)})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByDate: %w", err)
	}
	return trips, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip, seen time.Time) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET request_id        = @request_id,
		    title             = @title,
		    origin            = @origin,
		    destination       = @destination,
		    trip_date         = @trip_date,
		    start_time        = @start_time,
		    end_time          = @end_time,
		    driver_id         = @driver_id,
		    vehicle_id        = @vehicle_id,
		    status            = @status,
		    notes             = @notes,
		    origin_place      = @origin_place,
		    destination_place = @destination_place,
		    updated_at        = @updated_at
		WHERE id = @id AND updated_at = @seen
		RETURNING ` + tripColumns

	args := tripArgs(trip)
	args["seen"] = seen
	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if errors.Is(err, domain.ErrNotFound) {
		err = r.missOrStale(ctx, trip.ID)
	}
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", mapPgError(err))
	}
	return result, nil
}

// missOrStale explains an UPDATE that matched no row.
func (r *pgTripRepo) missOrStale(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM trips WHERE id = @id)`,
		pgx.NamedArgs{"id": id}).Scan(&exists)
	switch {
	case err != nil:
		return err
	case exists:
		return domain.ErrStale
	default:
		return domain.ErrNotFound
	}
}

// DeleteMany removes every trip whose id is in ids.
func (r *pgTripRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const q = `DELETE FROM trips WHERE id = ANY(@ids::uuid[])`

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"ids": raw})
	if err != nil {
		return 0, fmt.Errorf("repo.TripRepo.DeleteMany: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *pgTripRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Trip, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if args == nil {
		rows, err = r.db.Query(ctx, q)
	} else {
		rows, err = r.db.Query(ctx, q, args)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return trips, nil
}

// tripArgs builds the named arguments shared by insert and update.
func tripArgs(t domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":                t.ID,
		"request_id":        t.RequestID, // nil becomes NULL
		"title":             t.Title,
		"origin":            t.Origin,
		"destination":       t.Destination,
		"trip_date":         pgDate(t.Date),
		"start_time":        pgTime(t.StartTime),
		"end_time":          pgTime(t.EndTime),
		"driver_id":         t.DriverID,
		"vehicle_id":        t.VehicleID,
		"status":            string(t.Status),
		"notes":             t.Notes,
		"origin_place":      t.OriginPlace,
		"destination_place": t.DestinationPlace,
		"updated_at":        t.UpdatedAt,
	}
}

// scanTrip maps a single database row into a domain.Trip, converting the
// DATE and TIME columns into the domain's calendar date and TimeOfDay.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t      domain.Trip
		id     pgtype.UUID
		date   pgtype.Date
		start  pgtype.Time
		end    pgtype.Time
		status string
	)

	err := s.Scan(&id, &t.TripID, &t.RequestID, &t.Title, &t.Origin, &t.Destination, &date,
		&start, &end, &t.DriverID, &t.VehicleID, &status, &t.Notes,
		&t.OriginPlace, &t.DestinationPlace, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.Date = domain.DateOf(date.Time)
	t.StartTime = timeOfDay(start)
	t.EndTime = timeOfDay(end)
	t.Status = domain.TripStatus(status)
	return t, nil
}

func pgDate(d time.Time) pgtype.Date {
	return pgtype.Date{Time: domain.DateOf(d), Valid: true}
}

func pgTime(t domain.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t) * int64(time.Minute/time.Microsecond), Valid: true}
}

func timeOfDay(t pgtype.Time) domain.TimeOfDay {
	return domain.TimeOfDay(t.Microseconds / int64(time.Minute/time.Microsecond))
}

// exclusionViolation is the SQLSTATE raised by the trips_*_no_overlap constraints.
const exclusionViolation = "23P01"

// mapPgError translates constraint violations into domain sentinels.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

package repo

import (
	"context"
	"fmt"

	"github.com/travilink/trip-scheduler/internal/domain"
)

// RosterRepo is the read-only view of drivers and vehicles. The roster is
// owned elsewhere; the scheduler only reads it for conflict scoping,
// validation and search.
type RosterRepo interface {
	// ListDrivers returns all drivers ordered by ID.
	ListDrivers(ctx context.Context) ([]domain.Driver, error)

	// ListVehicles returns all vehicles ordered by ID.
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
}

// pgRosterRepo is the Postgres implementation of RosterRepo.
type pgRosterRepo struct {
	db db
}

// NewRosterRepo constructs a RosterRepo over the drivers and vehicles tables.
func NewRosterRepo(db db) RosterRepo {
	return &pgRosterRepo{db: db}
}

func (r *pgRosterRepo) ListDrivers(ctx context.Context) ([]domain.Driver, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM drivers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("repo.RosterRepo.ListDrivers: %w", err)
	}
	defer rows.Close()

	drivers := []domain.Driver{}
	for rows.Next() {
		var d domain.Driver
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("repo.RosterRepo.ListDrivers: scan: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RosterRepo.ListDrivers: rows: %w", err)
	}
	return drivers, nil
}

func (r *pgRosterRepo) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.db.Query(ctx, `SELECT id, label, plate_no FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("repo.RosterRepo.ListVehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.Label, &v.PlateNo); err != nil {
			return nil, fmt.Errorf("repo.RosterRepo.ListVehicles: scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RosterRepo.ListVehicles: rows: %w", err)
	}
	return vehicles, nil
}

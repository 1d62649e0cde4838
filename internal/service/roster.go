package service

import (
	"context"
	"fmt"

	"github.com/travilink/trip-scheduler/internal/domain"
	"github.com/travilink/trip-scheduler/internal/repo"
)

// RosterService exposes the read-only driver and vehicle lists.
type RosterService struct {
	roster repo.RosterRepo
}

// NewRosterService constructs a RosterService.
func NewRosterService(r repo.RosterRepo) *RosterService {
	return &RosterService{roster: r}
}

// Drivers returns every driver ordered by ID.
func (s *RosterService) Drivers(ctx context.Context) ([]domain.Driver, error) {
	drivers, err := s.roster.ListDrivers(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RosterService.Drivers: %w", err)
	}
	return drivers, nil
}

// Vehicles returns every vehicle ordered by ID.
func (s *RosterService) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	vehicles, err := s.roster.ListVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.RosterService.Vehicles: %w", err)
	}
	return vehicles, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/travilink/trip-scheduler/internal/domain"
	"github.com/travilink/trip-scheduler/internal/repo"
	"github.com/travilink/trip-scheduler/internal/schedule"
)

// DashboardService computes the KPI tiles for the schedule overview.
type DashboardService struct {
	trips  repo.TripRepo
	roster repo.RosterRepo
	loc    *time.Location
	now    func() time.Time
}

// NewDashboardService constructs a DashboardService. "Today" is read in loc
// (UTC when nil) using now (time.Now when nil).
func NewDashboardService(trips repo.TripRepo, roster repo.RosterRepo, loc *time.Location, now func() time.Time) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &DashboardService{trips: trips, roster: roster, loc: loc, now: now}
}

// Summary returns the raw dashboard numbers.
func (s *DashboardService) Summary(ctx context.Context) (schedule.Summary, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return schedule.Summary{}, fmt.Errorf("service.DashboardService.Summary: %w", err)
	}
	drivers, err := s.roster.ListDrivers(ctx)
	if err != nil {
		return schedule.Summary{}, fmt.Errorf("service.DashboardService.Summary: %w", err)
	}
	return schedule.Summarize(trips, drivers, s.now().In(s.loc)), nil
}

// Kpis returns the dashboard tiles.
func (s *DashboardService) Kpis(ctx context.Context) ([]domain.Kpi, error) {
	sum, err := s.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.DashboardService.Kpis: %w", err)
	}
	return sum.Kpis(), nil
}

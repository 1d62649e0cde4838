package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travilink/trip-scheduler/internal/domain"
	"github.com/travilink/trip-scheduler/internal/repo"
	"github.com/travilink/trip-scheduler/internal/service"
)

func TestDashboardService_Kpis_CompletionRate(t *testing.T) {
	// Wednesday 2025-01-08, 12:00 UTC.
	now := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)

	var trips []domain.Trip
	for i := range 10 {
		status := domain.StatusPlanned
		if i < 6 {
			status = domain.StatusCompleted
		}
		trips = append(trips, domain.Trip{
			ID:        uuid.New(),
			Date:      domain.DateOf(now).AddDate(0, 0, -(i % 7)),
			StartTime: tod("06:00"),
			EndTime:   tod("07:00"),
			DriverID:  "d1",
			VehicleID: "v1",
			Status:    status,
		})
	}
	svc := service.NewDashboardService(
		&mockTripRepo{list: func(context.Context) ([]domain.Trip, error) { return trips, nil }},
		repo.NewMemoryRosterRepo(nil, nil),
		time.UTC,
		func() time.Time { return now },
	)

	kpis, err := svc.Kpis(context.Background())

	require.NoError(t, err)
	require.Len(t, kpis, 5)
	assert.Equal(t, "completion", kpis[2].Key)
	assert.Equal(t, "60%", kpis[2].Value)
	assert.Equal(t, "6/10 done", kpis[2].Sub)
}

func TestDashboardService_Summary_UsesConfiguredZone(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)
	// 2025-01-01 20:00 UTC is already 2025-01-02 in Manila.
	now := time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)
	trips := []domain.Trip{{
		ID: uuid.New(), Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		StartTime: tod("03:00"), EndTime: tod("05:00"),
		DriverID: "d1", VehicleID: "v1", Status: domain.StatusOngoing,
	}}
	svc := service.NewDashboardService(
		&mockTripRepo{list: func(context.Context) ([]domain.Trip, error) { return trips, nil }},
		repo.NewMemoryRosterRepo(nil, nil),
		manila,
		func() time.Time { return now },
	)

	sum, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, sum.Today)
	assert.Equal(t, 1, sum.OngoingNow)
}

func TestDashboardService_RepoError(t *testing.T) {
	boom := errors.New("boom")
	svc := service.NewDashboardService(
		&mockTripRepo{list: func(context.Context) ([]domain.Trip, error) { return nil, boom }},
		repo.NewMemoryRosterRepo(nil, nil), nil, nil)

	_, err := svc.Kpis(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestRosterService(t *testing.T) {
	svc := service.NewRosterService(repo.NewMemoryRosterRepo(nil, nil))
	ctx := context.Background()

	drivers, err := svc.Drivers(ctx)
	require.NoError(t, err)
	assert.Len(t, drivers, 3)

	vehicles, err := svc.Vehicles(ctx)
	require.NoError(t, err)
	assert.Equal(t, "MSE-2025", vehicles[2].PlateNo)
}

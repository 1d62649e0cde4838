package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travilink/trip-scheduler/internal/domain"
	"github.com/travilink/trip-scheduler/internal/repo"
	"github.com/travilink/trip-scheduler/internal/service"
)

// ---- helpers ---------------------------------------------------------------

var fixedNow = time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *service.ScheduleService
	trips *repo.MemoryTripRepo
}

func newFixture() fixture {
	trips := repo.NewMemoryTripRepo()
	svc := service.NewScheduleService(
		trips,
		repo.NewMemoryRosterRepo(nil, nil),
		service.NewTripIDAllocator(repo.NewMemorySequenceRepo(), ""),
		service.WithClock(func() time.Time { return fixedNow }),
	)
	return fixture{svc: svc, trips: trips}
}

func tod(s string) domain.TimeOfDay { return domain.MustParseTimeOfDay(s) }

func input(driver, vehicle, start, end string) domain.TripInput {
	return domain.TripInput{
		Title:       "Faculty Meeting",
		Origin:      "Main Campus",
		Destination: "City Hall",
		Date:        jan1,
		StartTime:   tod(start),
		EndTime:     tod(end),
		DriverID:    driver,
		VehicleID:   vehicle,
	}
}

func ptr[T any](v T) *T { return &v }

// ---- Create ----------------------------------------------------------------

func TestScheduleService_ExampleScenarios(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// 1. A: d1/v1 08:00-09:00.
	a, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, "TRIP-20250101-0001", a.TripID)
	assert.Equal(t, domain.StatusPlanned, a.Status)

	// 2. B: d1 08:30-09:30 collides with A on the driver.
	_, err = f.svc.Create(ctx, input("d1", "v2", "08:30", "09:30"))
	require.ErrorIs(t, err, domain.ErrConflict)
	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	require.Len(t, ce.Driver, 1)
	assert.Equal(t, a.ID, ce.Driver[0].ID)
	assert.Empty(t, ce.Vehicle)

	// 3. C: d1 09:00-10:00 is back-to-back with A.
	c, err := f.svc.Create(ctx, input("d1", "v2", "09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, "TRIP-20250101-0002", c.TripID, "a rejected create consumes no id")

	// 4. Cancel A, then book its exact slot again.
	_, err = f.svc.SetStatus(ctx, a.ID, domain.StatusCancelled)
	require.NoError(t, err)
	d, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, "TRIP-20250101-0003", d.TripID)
}

func TestScheduleService_Create_StampsAndTrims(t *testing.T) {
	f := newFixture()

	in := input("d1", "v1", "08:00", "09:00")
	in.Title = "  Airport Run  "
	in.RequestID = ptr("   ")
	in.Date = time.Date(2025, 1, 1, 18, 30, 0, 0, time.UTC)

	got, err := f.svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "Airport Run", got.Title)
	assert.Nil(t, got.RequestID, "blank request id is dropped")
	assert.True(t, got.Date.Equal(jan1), "date is normalised to midnight")
	assert.Equal(t, fixedNow, got.CreatedAt)
	assert.Equal(t, fixedNow, got.UpdatedAt)
}

func TestScheduleService_Create_VehicleConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, input("d2", "v1", "08:59", "10:00"))

	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Empty(t, ce.Driver)
	require.Len(t, ce.Vehicle, 1)
	assert.Equal(t, a.ID, ce.Vehicle[0].ID)
	assert.Contains(t, err.Error(), "Vehicle busy with Faculty Meeting (2025-01-01 08:00-09:00)")
}

func TestScheduleService_Create_OtherDateNeverConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)

	next := input("d1", "v1", "08:00", "09:00")
	next.Date = jan1.AddDate(0, 0, 1)
	got, err := f.svc.Create(ctx, next)

	require.NoError(t, err)
	assert.Equal(t, "TRIP-20250102-0001", got.TripID)
}

func TestScheduleService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.TripInput)
	}{
		{"missing driver", func(in *domain.TripInput) { in.DriverID = " " }},
		{"missing vehicle", func(in *domain.TripInput) { in.VehicleID = "" }},
		{"unknown driver", func(in *domain.TripInput) { in.DriverID = "d404" }},
		{"unknown vehicle", func(in *domain.TripInput) { in.VehicleID = "v404" }},
		{"missing date", func(in *domain.TripInput) { in.Date = time.Time{} }},
		{"end equals start", func(in *domain.TripInput) { in.EndTime = in.StartTime }},
		{"end before start", func(in *domain.TripInput) { in.EndTime = tod("07:00") }},
		{"time out of range", func(in *domain.TripInput) { in.EndTime = domain.TimeOfDay(domain.MinutesPerDay) }},
		{"unknown status", func(in *domain.TripInput) { in.Status = "PAUSED" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			in := input("d1", "v1", "08:00", "09:00")
			tc.mutate(&in)

			_, err := f.svc.Create(context.Background(), in)

			assert.ErrorIs(t, err, domain.ErrValidation)
			trips, _ := f.trips.List(context.Background())
			assert.Empty(t, trips, "nothing is persisted on validation failure")
		})
	}
}

func TestScheduleService_Create_CancelledSkipsConflictCheck(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)

	in := input("d1", "v1", "08:00", "09:00")
	in.Status = domain.StatusCancelled
	_, err = f.svc.Create(ctx, in)

	assert.NoError(t, err)
}

func TestScheduleService_Create_ConcurrentSameSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	const callers = 30
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vehicle := []string{"v1", "v2", "v3"}[i%3]
			_, err := f.svc.Create(ctx, input("d1", vehicle, "08:00", "09:00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok, "exactly one caller may book d1 for the slot")
	assert.Equal(t, callers-1, conflicts)
}

func TestScheduleService_Create_StoreConflictIsExplained(t *testing.T) {
	holder := domain.Trip{
		ID: uuid.New(), TripID: "TRIP-20250101-0009", Title: "Campus Tour",
		Date: jan1, StartTime: tod("08:00"), EndTime: tod("09:00"),
		DriverID: "d1", VehicleID: "v3", Status: domain.StatusPlanned,
	}
	calls := 0
	trips := &mockTripRepo{
		listByDate: func(context.Context, time.Time) ([]domain.Trip, error) {
			calls++
			if calls == 1 {
				return nil, nil // another process commits between check and insert
			}
			return []domain.Trip{holder}, nil
		},
		create: func(context.Context, domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrConflict
		},
	}
	svc := service.NewScheduleService(trips, repo.NewMemoryRosterRepo(nil, nil),
		service.NewTripIDAllocator(repo.NewMemorySequenceRepo(), ""))

	_, err := svc.Create(context.Background(), input("d1", "v1", "08:00", "09:00"))

	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	require.Len(t, ce.Driver, 1)
	assert.Equal(t, "TRIP-20250101-0009", ce.Driver[0].TripID)
}

func TestScheduleService_Create_RepoError(t *testing.T) {
	dbErr := errors.New("connection reset")
	trips := &mockTripRepo{
		listByDate: func(context.Context, time.Time) ([]domain.Trip, error) { return nil, nil },
		create: func(context.Context, domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, dbErr
		},
	}
	svc := service.NewScheduleService(trips, repo.NewMemoryRosterRepo(nil, nil),
		service.NewTripIDAllocator(repo.NewMemorySequenceRepo(), ""))

	_, err := svc.Create(context.Background(), input("d1", "v1", "08:00", "09:00"))

	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, domain.ErrConflict)
}

// ---- Update ----------------------------------------------------------------

func TestScheduleService_Update_TextOnlySkipsConflictCheck(t *testing.T) {
	stored := domain.Trip{
		ID: uuid.New(), TripID: "TRIP-20250101-0001", Title: "Old",
		Date: jan1, StartTime: tod("08:00"), EndTime: tod("09:00"),
		DriverID: "d1", VehicleID: "v1", Status: domain.StatusPlanned,
	}
	trips := &mockTripRepo{
		getByID: func(context.Context, uuid.UUID) (domain.Trip, error) { return stored, nil },
		listByDate: func(context.Context, time.Time) ([]domain.Trip, error) {
			t.Fatal("a text-only patch must not load the schedule")
			return nil, nil
		},
		update: func(_ context.Context, tr domain.Trip, _ time.Time) (domain.Trip, error) { return tr, nil },
	}
	svc := service.NewScheduleService(trips, repo.NewMemoryRosterRepo(nil, nil),
		service.NewTripIDAllocator(repo.NewMemorySequenceRepo(), ""),
		service.WithClock(func() time.Time { return fixedNow }))

	got, err := svc.Update(context.Background(), stored.ID, domain.TripPatch{
		Title:    ptr("New"),
		Notes:    ptr("bring ID"),
		DriverID: ptr("d1"), // unchanged value does not count as a move
	})

	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "bring ID", got.Notes)
	assert.Equal(t, fixedNow, got.UpdatedAt)
}

func TestScheduleService_Update_MoveIntoConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, input("d2", "v2", "10:00", "11:00"))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, b.ID, domain.TripPatch{DriverID: ptr("d1"), StartTime: ptr(tod("08:30"))})

	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, a.ID, ce.Driver[0].ID)

	unchanged, err := f.svc.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "d2", unchanged.DriverID, "a rejected update leaves the trip as it was")
}

func TestScheduleService_Update_ExtendOwnSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)

	got, err := f.svc.Update(ctx, a.ID, domain.TripPatch{EndTime: ptr(tod("12:00"))})

	require.NoError(t, err, "a trip never conflicts with itself")
	assert.Equal(t, tod("12:00"), got.EndTime)
	assert.Equal(t, a.TripID, got.TripID)
}

func TestScheduleService_Update_InvalidSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, a.ID, domain.TripPatch{StartTime: ptr(tod("09:30"))})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestScheduleService_Update_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Update(context.Background(), uuid.New(), domain.TripPatch{Title: ptr("x")})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduleService_Update_ClearRequestID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := input("d1", "v1", "08:00", "09:00")
	in.RequestID = ptr("REQ-7")
	a, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	require.NotNil(t, a.RequestID)

	got, err := f.svc.Update(ctx, a.ID, domain.TripPatch{ClearRequestID: true})

	require.NoError(t, err)
	assert.Nil(t, got.RequestID)
}

// ---- SetStatus -------------------------------------------------------------

func TestScheduleService_SetStatus_Lifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)

	for _, next := range []domain.TripStatus{domain.StatusOngoing, domain.StatusCompleted, domain.StatusPlanned} {
		got, err := f.svc.SetStatus(ctx, a.ID, next)
		require.NoError(t, err, "to %s", next)
		assert.Equal(t, next, got.Status)
		assert.Equal(t, a.TripID, got.TripID)
	}
}

func TestScheduleService_SetStatus_InvalidTransition(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, a.ID, domain.StatusCompleted)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	stored, _ := f.svc.GetByID(ctx, a.ID)
	assert.Equal(t, domain.StatusPlanned, stored.Status)
}

func TestScheduleService_SetStatus_UnknownStatus(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SetStatus(context.Background(), uuid.New(), "PAUSED")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestScheduleService_SetStatus_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SetStatus(context.Background(), uuid.New(), domain.StatusCancelled)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduleService_SetStatus_ReopenIntoTakenSlot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)
	_, err = f.svc.SetStatus(ctx, a.ID, domain.StatusCancelled)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, input("d1", "v2", "08:00", "09:00"))
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, a.ID, domain.StatusPlanned)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ---- Concurrent writers ----------------------------------------------------

// stallingTripRepo holds the next GetByID, once armed, until release is
// closed, so a second writer can commit in between the read and the write.
type stallingTripRepo struct {
	*repo.MemoryTripRepo
	armed   atomic.Bool
	reached chan struct{}
	release chan struct{}
}

func newStallingTripRepo() *stallingTripRepo {
	return &stallingTripRepo{
		MemoryTripRepo: repo.NewMemoryTripRepo(),
		reached:        make(chan struct{}),
		release:        make(chan struct{}),
	}
}

func (r *stallingTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	t, err := r.MemoryTripRepo.GetByID(ctx, id)
	if r.armed.CompareAndSwap(true, false) {
		close(r.reached)
		<-r.release
	}
	return t, err
}

func newServiceOver(trips repo.TripRepo) *service.ScheduleService {
	return service.NewScheduleService(trips, repo.NewMemoryRosterRepo(nil, nil),
		service.NewTripIDAllocator(repo.NewMemorySequenceRepo(), ""),
		service.WithClock(func() time.Time { return fixedNow }))
}

var moveToAfternoon = domain.TripPatch{
	DriverID:  ptr("d2"),
	StartTime: ptr(tod("14:00")),
	EndTime:   ptr(tod("15:00")),
}

func TestScheduleService_SetStatus_KeepsConcurrentMove(t *testing.T) {
	trips := newStallingTripRepo()
	svc := newServiceOver(trips)
	ctx := context.Background()

	a, err := svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)

	trips.armed.Store(true)
	errc := make(chan error, 1)
	go func() {
		_, err := svc.SetStatus(ctx, a.ID, domain.StatusOngoing)
		errc <- err
	}()
	<-trips.reached

	_, err = svc.Update(ctx, a.ID, moveToAfternoon)
	require.NoError(t, err)
	close(trips.release)
	require.NoError(t, <-errc)

	got, err := trips.MemoryTripRepo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, tod("14:00"), got.StartTime)
	assert.Equal(t, tod("15:00"), got.EndTime)
	assert.Equal(t, "d2", got.DriverID)
	assert.Equal(t, domain.StatusOngoing, got.Status)
}

func TestScheduleService_Update_TextEditKeepsConcurrentMove(t *testing.T) {
	trips := newStallingTripRepo()
	svc := newServiceOver(trips)
	ctx := context.Background()

	a, err := svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)

	trips.armed.Store(true)
	errc := make(chan error, 1)
	go func() {
		_, err := svc.Update(ctx, a.ID, domain.TripPatch{Title: ptr("Campus Tour")})
		errc <- err
	}()
	<-trips.reached

	_, err = svc.Update(ctx, a.ID, moveToAfternoon)
	require.NoError(t, err)
	close(trips.release)
	require.NoError(t, <-errc)

	got, err := trips.MemoryTripRepo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Campus Tour", got.Title)
	assert.Equal(t, tod("14:00"), got.StartTime)
	assert.Equal(t, "d2", got.DriverID)
}

func TestScheduleService_UpdatedAtAlwaysAdvances(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)

	b, err := f.svc.Update(ctx, a.ID, domain.TripPatch{Title: ptr("x")})
	require.NoError(t, err)
	c, err := f.svc.SetStatus(ctx, a.ID, domain.StatusOngoing)
	require.NoError(t, err)

	assert.True(t, b.UpdatedAt.After(a.UpdatedAt), "frozen clock still yields a newer stamp")
	assert.True(t, c.UpdatedAt.After(b.UpdatedAt))
}

func TestScheduleService_SetStatus_GivesUpWhenAlwaysStale(t *testing.T) {
	stored := domain.Trip{
		ID: uuid.New(), TripID: "TRIP-20250101-0001",
		Date: jan1, StartTime: tod("08:00"), EndTime: tod("09:00"),
		DriverID: "d1", VehicleID: "v1", Status: domain.StatusPlanned,
	}
	writes := 0
	trips := &mockTripRepo{
		getByID: func(context.Context, uuid.UUID) (domain.Trip, error) { return stored, nil },
		update: func(context.Context, domain.Trip, time.Time) (domain.Trip, error) {
			writes++
			return domain.Trip{}, domain.ErrStale
		},
	}
	svc := newServiceOver(trips)

	_, err := svc.SetStatus(context.Background(), stored.ID, domain.StatusOngoing)

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, domain.ErrStale)
	assert.Equal(t, 3, writes)
}

// ---- DeleteMany ------------------------------------------------------------

func TestScheduleService_DeleteMany_DoesNotRecycleIDs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)

	n, err := f.svc.DeleteMany(ctx, []uuid.UUID{a.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	next, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, "TRIP-20250101-0002", next.TripID)
}

func TestScheduleService_DeleteMany_Empty(t *testing.T) {
	svc := service.NewScheduleService(&mockTripRepo{}, nil, nil)

	n, err := svc.DeleteMany(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, n)
}

// ---- Reads -----------------------------------------------------------------

func TestScheduleService_PeekTripID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	peek, err := f.svc.PeekTripID(ctx, jan1)
	require.NoError(t, err)
	again, err := f.svc.PeekTripID(ctx, jan1)
	require.NoError(t, err)
	assert.Equal(t, peek, again)

	created, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, peek, created.TripID)

	_, err = f.svc.PeekTripID(ctx, time.Time{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestScheduleService_Query(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i, slot := range [][2]string{{"08:00", "09:00"}, {"09:00", "10:00"}, {"10:00", "11:00"}} {
		in := input("d1", "v1", slot[0], slot[1])
		if i == 1 {
			in.DriverID = "d2"
		}
		_, err := f.svc.Create(ctx, in)
		require.NoError(t, err)
	}

	page, err := f.svc.Query(ctx, service.TripQuery{
		Filter: domain.TripFilter{Search: "maria"},
		Page:   domain.NewPaginationParams(nil, nil),
	})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total, "search resolves driver names")
	assert.Equal(t, "d2", page.Trips[0].DriverID)

	page, err = f.svc.Query(ctx, service.TripQuery{
		Filter:     domain.TripFilter{DriverID: "d1"},
		Descending: true,
		Page:       domain.NewPaginationParams(ptr(1), ptr(1)),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Trips, 1)
	assert.Equal(t, tod("10:00"), page.Trips[0].StartTime)
}

func TestScheduleService_Availability(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, input("d1", "v1", "08:00", "09:00"))
	require.NoError(t, err)

	got, err := f.svc.Availability(ctx, service.AvailabilityQuery{Date: jan1, Start: tod("08:30"), End: tod("09:30")})
	require.NoError(t, err)

	require.Len(t, got.Drivers, 3)
	assert.True(t, got.Drivers[0].Busy())
	assert.Equal(t, a.ID, got.Drivers[0].Conflicts[0].ID)
	assert.False(t, got.Drivers[1].Busy())
	assert.True(t, got.Vehicles[0].Busy())
	assert.False(t, got.Vehicles[2].Busy())

	got, err = f.svc.Availability(ctx, service.AvailabilityQuery{Date: jan1, Start: tod("08:30"), End: tod("09:30"), ExcludeID: a.ID})
	require.NoError(t, err)
	assert.False(t, got.Drivers[0].Busy(), "the trip being edited is ignored")

	_, err = f.svc.Availability(ctx, service.AvailabilityQuery{Date: jan1, Start: tod("10:00"), End: tod("09:00")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

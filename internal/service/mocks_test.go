package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/travilink/trip-scheduler/internal/domain"
	"github.com/travilink/trip-scheduler/internal/repo"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	create     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list       func(ctx context.Context) ([]domain.Trip, error)
	listByDate func(ctx context.Context, date time.Time) ([]domain.Trip, error)
	update     func(ctx context.Context, trip domain.Trip, seen time.Time) (domain.Trip, error)
	deleteMany func(ctx context.Context, ids []uuid.UUID) (int64, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) ListByDate(ctx context.Context, date time.Time) ([]domain.Trip, error) {
	return m.listByDate(ctx, date)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip, seen time.Time) (domain.Trip, error) {
	return m.update(ctx, trip, seen)
}
func (m *mockTripRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return m.deleteMany(ctx, ids)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// mockSequenceRepo is a hand-written test double for repo.SequenceRepo.
type mockSequenceRepo struct {
	current   func(ctx context.Context, date time.Time) (int, error)
	increment func(ctx context.Context, date time.Time) (int, error)
}

func (m *mockSequenceRepo) Current(ctx context.Context, date time.Time) (int, error) {
	return m.current(ctx, date)
}
func (m *mockSequenceRepo) Increment(ctx context.Context, date time.Time) (int, error) {
	return m.increment(ctx, date)
}

var _ repo.SequenceRepo = (*mockSequenceRepo)(nil)

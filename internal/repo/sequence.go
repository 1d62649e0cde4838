package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/travilink/trip-scheduler/internal/domain"
)

// SequenceRepo is the per-date counter behind trip identifiers.
// Counters start at zero, only ever grow, and are never reset.
type SequenceRepo interface {
	// Current returns the last value handed out for date, or 0 if none.
	// It never writes.
	Current(ctx context.Context, date time.Time) (int, error)

	// Increment atomically bumps the counter for date and returns the new
	// value. Concurrent callers for the same date always get distinct values.
	Increment(ctx context.Context, date time.Time) (int, error)
}

// pgSequenceRepo is the Postgres implementation of SequenceRepo.
type pgSequenceRepo struct {
	db db
}

// NewSequenceRepo constructs a SequenceRepo backed by the trip_sequences table.
func NewSequenceRepo(db db) SequenceRepo {
	return &pgSequenceRepo{db: db}
}

// Current reads the counter without locking or creating the row.
func (r *pgSequenceRepo) Current(ctx context.Context, date time.Time) (int, error) {
	const q = `SELECT last_value FROM trip_sequences WHERE seq_date = @seq_date`

	var n int
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"seq_date": pgDate(date)}).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("repo.SequenceRepo.Current: %w", err)
	}
	return n, nil
}

// Increment upserts the counter row. The row lock taken by ON CONFLICT DO
// UPDATE serializes concurrent increments for the same date.
func (r *pgSequenceRepo) Increment(ctx context.Context, date time.Time) (int, error) {
	const q = `
		INSERT INTO trip_sequences (seq_date, last_value)
		VALUES (@seq_date, 1)
		ON CONFLICT (seq_date) DO UPDATE SET last_value = trip_sequences.last_value + 1
		RETURNING last_value`

	var n int
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"seq_date": pgDate(date)}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.SequenceRepo.Increment: %w", err)
	}
	return n, nil
}

// sequenceKey is the date component shared by every counter backend.
func sequenceKey(date time.Time) string {
	return domain.DateOf(date).Format("20060102")
}

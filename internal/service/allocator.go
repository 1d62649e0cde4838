package service

import (
	"context"
	"fmt"
	"time"

	"github.com/travilink/trip-scheduler/internal/domain"
	"github.com/travilink/trip-scheduler/internal/repo"
)

// TripIDAllocator hands out PREFIX-YYYYMMDD-NNNN identifiers from a per-date
// counter. Identifiers are never reused: a failed create after Allocate only
// leaves a gap.
type TripIDAllocator struct {
	seq    repo.SequenceRepo
	prefix string
}

// NewTripIDAllocator constructs an allocator over seq. An empty prefix
// falls back to domain.DefaultTripIDPrefix.
func NewTripIDAllocator(seq repo.SequenceRepo, prefix string) *TripIDAllocator {
	if prefix == "" {
		prefix = domain.DefaultTripIDPrefix
	}
	return &TripIDAllocator{seq: seq, prefix: prefix}
}

// Peek returns the identifier the next Allocate for date would produce,
// without reserving it. Two Peeks in a row return the same value.
func (a *TripIDAllocator) Peek(ctx context.Context, date time.Time) (string, error) {
	n, err := a.seq.Current(ctx, date)
	if err != nil {
		return "", fmt.Errorf("service.TripIDAllocator.Peek: %w", err)
	}
	return domain.FormatTripID(a.prefix, date, n+1), nil
}

// Allocate reserves and returns the next identifier for date.
func (a *TripIDAllocator) Allocate(ctx context.Context, date time.Time) (string, error) {
	n, err := a.seq.Increment(ctx, date)
	if err != nil {
		return "", fmt.Errorf("service.TripIDAllocator.Allocate: %w", err)
	}
	return domain.FormatTripID(a.prefix, date, n), nil
}

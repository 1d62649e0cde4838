package service

import (
	"slices"
	"sync"
	"time"

	"github.com/travilink/trip-scheduler/internal/domain"
)

// keyedLocker is a set of mutexes created on demand per key. Entries are
// reference counted and dropped once nobody holds or waits for them.
type keyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocker() *keyedLocker {
	return &keyedLocker{locks: make(map[string]*keyedLock)}
}

// Lock acquires every key and returns a func releasing them all. Keys are
// deduplicated and taken in sorted order so two callers locking overlapping
// sets cannot deadlock.
func (l *keyedLocker) Lock(keys ...string) (unlock func()) {
	keys = slices.Clone(keys)
	slices.Sort(keys)
	keys = slices.Compact(keys)

	held := make([]*keyedLock, 0, len(keys))
	for _, k := range keys {
		l.mu.Lock()
		e, ok := l.locks[k]
		if !ok {
			e = &keyedLock{}
			l.locks[k] = e
		}
		e.refs++
		l.mu.Unlock()

		e.mu.Lock()
		held = append(held, e)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.mu.Lock()
			held[i].refs--
			if held[i].refs == 0 {
				delete(l.locks, keys[i])
			}
			l.mu.Unlock()
		}
	}
}

// size reports how many keys currently have an entry.
func (l *keyedLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// slotKeys names the resources a trip on date occupies.
func slotKeys(date time.Time, driverID, vehicleID string) []string {
	day := domain.DateOf(date).Format(domain.DateLayout)
	return []string{
		day + "/driver/" + driverID,
		day + "/vehicle/" + vehicleID,
	}
}

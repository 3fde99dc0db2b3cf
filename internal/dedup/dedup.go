// Package dedup guards the at-most-once-per-day firing rule. The matcher
// happily answers yes on every tick inside the firing window, so the
// scheduler claims a per-reminder-per-day marker before dispatching and
// fires only when the claim is fresh.
package dedup

import (
	"context"
	"sync"
)

// Markers records first firings. Implementations must make concurrent
// FirstFiring calls for the same reminder and day yield true exactly once.
// The day is the calendar date of the scheduled instant, so ticks straddling
// midnight contend for the same marker.
type Markers interface {
	FirstFiring(ctx context.Context, reminderID, day string) (bool, error)
}

// Memory keeps markers in process memory: the last claimed day per reminder
// id, overwritten on each new day. Entries for ids that never fire again
// (one-off test reminders) linger, a few dozen bytes each. Markers are lost
// on restart, which at worst repeats a firing still inside its window.
type Memory struct {
	mu    sync.Mutex
	fired map[string]string // reminder id -> day key
}

// NewMemory creates an empty in-process marker store.
func NewMemory() *Memory {
	return &Memory{fired: make(map[string]string)}
}

// FirstFiring claims the marker for reminderID on day. The claim is made
// under the lock, so exactly one caller wins.
func (m *Memory) FirstFiring(_ context.Context, reminderID, day string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fired[reminderID] == day {
		return false, nil
	}
	m.fired[reminderID] = day
	return true, nil
}

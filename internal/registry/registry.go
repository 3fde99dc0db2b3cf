// Package registry keeps the in-memory set of enabled reminders the
// scheduler evaluates. It is a cache over the durable store: full reloads
// and targeted mutations replace its contents, nothing is diffed
// automatically.
package registry

import (
	"sort"
	"sync"

	"github.com/wb-go/wbf/zlog"

	"github.com/aquatrack/reminderd/internal/model"
)

// Registry holds one process's active reminders. All mutations funnel
// through a single lock so a remove racing a scheduler tick can never
// resurrect a deleted record.
type Registry struct {
	mu        sync.RWMutex
	reminders map[string]model.Reminder
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{reminders: make(map[string]model.Reminder)}
}

// ReplaceAll swaps the whole set for the given records, admitting only
// valid, enabled ones. Invalid rows are logged and dropped so a malformed
// store row can never reach the scheduler. Returns the number admitted.
func (r *Registry) ReplaceAll(reminders []model.Reminder) int {
	next := make(map[string]model.Reminder, len(reminders))
	for _, rem := range reminders {
		if !rem.Enabled {
			continue
		}
		if err := rem.Validate(); err != nil {
			zlog.Logger.Warn().Err(err).Str("id", rem.ID).Msg("registry: dropping invalid reminder")
			continue
		}
		next[rem.ID] = rem
	}

	r.mu.Lock()
	r.reminders = next
	r.mu.Unlock()

	return len(next)
}

// Upsert admits a single record, mirroring a store write that already
// happened. Disabled records are removed outright rather than kept and
// skipped.
func (r *Registry) Upsert(rem model.Reminder) error {
	if !rem.Enabled {
		r.Remove(rem.ID)
		return nil
	}
	if err := rem.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.reminders[rem.ID] = rem
	r.mu.Unlock()
	return nil
}

// Update applies a partial change to a held record. It returns false when
// the id is unknown. Patching Enabled to false evicts the record.
func (r *Registry) Update(id string, patch model.ReminderPatch) (model.Reminder, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.reminders[id]
	if !ok {
		return model.Reminder{}, false, nil
	}

	updated := patch.Apply(current)
	if !updated.Enabled {
		delete(r.reminders, id)
		return updated, true, nil
	}
	if err := updated.Validate(); err != nil {
		return model.Reminder{}, true, err
	}

	r.reminders[id] = updated
	return updated, true, nil
}

// Remove drops a record by id. Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.reminders, id)
	r.mu.Unlock()
}

// ByID looks up a held record.
func (r *Registry) ByID(id string) (model.Reminder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rem, ok := r.reminders[id]
	return rem, ok
}

// ByOwner returns the held records belonging to one owner, ordered by time
// of day for stable query responses.
func (r *Registry) ByOwner(ownerID string) []model.Reminder {
	r.mu.RLock()
	owned := make([]model.Reminder, 0, 4)
	for _, rem := range r.reminders {
		if rem.OwnerID == ownerID {
			owned = append(owned, rem)
		}
	}
	r.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		if owned[i].TimeOfDay != owned[j].TimeOfDay {
			return owned[i].TimeOfDay < owned[j].TimeOfDay
		}
		return owned[i].ID < owned[j].ID
	})
	return owned
}

// Snapshot copies the current set for one evaluation pass. The scheduler
// iterates the copy, so concurrent mutations affect the next tick, not the
// running one.
func (r *Registry) Snapshot() []model.Reminder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]model.Reminder, 0, len(r.reminders))
	for _, rem := range r.reminders {
		all = append(all, rem)
	}
	return all
}

// Len reports the number of held records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.reminders)
}

// Clear empties the registry on shutdown.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.reminders = make(map[string]model.Reminder)
	r.mu.Unlock()
}

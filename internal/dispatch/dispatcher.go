// Package dispatch turns fired reminders into wire events and routes them
// to the connection set, with an optional detour through the fallback queue
// for owners who are not connected.
package dispatch

import (
	"time"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aquatrack/reminderd/internal/config"
	"github.com/aquatrack/reminderd/internal/model"
	"github.com/aquatrack/reminderd/internal/rabbitmq/queue"
)

// connections is the slice of the hub the dispatcher pushes through.
type connections interface {
	Broadcast(event model.Event)
	SendToOwner(ownerID string, event model.Event)
	OwnerOnline(ownerID string) bool
}

// fallbackPublisher parks events for offline owners.
type fallbackPublisher interface {
	Publish(msg queue.FallbackMessage, strategy retry.Strategy) error
}

// Dispatcher builds notification events and fans them out. Delivery is
// fire-and-forget: nothing is acknowledged, retried or persisted on the
// push path.
type Dispatcher struct {
	conns    connections
	fallback fallbackPublisher // nil when fallback delivery is disabled
	scope    string
	strategy retry.Strategy
}

// New creates a dispatcher routing per the given scope. ScopeAll pushes
// every fired reminder to every open connection, owners included or not;
// ScopeOwner confines a reminder to its owner's connections.
func New(conns connections, scope string, strategy retry.Strategy) *Dispatcher {
	return &Dispatcher{conns: conns, scope: scope, strategy: strategy}
}

// EnableFallback routes fired reminders for offline owners into the queue.
func (d *Dispatcher) EnableFallback(pub fallbackPublisher) {
	d.fallback = pub
}

// Reminder pushes a fired reminder to the connection set and, when the
// owner has no open connection and fallback is enabled, parks it on the
// fallback queue. A publish failure is logged and dropped; the push path
// never blocks on the broker.
func (d *Dispatcher) Reminder(r model.Reminder, at time.Time) {
	event := model.ReminderEvent(r, at)

	if d.scope == config.ScopeOwner {
		d.conns.SendToOwner(r.OwnerID, event)
	} else {
		d.conns.Broadcast(event)
	}

	if d.fallback == nil || d.conns.OwnerOnline(r.OwnerID) {
		return
	}

	msg := queue.FallbackMessage{
		ReminderID: r.ID,
		OwnerID:    r.OwnerID,
		Title:      r.Title,
		Message:    r.Prompt(),
		FiredAt:    at.UTC(),
	}
	if err := d.fallback.Publish(msg, d.strategy); err != nil {
		zlog.Logger.Error().Err(err).
			Str("reminder_id", r.ID).
			Str("owner_id", r.OwnerID).
			Msg("failed to enqueue fallback delivery")
	}
}

// Test broadcasts a test notification stamped with the requesting owner's
// id to every open connection.
func (d *Dispatcher) Test(ownerID string, at time.Time) {
	d.conns.Broadcast(model.NewEvent(model.EventTest, model.TestPayload{
		OwnerID: ownerID,
		Message: "This is a test notification.",
	}, at))
}
